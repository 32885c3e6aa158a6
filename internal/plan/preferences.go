package plan

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/trainew/trainew/internal/catalog"
)

var daysPattern = regexp.MustCompile(`(?i)(\d+)\s*(dias?|x|vezes)`)

// restrictionKeywords are the joint complaints recognized in free text. Each
// one excludes exercises whose body-part tags mention it.
var restrictionKeywords = []string{"joelho", "ombro", "costas", "lombar", "pulso", "cotovelo"}

// PreferencesFromMessage extracts workout preferences from a free-form chat
// message, falling back to defaults for anything the message does not mention.
func PreferencesFromMessage(message string) Preferences {
	lower := strings.ToLower(message)
	prefs := DefaultPreferences()

	if m := daysPattern.FindStringSubmatch(lower); m != nil {
		if days, err := strconv.Atoi(m[1]); err == nil {
			prefs.DaysAvailable = days
		}
	}

	mentionsHome := strings.Contains(lower, "casa")
	mentionsGym := strings.Contains(lower, "academia")
	switch {
	case mentionsHome && mentionsGym:
		prefs.Location = LocationBoth
	case mentionsHome:
		prefs.Location = catalog.LocationHome
	case mentionsGym:
		prefs.Location = catalog.LocationGym
	}

	if strings.Contains(lower, "iniciante") || strings.Contains(lower, "começ") {
		prefs.Level = LevelBeginner
	} else if strings.Contains(lower, "avançado") || strings.Contains(lower, "avanc") {
		prefs.Level = LevelAdvanced
	}

	if containsAny(lower, "emagrec", "perd", "defin") {
		prefs.Goal = GoalWeightLoss
	} else if containsAny(lower, "gan", "mass", "hipertrofi") {
		prefs.Goal = GoalHypertrophy
	}

	if containsAny(lower, "pouco tempo", "30 min", "rápid") {
		prefs.SessionLength = SessionShort
	} else if containsAny(lower, "muito tempo", "90 min", "2 hora") {
		prefs.SessionLength = SessionLong
	}

	for _, restriction := range restrictionKeywords {
		if strings.Contains(lower, restriction) {
			prefs.Restrictions = append(prefs.Restrictions, restriction)
		}
	}

	return prefs
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
