package chat

import (
	"strings"

	"github.com/trainew/trainew/internal/textutil"
)

// videoSearchQueries maps normalized exercise names to curated YouTube search
// queries. Names not listed here get a synthesized query.
var videoSearchQueries = map[string]string{
	"supino":            "supino+reto+como+fazer+correto",
	"supino reto":       "supino+reto+técnica+correta",
	"supino inclinado":  "supino+inclinado+execução",
	"agachamento":       "agachamento+livre+forma+correta",
	"agachamento livre": "agachamento+livre+técnica",
	"rosca":             "rosca+direta+bíceps+forma+correta",
	"rosca direta":      "rosca+direta+execução+perfeita",
	"rosca alternada":   "rosca+alternada+halteres",
	"rosca martelo":     "rosca+martelo+técnica",
	"puxada":            "puxada+frontal+costas+execução",
	"puxada frontal":    "puxada+frontal+forma+correta",
	"remada":            "remada+curvada+costas+técnica",
	"remada curvada":    "remada+curvada+execução",
	"leg press":         "leg+press+45+graus+forma+correta",
	"desenvolvimento":   "desenvolvimento+militar+ombros",
	"crucifixo":         "crucifixo+reto+peitoral+execução",
	"stiff":             "stiff+posterior+coxa+técnica",
	"triceps":           "tríceps+testa+execução+correta",
	"triceps testa":     "tríceps+testa+forma+perfeita",
	"triceps corda":     "tríceps+corda+polia+execução",
}

// VideoURL builds a YouTube search link for an exercise tutorial. Curated
// queries are preferred; everything else searches for the name plus a "how to
// do it right" suffix.
func VideoURL(exerciseName string) string {
	normalized := textutil.Normalize(exerciseName)

	query, ok := videoSearchQueries[normalized]
	if !ok {
		query = strings.Join(strings.Fields(exerciseName), "+") + "+como+fazer+correto"
	}

	return "https://www.youtube.com/results?search_query=" + query
}
