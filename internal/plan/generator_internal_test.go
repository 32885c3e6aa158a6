package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/trainew/trainew/internal/catalog"
)

// testPool builds a pool with enough exercises per muscle group to satisfy any
// session length, mixing gym and home entries.
func testPool() []catalog.Exercise {
	groups := []string{"Peito", "Costas", "Pernas", "Glúteos", "Panturrilha", "Ombros", "Bíceps", "Tríceps", "Abdômen"}
	var pool []catalog.Exercise
	for _, group := range groups {
		for i := range 6 {
			location := catalog.LocationGym
			if i >= 4 {
				location = catalog.LocationHome
			}
			pool = append(pool, catalog.Exercise{
				ID:        fmt.Sprintf("%s-%d", group, i),
				Name:      fmt.Sprintf("%s exercise %d", group, i),
				BodyParts: []string{group},
				Location:  location,
			})
		}
	}
	return pool
}

func TestGenerate(t *testing.T) {
	prefs := DefaultPreferences()

	generated, err := Generate(prefs, testPool())
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	if got, want := generated.DaysPerWeek, 3; got != want {
		t.Errorf("got %d days per week, want %d", got, want)
	}
	if got, want := len(generated.Workouts), 3; got != want {
		t.Fatalf("got %d workouts, want %d", got, want)
	}

	wantSplit := []string{
		"Treino A - Push (Empurrar)",
		"Treino B - Pull (Puxar)",
		"Treino C - Legs (Pernas)",
	}
	if diff := cmp.Diff(wantSplit, generated.Split); diff != "" {
		t.Errorf("split mismatch (-want +got):\n%s", diff)
	}

	// Medium sessions get 3 exercises per muscle group.
	for _, workout := range generated.Workouts {
		if got, want := len(workout.Exercises), 3*len(workout.Groups); got != want {
			t.Errorf("workout %s: got %d exercises, want %d", workout.Name, got, want)
		}
	}

	// Intermediate prescription with the abdominal override.
	for _, ex := range generated.Workouts[2].Exercises {
		if got, want := ex.Sets, 4; got != want {
			t.Errorf("exercise %s: got %d sets, want %d", ex.Name, got, want)
		}
		if ex.HasBodyPart("Abdômen") {
			if ex.Reps != "15-20" || ex.Rest != "30-45s" {
				t.Errorf("abdominal exercise %s: got %s reps / %s rest, want 15-20 / 30-45s", ex.Name, ex.Reps, ex.Rest)
			}
		}
	}
}

func TestGenerate_splitFallback(t *testing.T) {
	for _, days := range []int{0, 1, 7, 12} {
		prefs := DefaultPreferences()
		prefs.DaysAvailable = days

		generated, err := Generate(prefs, testPool())
		if err != nil {
			t.Fatalf("generate plan for %d days: %v", days, err)
		}
		if got, want := len(generated.Workouts), 3; got != want {
			t.Errorf("%d days: got %d workouts, want the 3-day fallback", days, got)
		}
		// The requested day count is echoed back even when the split falls back.
		if got, want := generated.DaysPerWeek, days; got != want {
			t.Errorf("%d days: got DaysPerWeek %d, want %d", days, got, want)
		}
	}
}

func TestGenerate_gymHomeMix(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.Location = catalog.LocationGym

	generated, err := Generate(prefs, testPool())
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	// Medium sessions select 3 per group: ceil(3*0.7) = 3 gym, 0 home. Long
	// sessions select 4: 3 gym, 1 home finisher.
	prefs.SessionLength = SessionLong
	long, err := Generate(prefs, testPool())
	if err != nil {
		t.Fatalf("generate long plan: %v", err)
	}

	for _, workout := range generated.Workouts {
		for _, ex := range workout.Exercises {
			if ex.Location != catalog.LocationGym {
				t.Errorf("medium gym plan includes home exercise %s", ex.Name)
			}
		}
	}

	for _, workout := range long.Workouts {
		perGroup := make(map[string][]Exercise)
		for _, ex := range workout.Exercises {
			perGroup[ex.BodyParts[0]] = append(perGroup[ex.BodyParts[0]], ex)
		}
		for group, exercises := range perGroup {
			var home int
			for _, ex := range exercises {
				if ex.Location == catalog.LocationHome {
					home++
				}
			}
			if home != 1 {
				t.Errorf("workout %s group %s: got %d home finishers, want 1", workout.Name, group, home)
			}
		}
	}
}

func TestGenerate_homeOnly(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.Location = catalog.LocationHome

	generated, err := Generate(prefs, testPool())
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	for _, workout := range generated.Workouts {
		for _, ex := range workout.Exercises {
			if ex.Location != catalog.LocationHome {
				t.Errorf("home plan includes gym exercise %s", ex.Name)
			}
		}
	}
}

func TestGenerate_restrictions(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.DaysAvailable = 2
	prefs.Restrictions = []string{"costas"}

	generated, err := Generate(prefs, testPool())
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	// The back group is restricted away and silently contributes nothing.
	for _, workout := range generated.Workouts {
		for _, ex := range workout.Exercises {
			if ex.HasBodyPart("Costas") {
				t.Errorf("restricted plan includes back exercise %s", ex.Name)
			}
		}
	}
}

func TestGenerate_emptyPool(t *testing.T) {
	if _, err := Generate(DefaultPreferences(), nil); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("got error %v, want ErrEmptyCatalog", err)
	}
}

func TestGenerate_notes(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.Goal = GoalWeightLoss
	prefs.Level = LevelBeginner

	generated, err := Generate(prefs, testPool())
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	joined := strings.Join(generated.Notes, "\n")
	for _, want := range []string{"emagrecer", "Iniciante", "Cardio"} {
		if !strings.Contains(joined, want) {
			t.Errorf("notes missing %q:\n%s", want, joined)
		}
	}
}

func TestPlan_jsonFieldNames(t *testing.T) {
	generated, err := Generate(DefaultPreferences(), testPool())
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	raw, err := json.Marshal(generated)
	if err != nil {
		t.Fatalf("marshal plan: %v", err)
	}

	// The persisted field names are a compatibility contract.
	for _, field := range []string{"diasPorSemana", "divisao", "treinos", "nome", "grupos", "exercicios", "series", "repeticoes", "descanso", "observacoes", "location"} {
		if !strings.Contains(string(raw), `"`+field+`"`) {
			t.Errorf("marshalled plan missing field %q", field)
		}
	}
}

func TestPreferencesFromMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Preferences
	}{
		{
			name:    "defaults",
			message: "quero um treino",
			want:    DefaultPreferences(),
		},
		{
			name:    "days and home",
			message: "treino 4 dias em casa",
			want: Preferences{
				DaysAvailable: 4,
				Location:      catalog.LocationHome,
				Goal:          GoalHypertrophy,
				Level:         LevelIntermediate,
				Restrictions:  []string{},
				SessionLength: SessionMedium,
			},
		},
		{
			name:    "5x beginner weight loss",
			message: "sou iniciante, quero emagrecer treinando 5x na academia",
			want: Preferences{
				DaysAvailable: 5,
				Location:      catalog.LocationGym,
				Goal:          GoalWeightLoss,
				Level:         LevelBeginner,
				Restrictions:  []string{},
				SessionLength: SessionMedium,
			},
		},
		{
			name:    "advanced long sessions with knee restriction",
			message: "avançado, tenho muito tempo, problema no joelho, 6 vezes",
			want: Preferences{
				DaysAvailable: 6,
				Location:      catalog.LocationGym,
				Goal:          GoalHypertrophy,
				Level:         LevelAdvanced,
				Restrictions:  []string{"joelho"},
				SessionLength: SessionLong,
			},
		},
		{
			name:    "both locations",
			message: "treino em casa e na academia 3 dias",
			want: Preferences{
				DaysAvailable: 3,
				Location:      LocationBoth,
				Goal:          GoalHypertrophy,
				Level:         LevelIntermediate,
				Restrictions:  []string{},
				SessionLength: SessionMedium,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PreferencesFromMessage(tt.message)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("preferences mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
