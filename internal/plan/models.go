// Package plan generates personalized weekly workout plans from the exercise
// catalog and user preferences.
package plan

import "github.com/trainew/trainew/internal/catalog"

// Training goal constants.
const (
	GoalHypertrophy = "hipertrofia"
	GoalWeightLoss  = "emagrecimento"
)

// Experience level constants.
const (
	LevelBeginner     = "iniciante"
	LevelIntermediate = "intermediario"
	LevelAdvanced     = "avancado"
)

// Session length constants.
const (
	SessionShort  = "curto" // 30-45min
	SessionMedium = "medio" // 60min
	SessionLong   = "longo" // 90min+
)

// LocationBoth means the user trains both at the gym and at home.
const LocationBoth = "ambos"

// Preferences describes what the user wants out of a plan.
type Preferences struct {
	DaysAvailable int
	Location      string // catalog.LocationGym, catalog.LocationHome or LocationBoth
	Goal          string
	Level         string
	Restrictions  []string
	SessionLength string
}

// DefaultPreferences returns the preferences assumed when the user says
// nothing specific.
func DefaultPreferences() Preferences {
	return Preferences{
		DaysAvailable: 3,
		Location:      catalog.LocationGym,
		Goal:          GoalHypertrophy,
		Level:         LevelIntermediate,
		Restrictions:  []string{},
		SessionLength: SessionMedium,
	}
}

// Exercise is a catalog entry with a training prescription attached.
type Exercise struct {
	catalog.Exercise

	Sets int    `json:"series"`
	Reps string `json:"repeticoes"`
	Rest string `json:"descanso"`
}

// Workout is one training day of a plan.
type Workout struct {
	Name      string     `json:"nome"`
	Groups    []string   `json:"grupos"`
	Exercises []Exercise `json:"exercicios"`
}

// Plan is a complete weekly workout plan. The JSON field names are the
// persisted plan contract and must not change.
type Plan struct {
	DaysPerWeek int       `json:"diasPorSemana"`
	Split       []string  `json:"divisao"`
	Workouts    []Workout `json:"treinos"`
	Notes       []string  `json:"observacoes"`
}
