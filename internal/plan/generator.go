package plan

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/trainew/trainew/internal/catalog"
	"github.com/trainew/trainew/internal/errors"
)

// ErrEmptyCatalog is returned when no exercises are available to build a plan
// from, typically because the catalog could not be loaded.
var ErrEmptyCatalog = errors.NewSentinel("no exercises available for plan generation")

// Gym/home exercise mix for longer gym sessions.
const gymShare = 0.7

// exercisesPerGroup maps session length to how many exercises each muscle
// group gets.
var exercisesPerGroup = map[string]int{
	SessionShort:  2,
	SessionMedium: 3,
	SessionLong:   4,
}

// prescription is the sets/reps/rest scheme for one exercise.
type prescription struct {
	sets int
	reps string
	rest string
}

var levelPrescriptions = map[string]prescription{
	LevelBeginner:     {sets: 3, reps: "12-15", rest: "60-90s"},
	LevelIntermediate: {sets: 4, reps: "10-12", rest: "60-75s"},
	LevelAdvanced:     {sets: 4, reps: "8-12", rest: "45-60s"},
}

// prescriptionFor returns the scheme for a level, adjusted for high-rep groups.
func prescriptionFor(level, group string) prescription {
	p, ok := levelPrescriptions[level]
	if !ok {
		p = levelPrescriptions[LevelIntermediate]
	}

	switch group {
	case "Abdômen":
		p.reps = "15-20"
		p.rest = "30-45s"
	case "Panturrilha":
		p.reps = "15-20"
		p.rest = "45-60s"
	}

	return p
}

// Generate builds a weekly plan from the exercise pool according to the given
// preferences. The pool is usually the full catalog; location and restriction
// filters are applied here.
func Generate(prefs Preferences, pool []catalog.Exercise) (Plan, error) {
	if len(pool) == 0 {
		return Plan{}, errors.Wrap(ErrEmptyCatalog, "generate plan")
	}

	available := filterByRestrictions(pool, prefs.Restrictions)

	split := splitFor(prefs.DaysAvailable)

	workouts := make([]Workout, 0, len(split))
	splitNames := make([]string, 0, len(split))
	for _, day := range split {
		workouts = append(workouts, buildWorkoutDay(day, available, prefs))
		splitNames = append(splitNames, day.name)
	}

	return Plan{
		DaysPerWeek: prefs.DaysAvailable,
		Split:       splitNames,
		Workouts:    workouts,
		Notes:       workoutNotes(prefs.Goal, prefs.Level, prefs.Location),
	}, nil
}

// filterByRestrictions drops exercises whose body-part tags mention a
// restricted joint or region.
func filterByRestrictions(pool []catalog.Exercise, restrictions []string) []catalog.Exercise {
	if len(restrictions) == 0 {
		return pool
	}
	var filtered []catalog.Exercise
	for _, ex := range pool {
		if !restricted(ex, restrictions) {
			filtered = append(filtered, ex)
		}
	}
	return filtered
}

func restricted(ex catalog.Exercise, restrictions []string) bool {
	for _, restriction := range restrictions {
		lower := strings.ToLower(restriction)
		for _, part := range ex.BodyParts {
			if strings.Contains(strings.ToLower(part), lower) {
				return true
			}
		}
	}
	return false
}

// buildWorkoutDay assembles one training day: for each muscle group in the
// split, pick a varied selection and attach the level prescription.
func buildWorkoutDay(day splitDay, pool []catalog.Exercise, prefs Preferences) Workout {
	workout := Workout{
		Name:      day.name,
		Groups:    day.groups,
		Exercises: []Exercise{},
	}

	count, ok := exercisesPerGroup[prefs.SessionLength]
	if !ok {
		count = exercisesPerGroup[SessionMedium]
	}

	for _, group := range day.groups {
		var groupPool []catalog.Exercise
		for _, ex := range pool {
			if ex.HasBodyPart(group) {
				groupPool = append(groupPool, ex)
			}
		}

		for _, ex := range selectVaried(groupPool, count, prefs.Location) {
			p := prescriptionFor(prefs.Level, group)
			workout.Exercises = append(workout.Exercises, Exercise{
				Exercise: ex,
				Sets:     p.sets,
				Reps:     p.reps,
				Rest:     p.rest,
			})
		}
	}

	return workout
}

// selectVaried shuffles the pool and takes count exercises matching the
// location. Longer gym sessions mix in home exercises as finishers: roughly
// 70% gym with a ceiling, the rest home.
func selectVaried(pool []catalog.Exercise, count int, location string) []catalog.Exercise {
	if len(pool) == 0 {
		return nil
	}

	shuffled := make([]catalog.Exercise, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var gym, home []catalog.Exercise
	for _, ex := range shuffled {
		if ex.Location == catalog.LocationGym {
			gym = append(gym, ex)
		} else {
			home = append(home, ex)
		}
	}

	switch location {
	case catalog.LocationGym:
		if count >= 3 {
			numGym := int(math.Ceil(float64(count) * gymShare))
			selected := take(gym, numGym)
			return append(selected, take(home, count-numGym)...)
		}
		return take(gym, count)
	case catalog.LocationHome:
		return take(home, count)
	default:
		return take(shuffled, count)
	}
}

// take returns up to n exercises from the front of the slice.
func take(exercises []catalog.Exercise, n int) []catalog.Exercise {
	if n <= 0 {
		return nil
	}
	if n > len(exercises) {
		n = len(exercises)
	}
	return exercises[:n]
}

// workoutNotes composes the guidance notes attached to every generated plan.
func workoutNotes(goal, level, location string) []string {
	notes := []string{
		"💪 Sempre aqueça antes de começar o treino (5-10min de cardio leve)",
		"⏱️ Respeite os tempos de descanso entre as séries",
		"🎯 Foque na execução correta antes de aumentar a carga",
		"💧 Mantenha-se hidratado durante o treino",
	}

	switch goal {
	case GoalHypertrophy:
		notes = append(notes, "📈 Para ganho de massa: aumente a carga progressivamente a cada semana")
	case GoalWeightLoss:
		notes = append(notes, "🔥 Para emagrecer: reduza os descansos e mantenha intensidade alta")
	}

	if level == LevelBeginner {
		notes = append(notes, "🌟 Iniciante: Priorize aprender a técnica nas primeiras semanas")
	}

	if location == LocationBoth || location == catalog.LocationGym {
		notes = append(notes, "🏠 Exercícios de casa podem ser feitos como finalizadores ou em dias extras")
	}

	notes = append(notes, "📊 Cardio: Faça em dias separados ou após o treino (seção Cardio disponível na página)")

	return notes
}
