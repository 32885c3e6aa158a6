// Package workout runs guided workout sessions: day selection, per-exercise
// set and rest progression with a countdown, and persisted progress, loads and
// history.
package workout

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/trainew/trainew/internal/plan"
)

// View names the screens of a workout session.
type View string

const (
	ViewDaySelection View = "day-selection"
	ViewExerciseList View = "exercise-list"
	ViewExecution    View = "execution"
)

// Persistence keys. Records are already namespaced per user by the store.
const (
	keyGeneratedPlan = "customWorkoutPlan"
	keyLegacyPlan    = "treino"
	keyDietPlan      = "dieta"
	keyProgress      = "treinoProgress"
	keyLoads         = "treinoCargas"
	keyHistory       = "treinoHistorico"
)

// historyLimit caps how many completed workouts are kept, newest first.
const historyLimit = 50

// defaultRestSeconds applies when an exercise's rest field cannot be parsed.
const defaultRestSeconds = 60

// ProgressEntry records the completion of one exercise on one day.
type ProgressEntry struct {
	Completed bool      `json:"completed"`
	Date      time.Time `json:"date"`
}

// HistoryExercise is one line of a completed workout record.
type HistoryExercise struct {
	Name string `json:"nome"`
	Load string `json:"carga"`
}

// HistoryEntry is one completed workout, newest first in storage.
type HistoryEntry struct {
	Date      time.Time         `json:"date"`
	Day       string            `json:"dia"`
	Exercises []HistoryExercise `json:"exercicios"`
}

// Media points at the animation for an exercise. Placeholder is set when the
// catalog has nothing to show.
type Media struct {
	GifURL      string `json:"gifUrl,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// ExerciseView is an exercise of the selected day as shown to the client.
type ExerciseView struct {
	plan.LegacyRow

	Completed bool     `json:"completed"`
	Load      string   `json:"carga"`
	Media     Media    `json:"media"`
	Muscles   []string `json:"muscles"`
}

// State is a snapshot of a session engine, serializable for the client.
type State struct {
	View          View           `json:"view"`
	Days          []string       `json:"days,omitempty"`
	SelectedDay   string         `json:"selectedDay,omitempty"`
	Exercises     []ExerciseView `json:"exercises,omitempty"`
	ExerciseIndex int            `json:"exerciseIndex"`
	CurrentSet    int            `json:"currentSet"`
	TargetSets    int            `json:"targetSets"`
	Resting       bool           `json:"resting"`
	RestSeconds   int            `json:"restSeconds"`
}

// exerciseKey builds the progress/load key for an exercise on a day.
func exerciseKey(day, exerciseName string) string {
	return fmt.Sprintf("%s|%s", day, exerciseName)
}

var (
	setsPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:séries?|series?|sets?)`)
	restPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:segundos?|seg|s)\s*(?:de\s*)?(?:descanso|intervalo)`)
	leadingInt  = regexp.MustCompile(`^\s*(\d+)`)
)

// targetSets resolves how many sets an exercise has. Rows written by the plan
// generator carry the count; assistant rows only describe it in free text.
func targetSets(row plan.LegacyRow) int {
	if row.Sets > 0 {
		return row.Sets
	}
	if m := setsPattern.FindStringSubmatch(row.Description); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 3
}

// restSeconds resolves the rest duration for an exercise. A range like
// "60-90s" counts as its lower bound.
func restSeconds(row plan.LegacyRow) int {
	if m := leadingInt.FindStringSubmatch(row.Rest); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if m := restPattern.FindStringSubmatch(row.Description); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return defaultRestSeconds
}
