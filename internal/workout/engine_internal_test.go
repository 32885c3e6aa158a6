package workout

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/trainew/trainew/internal/kvstore"
	"github.com/trainew/trainew/internal/plan"
	"github.com/trainew/trainew/internal/testhelpers"
)

// fakeStore keeps records in memory, namespaced per user like the real store.
type fakeStore struct {
	records map[string]map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]map[string][]byte{}}
}

func (s *fakeStore) Get(_ context.Context, userID, key string, v any) error {
	raw, ok := s.records[userID][key]
	if !ok {
		return kvstore.ErrNotFound
	}
	return json.Unmarshal(raw, v)
}

func (s *fakeStore) Set(_ context.Context, userID, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if s.records[userID] == nil {
		s.records[userID] = map[string][]byte{}
	}
	s.records[userID][key] = raw
	return nil
}

func (s *fakeStore) Delete(_ context.Context, userID, key string) error {
	delete(s.records[userID], key)
	return nil
}

func testRows() []plan.LegacyRow {
	return []plan.LegacyRow{
		{Day: "Segunda", Exercise: "Supino Reto", Sets: 2, Reps: "10-12", Rest: "2s", Description: "Peito - 🏋️ Academia"},
		{Day: "Segunda", Exercise: "Crucifixo", Sets: 2, Reps: "10-12", Rest: "2s", Description: "Peito - 🏋️ Academia"},
		{Day: "Quarta", Exercise: "Agachamento Livre", Sets: 3, Reps: "8-12", Rest: "60-90s", Description: "Pernas - 🏋️ Academia"},
	}
}

func newTestEngine(t *testing.T, store *fakeStore) *Engine {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	engine := NewEngine(store, "ana@example.com", nil, logger)
	// Slow ticks keep resting assertions stable; tests that wait for the
	// countdown to finish shorten this further.
	engine.tickInterval = 50 * time.Millisecond
	return engine
}

func seedRows(t *testing.T, store *fakeStore, rows []plan.LegacyRow) {
	t.Helper()
	if err := store.Set(context.Background(), "ana@example.com", keyLegacyPlan, rows); err != nil {
		t.Fatal(err)
	}
}

// waitForRestEnd polls until the countdown finishes.
func waitForRestEnd(t *testing.T, engine *Engine) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		state, err := engine.Snapshot(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !state.Resting {
			return state
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("countdown did not finish")
	return State{}
}

func TestEngine_completeWorkout(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedRows(t, store, testRows())
	engine := newTestEngine(t, store)

	if err := engine.SelectDay(ctx, "Segunda"); err != nil {
		t.Fatal(err)
	}
	state, err := engine.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state.View != ViewExerciseList {
		t.Fatalf("view = %s, want %s", state.View, ViewExerciseList)
	}
	if len(state.Exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(state.Exercises))
	}

	engine.StartExecution(0)
	if err := engine.SetLoad(ctx, 0, "40kg"); err != nil {
		t.Fatal(err)
	}

	// Two sets per exercise: intermediate sets rest, final sets advance.
	if err := engine.CompleteSet(ctx); err != nil {
		t.Fatal(err)
	}
	state, _ = engine.Snapshot(ctx)
	if !state.Resting || state.CurrentSet != 2 {
		t.Fatalf("after first set: resting=%v set=%d, want resting set 2", state.Resting, state.CurrentSet)
	}
	engine.SkipRest()
	if err := engine.CompleteSet(ctx); err != nil {
		t.Fatal(err)
	}
	state, _ = engine.Snapshot(ctx)
	if state.ExerciseIndex != 1 || state.CurrentSet != 1 {
		t.Fatalf("after first exercise: index=%d set=%d, want index 1 set 1", state.ExerciseIndex, state.CurrentSet)
	}
	if err := engine.CompleteSet(ctx); err != nil {
		t.Fatal(err)
	}
	engine.SkipRest()
	if err := engine.CompleteSet(ctx); err != nil {
		t.Fatal(err)
	}

	state, _ = engine.Snapshot(ctx)
	if state.View != ViewExerciseList {
		t.Fatalf("view after last exercise = %s, want %s", state.View, ViewExerciseList)
	}
	for i, exercise := range state.Exercises {
		if !exercise.Completed {
			t.Errorf("exercise %d not marked completed", i)
		}
	}

	var history []HistoryEntry
	if err := store.Get(ctx, "ana@example.com", keyHistory, &history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history))
	}
	wantExercises := []HistoryExercise{
		{Name: "Supino Reto", Load: "40kg"},
		{Name: "Crucifixo", Load: "-"},
	}
	if diff := cmp.Diff(wantExercises, history[0].Exercises); diff != "" {
		t.Errorf("history exercises mismatch (-want +got):\n%s", diff)
	}
	if history[0].Day != "Segunda" {
		t.Errorf("history day = %s, want Segunda", history[0].Day)
	}
}

func TestEngine_countdownReachesZero(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedRows(t, store, testRows())
	engine := newTestEngine(t, store)
	engine.tickInterval = time.Millisecond

	if err := engine.SelectDay(ctx, "Segunda"); err != nil {
		t.Fatal(err)
	}
	engine.StartExecution(0)
	if err := engine.CompleteSet(ctx); err != nil {
		t.Fatal(err)
	}

	state := waitForRestEnd(t, engine)
	if state.RestSeconds != 0 {
		t.Errorf("restSeconds after countdown = %d, want 0", state.RestSeconds)
	}
	if state.CurrentSet != 2 {
		t.Errorf("currentSet after countdown = %d, want 2", state.CurrentSet)
	}
}

func TestEngine_goToSet(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedRows(t, store, testRows())
	engine := newTestEngine(t, store)

	if err := engine.SelectDay(ctx, "Quarta"); err != nil {
		t.Fatal(err)
	}
	engine.StartExecution(0)

	// Jumping past the next set is ignored.
	if err := engine.GoToSet(ctx, 3); err != nil {
		t.Fatal(err)
	}
	state, _ := engine.Snapshot(ctx)
	if state.CurrentSet != 1 {
		t.Fatalf("currentSet after far jump = %d, want 1", state.CurrentSet)
	}

	// The next set behaves like completing the current one.
	if err := engine.GoToSet(ctx, 2); err != nil {
		t.Fatal(err)
	}
	state, _ = engine.Snapshot(ctx)
	if state.CurrentSet != 2 || !state.Resting {
		t.Fatalf("after jump to next: set=%d resting=%v, want set 2 resting", state.CurrentSet, state.Resting)
	}

	// Jumping back restarts from that set without rest.
	if err := engine.GoToSet(ctx, 1); err != nil {
		t.Fatal(err)
	}
	state, _ = engine.Snapshot(ctx)
	if state.CurrentSet != 1 || state.Resting {
		t.Fatalf("after jump back: set=%d resting=%v, want set 1 not resting", state.CurrentSet, state.Resting)
	}
}

func TestEngine_navigation(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedRows(t, store, testRows())
	engine := newTestEngine(t, store)

	if err := engine.SelectDay(ctx, "Segunda"); err != nil {
		t.Fatal(err)
	}
	engine.StartExecution(0)

	engine.PreviousExercise() // already first, ignored
	state, _ := engine.Snapshot(ctx)
	if state.ExerciseIndex != 0 {
		t.Fatalf("index after previous at start = %d, want 0", state.ExerciseIndex)
	}

	if err := engine.CompleteSet(ctx); err != nil {
		t.Fatal(err)
	}
	engine.NextExercise()
	state, _ = engine.Snapshot(ctx)
	if state.ExerciseIndex != 1 || state.CurrentSet != 1 || state.Resting {
		t.Fatalf("after next: index=%d set=%d resting=%v, want index 1 set 1 not resting", state.ExerciseIndex, state.CurrentSet, state.Resting)
	}

	engine.NextExercise() // already last, ignored
	state, _ = engine.Snapshot(ctx)
	if state.ExerciseIndex != 1 {
		t.Fatalf("index after next at end = %d, want 1", state.ExerciseIndex)
	}

	engine.BackToList()
	state, _ = engine.Snapshot(ctx)
	if state.View != ViewExerciseList {
		t.Fatalf("view after back = %s, want %s", state.View, ViewExerciseList)
	}

	engine.BackToDays()
	state, _ = engine.Snapshot(ctx)
	if state.View != ViewDaySelection || len(state.Exercises) != 0 {
		t.Fatalf("view after back to days = %s with %d exercises, want %s and none", state.View, len(state.Exercises), ViewDaySelection)
	}
}

func TestEngine_ignoredTransitions(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedRows(t, store, testRows())
	engine := newTestEngine(t, store)

	// Completing a set before any day is selected does nothing.
	if err := engine.CompleteSet(ctx); err != nil {
		t.Fatal(err)
	}
	state, _ := engine.Snapshot(ctx)
	if state.View != ViewDaySelection {
		t.Fatalf("view = %s, want %s", state.View, ViewDaySelection)
	}

	// Unknown days keep the current view.
	if err := engine.SelectDay(ctx, "Domingo"); err != nil {
		t.Fatal(err)
	}
	state, _ = engine.Snapshot(ctx)
	if state.View != ViewDaySelection {
		t.Fatalf("view after unknown day = %s, want %s", state.View, ViewDaySelection)
	}

	if err := engine.SelectDay(ctx, "Segunda"); err != nil {
		t.Fatal(err)
	}
	engine.StartExecution(5) // out of range
	state, _ = engine.Snapshot(ctx)
	if state.View != ViewExerciseList {
		t.Fatalf("view after out of range start = %s, want %s", state.View, ViewExerciseList)
	}
}

func TestEngine_toggleExerciseComplete(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedRows(t, store, testRows())
	engine := newTestEngine(t, store)

	if err := engine.SelectDay(ctx, "Segunda"); err != nil {
		t.Fatal(err)
	}
	if err := engine.ToggleExerciseComplete(ctx, 0); err != nil {
		t.Fatal(err)
	}
	state, _ := engine.Snapshot(ctx)
	if !state.Exercises[0].Completed {
		t.Fatal("exercise not marked completed after toggle")
	}
	if err := engine.ToggleExerciseComplete(ctx, 0); err != nil {
		t.Fatal(err)
	}
	state, _ = engine.Snapshot(ctx)
	if state.Exercises[0].Completed {
		t.Fatal("exercise still completed after second toggle")
	}
}

func TestEngine_historyCap(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	rows := []plan.LegacyRow{
		{Day: "Segunda", Exercise: "Prancha", Sets: 1, Reps: "30s", Rest: "2s", Description: "Abdômen - 🏠 Casa"},
	}
	seedRows(t, store, rows)

	old := make([]HistoryEntry, historyLimit)
	for i := range old {
		old[i] = HistoryEntry{Day: fmt.Sprintf("antigo-%d", i)}
	}
	if err := store.Set(ctx, "ana@example.com", keyHistory, old); err != nil {
		t.Fatal(err)
	}

	engine := newTestEngine(t, store)
	if err := engine.SelectDay(ctx, "Segunda"); err != nil {
		t.Fatal(err)
	}
	engine.StartExecution(0)
	if err := engine.CompleteSet(ctx); err != nil {
		t.Fatal(err)
	}

	var history []HistoryEntry
	if err := store.Get(ctx, "ana@example.com", keyHistory, &history); err != nil {
		t.Fatal(err)
	}
	if len(history) != historyLimit {
		t.Fatalf("history entries = %d, want %d", len(history), historyLimit)
	}
	if history[0].Day != "Segunda" {
		t.Errorf("newest entry day = %s, want Segunda", history[0].Day)
	}
	if history[historyLimit-1].Day != fmt.Sprintf("antigo-%d", historyLimit-2) {
		t.Errorf("oldest entry = %s, want antigo-%d", history[historyLimit-1].Day, historyLimit-2)
	}
}

func TestEngine_generatedPlanPrecedence(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedRows(t, store, testRows())
	generated := plan.Plan{
		DaysPerWeek: 2,
		Split:       []string{"Treino A", "Treino B"},
		Workouts: []plan.Workout{
			{Name: "Treino A", Groups: []string{"Peito"}},
			{Name: "Treino B", Groups: []string{"Costas"}},
		},
	}
	if err := store.Set(ctx, "ana@example.com", keyGeneratedPlan, generated); err != nil {
		t.Fatal(err)
	}

	engine := newTestEngine(t, store)
	state, err := engine.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Treino A", "Treino B"}
	if diff := cmp.Diff(want, state.Days); diff != "" {
		t.Errorf("days mismatch (-want +got):\n%s", diff)
	}
}

func TestTargetSets(t *testing.T) {
	tests := []struct {
		name string
		row  plan.LegacyRow
		want int
	}{
		{name: "explicit field", row: plan.LegacyRow{Sets: 4}, want: 4},
		{name: "from description", row: plan.LegacyRow{Description: "3 séries de 12 repetições"}, want: 3},
		{name: "english sets", row: plan.LegacyRow{Description: "4 sets of 10"}, want: 4},
		{name: "default", row: plan.LegacyRow{Description: "exercício para peito"}, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := targetSets(tt.row); got != tt.want {
				t.Errorf("targetSets() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRestSeconds(t *testing.T) {
	tests := []struct {
		name string
		row  plan.LegacyRow
		want int
	}{
		{name: "range takes lower bound", row: plan.LegacyRow{Rest: "60-90s"}, want: 60},
		{name: "plain seconds", row: plan.LegacyRow{Rest: "45s"}, want: 45},
		{name: "from description", row: plan.LegacyRow{Description: "3 séries com 90 segundos de descanso"}, want: 90},
		{name: "default", row: plan.LegacyRow{Description: "sem detalhes"}, want: 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := restSeconds(tt.row); got != tt.want {
				t.Errorf("restSeconds() = %d, want %d", got, tt.want)
			}
		})
	}
}
