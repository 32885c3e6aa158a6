package workout

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/trainew/trainew/internal/ai"
	"github.com/trainew/trainew/internal/catalog"
	"github.com/trainew/trainew/internal/plan"
	"github.com/trainew/trainew/internal/testhelpers"
)

type stubFinder struct {
	exercise catalog.Exercise
	err      error
}

func (f stubFinder) FindByName(string) (catalog.Exercise, error) {
	return f.exercise, f.err
}

func newTestWorkoutService(t *testing.T, store *fakeStore, finder ExerciseFinder) *Service {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	return NewService(store, finder, logger)
}

func testPlan() plan.Plan {
	return plan.Plan{
		DaysPerWeek: 2,
		Split:       []string{"Treino A", "Treino B"},
		Workouts: []plan.Workout{
			{
				Name:   "Treino A",
				Groups: []string{"Peito"},
				Exercises: []plan.Exercise{
					{Exercise: catalog.Exercise{NamePt: "Supino Reto"}, Sets: 3, Reps: "10-12", Rest: "60-75s"},
				},
			},
			{
				Name:   "Treino B",
				Groups: []string{"Costas"},
				Exercises: []plan.Exercise{
					{Exercise: catalog.Exercise{NamePt: "Remada Curvada"}, Sets: 3, Reps: "10-12", Rest: "60-75s"},
				},
			},
		},
	}
}

func TestService_savePlanAndCurrentPlan(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	service := newTestWorkoutService(t, store, stubFinder{})

	if err := service.SavePlan(ctx, "ana@example.com", testPlan()); err != nil {
		t.Fatal(err)
	}
	record, err := service.CurrentPlan(ctx, "ana@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if record.Plan == nil {
		t.Fatal("expected structured plan")
	}
	if record.Plan.DaysPerWeek != 2 {
		t.Errorf("daysPerWeek = %d, want 2", record.Plan.DaysPerWeek)
	}
	if len(record.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(record.Rows))
	}
	if record.Rows[0].Exercise != "Supino Reto" {
		t.Errorf("first row exercise = %s, want Supino Reto", record.Rows[0].Exercise)
	}
}

func TestService_savePlanResetsSession(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	service := newTestWorkoutService(t, store, stubFinder{})

	if err := service.SavePlan(ctx, "ana@example.com", testPlan()); err != nil {
		t.Fatal(err)
	}
	engine := service.Engine("ana@example.com")
	if err := engine.SelectDay(ctx, "Treino A"); err != nil {
		t.Fatal(err)
	}

	if err := service.SavePlan(ctx, "ana@example.com", testPlan()); err != nil {
		t.Fatal(err)
	}
	state, err := engine.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state.View != ViewDaySelection {
		t.Errorf("view after new plan = %s, want %s", state.View, ViewDaySelection)
	}
}

func TestService_savePlanClearsProgress(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	service := newTestWorkoutService(t, store, stubFinder{})

	if err := store.Set(ctx, "ana@example.com", keyProgress, map[string]ProgressEntry{
		exerciseKey("Treino A", "Supino Reto"): {Completed: true, Date: time.Now()},
	}); err != nil {
		t.Fatal(err)
	}

	if err := service.SavePlan(ctx, "ana@example.com", testPlan()); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.records["ana@example.com"][keyProgress]; ok {
		t.Error("progress from the previous plan should be cleared")
	}
}

func TestService_saveBackendPlan(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	service := newTestWorkoutService(t, store, stubFinder{})

	if err := service.SavePlan(ctx, "ana@example.com", testPlan()); err != nil {
		t.Fatal(err)
	}
	payload := ai.PlanPayload{
		Type: "treino",
		Data: []ai.PlanRow{
			{Day: "Segunda", Exercise: "Supino Reto", Description: "4 séries de 10 repetições"},
			{Day: "Quarta", Exercise: "Agachamento Livre", Description: "4 séries de 8 repetições"},
		},
	}
	if err := service.SaveBackendPlan(ctx, "ana@example.com", payload); err != nil {
		t.Fatal(err)
	}

	record, err := service.CurrentPlan(ctx, "ana@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if record.Plan != nil {
		t.Error("structured plan should be replaced by assistant rows")
	}
	if _, ok := store.records["ana@example.com"][keyGeneratedPlan]; ok {
		t.Error("stored generated plan should be removed, not overwritten")
	}
	wantDays := []string{"Segunda", "Quarta"}
	var gotDays []string
	for _, row := range record.Rows {
		gotDays = append(gotDays, row.Day)
	}
	if diff := cmp.Diff(wantDays, gotDays); diff != "" {
		t.Errorf("days mismatch (-want +got):\n%s", diff)
	}
}

func TestService_saveBackendPlanDiet(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	service := newTestWorkoutService(t, store, stubFinder{})

	payload := ai.PlanPayload{
		Type: "dieta",
		Data: []ai.PlanRow{
			{Day: "Segunda", Meal: "Café da manhã", Description: "Ovos mexidos com aveia"},
		},
	}
	if err := service.SaveBackendPlan(ctx, "ana@example.com", payload); err != nil {
		t.Fatal(err)
	}
	rows, err := service.Diet(ctx, "ana@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Meal != "Café da manhã" {
		t.Fatalf("diet rows = %+v, want the saved meal", rows)
	}

	if err := service.SaveBackendPlan(ctx, "ana@example.com", ai.PlanPayload{Type: "ferias"}); err == nil {
		t.Error("expected error for unknown plan type")
	}
}

func TestService_mediaResolution(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedRows(t, store, testRows())

	service := newTestWorkoutService(t, store, stubFinder{
		exercise: catalog.Exercise{GifURL: "https://example.com/supino.gif"},
	})
	engine := service.Engine("ana@example.com")
	if err := engine.SelectDay(ctx, "Segunda"); err != nil {
		t.Fatal(err)
	}
	state, err := engine.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state.Exercises[0].Media.GifURL != "https://example.com/supino.gif" {
		t.Errorf("gifUrl = %s, want the catalog match", state.Exercises[0].Media.GifURL)
	}

	missing := newTestWorkoutService(t, store, stubFinder{err: catalog.ErrNotFound})
	engine = missing.Engine("bruno@example.com")
	seedOther := store.Set(ctx, "bruno@example.com", keyLegacyPlan, testRows())
	if seedOther != nil {
		t.Fatal(seedOther)
	}
	if err := engine.SelectDay(ctx, "Segunda"); err != nil {
		t.Fatal(err)
	}
	state, err = engine.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state.Exercises[0].Media.Placeholder != "🏋️" {
		t.Errorf("placeholder = %s, want 🏋️", state.Exercises[0].Media.Placeholder)
	}
}
