package workout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/trainew/trainew/internal/errors"
	"github.com/trainew/trainew/internal/kvstore"
	"github.com/trainew/trainew/internal/plan"
	"github.com/trainew/trainew/internal/textutil"
)

// Store persists per-user workout records. *kvstore.Store satisfies it.
type Store interface {
	Get(ctx context.Context, userID, key string, v any) error
	Set(ctx context.Context, userID, key string, v any) error
	Delete(ctx context.Context, userID, key string) error
}

// MediaResolver maps an exercise name to its media. A nil resolver yields
// placeholders only.
type MediaResolver func(name string) Media

// Engine drives one user's workout session. All transitions are serialized
// under a single mutex, including countdown ticks. Transitions that do not
// apply to the current view are ignored.
type Engine struct {
	store  Store
	userID string
	logger *slog.Logger
	media  MediaResolver

	// tickInterval is the countdown tick period. Tests shorten it.
	tickInterval time.Duration

	mu            sync.Mutex
	view          View
	rows          []plan.LegacyRow
	days          []string
	selectedDay   string
	dayRows       []plan.LegacyRow
	progress      map[string]ProgressEntry
	loads         map[string]string
	exerciseIndex int
	currentSet    int
	resting       bool
	restRemaining int
	countdown     chan struct{}
}

// NewEngine returns an engine at the day selection view. The plan and saved
// records are loaded lazily on Refresh or the first transition.
func NewEngine(store Store, userID string, media MediaResolver, logger *slog.Logger) *Engine {
	return &Engine{
		store:        store,
		userID:       userID,
		media:        media,
		logger:       logger,
		tickInterval: time.Second,
		view:         ViewDaySelection,
		progress:     map[string]ProgressEntry{},
		loads:        map[string]string{},
	}
}

// Refresh reloads the plan and saved records and resets to day selection.
// Called after a new plan is saved so the session reflects it.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopCountdown()
	if err := e.load(ctx); err != nil {
		return err
	}
	e.view = ViewDaySelection
	e.selectedDay = ""
	e.dayRows = nil
	return nil
}

// load reads the plan, progress and loads from the store. A generated plan
// takes precedence over assistant-written rows. Missing records are not
// errors.
func (e *Engine) load(ctx context.Context) error {
	e.rows = nil
	var generated plan.Plan
	err := e.store.Get(ctx, e.userID, keyGeneratedPlan, &generated)
	switch {
	case err == nil && len(generated.Workouts) > 0:
		e.rows = generated.LegacyRows()
	case err != nil && !errors.Is(err, kvstore.ErrNotFound):
		return errors.Wrap(err, "load generated plan")
	default:
		var rows []plan.LegacyRow
		if err := e.store.Get(ctx, e.userID, keyLegacyPlan, &rows); err != nil {
			if !errors.Is(err, kvstore.ErrNotFound) {
				return errors.Wrap(err, "load plan rows")
			}
		} else {
			e.rows = rows
		}
	}

	e.days = e.days[:0]
	seen := map[string]bool{}
	for _, row := range e.rows {
		if !seen[row.Day] {
			seen[row.Day] = true
			e.days = append(e.days, row.Day)
		}
	}

	e.progress = map[string]ProgressEntry{}
	if err := e.store.Get(ctx, e.userID, keyProgress, &e.progress); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return errors.Wrap(err, "load progress")
	}
	e.loads = map[string]string{}
	if err := e.store.Get(ctx, e.userID, keyLoads, &e.loads); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return errors.Wrap(err, "load loads")
	}
	return nil
}

// SelectDay moves from day selection to the exercise list of the given day.
func (e *Engine) SelectDay(ctx context.Context, day string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopCountdown()
	if e.rows == nil {
		if err := e.load(ctx); err != nil {
			return err
		}
	}
	var dayRows []plan.LegacyRow
	for _, row := range e.rows {
		if row.Day == day {
			dayRows = append(dayRows, row)
		}
	}
	if len(dayRows) == 0 {
		return nil
	}
	e.selectedDay = day
	e.dayRows = dayRows
	e.view = ViewExerciseList
	return nil
}

// StartExecution enters the execution view for the exercise at index.
func (e *Engine) StartExecution(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopCountdown()
	if e.view != ViewExerciseList && e.view != ViewExecution {
		return
	}
	if index < 0 || index >= len(e.dayRows) {
		return
	}
	e.exerciseIndex = index
	e.currentSet = 1
	e.resting = false
	e.view = ViewExecution
}

// CompleteSet finishes the current set. Intermediate sets start a rest
// countdown; the final set marks the exercise done and advances, or ends the
// workout when it was the last exercise.
func (e *Engine) CompleteSet(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopCountdown()
	if e.view != ViewExecution {
		return nil
	}
	row := e.dayRows[e.exerciseIndex]
	target := targetSets(row)
	if e.currentSet < target {
		e.currentSet++
		e.startRest(restSeconds(row))
		return nil
	}
	return e.completeExercise(ctx)
}

// completeExercise records progress for the current exercise and advances.
// Caller holds the lock.
func (e *Engine) completeExercise(ctx context.Context) error {
	row := e.dayRows[e.exerciseIndex]
	e.progress[exerciseKey(e.selectedDay, row.Exercise)] = ProgressEntry{
		Completed: true,
		Date:      time.Now(),
	}
	if err := e.store.Set(ctx, e.userID, keyProgress, e.progress); err != nil {
		return errors.Wrap(err, "save progress")
	}
	if e.exerciseIndex+1 < len(e.dayRows) {
		e.exerciseIndex++
		e.currentSet = 1
		e.resting = false
		return nil
	}
	if err := e.recordHistory(ctx); err != nil {
		return err
	}
	e.view = ViewExerciseList
	return nil
}

// recordHistory prepends a record for the finished day and trims the history
// to its cap. Caller holds the lock.
func (e *Engine) recordHistory(ctx context.Context) error {
	entry := HistoryEntry{
		Date: time.Now(),
		Day:  e.selectedDay,
	}
	for _, row := range e.dayRows {
		load := e.loads[exerciseKey(e.selectedDay, row.Exercise)]
		if load == "" {
			load = "-"
		}
		entry.Exercises = append(entry.Exercises, HistoryExercise{Name: row.Exercise, Load: load})
	}
	var history []HistoryEntry
	if err := e.store.Get(ctx, e.userID, keyHistory, &history); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return errors.Wrap(err, "load history")
	}
	history = append([]HistoryEntry{entry}, history...)
	if len(history) > historyLimit {
		history = history[:historyLimit]
	}
	if err := e.store.Set(ctx, e.userID, keyHistory, history); err != nil {
		return errors.Wrap(err, "save history")
	}
	return nil
}

// SkipRest ends the rest countdown immediately.
func (e *Engine) SkipRest() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopCountdown()
	e.resting = false
	e.restRemaining = 0
}

// GoToSet jumps within the current exercise. Earlier sets restart from that
// set; the next set behaves like completing the current one; anything further
// ahead is ignored.
func (e *Engine) GoToSet(ctx context.Context, set int) error {
	e.mu.Lock()
	locked := true
	defer func() {
		if locked {
			e.mu.Unlock()
		}
	}()
	if e.view != ViewExecution || set < 1 {
		return nil
	}
	if set <= e.currentSet {
		e.stopCountdown()
		e.currentSet = set
		e.resting = false
		return nil
	}
	if set == e.currentSet+1 {
		e.mu.Unlock()
		locked = false
		return e.CompleteSet(ctx)
	}
	return nil
}

// PreviousExercise moves back one exercise in the execution view.
func (e *Engine) PreviousExercise() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.view != ViewExecution || e.exerciseIndex == 0 {
		return
	}
	e.stopCountdown()
	e.exerciseIndex--
	e.currentSet = 1
	e.resting = false
}

// NextExercise moves forward one exercise in the execution view without
// recording completion.
func (e *Engine) NextExercise() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.view != ViewExecution || e.exerciseIndex+1 >= len(e.dayRows) {
		return
	}
	e.stopCountdown()
	e.exerciseIndex++
	e.currentSet = 1
	e.resting = false
}

// BackToList abandons the execution view and returns to the exercise list.
func (e *Engine) BackToList() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.view != ViewExecution {
		return
	}
	e.stopCountdown()
	e.view = ViewExerciseList
	e.resting = false
}

// BackToDays returns to the day selection view.
func (e *Engine) BackToDays() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopCountdown()
	e.view = ViewDaySelection
	e.selectedDay = ""
	e.dayRows = nil
	e.resting = false
}

// ToggleExerciseComplete flips the completion mark of an exercise on the
// selected day without entering execution.
func (e *Engine) ToggleExerciseComplete(ctx context.Context, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selectedDay == "" || index < 0 || index >= len(e.dayRows) {
		return nil
	}
	key := exerciseKey(e.selectedDay, e.dayRows[index].Exercise)
	if entry, ok := e.progress[key]; ok && entry.Completed {
		delete(e.progress, key)
	} else {
		e.progress[key] = ProgressEntry{Completed: true, Date: time.Now()}
	}
	if err := e.store.Set(ctx, e.userID, keyProgress, e.progress); err != nil {
		return errors.Wrap(err, "save progress")
	}
	return nil
}

// SetLoad records the load used for an exercise on the selected day.
func (e *Engine) SetLoad(ctx context.Context, index int, load string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selectedDay == "" || index < 0 || index >= len(e.dayRows) {
		return nil
	}
	e.loads[exerciseKey(e.selectedDay, e.dayRows[index].Exercise)] = load
	if err := e.store.Set(ctx, e.userID, keyLoads, e.loads); err != nil {
		return errors.Wrap(err, "save loads")
	}
	return nil
}

// Snapshot returns the current session state for rendering.
func (e *Engine) Snapshot(ctx context.Context) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rows == nil {
		if err := e.load(ctx); err != nil {
			return State{}, err
		}
	}
	state := State{
		View:        e.view,
		Days:        append([]string(nil), e.days...),
		SelectedDay: e.selectedDay,
		Resting:     e.resting,
		RestSeconds: e.restRemaining,
	}
	for _, row := range e.dayRows {
		key := exerciseKey(e.selectedDay, row.Exercise)
		muscles := row.TargetMuscles
		if len(muscles) == 0 {
			muscles = textutil.ExtractMuscleGroups(row.Exercise, row.Description)
		}
		view := ExerciseView{
			LegacyRow: row,
			Completed: e.progress[key].Completed,
			Load:      e.loads[key],
			Media:     e.resolveMedia(row.Exercise),
			Muscles:   muscles,
		}
		state.Exercises = append(state.Exercises, view)
	}
	if e.view == ViewExecution {
		state.ExerciseIndex = e.exerciseIndex
		state.CurrentSet = e.currentSet
		state.TargetSets = targetSets(e.dayRows[e.exerciseIndex])
	}
	return state, nil
}

func (e *Engine) resolveMedia(name string) Media {
	if e.media != nil {
		if media := e.media(name); media != (Media{}) {
			return media
		}
	}
	return Media{Placeholder: "🏋️"}
}

// startRest begins a cancellable countdown. Each tick decrements the
// remaining time under the lock; reaching zero ends the rest. Caller holds
// the lock.
func (e *Engine) startRest(seconds int) {
	e.resting = true
	e.restRemaining = seconds
	c := make(chan struct{})
	e.countdown = c
	go func() {
		ticker := time.NewTicker(e.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-c:
				return
			case <-ticker.C:
				e.mu.Lock()
				if e.countdown != c {
					e.mu.Unlock()
					return
				}
				e.restRemaining--
				if e.restRemaining <= 0 {
					e.restRemaining = 0
					e.resting = false
					e.countdown = nil
					e.mu.Unlock()
					return
				}
				e.mu.Unlock()
			}
		}
	}()
}

// stopCountdown cancels any running countdown. Caller holds the lock.
func (e *Engine) stopCountdown() {
	if e.countdown != nil {
		close(e.countdown)
		e.countdown = nil
	}
}
