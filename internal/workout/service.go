package workout

import (
	"context"
	"log/slog"
	"sync"

	"github.com/trainew/trainew/internal/ai"
	"github.com/trainew/trainew/internal/catalog"
	"github.com/trainew/trainew/internal/errors"
	"github.com/trainew/trainew/internal/kvstore"
	"github.com/trainew/trainew/internal/plan"
)

// ExerciseFinder looks up catalog exercises for media resolution.
type ExerciseFinder interface {
	FindByName(name string) (catalog.Exercise, error)
}

// PlanRecord is the stored plan of a user. Plan is nil when only assistant
// rows exist.
type PlanRecord struct {
	Plan *plan.Plan       `json:"plan,omitempty"`
	Rows []plan.LegacyRow `json:"rows"`
}

// Service owns workout persistence and one session engine per user.
type Service struct {
	store  Store
	finder ExerciseFinder
	logger *slog.Logger

	mu      sync.Mutex
	engines map[string]*Engine
}

func NewService(store Store, finder ExerciseFinder, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		finder:  finder,
		logger:  logger,
		engines: map[string]*Engine{},
	}
}

// Engine returns the session engine for a user, creating it on first use.
func (s *Service) Engine(userID string) *Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	engine, ok := s.engines[userID]
	if !ok {
		engine = NewEngine(s.store, userID, s.resolveMedia, s.logger)
		s.engines[userID] = engine
	}
	return engine
}

func (s *Service) resolveMedia(name string) Media {
	exercise, err := s.finder.FindByName(name)
	if err != nil {
		return Media{}
	}
	return Media{GifURL: exercise.GifURL}
}

// SavePlan stores a generated plan in both its structured and row forms and
// resets the user's session to reflect it.
func (s *Service) SavePlan(ctx context.Context, userID string, p plan.Plan) error {
	if err := s.store.Set(ctx, userID, keyGeneratedPlan, p); err != nil {
		return errors.Wrap(err, "save plan")
	}
	if err := s.store.Set(ctx, userID, keyLegacyPlan, p.LegacyRows()); err != nil {
		return errors.Wrap(err, "save plan rows")
	}
	// Progress tracked against the previous plan no longer applies.
	if err := s.store.Delete(ctx, userID, keyProgress); err != nil {
		return errors.Wrap(err, "clear plan progress")
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "workout plan saved",
		slog.Int("days", p.DaysPerWeek))
	return s.refresh(ctx, userID)
}

// SaveBackendPlan stores rows extracted from an assistant reply. Workout rows
// replace any generated plan; diet rows are stored alongside it.
func (s *Service) SaveBackendPlan(ctx context.Context, userID string, payload ai.PlanPayload) error {
	switch payload.Type {
	case "treino":
		rows := make([]plan.LegacyRow, 0, len(payload.Data))
		for _, row := range payload.Data {
			rows = append(rows, plan.LegacyRow{
				Day:         row.Day,
				Exercise:    row.Exercise,
				Description: row.Description,
			})
		}
		if err := s.store.Set(ctx, userID, keyLegacyPlan, rows); err != nil {
			return errors.Wrap(err, "save plan rows")
		}
		if err := s.store.Delete(ctx, userID, keyGeneratedPlan); err != nil {
			return errors.Wrap(err, "clear generated plan")
		}
		if err := s.store.Delete(ctx, userID, keyProgress); err != nil {
			return errors.Wrap(err, "clear plan progress")
		}
		return s.refresh(ctx, userID)
	case "dieta":
		if err := s.store.Set(ctx, userID, keyDietPlan, payload.Data); err != nil {
			return errors.Wrap(err, "save diet rows")
		}
		return nil
	default:
		return errors.New("unknown plan type", slog.String("type", payload.Type))
	}
}

// CurrentPlan returns the user's stored plan. Both forms may be absent.
func (s *Service) CurrentPlan(ctx context.Context, userID string) (PlanRecord, error) {
	var record PlanRecord
	var generated plan.Plan
	err := s.store.Get(ctx, userID, keyGeneratedPlan, &generated)
	switch {
	case err == nil && len(generated.Workouts) > 0:
		record.Plan = &generated
		record.Rows = generated.LegacyRows()
		return record, nil
	case err != nil && !errors.Is(err, kvstore.ErrNotFound):
		return PlanRecord{}, errors.Wrap(err, "load generated plan")
	}
	if err := s.store.Get(ctx, userID, keyLegacyPlan, &record.Rows); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return PlanRecord{}, errors.Wrap(err, "load plan rows")
	}
	return record, nil
}

// Diet returns the user's stored diet rows, if any.
func (s *Service) Diet(ctx context.Context, userID string) ([]ai.PlanRow, error) {
	var rows []ai.PlanRow
	if err := s.store.Get(ctx, userID, keyDietPlan, &rows); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return nil, errors.Wrap(err, "load diet rows")
	}
	return rows, nil
}

// History returns completed workouts, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	var history []HistoryEntry
	if err := s.store.Get(ctx, userID, keyHistory, &history); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return nil, errors.Wrap(err, "load history")
	}
	return history, nil
}

// refresh resets the user's engine when one exists.
func (s *Service) refresh(ctx context.Context, userID string) error {
	s.mu.Lock()
	engine, ok := s.engines[userID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return engine.Refresh(ctx)
}
