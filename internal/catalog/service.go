package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trainew/trainew/internal/errors"
	"github.com/trainew/trainew/internal/sqlite"
	"github.com/trainew/trainew/internal/textutil"
)

// ErrNotFound is returned when no catalog entry matches a lookup.
var ErrNotFound = errors.NewSentinel("exercise not found")

// Service handles exercise catalog lookups.
type Service struct {
	repo   *sqliteRepository
	logger *slog.Logger

	// exercises is the full catalog in dataset order. Lookup order matters
	// for name matching, so this is kept in memory after seeding.
	exercises []Exercise
}

// NewService seeds the catalog tables from the embedded dataset and returns a
// service ready for lookups.
func NewService(ctx context.Context, db *sqlite.Database, logger *slog.Logger) (*Service, error) {
	repo := newSQLiteRepository(db, logger)

	seed, err := loadSeedExercises()
	if err != nil {
		return nil, fmt.Errorf("load exercise dataset: %w", err)
	}
	if err = repo.seed(ctx, seed); err != nil {
		return nil, fmt.Errorf("seed exercise catalog: %w", err)
	}

	exercises, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load exercise catalog: %w", err)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "exercise catalog ready",
		slog.Int("exercises", len(exercises)))

	return &Service{
		repo:      repo,
		logger:    logger,
		exercises: exercises,
	}, nil
}

// List returns every catalog entry.
func (s *Service) List(ctx context.Context) ([]Exercise, error) {
	exercises, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, nil
}

// ListByBodyPart returns the catalog entries tagged with the given body part,
// e.g. "Cardio" or "Peito".
func (s *Service) ListByBodyPart(ctx context.Context, bodyPart string) ([]Exercise, error) {
	exercises, err := s.repo.ListByBodyPart(ctx, bodyPart)
	if err != nil {
		return nil, fmt.Errorf("list exercises by body part: %w", err)
	}
	return exercises, nil
}

// FindByName resolves a free-form exercise name to a catalog entry. The search
// term may be Portuguese or English, with or without accents. Portuguese
// aliases are tried first, then a direct containment match against both names.
// Returns ErrNotFound when nothing matches.
func (s *Service) FindByName(name string) (Exercise, error) {
	normalized := textutil.Normalize(name)
	if normalized == "" {
		return Exercise{}, errors.Wrap(ErrNotFound, "empty search term")
	}

	for _, alias := range nameAliases {
		if !strings.Contains(normalized, textutil.Normalize(alias.pt)) {
			continue
		}
		if ex, ok := s.match(textutil.Normalize(alias.en)); ok {
			return ex, nil
		}
	}

	if ex, ok := s.match(normalized); ok {
		return ex, nil
	}

	return Exercise{}, errors.Wrap(ErrNotFound, "no catalog entry matches",
		slog.String("search", name))
}

// match scans the catalog for the first entry whose normalized English or
// Portuguese name contains, or is contained by, the normalized search term.
func (s *Service) match(normalized string) (Exercise, bool) {
	for _, ex := range s.exercises {
		if textutil.ContainsEither(normalized, textutil.Normalize(ex.Name)) {
			return ex, true
		}
		if ex.NamePt != "" && textutil.ContainsEither(normalized, textutil.Normalize(ex.NamePt)) {
			return ex, true
		}
	}
	return Exercise{}, false
}
