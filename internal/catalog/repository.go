package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trainew/trainew/internal/sqlite"
)

// sqliteRepository handles database operations for the exercise catalog.
type sqliteRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

// newSQLiteRepository creates a new SQLite-backed catalog repository.
func newSQLiteRepository(db *sqlite.Database, logger *slog.Logger) *sqliteRepository {
	return &sqliteRepository{
		db:     db,
		logger: logger,
	}
}

// seed inserts the given exercises along with their attributes. Existing rows
// are replaced so that dataset updates take effect on restart.
func (r *sqliteRepository) seed(ctx context.Context, exercises []Exercise) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction", slog.Any("error", rollbackErr))
		}
	}(tx)

	for _, ex := range exercises {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM exercises WHERE id = ?`, ex.ID)
		if err != nil {
			return fmt.Errorf("delete exercise %s: %w", ex.ID, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO exercises (id, name, name_pt, location, gif_url)
			VALUES (?, ?, ?, ?, ?)`,
			ex.ID, ex.Name, ex.NamePt, ex.Location, ex.GifURL)
		if err != nil {
			return fmt.Errorf("insert exercise %s: %w", ex.ID, err)
		}

		if err = insertMuscles(ctx, tx, ex.ID, ex.TargetMuscles, true); err != nil {
			return fmt.Errorf("insert target muscles for %s: %w", ex.ID, err)
		}
		if err = insertMuscles(ctx, tx, ex.ID, ex.SecondaryMuscles, false); err != nil {
			return fmt.Errorf("insert secondary muscles for %s: %w", ex.ID, err)
		}

		for i, part := range ex.BodyParts {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO exercise_body_parts (exercise_id, body_part, position)
				VALUES (?, ?, ?)`, ex.ID, part, i)
			if err != nil {
				return fmt.Errorf("insert body part %s: %w", part, err)
			}
		}

		for i, equipment := range ex.Equipment {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO exercise_equipment (exercise_id, equipment, position)
				VALUES (?, ?, ?)`, ex.ID, equipment, i)
			if err != nil {
				return fmt.Errorf("insert equipment %s: %w", equipment, err)
			}
		}

		for i, instruction := range ex.Instructions {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO exercise_instructions (exercise_id, step_number, instruction)
				VALUES (?, ?, ?)`, ex.ID, i+1, instruction)
			if err != nil {
				return fmt.Errorf("insert instruction %d: %w", i+1, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// insertMuscles inserts muscle rows for an exercise.
func insertMuscles(ctx context.Context, tx *sql.Tx, exerciseID string, muscles []string, isPrimary bool) error {
	for i, muscle := range muscles {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO exercise_muscles (exercise_id, muscle, is_primary, position)
			VALUES (?, ?, ?, ?)`, exerciseID, muscle, isPrimary, i)
		if err != nil {
			return fmt.Errorf("insert muscle %s: %w", muscle, err)
		}
	}
	return nil
}

// List returns all exercises with their attributes, ordered by ID.
func (r *sqliteRepository) List(ctx context.Context) (_ []Exercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, name_pt, location, gif_url
		FROM exercises
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []Exercise
	for rows.Next() {
		var ex Exercise
		if err = rows.Scan(&ex.ID, &ex.Name, &ex.NamePt, &ex.Location, &ex.GifURL); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, ex)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercise rows: %w", err)
	}

	for i := range exercises {
		if err = r.fetchAttributes(ctx, &exercises[i]); err != nil {
			return nil, fmt.Errorf("fetch attributes for exercise %s: %w", exercises[i].ID, err)
		}
	}

	return exercises, nil
}

// ListByBodyPart returns all exercises tagged with the given body part.
func (r *sqliteRepository) ListByBodyPart(ctx context.Context, bodyPart string) (_ []Exercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT e.id, e.name, e.name_pt, e.location, e.gif_url
		FROM exercises e
		JOIN exercise_body_parts ebp ON ebp.exercise_id = e.id
		WHERE ebp.body_part = ?
		ORDER BY e.id`, bodyPart)
	if err != nil {
		return nil, fmt.Errorf("query exercises by body part: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []Exercise
	for rows.Next() {
		var ex Exercise
		if err = rows.Scan(&ex.ID, &ex.Name, &ex.NamePt, &ex.Location, &ex.GifURL); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, ex)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercise rows: %w", err)
	}

	for i := range exercises {
		if err = r.fetchAttributes(ctx, &exercises[i]); err != nil {
			return nil, fmt.Errorf("fetch attributes for exercise %s: %w", exercises[i].ID, err)
		}
	}

	return exercises, nil
}

// fetchAttributes loads muscles, body parts, equipment and instructions for an
// exercise.
func (r *sqliteRepository) fetchAttributes(ctx context.Context, ex *Exercise) error {
	target, secondary, err := r.fetchMuscles(ctx, ex.ID)
	if err != nil {
		return fmt.Errorf("fetch muscles: %w", err)
	}
	ex.TargetMuscles = target
	ex.SecondaryMuscles = secondary

	if ex.BodyParts, err = r.fetchStrings(ctx, `
		SELECT body_part FROM exercise_body_parts
		WHERE exercise_id = ? ORDER BY position`, ex.ID); err != nil {
		return fmt.Errorf("fetch body parts: %w", err)
	}

	if ex.Equipment, err = r.fetchStrings(ctx, `
		SELECT equipment FROM exercise_equipment
		WHERE exercise_id = ? ORDER BY position`, ex.ID); err != nil {
		return fmt.Errorf("fetch equipment: %w", err)
	}

	if ex.Instructions, err = r.fetchStrings(ctx, `
		SELECT instruction FROM exercise_instructions
		WHERE exercise_id = ? ORDER BY step_number`, ex.ID); err != nil {
		return fmt.Errorf("fetch instructions: %w", err)
	}

	return nil
}

// fetchMuscles retrieves the target and secondary muscles for an exercise.
func (r *sqliteRepository) fetchMuscles(ctx context.Context, exerciseID string) (_ []string, _ []string, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT muscle, is_primary
		FROM exercise_muscles
		WHERE exercise_id = ?
		ORDER BY is_primary DESC, position`, exerciseID)
	if err != nil {
		return nil, nil, fmt.Errorf("query muscles: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var target, secondary []string
	for rows.Next() {
		var (
			muscle    string
			isPrimary bool
		)
		if err = rows.Scan(&muscle, &isPrimary); err != nil {
			return nil, nil, fmt.Errorf("scan muscle row: %w", err)
		}
		if isPrimary {
			target = append(target, muscle)
		} else {
			secondary = append(secondary, muscle)
		}
	}

	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate muscle rows: %w", err)
	}

	return target, secondary, nil
}

// fetchStrings runs a single-column query and collects the results.
func (r *sqliteRepository) fetchStrings(ctx context.Context, query string, args ...any) (_ []string, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var values []string
	for rows.Next() {
		var value string
		if err = rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		values = append(values, value)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return values, nil
}
