// Package kvstore implements the per-user JSON key-value records backing plans,
// exercise progress, loads, and workout history.
//
// Records are scoped by a user identity. "guest" is a valid identity used when
// nobody is logged in. Writes are last-write-wins per key.
package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/trainew/trainew/internal/errors"
	"github.com/trainew/trainew/internal/sqlite"
)

// ErrNotFound is returned by Get when no record exists for the key.
var ErrNotFound = errors.NewSentinel("record not found")

// Store reads and writes per-user JSON records.
type Store struct {
	db     *sqlite.Database
	logger *slog.Logger
}

// New creates a key-value store backed by the given database.
func New(db *sqlite.Database, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// Get unmarshals the record stored under (userID, key) into v.
//
// A stored value that fails to parse is treated the same as an absent record:
// the caller falls back to defaults instead of surfacing a corruption error.
func (s *Store) Get(ctx context.Context, userID, key string, v any) error {
	var raw string
	err := s.db.ReadOnly.QueryRowContext(ctx, `
		SELECT value
		FROM kv_records
		WHERE user_id = ? AND key = ?`, userID, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query kv record: %w", err)
	}

	if err = json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "discarding corrupt kv record",
			slog.String("key", key), errors.SlogError(err))
		return ErrNotFound
	}
	return nil
}

// Set marshals v and stores it under (userID, key), replacing any prior value.
func (s *Store) Set(ctx context.Context, userID, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal kv record: %w", err)
	}

	_, err = s.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO kv_records (user_id, key, value, updated_at)
		VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ'))
		ON CONFLICT (user_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		userID, key, string(raw))
	if err != nil {
		return fmt.Errorf("save kv record: %w", err)
	}
	return nil
}

// Delete removes the record stored under (userID, key). Deleting an absent
// record is not an error.
func (s *Store) Delete(ctx context.Context, userID, key string) error {
	if _, err := s.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM kv_records
		WHERE user_id = ? AND key = ?`, userID, key); err != nil {
		return fmt.Errorf("delete kv record: %w", err)
	}
	return nil
}
