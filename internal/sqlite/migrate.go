package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"
)

// migrateTo brings the live database in line with the schema in schema.sql.
//
// The migration is declarative: the wanted schema is materialised into a
// scratch database, diffed against the live one, and the differences are
// applied. Deleted tables are dropped, new tables created, changed tables
// rebuilt with the 12-step procedure from
// https://www.sqlite.org/lang_altertable.html#otheralter, and finally
// triggers and indexes are brought up to date.
//
// Approach borrowed from https://david.rothlis.net/declarative-schema-migration-for-sqlite/
func (db *Database) migrateTo(ctx context.Context, schemaDefinition string) error {
	start := time.Now()

	detach, err := db.attachWantedSchema(ctx, schemaDefinition)
	if err != nil {
		return fmt.Errorf("attach wanted schema: %w", err)
	}
	defer detach()

	// Table rebuilds shuffle rows between tables, so referential checks are
	// deferred until the end.
	if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disable foreign key validation: %w", err)
	}
	defer func() {
		if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			err = fmt.Errorf("re-enable foreign key validation: %w", err)
			db.logger.LogAttrs(ctx, slog.LevelError, "exit to avoid data corruption", slog.Any("error", err))
			if err = syscall.Kill(syscall.Getpid(), syscall.SIGINT); err != nil {
				os.Exit(1)
			}
		}
	}()

	var tx *sql.Tx
	if tx, err = db.ReadWrite.BeginTx(ctx, nil); err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer db.rollback(ctx, tx)()

	if err = db.syncTables(ctx, tx); err != nil {
		return fmt.Errorf("sync tables: %w", err)
	}

	for _, kind := range []string{"trigger", "index"} {
		if err = db.syncAuxiliary(ctx, tx, kind); err != nil {
			return fmt.Errorf("sync %ss: %w", kind, err)
		}
	}

	if _, err = tx.ExecContext(ctx, "PRAGMA foreign_key_check"); err != nil {
		return fmt.Errorf("foreign key check: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrated database", slog.Duration("duration", time.Since(start)))

	return nil
}

// attachWantedSchema loads the wanted schema into a scratch in-memory database
// and attaches it as "wanted". The returned function detaches it and must be
// called once the migration is done.
func (db *Database) attachWantedSchema(ctx context.Context, schemaDefinition string) (func(), error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", rand.Text())
	scratch, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open scratch database: %w", err)
	}
	defer func() {
		if err = scratch.Close(); err != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close scratch database",
				slog.Any("error", fmt.Errorf("close scratch database: %w", err)))
		}
	}()
	if _, err = scratch.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, fmt.Errorf("apply wanted schema: %w", err)
	}
	if _, err = db.ReadWrite.ExecContext(ctx, "ATTACH DATABASE ? AS wanted", dsn); err != nil {
		return nil, fmt.Errorf("attach wanted database: %w", err)
	}
	return func() {
		if _, err = db.ReadWrite.ExecContext(ctx, "DETACH DATABASE wanted"); err != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach wanted database", slog.Any("error", err))
		}
	}, nil
}

// rollback returns a deferred rollback for tx that tolerates a committed
// transaction.
func (db *Database) rollback(ctx context.Context, tx *sql.Tx) func() {
	return func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback transaction",
				slog.Any("error", fmt.Errorf("rollback transaction: %w", err)))
		}
	}
}

// syncTables drops deleted tables, creates new ones and rebuilds tables whose
// definition changed.
func (db *Database) syncTables(ctx context.Context, tx *sql.Tx) error {
	deleted, err := db.selectStrings(ctx, tx, `SELECT live.name
FROM sqlite_schema AS live
         LEFT JOIN wanted.sqlite_schema AS w ON live.name = w.name AND live.type = w.type
WHERE live.type = 'table'
  AND w.type IS NULL
  AND live.name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return fmt.Errorf("query deleted tables: %w", err)
	}
	for _, table := range deleted {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping table", slog.String("table", table))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", table)); err != nil {
			return fmt.Errorf("DROP TABLE %s: %w", table, err)
		}
	}

	var created []string
	if created, err = db.selectStrings(ctx, tx, `SELECT w.sql
FROM sqlite_schema AS live
         RIGHT JOIN wanted.sqlite_schema AS w ON live.name = w.name AND live.type = w.type
WHERE w.type = 'table'
  AND live.type IS NULL
  AND w.name NOT LIKE 'sqlite_%'`); err != nil {
		return fmt.Errorf("query new tables: %w", err)
	}
	for _, createSQL := range created {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating table", slog.String("query", createSQL))
		if _, err = tx.ExecContext(ctx, createSQL); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	// Rebuilding renames the table, which leaves double quotes around the
	// name in sqlite_schema, so the quotes are stripped before comparing.
	var changed []schemaDelta
	if changed, err = db.selectDeltas(ctx, tx, `SELECT live.name, live.sql, w.sql
FROM sqlite_schema AS live
         JOIN wanted.sqlite_schema AS w ON live.name = w.name AND live.type = w.type
WHERE live.type = 'table'
  AND live.name NOT LIKE 'sqlite_%'
  AND REPLACE(live.sql, '"', '') <> REPLACE(w.sql, '"', '')`); err != nil {
		return fmt.Errorf("query changed tables: %w", err)
	}
	for _, delta := range changed {
		if err = db.rebuildTable(ctx, tx, delta); err != nil {
			return fmt.Errorf("rebuild table %s: %w", delta.name, err)
		}
	}
	return nil
}

// rebuildTable replaces a table whose definition changed: create the new shape
// under a scratch name, copy the columns both shapes share, drop the old table
// and rename the new one into place.
func (db *Database) rebuildTable(ctx context.Context, tx *sql.Tx, delta schemaDelta) error {
	db.logger.LogAttrs(ctx, slog.LevelInfo, "rebuilding table",
		slog.String("table", delta.name),
		slog.String("live_sql", delta.liveSQL),
		slog.String("wanted_sql", delta.wantedSQL))

	scratchName := delta.name + "_migration_temp"
	createSQL := strings.Replace(delta.wantedSQL, delta.name, scratchName, 1)
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("create %s: %w", scratchName, err)
	}

	// Column names are quoted in case one is an SQLite keyword.
	common, err := db.selectStrings(ctx, tx, `SELECT '"' || w.name || '"'
FROM PRAGMA_TABLE_INFO(:table_name) AS live
JOIN PRAGMA_TABLE_INFO(:table_name, 'wanted') AS w ON w.name = live.name`,
		sql.Named("table_name", delta.name))
	if err != nil {
		return fmt.Errorf("query common columns: %w", err)
	}
	columns := strings.Join(common, ", ")
	copySQL := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s;", //nolint: gosec // names come from sqlite_schema.
		scratchName, columns, columns, delta.name)
	db.logger.LogAttrs(ctx, slog.LevelInfo, "copying data", slog.String("query", copySQL))
	if _, err = tx.ExecContext(ctx, copySQL); err != nil {
		return fmt.Errorf("copy data: %w", err)
	}

	if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s;", delta.name)); err != nil {
		return fmt.Errorf("drop old table: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s;", scratchName, delta.name)); err != nil {
		return fmt.Errorf("rename new table: %w", err)
	}
	return nil
}

// syncAuxiliary brings triggers or indexes in line with the wanted schema.
func (db *Database) syncAuxiliary(ctx context.Context, tx *sql.Tx, kind string) error {
	logger := db.logger.With(slog.String("kind", kind))

	deleted, err := db.selectStrings(ctx, tx, `SELECT live.name
FROM sqlite_schema AS live
         LEFT JOIN wanted.sqlite_schema AS w ON live.name = w.name AND live.type = w.type
WHERE live.type = ?
  AND w.type IS NULL
  AND live.name NOT LIKE 'sqlite_%'`, kind)
	if err != nil {
		return fmt.Errorf("query deleted: %w", err)
	}
	for _, name := range deleted {
		dropSQL := fmt.Sprintf("DROP %s %s;", strings.ToUpper(kind), name)
		logger.LogAttrs(ctx, slog.LevelInfo, "dropping", slog.String("query", dropSQL))
		if _, err = tx.ExecContext(ctx, dropSQL); err != nil {
			return fmt.Errorf("drop %s %s: %w", kind, name, err)
		}
	}

	var created []string
	if created, err = db.selectStrings(ctx, tx, `SELECT w.sql
FROM sqlite_schema AS live
         RIGHT JOIN wanted.sqlite_schema AS w ON live.name = w.name AND live.type = w.type
WHERE w.type = ?
  AND live.type IS NULL
  AND w.name NOT LIKE 'sqlite_%'`, kind); err != nil {
		return fmt.Errorf("query created: %w", err)
	}
	for _, createSQL := range created {
		logger.LogAttrs(ctx, slog.LevelInfo, "creating", slog.String("query", createSQL))
		if _, err = tx.ExecContext(ctx, createSQL); err != nil {
			return fmt.Errorf("create %s: %w", kind, err)
		}
	}

	var changed []schemaDelta
	if changed, err = db.selectDeltas(ctx, tx, `SELECT live.name, live.sql, w.sql
FROM sqlite_schema AS live
         JOIN wanted.sqlite_schema AS w ON live.name = w.name AND live.type = w.type
WHERE live.type = ?
  AND live.name NOT LIKE 'sqlite_%'
  AND live.sql <> w.sql`, kind); err != nil {
		return fmt.Errorf("query changed: %w", err)
	}
	for _, delta := range changed {
		dropSQL := fmt.Sprintf("DROP %s %s;", strings.ToUpper(kind), delta.name)
		logger.LogAttrs(ctx, slog.LevelInfo, "replacing",
			slog.String("name", delta.name),
			slog.String("live_sql", delta.liveSQL),
			slog.String("wanted_sql", delta.wantedSQL))
		if _, err = tx.ExecContext(ctx, dropSQL); err != nil {
			return fmt.Errorf("drop changed %s %s: %w", kind, delta.name, err)
		}
		if _, err = tx.ExecContext(ctx, delta.wantedSQL); err != nil {
			return fmt.Errorf("recreate changed %s %s: %w", kind, delta.name, err)
		}
	}
	return nil
}

// selectStrings runs a single-column query and collects the results.
func (db *Database) selectStrings(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			db.logger.Error("could not close rows", slog.Any("error", fmt.Errorf("close rows: %w", err)))
		}
	}()
	var results []string
	for rows.Next() {
		var result string
		if err = rows.Scan(&result); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}

// schemaDelta is one entity whose live and wanted definitions differ.
type schemaDelta struct {
	name      string
	liveSQL   string
	wantedSQL string
}

// selectDeltas runs a (name, live sql, wanted sql) query and collects the
// results.
func (db *Database) selectDeltas(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]schemaDelta, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			db.logger.Error("could not close rows", slog.Any("error", fmt.Errorf("close rows: %w", err)))
		}
	}()
	var deltas []schemaDelta
	for rows.Next() {
		var delta schemaDelta
		if err = rows.Scan(&delta.name, &delta.liveSQL, &delta.wantedSQL); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		deltas = append(deltas, delta)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return deltas, nil
}
