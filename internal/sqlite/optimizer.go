package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const optimizeInterval = time.Hour

// startDatabaseOptimizer runs PRAGMA optimize periodically until ctx is
// cancelled. See https://www.sqlite.org/pragma.html#pragma_optimize.
func (db *Database) startDatabaseOptimizer(ctx context.Context) {
	// 0x10002 enables the recommended setup for long-lived connections.
	if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize = 0x10002;"); err != nil {
		db.logger.LogAttrs(ctx, slog.LevelError, "failed to optimize database",
			slog.Any("error", fmt.Errorf("init optimize database: %w", err)))
	}
	for {
		start := time.Now()
		if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to optimize database",
				slog.Any("error", fmt.Errorf("optimize database: %w", err)))
		} else {
			db.logger.LogAttrs(ctx, slog.LevelInfo, "optimized database",
				slog.Duration("duration", time.Since(start)))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(optimizeInterval):
		}
	}
}
