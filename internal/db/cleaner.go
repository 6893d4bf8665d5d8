package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// PruneStaleSites deletes sites whose last_seen is older than retention and
// returns how many rows were removed. A non-positive retention is a no-op.
func PruneStaleSites(
	ctx context.Context,
	db *sql.DB,
	retention time.Duration,
	log *zap.Logger,
) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}

	cutoff := time.Now().Add(-retention).Unix()
	res, err := db.ExecContext(ctx, `
        DELETE FROM sites
         WHERE last_seen < $1
    `, cutoff)
	if err != nil {
		log.Error("failed to prune stale sites", zap.Error(err))
		return 0, fmt.Errorf("prune stale sites: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows > 0 {
		log.Info("pruned stale sites", zap.Int64("removed", rows))
	}
	return rows, nil
}
