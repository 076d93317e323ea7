package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aurashop/marketplace-backend/internal/tracking/domain"
)

// ActivityTimeseriesRepository mirrors activity events into the Postgres
// timeseries table for offline analysis.
type ActivityTimeseriesRepository struct {
	db *sql.DB
}

func NewActivityTimeseriesRepository(db *sql.DB) *ActivityTimeseriesRepository {
	return &ActivityTimeseriesRepository{db: db}
}

// InsertBatch writes a batch of rows in one transaction with a prepared
// statement, much cheaper than row-at-a-time inserts.
func (r *ActivityTimeseriesRepository) InsertBatch(ctx context.Context, rows []domain.ActivityRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tracking_activity_timeseries (
			session_id, user_id, time, timestamp_ms, event_type, path, payload
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		payloadJSON, err := json.Marshal(row.Payload)
		if err != nil {
			payloadJSON = []byte("{}")
		}
		if _, err := stmt.ExecContext(ctx,
			row.SessionID,
			row.UserID,
			row.Time,
			row.TimestampMs,
			row.EventType,
			row.Path,
			payloadJSON,
		); err != nil {
			return fmt.Errorf("failed to insert activity row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CountSince reports how many events one session produced after the cutoff.
func (r *ActivityTimeseriesRepository) CountSince(ctx context.Context, sessionID string, sinceMs int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tracking_activity_timeseries
		WHERE session_id = $1 AND timestamp_ms >= $2
	`, sessionID, sinceMs).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count activity rows: %w", err)
	}
	return n, nil
}
