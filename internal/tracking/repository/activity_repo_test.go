package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurashop/marketplace-backend/internal/tracking/domain"
)

func setupActivityRepo(t *testing.T) (*ActivityTimeseriesRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewActivityTimeseriesRepository(db), mock, db
}

func TestActivityTimeseriesRepository_InsertBatch(t *testing.T) {
	repo, mock, db := setupActivityRepo(t)
	defer db.Close()

	t.Run("inserts batch in one transaction", func(t *testing.T) {
		now := time.Now()
		rows := []domain.ActivityRow{
			{
				SessionID: "sess-1", UserID: "u1", Time: now, TimestampMs: now.UnixMilli(),
				EventType: domain.EventPageView, Path: "/category/groceries",
			},
			{
				SessionID: "sess-1", UserID: "u1", Time: now, TimestampMs: now.UnixMilli(),
				EventType: domain.EventCustom, Payload: map[string]any{"name": "coupon_applied"},
			},
		}

		mock.ExpectBegin()
		prep := mock.ExpectPrepare(`INSERT INTO tracking_activity_timeseries`)
		prep.ExpectExec().
			WithArgs("sess-1", "u1", sqlmock.AnyArg(), now.UnixMilli(), domain.EventPageView,
				"/category/groceries", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		prep.ExpectExec().
			WithArgs("sess-1", "u1", sqlmock.AnyArg(), now.UnixMilli(), domain.EventCustom,
				"", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.InsertBatch(context.Background(), rows))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("handles empty batch", func(t *testing.T) {
		require.NoError(t, repo.InsertBatch(context.Background(), nil))
	})

	t.Run("rolls back on insert failure", func(t *testing.T) {
		now := time.Now()
		rows := []domain.ActivityRow{{
			SessionID: "sess-1", UserID: "u1", Time: now, TimestampMs: now.UnixMilli(),
			EventType: domain.EventPageView, Path: "/",
		}}

		mock.ExpectBegin()
		prep := mock.ExpectPrepare(`INSERT INTO tracking_activity_timeseries`)
		prep.ExpectExec().WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.InsertBatch(context.Background(), rows)
		assert.ErrorContains(t, err, "disk full")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestActivityTimeseriesRepository_CountSince(t *testing.T) {
	repo, mock, db := setupActivityRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tracking_activity_timeseries`).
		WithArgs("sess-1", int64(1000)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.CountSince(context.Background(), "sess-1", 1000)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
