package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somema/somema-api/internal/models"
)

var queueColumns = []string{"id", "post_id", "user_id", "scheduled_for", "status", "error_message", "attempt_count", "next_attempt_at", "created_at", "updated_at"}

func TestEnqueueReturnsZeroOnConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// ON CONFLICT DO NOTHING yields no row for a duplicate post.
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO post_queue")).
		WithArgs(int64(10), int64(42), sqlmock.AnyArg(), models.QueueStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	r := NewQueueRepository(db)
	id, err := r.Enqueue(context.Background(), nil, &models.QueueJob{
		PostID:       10,
		UserID:       42,
		ScheduledFor: time.Now(),
	})

	assert.NoError(t, err)
	assert.Zero(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnqueueReturnsNewID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO post_queue")).
		WithArgs(int64(10), int64(42), sqlmock.AnyArg(), models.QueueStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	r := NewQueueRepository(db)
	id, err := r.Enqueue(context.Background(), nil, &models.QueueJob{
		PostID:       10,
		UserID:       42,
		ScheduledFor: time.Now(),
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimFlipsPendingToProcessing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	sched := now.Add(-time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WithArgs(now, 20).
		WillReturnRows(sqlmock.NewRows(queueColumns).
			AddRow(int64(1), int64(10), int64(42), sched, models.QueueStatusProcessing, "", 1, sched, now, now).
			AddRow(int64(2), int64(11), int64(42), sched, models.QueueStatusProcessing, "", 2, sched, now, now))

	r := NewQueueRepository(db)
	jobs, err := r.Claim(context.Background(), 20, now)
	require.NoError(t, err)

	require.Len(t, jobs, 2)
	assert.Equal(t, int64(10), jobs[0].PostID)
	assert.Equal(t, 1, jobs[0].AttemptCount)
	assert.Equal(t, models.QueueStatusProcessing, jobs[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimEmptyQueue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WithArgs(now, 20).
		WillReturnRows(sqlmock.NewRows(queueColumns))

	r := NewQueueRepository(db)
	jobs, err := r.Claim(context.Background(), 20, now)

	assert.NoError(t, err)
	assert.Empty(t, jobs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryFailedRespectsAttemptBudget(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("WHERE status = 'failed' AND attempt_count < $2 AND next_attempt_at <= $1")).
		WithArgs(now, 5).
		WillReturnResult(sqlmock.NewResult(0, 3))

	r := NewQueueRepository(db)
	n, err := r.RetryFailed(context.Background(), 5, now)

	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkCompletedOnlyTouchesProcessing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $2 AND status = 'processing'")).
		WithArgs(sqlmock.AnyArg(), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := NewQueueRepository(db)
	err = r.MarkCompleted(context.Background(), 9)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkFailedRecordsBackoff(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	next := time.Now().Add(4 * time.Minute)
	mock.ExpectExec(regexp.QuoteMeta("SET status = 'failed'")).
		WithArgs("graph timeout", next, sqlmock.AnyArg(), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := NewQueueRepository(db)
	err = r.MarkFailed(context.Background(), 9, "graph timeout", next)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 4).
			AddRow("failed", 2))

	r := NewQueueRepository(db)
	stats, err := r.CountByStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Pending)
	assert.Zero(t, stats.Processing)
	assert.Equal(t, 2, stats.Failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
