package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/somema/somema-api/internal/models"
)

type QueueRepository interface {
	Enqueue(ctx context.Context, tx *sql.Tx, job *models.QueueJob) (int64, error)
	PromoteDuePosts(ctx context.Context, now time.Time) (int, error)
	Claim(ctx context.Context, batchSize int, now time.Time) ([]*models.QueueJob, error)
	GetByPostID(ctx context.Context, postID int64) (*models.QueueJob, error)
	MarkCompleted(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errorMessage string, nextAttemptAt time.Time) error
	RetryFailed(ctx context.Context, maxAttempts int, now time.Time) (int, error)
	CountByStatus(ctx context.Context) (*models.QueueStats, error)
}

type queueRepository struct {
	db *sql.DB
}

func NewQueueRepository(db *sql.DB) QueueRepository {
	return &queueRepository{db: db}
}

func (r *queueRepository) Enqueue(ctx context.Context, tx *sql.Tx, job *models.QueueJob) (int64, error) {
	query := `
		INSERT INTO post_queue (post_id, user_id, scheduled_for, status, next_attempt_at)
		VALUES ($1, $2, $3, $4, $3)
		ON CONFLICT (post_id) DO NOTHING
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, job.PostID, job.UserID, job.ScheduledFor, models.QueueStatusPending).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, job.PostID, job.UserID, job.ScheduledFor, models.QueueStatusPending).Scan(&id)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			// Conflict: the post already has a queue row.
			return 0, nil
		}
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

// PromoteDuePosts inserts queue rows for scheduled posts whose time has
// come but which are not in the queue yet. Safe to run from overlapping
// dispatcher invocations.
func (r *queueRepository) PromoteDuePosts(ctx context.Context, now time.Time) (int, error) {
	query := `
		INSERT INTO post_queue (post_id, user_id, scheduled_for, status, next_attempt_at)
		SELECT p.id, p.user_id, p.scheduled_for, 'pending', p.scheduled_for
		FROM posts p
		WHERE p.status = 'scheduled' AND p.scheduled_for <= $1
		ON CONFLICT (post_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Claim flips a bounded batch of due pending jobs to processing. The
// conditional update plus SKIP LOCKED guarantees at most one in-flight
// processor per job even under overlapping invocations.
func (r *queueRepository) Claim(ctx context.Context, batchSize int, now time.Time) ([]*models.QueueJob, error) {
	query := `
		UPDATE post_queue
		SET status = 'processing',
			attempt_count = attempt_count + 1,
			updated_at = $1
		WHERE id IN (
			SELECT id FROM post_queue
			WHERE status = 'pending' AND scheduled_for <= $1 AND next_attempt_at <= $1
			ORDER BY scheduled_for
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, post_id, user_id, scheduled_for, status, error_message, attempt_count, next_attempt_at, created_at, updated_at
	`

	rows, err := r.db.QueryContext(ctx, query, now, batchSize)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.QueueJob
	for rows.Next() {
		var job models.QueueJob
		err := rows.Scan(&job.ID, &job.PostID, &job.UserID, &job.ScheduledFor, &job.Status, &job.ErrorMessage, &job.AttemptCount, &job.NextAttemptAt, &job.CreatedAt, &job.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		jobs = append(jobs, &job)
	}
	return jobs, rows.Err()
}

func (r *queueRepository) GetByPostID(ctx context.Context, postID int64) (*models.QueueJob, error) {
	query := `SELECT id, post_id, user_id, scheduled_for, status, error_message, attempt_count, next_attempt_at, created_at, updated_at FROM post_queue WHERE post_id = $1`
	row := r.db.QueryRowContext(ctx, query, postID)

	var job models.QueueJob
	err := row.Scan(&job.ID, &job.PostID, &job.UserID, &job.ScheduledFor, &job.Status, &job.ErrorMessage, &job.AttemptCount, &job.NextAttemptAt, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &job, nil
}

func (r *queueRepository) MarkCompleted(ctx context.Context, id int64) error {
	query := `
		UPDATE post_queue
		SET status = 'completed',
			error_message = '',
			updated_at = $1
		WHERE id = $2 AND status = 'processing'
	`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *queueRepository) MarkFailed(ctx context.Context, id int64, errorMessage string, nextAttemptAt time.Time) error {
	query := `
		UPDATE post_queue
		SET status = 'failed',
			error_message = $1,
			next_attempt_at = $2,
			updated_at = $3
		WHERE id = $4 AND status = 'processing'
	`
	_, err := r.db.ExecContext(ctx, query, errorMessage, nextAttemptAt, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// RetryFailed requeues failed jobs whose backoff window has elapsed and
// which have attempts left. Jobs at or past maxAttempts stay failed.
func (r *queueRepository) RetryFailed(ctx context.Context, maxAttempts int, now time.Time) (int, error) {
	query := `
		UPDATE post_queue
		SET status = 'pending',
			updated_at = $1
		WHERE status = 'failed' AND attempt_count < $2 AND next_attempt_at <= $1
	`
	result, err := r.db.ExecContext(ctx, query, now, maxAttempts)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *queueRepository) CountByStatus(ctx context.Context) (*models.QueueStats, error) {
	query := `SELECT status, COUNT(*) FROM post_queue WHERE status IN ('pending', 'processing', 'failed') GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var stats models.QueueStats
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		switch status {
		case models.QueueStatusPending:
			stats.Pending = count
		case models.QueueStatusProcessing:
			stats.Processing = count
		case models.QueueStatusFailed:
			stats.Failed = count
		}
	}
	return &stats, rows.Err()
}
