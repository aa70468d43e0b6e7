package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/somema/somema-api/configs"
	"github.com/somema/somema-api/internal/models"
	"github.com/somema/somema-api/internal/transfer"
)

type fakeQueueRepo struct {
	promoted      int
	promoteErr    error
	stats         *models.QueueStats
	retried       int
	retryErr      error
	retryAttempts int
	enqueued      []*models.QueueJob
	enqueueErr    error
}

func (f *fakeQueueRepo) Enqueue(ctx context.Context, tx *sql.Tx, job *models.QueueJob) (int64, error) {
	if f.enqueueErr != nil {
		return 0, f.enqueueErr
	}
	f.enqueued = append(f.enqueued, job)
	return int64(len(f.enqueued)), nil
}

func (f *fakeQueueRepo) PromoteDuePosts(ctx context.Context, now time.Time) (int, error) {
	return f.promoted, f.promoteErr
}

func (f *fakeQueueRepo) Claim(ctx context.Context, batchSize int, now time.Time) ([]*models.QueueJob, error) {
	return nil, nil
}

func (f *fakeQueueRepo) GetByPostID(ctx context.Context, postID int64) (*models.QueueJob, error) {
	return nil, nil
}

func (f *fakeQueueRepo) MarkCompleted(ctx context.Context, id int64) error { return nil }

func (f *fakeQueueRepo) MarkFailed(ctx context.Context, id int64, errorMessage string, nextAttemptAt time.Time) error {
	return nil
}

func (f *fakeQueueRepo) RetryFailed(ctx context.Context, maxAttempts int, now time.Time) (int, error) {
	f.retryAttempts = maxAttempts
	return f.retried, f.retryErr
}

func (f *fakeQueueRepo) CountByStatus(ctx context.Context) (*models.QueueStats, error) {
	if f.stats == nil {
		return &models.QueueStats{}, nil
	}
	return f.stats, nil
}

func newDispatchTestService(workerURL string, queue *fakeQueueRepo) SchedulerService {
	cfg := config.Config{
		QueueWorkerURL:   workerURL,
		ServiceRoleKey:   "service-key",
		QueueBatchSize:   20,
		QueueMaxAttempts: 5,
	}
	return NewSchedulerService(cfg, queue)
}

func TestDispatchSuccess(t *testing.T) {
	var gotAuth, gotBatch string
	worker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotBatch = r.Header.Get("batch-size")
		json.NewEncoder(w).Encode(transfer.QueueResult{Success: true, Processed: 3, Failed: 1})
	}))
	defer worker.Close()

	queue := &fakeQueueRepo{
		promoted: 2,
		stats:    &models.QueueStats{Pending: 4, Failed: 1},
		retried:  1,
	}
	s := newDispatchTestService(worker.URL, queue)

	summary, err := s.Dispatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "20", gotBatch)

	assert.True(t, summary.Success)
	require.NotNil(t, summary.QueueResult)
	assert.Equal(t, 3, summary.QueueResult.Processed)
	assert.Equal(t, 1, summary.QueueResult.Failed)
	assert.Equal(t, 1, summary.RetriedPosts)
	assert.Equal(t, 5, queue.retryAttempts)
	require.NotNil(t, summary.QueueStats)
	assert.Equal(t, 4, summary.QueueStats.Pending)
	assert.NotEmpty(t, summary.Logs)
}

func TestDispatchWorkerFailure(t *testing.T) {
	worker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer worker.Close()

	queue := &fakeQueueRepo{}
	s := newDispatchTestService(worker.URL, queue)

	summary, err := s.Dispatch(context.Background())

	assert.Error(t, err)
	require.NotNil(t, summary)
	assert.False(t, summary.Success)
	assert.Zero(t, queue.retryAttempts)
}

func TestDispatchPromotionErrorIsNonFatal(t *testing.T) {
	worker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transfer.QueueResult{Success: true})
	}))
	defer worker.Close()

	queue := &fakeQueueRepo{promoteErr: assert.AnError}
	s := newDispatchTestService(worker.URL, queue)

	summary, err := s.Dispatch(context.Background())

	assert.NoError(t, err)
	assert.True(t, summary.Success)
}
