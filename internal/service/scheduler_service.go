package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	config "github.com/somema/somema-api/configs"
	"github.com/somema/somema-api/internal/repository"
	"github.com/somema/somema-api/internal/transfer"
)

// SchedulerService is the cron dispatcher: it promotes due posts into
// the queue, kicks the queue worker over HTTP and runs the retry sweep.
// It holds no delivery logic of its own.
type SchedulerService interface {
	Dispatch(ctx context.Context) (*transfer.DispatchSummary, error)
}

type schedulerService struct {
	cfg    config.Config
	queue  repository.QueueRepository
	client *http.Client
	nowFn  func() time.Time
}

func NewSchedulerService(cfg config.Config, queue repository.QueueRepository) SchedulerService {
	return &schedulerService{
		cfg:   cfg,
		queue: queue,
		// A timed-out worker call is a transient failure; claimed jobs
		// stay in processing and are handled by the next sweep.
		client: &http.Client{Timeout: 2 * time.Minute},
		nowFn:  time.Now,
	}
}

func (s *schedulerService) Dispatch(ctx context.Context) (*transfer.DispatchSummary, error) {
	summary := &transfer.DispatchSummary{}
	now := s.nowFn().UTC()
	summary.Logs = append(summary.Logs, fmt.Sprintf("[%s] triggering queue processor for scheduled posts", now.Format(time.RFC3339)))

	promoted, err := s.queue.PromoteDuePosts(ctx, now)
	if err != nil {
		summary.Logs = append(summary.Logs, fmt.Sprintf("error promoting scheduled posts: %v", err))
	} else if promoted > 0 {
		summary.Logs = append(summary.Logs, fmt.Sprintf("added %d due posts to queue", promoted))
	}

	stats, err := s.queue.CountByStatus(ctx)
	if err != nil {
		summary.Logs = append(summary.Logs, fmt.Sprintf("error checking queue: %v", err))
	} else {
		summary.QueueStats = stats
		summary.Logs = append(summary.Logs, fmt.Sprintf("queue status: pending=%d processing=%d failed=%d", stats.Pending, stats.Processing, stats.Failed))
	}

	queueResult, err := s.triggerWorker(ctx)
	if err != nil {
		summary.Logs = append(summary.Logs, fmt.Sprintf("queue processor failed: %v", err))
		return summary, fmt.Errorf("queue processor failed: %w", err)
	}
	summary.QueueResult = queueResult
	summary.Logs = append(summary.Logs, fmt.Sprintf("queue processor result: processed=%d failed=%d", queueResult.Processed, queueResult.Failed))

	// Retry failures are logged but never abort the response; the
	// dispatcher reports best-effort status.
	retried, err := s.queue.RetryFailed(ctx, s.cfg.QueueMaxAttempts, now)
	if err != nil {
		summary.Logs = append(summary.Logs, fmt.Sprintf("retry failed posts error: %v", err))
	} else {
		summary.RetriedPosts = retried
		summary.Logs = append(summary.Logs, fmt.Sprintf("retried %d failed posts", retried))
	}

	summary.Success = true
	summary.Message = "Queue processor triggered successfully"
	return summary, nil
}

func (s *schedulerService) triggerWorker(ctx context.Context) (*transfer.QueueResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.QueueWorkerURL, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ServiceRoleKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("batch-size", strconv.Itoa(s.cfg.QueueBatchSize))

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("worker returned %d: %s", resp.StatusCode, string(body))
	}

	var result transfer.QueueResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &result, nil
}
