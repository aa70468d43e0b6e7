package job

import (
	"context"
	"log/slog"

	"github.com/somema/somema-api/internal/service"
)

type SchedulerJob struct {
	s service.SchedulerService
}

func NewSchedulerJob(s service.SchedulerService) *SchedulerJob {
	return &SchedulerJob{s: s}
}

// Run fires the queue dispatch cycle. It backs up the HTTP cron
// endpoint so due posts still move when the external cron misses a beat.
func (j *SchedulerJob) Run() {
	ctx := context.Background()

	summary, err := j.s.Dispatch(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	slog.Info("scheduler dispatch finished",
		"processed", summary.QueueResult.Processed,
		"failed", summary.QueueResult.Failed,
		"retried", summary.RetriedPosts)
}
