package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/somema/somema-api/internal/models"
	"github.com/somema/somema-api/internal/transfer"
	"github.com/somema/somema-api/pkg/utils"
)

func (j *Queue) HandleSchedulePostTask(ctx context.Context, task *asynq.Task) error {
	var payload SchedulePostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	// The task fires at the post's scheduled time; one batch pass picks
	// it up together with anything else that came due.
	result := j.ProcessBatch(ctx, j.cfg.QueueBatchSize)
	log.Printf("scheduled task for post %d: processed=%d failed=%d", payload.PostID, result.Processed, result.Failed)

	return nil
}

// ProcessBatch claims up to batchSize due jobs and delivers them. The
// claim is a conditional pending->processing update, so overlapping
// invocations never double-process a job.
func (j *Queue) ProcessBatch(ctx context.Context, batchSize int) *transfer.QueueResult {
	jobs, err := j.qr.Claim(ctx, batchSize, time.Now().UTC())
	if err != nil {
		return &transfer.QueueResult{Success: false, Message: fmt.Sprintf("failed to claim queue jobs: %v", err)}
	}

	if len(jobs) == 0 {
		return &transfer.QueueResult{Success: true, Message: "No posts to process"}
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, 10) // Concurrency limit

	result := &transfer.QueueResult{Success: true}

	for _, job := range jobs {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(job *models.QueueJob) {
			defer wg.Done()
			defer func() { <-semaphore }()

			jr := j.processJob(ctx, job)

			mu.Lock()
			if jr.Status == models.QueueStatusCompleted {
				result.Processed++
			} else {
				result.Failed++
			}
			result.Results = append(result.Results, jr)
			mu.Unlock()
		}(job)
	}

	wg.Wait()
	return result
}

func (j *Queue) processJob(ctx context.Context, job *models.QueueJob) transfer.JobResult {
	jr := transfer.JobResult{QueueID: job.ID, PostID: job.PostID}

	if err := j.deliver(ctx, job); err != nil {
		log.Printf("error processing queue item %d: %v", job.ID, err)
		j.failJob(ctx, job, err)
		jr.Status = models.QueueStatusFailed
		jr.Error = err.Error()
		return jr
	}

	if err := j.qr.MarkCompleted(ctx, job.ID); err != nil {
		log.Printf("error completing queue item %d: %v", job.ID, err)
	}

	jr.Status = models.QueueStatusCompleted
	return jr
}

func (j *Queue) deliver(ctx context.Context, job *models.QueueJob) error {
	post, err := j.pr.GetByID(ctx, job.PostID)
	if err != nil {
		return fmt.Errorf("fetching post %d: %w", job.PostID, err)
	}
	if post == nil {
		return fmt.Errorf("post %d not found", job.PostID)
	}

	profile, found, err := j.prof.GetByUserID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("fetching profile for user %d: %w", job.UserID, err)
	}
	if !found || profile.MetaAccessToken == "" {
		return fmt.Errorf("user %d has no platform credentials", job.UserID)
	}

	accessToken, err := utils.Decrypt(profile.MetaAccessToken, []byte(j.cfg.SecretKey))
	if err != nil {
		return fmt.Errorf("decrypting credentials for user %d: %w", job.UserID, err)
	}

	metaPostID, err := j.pub.Publish(ctx, post, accessToken)
	if err != nil {
		return err
	}

	if err := j.pr.MarkPublished(ctx, post.ID, metaPostID, time.Now().UTC()); err != nil {
		log.Printf("error marking post %d published: %v", post.ID, err)
	}

	return nil
}

// failJob records the failure with an exponential backoff window. The
// post itself is only marked failed once the retry budget is spent; the
// retry sweep requeues everything under budget.
func (j *Queue) failJob(ctx context.Context, job *models.QueueJob, deliverErr error) {
	backoff := time.Duration(math.Pow(2, float64(job.AttemptCount))) * time.Minute
	nextAttempt := time.Now().UTC().Add(backoff)

	if err := j.qr.MarkFailed(ctx, job.ID, deliverErr.Error(), nextAttempt); err != nil {
		log.Printf("error marking queue item %d failed: %v", job.ID, err)
	}

	if job.AttemptCount >= j.cfg.QueueMaxAttempts {
		if err := j.pr.UpdatePostStatus(ctx, models.PostStatusFailed, job.PostID); err != nil {
			log.Printf("error marking post %d failed: %v", job.PostID, err)
		}
	}
}
