package models

import "time"

// QueueJob is a row in post_queue. A post has at most one queue row;
// the worker claims rows with a conditional update so a job is never
// processed by two invocations at once.
type QueueJob struct {
	ID            int64     `db:"id" json:"id"`
	PostID        int64     `db:"post_id" json:"post_id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	ScheduledFor  time.Time `db:"scheduled_for" json:"scheduled_for"`
	Status        string    `db:"status" json:"status"`
	ErrorMessage  string    `db:"error_message" json:"error_message,omitempty"`
	AttemptCount  int       `db:"attempt_count" json:"attempt_count"`
	NextAttemptAt time.Time `db:"next_attempt_at" json:"next_attempt_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

const (
	QueueStatusPending    = "pending"
	QueueStatusProcessing = "processing"
	QueueStatusFailed     = "failed"
	QueueStatusCompleted  = "completed"
)

// QueueStats holds per-status counts reported by the cron dispatcher.
type QueueStats struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Failed     int `json:"failed"`
}
