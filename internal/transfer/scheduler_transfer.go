package transfer

import "github.com/somema/somema-api/internal/models"

// QueueResult is the worker's batch summary.
type QueueResult struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Processed int         `json:"processed"`
	Failed    int         `json:"failed"`
	Results   []JobResult `json:"results,omitempty"`
}

type JobResult struct {
	QueueID int64  `json:"queue_id"`
	PostID  int64  `json:"post_id"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// DispatchSummary is the cron dispatcher's response body.
type DispatchSummary struct {
	Success      bool               `json:"success"`
	Message      string             `json:"message"`
	QueueStats   *models.QueueStats `json:"queue_stats,omitempty"`
	QueueResult  *QueueResult       `json:"queue_result,omitempty"`
	RetriedPosts int                `json:"retried_posts"`
	Logs         []string           `json:"logs"`
}
