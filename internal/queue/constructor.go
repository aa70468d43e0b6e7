package queue

import (
	config "github.com/somema/somema-api/configs"
	"github.com/somema/somema-api/internal/repository"
	"github.com/somema/somema-api/internal/service"
)

type Queue struct {
	cfg  config.Config
	qr   repository.QueueRepository
	pr   repository.PostRepository
	prof repository.ProfileRepository
	pub  service.Publisher
}

func NewQueue(
	cfg config.Config,
	qr repository.QueueRepository,
	pr repository.PostRepository,
	prof repository.ProfileRepository,
	pub service.Publisher) *Queue {
	return &Queue{
		cfg:  cfg,
		qr:   qr,
		pr:   pr,
		prof: prof,
		pub:  pub,
	}
}

const TaskTypeSchedulePost = "schedule:post"

type SchedulePostPayload struct {
	PostID int64 `json:"post_id"`
}
