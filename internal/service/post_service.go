package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/somema/somema-api/internal/models"
	"github.com/somema/somema-api/internal/repository"
	"github.com/somema/somema-api/internal/transfer"
)

type PostService interface {
	CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation) (int64, time.Duration, error)
	List(ctx context.Context, userID int64) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error)
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	db *sql.DB
	pr repository.PostRepository
	qr repository.QueueRepository
}

func NewPostService(db *sql.DB, pr repository.PostRepository, qr repository.QueueRepository) PostService {
	return &postService{
		db: db,
		pr: pr,
		qr: qr,
	}
}

// CreatePost stores the post and its queue row in one transaction and
// returns the delay until its scheduled time for the task scheduler.
func (s *postService) CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation) (int64, time.Duration, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return 0, 0, err
	}
	if pc.Caption == "" {
		err := errors.New("caption cannot be empty")
		slog.Info(err.Error())
		return 0, 0, err
	}
	if pc.Platform != models.PlatformInstagram && pc.Platform != models.PlatformFacebook {
		err := fmt.Errorf("unsupported platform %q", pc.Platform)
		slog.Info(err.Error())
		return 0, 0, err
	}
	if pc.MediaURL == "" {
		err := errors.New("no media selected")
		slog.Info(err.Error())
		return 0, 0, err
	}
	if pc.PageID == "" {
		err := errors.New("no page selected")
		slog.Info(err.Error())
		return 0, 0, err
	}

	scheduledFor, err := time.Parse(time.RFC3339, pc.ScheduledFor)
	if err != nil {
		err = fmt.Errorf("invalid scheduled time format: %w", err)
		slog.Error(err.Error())
		return 0, 0, err
	}

	reference, err := gonanoid.New()
	if err != nil {
		return 0, 0, err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	post := models.Post{
		UserID:       userID,
		Reference:    reference,
		Platform:     pc.Platform,
		Caption:      pc.Caption,
		Hashtags:     pc.Hashtags,
		MediaURL:     pc.MediaURL,
		PageID:       pc.PageID,
		Status:       models.PostStatusScheduled,
		ScheduledFor: scheduledFor.UTC(),
	}

	postID, err := s.pr.Create(ctx, tx, &post)
	if err != nil {
		return 0, 0, fmt.Errorf("error creating post: %w", err)
	}

	job := models.QueueJob{
		PostID:       postID,
		UserID:       userID,
		ScheduledFor: scheduledFor.UTC(),
	}
	if _, err = s.qr.Enqueue(ctx, tx, &job); err != nil {
		return 0, 0, fmt.Errorf("error queueing post: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	delay := time.Until(scheduledFor)
	if delay < 0 {
		delay = 0
	}

	return postID, delay, nil
}

func (s *postService) PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error) {
	var err error

	if userID == 0 {
		err = errors.New("user is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	if postID == 0 {
		err = errors.New("post id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if !isValid {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post info")
	}

	return post, nil
}

func (s *postService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	posts, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing posts")
	}
	return posts, nil
}

func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("user is not valid")
		slog.Info(err.Error())
		return err
	}

	if postID == 0 {
		err = errors.New("post_id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return err
	}

	err = s.pr.Remove(ctx, postID)
	if err != nil {
		return fmt.Errorf("error removing post")
	}

	return nil
}
