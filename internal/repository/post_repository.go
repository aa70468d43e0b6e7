package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/somema/somema-api/internal/models"
)

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error)
	UpdatePostStatus(ctx context.Context, status string, postID int64) error
	MarkPublished(ctx context.Context, postID int64, metaPostID string, postedAt time.Time) error
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (user_id, reference, platform, caption, hashtags, media_url, page_id, status, scheduled_for)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, post.UserID, post.Reference, post.Platform, post.Caption, pq.Array(post.Hashtags), post.MediaURL, post.PageID, post.Status, post.ScheduledFor).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, post.UserID, post.Reference, post.Platform, post.Caption, pq.Array(post.Hashtags), post.MediaURL, post.PageID, post.Status, post.ScheduledFor).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT id, user_id, reference, platform, caption, hashtags, media_url, page_id, status, scheduled_for, meta_post_id, posted_at, created_at, updated_at FROM posts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var post models.Post
	err := row.Scan(&post.ID, &post.UserID, &post.Reference, &post.Platform, &post.Caption, pq.Array(&post.Hashtags), &post.MediaURL, &post.PageID, &post.Status, &post.ScheduledFor, &post.MetaPostID, &post.PostedAt, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	query := `SELECT id, user_id, reference, platform, caption, hashtags, media_url, page_id, status, scheduled_for, meta_post_id, posted_at, created_at, updated_at FROM posts WHERE user_id = $1 ORDER BY scheduled_for DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var post models.Post
		err := rows.Scan(&post.ID, &post.UserID, &post.Reference, &post.Platform, &post.Caption, pq.Array(&post.Hashtags), &post.MediaURL, &post.PageID, &post.Status, &post.ScheduledFor, &post.MetaPostID, &post.PostedAt, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

func (r *postRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *postRepository) UpdatePostStatus(ctx context.Context, status string, postID int64) error {
	query := `
		UPDATE posts
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) MarkPublished(ctx context.Context, postID int64, metaPostID string, postedAt time.Time) error {
	query := `
		UPDATE posts
		SET status = 'published',
			meta_post_id = $1,
			posted_at = $2,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, metaPostID, postedAt, postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
