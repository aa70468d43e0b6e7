package models

import "time"

type Post struct {
	ID           int64      `db:"id" json:"id"`
	UserID       int64      `db:"user_id" json:"user_id"`
	Reference    string     `db:"reference" json:"reference"`
	Platform     string     `db:"platform" json:"platform"`
	Caption      string     `db:"caption" json:"caption"`
	Hashtags     []string   `db:"hashtags" json:"hashtags"`
	MediaURL     string     `db:"media_url" json:"media_url"`
	PageID       string     `db:"page_id" json:"page_id"`
	Status       string     `db:"status" json:"status"`
	ScheduledFor time.Time  `db:"scheduled_for" json:"scheduled_for"`
	MetaPostID   string     `db:"meta_post_id" json:"meta_post_id,omitempty"`
	PostedAt     *time.Time `db:"posted_at" json:"posted_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)

const (
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
)
