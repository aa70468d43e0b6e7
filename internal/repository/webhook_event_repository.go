package repository

import (
	"context"
	"database/sql"
	"log/slog"
)

type WebhookEventRepository interface {
	// Seen reports whether a provider event id was already processed.
	Seen(ctx context.Context, eventID string) (bool, error)
	// Record stores a processed provider event id. It is written only
	// after the event's handler succeeds, so a failed delivery can be
	// replayed under the same id.
	Record(ctx context.Context, eventID, eventType string) error
}

type webhookEventRepository struct {
	db *sql.DB
}

func NewWebhookEventRepository(db *sql.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

func (r *webhookEventRepository) Seen(ctx context.Context, eventID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM webhook_events WHERE event_id = $1)`

	var seen bool
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&seen); err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return seen, nil
}

func (r *webhookEventRepository) Record(ctx context.Context, eventID, eventType string) error {
	query := `
		INSERT INTO webhook_events (event_id, event_type)
		VALUES ($1, $2)
		ON CONFLICT (event_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, eventID, eventType); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
