package models

import "time"

// WebhookEvent records processed provider event ids. Webhook delivery is
// at-least-once; a second insert of the same id conflicts and the event
// is acknowledged without reprocessing.
type WebhookEvent struct {
	EventID    string    `db:"event_id" json:"event_id"`
	EventType  string    `db:"event_type" json:"event_type"`
	ReceivedAt time.Time `db:"received_at" json:"received_at"`
}
