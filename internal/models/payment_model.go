package models

import "time"

// Payment mirrors provider-side payment status for the audit trail.
type Payment struct {
	ID        int64     `db:"id" json:"id"`
	PaymentID string    `db:"payment_id" json:"payment_id"`
	OrderID   string    `db:"order_id" json:"order_id,omitempty"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Amount    int64     `db:"amount" json:"amount"`
	Currency  string    `db:"currency" json:"currency"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type PaymentOrder struct {
	ID           int64     `db:"id" json:"id"`
	OrderID      string    `db:"order_id" json:"order_id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	PlanID       string    `db:"plan_id" json:"plan_id"`
	BillingCycle string    `db:"billing_cycle" json:"billing_cycle"`
	Amount       int64     `db:"amount" json:"amount"`
	Currency     string    `db:"currency" json:"currency"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const (
	PaymentStatusCaptured   = "captured"
	PaymentStatusFailed     = "failed"
	PaymentStatusAuthorized = "authorized"
	OrderStatusPaid         = "paid"
)
