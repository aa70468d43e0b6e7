package models

import "time"

// Subscription is an append-style history record; the authoritative
// current state lives on the user profile.
type Subscription struct {
	ID                     int64     `db:"id" json:"id"`
	UserID                 int64     `db:"user_id" json:"user_id"`
	RazorpaySubscriptionID string    `db:"razorpay_subscription_id" json:"razorpay_subscription_id"`
	PlanID                 string    `db:"plan_id" json:"plan_id"`
	Status                 string    `db:"status" json:"status"`
	CurrentStartDate       time.Time `db:"current_start_date" json:"current_start_date"`
	CurrentEndDate         time.Time `db:"current_end_date" json:"current_end_date"`
	Amount                 int64     `db:"amount" json:"amount"`
	Currency               string    `db:"currency" json:"currency"`
	BillingCycle           string    `db:"billing_cycle" json:"billing_cycle"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}
