package models

import "time"

// UserProfile carries the denormalized subscription snapshot and credit
// balances. Credits are a cache of the plan table, resynced on every
// activation; they are never derived at read time.
type UserProfile struct {
	UserID                  int64      `db:"user_id" json:"user_id"`
	SubscriptionPlan        string     `db:"subscription_plan" json:"subscription_plan"`
	SubscriptionStatus      string     `db:"subscription_status" json:"subscription_status"`
	RazorpaySubscriptionID  string     `db:"razorpay_subscription_id" json:"razorpay_subscription_id,omitempty"`
	BillingCycle            string     `db:"billing_cycle" json:"billing_cycle"`
	SubscriptionStartDate   *time.Time `db:"subscription_start_date" json:"subscription_start_date,omitempty"`
	SubscriptionEndDate     *time.Time `db:"subscription_end_date" json:"subscription_end_date,omitempty"`
	PostGenerationCredits   int        `db:"post_generation_credits" json:"post_generation_credits"`
	ImageEnhancementCredits int        `db:"image_enhancement_credits" json:"image_enhancement_credits"`
	MediaStorageLimit       int        `db:"media_storage_limit" json:"media_storage_limit"`
	MetaAccessToken         string     `db:"meta_access_token" json:"-"`
	UpdatedAt               time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusHalted    = "halted"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusCompleted = "completed"
	SubscriptionStatusPaused    = "paused"
)

const (
	BillingCycleMonthly = "monthly"
	BillingCycleYearly  = "yearly"
)
