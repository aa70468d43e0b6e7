package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/somema/somema-api/internal/models"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) (int64, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscription, bool, error)
	UpdateStatus(ctx context.Context, subscriptionID, status string) error
	UpdatePeriod(ctx context.Context, subscriptionID string, start, end time.Time) error
}

type subscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) (int64, error) {
	query := `
		INSERT INTO subscriptions (user_id, razorpay_subscription_id, plan_id, status, current_start_date, current_end_date, amount, currency, billing_cycle)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, subscription.UserID, subscription.RazorpaySubscriptionID, subscription.PlanID, subscription.Status, subscription.CurrentStartDate, subscription.CurrentEndDate, subscription.Amount, subscription.Currency, subscription.BillingCycle).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *subscriptionRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscription, bool, error) {
	query := `
		SELECT id, user_id, razorpay_subscription_id, plan_id, status, current_start_date, current_end_date, amount, currency, billing_cycle, created_at, updated_at
		FROM subscriptions
		WHERE razorpay_subscription_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var s models.Subscription
	err := r.db.QueryRowContext(ctx, query, subscriptionID).Scan(&s.ID, &s.UserID, &s.RazorpaySubscriptionID, &s.PlanID, &s.Status, &s.CurrentStartDate, &s.CurrentEndDate, &s.Amount, &s.Currency, &s.BillingCycle, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &s, true, nil
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, subscriptionID, status string) error {
	query := `
		UPDATE subscriptions
		SET status = $1,
			updated_at = $2
		WHERE razorpay_subscription_id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), subscriptionID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *subscriptionRepository) UpdatePeriod(ctx context.Context, subscriptionID string, start, end time.Time) error {
	query := `
		UPDATE subscriptions
		SET status = 'active',
			current_start_date = $1,
			current_end_date = $2,
			updated_at = $3
		WHERE razorpay_subscription_id = $4
	`
	_, err := r.db.ExecContext(ctx, query, start, end, time.Now(), subscriptionID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
