package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/somema/somema-api/internal/models"
)

// ActivationUpdate is the single atomic write performed when a plan
// transitions to active: plan, status, period dates and the denormalized
// credit balances move together, keyed on user_id.
type ActivationUpdate struct {
	UserID                  int64
	RazorpaySubscriptionID  string
	SubscriptionPlan        string
	BillingCycle            string
	SubscriptionStartDate   time.Time
	SubscriptionEndDate     time.Time
	PostGenerationCredits   int
	ImageEnhancementCredits int
	MediaStorageLimit       int
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, bool, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.UserProfile, bool, error)
	Activate(ctx context.Context, update *ActivationUpdate) error
	UpdateCredits(ctx context.Context, userID int64, plan string, posts, enhancements, storage int) error
	UpdateSubscriptionStatus(ctx context.Context, subscriptionID, status string) error
}

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `user_id, subscription_plan, subscription_status, COALESCE(razorpay_subscription_id, ''), billing_cycle, subscription_start_date, subscription_end_date, post_generation_credits, image_enhancement_credits, media_storage_limit, meta_access_token, updated_at`

func (r *profileRepository) scanProfile(row *sql.Row) (*models.UserProfile, bool, error) {
	var p models.UserProfile
	err := row.Scan(&p.UserID, &p.SubscriptionPlan, &p.SubscriptionStatus, &p.RazorpaySubscriptionID, &p.BillingCycle, &p.SubscriptionStartDate, &p.SubscriptionEndDate, &p.PostGenerationCredits, &p.ImageEnhancementCredits, &p.MediaStorageLimit, &p.MetaAccessToken, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &p, true, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, bool, error) {
	query := "SELECT " + profileColumns + " FROM user_profiles WHERE user_id = $1"
	return r.scanProfile(r.db.QueryRowContext(ctx, query, userID))
}

func (r *profileRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.UserProfile, bool, error) {
	query := "SELECT " + profileColumns + " FROM user_profiles WHERE razorpay_subscription_id = $1"
	return r.scanProfile(r.db.QueryRowContext(ctx, query, subscriptionID))
}

func (r *profileRepository) Activate(ctx context.Context, update *ActivationUpdate) error {
	query := `
		INSERT INTO user_profiles (user_id, subscription_plan, subscription_status, razorpay_subscription_id, billing_cycle, subscription_start_date, subscription_end_date, post_generation_credits, image_enhancement_credits, media_storage_limit, updated_at)
		VALUES ($1, $2, 'active', $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE
		SET subscription_plan = EXCLUDED.subscription_plan,
			subscription_status = EXCLUDED.subscription_status,
			razorpay_subscription_id = EXCLUDED.razorpay_subscription_id,
			billing_cycle = EXCLUDED.billing_cycle,
			subscription_start_date = EXCLUDED.subscription_start_date,
			subscription_end_date = EXCLUDED.subscription_end_date,
			post_generation_credits = EXCLUDED.post_generation_credits,
			image_enhancement_credits = EXCLUDED.image_enhancement_credits,
			media_storage_limit = EXCLUDED.media_storage_limit,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		update.UserID, update.SubscriptionPlan, update.RazorpaySubscriptionID, update.BillingCycle,
		update.SubscriptionStartDate, update.SubscriptionEndDate,
		update.PostGenerationCredits, update.ImageEnhancementCredits, update.MediaStorageLimit,
		time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *profileRepository) UpdateCredits(ctx context.Context, userID int64, plan string, posts, enhancements, storage int) error {
	query := `
		UPDATE user_profiles
		SET subscription_plan = $1,
			post_generation_credits = $2,
			image_enhancement_credits = $3,
			media_storage_limit = $4,
			updated_at = $5
		WHERE user_id = $6
	`
	_, err := r.db.ExecContext(ctx, query, plan, posts, enhancements, storage, time.Now(), userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *profileRepository) UpdateSubscriptionStatus(ctx context.Context, subscriptionID, status string) error {
	query := `
		UPDATE user_profiles
		SET subscription_status = $1,
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
