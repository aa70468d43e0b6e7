package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/somema/somema-api/internal/models"
)

type PaymentRepository interface {
	UpdatePaymentStatus(ctx context.Context, paymentID, status string) error
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
	GetOrder(ctx context.Context, orderID string) (*models.PaymentOrder, bool, error)
}

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID, status string) error {
	query := `
		UPDATE payments
		SET status = $1,
			updated_at = $2
		WHERE payment_id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), paymentID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *paymentRepository) GetOrder(ctx context.Context, orderID string) (*models.PaymentOrder, bool, error) {
	query := `SELECT id, order_id, user_id, plan_id, billing_cycle, amount, currency, status, created_at, updated_at FROM payment_orders WHERE order_id = $1`
	row := r.db.QueryRowContext(ctx, query, orderID)

	var o models.PaymentOrder
	err := row.Scan(&o.ID, &o.OrderID, &o.UserID, &o.PlanID, &o.BillingCycle, &o.Amount, &o.Currency, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &o, true, nil
}

func (r *paymentRepository) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	query := `
		UPDATE payment_orders
		SET status = $1,
			updated_at = $2
		WHERE order_id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), orderID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
