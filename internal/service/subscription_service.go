package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	config "github.com/somema/somema-api/configs"
	"github.com/somema/somema-api/internal/models"
	"github.com/somema/somema-api/internal/repository"
	"github.com/somema/somema-api/internal/transfer"
	"github.com/somema/somema-api/pkg/billing"
)

// EventHandler processes one webhook event type. A returned error marks
// the failure as transient so the provider retries the delivery;
// permanently ignorable conditions (no matching user, unknown plan) are
// logged and swallowed.
type EventHandler func(ctx context.Context, event *transfer.RazorpayEvent) error

type SubscriptionService interface {
	HandleEvent(ctx context.Context, event *transfer.RazorpayEvent) error
	KnownEvent(eventType string) bool
}

type subscriptionService struct {
	cfg      config.Config
	profiles repository.ProfileRepository
	subs     repository.SubscriptionRepository
	payments repository.PaymentRepository
	rzp      RazorpayClient
	handlers map[string]EventHandler
	nowFn    func() time.Time
}

func NewSubscriptionService(
	cfg config.Config,
	profiles repository.ProfileRepository,
	subs repository.SubscriptionRepository,
	payments repository.PaymentRepository,
	rzp RazorpayClient) SubscriptionService {
	s := &subscriptionService{
		cfg:      cfg,
		profiles: profiles,
		subs:     subs,
		payments: payments,
		rzp:      rzp,
		nowFn:    time.Now,
	}

	s.handlers = map[string]EventHandler{
		"payment.captured":           s.handlePaymentCaptured,
		"payment.failed":             s.handlePaymentFailed,
		"payment.authorized":         s.handlePaymentAuthorized,
		"order.paid":                 s.handleOrderPaid,
		"subscription.activated":     s.handleSubscriptionActivation,
		"subscription.authenticated": s.handleSubscriptionActivation,
		"subscription.charged":       s.handleSubscriptionCharged,
		"subscription.halted":        s.statusMirror(models.SubscriptionStatusHalted),
		"subscription.cancelled":     s.statusMirror(models.SubscriptionStatusCancelled),
		"subscription.completed":     s.statusMirror(models.SubscriptionStatusCompleted),
		"subscription.paused":        s.statusMirror(models.SubscriptionStatusPaused),
		"subscription.resumed":       s.statusMirror(models.SubscriptionStatusActive),
	}
	return s
}

func (s *subscriptionService) KnownEvent(eventType string) bool {
	_, ok := s.handlers[eventType]
	return ok
}

// HandleEvent routes the event to its registered handler. Unknown event
// types are acknowledged without error so the provider does not retry
// events this system does not care about.
func (s *subscriptionService) HandleEvent(ctx context.Context, event *transfer.RazorpayEvent) error {
	handler, ok := s.handlers[event.Event]
	if !ok {
		slog.Info("unhandled webhook event", "event", event.Event)
		return nil
	}
	return handler(ctx, event)
}

func (s *subscriptionService) handlePaymentCaptured(ctx context.Context, event *transfer.RazorpayEvent) error {
	if event.Payload.Payment == nil {
		slog.Info("payment.captured without payment entity")
		return nil
	}
	payment := event.Payload.Payment.Entity

	if err := s.payments.UpdatePaymentStatus(ctx, payment.ID, models.PaymentStatusCaptured); err != nil {
		return fmt.Errorf("updating payment %s: %w", payment.ID, err)
	}

	// Payment verification on the client can fail even when the payment
	// succeeded; the webhook is the activation path of last resort.
	return s.activateFromPayment(ctx, &payment)
}

func (s *subscriptionService) handlePaymentAuthorized(ctx context.Context, event *transfer.RazorpayEvent) error {
	if event.Payload.Payment == nil {
		slog.Info("payment.authorized without payment entity")
		return nil
	}
	payment := event.Payload.Payment.Entity

	if err := s.payments.UpdatePaymentStatus(ctx, payment.ID, models.PaymentStatusAuthorized); err != nil {
		return fmt.Errorf("updating payment %s: %w", payment.ID, err)
	}

	// Subscription payments sometimes only ever reach authorized.
	return s.activateFromPayment(ctx, &payment)
}

func (s *subscriptionService) handlePaymentFailed(ctx context.Context, event *transfer.RazorpayEvent) error {
	if event.Payload.Payment == nil {
		slog.Info("payment.failed without payment entity")
		return nil
	}
	payment := event.Payload.Payment.Entity

	if err := s.payments.UpdatePaymentStatus(ctx, payment.ID, models.PaymentStatusFailed); err != nil {
		return fmt.Errorf("updating payment %s: %w", payment.ID, err)
	}
	return nil
}

func (s *subscriptionService) handleOrderPaid(ctx context.Context, event *transfer.RazorpayEvent) error {
	if event.Payload.Order == nil {
		slog.Info("order.paid without order entity")
		return nil
	}
	order := event.Payload.Order.Entity

	if err := s.payments.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPaid); err != nil {
		return fmt.Errorf("updating order %s: %w", order.ID, err)
	}
	return nil
}

// handleSubscriptionActivation serves both subscription.activated and
// subscription.authenticated; either can be the first event a new
// subscription is seen through.
func (s *subscriptionService) handleSubscriptionActivation(ctx context.Context, event *transfer.RazorpayEvent) error {
	if event.Payload.Subscription == nil {
		slog.Info("subscription event without subscription entity")
		return nil
	}
	sub := event.Payload.Subscription.Entity

	return s.activate(ctx, sub.ID, sub.PlanID, sub.PlanAmount, sub.Currency)
}

func (s *subscriptionService) handleSubscriptionCharged(ctx context.Context, event *transfer.RazorpayEvent) error {
	if event.Payload.Subscription == nil {
		slog.Info("subscription.charged without subscription entity")
		return nil
	}
	sub := event.Payload.Subscription.Entity

	_, cycle := billing.ParsePlanID(sub.PlanID)

	// Renewal periods chain off the stored period end; the wall clock is
	// only the anchor for a subscription seen for the first time.
	start := s.nowFn()
	current, found, err := s.subs.GetBySubscriptionID(ctx, sub.ID)
	if err != nil {
		return fmt.Errorf("looking up subscription %s: %w", sub.ID, err)
	}
	if found {
		start = current.CurrentEndDate
	}

	if err := s.subs.UpdatePeriod(ctx, sub.ID, start, billing.NextBillingDate(start, cycle)); err != nil {
		return fmt.Errorf("rolling period for subscription %s: %w", sub.ID, err)
	}
	return nil
}

// statusMirror builds a handler that copies the provider-side lifecycle
// status onto both the subscription history row and the user profile.
func (s *subscriptionService) statusMirror(status string) EventHandler {
	return func(ctx context.Context, event *transfer.RazorpayEvent) error {
		if event.Payload.Subscription == nil {
			slog.Info("subscription event without subscription entity")
			return nil
		}
		sub := event.Payload.Subscription.Entity

		if err := s.subs.UpdateStatus(ctx, sub.ID, status); err != nil {
			return fmt.Errorf("updating subscription %s: %w", sub.ID, err)
		}
		if err := s.profiles.UpdateSubscriptionStatus(ctx, sub.ID, status); err != nil {
			return fmt.Errorf("updating profile for subscription %s: %w", sub.ID, err)
		}
		return nil
	}
}

// activateFromPayment resolves the plan behind a payment and routes into
// the canonical activation. Subscription payments resolve through the
// provider API; one-time payments resolve through the order recorded at
// checkout. A payment carrying neither reference cannot be correlated
// reliably and only gets its status mirrored above.
func (s *subscriptionService) activateFromPayment(ctx context.Context, payment *transfer.PaymentEntity) error {
	if payment.SubscriptionID != "" {
		sub, err := s.rzp.FetchSubscription(ctx, payment.SubscriptionID)
		if err != nil {
			return fmt.Errorf("fetching subscription %s: %w", payment.SubscriptionID, err)
		}

		amount := payment.Amount
		if amount == 0 {
			amount = sub.PlanAmount
		}
		currency := payment.Currency
		if currency == "" {
			currency = sub.Currency
		}

		return s.activate(ctx, sub.ID, sub.PlanID, amount, currency)
	}

	if payment.OrderID != "" {
		return s.activateFromOrder(ctx, payment)
	}

	return nil
}

// activateFromOrder covers one-time checkout payments: the order row
// written at checkout carries the buyer and plan, so the payment is
// correlated through its order id.
func (s *subscriptionService) activateFromOrder(ctx context.Context, payment *transfer.PaymentEntity) error {
	order, found, err := s.payments.GetOrder(ctx, payment.OrderID)
	if err != nil {
		return fmt.Errorf("looking up order %s: %w", payment.OrderID, err)
	}
	if !found {
		slog.Info("no order for payment", "order_id", payment.OrderID, "payment_id", payment.ID)
		return nil
	}

	profile, found, err := s.profiles.GetByUserID(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("looking up profile for user %d: %w", order.UserID, err)
	}
	if !found {
		slog.Info("no profile for order", "order_id", payment.OrderID, "user_id", order.UserID)
		return nil
	}

	planID, cycle := billing.ParsePlanID(order.PlanID)
	if order.BillingCycle != "" {
		cycle = order.BillingCycle
	}

	amount := payment.Amount
	if amount == 0 {
		amount = order.Amount
	}
	currency := payment.Currency
	if currency == "" {
		currency = order.Currency
	}

	return s.activateProfile(ctx, profile, planID, cycle, profile.RazorpaySubscriptionID, amount, currency)
}

func (s *subscriptionService) activate(ctx context.Context, subscriptionID, providerPlanID string, amount int64, currency string) error {
	planID, cycle := billing.ParsePlanID(providerPlanID)

	profile, found, err := s.profiles.GetBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		return fmt.Errorf("looking up profile for subscription %s: %w", subscriptionID, err)
	}
	if !found {
		slog.Info("no user for subscription", "subscription_id", subscriptionID)
		return nil
	}

	return s.activateProfile(ctx, profile, planID, cycle, subscriptionID, amount, currency)
}

// activateProfile is the one idempotent activation routine every
// triggering event goes through. Duplicate and out-of-order deliveries
// are handled by gating on the observed profile status, not on event
// order: a pending profile is activated exactly once, an active profile
// only gets credit drift corrected, anything else is left alone.
func (s *subscriptionService) activateProfile(ctx context.Context, profile *models.UserProfile, planID, cycle, subscriptionID string, amount int64, currency string) error {
	switch profile.SubscriptionStatus {
	case models.SubscriptionStatusPending:
		credits := billing.PlanCredits(planID)
		start := s.nowFn()
		end := billing.EndDate(start, cycle)

		err := s.profiles.Activate(ctx, &repository.ActivationUpdate{
			UserID:                  profile.UserID,
			RazorpaySubscriptionID:  subscriptionID,
			SubscriptionPlan:        planID,
			BillingCycle:            cycle,
			SubscriptionStartDate:   start,
			SubscriptionEndDate:     end,
			PostGenerationCredits:   credits.Posts,
			ImageEnhancementCredits: credits.Enhancements,
			MediaStorageLimit:       credits.Storage,
		})
		if err != nil {
			// Leave the profile pending so a later event can retry.
			return fmt.Errorf("activating subscription %s: %w", subscriptionID, err)
		}

		history := &models.Subscription{
			UserID:                 profile.UserID,
			RazorpaySubscriptionID: subscriptionID,
			PlanID:                 planID,
			Status:                 models.SubscriptionStatusActive,
			CurrentStartDate:       start,
			CurrentEndDate:         end,
			Amount:                 amount,
			Currency:               currency,
			BillingCycle:           cycle,
		}
		if _, err := s.subs.Create(ctx, history); err != nil {
			// The profile is already active; the missing history row is
			// recoverable and must not fail the webhook.
			slog.Info("failed to record subscription history", "subscription_id", subscriptionID, "error", err.Error())
		}
		return nil

	case models.SubscriptionStatusActive:
		return s.healCredits(ctx, profile, planID)

	default:
		slog.Info("subscription not activatable", "subscription_id", subscriptionID, "status", profile.SubscriptionStatus)
		return nil
	}
}

// healCredits corrects credit or plan drift on an already-active profile
// without touching its status.
func (s *subscriptionService) healCredits(ctx context.Context, profile *models.UserProfile, planID string) error {
	credits := billing.PlanCredits(planID)

	if profile.SubscriptionPlan == planID &&
		profile.PostGenerationCredits == credits.Posts &&
		profile.ImageEnhancementCredits == credits.Enhancements &&
		profile.MediaStorageLimit == credits.Storage {
		return nil
	}

	slog.Info("correcting credit drift", "user_id", profile.UserID, "plan", planID)
	if err := s.profiles.UpdateCredits(ctx, profile.UserID, planID, credits.Posts, credits.Enhancements, credits.Storage); err != nil {
		return fmt.Errorf("correcting credits for user %d: %w", profile.UserID, err)
	}
	return nil
}
