package handlers

import (
	"encoding/json"
	"log"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	config "github.com/somema/somema-api/configs"
	"github.com/somema/somema-api/internal/repository"
	"github.com/somema/somema-api/internal/service"
	"github.com/somema/somema-api/internal/transfer"
	"github.com/somema/somema-api/pkg/utils"
)

const (
	razorpaySignatureHeader = "x-razorpay-signature"
	razorpayEventIDHeader   = "x-razorpay-event-id"
)

type WebhookHandler struct {
	cfg    config.Config
	s      service.SubscriptionService
	events repository.WebhookEventRepository
}

func NewWebhookHandler(cfg config.Config, s service.SubscriptionService, events repository.WebhookEventRepository) *WebhookHandler {
	return &WebhookHandler{cfg: cfg, s: s, events: events}
}

// RazorpayWebhook verifies the HMAC signature over the raw body before
// anything is parsed, drops duplicate deliveries by event id, then
// routes the event through the handler registry.
func (h *WebhookHandler) RazorpayWebhook(c *fiber.Ctx) error {
	if h.cfg.Razorpay.WebhookSecret == "" {
		slog.Error("razorpay webhook secret not configured")
		return c.Status(fiber.StatusInternalServerError).SendString("Webhook secret not configured")
	}

	body := c.Body()
	signature := c.Get(razorpaySignatureHeader)
	if signature == "" {
		slog.Info("webhook request without signature")
		return c.Status(fiber.StatusBadRequest).SendString("No signature found")
	}

	if !utils.VerifyHMAC(h.cfg.Razorpay.WebhookSecret, body, signature) {
		slog.Info("invalid webhook signature")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid signature")
	}

	var event transfer.RazorpayEvent
	if err := json.Unmarshal(body, &event); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).SendString("Invalid payload")
	}

	// Delivery is at-least-once; an id recorded by an earlier successful
	// delivery is acknowledged without reprocessing.
	eventID := c.Get(razorpayEventIDHeader)
	if eventID != "" {
		seen, err := h.events.Seen(c.Context(), eventID)
		if err == nil && seen {
			log.Printf("duplicate webhook delivery %s (%s), skipping", eventID, event.Event)
			return c.Status(fiber.StatusOK).SendString("Received")
		}
	}

	if err := h.s.HandleEvent(c.Context(), &event); err != nil {
		// Transient failure: a non-200 makes the provider redeliver. The
		// event id stays unrecorded so the redelivery is processed.
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).SendString("Webhook processing failed")
	}

	if eventID != "" {
		if err := h.events.Record(c.Context(), eventID, event.Event); err != nil {
			slog.Info(err.Error())
		}
	}

	return c.Status(fiber.StatusOK).SendString("Received")
}
