package handlers

import (
	"crypto/subtle"
	"log"

	"github.com/gofiber/fiber/v2"
	config "github.com/somema/somema-api/configs"
	"github.com/somema/somema-api/internal/service"
)

const cronSecretHeader = "x-cron-secret"

type CronHandler struct {
	cfg config.Config
	s   service.SchedulerService
}

func NewCronHandler(cfg config.Config, s service.SchedulerService) *CronHandler {
	return &CronHandler{cfg: cfg, s: s}
}

// PostScheduler is the cron trigger endpoint. The request is accepted
// only when the platform trust header is present or the shared secret
// matches; there is no fallback.
func (h *CronHandler) PostScheduler(c *fiber.Ctx) error {
	if h.cfg.CronSecret == "" && h.cfg.CronTrustHeader == "" {
		log.Printf("cron trigger rejected: no secret or trust header configured")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Cron authentication not configured",
		})
	}

	if !h.authorized(c) {
		log.Printf("cron trigger rejected: no trust header, secret mismatch")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	summary, err := h.s.Dispatch(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
			"logs":  summary.Logs,
		})
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}

func (h *CronHandler) authorized(c *fiber.Ctx) bool {
	if h.cfg.CronTrustHeader != "" && c.Get(h.cfg.CronTrustHeader) != "" {
		return true
	}

	secret := c.Get(cronSecretHeader)
	if h.cfg.CronSecret == "" || secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(h.cfg.CronSecret)) == 1
}
