package handlers

import (
	"crypto/subtle"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	config "github.com/somema/somema-api/configs"
	"github.com/somema/somema-api/internal/queue"
)

const batchSizeHeader = "batch-size"

// maxBatchSize caps a single worker invocation regardless of what the
// caller asks for.
const maxBatchSize = 50

type QueueHandler struct {
	cfg config.Config
	q   *queue.Queue
}

func NewQueueHandler(cfg config.Config, q *queue.Queue) *QueueHandler {
	return &QueueHandler{cfg: cfg, q: q}
}

// ProcessQueue is the internal worker endpoint the cron dispatcher
// calls. It requires the service role key as a bearer token.
func (h *QueueHandler) ProcessQueue(c *fiber.Ctx) error {
	token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if h.cfg.ServiceRoleKey == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.cfg.ServiceRoleKey)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	batchSize := h.cfg.QueueBatchSize
	if raw := c.Get(batchSizeHeader); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			batchSize = n
		}
	}
	if batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}

	result := h.q.ProcessBatch(c.Context(), batchSize)
	if !result.Success {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
