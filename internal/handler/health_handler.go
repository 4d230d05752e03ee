package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Pinger is an interface for health check ping operations.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	pool       Pinger
	promotions int
}

// NewHealthHandler creates a new HealthHandler.
// pool may be nil when the service runs without a database.
func NewHealthHandler(pool Pinger, promotions int) *HealthHandler {
	return &HealthHandler{pool: pool, promotions: promotions}
}

// Check reports whether the service can answer promotion requests.
// Returns 503 when a configured database is unreachable.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	database := "disabled"
	if h.pool != nil {
		if err := h.pool.Ping(c.Context()); err != nil {
			log.Error().Err(err).Msg("health check failed: database unreachable")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
		}
		database = "up"
	}
	return c.JSON(fiber.Map{
		"status":     "healthy",
		"database":   database,
		"promotions": h.promotions,
	})
}
