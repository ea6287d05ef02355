package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is anything whose connectivity can be probed.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	database Pinger
	cache    Pinger
}

func NewHealthHandler(database, cache Pinger) *HealthHandler {
	return &HealthHandler{database: database, cache: cache}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	services := fiber.Map{
		"database": probe(ctx, h.database),
		"redis":    probe(ctx, h.cache),
	}

	status, code := "ok", fiber.StatusOK
	if services["database"] == "unavailable" {
		status, code = "degraded", fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"version":  "1.0.0",
		"services": services,
	})
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p(ctx); err != nil {
		return "unavailable"
	}
	return "connected"
}
