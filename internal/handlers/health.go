package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
)

func (a *API) HandleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "ecodash",
	})
}

// HandleUp is the container health check: 200 while the server runs and the
// database, if any, answers a ping.
func (a *API) HandleUp(c fiber.Ctx) error {
	if a.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := a.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("database unavailable")
		}
	}
	return c.SendStatus(fiber.StatusOK)
}

func (a *API) HandleVersion(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": a.Version,
	})
}
