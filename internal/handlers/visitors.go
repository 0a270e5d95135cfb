package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/seuros/ecodash/internal/dashboard"
	"github.com/seuros/ecodash/internal/realtime"
)

// HandleVisitors returns the visitor counters and 30-day history.
func (a *API) HandleVisitors(c fiber.Ctx) error {
	return c.JSON(a.Store.VisitorStats())
}

// HandleVisitorHit records a page view.
func (a *API) HandleVisitorHit(c fiber.Ctx) error {
	a.Store.IncrementVisitor()
	return c.JSON(a.Store.VisitorStats())
}

func (a *API) HandleBrochures(c fiber.Ctx) error {
	return c.JSON(a.Store.Brochures())
}

// HandleBrochureDownload counts a download and returns the updated brochure.
func (a *API) HandleBrochureDownload(c fiber.Ctx) error {
	id := c.Params("id")
	if err := a.Store.IncrementDownload(id); err != nil {
		if errors.Is(err, dashboard.ErrBrochureNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Brochure not found")
		}
		return internalError(c, "Failed to record download", err)
	}

	for _, b := range a.Store.Brochures() {
		if b.ID == id {
			return c.JSON(b)
		}
	}
	return errorJSON(c, fiber.StatusNotFound, "Brochure not found")
}

// HandleAnalytics returns the aggregated dashboard view.
func (a *API) HandleAnalytics(c fiber.Ctx) error {
	return c.JSON(a.Store.Analytics())
}

// HandleRealtimeStats reports connected dashboard viewers.
func (a *API) HandleRealtimeStats(c fiber.Ctx) error {
	if a.Hub == nil {
		return c.JSON(realtime.Stats{})
	}
	return c.JSON(a.Hub.Stats())
}
