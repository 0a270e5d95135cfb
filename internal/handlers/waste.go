package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/seuros/ecodash/internal/export"
	"github.com/seuros/ecodash/internal/validation"
	"github.com/seuros/ecodash/internal/wastedata"
)

// HandleWasteList returns all entries, newest date first.
func (a *API) HandleWasteList(c fiber.Ctx) error {
	entries, err := a.Waste.List(c.Context())
	if err != nil {
		return internalError(c, "Failed to load waste data", err)
	}
	return c.JSON(entries)
}

func (a *API) HandleWasteCreate(c fiber.Ctx) error {
	var entry wastedata.WasteEntry
	if err := c.Bind().JSON(&entry); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validation.WasteEntry(entry); err != nil {
		return invalid(c, err)
	}

	created, err := a.Waste.Create(c.Context(), entry)
	if err != nil {
		return internalError(c, "Failed to save waste entry", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (a *API) HandleWasteUpdate(c fiber.Ctx) error {
	var entry wastedata.WasteEntry
	if err := c.Bind().JSON(&entry); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	entry.ID = c.Params("id")
	if err := validation.WasteEntry(entry); err != nil {
		return invalid(c, err)
	}

	updated, err := a.Waste.Update(c.Context(), entry)
	if errors.Is(err, wastedata.ErrNotFound) {
		return errorJSON(c, fiber.StatusNotFound, "Waste entry not found")
	}
	if err != nil {
		return internalError(c, "Failed to save waste entry", err)
	}
	return c.JSON(updated)
}

func (a *API) HandleWasteDelete(c fiber.Ctx) error {
	err := a.Waste.Delete(c.Context(), c.Params("id"))
	if errors.Is(err, wastedata.ErrNotFound) {
		return errorJSON(c, fiber.StatusNotFound, "Waste entry not found")
	}
	if err != nil {
		return internalError(c, "Failed to delete waste entry", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (a *API) HandleWasteExport(c fiber.Ctx) error {
	entries, err := a.Waste.List(c.Context())
	if err != nil {
		return internalError(c, "Failed to load waste data", err)
	}
	return sendCSV(c, "waste_data.csv", export.WasteCSV(entries))
}

// HandleWasteTotals sums the material amounts and costs of every entry.
func (a *API) HandleWasteTotals(c fiber.Ctx) error {
	entries, err := a.Waste.List(c.Context())
	if err != nil {
		return internalError(c, "Failed to load waste data", err)
	}
	return c.JSON(wastedata.Totals(entries))
}
