package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/seuros/ecodash/internal/logging"
	"github.com/seuros/ecodash/internal/validation"
)

func errorJSON(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// invalid answers 400, listing field messages when err carries them.
func invalid(c fiber.Ctx, err error) error {
	if fields, ok := validation.Fields(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
	}
	return errorJSON(c, fiber.StatusBadRequest, err.Error())
}

func internalError(c fiber.Ctx, message string, err error) error {
	logging.L().Error(message, zap.Error(err), zap.String("path", c.Path()))
	return errorJSON(c, fiber.StatusInternalServerError, message)
}
