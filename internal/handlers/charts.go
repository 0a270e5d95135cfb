package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/seuros/ecodash/internal/dashboard"
	"github.com/seuros/ecodash/internal/validation"
)

func (a *API) HandleCharts(c fiber.Ctx) error {
	return c.JSON(a.Store.Charts())
}

func (a *API) HandleChart(c fiber.Ctx) error {
	chart, ok := a.Store.Chart(c.Params("id"))
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Chart not found")
	}
	return c.JSON(chart)
}

// HandleCreateChart stores a new chart under a fresh id.
func (a *API) HandleCreateChart(c fiber.Ctx) error {
	var chart dashboard.ChartData
	if err := c.Bind().JSON(&chart); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validation.Chart(chart); err != nil {
		return invalid(c, err)
	}

	created, err := a.Store.AddChart(chart)
	if err != nil {
		return chartError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdateChart merges the supplied fields into an existing chart.
func (a *API) HandleUpdateChart(c fiber.Ctx) error {
	var patch dashboard.ChartPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	updated, err := a.Store.UpdateChart(c.Params("id"), patch)
	if err != nil {
		return chartError(c, err)
	}
	return c.JSON(updated)
}

func (a *API) HandleDeleteChart(c fiber.Ctx) error {
	if err := a.Store.DeleteChart(c.Params("id")); err != nil {
		return chartError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleQuestionChart renders the answer distribution of one survey question.
func (a *API) HandleQuestionChart(c fiber.Ctx) error {
	q, ok := a.Store.SurveyQuestion(c.Params("id"))
	if !ok {
		return errorJSON(c, fiber.StatusNotFound, "Question not found")
	}
	chart, ok := dashboard.QuestionChart(q, a.Store.SurveyResponses())
	if !ok {
		return errorJSON(c, fiber.StatusUnprocessableEntity, "Question has free-text answers")
	}
	return c.JSON(chart)
}

func chartError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, dashboard.ErrChartNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Chart not found")
	case errors.Is(err, dashboard.ErrInvalidChart):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	default:
		return internalError(c, "Failed to save chart", err)
	}
}
