package handlers

import (
	"slices"

	"github.com/gofiber/fiber/v3"

	"github.com/seuros/ecodash/internal/dashboard"
	"github.com/seuros/ecodash/internal/export"
	"github.com/seuros/ecodash/internal/validation"
)

func (a *API) HandleSurveyQuestions(c fiber.Ctx) error {
	return c.JSON(a.Store.SurveyQuestions())
}

// HandleSubmitSurvey validates and records a public survey submission.
func (a *API) HandleSubmitSurvey(c fiber.Ctx) error {
	var sub dashboard.SurveySubmission
	if err := c.Bind().JSON(&sub); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validation.Survey(sub, a.Store.SurveyQuestions()); err != nil {
		return invalid(c, err)
	}

	resp := a.Store.SubmitSurvey(sub)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleSurveyResponses lists responses newest first, or oldest first with
// sort_order=asc.
func (a *API) HandleSurveyResponses(c fiber.Ctx) error {
	params := ParsePaginationParams(c)

	all := a.Store.SurveyResponses()
	if params.SortOrder == SortAsc {
		slices.SortStableFunc(all, func(x, y dashboard.SurveyResponse) int {
			return x.CreatedAt.Compare(y.CreatedAt)
		})
		return c.JSON(Paginate(all, params))
	}
	return c.JSON(Paginate(dashboard.RecentResponses(all, len(all)), params))
}

func (a *API) HandleSurveyExport(c fiber.Ctx) error {
	body := export.SurveyCSV(a.Store.SurveyQuestions(), a.Store.SurveyResponses())
	return sendCSV(c, "survey_responses.csv", body)
}

func sendCSV(c fiber.Ctx, filename, body string) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.SendString(body)
}
