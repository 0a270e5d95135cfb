package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/seuros/ecodash/internal/dashboard"
	"github.com/seuros/ecodash/internal/middleware"
	"github.com/seuros/ecodash/internal/realtime"
	"github.com/seuros/ecodash/internal/wastedata"
)

// API holds the collaborators shared by the HTTP handlers.
type API struct {
	Store         *dashboard.Store
	Sessions      *middleware.Sessions
	Waste         wastedata.Repository
	Hub           *realtime.Hub
	Version       string
	SecureCookies bool

	// Ping reports backing database health for /up. Nil means memory-only.
	Ping func(ctx context.Context) error
}

// Register mounts every route on app.
func (a *API) Register(app *fiber.App) {
	app.Get("/health", a.HandleHealth)
	app.Get("/up", a.HandleUp)
	app.Get("/api/version", a.HandleVersion)

	if a.Hub != nil {
		app.Get("/ws", realtime.Upgrade, a.Hub.Handler())
	}

	api := app.Group("/api")

	api.Get("/visitors", a.HandleVisitors)
	api.Post("/visitors/hit", a.HandleVisitorHit)

	api.Get("/brochures", a.HandleBrochures)
	api.Post("/brochures/:id/download", a.HandleBrochureDownload)

	api.Get("/charts", a.HandleCharts)
	api.Get("/charts/:id", a.HandleChart)

	api.Get("/survey/questions", a.HandleSurveyQuestions)
	api.Post("/survey/responses", a.HandleSubmitSurvey)

	api.Post("/auth/login", a.HandleLogin)
	api.Post("/auth/logout", a.HandleLogout)

	admin := middleware.RequireAdmin(a.Sessions, a.Store)

	api.Get("/auth/me", admin, a.HandleMe)
	api.Get("/analytics", admin, a.HandleAnalytics)
	api.Get("/realtime/stats", admin, a.HandleRealtimeStats)

	api.Get("/survey/responses", admin, a.HandleSurveyResponses)
	api.Get("/survey/responses/export", admin, a.HandleSurveyExport)
	api.Get("/survey/questions/:id/chart", admin, a.HandleQuestionChart)

	api.Post("/charts", admin, a.HandleCreateChart)
	api.Patch("/charts/:id", admin, a.HandleUpdateChart)
	api.Delete("/charts/:id", admin, a.HandleDeleteChart)

	api.Get("/waste", admin, a.HandleWasteList)
	api.Post("/waste", admin, a.HandleWasteCreate)
	api.Get("/waste/export", admin, a.HandleWasteExport)
	api.Get("/waste/totals", admin, a.HandleWasteTotals)
	api.Put("/waste/:id", admin, a.HandleWasteUpdate)
	api.Delete("/waste/:id", admin, a.HandleWasteDelete)
}
