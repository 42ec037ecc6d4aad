package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Post("/webhook", handler.Webhook)

	api := app.Group("/api", handler.LinkAuthRequired)
	api.Get("/calendar", handler.GetCalendar)
	api.Get("/dashboard", handler.GetDashboard)
	api.Post("/records", handler.CreateRecord)
	api.Get("/settings", handler.GetSettings)
	api.Post("/settings", handler.UpdateSettings)
	api.Get("/partner", handler.GetPartner)
	api.Post("/partner/accept", handler.AcceptInvite)
}
