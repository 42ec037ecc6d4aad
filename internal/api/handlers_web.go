package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tsukimi/internal/cycledate"
	"github.com/terraincognita07/tsukimi/internal/services"
)

const dashboardHistoryWindow = 10

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// GetCalendar returns the month-view data: every active record plus the
// derived markers for the newest one.
func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	userID := requestUserID(c)

	records, err := handler.repositories.Records.ListActive(userID, 0)
	if err != nil {
		handler.log.Error().Err(err).Str("user_id", userID).Msg("calendar records fetch failed")
		return jsonError(c, fiber.StatusInternalServerError, "STORE_FAILURE", "could not load records")
	}

	settings := handler.settings.Settings(userID)
	today := cycledate.FromTime(handler.now(), handler.location)
	return c.JSON(buildCalendarPayload(records, settings, today, handler.location))
}

// GetDashboard returns the current-status summary.
func (handler *Handler) GetDashboard(c *fiber.Ctx) error {
	userID := requestUserID(c)

	user, err := handler.repositories.Users.FindByID(userID)
	if err != nil {
		handler.log.Error().Err(err).Str("user_id", userID).Msg("dashboard user fetch failed")
		return jsonError(c, fiber.StatusInternalServerError, "STORE_FAILURE", "could not load user")
	}

	payload := dashboardPayload{
		SetupCompleted:    user.InitialSetupCompleted,
		Settings:          user.Settings(),
		FuturePredictions: []services.ForecastEntry{},
	}

	details, found, err := handler.records.LatestDetails(userID)
	if err != nil {
		handler.log.Error().Err(err).Str("user_id", userID).Msg("dashboard record fetch failed")
		return jsonError(c, fiber.StatusInternalServerError, "STORE_FAILURE", "could not load records")
	}
	if found {
		payload.HasRecords = true
		payload.LastRecord = &details
		payload.CurrentPhase = &details.Phase
		payload.NextPeriod = &details.NextPeriod
		payload.Ovulation = &details.Ovulation
		payload.FuturePredictions = services.BuildForecastSeries(details.StartDate, payload.Settings, services.DefaultForecastHorizon)
	}

	if _, summary, err := handler.records.History(userID, dashboardHistoryWindow); err == nil {
		payload.History = summary
	}

	return c.JSON(payload)
}
