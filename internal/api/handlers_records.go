package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tsukimi/internal/cycledate"
	"github.com/terraincognita07/tsukimi/internal/metrics"
	"github.com/terraincognita07/tsukimi/internal/models"
	"github.com/terraincognita07/tsukimi/internal/services"
)

type createRecordRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
	Duration  *int   `json:"duration,omitempty"`
}

type createRecordResponse struct {
	Record    recordView              `json:"record"`
	Predicted services.PredictedDates `json:"predicted"`
}

// CreateRecord is the structured form entry path. Unlike the
// conversational path it takes exact ISO dates and enforces the tighter
// 90-day age limit.
func (handler *Handler) CreateRecord(c *fiber.Ctx) error {
	userID := requestUserID(c)

	var request createRecordRequest
	if err := c.BodyParser(&request); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "BAD_PAYLOAD", "malformed request body")
	}

	startDate, err := cycledate.ParseISO(request.StartDate)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, cycledate.ReasonParseFailure, "startDate must be YYYY-MM-DD")
	}

	entry := services.RecordEntry{
		StartDate:     startDate,
		Duration:      request.Duration,
		InputMethod:   models.InputMethodForm,
		OriginalInput: request.StartDate,
		MaxAgeDays:    models.MaxEntryAgeDaysForm,
	}
	if request.EndDate != "" {
		endDate, err := cycledate.ParseISO(request.EndDate)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, cycledate.ReasonParseFailure, "endDate must be YYYY-MM-DD")
		}
		entry.EndDate = &endDate
	}

	outcome, err := handler.records.RecordCycleStart(c.Context(), userID, entry)
	if err != nil {
		if reason := cycledate.ReasonCode(err); reason != "" {
			return jsonError(c, fiber.StatusUnprocessableEntity, reason, err.Error())
		}
		handler.log.Error().Err(err).Str("user_id", userID).Msg("form record save failed")
		return jsonError(c, fiber.StatusInternalServerError, "STORE_FAILURE", "could not save record")
	}

	metrics.RecordsSaved.WithLabelValues(models.InputMethodForm).Inc()
	return c.Status(fiber.StatusCreated).JSON(createRecordResponse{
		Record:    buildRecordView(outcome.Record, handler.location),
		Predicted: outcome.Predicted,
	})
}
