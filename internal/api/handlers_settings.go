package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tsukimi/internal/services"
)

// GetSettings returns the user's current configuration.
func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	return c.JSON(handler.settings.Settings(requestUserID(c)))
}

// UpdateSettings applies the structured settings form. All fields are
// validated before any write; a single out-of-range value rejects the
// whole update. Completing this form also completes initial setup.
func (handler *Handler) UpdateSettings(c *fiber.Ctx) error {
	userID := requestUserID(c)

	var update services.SettingsUpdate
	if err := c.BodyParser(&update); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "BAD_PAYLOAD", "malformed request body")
	}

	if err := handler.settings.ApplyUpdate(userID, update); err != nil {
		if reason := services.ReasonCode(err); reason != "" {
			return jsonError(c, fiber.StatusUnprocessableEntity, reason, err.Error())
		}
		handler.log.Error().Err(err).Str("user_id", userID).Msg("settings update failed")
		return jsonError(c, fiber.StatusInternalServerError, "STORE_FAILURE", "could not save settings")
	}

	return c.JSON(handler.settings.Settings(userID))
}
