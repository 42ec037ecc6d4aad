package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tsukimi/internal/services"
)

type acceptInviteRequest struct {
	Code string `json:"code"`
}

type partnerStatusResponse struct {
	HasPartner bool   `json:"hasPartner"`
	PartnerID  string `json:"partnerId,omitempty"`
	Since      string `json:"since,omitempty"`
}

// GetPartner reports the current partnership, if any.
func (handler *Handler) GetPartner(c *fiber.Ctx) error {
	userID := requestUserID(c)

	partnership, found, err := handler.partners.CheckPartner(userID)
	if err != nil {
		handler.log.Error().Err(err).Str("user_id", userID).Msg("partner lookup failed")
		return jsonError(c, fiber.StatusInternalServerError, "STORE_FAILURE", "could not load partnership")
	}
	if !found {
		return c.JSON(partnerStatusResponse{})
	}
	return c.JSON(partnerStatusResponse{
		HasPartner: true,
		PartnerID:  partnership.PartnerOf(userID),
		Since:      partnership.CreatedAt.Format("2006-01-02"),
	})
}

// AcceptInvite redeems an invite code from the web view.
func (handler *Handler) AcceptInvite(c *fiber.Ctx) error {
	userID := requestUserID(c)

	var request acceptInviteRequest
	if err := c.BodyParser(&request); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "BAD_PAYLOAD", "malformed request body")
	}

	code := strings.ToUpper(strings.TrimSpace(request.Code))
	if code == "" {
		return jsonError(c, fiber.StatusBadRequest, "BAD_PAYLOAD", "code is required")
	}

	partnership, err := handler.partners.RedeemInvite(c.Context(), userID, code)
	if err != nil {
		if reason := services.ReasonCode(err); reason != "" {
			return jsonError(c, fiber.StatusUnprocessableEntity, reason, err.Error())
		}
		handler.log.Error().Err(err).Str("user_id", userID).Msg("invite acceptance failed")
		return jsonError(c, fiber.StatusInternalServerError, "STORE_FAILURE", "could not redeem invite")
	}

	return c.JSON(partnerStatusResponse{
		HasPartner: true,
		PartnerID:  partnership.PartnerOf(userID),
		Since:      partnership.CreatedAt.Format("2006-01-02"),
	})
}
