package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tsukimi/internal/messaging"
	"github.com/terraincognita07/tsukimi/internal/metrics"
)

const signatureHeader = "X-Line-Signature"

// Webhook receives the channel's event batch. The raw body signature is
// verified before anything is parsed; each text event is routed through
// the conversation service and answered via its reply token. A failing
// event never fails the batch: the channel retries the whole delivery
// otherwise.
func (handler *Handler) Webhook(c *fiber.Ctx) error {
	body := c.Body()
	if !messaging.ValidateSignature(handler.channelSecret, body, c.Get(signatureHeader)) {
		metrics.WebhookEvents.WithLabelValues("bad_signature").Inc()
		return jsonError(c, fiber.StatusUnauthorized, "BAD_SIGNATURE", "signature validation failed")
	}

	var request messaging.WebhookRequest
	if err := json.Unmarshal(body, &request); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "BAD_PAYLOAD", "malformed webhook payload")
	}

	for _, event := range request.Events {
		metrics.WebhookEvents.WithLabelValues(event.Type).Inc()

		text, ok := event.TextMessage()
		if !ok || event.Source.UserID == "" {
			continue
		}

		reply := handler.conversation.Reply(c.Context(), event.Source.UserID, text)
		if event.ReplyToken == "" {
			continue
		}
		if err := handler.replier.Reply(c.Context(), event.ReplyToken, reply); err != nil {
			handler.log.Error().Err(err).Str("user_id", event.Source.UserID).Msg("webhook reply failed")
		}
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
