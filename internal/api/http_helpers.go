package api

import "github.com/gofiber/fiber/v2"

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func jsonError(c *fiber.Ctx, status int, reason string, message string) error {
	return c.Status(status).JSON(errorResponse{Error: message, Reason: reason})
}
