package handlers

import (
	"log"

	"treva/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// Success renders the uniform success envelope.
func Success(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// Fail classifies err and renders the uniform error envelope. Unexpected
// errors are logged with their cause and surface as a generic SERVER_ERROR;
// the response never carries internal detail.
func Fail(c *fiber.Ctx, err error) error {
	app := apperrors.Classify(err)
	if app.Status >= fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(app.Status).JSON(fiber.Map{
		"status": "error",
		"error": fiber.Map{
			"code":    app.Code,
			"message": app.Message,
		},
	})
}

// callerID reads the authenticated user id stashed by the auth middleware.
func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
