package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// writeError maps a service error to its HTTP status. Unknown errors are
// logged and reported as a generic 500.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidArgument),
		errors.Is(err, services.ErrInvalidTransition):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated):
		status = fiber.StatusUnauthorized
	}

	if status == fiber.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
		)
		return c.Status(status).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error: true, Message: err.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
