package middleware

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ModeratorLookup reports whether a stored user holds a moderation role.
type ModeratorLookup interface {
	IsModerator(ctx context.Context, userID uuid.UUID) (bool, error)
}

// ResolveActor turns the verified JWT into an identity.Actor. Moderator rights
// come from:
// 1. Config-based moderator emails/IDs
// 2. DB-based user Role field
//
// It must run after JWTProtected.
func ResolveActor(users ModeratorLookup, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, email, err := identity.ClaimsFromToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		actor := identity.Actor{ID: userID, Email: email}
		if cfg.IsModeratorByConfig(userID.String(), email) {
			actor.IsModerator = true
		} else {
			isMod, err := users.IsModerator(c.UserContext(), userID)
			if err != nil {
				slog.Error("moderator lookup failed",
					"error", err,
					"actor_id", userID.String(),
					"request_id", requestID(c),
				)
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
					Error: true, Message: "Internal server error",
				})
			}
			actor.IsModerator = isMod
		}

		identity.SetActor(c, actor)
		return c.Next()
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
