package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const actorLocalsKey = "actor"

var ErrUnauthenticated = errors.New("unauthenticated")

// Actor is the identity performing a request.
type Actor struct {
	ID          uuid.UUID
	Email       string
	IsModerator bool
}

// SetActor stores the resolved actor on the request.
func SetActor(c *fiber.Ctx, actor Actor) {
	c.Locals(actorLocalsKey, actor)
}

// GetActor returns the actor resolved by the identity middleware.
func GetActor(c *fiber.Ctx) (Actor, error) {
	actor, ok := c.Locals(actorLocalsKey).(Actor)
	if !ok || actor.ID == uuid.Nil {
		return Actor{}, ErrUnauthenticated
	}
	return actor, nil
}

// ClaimsFromToken extracts the subject and email from the verified JWT that
// gofiber/contrib/jwt stores under the "user" local.
func ClaimsFromToken(c *fiber.Ctx) (uuid.UUID, string, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, "", ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", ErrUnauthenticated
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, "", ErrUnauthenticated
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", ErrUnauthenticated
	}

	email, _ := claims["email"].(string)
	return id, email, nil
}
