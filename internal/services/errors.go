package services

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/identity"
)

// Request-level failures. Handlers map each to one HTTP status; wrap them
// with fmt.Errorf("%w: ...") to add detail.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnauthenticated   = identity.ErrUnauthenticated
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
)
