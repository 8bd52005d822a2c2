package services

import (
	"errors"
	"fmt"

	"github.com/tringuyenminh209/Kizamu/models"
)

// Sentinel errors controllers map to status codes. Client-facing messages stay
// generic; full detail only ever reaches the server log.
var (
	// ErrInvalidCredentials never distinguishes an unknown email from a wrong
	// password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTooManyAttempts is returned before credentials are checked once the
	// attempt counter passes the threshold.
	ErrTooManyAttempts = errors.New("too many login attempts, retry in 10 minutes")

	// ErrNotFound covers both a missing row and a row owned by someone else, so
	// existence never leaks across owners.
	ErrNotFound = errors.New("resource not found")

	ErrServer = errors.New("server error")
)

// ValidationError carries per-field messages for a 422 response.
type ValidationError struct {
	Fields models.ValidationErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// AsValidation unwraps a *ValidationError if err is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
