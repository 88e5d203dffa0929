package models

import "errors"

// Sentinel errors returned by the service layer. Handlers map them to
// HTTP status codes with errors.Is; the error text is the user-visible
// message, so it must stay short and free of internals.
var (
	ErrValidation           = errors.New("invalid input")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrInvalidToken         = errors.New("invalid session token")
	ErrUnauthenticated      = errors.New("not authenticated")
	ErrDeliveryFailure      = errors.New("failed to send login code")
	ErrConflict             = errors.New("user already exists with this email")
	ErrNotFound             = errors.New("not found")
)
