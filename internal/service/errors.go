package service

import "errors"

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrRateLimited        = errors.New("too many requests, please try again later")

	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrAccessDenied = errors.New("access to this media has not been granted")
	ErrInternal     = errors.New("internal server error")
)

// Validation wraps a client-input failure so handlers can map it to 400
// with the underlying message intact.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a client-input failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
