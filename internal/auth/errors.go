package auth

import (
	"errors"
	"fmt"
)

// Token rejections. Each is reported separately so callers can tell them apart.
var (
	ErrMalformed      = errors.New("token malformed or signature invalid")
	ErrExpired        = errors.New("token expired")
	ErrWrongKind      = errors.New("token kind not accepted here")
	ErrMissingSubject = errors.New("token has no subject")
)

// Principal rejections.
var (
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrPrincipalInactive = errors.New("principal inactive")
)

// ErrInvalidCredentials is returned by login for both an unknown identifier
// and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrForbidden matches every *ForbiddenError.
var ErrForbidden = errors.New("forbidden")

// ErrWeakPassword matches every *PolicyError.
var ErrWeakPassword = errors.New("password does not meet policy")

// ForbiddenError names the capability the caller lacks.
type ForbiddenError struct {
	Capability string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s required", e.Capability)
}

// Is makes errors.Is(err, ErrForbidden) hold.
func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// Message is the client-facing text for the rejection.
func (e *ForbiddenError) Message() string {
	return "not authorized: " + e.Capability + " required"
}

func forbidden(capability string) error {
	return &ForbiddenError{Capability: capability}
}

// IsAuthenticationError reports whether err should be answered with 401.
func IsAuthenticationError(err error) bool {
	switch {
	case errors.Is(err, ErrMalformed),
		errors.Is(err, ErrExpired),
		errors.Is(err, ErrWrongKind),
		errors.Is(err, ErrMissingSubject),
		errors.Is(err, ErrPrincipalNotFound),
		errors.Is(err, ErrPrincipalInactive),
		errors.Is(err, ErrInvalidCredentials):
		return true
	}
	return false
}

// Reason returns a short stable label for err, used in metrics and logs.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrWrongKind):
		return "wrong_kind"
	case errors.Is(err, ErrMissingSubject):
		return "missing_subject"
	case errors.Is(err, ErrPrincipalNotFound):
		return "principal_not_found"
	case errors.Is(err, ErrPrincipalInactive):
		return "principal_inactive"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return "internal"
	}
}
