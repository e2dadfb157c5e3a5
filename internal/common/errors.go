// Package common defines shared constants and sentinel errors used across
// client and server layers of FitTrack. Callers should use errors.Is to
// match these values; services wrap them with a human readable reason,
// e.g. fmt.Errorf("%w: target_value must be positive", common.ErrValidation).
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Client errors, mapped 1:1 onto HTTP statuses by the API layer.
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")

	// ErrInternal is what clients see for any unexpected failure; the
	// underlying cause is logged, never returned.
	ErrInternal = errors.New("internal error")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)

// IsClientError reports whether err belongs to the client-error part of the
// taxonomy, i.e. the message may be shown to the caller as is.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict)
}
