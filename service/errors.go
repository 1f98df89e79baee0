package service

import "errors"

var (
	// Precondition errors: fatal, surfaced immediately, never retried.
	ErrIndexUnavailable = errors.New("constitutional index not loaded")
	ErrQueryTooShort    = errors.New("query text too short")
	ErrQueryTooLong     = errors.New("query text too long")
	ErrInvalidAudience  = errors.New("unknown audience")
	ErrInvalidScenario  = errors.New("unknown scenario")

	// Provider errors: recoverable, converted into a degraded result.
	ErrProviderTimeout   = errors.New("generation provider timed out")
	ErrProviderTransport = errors.New("generation provider unreachable")
	ErrProviderContent   = errors.New("generation provider rejected the request")
)

// IsPrecondition reports whether err is a fatal precondition failure rather
// than a provider-side fault
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrIndexUnavailable) ||
		errors.Is(err, ErrQueryTooShort) ||
		errors.Is(err, ErrQueryTooLong) ||
		errors.Is(err, ErrInvalidAudience) ||
		errors.Is(err, ErrInvalidScenario)
}
