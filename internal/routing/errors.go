package routing

import "errors"

var (
	// ErrNotFound is returned when the routed lead does not exist in the tenant.
	ErrNotFound = errors.New("routing: not found")

	ErrInvalidArgument = errors.New("routing: invalid argument")

	// ErrMalformedConditions marks a rule whose stored predicate cannot be used.
	// The router skips such rules instead of failing the call.
	ErrMalformedConditions = errors.New("routing: malformed conditions")

	ErrUnknownStrategy = errors.New("routing: unknown assignment strategy")

	// ErrLockTimeout is returned when the tenant routing lock could not be taken in time.
	ErrLockTimeout = errors.New("routing: tenant lock timeout")
)
