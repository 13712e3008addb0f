package execctx

import "errors"

var (
	// ErrInvalidUserID is returned when the user id header is not a valid UUID.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrBackgroundContext is the panic value raised by accessors of a
	// background execution context that has no request data.
	ErrBackgroundContext = errors.New("operation is not supported by background execution context")

	// ErrScopeNotActive is returned when a scope operation needs a bound
	// execution context and none is bound.
	ErrScopeNotActive = errors.New("no execution context bound to scope")

	// ErrMissingTenant is returned when a request carries no tenant header.
	ErrMissingTenant = errors.New("missing tenant header")
)
