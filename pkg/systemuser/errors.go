package systemuser

import "errors"

var (
	// ErrAuthorization is returned when the identity service rejects a login
	// or refresh, or cannot be reached.
	ErrAuthorization = errors.New("system user authorization failed")

	// ErrInvalidExpiry is returned when the reported token expiry cannot be parsed.
	ErrInvalidExpiry = errors.New("invalid token expiry")

	// ErrNoCredential is returned when a login succeeds without yielding a token.
	ErrNoCredential = errors.New("login returned no access token")

	// ErrUserNotFound is returned when the system user record cannot be found.
	ErrUserNotFound = errors.New("system user not found")

	// ErrDisabled is returned when credentials are requested while the system user is disabled.
	ErrDisabled = errors.New("system user is disabled")

	// ErrMissingCredentials is returned when the configuration lacks username or password.
	ErrMissingCredentials = errors.New("system user username and password are required")

	// ErrMissingTenant is returned when a credential is requested for an empty tenant id.
	ErrMissingTenant = errors.New("tenant id is required")
)
