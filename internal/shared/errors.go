package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrAuthenticationFailed indicates the upstream rejected the credentials.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrSessionInvalid indicates persisted session state that cannot be trusted.
	ErrSessionInvalid = errors.New("session invalid")
)
