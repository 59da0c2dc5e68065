package tokensession

import "errors"

var (
	// ErrNotInitialized is returned by operations that write to the
	// session before Init has been called.
	ErrNotInitialized = errors.New("session manager not initialized")

	// ErrConfigFetch is returned by Guest when the remote answers with
	// anything other than success.
	ErrConfigFetch = errors.New("failed to get config")
)
