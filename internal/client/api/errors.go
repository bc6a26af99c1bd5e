package api

import "errors"

// Sentinel errors the sync engine branches on. Any other error returned by
// a client method is a request-level failure specific to that call.
var (
	// ErrNotFound maps a 404 response. The engine treats it as success for
	// archive and as a signal to fall back to create for update.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized maps a 401 response. It aborts the whole sync run and
	// invalidates the stored credential upstream.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable covers transport failures and 5xx responses. The run
	// aborts and retries on the next trigger.
	ErrUnavailable = errors.New("server unavailable")
)
