package bridge

import "errors"

var (
	// ErrNoConnection is returned by Call when no client is registered at
	// the time the call is issued. No message is sent and no pending entry
	// is created.
	ErrNoConnection = errors.New("no client connection registered")

	// ErrCallTimeout is returned by Call when no reply carrying the call's
	// request id arrives before the deadline.
	ErrCallTimeout = errors.New("call timed out waiting for reply")
)
