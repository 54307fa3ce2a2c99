package script

import "errors"

// Errors returned by the script host.
var (
	// ErrHostClosed indicates the host has been closed.
	ErrHostClosed = errors.New("script host closed")

	// ErrNestedEdit indicates an editor call from inside a command
	// callback.
	ErrNestedEdit = errors.New("editor calls are not allowed inside a command callback")
)
