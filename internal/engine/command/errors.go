package command

import "errors"

// Errors returned by command operations.
var (
	// ErrNotRepeatable indicates the command has no repeat behaviour.
	ErrNotRepeatable = errors.New("command is not repeatable")

	// ErrCollateSelf indicates an attempt to collate a command with itself.
	ErrCollateSelf = errors.New("cannot collate a command with itself")
)
