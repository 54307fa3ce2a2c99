package history

import "errors"

// Errors returned by history operations.
var (
	// ErrNoEffect indicates the command could not be applied.
	ErrNoEffect = errors.New("command had no effect")

	// ErrInvalidState indicates the command was not in its default state
	// when submitted.
	ErrInvalidState = errors.New("command is not executable in its current state")

	// ErrNilCommand indicates a nil command was submitted.
	ErrNilCommand = errors.New("nil command")

	// ErrNothingToUndo indicates the done stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the undone stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrNothingToRepeat indicates no commands lie above the last repeat
	// delimiter.
	ErrNothingToRepeat = errors.New("nothing to repeat")

	// ErrUndoFailed indicates the command's undo logic failed.
	ErrUndoFailed = errors.New("undo failed")

	// ErrRedoFailed indicates the command's do logic failed on redo.
	ErrRedoFailed = errors.New("redo failed")

	// ErrGroupActive indicates the operation is not allowed while a group
	// is open.
	ErrGroupActive = errors.New("command group in progress")

	// ErrNoGroup indicates EndGroup or CancelGroup without a matching
	// BeginGroup.
	ErrNoGroup = errors.New("no command group in progress")

	// ErrCheckpointNotFound indicates the checkpoint is no longer reachable
	// on the requested stack.
	ErrCheckpointNotFound = errors.New("checkpoint not found")

	// ErrInvalidPolicy indicates an unknown undo failure policy name.
	ErrInvalidPolicy = errors.New("invalid undo failure policy")
)
