package engine

import (
	"errors"

	"github.com/dshills/undocore/internal/engine/document"
	"github.com/dshills/undocore/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrReadOnly indicates an operation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")

	// ErrAtBoundary indicates a caret-relative edit at the start or end of
	// the document.
	ErrAtBoundary = errors.New("caret at document boundary")
)

// Re-exported errors of the underlying packages.
var (
	ErrOffsetOutOfRange = document.ErrOffsetOutOfRange
	ErrRangeInvalid     = document.ErrRangeInvalid
	ErrNotRuneBoundary  = document.ErrNotRuneBoundary
	ErrNoEffect         = history.ErrNoEffect
	ErrNothingToUndo    = history.ErrNothingToUndo
	ErrNothingToRedo    = history.ErrNothingToRedo
	ErrNothingToRepeat  = history.ErrNothingToRepeat
	ErrUndoFailed       = history.ErrUndoFailed
	ErrRedoFailed       = history.ErrRedoFailed
)
