package edit

import (
	"github.com/dshills/undocore/internal/engine/command"
	"github.com/dshills/undocore/internal/engine/document"
)

// Command types of the built-in edits.
const (
	TypeInsert command.Type = command.TypeUser + iota
	TypeDelete
	TypeReplace
	TypeSelect
	TypeDuplicate
)

type (
	// Command is an undoable command over a text document.
	Command = command.Undoable[*document.Document]

	// Behavior is the concrete logic of a Command.
	Behavior = command.Behavior[*document.Document]

	// ByteOffset is a byte position in the document.
	ByteOffset = document.ByteOffset

	// Range is a byte range in the document.
	Range = document.Range
)
