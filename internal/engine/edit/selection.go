package edit

import (
	"github.com/dshills/undocore/internal/engine/command"
	"github.com/dshills/undocore/internal/engine/document"
)

// setSelection changes the selection. Selecting marks the start of a new
// context, so it stops repeat from reaching further back.
type setSelection struct {
	to   Range
	from Range
}

// NewSelect creates a command selecting r.
func NewSelect(r Range) *Command {
	return command.New[*document.Document](TypeSelect, "Select", &setSelection{to: r})
}

func (c *setSelection) Do(doc *document.Document) bool {
	from := doc.Selection()
	if from == c.to {
		return false
	}
	if err := doc.SetSelection(c.to); err != nil {
		return false
	}
	c.from = from
	return true
}

func (c *setSelection) Undo(doc *document.Document) bool {
	return doc.SetSelection(c.from) == nil
}

// CollateWith folds consecutive selection changes into one step.
func (c *setSelection) CollateWith(other Behavior) bool {
	o, ok := other.(*setSelection)
	if !ok {
		return false
	}
	c.to = o.to
	return true
}

func (c *setSelection) IsRepeatDelimiter() bool {
	return true
}

// duplicateSelection inserts a copy of the selected text after it and
// selects the copy.
type duplicateSelection struct {
	sel  Range
	text string
}

// NewDuplicate creates a command duplicating the text in r.
func NewDuplicate(r Range) *Command {
	return command.New[*document.Document](TypeDuplicate, "Duplicate", &duplicateSelection{sel: r})
}

func (c *duplicateSelection) Do(doc *document.Document) bool {
	if c.sel.IsEmpty() || !c.sel.IsValid() || c.sel.End > doc.Len() {
		return false
	}

	text := doc.TextRange(c.sel.Start, c.sel.End)
	end, err := doc.Insert(c.sel.End, text)
	if err != nil {
		return false
	}
	c.text = text
	_ = doc.SetSelection(document.NewRange(c.sel.End, end))
	return true
}

func (c *duplicateSelection) Undo(doc *document.Document) bool {
	end := c.sel.End + ByteOffset(len(c.text))
	if doc.TextRange(c.sel.End, end) != c.text {
		return false
	}
	if err := doc.Delete(c.sel.End, end); err != nil {
		return false
	}
	_ = doc.SetSelection(c.sel)
	return true
}

// IsRepeatable reports whether something is selected now.
func (c *duplicateSelection) IsRepeatable(doc *document.Document) bool {
	return doc.HasSelection()
}

func (c *duplicateSelection) Repeat(doc *document.Document) (*Command, error) {
	if !doc.HasSelection() {
		return nil, command.ErrNotRepeatable
	}
	return NewDuplicate(doc.Selection()), nil
}
