package edit

import (
	"github.com/dshills/undocore/internal/engine/command"
	"github.com/dshills/undocore/internal/engine/document"
)

// deleteText removes a range and remembers the removed text.
type deleteText struct {
	rng       Range
	text      string
	selBefore Range

	// lenAfter is the document length once the deletion is done.
	lenAfter ByteOffset
}

// NewDelete creates a command deleting [r.Start, r.End).
func NewDelete(r Range) *Command {
	return command.New[*document.Document](TypeDelete, "Delete", &deleteText{rng: r})
}

func (c *deleteText) Do(doc *document.Document) bool {
	if c.rng.IsEmpty() || !c.rng.IsValid() {
		return false
	}

	sel := doc.Selection()
	text := doc.TextRange(c.rng.Start, c.rng.End)
	if err := doc.Delete(c.rng.Start, c.rng.End); err != nil {
		return false
	}
	c.text = text
	c.selBefore = sel
	c.lenAfter = doc.Len()
	_ = doc.SetCaret(c.rng.Start)
	return true
}

func (c *deleteText) Undo(doc *document.Document) bool {
	if doc.Len() != c.lenAfter {
		return false
	}
	if _, err := doc.Insert(c.rng.Start, c.text); err != nil {
		return false
	}
	_ = doc.SetSelection(c.selBefore)
	return true
}

// CollateWith absorbs a backspace that ends where this deletion started, or
// a forward delete starting at the same offset.
func (c *deleteText) CollateWith(other Behavior) bool {
	o, ok := other.(*deleteText)
	if !ok {
		return false
	}

	switch {
	case o.rng.End == c.rng.Start:
		c.rng.Start = o.rng.Start
		c.text = o.text + c.text
	case o.rng.Start == c.rng.Start:
		c.rng.End += o.rng.Len()
		c.text += o.text
	default:
		return false
	}
	c.lenAfter = o.lenAfter
	return true
}

func (c *deleteText) IsRepeatable(doc *document.Document) bool {
	return doc.HasSelection()
}

// Repeat deletes whatever is selected now.
func (c *deleteText) Repeat(doc *document.Document) (*Command, error) {
	if !doc.HasSelection() {
		return nil, command.ErrNotRepeatable
	}
	return NewDelete(doc.Selection()), nil
}
