package edit

import (
	"github.com/dshills/undocore/internal/engine/command"
	"github.com/dshills/undocore/internal/engine/document"
)

// replaceText swaps a range for new text.
type replaceText struct {
	rng       Range
	newText   string
	oldText   string
	selBefore Range
}

// NewReplace creates a command replacing [r.Start, r.End) with text, line
// endings normalized.
func NewReplace(r Range, text string) *Command {
	return command.New[*document.Document](TypeReplace, "Replace", &replaceText{
		rng:     r,
		newText: document.NormalizeLineEndings(text),
	})
}

func (c *replaceText) Do(doc *document.Document) bool {
	if !c.rng.IsValid() {
		return false
	}

	sel := doc.Selection()
	old := doc.TextRange(c.rng.Start, c.rng.End)
	if old == c.newText {
		return false
	}
	end, err := doc.Replace(c.rng.Start, c.rng.End, c.newText)
	if err != nil {
		return false
	}
	c.oldText = old
	c.selBefore = sel
	_ = doc.SetCaret(end)
	return true
}

func (c *replaceText) Undo(doc *document.Document) bool {
	end := c.rng.Start + ByteOffset(len(c.newText))
	if doc.TextRange(c.rng.Start, end) != c.newText {
		return false
	}
	if _, err := doc.Replace(c.rng.Start, end, c.oldText); err != nil {
		return false
	}
	_ = doc.SetSelection(c.selBefore)
	return true
}

func (c *replaceText) IsRepeatable(doc *document.Document) bool {
	return doc.HasSelection()
}

// Repeat replaces the current selection with the same text.
func (c *replaceText) Repeat(doc *document.Document) (*Command, error) {
	if !doc.HasSelection() {
		return nil, command.ErrNotRepeatable
	}
	return NewReplace(doc.Selection(), c.newText), nil
}
