package edit

import (
	"strings"

	"github.com/dshills/undocore/internal/engine/command"
	"github.com/dshills/undocore/internal/engine/document"
)

// insertText inserts text at an offset and leaves the caret after it.
type insertText struct {
	offset    ByteOffset
	text      string
	selBefore Range
}

// NewInsert creates a command inserting text at offset. Line endings in text
// are normalized up front so the command records what the document stores.
func NewInsert(offset ByteOffset, text string) *Command {
	return command.New[*document.Document](TypeInsert, "Typing", &insertText{
		offset: offset,
		text:   document.NormalizeLineEndings(text),
	})
}

func (c *insertText) Do(doc *document.Document) bool {
	if c.text == "" {
		return false
	}

	sel := doc.Selection()
	end, err := doc.Insert(c.offset, c.text)
	if err != nil {
		return false
	}
	c.selBefore = sel
	_ = doc.SetCaret(end)
	return true
}

func (c *insertText) Undo(doc *document.Document) bool {
	end := c.offset + ByteOffset(len(c.text))
	if doc.TextRange(c.offset, end) != c.text {
		return false
	}
	if err := doc.Delete(c.offset, end); err != nil {
		return false
	}
	_ = doc.SetSelection(c.selBefore)
	return true
}

// CollateWith absorbs an insert that continues exactly where this one
// ended. A trailing newline ends the run.
func (c *insertText) CollateWith(other Behavior) bool {
	o, ok := other.(*insertText)
	if !ok {
		return false
	}
	if strings.HasSuffix(c.text, "\n") {
		return false
	}
	if o.offset != c.offset+ByteOffset(len(c.text)) {
		return false
	}
	c.text += o.text
	return true
}

func (c *insertText) IsRepeatable(doc *document.Document) bool {
	return c.text != ""
}

// Repeat inserts the same text at the current caret.
func (c *insertText) Repeat(doc *document.Document) (*Command, error) {
	return NewInsert(doc.Caret(), c.text), nil
}
