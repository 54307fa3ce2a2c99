package document

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/dshills/undocore/internal/event"
)

// Event topics published by a Document.
const (
	// TopicModifiedChanged is published when IsModified flips.
	TopicModifiedChanged event.Topic = "document.modified.changed"
)

// ModifiedChange is the payload of TopicModifiedChanged.
type ModifiedChange struct {
	Modified          bool
	ModificationCount int
}

// Document is an in-memory UTF-8 text with a selection and a modification
// ledger.
type Document struct {
	text      string
	selection Range
	modCount  int
	revision  uint64

	logger    *slog.Logger
	publisher event.Publisher
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewFromString creates a document with initial content. Line endings are
// normalized to LF. The initial content does not count as a modification.
func NewFromString(s string, opts ...Option) *Document {
	d := New(opts...)
	d.text = NormalizeLineEndings(s)
	return d
}

// NewFromReader creates a document from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Document, error) {
	// Read everything first; CRLF pairs may straddle read boundaries.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewFromString(string(data), opts...), nil
}

// NormalizeLineEndings converts CRLF and lone CR to LF, the form every
// edit stores.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Read Operations

// Text returns the full document content.
func (d *Document) Text() string {
	return d.text
}

// Len returns the document length in bytes.
func (d *Document) Len() ByteOffset {
	return ByteOffset(len(d.text))
}

// IsEmpty returns true if the document has no content.
func (d *Document) IsEmpty() bool {
	return len(d.text) == 0
}

// TextRange returns text in the given byte range, clamped to the document.
func (d *Document) TextRange(start, end ByteOffset) string {
	start = d.clamp(start)
	end = d.clamp(end)
	if start >= end {
		return ""
	}
	return d.text[start:end]
}

// Revision returns a counter incremented by every content change.
func (d *Document) Revision() uint64 {
	return d.revision
}

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int {
	return strings.Count(d.text, "\n") + 1
}

// LineText returns the content of line (0-indexed) without its newline.
func (d *Document) LineText(line int) string {
	start := d.LineStartOffset(line)
	end := start
	for end < d.Len() && d.text[end] != '\n' {
		end++
	}
	return d.text[start:end]
}

// LineStartOffset returns the offset of the first byte of line.
// Lines past the end map to the document length.
func (d *Document) LineStartOffset(line int) ByteOffset {
	if line <= 0 {
		return 0
	}
	offset := 0
	for i := 0; i < line; i++ {
		idx := strings.IndexByte(d.text[offset:], '\n')
		if idx < 0 {
			return d.Len()
		}
		offset += idx + 1
	}
	return ByteOffset(offset)
}

// OffsetToPoint converts a byte offset to a line/column position.
func (d *Document) OffsetToPoint(offset ByteOffset) Point {
	offset = d.clamp(offset)
	prefix := d.text[:offset]
	line := strings.Count(prefix, "\n")
	col := len(prefix)
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		col = len(prefix) - idx - 1
	}
	return Point{Line: line, Column: col}
}

// PointToOffset converts a line/column position to a byte offset, clamping
// the column to the line length.
func (d *Document) PointToOffset(p Point) ByteOffset {
	start := d.LineStartOffset(p.Line)
	lineLen := ByteOffset(len(d.LineText(p.Line)))
	col := ByteOffset(max(p.Column, 0))
	if col > lineLen {
		col = lineLen
	}
	return d.alignBackward(start + col)
}

// PrevRuneOffset returns the offset of the rune before offset.
func (d *Document) PrevRuneOffset(offset ByteOffset) ByteOffset {
	offset = d.clamp(offset)
	if offset == 0 {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(d.text[:offset])
	return offset - ByteOffset(size)
}

// NextRuneOffset returns the offset of the rune after offset.
func (d *Document) NextRuneOffset(offset ByteOffset) ByteOffset {
	offset = d.clamp(offset)
	if offset >= d.Len() {
		return d.Len()
	}
	_, size := utf8.DecodeRuneInString(d.text[offset:])
	return offset + ByteOffset(size)
}

// alignBackward moves offset back to the start of the rune containing it.
func (d *Document) alignBackward(offset ByteOffset) ByteOffset {
	for offset > 0 && offset < d.Len() && !utf8.RuneStart(d.text[offset]) {
		offset--
	}
	return offset
}

// ClampOffset clamps offset to the document and moves it back to a rune
// boundary.
func (d *Document) ClampOffset(offset ByteOffset) ByteOffset {
	return d.alignBackward(d.clamp(offset))
}

// IsRuneBoundary reports whether offset lies between two runes. Both ends
// of the document count.
func (d *Document) IsRuneBoundary(offset ByteOffset) bool {
	if offset <= 0 || offset >= d.Len() {
		return true
	}
	return utf8.RuneStart(d.text[offset])
}

func (d *Document) clamp(offset ByteOffset) ByteOffset {
	if offset < 0 {
		return 0
	}
	if offset > d.Len() {
		return d.Len()
	}
	return offset
}

// Write Operations

// Insert inserts text at offset and returns the end position of the
// inserted text.
func (d *Document) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	return d.Replace(offset, offset, text)
}

// Delete removes text in the range [start, end).
func (d *Document) Delete(start, end ByteOffset) error {
	_, err := d.Replace(start, end, "")
	return err
}

// Replace replaces text in [start, end) with text and returns the end
// position of the new text. The selection is shifted to follow the edit.
func (d *Document) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	if err := d.checkRange(start, end); err != nil {
		return 0, err
	}
	text = NormalizeLineEndings(text)
	if start == end && text == "" {
		return start, nil
	}

	d.text = d.text[:start] + text + d.text[end:]
	d.revision++

	newEnd := start + ByteOffset(len(text))
	d.selection = Range{
		Start: transformOffset(d.selection.Start, start, end, newEnd),
		End:   transformOffset(d.selection.End, start, end, newEnd),
	}
	return newEnd, nil
}

// transformOffset maps a position through the replacement of [start, end)
// by text ending at newEnd.
func transformOffset(pos, start, end, newEnd ByteOffset) ByteOffset {
	switch {
	case pos <= start:
		return pos
	case pos >= end:
		return pos + (newEnd - end)
	default:
		// Inside the replaced range
		return start
	}
}

func (d *Document) checkRange(start, end ByteOffset) error {
	if start > end {
		return ErrRangeInvalid
	}
	if start < 0 || end > d.Len() {
		return ErrOffsetOutOfRange
	}
	if !d.IsRuneBoundary(start) || !d.IsRuneBoundary(end) {
		return ErrNotRuneBoundary
	}
	return nil
}

// Selection

// Selection returns the selected range. An empty range is a caret.
func (d *Document) Selection() Range {
	return d.selection
}

// Caret returns the end of the selection.
func (d *Document) Caret() ByteOffset {
	return d.selection.End
}

// HasSelection returns true if the selection is non-empty.
func (d *Document) HasSelection() bool {
	return !d.selection.IsEmpty()
}

// SelectedText returns the text under the selection.
func (d *Document) SelectedText() string {
	return d.TextRange(d.selection.Start, d.selection.End)
}

// SetSelection replaces the selection. The range must lie inside the
// document.
func (d *Document) SetSelection(r Range) error {
	if err := d.checkRange(r.Start, r.End); err != nil {
		return err
	}
	d.selection = r
	return nil
}

// SetCaret collapses the selection to offset.
func (d *Document) SetCaret(offset ByteOffset) error {
	return d.SetSelection(Caret(offset))
}

// Modification Ledger

// ModificationCount returns the number of applied modifications since the
// document was created.
func (d *Document) ModificationCount() int {
	return d.modCount
}

// IsModified returns true if the document has unsaved changes.
func (d *Document) IsModified() bool {
	return d.modCount != 0
}

// IncModificationCount adds n to the ledger.
func (d *Document) IncModificationCount(n int) {
	if n <= 0 {
		return
	}
	was := d.IsModified()
	d.modCount += n
	d.notifyModified(was)
}

// DecModificationCount subtracts n from the ledger. The ledger never goes
// below zero.
func (d *Document) DecModificationCount(n int) {
	if n <= 0 {
		return
	}
	was := d.IsModified()
	if n > d.modCount {
		d.logger.Warn("modification count underflow",
			slog.Int("count", d.modCount),
			slog.Int("decrement", n))
		n = d.modCount
	}
	d.modCount -= n
	d.notifyModified(was)
}

func (d *Document) notifyModified(was bool) {
	now := d.IsModified()
	if was == now {
		return
	}

	d.logger.Debug("document modified state changed",
		slog.Bool("modified", now),
		slog.Int("count", d.modCount))

	if d.publisher == nil {
		return
	}
	ev := event.NewEvent(TopicModifiedChanged, ModifiedChange{
		Modified:          now,
		ModificationCount: d.modCount,
	}, "document")
	if err := d.publisher.Publish(context.Background(), ev); err != nil {
		d.logger.Warn("publish modified change", slog.Any("error", err))
	}
}
