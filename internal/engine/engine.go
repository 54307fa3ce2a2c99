package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dshills/undocore/internal/config"
	"github.com/dshills/undocore/internal/engine/document"
	"github.com/dshills/undocore/internal/engine/edit"
	"github.com/dshills/undocore/internal/engine/history"
	"github.com/dshills/undocore/internal/event"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the document.
	ByteOffset = document.ByteOffset

	// Range is a byte range in the document.
	Range = document.Range

	// Point is a line/column position.
	Point = document.Point

	// Command is an undoable command over the engine's document.
	Command = edit.Command

	// History is the engine's undo history.
	History = history.History[*document.Document]

	// Checkpoint marks a position in the history.
	Checkpoint = history.Checkpoint
)

// Engine combines a document and its undo history behind editor verbs.
type Engine struct {
	doc     *document.Document
	history *History

	// anchor is the fixed end of a selection grown by ExtendSelection.
	anchor ByteOffset

	// Configuration
	tabWidth    int
	readOnly    bool
	initContent string
	historyOpts []history.Option
	logger      *slog.Logger
	publisher   event.Publisher
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	e.doc = document.NewFromString(e.initContent, e.documentOptions()...)
	e.history = history.New(e.doc, e.historyOptions()...)
	return e
}

// NewFromReader creates an Engine whose content is read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := newEngine(opts)
	doc, err := document.NewFromReader(r, e.documentOptions()...)
	if err != nil {
		return nil, err
	}
	e.doc = doc
	e.history = history.New(e.doc, e.historyOptions()...)
	return e, nil
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		tabWidth: DefaultTabWidth,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) documentOptions() []document.Option {
	return []document.Option{
		document.WithLogger(e.logger.With(slog.String("component", "document"))),
		document.WithPublisher(e.publisher),
	}
}

func (e *Engine) historyOptions() []history.Option {
	opts := []history.Option{
		history.WithLogger(e.logger.With(slog.String("component", "history"))),
		history.WithPublisher(e.publisher),
	}
	return append(opts, e.historyOpts...)
}

// ============================================================================
// Read Operations
// ============================================================================

// Document returns the underlying document.
func (e *Engine) Document() *document.Document {
	return e.doc
}

// History returns the undo history.
func (e *Engine) History() *History {
	return e.history
}

// Text returns the full document content.
func (e *Engine) Text() string {
	return e.doc.Text()
}

// TextRange returns text in the given byte range.
func (e *Engine) TextRange(start, end ByteOffset) string {
	return e.doc.TextRange(start, end)
}

// Len returns the total byte length of the document.
func (e *Engine) Len() ByteOffset {
	return e.doc.Len()
}

// IsEmpty returns true if the document is empty.
func (e *Engine) IsEmpty() bool {
	return e.doc.IsEmpty()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	return e.doc.LineCount()
}

// LineText returns the text of a line without its newline.
func (e *Engine) LineText(line int) string {
	return e.doc.LineText(line)
}

// OffsetToPoint converts a byte offset to line/column.
func (e *Engine) OffsetToPoint(offset ByteOffset) Point {
	return e.doc.OffsetToPoint(offset)
}

// PointToOffset converts line/column to byte offset.
func (e *Engine) PointToOffset(p Point) ByteOffset {
	return e.doc.PointToOffset(p)
}

// Selection returns the current selection.
func (e *Engine) Selection() Range {
	return e.doc.Selection()
}

// Caret returns the caret offset.
func (e *Engine) Caret() ByteOffset {
	return e.doc.Caret()
}

// SelectedText returns the selected text.
func (e *Engine) SelectedText() string {
	return e.doc.SelectedText()
}

// IsModified returns true if the document has unsaved changes.
func (e *Engine) IsModified() bool {
	return e.doc.IsModified()
}

// ModificationCount returns the document ledger.
func (e *Engine) ModificationCount() int {
	return e.doc.ModificationCount()
}

// TabWidth returns the configured tab width.
func (e *Engine) TabWidth() int {
	return e.tabWidth
}

// SetTabWidth changes the tab width. Non-positive values are ignored.
func (e *Engine) SetTabWidth(width int) {
	if width > 0 {
		e.tabWidth = width
	}
}

// IsReadOnly returns true if the engine rejects writes.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// ============================================================================
// Editing
// ============================================================================

// Execute runs a command through the history.
func (e *Engine) Execute(cmd *Command) error {
	if e.readOnly {
		return ErrReadOnly
	}
	return e.history.Execute(cmd)
}

// Type inserts text at the caret, replacing the selection if there is one.
func (e *Engine) Type(text string) error {
	if e.doc.HasSelection() {
		return e.Execute(edit.NewReplace(e.doc.Selection(), text))
	}
	return e.Execute(edit.NewInsert(e.doc.Caret(), text))
}

// Backspace deletes the selection, or the rune before the caret.
func (e *Engine) Backspace() error {
	if e.doc.HasSelection() {
		return e.Execute(edit.NewDelete(e.doc.Selection()))
	}
	caret := e.doc.Caret()
	if caret == 0 {
		return ErrAtBoundary
	}
	return e.Execute(edit.NewDelete(document.NewRange(e.doc.PrevRuneOffset(caret), caret)))
}

// DeleteForward deletes the selection, or the rune after the caret.
func (e *Engine) DeleteForward() error {
	if e.doc.HasSelection() {
		return e.Execute(edit.NewDelete(e.doc.Selection()))
	}
	caret := e.doc.Caret()
	if caret >= e.doc.Len() {
		return ErrAtBoundary
	}
	return e.Execute(edit.NewDelete(document.NewRange(caret, e.doc.NextRuneOffset(caret))))
}

// Insert inserts text at offset.
func (e *Engine) Insert(offset ByteOffset, text string) error {
	return e.Execute(edit.NewInsert(offset, text))
}

// Delete removes text in [start, end).
func (e *Engine) Delete(start, end ByteOffset) error {
	return e.Execute(edit.NewDelete(document.NewRange(start, end)))
}

// Replace replaces text in [start, end).
func (e *Engine) Replace(start, end ByteOffset, text string) error {
	return e.Execute(edit.NewReplace(document.NewRange(start, end), text))
}

// Select changes the selection as an undoable step. Selecting ends the
// repeat window.
func (e *Engine) Select(r Range) error {
	return e.Execute(edit.NewSelect(r))
}

// SelectAll selects the whole document.
func (e *Engine) SelectAll() error {
	return e.Select(document.NewRange(0, e.doc.Len()))
}

// Duplicate inserts a copy of the selection after it.
func (e *Engine) Duplicate() error {
	return e.Execute(edit.NewDuplicate(e.doc.Selection()))
}

// MoveCaret moves the caret without recording history. Offsets are clamped
// to the document and moved back to the start of the rune they fall in.
func (e *Engine) MoveCaret(offset ByteOffset) error {
	return e.doc.SetCaret(e.clamp(offset))
}

// ExtendSelection moves the head of the selection to offset without
// recording history. The anchor stays where the selection started, so the
// head may cross it.
func (e *Engine) ExtendSelection(offset ByteOffset) error {
	anchor := e.selectionAnchor()
	offset = e.clamp(offset)
	r := document.NewRange(min(anchor, offset), max(anchor, offset))
	if err := e.doc.SetSelection(r); err != nil {
		return err
	}
	e.anchor = anchor
	return nil
}

// Head returns the moving end of the selection, where the cursor is shown.
func (e *Engine) Head() ByteOffset {
	sel := e.doc.Selection()
	if e.selectionAnchor() == sel.Start {
		return sel.End
	}
	return sel.Start
}

// selectionAnchor returns the fixed end of the selection. Commands replace
// the selection freely, so an anchor that no longer matches either end
// falls back to the start.
func (e *Engine) selectionAnchor() ByteOffset {
	sel := e.doc.Selection()
	if sel.IsEmpty() || (e.anchor != sel.Start && e.anchor != sel.End) {
		return sel.Start
	}
	return e.anchor
}

func (e *Engine) clamp(offset ByteOffset) ByteOffset {
	return e.doc.ClampOffset(offset)
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo undoes the last command.
func (e *Engine) Undo() error {
	if e.readOnly {
		return ErrReadOnly
	}
	return e.history.Undo()
}

// Redo redoes the last undone command.
func (e *Engine) Redo() error {
	if e.readOnly {
		return ErrReadOnly
	}
	return e.history.Redo()
}

// Repeat replays the commands since the last selection change and returns
// how many were replayed.
func (e *Engine) Repeat() (int, error) {
	if e.readOnly {
		return 0, ErrReadOnly
	}
	return e.history.Repeat()
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return !e.readOnly && e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return !e.readOnly && e.history.CanRedo()
}

// UndoName returns the name of the next undo, or "" if there is none.
func (e *Engine) UndoName() string {
	if info, ok := e.history.PeekUndo(); ok {
		return info.Name
	}
	return ""
}

// RedoName returns the name of the next redo, or "" if there is none.
func (e *Engine) RedoName() string {
	if info, ok := e.history.PeekRedo(); ok {
		return info.Name
	}
	return ""
}

// BeginGroup starts an undo group.
func (e *Engine) BeginGroup(name string) {
	e.history.BeginGroup(name)
}

// EndGroup closes an undo group.
func (e *Engine) EndGroup() error {
	return e.history.EndGroup()
}

// CancelGroup rolls back and closes the open undo group.
func (e *Engine) CancelGroup() error {
	return e.history.CancelGroup()
}

// Transaction runs fn as one undo step, rolling back if it fails.
func (e *Engine) Transaction(name string, fn func() error) error {
	if e.readOnly {
		return ErrReadOnly
	}
	return e.history.Transaction(name, fn)
}

// MarkSaved records the current position as the saved state.
func (e *Engine) MarkSaved() Checkpoint {
	return e.history.Checkpoint()
}

// ============================================================================
// Configuration
// ============================================================================

// ApplyConfig reconfigures the undo history at runtime.
func (e *Engine) ApplyConfig(cfg config.HistoryConfig) error {
	policy, err := cfg.Policy()
	if err != nil {
		return fmt.Errorf("applying history config: %w", err)
	}
	if cfg.MaxEntries < 0 || cfg.CollationWindow < 0 {
		return fmt.Errorf("applying history config: %w", config.ErrInvalidConfig)
	}

	e.history.Configure(cfg.Options()...)
	e.logger.Debug("history reconfigured",
		slog.Int("max_entries", e.history.MaxEntries()),
		slog.Duration("collation_window", cfg.CollationWindow.Std()),
		slog.String("policy", policy.String()))
	return nil
}

// Close discards the undo history. The document content is kept.
func (e *Engine) Close() error {
	e.history.Clear()
	return nil
}
