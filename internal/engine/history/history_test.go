package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dshills/undocore/internal/engine/command"
	"github.com/dshills/undocore/internal/engine/document"
	"github.com/dshills/undocore/internal/engine/edit"
	"github.com/dshills/undocore/internal/event"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newHistory(text string, opts ...Option) (*History[*document.Document], *document.Document) {
	doc := document.NewFromString(text)
	return New(doc, opts...), doc
}

func mustExecute(t *testing.T, h *History[*document.Document], cmd *edit.Command) {
	t.Helper()
	if err := h.Execute(cmd); err != nil {
		t.Fatalf("Execute(%s): %v", cmd.Name(), err)
	}
}

// typeText types s one rune at a time at the caret.
func typeText(t *testing.T, h *History[*document.Document], s string) {
	t.Helper()
	for _, r := range s {
		mustExecute(t, h, edit.NewInsert(h.Document().Caret(), string(r)))
	}
}

func TestEmptyHistory(t *testing.T) {
	h, doc := newHistory("abc")

	if h.CanUndo() || h.CanRedo() {
		t.Error("new history should have nothing to undo or redo")
	}
	if err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() = %v, want ErrNothingToUndo", err)
	}
	if err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() = %v, want ErrNothingToRedo", err)
	}
	if n, err := h.Repeat(); n != 0 || !errors.Is(err, ErrNothingToRepeat) {
		t.Errorf("Repeat() = %d, %v; want 0, ErrNothingToRepeat", n, err)
	}
	if doc.Text() != "abc" || doc.IsModified() {
		t.Error("empty history operations should not touch the document")
	}
}

func TestLedgerScenario(t *testing.T) {
	h, doc := newHistory("")

	mustExecute(t, h, edit.NewInsert(0, "a"))
	if doc.ModificationCount() != 1 {
		t.Fatalf("ledger after A = %d, want 1", doc.ModificationCount())
	}

	mustExecute(t, h, edit.NewInsert(1, "b"))
	if doc.ModificationCount() != 2 {
		t.Errorf("ledger after B = %d, want 2", doc.ModificationCount())
	}
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount = %d, want 1 after collation", h.UndoCount())
	}

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if doc.ModificationCount() != 0 || h.UndoCount() != 0 || h.RedoCount() != 1 {
		t.Errorf("after undo: ledger=%d undo=%d redo=%d; want 0 0 1",
			doc.ModificationCount(), h.UndoCount(), h.RedoCount())
	}
	if doc.Text() != "" {
		t.Errorf("Text after undo = %q", doc.Text())
	}

	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}
	if doc.ModificationCount() != 2 || h.UndoCount() != 1 {
		t.Errorf("after redo: ledger=%d undo=%d; want 2 1", doc.ModificationCount(), h.UndoCount())
	}
	if doc.Text() != "ab" {
		t.Errorf("Text after redo = %q", doc.Text())
	}
}

func TestDoneStackLengthCountsCollation(t *testing.T) {
	h, _ := newHistory("")

	typeText(t, h, "ab\ncd")
	mustExecute(t, h, edit.NewReplace(document.NewRange(0, 1), "A"))
	mustExecute(t, h, edit.NewReplace(document.NewRange(1, 2), "B"))

	// "ab\n" and "cd" collate into two entries, replacements never collate.
	if h.UndoCount() != 4 {
		t.Errorf("UndoCount = %d, want 4", h.UndoCount())
	}
}

func TestUndoRedoRestoresDocument(t *testing.T) {
	h, doc := newHistory("hello world")
	if err := doc.SetSelection(document.NewRange(0, 5)); err != nil {
		t.Fatal(err)
	}
	mustExecute(t, h, edit.NewReplace(doc.Selection(), "goodbye"))
	mustExecute(t, h, edit.NewDelete(document.NewRange(7, 13)))

	text, sel, ledger := doc.Text(), doc.Selection(), doc.ModificationCount()
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}

	if doc.Text() != text || doc.Selection() != sel || doc.ModificationCount() != ledger {
		t.Errorf("after undo+redo: %q %v %d; want %q %v %d",
			doc.Text(), doc.Selection(), doc.ModificationCount(), text, sel, ledger)
	}
}

func TestExecuteClearsRedo(t *testing.T) {
	h, doc := newHistory("")
	mustExecute(t, h, edit.NewInsert(0, "one\n"))
	mustExecute(t, h, edit.NewInsert(4, "two"))
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if !h.CanRedo() {
		t.Fatal("expected redo to be available")
	}

	mustExecute(t, h, edit.NewReplace(document.NewRange(0, 3), "ONE"))
	if h.CanRedo() {
		t.Error("execute should clear the undone stack")
	}
	if doc.Text() != "ONE\n" {
		t.Errorf("Text = %q", doc.Text())
	}
}

func TestExecuteNoEffect(t *testing.T) {
	h, doc := newHistory("abc")
	mustExecute(t, h, edit.NewInsert(3, "d\n"))
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}

	err := h.Execute(edit.NewInsert(99, "x"))
	if !errors.Is(err, ErrNoEffect) {
		t.Fatalf("Execute() = %v, want ErrNoEffect", err)
	}
	if !h.CanRedo() {
		t.Error("failed execute must not clear the undone stack")
	}
	if h.CanUndo() || doc.IsModified() {
		t.Error("failed execute must not record anything")
	}
}

func TestExecuteInvalidState(t *testing.T) {
	h, _ := newHistory("")
	cmd := edit.NewInsert(0, "x")
	mustExecute(t, h, cmd)

	if err := h.Execute(cmd); !errors.Is(err, ErrInvalidState) {
		t.Errorf("re-executing a done command = %v, want ErrInvalidState", err)
	}
	if err := h.Execute(nil); !errors.Is(err, ErrNilCommand) {
		t.Errorf("Execute(nil) = %v, want ErrNilCommand", err)
	}
}

func TestRepeatStopsAtDelimiter(t *testing.T) {
	h, doc := newHistory("")

	mustExecute(t, h, edit.NewInsert(0, "D1\n"))
	mustExecute(t, h, edit.NewSelect(document.Caret(0)))
	mustExecute(t, h, edit.NewInsert(0, "D3"))

	n, err := h.Repeat()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Repeat() = %d, want 1", n)
	}
	// The replay inserts at the caret after D3 as its own entry.
	if doc.Text() != "D3D3D1\n" {
		t.Errorf("Text = %q, want D3D3D1\\n", doc.Text())
	}
	if h.UndoCount() != 4 {
		t.Errorf("UndoCount = %d, want 4", h.UndoCount())
	}
}

func TestRepeatTwiceReplaysSameWindow(t *testing.T) {
	h, doc := newHistory("")
	mustExecute(t, h, edit.NewInsert(0, "a"))
	mustExecute(t, h, edit.NewInsert(1, "b"))

	for range 2 {
		if n, err := h.Repeat(); err != nil || n != 1 {
			t.Fatalf("Repeat() = %d, %v; want 1, nil", n, err)
		}
	}
	if doc.Text() != "ababab" {
		t.Errorf("Text = %q, want ababab", doc.Text())
	}
	if h.UndoCount() != 3 {
		t.Errorf("UndoCount = %d, want 3", h.UndoCount())
	}

	for _, want := range []string{"abab", "ab", ""} {
		if err := h.Undo(); err != nil {
			t.Fatal(err)
		}
		if doc.Text() != want {
			t.Errorf("Text after undo = %q, want %q", doc.Text(), want)
		}
	}
	if doc.IsModified() {
		t.Error("document modified after undoing everything")
	}
}

func TestRepeatAfterNewTyping(t *testing.T) {
	h, doc := newHistory("")
	mustExecute(t, h, edit.NewInsert(0, "a"))
	if _, err := h.Repeat(); err != nil {
		t.Fatal(err)
	}
	// Typing after a repeat starts a fresh window.
	mustExecute(t, h, edit.NewInsert(2, "z"))
	if h.UndoCount() != 3 {
		t.Fatalf("UndoCount = %d, want 3", h.UndoCount())
	}
	if _, err := h.Repeat(); err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "aazz" {
		t.Errorf("Text = %q, want aazz", doc.Text())
	}
}

func TestRepeatDelimiterOnTop(t *testing.T) {
	h, _ := newHistory("abc")
	mustExecute(t, h, edit.NewInsert(0, "x"))
	mustExecute(t, h, edit.NewSelect(document.NewRange(0, 1)))

	if _, err := h.Repeat(); !errors.Is(err, ErrNothingToRepeat) {
		t.Errorf("Repeat() = %v, want ErrNothingToRepeat", err)
	}
}

func TestRepeatOrderAndSkips(t *testing.T) {
	h, doc := newHistory("abcdef")

	mustExecute(t, h, edit.NewSelect(document.NewRange(0, 1)))
	mustExecute(t, h, edit.NewReplace(doc.Selection(), "X"))
	mustExecute(t, h, edit.NewInsert(doc.Caret(), "-"))

	// Nothing is selected now, so the replacement is skipped and only the
	// insert replays.
	n, err := h.Repeat()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Repeat() = %d, want 1", n)
	}
	if doc.Text() != "X--bcdef" {
		t.Errorf("Text = %q", doc.Text())
	}
}

func TestRepeatReplaysOldestFirst(t *testing.T) {
	h, doc := newHistory("one two")

	mustExecute(t, h, edit.NewSelect(document.NewRange(0, 3)))
	mustExecute(t, h, edit.NewDuplicate(doc.Selection()))
	mustExecute(t, h, edit.NewReplace(doc.Selection(), "1"))
	if doc.Text() != "one1 two" {
		t.Fatalf("Text = %q", doc.Text())
	}

	if err := doc.SetSelection(document.NewRange(5, 8)); err != nil {
		t.Fatal(err)
	}
	// Duplicate "two" first, then replace the selected copy.
	n, err := h.Repeat()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Repeat() = %d, want 2", n)
	}
	if doc.Text() != "one1 two1" {
		t.Errorf("Text = %q", doc.Text())
	}
}

func TestCollationWindow(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	h, _ := newHistory("", WithCollationWindow(time.Second), WithClock(clock.Now))

	mustExecute(t, h, edit.NewInsert(0, "a"))
	clock.Advance(500 * time.Millisecond)
	mustExecute(t, h, edit.NewInsert(1, "b"))
	clock.Advance(900 * time.Millisecond)
	mustExecute(t, h, edit.NewInsert(2, "c"))
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount = %d, want 1 within the window", h.UndoCount())
	}

	clock.Advance(2 * time.Second)
	mustExecute(t, h, edit.NewInsert(3, "d"))
	if h.UndoCount() != 2 {
		t.Errorf("UndoCount = %d, want 2 after the window", h.UndoCount())
	}
}

func TestUndoSealsCollation(t *testing.T) {
	h, doc := newHistory("")
	typeText(t, h, "ab")
	mustExecute(t, h, edit.NewDelete(document.NewRange(1, 2)))
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}

	mustExecute(t, h, edit.NewInsert(2, "c"))
	if h.UndoCount() != 2 {
		t.Errorf("UndoCount = %d, want 2", h.UndoCount())
	}
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "ab" {
		t.Errorf("Text = %q, want ab", doc.Text())
	}
}

func TestMaxEntries(t *testing.T) {
	h, doc := newHistory("", WithMaxEntries(2))
	mustExecute(t, h, edit.NewInsert(0, "1\n"))
	mustExecute(t, h, edit.NewInsert(2, "2\n"))
	mustExecute(t, h, edit.NewInsert(4, "3\n"))

	if h.UndoCount() != 2 {
		t.Fatalf("UndoCount = %d, want 2", h.UndoCount())
	}
	for h.CanUndo() {
		if err := h.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	if doc.Text() != "1\n" {
		t.Errorf("Text = %q, want the evicted edit kept", doc.Text())
	}
	if !doc.IsModified() {
		t.Error("evicted edits keep the document modified")
	}

	h.SetMaxEntries(0)
	if h.MaxEntries() != DefaultMaxEntries {
		t.Errorf("MaxEntries = %d, want default", h.MaxEntries())
	}
}

func TestSetMaxEntriesShrinks(t *testing.T) {
	h, _ := newHistory("")
	for i := 0; i < 5; i++ {
		mustExecute(t, h, edit.NewInsert(h.Document().Caret(), "x\n"))
	}
	h.SetMaxEntries(3)
	if h.UndoCount() != 3 {
		t.Errorf("UndoCount = %d, want 3", h.UndoCount())
	}
}

func TestClear(t *testing.T) {
	h, doc := newHistory("")
	mustExecute(t, h, edit.NewInsert(0, "x\n"))
	mustExecute(t, h, edit.NewInsert(2, "y"))
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear should empty both stacks")
	}
	if doc.Text() != "x\n" {
		t.Errorf("Clear must not touch the document, got %q", doc.Text())
	}
}

func TestInfo(t *testing.T) {
	clock := &fakeClock{now: time.Unix(50, 0)}
	h, _ := newHistory("", WithClock(clock.Now))

	if _, ok := h.PeekUndo(); ok {
		t.Error("PeekUndo on empty history should report false")
	}

	cmd := edit.NewInsert(0, "a")
	mustExecute(t, h, cmd)
	mustExecute(t, h, edit.NewInsert(1, "b"))
	mustExecute(t, h, edit.NewSelect(document.NewRange(0, 2)))

	info, ok := h.PeekUndo()
	if !ok || info.Name != "Select" || info.Type != edit.TypeSelect {
		t.Errorf("PeekUndo = %+v, %v", info, ok)
	}

	all := h.UndoInfo()
	if len(all) != 2 {
		t.Fatalf("UndoInfo len = %d, want 2", len(all))
	}
	want := Info{
		ID:                cmd.ID(),
		Name:              "Typing",
		Type:              edit.TypeInsert,
		ModificationCount: 2,
		Timestamp:         clock.now,
	}
	if all[0] != want {
		t.Errorf("UndoInfo[0] = %+v, want %+v", all[0], want)
	}

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	next, ok := h.PeekRedo()
	if !ok || next.Name != "Select" {
		t.Errorf("PeekRedo = %+v, %v", next, ok)
	}
	if len(h.RedoInfo()) != 1 {
		t.Errorf("RedoInfo len = %d, want 1", len(h.RedoInfo()))
	}
}

// flaky is a behaviour whose undo and redo outcomes can be switched.
type flaky struct {
	doOK   bool
	undoOK bool
	count  *int
}

func (f *flaky) Do(doc *ledger) bool {
	if f.doOK {
		*f.count++
	}
	return f.doOK
}

func (f *flaky) Undo(doc *ledger) bool {
	if f.undoOK {
		*f.count--
	}
	return f.undoOK
}

// ledger is a bare modification ledger.
type ledger struct {
	n int
}

func (l *ledger) IncModificationCount(n int) { l.n += n }
func (l *ledger) DecModificationCount(n int) { l.n = max(0, l.n-n) }

func TestUndoFailurePolicy(t *testing.T) {
	tests := []struct {
		name      string
		policy    Policy
		wantUndos int
	}{
		{"discard", PolicyDiscard, 0},
		{"restore", PolicyRestore, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &ledger{}
			h := New(doc, WithFailurePolicy(tt.policy))

			applied := 0
			b := &flaky{doOK: true, undoOK: false, count: &applied}
			cmd := command.New[*ledger](command.TypeUser, "flaky", b)
			if err := h.Execute(cmd); err != nil {
				t.Fatal(err)
			}

			if err := h.Undo(); !errors.Is(err, ErrUndoFailed) {
				t.Fatalf("Undo() = %v, want ErrUndoFailed", err)
			}
			if cmd.State() != command.StateDone {
				t.Errorf("State = %v, want Done", cmd.State())
			}
			if h.UndoCount() != tt.wantUndos || h.CanRedo() {
				t.Errorf("undo=%d redo=%v; want %d false", h.UndoCount(), h.CanRedo(), tt.wantUndos)
			}
			if doc.n != 1 {
				t.Errorf("ledger = %d, want 1 after failed undo", doc.n)
			}
		})
	}
}

func TestRedoFailurePolicy(t *testing.T) {
	tests := []struct {
		name      string
		policy    Policy
		wantRedos int
	}{
		{"discard", PolicyDiscard, 0},
		{"restore", PolicyRestore, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &ledger{}
			h := New(doc, WithFailurePolicy(tt.policy))

			applied := 0
			b := &flaky{doOK: true, undoOK: true, count: &applied}
			if err := h.Execute(command.New[*ledger](command.TypeUser, "flaky", b)); err != nil {
				t.Fatal(err)
			}
			if err := h.Undo(); err != nil {
				t.Fatal(err)
			}

			b.doOK = false
			if err := h.Redo(); !errors.Is(err, ErrRedoFailed) {
				t.Fatalf("Redo() = %v, want ErrRedoFailed", err)
			}
			if h.RedoCount() != tt.wantRedos || h.CanUndo() {
				t.Errorf("redo=%d undo=%v; want %d false", h.RedoCount(), h.CanUndo(), tt.wantRedos)
			}
			if doc.n != 0 {
				t.Errorf("ledger = %d, want 0", doc.n)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyDiscard, false},
		{"discard", PolicyDiscard, false},
		{"Restore", PolicyRestore, false},
		{"keep", PolicyDiscard, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if PolicyRestore.String() != "restore" {
		t.Errorf("String() = %q", PolicyRestore.String())
	}
}

func TestCheckpoints(t *testing.T) {
	h, doc := newHistory("")
	mustExecute(t, h, edit.NewInsert(0, "saved"))
	saved := h.Checkpoint()

	// Sealed: further typing starts a new step.
	mustExecute(t, h, edit.NewInsert(5, "!"))
	mustExecute(t, h, edit.NewInsert(6, "\n"))
	if h.AtCheckpoint(saved) {
		t.Error("history moved past the checkpoint")
	}

	n, err := h.UndoToCheckpoint(saved)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || doc.Text() != "saved" || !h.AtCheckpoint(saved) {
		t.Errorf("UndoToCheckpoint = %d, text %q", n, doc.Text())
	}

	n, err = h.UndoToCheckpoint(Checkpoint{})
	if err != nil || n != 1 || doc.Text() != "" {
		t.Errorf("undo to bottom = %d, %v, text %q", n, err, doc.Text())
	}

	n, err = h.RedoToCheckpoint(saved)
	if err != nil || n != 1 || doc.Text() != "saved" {
		t.Errorf("RedoToCheckpoint = %d, %v, text %q", n, err, doc.Text())
	}

	mustExecute(t, h, edit.NewInsert(0, ">"))
	if _, err := h.RedoToCheckpoint(Checkpoint{}); !errors.Is(err, ErrCheckpointNotFound) {
		t.Errorf("RedoToCheckpoint(bottom) = %v, want ErrCheckpointNotFound", err)
	}
}

func TestEvents(t *testing.T) {
	bus := event.NewBus()
	var topics []event.Topic
	var last HistoryChange
	_, err := bus.Subscribe("history.*", event.AsHandler[HistoryChange](func(_ context.Context, ev event.Event[HistoryChange]) error {
		topics = append(topics, ev.Type)
		last = ev.Payload
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	h, _ := newHistory("", WithPublisher(bus))
	mustExecute(t, h, edit.NewInsert(0, "a"))
	mustExecute(t, h, edit.NewInsert(1, "b"))
	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Repeat(); err != nil {
		t.Fatal(err)
	}
	h.Clear()

	want := []event.Topic{
		TopicExecuted, TopicCollated, TopicUndone, TopicRedone,
		TopicExecuted, TopicRepeated, TopicCleared,
	}
	if len(topics) != len(want) {
		t.Fatalf("topics = %v, want %v", topics, want)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Errorf("topics[%d] = %s, want %s", i, topics[i], want[i])
		}
	}
	if last.UndoDepth != 0 || last.RedoDepth != 0 {
		t.Errorf("cleared depths = %d/%d", last.UndoDepth, last.RedoDepth)
	}
}
