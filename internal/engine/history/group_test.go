package history

import (
	"errors"
	"testing"

	"github.com/dshills/undocore/internal/engine/command"
	"github.com/dshills/undocore/internal/engine/document"
	"github.com/dshills/undocore/internal/engine/edit"
)

func TestGroupIsOneUndoStep(t *testing.T) {
	h, doc := newHistory("a b")

	h.BeginGroup("Swap")
	if !h.IsGrouping() {
		t.Fatal("IsGrouping should be true")
	}
	mustExecute(t, h, edit.NewReplace(document.NewRange(0, 1), "b"))
	mustExecute(t, h, edit.NewReplace(document.NewRange(2, 3), "a"))
	if h.CanUndo() {
		t.Error("group members should not be on the done stack until EndGroup")
	}
	if err := h.EndGroup(); err != nil {
		t.Fatal(err)
	}

	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount = %d, want 1", h.UndoCount())
	}
	info, _ := h.PeekUndo()
	if info.Name != "Swap" || info.Type != command.TypeGroup || info.ModificationCount != 2 {
		t.Errorf("PeekUndo = %+v", info)
	}
	if doc.ModificationCount() != 2 {
		t.Errorf("ledger = %d, want 2", doc.ModificationCount())
	}

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "a b" || doc.IsModified() {
		t.Errorf("after undo: %q modified=%v", doc.Text(), doc.IsModified())
	}

	if err := h.Redo(); err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "b a" || doc.ModificationCount() != 2 {
		t.Errorf("after redo: %q ledger=%d", doc.Text(), doc.ModificationCount())
	}
}

func TestGroupMembersCollate(t *testing.T) {
	h, _ := newHistory("")

	h.BeginGroup("Snippet")
	typeText(t, h, "abc")
	mustExecute(t, h, edit.NewSelect(document.NewRange(0, 3)))
	if err := h.EndGroup(); err != nil {
		t.Fatal(err)
	}

	info, _ := h.PeekUndo()
	if info.ModificationCount != 4 {
		t.Errorf("ModificationCount = %d, want 4", info.ModificationCount)
	}
	if n := len(h.done[0].cmd.Members()); n != 2 {
		t.Errorf("members = %d, want 2", n)
	}
}

func TestSingleMemberGroupPushesCommand(t *testing.T) {
	h, _ := newHistory("")
	mustExecute(t, h, edit.NewInsert(0, "a"))

	h.BeginGroup("Type")
	mustExecute(t, h, edit.NewInsert(1, "b"))
	if err := h.EndGroup(); err != nil {
		t.Fatal(err)
	}

	// The lone member goes through normal collation.
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount = %d, want 1", h.UndoCount())
	}
	info, _ := h.PeekUndo()
	if info.Type != edit.TypeInsert || info.ModificationCount != 2 {
		t.Errorf("PeekUndo = %+v", info)
	}
}

func TestEmptyGroupPushesNothing(t *testing.T) {
	h, _ := newHistory("")
	h.BeginGroup("Nothing")
	if err := h.EndGroup(); err != nil {
		t.Fatal(err)
	}
	if h.CanUndo() {
		t.Error("empty group should not be recorded")
	}
	if err := h.EndGroup(); !errors.Is(err, ErrNoGroup) {
		t.Errorf("unmatched EndGroup = %v, want ErrNoGroup", err)
	}
}

func TestNestedGroups(t *testing.T) {
	h, _ := newHistory("")

	h.BeginGroup("Outer")
	mustExecute(t, h, edit.NewInsert(0, "x\n"))
	h.BeginGroup("Inner")
	mustExecute(t, h, edit.NewInsert(2, "y\n"))
	if err := h.EndGroup(); err != nil {
		t.Fatal(err)
	}
	if !h.IsGrouping() {
		t.Fatal("outer group should still be open")
	}
	mustExecute(t, h, edit.NewReplace(document.NewRange(0, 1), "z"))
	if err := h.EndGroup(); err != nil {
		t.Fatal(err)
	}

	if h.UndoCount() != 1 {
		t.Errorf("UndoCount = %d, want 1", h.UndoCount())
	}
	info, _ := h.PeekUndo()
	if info.Name != "Outer" || info.ModificationCount != 3 {
		t.Errorf("PeekUndo = %+v", info)
	}
}

func TestOperationsBlockedWhileGrouping(t *testing.T) {
	h, _ := newHistory("")
	mustExecute(t, h, edit.NewInsert(0, "a"))

	h.BeginGroup("Open")
	if err := h.Undo(); !errors.Is(err, ErrGroupActive) {
		t.Errorf("Undo() = %v, want ErrGroupActive", err)
	}
	if err := h.Redo(); !errors.Is(err, ErrGroupActive) {
		t.Errorf("Redo() = %v, want ErrGroupActive", err)
	}
	if _, err := h.Repeat(); !errors.Is(err, ErrGroupActive) {
		t.Errorf("Repeat() = %v, want ErrGroupActive", err)
	}
}

func TestCancelGroupRollsBack(t *testing.T) {
	h, doc := newHistory("base")
	mustExecute(t, h, edit.NewInsert(4, "\n"))

	h.BeginGroup("Edit")
	mustExecute(t, h, edit.NewInsert(0, ">"))
	mustExecute(t, h, edit.NewDelete(document.NewRange(1, 3)))
	if err := h.CancelGroup(); err != nil {
		t.Fatal(err)
	}

	if doc.Text() != "base\n" || doc.ModificationCount() != 1 {
		t.Errorf("after cancel: %q ledger=%d", doc.Text(), doc.ModificationCount())
	}
	if h.IsGrouping() || h.UndoCount() != 1 {
		t.Errorf("grouping=%v undo=%d", h.IsGrouping(), h.UndoCount())
	}
	if err := h.CancelGroup(); !errors.Is(err, ErrNoGroup) {
		t.Errorf("CancelGroup() = %v, want ErrNoGroup", err)
	}
}

func TestTransaction(t *testing.T) {
	h, doc := newHistory("")

	err := h.Transaction("Header", func() error {
		if err := h.Execute(edit.NewInsert(0, "# ")); err != nil {
			return err
		}
		return h.Execute(edit.NewReplace(document.NewRange(0, 1), "#"))
	})
	if err == nil {
		t.Fatal("replacing # with # should fail the transaction")
	}
	if !errors.Is(err, ErrNoEffect) {
		t.Errorf("err = %v, want ErrNoEffect", err)
	}
	if doc.Text() != "" || h.CanUndo() || h.IsGrouping() {
		t.Errorf("failed transaction left %q undo=%v", doc.Text(), h.CanUndo())
	}

	err = h.Transaction("Header", func() error {
		return h.Execute(edit.NewInsert(0, "# title"))
	})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "# title" || h.UndoCount() != 1 {
		t.Errorf("Text = %q undo=%d", doc.Text(), h.UndoCount())
	}
}

func TestNestedTransactionFailure(t *testing.T) {
	h, doc := newHistory("")
	boom := errors.New("boom")

	err := h.Transaction("Outer", func() error {
		if err := h.Execute(edit.NewInsert(0, "a")); err != nil {
			return err
		}
		return h.Transaction("Inner", func() error {
			if err := h.Execute(edit.NewInsert(1, "b")); err != nil {
				return err
			}
			return boom
		})
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if doc.Text() != "" || h.IsGrouping() || doc.IsModified() {
		t.Errorf("text=%q grouping=%v modified=%v", doc.Text(), h.IsGrouping(), doc.IsModified())
	}
}

func TestRepeatGroup(t *testing.T) {
	h, doc := newHistory("ab")
	mustExecute(t, h, edit.NewSelect(document.Caret(2)))

	h.BeginGroup("Bracket")
	mustExecute(t, h, edit.NewInsert(2, "(\n"))
	mustExecute(t, h, edit.NewInsert(4, ")"))
	if err := h.EndGroup(); err != nil {
		t.Fatal(err)
	}

	n, err := h.Repeat()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Repeat() = %d, want 1", n)
	}
	if doc.Text() != "ab(\n)(\n)" {
		t.Errorf("Text = %q", doc.Text())
	}
	info, _ := h.PeekUndo()
	if info.Name != "Bracket" || info.Type != command.TypeGroup {
		t.Errorf("PeekUndo = %+v", info)
	}

	if err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "ab(\n)" {
		t.Errorf("Text after undo = %q", doc.Text())
	}
}
