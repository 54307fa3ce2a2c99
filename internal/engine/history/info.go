package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/undocore/internal/engine/command"
)

// Info describes a recorded command.
type Info struct {
	ID                uuid.UUID
	Name              string
	Type              command.Type
	ModificationCount int
	Timestamp         time.Time
}

func (e *entry[D]) info() Info {
	return Info{
		ID:                e.cmd.ID(),
		Name:              e.cmd.Name(),
		Type:              e.cmd.Type(),
		ModificationCount: e.cmd.ModificationCount(),
		Timestamp:         e.timestamp,
	}
}

func infos[D command.Ledger](stack []*entry[D]) []Info {
	result := make([]Info, len(stack))
	for i, e := range stack {
		result[i] = e.info()
	}
	return result
}

// UndoInfo describes the done stack, oldest first.
func (h *History[D]) UndoInfo() []Info {
	return infos(h.done)
}

// RedoInfo describes the undone stack, oldest undo first. The last element
// is the next redo.
func (h *History[D]) RedoInfo() []Info {
	return infos(h.undone)
}

// PeekUndo returns info about the next undo without performing it.
func (h *History[D]) PeekUndo() (Info, bool) {
	if len(h.done) == 0 {
		return Info{}, false
	}
	return h.done[len(h.done)-1].info(), true
}

// PeekRedo returns info about the next redo without performing it.
func (h *History[D]) PeekRedo() (Info, bool) {
	if len(h.undone) == 0 {
		return Info{}, false
	}
	return h.undone[len(h.undone)-1].info(), true
}

// Checkpoint marks a position in the history, typically the saved state.
type Checkpoint struct {
	// id is the command on top of the done stack, or uuid.Nil for the
	// bottom of the history.
	id uuid.UUID
}

// Checkpoint returns the current position. The top entry stops collating so
// later edits cannot be folded into the checkpointed step.
func (h *History[D]) Checkpoint() Checkpoint {
	top := h.top()
	if top == nil {
		return Checkpoint{}
	}
	top.sealed = true
	return Checkpoint{id: top.cmd.ID()}
}

// AtCheckpoint reports whether the history is exactly at cp.
func (h *History[D]) AtCheckpoint(cp Checkpoint) bool {
	top := h.top()
	if top == nil {
		return cp.id == uuid.Nil
	}
	return top.cmd.ID() == cp.id
}

// UndoToCheckpoint undoes commands until cp is on top of the done stack.
// It returns the number of commands undone. A checkpoint at the bottom of
// the history undoes everything still recorded.
func (h *History[D]) UndoToCheckpoint(cp Checkpoint) (int, error) {
	if h.groupDepth > 0 {
		return 0, ErrGroupActive
	}

	target := 0
	if cp.id != uuid.Nil {
		i := h.indexOf(h.done, cp.id)
		if i < 0 {
			return 0, ErrCheckpointNotFound
		}
		target = i + 1
	}

	n := 0
	for len(h.done) > target {
		if err := h.Undo(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// RedoToCheckpoint redoes commands until cp is on top of the done stack.
// It returns the number of commands redone.
func (h *History[D]) RedoToCheckpoint(cp Checkpoint) (int, error) {
	if h.groupDepth > 0 {
		return 0, ErrGroupActive
	}
	if h.AtCheckpoint(cp) {
		return 0, nil
	}

	i := h.indexOf(h.undone, cp.id)
	if cp.id == uuid.Nil || i < 0 {
		return 0, ErrCheckpointNotFound
	}

	n := 0
	for len(h.undone) > i {
		if err := h.Redo(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (h *History[D]) indexOf(stack []*entry[D], id uuid.UUID) int {
	for i, e := range stack {
		if e.cmd.ID() == id {
			return i
		}
	}
	return -1
}
