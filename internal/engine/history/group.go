package history

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dshills/undocore/internal/engine/command"
)

// BeginGroup starts a command group.
// Commands executed while grouping still apply and count immediately; on
// the matching EndGroup they become a single undo step. Nested calls are
// counted and only the outermost EndGroup closes the group. The name of the
// outermost group wins.
func (h *History[D]) BeginGroup(name string) {
	if h.groupDepth == 0 {
		h.groupName = name
		h.groupCmds = nil
	}
	h.groupDepth++
}

// EndGroup closes the current group level.
// Closing the outermost level pushes the group onto the done stack: nothing
// for an empty group, the command itself for a single member, otherwise a
// group command whose count is the sum of its members.
func (h *History[D]) EndGroup() error {
	if h.groupDepth == 0 {
		return ErrNoGroup
	}
	h.groupDepth--
	if h.groupDepth > 0 {
		return nil
	}

	cmds := h.groupCmds
	name := h.groupName
	h.groupCmds = nil
	h.groupName = ""

	switch len(cmds) {
	case 0:
		return nil
	case 1:
		h.pushDone(cmds[0])
	default:
		h.pushDone(command.NewGroup(name, cmds))
	}
	return nil
}

func (h *History[D]) pushDone(cmd *command.Undoable[D]) {
	if h.push(cmd) {
		h.publishCommand(TopicCollated, cmd)
		return
	}
	h.logger.Debug("group closed",
		slog.String("group", cmd.Name()),
		slog.Int("count", cmd.ModificationCount()))
	h.publishCommand(TopicExecuted, cmd)
}

// CancelGroup closes every open group level and rolls back the commands
// executed inside it, most recent first. If a rollback step fails the
// remaining commands stay applied and are discarded with an
// ErrUndoFailed error.
func (h *History[D]) CancelGroup() error {
	if h.groupDepth == 0 {
		return ErrNoGroup
	}

	cmds := h.groupCmds
	h.groupDepth = 0
	h.groupName = ""
	h.groupCmds = nil

	for i := len(cmds) - 1; i >= 0; i-- {
		if !cmds[i].PerformUndo(h.doc) {
			h.logger.Warn("group rollback failed", slog.String("command", cmds[i].Name()))
			return fmt.Errorf("%w: %s", ErrUndoFailed, cmds[i].Name())
		}
		cmds[i].DecDocumentModificationCount(h.doc)
	}
	return nil
}

// IsGrouping returns true if a group is open.
func (h *History[D]) IsGrouping() bool {
	return h.groupDepth > 0
}

// Transaction runs fn inside a group named name. When fn returns an error
// the group is cancelled and its commands rolled back.
func (h *History[D]) Transaction(name string, fn func() error) error {
	h.BeginGroup(name)
	if err := fn(); err != nil {
		// An inner transaction may already have cancelled the group.
		if cerr := h.CancelGroup(); cerr != nil && !errors.Is(cerr, ErrNoGroup) {
			return errors.Join(err, cerr)
		}
		return err
	}
	return h.EndGroup()
}
