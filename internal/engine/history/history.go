package history

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/undocore/internal/engine/command"
)

// entry wraps a command on one of the stacks.
type entry[D command.Ledger] struct {
	cmd *command.Undoable[D]

	// timestamp is when the entry was pushed or last absorbed a command.
	timestamp time.Time

	// sealed entries no longer accept collation.
	sealed bool

	// replay marks entries pushed by Repeat. They never join a repeat window.
	replay bool
}

// History executes commands against a document and records them for
// undo, redo and repeat.
type History[D command.Ledger] struct {
	doc D

	done   []*entry[D]
	undone []*entry[D]

	// Grouping state
	groupDepth int
	groupName  string
	groupCmds  []*command.Undoable[D]

	// replaying is set while Repeat pushes its replays.
	replaying bool

	settings
}

// New creates a history bound to doc.
func New[D command.Ledger](doc D, opts ...Option) *History[D] {
	h := &History[D]{
		doc: doc,
		settings: settings{
			maxEntries: DefaultMaxEntries,
			clock:      time.Now,
			logger:     slog.New(slog.DiscardHandler),
		},
	}
	h.Configure(opts...)
	return h
}

// Configure applies options to a live history. Shrinking the limit evicts
// the oldest done entries immediately.
func (h *History[D]) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(&h.settings)
	}
	h.trim()
}

// Document returns the document the history operates on.
func (h *History[D]) Document() D {
	return h.doc
}

// Execute runs cmd and records it.
// On success the ledger grows by the command's count, the undone stack is
// cleared and cmd is either collated into the top entry or pushed.
// ErrNoEffect is returned when the command's do logic fails; nothing is
// recorded in that case.
func (h *History[D]) Execute(cmd *command.Undoable[D]) error {
	if cmd == nil {
		return ErrNilCommand
	}
	if cmd.State() != command.StateDefault {
		return fmt.Errorf("%w: %s is %s", ErrInvalidState, cmd.Name(), cmd.State())
	}
	if !cmd.PerformDo(h.doc) {
		h.logger.Debug("command had no effect", slog.String("command", cmd.Name()))
		return fmt.Errorf("%w: %s", ErrNoEffect, cmd.Name())
	}

	cmd.IncDocumentModificationCount(h.doc)
	h.undone = nil

	if h.push(cmd) {
		h.logger.Debug("command collated", slog.String("command", cmd.Name()))
		h.publishCommand(TopicCollated, cmd)
		return nil
	}
	h.logger.Debug("command executed",
		slog.String("command", cmd.Name()),
		slog.Int("depth", len(h.done)))
	h.publishCommand(TopicExecuted, cmd)
	return nil
}

// push records a done command, returning true if it was absorbed by
// collation.
func (h *History[D]) push(cmd *command.Undoable[D]) bool {
	if h.groupDepth > 0 {
		if n := len(h.groupCmds); n > 0 {
			if ok, _ := h.groupCmds[n-1].CollateWith(cmd); ok {
				return true
			}
		}
		h.groupCmds = append(h.groupCmds, cmd)
		return false
	}

	now := h.clock()
	if top := h.top(); top != nil && h.collatable(top, now) {
		if ok, _ := top.cmd.CollateWith(cmd); ok {
			top.timestamp = now
			return true
		}
	}

	h.done = append(h.done, &entry[D]{cmd: cmd, timestamp: now, replay: h.replaying})
	h.trim()
	return false
}

func (h *History[D]) collatable(top *entry[D], now time.Time) bool {
	if top.sealed {
		return false
	}
	return h.window == 0 || now.Sub(top.timestamp) <= h.window
}

func (h *History[D]) top() *entry[D] {
	if len(h.done) == 0 {
		return nil
	}
	return h.done[len(h.done)-1]
}

// trim evicts the oldest done entries beyond the limit. Their counts stay
// on the ledger: the document remains modified.
func (h *History[D]) trim() {
	if excess := len(h.done) - h.maxEntries; excess > 0 {
		h.logger.Debug("evicting history entries", slog.Int("count", excess))
		clear(h.done[:excess])
		h.done = h.done[excess:]
	}
}

// Undo reverts the most recent done command.
// Returns ErrNothingToUndo when the done stack is empty and ErrUndoFailed
// when the command's undo logic fails; the failed command is then handled
// according to the failure policy.
func (h *History[D]) Undo() error {
	if h.groupDepth > 0 {
		return ErrGroupActive
	}
	if len(h.done) == 0 {
		return ErrNothingToUndo
	}

	e := h.done[len(h.done)-1]
	h.done[len(h.done)-1] = nil
	h.done = h.done[:len(h.done)-1]

	if !e.cmd.PerformUndo(h.doc) {
		h.logger.Warn("undo failed",
			slog.String("command", e.cmd.Name()),
			slog.String("policy", h.policy.String()))
		if h.policy == PolicyRestore {
			e.sealed = true
			h.done = append(h.done, e)
		}
		return fmt.Errorf("%w: %s", ErrUndoFailed, e.cmd.Name())
	}

	e.cmd.DecDocumentModificationCount(h.doc)
	h.undone = append(h.undone, e)
	if top := h.top(); top != nil {
		top.sealed = true
	}

	h.logger.Debug("command undone", slog.String("command", e.cmd.Name()))
	h.publishCommand(TopicUndone, e.cmd)
	return nil
}

// Redo re-applies the most recently undone command.
// Returns ErrNothingToRedo when the undone stack is empty and ErrRedoFailed
// when the command's do logic fails; the failed command is then handled
// according to the failure policy.
func (h *History[D]) Redo() error {
	if h.groupDepth > 0 {
		return ErrGroupActive
	}
	if len(h.undone) == 0 {
		return ErrNothingToRedo
	}

	e := h.undone[len(h.undone)-1]
	h.undone[len(h.undone)-1] = nil
	h.undone = h.undone[:len(h.undone)-1]

	if !e.cmd.PerformDo(h.doc) {
		h.logger.Warn("redo failed",
			slog.String("command", e.cmd.Name()),
			slog.String("policy", h.policy.String()))
		if h.policy == PolicyRestore {
			h.undone = append(h.undone, e)
		}
		return fmt.Errorf("%w: %s", ErrRedoFailed, e.cmd.Name())
	}

	e.cmd.IncDocumentModificationCount(h.doc)
	e.sealed = true
	h.done = append(h.done, e)
	h.trim()

	h.logger.Debug("command redone", slog.String("command", e.cmd.Name()))
	h.publishCommand(TopicRedone, e.cmd)
	return nil
}

// Repeat replays the done commands above the most recent repeat delimiter,
// oldest first, against the current document. Commands that are not
// repeatable now are skipped, as are replays that have no effect.
// Entries pushed by earlier repeats are not part of the window: repeating
// twice replays the same commands twice, and replays never merge into the
// entries they copy.
// It returns the number of commands replayed.
func (h *History[D]) Repeat() (int, error) {
	if h.groupDepth > 0 {
		return 0, ErrGroupActive
	}

	start, end := h.repeatWindow()
	if start == end {
		return 0, ErrNothingToRepeat
	}

	// Snapshot the window; replays push onto the same stack.
	window := make([]*command.Undoable[D], 0, end-start)
	for _, e := range h.done[start:end] {
		window = append(window, e.cmd)
	}

	// Replays must not merge into the commands they copy.
	if top := h.top(); top != nil {
		top.sealed = true
	}
	h.replaying = true
	defer func() {
		h.replaying = false
		if top := h.top(); top != nil && top.replay {
			top.sealed = true
		}
	}()

	replayed := 0
	for _, cmd := range window {
		if !cmd.IsRepeatable(h.doc) {
			continue
		}
		next, err := cmd.Repeat(h.doc)
		if err != nil {
			return replayed, fmt.Errorf("repeat %s: %w", cmd.Name(), err)
		}
		if err := h.Execute(next); err != nil {
			if errors.Is(err, ErrNoEffect) {
				continue
			}
			return replayed, err
		}
		replayed++
	}

	h.logger.Debug("commands repeated", slog.Int("count", replayed))
	h.publish(TopicRepeated, HistoryChange{ModificationCount: replayed})
	return replayed, nil
}

// repeatWindow returns the done stack bounds of the commands Repeat
// replays: the run of recorded commands below any replays on top, cut at
// the nearest delimiter or earlier replay.
func (h *History[D]) repeatWindow() (start, end int) {
	end = len(h.done)
	for end > 0 && h.done[end-1].replay {
		end--
	}
	start = end
	for start > 0 {
		e := h.done[start-1]
		if e.replay || e.cmd.IsRepeatDelimiter() {
			break
		}
		start--
	}
	return start, end
}

// CanUndo returns true if undo is available.
func (h *History[D]) CanUndo() bool {
	return len(h.done) > 0
}

// CanRedo returns true if redo is available.
func (h *History[D]) CanRedo() bool {
	return len(h.undone) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History[D]) UndoCount() int {
	return len(h.done)
}

// RedoCount returns the number of redo operations available.
func (h *History[D]) RedoCount() int {
	return len(h.undone)
}

// MaxEntries returns the done stack limit.
func (h *History[D]) MaxEntries() int {
	return h.maxEntries
}

// SetMaxEntries changes the done stack limit.
// If the current stack is larger, oldest entries are removed.
func (h *History[D]) SetMaxEntries(n int) {
	h.Configure(WithMaxEntries(n))
}

// Clear discards both stacks and any open group. The document and its
// ledger are left as they are.
func (h *History[D]) Clear() {
	h.done = nil
	h.undone = nil
	h.groupDepth = 0
	h.groupName = ""
	h.groupCmds = nil

	h.logger.Debug("history cleared")
	h.publish(TopicCleared, HistoryChange{})
}
