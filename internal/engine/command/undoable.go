package command

import "github.com/google/uuid"

// Ledger is the modification-count ledger of the document a command
// mutates. The document is dirty while its ledger is non-zero.
type Ledger interface {
	IncModificationCount(n int)
	DecModificationCount(n int)
}

// Behavior is the concrete logic of an undoable command.
// Undo is only called after a successful Do and must restore the document
// exactly; returning false means nothing was changed.
type Behavior[D any] interface {
	Doer[D]
	Undo(doc D) bool
}

// Collator is implemented by behaviours that can absorb a later command of
// the same Type. other is always the behaviour of a different command.
type Collator[D any] interface {
	CollateWith(other Behavior[D]) bool
}

// Repeater is implemented by behaviours that can replay their operation
// against the current state of a document.
type Repeater[D Ledger] interface {
	// IsRepeatable reports whether the operation makes sense for doc as it
	// is now, not as it was when the command originally ran.
	IsRepeatable(doc D) bool

	// Repeat returns a new command in StateDefault bound to doc.
	Repeat(doc D) (*Undoable[D], error)
}

// Delimiter is implemented by behaviours that stop the backward scan of a
// repeat. Commands without it are not delimiters.
type Delimiter interface {
	IsRepeatDelimiter() bool
}

// weighted is implemented by behaviours whose modification count is the
// sum of the commands they contain.
type weighted interface {
	modificationCount() int
}

// Undoable is a command that can be undone, collated and repeated.
type Undoable[D Ledger] struct {
	Command[D]

	id                uuid.UUID
	behavior          Behavior[D]
	modificationCount int
}

// New creates an undoable command in StateDefault with a modification
// count of 1.
func New[D Ledger](typ Type, name string, b Behavior[D]) *Undoable[D] {
	return &Undoable[D]{
		Command: Command[D]{
			typ:  typ,
			name: name,
			doer: b,
		},
		id:                uuid.New(),
		behavior:          b,
		modificationCount: 1,
	}
}

// ID returns the unique identifier of this command instance.
func (u *Undoable[D]) ID() uuid.UUID {
	return u.id
}

// Behavior returns the concrete logic of the command.
func (u *Undoable[D]) Behavior() Behavior[D] {
	return u.behavior
}

// ModificationCount returns the number of atomic document modifications
// this command represents. It is at least 1.
func (u *Undoable[D]) ModificationCount() int {
	if w, ok := u.behavior.(weighted); ok {
		return max(1, w.modificationCount())
	}
	return u.modificationCount
}

// PerformUndo reverts the command.
// Only a command in StateDone can be undone; otherwise false is returned and
// the state is left alone. When the undo hook fails the command stays Done.
func (u *Undoable[D]) PerformUndo(doc D) bool {
	if u.state != StateDone {
		return false
	}

	u.state = StateUndoing
	if u.behavior.Undo(doc) {
		u.state = StateDefault
		return true
	}
	u.state = StateDone
	return false
}

// IsRepeatDelimiter reports whether a repeat must stop scanning at this
// command.
func (u *Undoable[D]) IsRepeatDelimiter() bool {
	if d, ok := u.behavior.(Delimiter); ok {
		return d.IsRepeatDelimiter()
	}
	return false
}

// IsRepeatable reports whether the command can be repeated against doc in
// its current state.
func (u *Undoable[D]) IsRepeatable(doc D) bool {
	if r, ok := u.behavior.(Repeater[D]); ok {
		return r.IsRepeatable(doc)
	}
	return false
}

// Repeat returns a new command that replays this command's operation on
// doc. It returns ErrNotRepeatable when the behaviour has no repeat logic.
func (u *Undoable[D]) Repeat(doc D) (*Undoable[D], error) {
	r, ok := u.behavior.(Repeater[D])
	if !ok {
		return nil, ErrNotRepeatable
	}

	next, err := r.Repeat(doc)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, ErrNotRepeatable
	}
	return next, nil
}

// CollateWith tries to merge other into u.
// Collating a command with itself is a usage error. Commands of a different
// Type never collate. On success u absorbs other's modification count and
// other must be discarded by the caller.
func (u *Undoable[D]) CollateWith(other *Undoable[D]) (bool, error) {
	if other == u {
		return false, ErrCollateSelf
	}
	if other == nil || other.typ != u.typ {
		return false, nil
	}

	c, ok := u.behavior.(Collator[D])
	if !ok || !c.CollateWith(other.behavior) {
		return false, nil
	}

	u.modificationCount += other.ModificationCount()
	return true, nil
}

// IncDocumentModificationCount adds this command's weight to doc's ledger.
func (u *Undoable[D]) IncDocumentModificationCount(doc D) {
	doc.IncModificationCount(u.ModificationCount())
}

// DecDocumentModificationCount removes this command's weight from doc's
// ledger.
func (u *Undoable[D]) DecDocumentModificationCount(doc D) {
	doc.DecModificationCount(u.ModificationCount())
}
