package command

import "fmt"

// Type distinguishes command kinds. Collation only happens between commands
// of identical Type. Each concrete command kind is assigned one Type.
type Type int

const (
	// TypeGroup is the type of commands produced by grouping.
	TypeGroup Type = iota + 1

	// TypeUser is the first Type available to concrete command packages.
	TypeUser Type = 16
)

// String returns a debug representation of the type.
func (t Type) String() string {
	if t == TypeGroup {
		return "group"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// State is the execution phase of a command.
type State int

const (
	// StateDefault means the command is ready to be done.
	StateDefault State = iota
	// StateDoing means the do hook is running.
	StateDoing
	// StateDone means the command has been applied.
	StateDone
	// StateUndoing means the undo hook is running.
	StateUndoing
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDefault:
		return "default"
	case StateDoing:
		return "doing"
	case StateDone:
		return "done"
	case StateUndoing:
		return "undoing"
	default:
		return "unknown"
	}
}

// Doer is the do hook of a command.
// Do returns false when the command could not be applied; it must not leave
// any partial effect on the document in that case.
type Doer[D any] interface {
	Do(doc D) bool
}

// Command is a unit of work with a static identity and an execution state.
type Command[D any] struct {
	typ   Type
	name  string
	state State
	doer  Doer[D]
}

// Type returns the command kind.
func (c *Command[D]) Type() Type {
	return c.typ
}

// Name returns the display name used in history listings and menus.
func (c *Command[D]) Name() string {
	return c.name
}

// State returns the current execution phase.
func (c *Command[D]) State() State {
	return c.state
}

// PerformDo applies the command to doc.
// Only a command in StateDefault can be done; any other state (including a
// re-entrant call from inside a hook) is rejected and returns false.
func (c *Command[D]) PerformDo(doc D) bool {
	if c.state != StateDefault {
		return false
	}

	c.state = StateDoing
	if c.doer.Do(doc) {
		c.state = StateDone
		return true
	}
	c.state = StateDefault
	return false
}
