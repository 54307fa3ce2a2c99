// Package command defines the reversible unit of work that every document
// mutation is expressed as.
//
// A command has a static identity (a Type and a display name) and an
// execution State that only changes through PerformDo and PerformUndo:
//
//	Default --do ok--> Done --undo ok--> Default
//	Default --do fails--> Default
//	Done --undo fails--> Done
//
// Doing and Undoing are transient and only observable from inside the
// hooks; a command in either state rejects further calls.
//
// # Behaviour
//
// Concrete commands implement Behavior (Do and Undo) and may opt into more
// hooks by implementing Collator, Repeater or Delimiter. Undoable wraps a
// Behavior with the state machine, collation, repeat and the
// modification-count bookkeeping:
//
//	cmd := command.New(TypeInsert, "Typing", &insertText{...})
//	if cmd.PerformDo(doc) {
//	    cmd.IncDocumentModificationCount(doc)
//	}
//
// # Collation
//
// CollateWith merges a later command of the same Type into the receiver
// (for example a run of typed characters into one "Typing" step). The
// receiver absorbs the other's modification count so that undoing the
// merged step removes every edit it represents from the document ledger.
//
// # Repeat
//
// Repeat asks a command for a fresh instance bound to the current document.
// Commands without a Repeater report ErrNotRepeatable.
package command
