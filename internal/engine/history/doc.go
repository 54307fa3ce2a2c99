// Package history is the command processor: it executes undoable commands
// against one document and keeps the done and undone stacks.
//
// # Stacks
//
// Execute runs a command and pushes it onto the done stack, first offering
// it to the current top for collation. A collated command is absorbed and
// discarded. Any successful Execute clears the undone stack.
//
//	h := history.New(doc, history.WithMaxEntries(500))
//	if err := h.Execute(edit.NewInsert(0, "hi")); err != nil {
//		// errors.Is(err, history.ErrNoEffect)
//	}
//	h.Undo()
//	h.Redo()
//
// # Modification Ledger
//
// Every successful execute or redo adds the command's modification count to
// the document ledger and every successful undo removes it, so the ledger
// always equals the number of applied edits on the done stack.
//
// # Repeat
//
// Repeat replays the run of done commands above the most recent repeat
// delimiter, oldest first, as fresh commands bound to the current document.
//
// # Groups
//
// Commands executed between BeginGroup and EndGroup become one undo step:
//
//	h.BeginGroup("Indent")
//	// ... several Execute calls ...
//	h.EndGroup()
//
// Transaction wraps the same pattern and rolls back when the callback
// fails.
//
// A History is not safe for concurrent use. It must be driven from the
// goroutine that owns its document.
package history
