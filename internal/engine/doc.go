// Package engine is the editing facade: one document, one undo history and
// the editor verbs that turn user intent into undoable commands.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - document: in-memory text, selection and modification ledger
//   - command: command state machine, collation and repeat protocol
//   - edit: the concrete text commands
//   - history: the command processor with its done and undone stacks
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("Hello"))
//
//	e.MoveCaret(5)
//	e.Type(", World") // typed runs collate into one undo step
//	e.IsModified()    // true
//
//	e.Undo() // "Hello"
//	e.Redo() // "Hello, World"
//
// # Repeat
//
// Repeat replays the commands since the last selection change against the
// current caret or selection:
//
//	e.SelectAll()
//	e.Type("x")
//	e.Repeat()
//
// # Groups
//
//	e.Transaction("Wrap", func() error {
//		if err := e.Insert(0, "("); err != nil {
//			return err
//		}
//		return e.Insert(e.Len(), ")")
//	})
//
// # Read-Only Mode
//
//	e := engine.New(engine.WithContent("fixed"), engine.WithReadOnly())
//	err := e.Type("x") // err == engine.ErrReadOnly
//
// # Threading
//
// An Engine is not safe for concurrent use. Drive it from one goroutine and
// marshal background results onto that goroutine.
package engine
