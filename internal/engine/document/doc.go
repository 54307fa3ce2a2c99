// Package document provides the in-memory text document that editing
// commands mutate.
//
// A Document holds UTF-8 text addressed by byte offsets, a selection, and
// the modification-count ledger used to decide whether there are unsaved
// changes. Commands adjust the ledger through IncModificationCount and
// DecModificationCount; the document is modified while the ledger is
// non-zero.
//
// Documents are not safe for concurrent use. They are owned by the
// goroutine that runs the editor.
package document
