// Package edit contains the concrete text-editing commands.
//
// Built-in commands:
//   - Insert: insert text at an offset; runs of typing collate
//   - Delete: delete a range; backspace and forward-delete runs collate
//   - Replace: replace a range with new text
//   - Select: change the selection; a repeat delimiter
//   - Duplicate: duplicate the selection after itself
//
// Every command captures what it needs to undo itself during Do. Insert,
// Replace and Duplicate check that the text they wrote is still in place
// before undoing, and Delete checks that the document still has the length
// it left behind, so an undo against a document edited behind the history's
// back fails cleanly. Select only requires that its previous selection still
// fits: caret moves are not recorded, so the current selection may differ.
package edit
