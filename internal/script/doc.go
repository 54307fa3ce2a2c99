// Package script hosts Lua scripts that drive an editing engine.
//
// Scripts run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. Everything else goes through the global
// editor module. Offsets are 0-based byte offsets and ranges are
// half-open, exactly as in the engine.
//
//	editor.type("hello")
//	editor.select(0, 5)
//	editor.duplicate()
//	local ok, err = editor.undo()
//	local n = editor.rep()
//
// Editing functions return true on success, or false and a message when
// the edit had no effect. Invalid arguments raise Lua errors.
//
// # Script Commands
//
// editor.execute defines an undoable command implemented in Lua:
//
//	editor.execute{
//		name = "Bracket",
//		run = function(doc)
//			doc.insert(doc.len(), ")")
//			doc.insert(0, "(")
//		end,
//		revert = function(doc)
//			doc.delete(doc.len() - 1, doc.len())
//			doc.delete(0, 1)
//		end,
//	}
//
// Callbacks receive a doc table with raw insert, delete, text, len,
// selection and set_selection functions. Returning false, or raising an
// error, means the callback failed; any partial change is then reverted.
// The editor module cannot be used from inside a callback.
package script
