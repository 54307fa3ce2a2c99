package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undocore/internal/engine/document"
)

// newEditorModule builds the editor module table.
func (h *Host) newEditorModule() *lua.LTable {
	L := h.L
	mod := L.NewTable()

	// Editing
	L.SetField(mod, "type", L.NewFunction(h.editType))
	L.SetField(mod, "insert", L.NewFunction(h.editInsert))
	L.SetField(mod, "delete", L.NewFunction(h.editDelete))
	L.SetField(mod, "replace", L.NewFunction(h.editReplace))
	L.SetField(mod, "backspace", L.NewFunction(h.editBackspace))
	L.SetField(mod, "delete_forward", L.NewFunction(h.editDeleteForward))
	L.SetField(mod, "select", L.NewFunction(h.editSelect))
	L.SetField(mod, "select_all", L.NewFunction(h.editSelectAll))
	L.SetField(mod, "duplicate", L.NewFunction(h.editDuplicate))
	L.SetField(mod, "move", L.NewFunction(h.editMove))
	L.SetField(mod, "execute", L.NewFunction(h.editExecute))

	// History
	L.SetField(mod, "undo", L.NewFunction(h.editUndo))
	L.SetField(mod, "redo", L.NewFunction(h.editRedo))
	L.SetField(mod, "rep", L.NewFunction(h.editRepeat))
	L.SetField(mod, "begin_group", L.NewFunction(h.editBeginGroup))
	L.SetField(mod, "end_group", L.NewFunction(h.editEndGroup))
	L.SetField(mod, "cancel_group", L.NewFunction(h.editCancelGroup))
	L.SetField(mod, "can_undo", L.NewFunction(h.editCanUndo))
	L.SetField(mod, "can_redo", L.NewFunction(h.editCanRedo))
	L.SetField(mod, "undo_name", L.NewFunction(h.editUndoName))
	L.SetField(mod, "redo_name", L.NewFunction(h.editRedoName))

	// Queries
	L.SetField(mod, "text", L.NewFunction(h.editText))
	L.SetField(mod, "len", L.NewFunction(h.editLen))
	L.SetField(mod, "selection", L.NewFunction(h.editSelection))
	L.SetField(mod, "selected_text", L.NewFunction(h.editSelectedText))
	L.SetField(mod, "modified", L.NewFunction(h.editModified))
	L.SetField(mod, "count", L.NewFunction(h.editCount))

	return mod
}

// checkTopLevel raises a Lua error when called from a command callback.
func (h *Host) checkTopLevel(L *lua.LState) {
	if h.inCallback {
		L.RaiseError("%s", ErrNestedEdit.Error())
	}
}

// editor.type(text) -> ok, err
func (h *Host) editType(L *lua.LState) int {
	h.checkTopLevel(L)
	text := L.CheckString(1)
	return pushResult(L, h.engine.Type(text))
}

// editor.insert(offset, text) -> ok, err
func (h *Host) editInsert(L *lua.LState) int {
	h.checkTopLevel(L)
	offset := L.CheckInt64(1)
	text := L.CheckString(2)
	return pushResult(L, h.engine.Insert(offset, text))
}

// editor.delete(start, end) -> ok, err
func (h *Host) editDelete(L *lua.LState) int {
	h.checkTopLevel(L)
	start := L.CheckInt64(1)
	end := L.CheckInt64(2)
	return pushResult(L, h.engine.Delete(start, end))
}

// editor.replace(start, end, text) -> ok, err
func (h *Host) editReplace(L *lua.LState) int {
	h.checkTopLevel(L)
	start := L.CheckInt64(1)
	end := L.CheckInt64(2)
	text := L.CheckString(3)
	return pushResult(L, h.engine.Replace(start, end, text))
}

func (h *Host) editBackspace(L *lua.LState) int {
	h.checkTopLevel(L)
	return pushResult(L, h.engine.Backspace())
}

func (h *Host) editDeleteForward(L *lua.LState) int {
	h.checkTopLevel(L)
	return pushResult(L, h.engine.DeleteForward())
}

// editor.select(start, end) -> ok, err
func (h *Host) editSelect(L *lua.LState) int {
	h.checkTopLevel(L)
	start := L.CheckInt64(1)
	end := L.CheckInt64(2)
	return pushResult(L, h.engine.Select(document.NewRange(start, end)))
}

func (h *Host) editSelectAll(L *lua.LState) int {
	h.checkTopLevel(L)
	return pushResult(L, h.engine.SelectAll())
}

func (h *Host) editDuplicate(L *lua.LState) int {
	h.checkTopLevel(L)
	return pushResult(L, h.engine.Duplicate())
}

// editor.move(offset) moves the caret without recording history.
func (h *Host) editMove(L *lua.LState) int {
	h.checkTopLevel(L)
	offset := L.CheckInt64(1)
	return pushResult(L, h.engine.MoveCaret(offset))
}

// editor.execute{name=, type=, run=, revert=, repeatable=, delimiter=} -> ok, err
func (h *Host) editExecute(L *lua.LState) int {
	h.checkTopLevel(L)
	tbl := L.CheckTable(1)

	def, err := parseDefinition(tbl)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	return pushResult(L, h.engine.Execute(h.newCommand(def)))
}

func (h *Host) editUndo(L *lua.LState) int {
	h.checkTopLevel(L)
	return pushResult(L, h.engine.Undo())
}

func (h *Host) editRedo(L *lua.LState) int {
	h.checkTopLevel(L)
	return pushResult(L, h.engine.Redo())
}

// editor.rep() -> n, err
func (h *Host) editRepeat(L *lua.LState) int {
	h.checkTopLevel(L)
	n, err := h.engine.Repeat()
	L.Push(lua.LNumber(n))
	if err != nil {
		L.Push(lua.LString(err.Error()))
		return 2
	}
	return 1
}

// editor.begin_group([name])
func (h *Host) editBeginGroup(L *lua.LState) int {
	h.checkTopLevel(L)
	h.engine.BeginGroup(L.OptString(1, "Script"))
	return 0
}

func (h *Host) editEndGroup(L *lua.LState) int {
	h.checkTopLevel(L)
	return pushResult(L, h.engine.EndGroup())
}

func (h *Host) editCancelGroup(L *lua.LState) int {
	h.checkTopLevel(L)
	return pushResult(L, h.engine.CancelGroup())
}

func (h *Host) editCanUndo(L *lua.LState) int {
	L.Push(lua.LBool(h.engine.CanUndo()))
	return 1
}

func (h *Host) editCanRedo(L *lua.LState) int {
	L.Push(lua.LBool(h.engine.CanRedo()))
	return 1
}

func (h *Host) editUndoName(L *lua.LState) int {
	L.Push(lua.LString(h.engine.UndoName()))
	return 1
}

func (h *Host) editRedoName(L *lua.LState) int {
	L.Push(lua.LString(h.engine.RedoName()))
	return 1
}

func (h *Host) editText(L *lua.LState) int {
	L.Push(lua.LString(h.engine.Text()))
	return 1
}

func (h *Host) editLen(L *lua.LState) int {
	L.Push(lua.LNumber(h.engine.Len()))
	return 1
}

// editor.selection() -> start, end
func (h *Host) editSelection(L *lua.LState) int {
	sel := h.engine.Selection()
	L.Push(lua.LNumber(sel.Start))
	L.Push(lua.LNumber(sel.End))
	return 2
}

func (h *Host) editSelectedText(L *lua.LState) int {
	L.Push(lua.LString(h.engine.SelectedText()))
	return 1
}

func (h *Host) editModified(L *lua.LState) int {
	L.Push(lua.LBool(h.engine.IsModified()))
	return 1
}

// editor.count() -> modification count
func (h *Host) editCount(L *lua.LState) int {
	L.Push(lua.LNumber(h.engine.ModificationCount()))
	return 1
}
