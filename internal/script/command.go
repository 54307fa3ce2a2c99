package script

import (
	"errors"
	"fmt"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undocore/internal/engine/command"
	"github.com/dshills/undocore/internal/engine/document"
)

// TypeScript is the type of script commands without an explicit type name.
// Named types are interned after it in order of first use.
const TypeScript command.Type = command.TypeUser + 64

const defaultTypeName = "script"

// definition is a script command as declared by editor.execute.
type definition struct {
	name       string
	typeName   string
	run        *lua.LFunction
	revert     *lua.LFunction
	repeatable bool
	delimiter  bool
}

// parseDefinition reads a definition table.
func parseDefinition(tbl *lua.LTable) (definition, error) {
	def := definition{
		name:     "Script",
		typeName: defaultTypeName,
	}

	if v := tbl.RawGetString("name"); v != lua.LNil {
		s, ok := v.(lua.LString)
		if !ok || s == "" {
			return def, errors.New("name must be a non-empty string")
		}
		def.name = string(s)
	}
	if v := tbl.RawGetString("type"); v != lua.LNil {
		s, ok := v.(lua.LString)
		if !ok || s == "" {
			return def, errors.New("type must be a non-empty string")
		}
		def.typeName = string(s)
	}

	var ok bool
	if def.run, ok = tbl.RawGetString("run").(*lua.LFunction); !ok {
		return def, errors.New("run must be a function")
	}
	if def.revert, ok = tbl.RawGetString("revert").(*lua.LFunction); !ok {
		return def, errors.New("revert must be a function")
	}

	def.repeatable = lua.LVAsBool(tbl.RawGetString("repeatable"))
	def.delimiter = lua.LVAsBool(tbl.RawGetString("delimiter"))
	return def, nil
}

// typeOf interns a type name.
func (h *Host) typeOf(name string) command.Type {
	if t, ok := h.types[name]; ok {
		return t
	}
	t := TypeScript + command.Type(len(h.types))
	h.types[name] = t
	return t
}

// newCommand creates an undoable command backed by def.
func (h *Host) newCommand(def definition) *command.Undoable[*document.Document] {
	return command.New(h.typeOf(def.typeName), def.name, &scriptCommand{host: h, def: def})
}

// scriptCommand runs Lua callbacks as the do and undo hooks.
type scriptCommand struct {
	host *Host
	def  definition
}

// Do runs the run callback.
func (c *scriptCommand) Do(doc *document.Document) bool {
	return c.host.callback(c.def.name, c.def.run, doc)
}

// Undo runs the revert callback.
func (c *scriptCommand) Undo(doc *document.Document) bool {
	return c.host.callback(c.def.name, c.def.revert, doc)
}

// IsRepeatable reports the repeatable flag of the definition.
func (c *scriptCommand) IsRepeatable(*document.Document) bool {
	return c.def.repeatable && !c.host.closed
}

// Repeat creates a fresh command from the same definition.
func (c *scriptCommand) Repeat(*document.Document) (*command.Undoable[*document.Document], error) {
	if !c.IsRepeatable(nil) {
		return nil, command.ErrNotRepeatable
	}
	return c.host.newCommand(c.def), nil
}

// IsRepeatDelimiter reports the delimiter flag of the definition.
func (c *scriptCommand) IsRepeatDelimiter() bool {
	return c.def.delimiter
}

// callback calls fn with the doc table bound to doc. A callback that raises
// an error or returns false fails, and the document text and selection are
// put back as they were before the call.
func (h *Host) callback(name string, fn *lua.LFunction, doc *document.Document) bool {
	if h.closed || h.inCallback {
		return false
	}

	before := doc.Text()
	selBefore := doc.Selection()

	h.inCallback = true
	h.current = doc
	defer func() {
		h.inCallback = false
		h.current = nil
	}()

	err := h.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, h.docTable)
	ok := err == nil
	if ok {
		ret := h.L.Get(-1)
		h.L.Pop(1)
		ok = ret != lua.LFalse
		if !ok {
			err = errors.New("callback returned false")
		}
	}
	if ok {
		return true
	}

	h.logger.Debug("script command failed",
		slog.String("command", name),
		slog.String("error", err.Error()))
	if restoreErr := restore(doc, before, selBefore); restoreErr != nil {
		h.logger.Error("restoring document after script failure",
			slog.String("command", name),
			slog.String("error", restoreErr.Error()))
	}
	return false
}

// restore puts back text and selection.
func restore(doc *document.Document, text string, sel document.Range) error {
	if doc.Text() != text {
		if _, err := doc.Replace(0, doc.Len(), text); err != nil {
			return fmt.Errorf("restoring text: %w", err)
		}
	}
	if doc.Selection() != sel {
		if err := doc.SetSelection(sel); err != nil {
			return fmt.Errorf("restoring selection: %w", err)
		}
	}
	return nil
}

// newDocTable builds the table passed to command callbacks. Its functions
// mutate the document directly and are only valid during a callback.
func (h *Host) newDocTable() *lua.LTable {
	L := h.L
	tbl := L.NewTable()
	L.SetField(tbl, "insert", L.NewFunction(h.docInsert))
	L.SetField(tbl, "delete", L.NewFunction(h.docDelete))
	L.SetField(tbl, "text", L.NewFunction(h.docText))
	L.SetField(tbl, "len", L.NewFunction(h.docLen))
	L.SetField(tbl, "selection", L.NewFunction(h.docSelection))
	L.SetField(tbl, "set_selection", L.NewFunction(h.docSetSelection))
	return tbl
}

func (h *Host) checkDoc(L *lua.LState) *document.Document {
	if h.current == nil {
		L.RaiseError("doc is only available inside a command callback")
	}
	return h.current
}

// doc.insert(offset, text) -> end offset
func (h *Host) docInsert(L *lua.LState) int {
	doc := h.checkDoc(L)
	offset := L.CheckInt64(1)
	text := L.CheckString(2)
	end, err := doc.Insert(offset, text)
	if err != nil {
		L.RaiseError("insert: %v", err)
	}
	L.Push(lua.LNumber(end))
	return 1
}

// doc.delete(start, end)
func (h *Host) docDelete(L *lua.LState) int {
	doc := h.checkDoc(L)
	start := L.CheckInt64(1)
	end := L.CheckInt64(2)
	if err := doc.Delete(start, end); err != nil {
		L.RaiseError("delete: %v", err)
	}
	return 0
}

// doc.text([start, end])
func (h *Host) docText(L *lua.LState) int {
	doc := h.checkDoc(L)
	if L.GetTop() == 0 {
		L.Push(lua.LString(doc.Text()))
		return 1
	}
	start := L.CheckInt64(1)
	end := L.CheckInt64(2)
	L.Push(lua.LString(doc.TextRange(start, end)))
	return 1
}

func (h *Host) docLen(L *lua.LState) int {
	doc := h.checkDoc(L)
	L.Push(lua.LNumber(doc.Len()))
	return 1
}

// doc.selection() -> start, end
func (h *Host) docSelection(L *lua.LState) int {
	doc := h.checkDoc(L)
	sel := doc.Selection()
	L.Push(lua.LNumber(sel.Start))
	L.Push(lua.LNumber(sel.End))
	return 2
}

// doc.set_selection(start, end)
func (h *Host) docSetSelection(L *lua.LState) int {
	doc := h.checkDoc(L)
	start := L.CheckInt64(1)
	end := L.CheckInt64(2)
	if err := doc.SetSelection(document.NewRange(start, end)); err != nil {
		L.RaiseError("set_selection: %v", err)
	}
	return 0
}
