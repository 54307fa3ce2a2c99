package script

import (
	"context"
	"fmt"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undocore/internal/engine"
	"github.com/dshills/undocore/internal/engine/command"
	"github.com/dshills/undocore/internal/engine/document"
)

// ModuleName is the global name of the editor module.
const ModuleName = "editor"

// Host runs Lua scripts against an engine.
// A Host is not safe for concurrent use; like the engine it belongs to the
// goroutine that owns the document.
type Host struct {
	L      *lua.LState
	engine *engine.Engine
	logger *slog.Logger

	// docTable is handed to command callbacks.
	docTable *lua.LTable

	// types interns script command type names.
	types map[string]command.Type

	// current is the document of the running callback.
	current    *document.Document
	inCallback bool
	closed     bool
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHost creates a sandboxed Lua state bound to e.
func NewHost(e *engine.Engine, opts ...Option) *Host {
	h := &Host{
		engine: e,
		logger: slog.New(slog.DiscardHandler),
		types:  map[string]command.Type{defaultTypeName: TypeScript},
	}
	for _, opt := range opts {
		opt(h)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	openSafeLibraries(L)
	h.L = L

	h.docTable = h.newDocTable()
	L.SetGlobal(ModuleName, h.newEditorModule())
	return h
}

// openSafeLibraries opens only the Lua libraries without host access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Base brings loaders that reach the file system.
	for _, name := range []string{"dofile", "loadfile"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Run executes code. Cancelling ctx interrupts the script.
func (h *Host) Run(ctx context.Context, code string) error {
	return h.run(ctx, "<string>", func() error {
		return h.L.DoString(code)
	})
}

// RunFile executes the Lua file at path.
func (h *Host) RunFile(ctx context.Context, path string) error {
	return h.run(ctx, path, func() error {
		return h.L.DoFile(path)
	})
}

func (h *Host) run(ctx context.Context, source string, fn func() error) (err error) {
	if h.closed {
		return ErrHostClosed
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("script %s: %w", source, err)
	}

	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script %s: lua panic: %v", source, r)
		}
	}()

	h.logger.Debug("running script", slog.String("source", source))
	if err := fn(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("script %s interrupted: %w", source, ctxErr)
		}
		return fmt.Errorf("script %s: %w", source, err)
	}
	return nil
}

// Engine returns the engine the host drives.
func (h *Host) Engine() *engine.Engine {
	return h.engine
}

// Close releases the Lua state. Script commands left in the history can no
// longer be undone or redone afterwards.
func (h *Host) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	h.L.Close()
	return nil
}

// pushResult pushes true, or false and the error message.
func pushResult(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}
