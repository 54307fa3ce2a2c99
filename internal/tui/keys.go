package tui

import (
	"errors"
	"log/slog"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/undocore/internal/engine"
)

// handleKey dispatches a key press. It returns false on quit.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	e := a.engine
	a.status = ""

	key, mod := ev.Key(), ev.Modifiers()
	if key == tcell.KeyRune && mod&tcell.ModCtrl != 0 {
		// Some terminals report Ctrl+letter as a modified rune.
		if r := unicode.ToLower(ev.Rune()); r >= 'a' && r <= 'z' {
			key = tcell.KeyCtrlA + tcell.Key(r-'a')
		}
	}

	switch {
	case key == tcell.KeyCtrlQ:
		return false
	case key == tcell.KeyCtrlZ:
		a.report("undo", e.Undo())
	case key == tcell.KeyCtrlY:
		a.report("redo", e.Redo())
	case key == tcell.KeyCtrlR:
		n, err := e.Repeat()
		if a.report("repeat", err) {
			a.setStatus("repeated %d", n)
		}
	case key == tcell.KeyCtrlA:
		a.report("select all", e.SelectAll())
	case key == tcell.KeyCtrlD:
		a.report("duplicate", e.Duplicate())

	case key == tcell.KeyEnter:
		a.report("type", e.Type("\n"))
	case key == tcell.KeyTab:
		a.report("type", e.Type("\t"))
	case key == tcell.KeyBackspace || key == tcell.KeyBackspace2:
		a.report("backspace", e.Backspace())
	case key == tcell.KeyDelete:
		a.report("delete", e.DeleteForward())

	case key == tcell.KeyLeft, key == tcell.KeyRight, key == tcell.KeyUp,
		key == tcell.KeyDown, key == tcell.KeyHome, key == tcell.KeyEnd:
		a.move(key, mod&tcell.ModShift != 0)

	case key == tcell.KeyRune:
		if mod&(tcell.ModCtrl|tcell.ModAlt) != 0 {
			return true
		}
		a.report("type", e.Type(string(ev.Rune())))
	}
	return true
}

// move moves the caret, or the selection head when extend is set.
func (a *App) move(key tcell.Key, extend bool) {
	e := a.engine
	head := e.Head()
	if !extend && e.Selection().Len() > 0 {
		// Collapse towards the arrow.
		sel := e.Selection()
		switch key {
		case tcell.KeyLeft:
			a.report("move", e.MoveCaret(sel.Start))
			return
		case tcell.KeyRight:
			a.report("move", e.MoveCaret(sel.End))
			return
		case tcell.KeyUp:
			head = sel.Start
		case tcell.KeyDown:
			head = sel.End
		}
	}

	p := e.OffsetToPoint(head)
	var target engine.ByteOffset
	switch key {
	case tcell.KeyLeft:
		target = e.Document().PrevRuneOffset(head)
	case tcell.KeyRight:
		target = e.Document().NextRuneOffset(head)
	case tcell.KeyUp:
		if p.Line == 0 {
			target = 0
		} else {
			target = e.PointToOffset(engine.Point{Line: p.Line - 1, Column: p.Column})
		}
	case tcell.KeyDown:
		if p.Line >= e.LineCount()-1 {
			target = e.Len()
		} else {
			target = e.PointToOffset(engine.Point{Line: p.Line + 1, Column: p.Column})
		}
	case tcell.KeyHome:
		target = e.PointToOffset(engine.Point{Line: p.Line})
	case tcell.KeyEnd:
		target = e.PointToOffset(engine.Point{Line: p.Line, Column: len(e.LineText(p.Line))})
	}

	if extend {
		a.report("select", e.ExtendSelection(target))
		return
	}
	a.report("move", e.MoveCaret(target))
}

// report shows err in the status line and reports whether it was nil.
func (a *App) report(action string, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, engine.ErrAtBoundary) || errors.Is(err, engine.ErrNothingToUndo) ||
		errors.Is(err, engine.ErrNothingToRedo) {
		_ = a.screen.Beep() // best-effort; terminal may not support beep
	} else {
		a.logger.Debug("edit failed", slog.String("action", action), slog.String("error", err.Error()))
	}
	a.setStatus("%s: %v", action, err)
	return false
}
