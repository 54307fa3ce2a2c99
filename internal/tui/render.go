package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/undocore/internal/engine"
)

var (
	styleText      = tcell.StyleDefault
	styleSelection = tcell.StyleDefault.Reverse(true)
	styleStatus    = tcell.StyleDefault.Reverse(true).Bold(true)
)

// Draw renders the document and the status line.
func (a *App) Draw() {
	a.screen.Clear()
	width, height := a.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}
	rows := height - 1

	head := a.engine.Head()
	cursor := a.engine.OffsetToPoint(head)
	a.scrollTo(cursor.Line, rows)

	cursorX, cursorY := -1, -1
	for y := 0; y < rows; y++ {
		line := a.top + y
		if line >= a.engine.LineCount() {
			break
		}
		x := a.drawLine(line, y, width, head)
		if line == cursor.Line {
			cursorX, cursorY = x, y
		}
	}

	a.drawStatus(rows, width)

	if cursorX >= 0 && cursorX < width {
		a.screen.ShowCursor(cursorX, cursorY)
	} else {
		a.screen.HideCursor()
	}
	a.screen.Show()
}

// scrollTo adjusts the viewport so line is visible.
func (a *App) scrollTo(line, rows int) {
	if rows <= 0 {
		return
	}
	if line < a.top {
		a.top = line
	}
	if line >= a.top+rows {
		a.top = line - rows + 1
	}
}

// drawLine draws one document line at row y and returns the screen column
// of head if it lies on this line.
func (a *App) drawLine(line, y, width int, head engine.ByteOffset) int {
	text := a.engine.LineText(line)
	start := a.engine.PointToOffset(engine.Point{Line: line})
	sel := a.engine.Selection()
	tab := a.engine.TabWidth()

	x, headX := 0, -1
	for i, r := range text {
		offset := start + engine.ByteOffset(i)
		if offset == head {
			headX = x
		}

		style := styleText
		if sel.Contains(offset) {
			style = styleSelection
		}

		if r == '\t' {
			next := (x/tab + 1) * tab
			for ; x < next; x++ {
				if x < width {
					a.screen.SetContent(x, y, ' ', nil, style)
				}
			}
			continue
		}

		w := max(uniseg.StringWidth(string(r)), 1)
		if x+w <= width {
			a.screen.SetContent(x, y, r, nil, style)
		}
		x += w
	}
	if headX < 0 {
		headX = x
	}
	return headX
}

// drawStatus draws the status line at row y.
func (a *App) drawStatus(y, width int) {
	e := a.engine
	modified := ""
	if e.IsModified() {
		modified = " [+]"
	}
	p := e.OffsetToPoint(e.Head())

	left := fmt.Sprintf(" %s%s  %d:%d  mods:%d", a.name, modified, p.Line+1, p.Column+1, e.ModificationCount())
	if name := e.UndoName(); name != "" {
		left += "  undo:" + name
	}
	if name := e.RedoName(); name != "" {
		left += "  redo:" + name
	}
	if a.status != "" {
		left += "  | " + a.status
	}

	x := 0
	for _, r := range left {
		if x >= width {
			break
		}
		a.screen.SetContent(x, y, r, nil, styleStatus)
		x += max(uniseg.StringWidth(string(r)), 1)
	}
	for ; x < width; x++ {
		a.screen.SetContent(x, y, ' ', nil, styleStatus)
	}
}
