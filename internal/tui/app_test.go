package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/undocore/internal/config"
	"github.com/dshills/undocore/internal/engine"
)

func newTestApp(t *testing.T, content string) (*App, tcell.SimulationScreen, *engine.Engine) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(40, 6)
	t.Cleanup(s.Fini)

	e := engine.New(engine.WithContent(content))
	return New(s, e, WithName("test.txt")), s, e
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func ctrl(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModCtrl)
}

func shift(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModShift)
}

func typeString(a *App, text string) {
	for _, r := range text {
		a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func row(s tcell.SimulationScreen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " \x00")
}

func TestTypingAndUndo(t *testing.T) {
	a, _, e := newTestApp(t, "")

	typeString(a, "hi")
	a.HandleEvent(key(tcell.KeyEnter))
	typeString(a, "yo")
	assert.Equal(t, "hi\nyo", e.Text())

	a.HandleEvent(ctrl(tcell.KeyCtrlZ))
	assert.Equal(t, "hi\n", e.Text())

	a.HandleEvent(ctrl(tcell.KeyCtrlY))
	assert.Equal(t, "hi\nyo", e.Text())

	a.HandleEvent(key(tcell.KeyBackspace2))
	assert.Equal(t, "hi\ny", e.Text())
}

func TestCtrlAsModifiedRune(t *testing.T) {
	a, _, e := newTestApp(t, "")

	typeString(a, "abc")
	a.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModCtrl))
	assert.Equal(t, "", e.Text())
}

func TestShiftArrowsReplaceSelection(t *testing.T) {
	a, _, e := newTestApp(t, "hello")

	a.HandleEvent(shift(tcell.KeyRight))
	a.HandleEvent(shift(tcell.KeyRight))
	assert.Equal(t, "he", e.SelectedText())

	typeString(a, "X")
	assert.Equal(t, "Xllo", e.Text())
}

func TestArrowsCollapseSelection(t *testing.T) {
	a, _, e := newTestApp(t, "hello")

	a.HandleEvent(key(tcell.KeyEnd))
	assert.Equal(t, engine.ByteOffset(5), e.Caret())

	a.HandleEvent(shift(tcell.KeyLeft))
	a.HandleEvent(shift(tcell.KeyLeft))
	assert.Equal(t, "lo", e.SelectedText())
	assert.Equal(t, engine.ByteOffset(3), e.Head())

	a.HandleEvent(key(tcell.KeyLeft))
	assert.Equal(t, engine.ByteOffset(3), e.Caret())
	assert.Equal(t, "", e.SelectedText())

	a.HandleEvent(key(tcell.KeyHome))
	assert.Equal(t, engine.ByteOffset(0), e.Caret())
}

func TestVerticalMovement(t *testing.T) {
	a, _, e := newTestApp(t, "abcd\nxy\nlong line")

	a.HandleEvent(key(tcell.KeyEnd))
	a.HandleEvent(key(tcell.KeyDown))
	assert.Equal(t, engine.Point{Line: 1, Column: 2}, e.OffsetToPoint(e.Caret()))

	a.HandleEvent(key(tcell.KeyDown))
	a.HandleEvent(key(tcell.KeyDown))
	assert.Equal(t, e.Len(), e.Caret())

	a.HandleEvent(key(tcell.KeyUp))
	a.HandleEvent(key(tcell.KeyUp))
	a.HandleEvent(key(tcell.KeyUp))
	assert.Equal(t, engine.ByteOffset(0), e.Caret())
}

func TestSelectAllDuplicate(t *testing.T) {
	a, _, e := newTestApp(t, "ab")

	a.HandleEvent(ctrl(tcell.KeyCtrlA))
	a.HandleEvent(ctrl(tcell.KeyCtrlD))
	assert.Equal(t, "abab", e.Text())

	a.HandleEvent(ctrl(tcell.KeyCtrlZ))
	assert.Equal(t, "ab", e.Text())
}

func TestRepeat(t *testing.T) {
	a, _, e := newTestApp(t, "")

	typeString(a, "ab")
	a.HandleEvent(ctrl(tcell.KeyCtrlR))
	assert.Equal(t, "abab", e.Text())
	assert.Equal(t, "repeated 1", a.Status())
}

func TestFailuresShowInStatus(t *testing.T) {
	a, _, _ := newTestApp(t, "")

	a.HandleEvent(ctrl(tcell.KeyCtrlZ))
	assert.Contains(t, a.Status(), "undo:")

	a.HandleEvent(key(tcell.KeyBackspace2))
	assert.Contains(t, a.Status(), "backspace:")
}

func TestQuit(t *testing.T) {
	a, _, _ := newTestApp(t, "")
	assert.False(t, a.HandleEvent(ctrl(tcell.KeyCtrlQ)))
	assert.True(t, a.HandleEvent(key(tcell.KeyLeft)))
}

func TestConfigReload(t *testing.T) {
	a, s, e := newTestApp(t, "")

	cfg := config.Default()
	cfg.History.MaxEntries = 7
	cfg.Editor.TabWidth = 2
	require.NoError(t, a.PostConfig(cfg))

	for {
		ev := s.PollEvent()
		require.NotNil(t, ev)
		if _, ok := ev.(*tcell.EventInterrupt); ok {
			assert.True(t, a.HandleEvent(ev))
			break
		}
	}
	assert.Equal(t, 7, e.History().MaxEntries())
	assert.Equal(t, 2, e.TabWidth())
	assert.Equal(t, "config reloaded", a.Status())

	cfg.History.MaxEntries = -1
	a.HandleEvent(tcell.NewEventInterrupt(configReload{cfg: cfg}))
	assert.Contains(t, a.Status(), "config rejected")
	assert.Equal(t, 7, e.History().MaxEntries())
}

func TestDraw(t *testing.T) {
	a, s, _ := newTestApp(t, "ab\n\tcd")

	a.Draw()
	assert.Equal(t, "ab", row(s, 0))
	assert.Equal(t, "    cd", row(s, 1))

	status := row(s, 5)
	assert.Contains(t, status, "test.txt")
	assert.Contains(t, status, "1:1")
	assert.Contains(t, status, "mods:0")

	typeString(a, "x")
	a.Draw()
	assert.Equal(t, "xab", row(s, 0))
	status = row(s, 5)
	assert.Contains(t, status, "[+]")
	assert.Contains(t, status, "undo:Typing")
}

func TestDrawScrollsToCaret(t *testing.T) {
	a, s, e := newTestApp(t, "0\n1\n2\n3\n4\n5\n6\n7")

	require.NoError(t, e.MoveCaret(e.Len()))
	a.Draw()
	assert.Equal(t, 3, a.top)
	assert.Equal(t, "3", row(s, 0))
	assert.Equal(t, "7", row(s, 4))

	require.NoError(t, e.MoveCaret(0))
	a.Draw()
	assert.Equal(t, 0, a.top)
}

func TestRunStopsOnCancel(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	a := New(s, engine.New())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := a.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
