package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/undocore/internal/config"
	"github.com/dshills/undocore/internal/engine"
)

// ErrStopped is returned by PostConfig when the event queue rejects the
// event, usually because the screen has been finalized.
var ErrStopped = errors.New("tui stopped")

// App is the terminal front end.
type App struct {
	screen tcell.Screen
	engine *engine.Engine
	logger *slog.Logger
	name   string

	// top is the first visible line.
	top    int
	status string
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithName sets the document name shown in the status line.
func WithName(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

// New creates an App drawing e on screen. The screen is initialized by Run.
func New(screen tcell.Screen, e *engine.Engine, opts ...Option) *App {
	a := &App{
		screen: screen,
		engine: e,
		logger: slog.New(slog.DiscardHandler),
		name:   "[scratch]",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// configReload carries a reloaded configuration to the UI goroutine.
type configReload struct {
	cfg config.Config
}

// stop asks the event loop to return.
type stop struct{}

// PostConfig schedules cfg to be applied on the UI goroutine.
// It is safe to call from any goroutine.
func (a *App) PostConfig(cfg config.Config) error {
	if err := a.screen.PostEvent(tcell.NewEventInterrupt(configReload{cfg: cfg})); err != nil {
		return fmt.Errorf("%w: %w", ErrStopped, err)
	}
	return nil
}

// Run initializes the screen and processes events until the user quits or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer a.screen.Fini()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(stop{})) // best-effort; loop may be gone
		case <-done:
		}
	}()

	a.logger.Info("tui started")
	for {
		a.Draw()
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !a.HandleEvent(ev) {
			a.logger.Info("tui stopped")
			return ctx.Err()
		}
	}
}

// HandleEvent processes one event and reports whether the loop should
// continue.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)

	case *tcell.EventResize:
		a.screen.Sync()

	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case stop:
			return false
		case configReload:
			a.applyConfig(data.cfg)
		}
	}
	return true
}

// applyConfig applies a reloaded configuration to the engine.
func (a *App) applyConfig(cfg config.Config) {
	if err := a.engine.ApplyConfig(cfg.History); err != nil {
		a.logger.Warn("config reload rejected", slog.String("error", err.Error()))
		a.setStatus("config rejected: %v", err)
		return
	}
	a.engine.SetTabWidth(cfg.Editor.TabWidth)
	a.logger.Info("config reloaded")
	a.setStatus("config reloaded")
}

// Status returns the last status message.
func (a *App) Status() string {
	return a.status
}

func (a *App) setStatus(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
}
