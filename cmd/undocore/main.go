// Package main is the entry point for undocore.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/undocore/internal/config"
	"github.com/dshills/undocore/internal/engine"
	"github.com/dshills/undocore/internal/engine/document"
	"github.com/dshills/undocore/internal/engine/history"
	"github.com/dshills/undocore/internal/event"
	"github.com/dshills/undocore/internal/script"
	"github.com/dshills/undocore/internal/tui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options are the parsed command line.
type options struct {
	configPath  string
	scriptPath  string
	logLevel    string
	logFile     string
	readOnly    bool
	showVersion bool
	file        string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if opts.showVersion {
		fmt.Printf("undocore %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.scriptPath != "" {
		return runScript(ctx, opts, os.Stdout, os.Stderr)
	}
	return runTUI(ctx, opts)
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("undocore", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml or .yaml)")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.scriptPath, "script", "", "Run a Lua script headless and print the result")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	fs.StringVar(&opts.logFile, "log-file", "", "Write logs to this file in interactive mode")
	fs.BoolVar(&opts.readOnly, "readonly", false, "Open the document read-only")
	fs.BoolVar(&opts.readOnly, "R", false, "Open the document read-only (shorthand)")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(output, "undocore - undo/redo editing core\n\n")
		fmt.Fprintf(output, "Usage: undocore [options] [file]\n\n")
		fmt.Fprintf(output, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nExamples:\n")
		fmt.Fprintf(output, "  undocore                        Edit an empty document\n")
		fmt.Fprintf(output, "  undocore notes.txt              Edit a copy of notes.txt\n")
		fmt.Fprintf(output, "  undocore -script edit.lua a.txt Run edit.lua against a.txt\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.file = fs.Arg(0)
	default:
		return opts, fmt.Errorf("expected at most one file, got %d", fs.NArg())
	}

	if opts.logLevel != "" {
		if _, err := (config.LoggingConfig{Level: opts.logLevel}).SlogLevel(); err != nil {
			return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.logLevel)
		}
	}
	return opts, nil
}

// session is the engine and its surroundings for one run.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	engine *engine.Engine
	bus    *event.Bus
}

// newSession loads configuration, builds the logger and opens the document.
func newSession(opts options, logOutput io.Writer) (*session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logger := newLogger(logOutput, level)

	bus := event.NewBus()
	if err := subscribeLogging(bus, logger); err != nil {
		return nil, err
	}

	engineOpts := []engine.Option{
		engine.WithTabWidth(cfg.Editor.TabWidth),
		engine.WithHistoryOptions(cfg.History.Options()...),
		engine.WithLogger(logger),
		engine.WithPublisher(bus),
	}
	if opts.readOnly {
		engineOpts = append(engineOpts, engine.WithReadOnly())
	}

	e, err := openDocument(opts.file, engineOpts)
	if err != nil {
		return nil, err
	}

	logger.Debug("session ready",
		slog.String("file", opts.file),
		slog.Int("max_entries", e.History().MaxEntries()),
		slog.String("config", opts.configPath))
	return &session{cfg: cfg, logger: logger, engine: e, bus: bus}, nil
}

// openDocument seeds the engine from path. A missing file starts empty.
func openDocument(path string, opts []engine.Option) (*engine.Engine, error) {
	if path == "" {
		return engine.New(opts...), nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return engine.New(opts...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	e, err := engine.NewFromReader(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return e, nil
}

// subscribeLogging logs history and document events at debug level.
func subscribeLogging(bus *event.Bus, logger *slog.Logger) error {
	if _, err := bus.Subscribe("history.*", event.AsHandler[history.HistoryChange](
		func(_ context.Context, ev event.Event[history.HistoryChange]) error {
			logger.Debug("history",
				slog.String("topic", ev.Type.String()),
				slog.String("command", ev.Payload.Name),
				slog.Int("modification_count", ev.Payload.ModificationCount),
				slog.Int("undo_depth", ev.Payload.UndoDepth),
				slog.Int("redo_depth", ev.Payload.RedoDepth))
			return nil
		})); err != nil {
		return fmt.Errorf("subscribing to history events: %w", err)
	}

	if _, err := bus.Subscribe(document.TopicModifiedChanged, event.AsHandler[document.ModifiedChange](
		func(_ context.Context, ev event.Event[document.ModifiedChange]) error {
			logger.Info("modified state changed",
				slog.Bool("modified", ev.Payload.Modified),
				slog.Int("modification_count", ev.Payload.ModificationCount))
			return nil
		})); err != nil {
		return fmt.Errorf("subscribing to document events: %w", err)
	}
	return nil
}

// runScript runs the script headless, then prints the text to stdout and
// the ledger to stderr.
func runScript(ctx context.Context, opts options, stdout, stderr io.Writer) int {
	s, err := newSession(opts, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer s.engine.Close()

	host := script.NewHost(s.engine, script.WithLogger(s.logger))
	defer host.Close()

	if err := host.RunFile(ctx, opts.scriptPath); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	e := s.engine
	fmt.Fprint(stdout, e.Text())
	fmt.Fprintf(stderr, "modified=%t modifications=%d undo=%d redo=%d\n",
		e.IsModified(), e.ModificationCount(), e.History().UndoCount(), e.History().RedoCount())
	return 0
}

// runTUI runs the interactive front end and the config watcher.
func runTUI(ctx context.Context, opts options) int {
	logOutput := io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: opening log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logOutput = f
	}

	s, err := newSession(opts, logOutput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer s.engine.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	name := "[scratch]"
	if opts.file != "" {
		name = filepath.Base(opts.file)
	}
	app := tui.New(screen, s.engine, tui.WithLogger(s.logger), tui.WithName(name))

	if opts.configPath != "" {
		watcher, err := config.NewWatcher(opts.configPath,
			func(cfg config.Config) {
				if err := app.PostConfig(cfg); err != nil {
					s.logger.Warn("dropping config reload", slog.String("error", err.Error()))
				}
			},
			config.WithReloadErrorHandler(func(err error) {
				s.logger.Warn("config reload failed", slog.String("error", err.Error()))
			}),
			config.WithWatcherLogger(s.logger),
		)
		if err != nil {
			s.logger.Warn("config watcher disabled", slog.String("error", err.Error()))
		} else {
			defer watcher.Close()
		}
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
