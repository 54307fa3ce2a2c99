// Package config loads undocore settings.
//
// Settings come from three layers, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. A TOML (.toml) or YAML (.yaml, .yml) file
//  3. UNDOCORE_* environment variables
//
// A missing file is not an error; the defaults and environment still
// apply. Unknown keys in a file are reported as a *ParseError.
//
// # Live Reload
//
// Watcher observes the configuration file with fsnotify and delivers a
// freshly loaded Config after changes settle:
//
//	w, err := config.NewWatcher(path, func(cfg config.Config) {
//		// hand cfg to the UI goroutine
//	}, config.WithReloadErrorHandler(func(err error) { ... }))
//	defer w.Close()
package config
