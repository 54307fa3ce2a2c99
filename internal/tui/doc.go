// Package tui is a minimal terminal front end for the editing engine.
//
// The App owns the engine: every key press and every configuration reload
// is handled on the goroutine running App.Run. Other goroutines hand work
// to it by posting events to the screen (see App.PostConfig).
package tui
