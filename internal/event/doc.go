// Package event provides a small synchronous publish/subscribe bus used by
// the engine to announce history and document changes.
//
// # Topics
//
// Topics are hierarchical, dot-separated names such as "history.undone".
// Subscriptions may use wildcards:
//   - "*" matches exactly one segment ("history.*")
//   - "**" matches zero or more segments ("document.**")
//
// # Delivery
//
// Publish delivers to every matching subscription on the caller's
// goroutine, in subscription order. The editor core is single-threaded, so
// handlers observe the document in the state that produced the event.
// Handler errors are joined and returned to the publisher; a panicking
// handler is recovered and reported as ErrHandlerPanic.
//
//	bus := event.NewBus()
//	sub, _ := bus.SubscribeFunc("history.*", func(ctx context.Context, e any) error {
//	    change := e.(event.Event[history.HistoryChange])
//	    ...
//	    return nil
//	})
//	defer bus.Unsubscribe(sub)
package event
