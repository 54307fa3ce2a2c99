package history

import (
	"context"
	"log/slog"

	"github.com/dshills/undocore/internal/engine/command"
	"github.com/dshills/undocore/internal/event"
)

// Event topics published by a History.
const (
	TopicExecuted event.Topic = "history.executed"
	TopicCollated event.Topic = "history.collated"
	TopicUndone   event.Topic = "history.undone"
	TopicRedone   event.Topic = "history.redone"
	TopicRepeated event.Topic = "history.repeated"
	TopicCleared  event.Topic = "history.cleared"
)

// HistoryChange is the payload of every history topic.
type HistoryChange struct {
	// Name and Type identify the command involved. They are empty for
	// TopicCleared.
	Name string
	Type command.Type

	// ModificationCount is the command's count after the change. For
	// TopicRepeated it is the number of commands replayed.
	ModificationCount int

	UndoDepth int
	RedoDepth int
}

func (h *History[D]) publish(topic event.Topic, change HistoryChange) {
	if h.publisher == nil {
		return
	}
	change.UndoDepth = len(h.done)
	change.RedoDepth = len(h.undone)

	ev := event.NewEvent(topic, change, "history")
	if err := h.publisher.Publish(context.Background(), ev); err != nil {
		h.logger.Warn("publish history change",
			slog.String("topic", topic.String()),
			slog.Any("error", err))
	}
}

func (h *History[D]) publishCommand(topic event.Topic, cmd *command.Undoable[D]) {
	if h.publisher == nil {
		return
	}
	h.publish(topic, HistoryChange{
		Name:              cmd.Name(),
		Type:              cmd.Type(),
		ModificationCount: cmd.ModificationCount(),
	})
}
