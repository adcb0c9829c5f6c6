package realtime

import (
	"log/slog"

	"taskboard/internal/model"
)

type EventKind string

const (
	EventTaskCreated EventKind = "created"
	EventTaskUpdated EventKind = "updated"
	EventTaskDeleted EventKind = "deleted"
)

// Event is an immutable record of a committed task mutation. The write
// path produces exactly one per mutation, after commit.
type Event struct {
	Kind   EventKind
	UserID string
	Task   *model.Task
	TaskID string
}

func (e Event) frame() serverFrame {
	switch e.Kind {
	case EventTaskCreated:
		return serverFrame{Type: FrameTaskCreated, Task: e.Task}
	case EventTaskUpdated:
		return serverFrame{Type: FrameTaskUpdated, Task: e.Task}
	default:
		return serverFrame{Type: FrameTaskDeleted, TaskID: e.TaskID}
	}
}

// Filter decides whether a connection receives a published event.
type Filter func(*Connection) bool

// OwnerFilter matches open connections belonging to userID. This is the
// policy for task events: every open connection of the owner receives
// them, whether or not the tasks subscription flag is set.
func OwnerFilter(userID string) Filter {
	return func(c *Connection) bool {
		return c.UserID() == userID && c.State() == StateOpen
	}
}

// Dispatcher fans committed domain events out to eligible connections.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, logger: logger.With(slog.String("component", "dispatcher"))}
}

// Publish serializes the event once and writes it to every connection in
// the registry snapshot the filter accepts. Delivery is at-most-once per
// connection: a failed send is logged and skipped, never retried, and
// never prevents delivery to the remaining connections. Returns the
// number of connections written to.
func (d *Dispatcher) Publish(event Event, filter Filter) int {
	payload := marshalFrame(event.frame())

	sent := 0
	for _, conn := range d.registry.All() {
		if !filter(conn) {
			continue
		}
		if err := conn.Write(payload); err != nil {
			d.logger.Warn("delivery failed", "connection_id", conn.ID, "error", err)
			continue
		}
		sent++
	}
	return sent
}

// PublishTask delivers a task event to the owning user's open connections.
func (d *Dispatcher) PublishTask(event Event) int {
	return d.Publish(event, OwnerFilter(event.UserID))
}
