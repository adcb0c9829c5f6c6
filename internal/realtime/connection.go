// Package realtime implements the live-connection layer: the registry of
// open WebSocket connections, admission authentication, the client frame
// protocol, liveness probing and event fan-out.
package realtime

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Connection liveness states. Transitions are monotonic:
// open -> closing -> closed, never backwards.
const (
	StateOpen int32 = iota
	StateClosing
	StateClosed
)

// Close codes written on the wire when the server terminates a connection.
const (
	CloseNormal          = 1000
	ClosePolicyViolation = 1008
	CloseInternalError   = 1011
)

// TopicTasks is the only subscription topic currently defined.
const TopicTasks = "tasks"

// Writer is the transport half of a connection.
type Writer interface {
	Write(message []byte) error
	Ping() error
	Close(code int, reason string) error
}

// Connection is one live client channel. The owning identity is fixed at
// admission; state and subscription flags mutate afterwards.
type Connection struct {
	ID       string
	Identity Identity

	writer Writer
	state  atomic.Int32

	subMu sync.Mutex
	subs  map[string]bool
}

func NewConnection(id string, identity Identity, w Writer) *Connection {
	return &Connection{
		ID:       id,
		Identity: identity,
		writer:   w,
		subs:     make(map[string]bool),
	}
}

// ConnectionID builds a collision-free connection id from the owning user
// id and a high-resolution timestamp.
func ConnectionID(userID string) string {
	return userID + "-" + strconv.FormatInt(time.Now().UnixNano(), 10)
}

func (c *Connection) UserID() string {
	return c.Identity.UserID
}

func (c *Connection) State() int32 {
	return c.state.Load()
}

// advance moves the liveness state forward. Attempts to move backwards
// are ignored.
func (c *Connection) advance(next int32) {
	for {
		current := c.state.Load()
		if next <= current {
			return
		}
		if c.state.CompareAndSwap(current, next) {
			return
		}
	}
}

func (c *Connection) MarkClosing() { c.advance(StateClosing) }
func (c *Connection) MarkClosed()  { c.advance(StateClosed) }

func (c *Connection) Subscribe(topic string) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subs[topic] = true
}

// Unsubscribe clears the flag without removing the key, keeping repeated
// unsubscribes idempotent.
func (c *Connection) Unsubscribe(topic string) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subs[topic] = false
}

func (c *Connection) Subscribed(topic string) bool {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return c.subs[topic]
}

func (c *Connection) Write(message []byte) error {
	return c.writer.Write(message)
}

func (c *Connection) Ping() error {
	return c.writer.Ping()
}

func (c *Connection) Close(code int, reason string) error {
	c.advance(StateClosing)
	return c.writer.Close(code, reason)
}
