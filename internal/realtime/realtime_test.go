package realtime

import (
	"errors"
	"sync"
)

// fakeWriter records writes and can be told to fail or report a dead
// transport.
type fakeWriter struct {
	mu       sync.Mutex
	writes   [][]byte
	pings    int
	closed   bool
	code     int
	failSend bool
	failPing bool
}

func (w *fakeWriter) Write(message []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failSend {
		return errors.New("send failed")
	}
	buf := make([]byte, len(message))
	copy(buf, message)
	w.writes = append(w.writes, buf)
	return nil
}

func (w *fakeWriter) Ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pings++
	if w.failPing {
		return errors.New("ping failed")
	}
	return nil
}

func (w *fakeWriter) Close(code int, _ string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.code = code
	return nil
}

func (w *fakeWriter) sent() [][]byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([][]byte, len(w.writes))
	copy(out, w.writes)
	return out
}

func (w *fakeWriter) pingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pings
}

func (w *fakeWriter) closedWith() (bool, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed, w.code
}

func newTestConn(id, userID string, w Writer) *Connection {
	return NewConnection(id, Identity{UserID: userID}, w)
}
