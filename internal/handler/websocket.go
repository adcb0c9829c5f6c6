package handler

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"taskboard/internal/realtime"
)

const (
	wsReadLimit  = 1024 * 1024
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsCloseGrace = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsWriter adapts a gorilla connection to the realtime transport
// interface, serializing writes.
type wsWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsWriter) Write(message []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.TextMessage, message)
}

func (w *wsWriter) Ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

func (w *wsWriter) Close(code int, reason string) error {
	w.mu.Lock()
	msg := websocket.FormatCloseMessage(code, reason)
	_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsCloseGrace))
	w.mu.Unlock()
	return w.conn.Close()
}

type WebSocketHandler struct {
	Registry *realtime.Registry
	Gate     *realtime.Authenticator
}

// Serve upgrades the request and admits the connection. The token
// travels as a query parameter because the upgrade handshake cannot
// always carry custom headers. The upgrade completes before
// authentication so rejected clients observe a close code: 1008 for a
// credential failure, 1011 for a store failure.
func (h *WebSocketHandler) Serve(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	writer := &wsWriter{conn: ws}
	identity, err := h.Gate.Authenticate(c.Request.Context(), c.Query("token"))
	if err != nil {
		code := realtime.ClosePolicyViolation
		if errors.Is(err, realtime.ErrInternal) {
			code = realtime.CloseInternalError
		}
		_ = writer.Close(code, "")
		return
	}

	conn := realtime.NewConnection(realtime.ConnectionID(identity.UserID), identity, writer)
	h.Registry.Insert(conn)
	defer func() {
		conn.MarkClosed()
		h.Registry.Remove(conn.ID)
		_ = ws.Close()
	}()

	_ = conn.Write(realtime.ConnectedFrame(identity.UserID))

	ws.SetReadLimit(wsReadLimit)
	_ = ws.SetReadDeadline(time.Now().Add(wsPongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		if reply := realtime.HandleFrame(conn, data); reply != nil {
			if err := conn.Write(reply); err != nil {
				return
			}
		}
	}
}
