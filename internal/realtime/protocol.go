package realtime

import (
	"encoding/json"
	"time"

	"taskboard/internal/model"
)

// Inbound frame types.
const (
	MessagePing             = "PING"
	MessageSubscribeTasks   = "SUBSCRIBE_TASKS"
	MessageUnsubscribeTasks = "UNSUBSCRIBE_TASKS"
)

// Outbound frame types.
const (
	FrameConnected    = "CONNECTED"
	FramePong         = "PONG"
	FrameSubscribed   = "SUBSCRIBED"
	FrameUnsubscribed = "UNSUBSCRIBED"
	FrameError        = "ERROR"
	FrameTaskCreated  = "TASK_CREATED"
	FrameTaskUpdated  = "TASK_UPDATED"
	FrameTaskDeleted  = "TASK_DELETED"
)

type clientFrame struct {
	Type string `json:"type"`
}

type serverFrame struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp"`
	UserID    string      `json:"userId,omitempty"`
	Channel   string      `json:"channel,omitempty"`
	Error     string      `json:"error,omitempty"`
	Task      *model.Task `json:"task,omitempty"`
	TaskID    string      `json:"taskId,omitempty"`
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func marshalFrame(f serverFrame) []byte {
	f.Timestamp = timestamp()
	data, _ := json.Marshal(f)
	return data
}

// ConnectedFrame is sent proactively once a connection is admitted,
// before any client frame is processed.
func ConnectedFrame(userID string) []byte {
	return marshalFrame(serverFrame{Type: FrameConnected, UserID: userID})
}

func errorFrame(message string) []byte {
	return marshalFrame(serverFrame{Type: FrameError, Error: message})
}

// HandleFrame processes one inbound client frame and returns the reply
// frame. Every frame gets a reply; protocol errors never close the
// connection.
func HandleFrame(conn *Connection, data []byte) []byte {
	var msg clientFrame
	if err := json.Unmarshal(data, &msg); err != nil {
		return errorFrame("Invalid message format")
	}

	switch msg.Type {
	case MessagePing:
		return marshalFrame(serverFrame{Type: FramePong})
	case MessageSubscribeTasks:
		conn.Subscribe(TopicTasks)
		return marshalFrame(serverFrame{Type: FrameSubscribed, Channel: TopicTasks})
	case MessageUnsubscribeTasks:
		conn.Unsubscribe(TopicTasks)
		return marshalFrame(serverFrame{Type: FrameUnsubscribed, Channel: TopicTasks})
	default:
		return errorFrame("Unknown message type")
	}
}
