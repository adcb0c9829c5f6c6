package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeFrame(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var frame map[string]any
	require.NoError(t, json.Unmarshal(data, &frame))
	ts, ok := frame["timestamp"].(string)
	require.True(t, ok, "frame missing timestamp: %s", data)
	_, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	return frame
}

func TestHandleFrame_Ping(t *testing.T) {
	c := newTestConn("c1", "u1", &fakeWriter{})
	frame := decodeFrame(t, HandleFrame(c, []byte(`{"type":"PING"}`)))
	assert.Equal(t, FramePong, frame["type"])
}

func TestHandleFrame_SubscribeSetsFlagAndConfirms(t *testing.T) {
	c := newTestConn("c1", "u1", &fakeWriter{})

	frame := decodeFrame(t, HandleFrame(c, []byte(`{"type":"SUBSCRIBE_TASKS"}`)))
	assert.Equal(t, FrameSubscribed, frame["type"])
	assert.Equal(t, TopicTasks, frame["channel"])
	assert.True(t, c.Subscribed(TopicTasks))
}

func TestHandleFrame_UnsubscribeWithoutSubscribeStillConfirms(t *testing.T) {
	c := newTestConn("c1", "u1", &fakeWriter{})

	frame := decodeFrame(t, HandleFrame(c, []byte(`{"type":"UNSUBSCRIBE_TASKS"}`)))
	assert.Equal(t, FrameUnsubscribed, frame["type"])
	assert.Equal(t, TopicTasks, frame["channel"])
	assert.False(t, c.Subscribed(TopicTasks))
}

func TestHandleFrame_UnknownType(t *testing.T) {
	c := newTestConn("c1", "u1", &fakeWriter{})

	frame := decodeFrame(t, HandleFrame(c, []byte(`{"type":"BOGUS"}`)))
	assert.Equal(t, FrameError, frame["type"])
	assert.Equal(t, "Unknown message type", frame["error"])
	assert.Equal(t, StateOpen, c.State())
}

func TestHandleFrame_Malformed(t *testing.T) {
	c := newTestConn("c1", "u1", &fakeWriter{})

	frame := decodeFrame(t, HandleFrame(c, []byte(`not json`)))
	assert.Equal(t, FrameError, frame["type"])
	assert.Equal(t, "Invalid message format", frame["error"])
	assert.Equal(t, StateOpen, c.State())
}

func TestConnectedFrame(t *testing.T) {
	frame := decodeFrame(t, ConnectedFrame("u1"))
	assert.Equal(t, FrameConnected, frame["type"])
	assert.Equal(t, "u1", frame["userId"])
}
