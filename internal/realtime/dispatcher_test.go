package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/model"
)

func testTask(userID string) *model.Task {
	now := time.Now().UTC()
	return &model.Task{
		ID:        "task-1",
		UserID:    userID,
		Title:     "write report",
		Status:    model.TaskStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestDispatcher_DeliversOnlyToOwner(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r, nil)

	ownerWriters := []*fakeWriter{{}, {}, {}}
	for i, w := range ownerWriters {
		r.Insert(newTestConn("a"+string(rune('1'+i)), "user-a", w))
	}
	otherWriters := []*fakeWriter{{}, {}}
	for i, w := range otherWriters {
		r.Insert(newTestConn("b"+string(rune('1'+i)), "user-b", w))
	}

	sent := d.PublishTask(Event{Kind: EventTaskUpdated, UserID: "user-a", Task: testTask("user-a")})

	require.Equal(t, 3, sent)
	for _, w := range ownerWriters {
		require.Len(t, w.sent(), 1)
	}
	for _, w := range otherWriters {
		assert.Empty(t, w.sent())
	}
}

func TestDispatcher_SerializesOnce(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r, nil)

	w1, w2 := &fakeWriter{}, &fakeWriter{}
	r.Insert(newTestConn("c1", "u1", w1))
	r.Insert(newTestConn("c2", "u1", w2))

	d.PublishTask(Event{Kind: EventTaskCreated, UserID: "u1", Task: testTask("u1")})

	first := w1.sent()
	second := w2.sent()
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0], second[0])

	var frame map[string]any
	require.NoError(t, json.Unmarshal(first[0], &frame))
	assert.Equal(t, FrameTaskCreated, frame["type"])
	assert.NotEmpty(t, frame["timestamp"])
	_, err := time.Parse(time.RFC3339, frame["timestamp"].(string))
	assert.NoError(t, err)
}

func TestDispatcher_FailedSendDoesNotAbortDelivery(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r, nil)

	failing := &fakeWriter{failSend: true}
	healthy := &fakeWriter{}
	r.Insert(newTestConn("c1", "u1", failing))
	r.Insert(newTestConn("c2", "u1", healthy))

	sent := d.PublishTask(Event{Kind: EventTaskUpdated, UserID: "u1", Task: testTask("u1")})

	assert.Equal(t, 1, sent)
	assert.Len(t, healthy.sent(), 1)
}

func TestDispatcher_SkipsNonOpenConnections(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r, nil)

	open := &fakeWriter{}
	closing := &fakeWriter{}
	r.Insert(newTestConn("c1", "u1", open))
	closingConn := newTestConn("c2", "u1", closing)
	closingConn.MarkClosing()
	r.Insert(closingConn)

	sent := d.PublishTask(Event{Kind: EventTaskUpdated, UserID: "u1", Task: testTask("u1")})

	assert.Equal(t, 1, sent)
	assert.Empty(t, closing.sent())
}

func TestDispatcher_DeleteEventCarriesTaskIDOnly(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r, nil)

	w := &fakeWriter{}
	r.Insert(newTestConn("c1", "u1", w))

	d.PublishTask(Event{Kind: EventTaskDeleted, UserID: "u1", TaskID: "task-9"})

	writes := w.sent()
	require.Len(t, writes, 1)
	var frame map[string]any
	require.NoError(t, json.Unmarshal(writes[0], &frame))
	assert.Equal(t, FrameTaskDeleted, frame["type"])
	assert.Equal(t, "task-9", frame["taskId"])
	_, hasTask := frame["task"]
	assert.False(t, hasTask)
}

func TestDispatcher_DeliveryIgnoresSubscriptionFlag(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r, nil)

	unsubscribed := &fakeWriter{}
	r.Insert(newTestConn("c1", "u1", unsubscribed))

	sent := d.PublishTask(Event{Kind: EventTaskCreated, UserID: "u1", Task: testTask("u1")})

	assert.Equal(t, 1, sent)
	assert.Len(t, unsubscribed.sent(), 1)
}
