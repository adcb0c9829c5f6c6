package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetDelete(t *testing.T) {
	c := New(0)
	defer c.Stop()

	c.Set("k", "v", time.Minute)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_ExpiredEntriesNotReturned(t *testing.T) {
	now := time.Now()
	c := NewWithNow(0, func() time.Time { return now })
	defer c.Stop()

	c.Set("k", "v", time.Second)
	_, ok := c.Get("k")
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_DeletePattern(t *testing.T) {
	c := New(0)
	defer c.Stop()

	c.Set("tasks:u1:pending", 1, time.Minute)
	c.Set("tasks:u1:done", 2, time.Minute)
	c.Set("tasks:u2:pending", 3, time.Minute)
	c.Set("session:tok", 4, time.Minute)

	removed := c.DeletePattern("tasks:u1:*")
	assert.Equal(t, 2, removed)

	_, ok := c.Get("tasks:u1:pending")
	assert.False(t, ok)
	_, ok = c.Get("tasks:u2:pending")
	assert.True(t, ok)
	_, ok = c.Get("session:tok")
	assert.True(t, ok)
}

func TestCache_ZeroTTLIgnored(t *testing.T) {
	c := New(0)
	defer c.Stop()

	c.Set("k", "v", 0)
	assert.Equal(t, 0, c.Len())
}

func TestCache_CleanupRemovesExpired(t *testing.T) {
	c := New(10 * time.Millisecond)
	defer c.Stop()

	c.Set("k", "v", time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for c.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 0, c.Len())
}
