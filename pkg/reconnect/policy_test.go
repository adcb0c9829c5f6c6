package reconnect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayProgression(t *testing.T) {
	p := Default()

	expected := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for attempt, want := range expected {
		assert.Equal(t, want, p.Delay(attempt), "attempt %d", attempt)
	}
}

func TestDelayCustomMultiplier(t *testing.T) {
	p := Policy{Base: 100 * time.Millisecond, Max: time.Second, Multiplier: 3}

	assert.Equal(t, 100*time.Millisecond, p.Delay(0))
	assert.Equal(t, 300*time.Millisecond, p.Delay(1))
	assert.Equal(t, 900*time.Millisecond, p.Delay(2))
	assert.Equal(t, time.Second, p.Delay(3))
}

func TestDelayInvalidMultiplierDoubles(t *testing.T) {
	p := Policy{Base: time.Second, Max: time.Minute, Multiplier: 0.5}
	assert.Equal(t, 2*time.Second, p.Delay(1))
}

func TestDelayUncapped(t *testing.T) {
	p := Policy{Base: time.Second, Multiplier: 2}
	assert.Equal(t, 1024*time.Second, p.Delay(10))
}

func TestExhausted(t *testing.T) {
	unlimited := Default()
	assert.False(t, unlimited.Exhausted(1_000_000))

	bounded := Policy{Base: time.Second, Multiplier: 2, MaxAttempts: 3}
	assert.False(t, bounded.Exhausted(2))
	assert.True(t, bounded.Exhausted(3))
	assert.True(t, bounded.Exhausted(4))
}
