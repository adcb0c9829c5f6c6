// Package reconnect provides a pure retry policy for clients
// re-establishing dropped WebSocket connections. The policy is data; the
// caller owns the loop and the sleeping.
package reconnect

import "time"

// Policy describes exponential backoff between reconnection attempts.
// Attempt numbering starts at zero.
type Policy struct {
	// Base is the delay before the first retry.
	Base time.Duration
	// Max caps the delay.
	Max time.Duration
	// Multiplier scales the delay each attempt. Values below 1 are
	// treated as 2.
	Multiplier float64
	// MaxAttempts limits retries; zero means unlimited.
	MaxAttempts int
}

// Default mirrors the behavior clients of this server ship with: 1s
// doubling to a 30s ceiling, retrying forever.
func Default() Policy {
	return Policy{Base: time.Second, Max: 30 * time.Second, Multiplier: 2}
}

// Delay returns how long to wait before the given attempt.
func (p Policy) Delay(attempt int) time.Duration {
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 2
	}

	delay := float64(p.Base)
	for i := 0; i < attempt; i++ {
		delay *= multiplier
		if p.Max > 0 && delay >= float64(p.Max) {
			return p.Max
		}
	}
	d := time.Duration(delay)
	if p.Max > 0 && d > p.Max {
		return p.Max
	}
	return d
}

// Exhausted reports whether the attempt budget is spent.
func (p Policy) Exhausted(attempt int) bool {
	return p.MaxAttempts > 0 && attempt >= p.MaxAttempts
}
