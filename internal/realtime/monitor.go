package realtime

import (
	"log/slog"
	"sync"
	"time"
)

// Monitor probes registered connections on a fixed interval and evicts
// the ones whose transport has already closed.
type Monitor struct {
	registry *Registry
	interval time.Duration
	logger   *slog.Logger

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func NewMonitor(registry *Registry, interval time.Duration, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		registry: registry,
		interval: interval,
		logger:   logger.With(slog.String("component", "monitor")),
		done:     make(chan struct{}),
	}
}

func (m *Monitor) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-m.done:
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}

// Sweep pings every open connection and removes the ones that have left
// the open state. A failed probe closes the transport so the connection
// is reaped on a later sweep, once its state reflects the close.
func (m *Monitor) Sweep() {
	for _, conn := range m.registry.All() {
		if conn.State() >= StateClosing {
			m.registry.Remove(conn.ID)
			continue
		}
		if err := conn.Ping(); err != nil {
			m.logger.Debug("liveness probe failed", "connection_id", conn.ID, "error", err)
			_ = conn.Close(CloseNormal, "")
		}
	}
}

// Shutdown stops the timer, then closes every still-open connection with
// the normal close code and clears the registry. Close errors are
// suppressed since a connection may already be gone.
func (m *Monitor) Shutdown() {
	m.once.Do(func() { close(m.done) })
	m.wg.Wait()

	for _, conn := range m.registry.All() {
		if conn.State() == StateOpen {
			_ = conn.Close(CloseNormal, "server shutting down")
		}
		m.registry.Remove(conn.ID)
	}
}
