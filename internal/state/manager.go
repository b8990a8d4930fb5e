// Package state tracks short-lived per-key counters, such as failed login
// attempts, either in process memory or in Redis.
package state

import (
	"context"
	"sync"
	"time"
)

// AttemptTracker counts events per key inside a fixed window that starts
// with the first event.
type AttemptTracker interface {
	// Attempts returns the current count for key and the time left in its window.
	Attempts(ctx context.Context, key string) (int, time.Duration, error)
	// Record adds one event for key and returns the new count.
	Record(ctx context.Context, key string, window time.Duration) (int, error)
	// Reset forgets key.
	Reset(ctx context.Context, key string) error
}

type counter struct {
	count   int
	expires time.Time
}

// sweepInterval bounds how often Record scans the map for expired counters.
const sweepInterval = time.Minute

// Manager keeps attempt counters in memory. Expired counters are removed
// when read and by a periodic sweep, so keys that never come back do not
// accumulate.
type Manager struct {
	counters  map[string]counter
	now       func() time.Time
	nextSweep time.Time
	mu        sync.Mutex
}

// NewManager creates a new in-memory attempt tracker
func NewManager() *Manager {
	return &Manager{
		counters: make(map[string]counter),
		now:      time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Attempts gets the count for a key
func (m *Manager) Attempts(_ context.Context, key string) (int, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, exists := m.counters[key]
	if !exists {
		return 0, 0, nil
	}
	left := c.expires.Sub(m.now())
	if left <= 0 {
		delete(m.counters, key)
		return 0, 0, nil
	}
	return c.count, left, nil
}

// Record increments the count for a key
func (m *Manager) Record(_ context.Context, key string, window time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if !now.Before(m.nextSweep) {
		m.sweep(now)
	}
	c, exists := m.counters[key]
	if !exists || !now.Before(c.expires) {
		c = counter{expires: now.Add(window)}
	}
	c.count++
	m.counters[key] = c
	return c.count, nil
}

func (m *Manager) sweep(now time.Time) {
	for k, c := range m.counters {
		if !now.Before(c.expires) {
			delete(m.counters, k)
		}
	}
	m.nextSweep = now.Add(sweepInterval)
}

// Len returns the number of counters held, expired or not.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.counters)
}

// Reset clears the count for a key
func (m *Manager) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counters, key)
	return nil
}
