package imu

import (
	"sync"
	"time"
)

// Mock implements Device for testing and off-device development.
// If ReadFunc is nil it replays Script, then settles at rest (1 g on Z).
type Mock struct {
	// ReadFunc overrides Read entirely when set.
	ReadFunc func() (Reading, error)

	// Script is a sequence of readings replayed in order.
	Script []Reading

	mu    sync.Mutex
	index int
	reads int
}

// NewMock creates a mock device at rest.
func NewMock() *Mock {
	return &Mock{}
}

// Rest returns a stationary reading: 1 g straight down, no rotation.
func Rest(ts time.Time) Reading {
	return Reading{
		Timestamp: ts,
		Accel:     Vec3{Z: 1.0},
	}
}

// Read returns the next scripted reading, or a resting reading once the
// script is exhausted.
func (m *Mock) Read() (Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++

	if m.ReadFunc != nil {
		return m.ReadFunc()
	}
	if m.index < len(m.Script) {
		r := m.Script[m.index]
		m.index++
		return r, nil
	}
	return Rest(time.Now()), nil
}

// Close implements Device.
func (m *Mock) Close() error { return nil }

// Reads returns how many times Read was called.
func (m *Mock) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

var _ Device = (*Mock)(nil)
