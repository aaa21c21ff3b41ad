package joystick

import "sync"

// Mock implements Device for testing. Queue presses with Press; Events
// drains them the way the hardware event queue does.
type Mock struct {
	// EventsFunc overrides Events entirely when set.
	EventsFunc func() ([]PressEvent, error)

	mu      sync.Mutex
	pending []PressEvent
}

// NewMock creates an empty mock device.
func NewMock() *Mock {
	return &Mock{}
}

// Press queues a button press.
func (m *Mock) Press(d Direction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, PressEvent{Direction: d})
}

// Events implements Device.
func (m *Mock) Events() ([]PressEvent, error) {
	if m.EventsFunc != nil {
		return m.EventsFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.pending
	m.pending = nil
	return out, nil
}

// Close implements Device.
func (m *Mock) Close() error { return nil }

var _ Device = (*Mock)(nil)
