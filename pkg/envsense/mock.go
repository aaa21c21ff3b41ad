package envsense

import "sync"

// Mock implements Sensor for testing and headless development.
type Mock struct {
	// ReadFunc overrides Read when set.
	ReadFunc func() (Reading, error)

	mu      sync.Mutex
	current Reading
}

// NewMock creates a mock reporting a comfortable room.
func NewMock() *Mock {
	return &Mock{current: Reading{TemperatureC: 21.5, Humidity: 45, Pressure: 1013}}
}

// Set changes the reading returned by Read.
func (m *Mock) Set(r Reading) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = r
}

// Read implements Sensor.
func (m *Mock) Read() (Reading, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, nil
}

// Close implements Sensor.
func (m *Mock) Close() error { return nil }

var _ Sensor = (*Mock)(nil)
