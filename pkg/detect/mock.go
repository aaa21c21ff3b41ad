package detect

import "sync"

// Mock implements Detector for testing. It replays scripted results, one
// per Detect call, then repeats the last one.
type Mock struct {
	// DetectFunc overrides Detect entirely when set.
	DetectFunc func(jpeg []byte) (Result, error)

	// Script is replayed in order.
	Script []Result

	mu    sync.Mutex
	index int
	calls int
}

// NewMock creates a mock detector returning an empty 640x480 scene.
func NewMock() *Mock {
	return &Mock{Script: []Result{{FrameWidth: 640, FrameHeight: 480}}}
}

// Detect implements Detector.
func (m *Mock) Detect(jpeg []byte) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.DetectFunc != nil {
		return m.DetectFunc(jpeg)
	}
	if len(m.Script) == 0 {
		return Result{}, nil
	}
	r := m.Script[m.index]
	if m.index < len(m.Script)-1 {
		m.index++
	}
	return r, nil
}

// Close implements Detector.
func (m *Mock) Close() error { return nil }

// Calls returns the number of Detect invocations.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ Detector = (*Mock)(nil)
