package camera

import "sync"

// Mock implements Source for testing.
// FrameFunc can override behavior; otherwise frames are served from the
// Frames script, repeating the last one.
type Mock struct {
	// FrameFunc is called when Frame is invoked, if set.
	FrameFunc func() ([]byte, error)

	// Frames is the scripted sequence.
	Frames [][]byte

	mu    sync.Mutex
	calls int
}

// Frame returns the next scripted frame.
func (m *Mock) Frame() ([]byte, error) {
	m.mu.Lock()
	m.calls++
	idx := m.calls - 1
	m.mu.Unlock()

	if m.FrameFunc != nil {
		return m.FrameFunc()
	}
	if len(m.Frames) == 0 {
		return nil, ErrClosed
	}
	if idx >= len(m.Frames) {
		idx = len(m.Frames) - 1
	}
	return m.Frames[idx], nil
}

// Close is a no-op.
func (m *Mock) Close() error { return nil }

// Calls returns how many frames were requested.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
