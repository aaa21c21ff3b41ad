package ledpanel

import "sync"

// Mock implements Panel for testing and headless development.
// It records every operation in order.
type Mock struct {
	mu  sync.Mutex
	ops []MockOp
}

// MockOp is one recorded panel operation.
type MockOp struct {
	Kind  string // "frame", "fill", "clear", "close"
	Color Color  // for fill
	Frame Frame  // for frame
}

// NewMock creates a mock panel.
func NewMock() *Mock {
	return &Mock{}
}

// SetFrame implements Panel.
func (m *Mock) SetFrame(f Frame) error {
	m.record(MockOp{Kind: "frame", Frame: f})
	return nil
}

// Fill implements Panel.
func (m *Mock) Fill(c Color) error {
	m.record(MockOp{Kind: "fill", Color: c})
	return nil
}

// Clear implements Panel.
func (m *Mock) Clear() error {
	m.record(MockOp{Kind: "clear"})
	return nil
}

// Close implements Panel.
func (m *Mock) Close() error {
	m.record(MockOp{Kind: "close"})
	return nil
}

func (m *Mock) record(op MockOp) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, op)
}

// Ops returns all recorded operations.
func (m *Mock) Ops() []MockOp {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockOp, len(m.ops))
	copy(out, m.ops)
	return out
}

// Fills returns how many fill operations used the given color.
func (m *Mock) Fills(c Color) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, op := range m.ops {
		if op.Kind == "fill" && op.Color == c {
			n++
		}
	}
	return n
}

var _ Panel = (*Mock)(nil)
