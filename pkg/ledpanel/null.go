package ledpanel

// Null is a Panel that discards every operation. The hub uses it when no
// LED hardware is present so flash and animation callers need no guards.
type Null struct{}

// SetFrame implements Panel.
func (Null) SetFrame(Frame) error { return nil }

// Fill implements Panel.
func (Null) Fill(Color) error { return nil }

// Clear implements Panel.
func (Null) Clear() error { return nil }

// Close implements Panel.
func (Null) Close() error { return nil }

var _ Panel = Null{}
