package announce

import (
	"context"
	"sync"
)

// MockSpeaker implements Speaker for testing.
// Behavior can be customized via the function field.
type MockSpeaker struct {
	// SpeakFunc is called when Speak is invoked. If nil, Speak records
	// the text and returns nil.
	SpeakFunc func(ctx context.Context, text string) error

	mu     sync.Mutex
	spoken []string
}

// Speak calls SpeakFunc and records the text.
func (m *MockSpeaker) Speak(ctx context.Context, text string) error {
	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	m.mu.Unlock()
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text)
	}
	return nil
}

// Close is a no-op.
func (m *MockSpeaker) Close() error { return nil }

// Spoken returns a copy of all texts spoken so far.
func (m *MockSpeaker) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.spoken...)
}
