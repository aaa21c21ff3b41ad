// Package ledpanel drives the hub's 8x8 RGB matrix.
//
// Alert feedback is a closed table of flash patterns; the decorative idle
// animations yield to any active alert flag and resume once all flags clear.
package ledpanel

import "time"

// Grid dimensions.
const (
	Width  = 8
	Height = 8
	Pixels = Width * Height
)

// Color is one RGB pixel.
type Color struct {
	R, G, B uint8
}

// Common colors used by the alert patterns.
var (
	Black = Color{}
	Red   = Color{R: 255}
	White = Color{R: 255, G: 255, B: 255}
)

// Frame is a full panel image, row-major.
type Frame [Pixels]Color

// Panel is the LED matrix interface.
type Panel interface {
	// SetFrame displays a full frame.
	SetFrame(Frame) error

	// Fill lights every pixel with one color.
	Fill(Color) error

	// Clear blanks the panel.
	Clear() error

	// Close blanks the panel and releases it.
	Close() error
}

// FlashPattern describes an alert feedback sequence: the panel fills with
// Color for Cadence, blanks for Cadence, repeated Count times.
type FlashPattern struct {
	Color   Color
	Count   int
	Cadence time.Duration
}

// Alert feedback patterns. Adding an alert type is a table edit here and in
// the joystick assistance table, not new branching logic.
var (
	// FallFlash runs when the classifier confirms a fall.
	FallFlash = FlashPattern{Color: Red, Count: 5, Cadence: 200 * time.Millisecond}

	// EmergencyFlash runs on an emergency button press.
	EmergencyFlash = FlashPattern{Color: White, Count: 10, Cadence: 100 * time.Millisecond}
)

// AssistanceFlash builds the pattern for an assistance request color.
func AssistanceFlash(c Color) FlashPattern {
	return FlashPattern{Color: c, Count: 5, Cadence: 150 * time.Millisecond}
}

// Flasher plays flash patterns on a panel. Flash blocks until the sequence
// completes; the capture loop that triggered it resumes only afterwards.
type Flasher struct {
	panel Panel

	// Sleep is replaceable in tests to strip the real delays.
	Sleep func(time.Duration)
}

// NewFlasher creates a flasher for the panel.
func NewFlasher(panel Panel) *Flasher {
	return &Flasher{panel: panel, Sleep: time.Sleep}
}

// Flash runs the pattern to completion.
func (f *Flasher) Flash(p FlashPattern) {
	for i := 0; i < p.Count; i++ {
		_ = f.panel.Fill(p.Color)
		f.Sleep(p.Cadence)
		_ = f.panel.Clear()
		f.Sleep(p.Cadence)
	}
}
