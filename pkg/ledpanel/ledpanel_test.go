package ledpanel

import (
	"context"
	"testing"
	"time"
)

func TestFlasher_RunsPatternToCompletion(t *testing.T) {
	panel := NewMock()
	f := NewFlasher(panel)
	f.Sleep = func(time.Duration) {} // no real delays in tests

	f.Flash(EmergencyFlash)

	if got := panel.Fills(White); got != 10 {
		t.Errorf("white fills: got %d, want 10", got)
	}
	// Each flash is fill + clear.
	clears := 0
	for _, op := range panel.Ops() {
		if op.Kind == "clear" {
			clears++
		}
	}
	if clears != 10 {
		t.Errorf("clears: got %d, want 10", clears)
	}
}

func TestFlasher_FallPattern(t *testing.T) {
	panel := NewMock()
	f := NewFlasher(panel)
	f.Sleep = func(time.Duration) {}

	f.Flash(FallFlash)

	if got := panel.Fills(Red); got != 5 {
		t.Errorf("red fills: got %d, want 5", got)
	}
}

func TestAssistanceFlash_UsesRequestColor(t *testing.T) {
	cyan := Color{G: 255, B: 255}
	p := AssistanceFlash(cyan)
	if p.Color != cyan || p.Count != 5 || p.Cadence != 150*time.Millisecond {
		t.Errorf("pattern: got %+v", p)
	}
}

func TestAnimator_YieldsToActiveAlert(t *testing.T) {
	panel := NewMock()
	a := NewAnimator(panel, func() bool { return true })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	// Give the animator a moment; it must only blank, never draw frames.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	for _, op := range panel.Ops() {
		if op.Kind == "frame" {
			t.Fatal("animator drew a frame while an alert was active")
		}
	}
}

func TestHSVToRGB_Primaries(t *testing.T) {
	cases := []struct {
		h    float64
		want Color
	}{
		{0, Color{R: 255}},
		{120, Color{G: 255}},
		{240, Color{B: 255}},
	}
	for _, tc := range cases {
		got := hsvToRGB(tc.h, 1, 1)
		if got != tc.want {
			t.Errorf("hsvToRGB(%v): got %+v, want %+v", tc.h, got, tc.want)
		}
	}
}
