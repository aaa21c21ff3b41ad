package fallsense

import (
	"testing"
	"time"

	"github.com/aldercare/go-vigil/pkg/imu"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// reading builds a sample with the given accel/gyro magnitudes along one axis.
func reading(ts time.Time, accelMag, gyroMag float64) imu.Reading {
	return imu.Reading{
		Timestamp: ts,
		Accel:     imu.Vec3{Z: accelMag},
		Gyro:      imu.Vec3{X: gyroMag},
	}
}

// tick advances one 50 ms sample period.
func tick(n int) time.Time {
	return t0.Add(time.Duration(n) * 50 * time.Millisecond)
}

func TestClassifier_FreefallFiresImmediately(t *testing.T) {
	c := New(DefaultConfig())

	// Normal standing readings.
	for i := 0; i < 10; i++ {
		if ev := c.Process(reading(tick(i), 1.0, 5)); ev != nil {
			t.Fatalf("unexpected event on resting sample %d", i)
		}
	}

	// One freefall sample is enough.
	ev := c.Process(reading(tick(10), 0.2, 10))
	if ev == nil {
		t.Fatal("expected event on single freefall sample")
	}
	if ev.Acceleration != 0.2 {
		t.Errorf("Acceleration: got %v, want 0.2", ev.Acceleration)
	}
	if c.State() != StateCooldown {
		t.Errorf("state after fire: got %v, want cooldown", c.State())
	}
}

func TestClassifier_ImpactNeedsCorroboration(t *testing.T) {
	c := New(DefaultConfig())

	// First impact+rotation sample: suspect only.
	if ev := c.Process(reading(tick(0), 2.5, 200)); ev != nil {
		t.Fatal("fired on first impact sample, want corroboration first")
	}
	if c.State() != StateSuspect {
		t.Errorf("state: got %v, want suspect", c.State())
	}

	// Second consecutive positive confirms.
	ev := c.Process(reading(tick(1), 2.8, 220))
	if ev == nil {
		t.Fatal("expected event after two consecutive impact samples")
	}
}

func TestClassifier_PositiveThenNegativeNeverFires(t *testing.T) {
	c := New(DefaultConfig())

	c.Process(reading(tick(0), 2.5, 200)) // counter 1
	c.Process(reading(tick(1), 1.0, 5))   // counter back to 0

	if c.State() != StateIdle {
		t.Errorf("state: got %v, want idle", c.State())
	}

	// A single further positive must not fire (counter restarted).
	if ev := c.Process(reading(tick(2), 2.5, 200)); ev != nil {
		t.Fatal("fired after decayed counter, want fresh corroboration")
	}
}

func TestClassifier_ImpactWithoutRotationIsNegative(t *testing.T) {
	c := New(DefaultConfig())

	// Hard bump with no tumbling: never a fall.
	for i := 0; i < 20; i++ {
		if ev := c.Process(reading(tick(i), 3.0, 20)); ev != nil {
			t.Fatalf("fired on impact without rotation at sample %d", i)
		}
	}
	if c.State() != StateIdle {
		t.Errorf("state: got %v, want idle", c.State())
	}
}

func TestClassifier_CooldownSuppressesRefire(t *testing.T) {
	c := New(DefaultConfig())

	if ev := c.Process(reading(tick(0), 0.2, 10)); ev == nil {
		t.Fatal("expected initial event")
	}

	// Raw signal stays positive for the whole window; nothing may fire.
	fires := 0
	ts := t0
	for ts.Sub(t0) < 10*time.Second {
		ts = ts.Add(50 * time.Millisecond)
		if ev := c.Process(reading(ts, 0.2, 10)); ev != nil {
			fires++
		}
	}
	if fires != 0 {
		t.Fatalf("got %d events inside the 10 s cooldown, want 0", fires)
	}

	// After the window elapses a sustained freefall fires again.
	ts = t0.Add(10*time.Second + 100*time.Millisecond)
	if ev := c.Process(reading(ts, 0.2, 10)); ev == nil {
		t.Fatal("expected event after cooldown elapsed")
	}
}

func TestClassifier_CounterNeverGoesNegative(t *testing.T) {
	c := New(DefaultConfig())

	for i := 0; i < 5; i++ {
		c.Process(reading(tick(i), 1.0, 5))
	}
	// One positive then one negative leaves the counter at zero, so a
	// single new positive still cannot confirm.
	c.Process(reading(tick(5), 2.5, 200))
	c.Process(reading(tick(6), 1.0, 5))
	if ev := c.Process(reading(tick(7), 2.5, 200)); ev != nil {
		t.Fatal("counter underflow: single positive confirmed a fall")
	}
}
