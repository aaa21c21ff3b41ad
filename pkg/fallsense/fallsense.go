// Package fallsense classifies IMU samples into fall events.
//
// The classifier is a small state machine: Idle → Suspect → Confirmed →
// Cooldown → Idle. Impact falls need corroboration across consecutive
// samples before confirming; freefall confirms on a single sample. The
// asymmetry is deliberate: a sudden drop is the signature we must never
// miss, while an impact spike alone is usually a bump.
package fallsense

import (
	"time"

	"github.com/aldercare/go-vigil/pkg/imu"
)

// State is the classifier state.
type State int

const (
	// StateIdle means no recent fall signal.
	StateIdle State = iota

	// StateSuspect means the corroboration counter is nonzero.
	StateSuspect

	// StateCooldown means a fall fired recently; signals are ignored
	// until the cooldown window elapses.
	StateCooldown
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSuspect:
		return "suspect"
	case StateCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Event is a confirmed fall.
type Event struct {
	Timestamp    time.Time
	Acceleration float64 // |accel| at confirmation, g
	Rotation     float64 // |gyro| at confirmation, deg/s
}

// Config holds classifier thresholds.
type Config struct {
	FreefallG       float64       // accel magnitude below this is freefall
	ImpactG         float64       // accel magnitude above this is impact
	RotationDPS     float64       // gyro magnitude above this is rapid rotation
	ConfirmReadings int           // corroborating samples required for impact falls
	Cooldown        time.Duration // minimum gap between events
}

// DefaultConfig returns the tuned production thresholds.
func DefaultConfig() Config {
	return Config{
		FreefallG:       0.6,
		ImpactG:         2.0,
		RotationDPS:     150,
		ConfirmReadings: 2,
		Cooldown:        10 * time.Second,
	}
}

// Classifier consumes a stream of readings and emits fall events.
// It is not safe for concurrent use; a single sampling loop owns it.
type Classifier struct {
	cfg Config

	state         State
	counter       int
	cooldownStart time.Time
}

// New creates a classifier.
func New(cfg Config) *Classifier {
	if cfg.ConfirmReadings < 1 {
		cfg.ConfirmReadings = 1
	}
	return &Classifier{cfg: cfg}
}

// State returns the current state.
func (c *Classifier) State() State { return c.state }

// Process consumes one reading. It returns a non-nil Event when a fall is
// confirmed outside the cooldown window. Time is taken from the reading so
// replayed traces classify deterministically.
func (c *Classifier) Process(r imu.Reading) *Event {
	now := r.Timestamp

	if c.state == StateCooldown {
		if now.Sub(c.cooldownStart) < c.cfg.Cooldown {
			return nil
		}
		c.state = StateIdle
		c.counter = 0
	}

	accel := r.AccelMagnitude()
	gyro := r.GyroMagnitude()

	freefall := accel < c.cfg.FreefallG
	impact := accel > c.cfg.ImpactG
	rotating := gyro > c.cfg.RotationDPS

	confirmed := false
	switch {
	case freefall:
		// Sudden drop: confirm immediately, no corroboration needed.
		confirmed = true
	case impact && rotating:
		c.counter++
		c.state = StateSuspect
		if c.counter >= c.cfg.ConfirmReadings {
			confirmed = true
		}
	default:
		if c.counter > 0 {
			c.counter--
		}
		if c.counter == 0 {
			c.state = StateIdle
		}
	}

	if !confirmed {
		return nil
	}

	c.counter = 0
	c.state = StateCooldown
	c.cooldownStart = now

	return &Event{
		Timestamp:    now,
		Acceleration: accel,
		Rotation:     gyro,
	}
}
