// Package imu reads the inertial measurement unit on the sensor hub.
//
// The hardware is consumed through the Device interface so the hub can run
// against a real sensor board or the in-memory Mock. Acceleration is in g,
// angular rate in degrees per second.
package imu

import (
	"errors"
	"math"
	"time"
)

// ErrUnavailable is returned when the sensor board is not present.
var ErrUnavailable = errors.New("imu: sensor board unavailable")

// Vec3 is a 3-axis sample.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Magnitude returns the euclidean norm of the vector.
func (v Vec3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Orientation is the fused attitude estimate from the sensor board.
type Orientation struct {
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
	Yaw   float64 `json:"yaw"`
}

// Reading is one sample tick. Readings are ephemeral: produced each tick
// and consumed immediately by the fall classifier.
type Reading struct {
	Timestamp   time.Time   `json:"timestamp"`
	Accel       Vec3        `json:"acceleration"` // g
	Gyro        Vec3        `json:"gyroscope"`    // deg/s
	Orientation Orientation `json:"orientation"`  // degrees
}

// AccelMagnitude returns |accel| in g.
func (r Reading) AccelMagnitude() float64 { return r.Accel.Magnitude() }

// GyroMagnitude returns |gyro| in deg/s.
func (r Reading) GyroMagnitude() float64 { return r.Gyro.Magnitude() }

// Device is the sensor board interface.
type Device interface {
	// Read returns the current sample.
	Read() (Reading, error)

	// Close releases the device.
	Close() error
}
