package sensehat

import (
	"math"
	"time"

	"github.com/aldercare/go-vigil/pkg/imu"
)

const (
	gravity  = 9.80665
	radToDeg = 180 / math.Pi
)

// IMU reads the inertial unit through the IIO sysfs tree. The kernel
// exposes acceleration in m/s² and angular rate in rad/s; readings are
// converted to g and deg/s.
type IMU struct {
	accelDir string
	gyroDir  string
}

// OpenIMU locates the accelerometer and gyroscope IIO devices.
func OpenIMU() (*IMU, error) {
	accel, err := findIIODevice("accel")
	if err != nil {
		return nil, imu.ErrUnavailable
	}
	gyro, err := findIIODevice("gyro")
	if err != nil {
		return nil, imu.ErrUnavailable
	}
	return &IMU{accelDir: accel, gyroDir: gyro}, nil
}

// Read returns the current sample. Orientation is derived from the
// accelerometer alone; yaw is not observable without a magnetometer fix
// and reads as zero.
func (m *IMU) Read() (imu.Reading, error) {
	accel, err := m.vec3(m.accelDir, "accel")
	if err != nil {
		return imu.Reading{}, imu.ErrUnavailable
	}
	gyro, err := m.vec3(m.gyroDir, "anglvel")
	if err != nil {
		return imu.Reading{}, imu.ErrUnavailable
	}

	accel = imu.Vec3{X: accel.X / gravity, Y: accel.Y / gravity, Z: accel.Z / gravity}
	gyro = imu.Vec3{X: gyro.X * radToDeg, Y: gyro.Y * radToDeg, Z: gyro.Z * radToDeg}

	return imu.Reading{
		Timestamp:   time.Now(),
		Accel:       accel,
		Gyro:        gyro,
		Orientation: orientationFrom(accel),
	}, nil
}

// Close releases nothing; sysfs reads hold no file handles open.
func (m *IMU) Close() error { return nil }

func (m *IMU) vec3(dir, channel string) (imu.Vec3, error) {
	x, err := iioValue(dir, channel+"_x")
	if err != nil {
		return imu.Vec3{}, err
	}
	y, err := iioValue(dir, channel+"_y")
	if err != nil {
		return imu.Vec3{}, err
	}
	z, err := iioValue(dir, channel+"_z")
	if err != nil {
		return imu.Vec3{}, err
	}
	return imu.Vec3{X: x, Y: y, Z: z}, nil
}

func orientationFrom(accel imu.Vec3) imu.Orientation {
	pitch := math.Atan2(-accel.X, math.Sqrt(accel.Y*accel.Y+accel.Z*accel.Z)) * radToDeg
	roll := math.Atan2(accel.Y, accel.Z) * radToDeg
	return imu.Orientation{Pitch: pitch, Roll: roll}
}
