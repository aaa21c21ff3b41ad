// Package sensehat opens the Raspberry Pi Sense HAT through the kernel's
// standard interfaces: the LED matrix framebuffer, the joystick input
// device, and the IIO sysfs tree for the inertial and environmental
// sensors.
//
// Every Open function probes for its device node and returns
// ErrNotFound when the board is absent, so callers can degrade to
// reduced functionality instead of failing outright.
package sensehat

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a Sense HAT device node is not present.
var ErrNotFound = errors.New("sensehat: device not found")

const (
	framebufferName = "RPi-Sense FB"
	joystickName    = "Raspberry Pi Sense HAT Joystick"
)

// findDevice scans a sysfs class directory for an entry whose name file
// matches want, and returns the entry's base name.
func findDevice(classDir, nameFile, want string) (string, error) {
	entries, err := os.ReadDir(classDir)
	if err != nil {
		return "", ErrNotFound
	}
	for _, e := range entries {
		raw, err := os.ReadFile(filepath.Join(classDir, e.Name(), nameFile))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(raw)) == want {
			return e.Name(), nil
		}
	}
	return "", ErrNotFound
}

// findIIODevice scans the IIO bus for a device whose name contains want.
func findIIODevice(want string) (string, error) {
	const iioDir = "/sys/bus/iio/devices"
	entries, err := os.ReadDir(iioDir)
	if err != nil {
		return "", ErrNotFound
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "iio:device") {
			continue
		}
		dir := filepath.Join(iioDir, e.Name())
		raw, err := os.ReadFile(filepath.Join(dir, "name"))
		if err != nil {
			continue
		}
		if strings.Contains(strings.TrimSpace(string(raw)), want) {
			return dir, nil
		}
	}
	return "", ErrNotFound
}

// sysfsFloat reads one numeric sysfs attribute.
func sysfsFloat(path string) (float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
}

// iioValue reads an IIO channel as (raw + offset) * scale. Missing
// offset or scale files default to 0 and 1.
func iioValue(dir, channel string) (float64, error) {
	raw, err := sysfsFloat(filepath.Join(dir, "in_"+channel+"_raw"))
	if err != nil {
		return 0, err
	}
	offset := 0.0
	if v, err := sysfsFloat(filepath.Join(dir, "in_"+channel+"_offset")); err == nil {
		offset = v
	}
	scale := 1.0
	if v, err := sysfsFloat(filepath.Join(dir, "in_"+channel+"_scale")); err == nil {
		scale = v
	}
	return (raw + offset) * scale, nil
}
