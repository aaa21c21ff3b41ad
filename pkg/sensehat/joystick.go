package sensehat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/aldercare/go-vigil/pkg/joystick"
)

// Input event layout on 64-bit kernels: 16-byte timeval, then type,
// code and value.
const eventSize = 24

// Linux key event constants.
const (
	evKey = 0x01

	keyEnter = 28
	keyUp    = 103
	keyLeft  = 105
	keyRight = 106
	keyDown  = 108
)

var keyDirections = map[uint16]joystick.Direction{
	keyEnter: joystick.Center,
	keyUp:    joystick.Up,
	keyDown:  joystick.Down,
	keyLeft:  joystick.Left,
	keyRight: joystick.Right,
}

// Joystick reads presses from the Sense HAT input device.
type Joystick struct {
	f *os.File
}

// OpenJoystick locates the Sense HAT joystick event device and opens it
// non-blocking so Events can drain without stalling the monitor loop.
func OpenJoystick() (*Joystick, error) {
	event, err := findDevice("/sys/class/input", "device/name", joystickName)
	if err != nil {
		return nil, ErrNotFound
	}
	f, err := os.OpenFile(filepath.Join("/dev/input", event), os.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("sensehat: open joystick: %w", err)
	}
	return &Joystick{f: f}, nil
}

// Events drains queued presses. Key releases and hold repeats are
// ignored; only the initial press raises an event.
func (j *Joystick) Events() ([]joystick.PressEvent, error) {
	var events []joystick.PressEvent
	buf := make([]byte, eventSize*16)
	for {
		n, err := j.f.Read(buf)
		if err != nil {
			if errors.Is(err, syscall.EAGAIN) || errors.Is(err, fs.ErrClosed) {
				return events, nil
			}
			return events, fmt.Errorf("sensehat: read joystick: %w", err)
		}
		for off := 0; off+eventSize <= n; off += eventSize {
			if ev, ok := decodeEvent(buf[off : off+eventSize]); ok {
				events = append(events, ev)
			}
		}
	}
}

// decodeEvent parses one input event, keeping only initial key presses
// on known controls.
func decodeEvent(buf []byte) (joystick.PressEvent, bool) {
	typ := binary.LittleEndian.Uint16(buf[16:])
	code := binary.LittleEndian.Uint16(buf[18:])
	value := int32(binary.LittleEndian.Uint32(buf[20:]))
	if typ != evKey || value != 1 {
		return joystick.PressEvent{}, false
	}
	dir, ok := keyDirections[code]
	if !ok {
		return joystick.PressEvent{}, false
	}
	return joystick.PressEvent{Direction: dir}, true
}

// Close releases the device.
func (j *Joystick) Close() error {
	return j.f.Close()
}
