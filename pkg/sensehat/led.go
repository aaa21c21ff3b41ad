package sensehat

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aldercare/go-vigil/pkg/ledpanel"
)

// LED drives the 8x8 matrix through its framebuffer device. The panel
// is RGB565, two bytes per pixel, row-major.
type LED struct {
	f *os.File
}

// OpenLED locates the Sense HAT framebuffer and opens it.
func OpenLED() (*LED, error) {
	fb, err := findDevice("/sys/class/graphics", "name", framebufferName)
	if err != nil {
		return nil, ErrNotFound
	}
	f, err := os.OpenFile(filepath.Join("/dev", fb), os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("sensehat: open framebuffer: %w", err)
	}
	return &LED{f: f}, nil
}

// SetFrame displays a full frame.
func (l *LED) SetFrame(frame ledpanel.Frame) error {
	buf := make([]byte, ledpanel.Pixels*2)
	for i, c := range frame {
		binary.LittleEndian.PutUint16(buf[i*2:], rgb565(c))
	}
	if _, err := l.f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("sensehat: write framebuffer: %w", err)
	}
	return nil
}

// Fill lights every pixel with one color.
func (l *LED) Fill(c ledpanel.Color) error {
	var frame ledpanel.Frame
	for i := range frame {
		frame[i] = c
	}
	return l.SetFrame(frame)
}

// Clear blanks the panel.
func (l *LED) Clear() error {
	return l.Fill(ledpanel.Black)
}

// Close blanks the panel and releases the framebuffer.
func (l *LED) Close() error {
	l.Clear()
	return l.f.Close()
}

func rgb565(c ledpanel.Color) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}
