// Package camera provides the frame capture collaborator: given nothing,
// return the current JPEG frame. The vision pipeline consumes frames
// through the Source interface and never touches capture details.
package camera

import "errors"

// ErrClosed is returned when reading from a closed source.
var ErrClosed = errors.New("camera: source closed")

// Source produces JPEG frames.
type Source interface {
	// Frame returns the most recent frame as JPEG bytes.
	Frame() ([]byte, error)

	// Close releases the capture device.
	Close() error
}
