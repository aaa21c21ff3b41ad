// Package detect defines the object-detection collaborator interface.
//
// Inference itself is external: given a frame, a Detector returns classed
// bounding boxes with confidences. The vision unit consumes results through
// this interface; the gocv-backed YOLO implementation and the Mock both
// satisfy it.
package detect

import "errors"

// ErrNoFrame is returned when a detector is asked to process an empty frame.
var ErrNoFrame = errors.New("detect: empty frame")

// Box is a pixel-space bounding box.
type Box struct {
	X1, Y1, X2, Y2 int
}

// Width returns the box width in pixels.
func (b Box) Width() int { return b.X2 - b.X1 }

// Height returns the box height in pixels.
func (b Box) Height() int { return b.Y2 - b.Y1 }

// CenterX returns the horizontal center in pixels.
func (b Box) CenterX() float64 { return float64(b.X1+b.X2) / 2 }

// Detection is one detected object.
type Detection struct {
	Class      string
	Box        Box
	Confidence float64
}

// Result is the output of one inference cycle.
type Result struct {
	Detections  []Detection
	FrameWidth  int
	FrameHeight int
}

// Detector is the inference backend interface.
type Detector interface {
	// Detect runs inference on a JPEG frame.
	Detect(jpeg []byte) (Result, error)

	// Close releases backend resources.
	Close() error
}
