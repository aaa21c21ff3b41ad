package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Webcam captures frames from a local video device through OpenCV.
type Webcam struct {
	mu      sync.Mutex
	capture *gocv.VideoCapture
	mat     gocv.Mat
	closed  bool
}

// OpenWebcam opens capture device deviceID.
func OpenWebcam(deviceID int) (*Webcam, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("camera: open device %d: %w", deviceID, err)
	}
	return &Webcam{capture: capture, mat: gocv.NewMat()}, nil
}

// Frame grabs the current frame and encodes it as JPEG.
func (w *Webcam) Frame() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}
	if ok := w.capture.Read(&w.mat); !ok || w.mat.Empty() {
		return nil, fmt.Errorf("camera: frame grab failed")
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, w.mat)
	if err != nil {
		return nil, fmt.Errorf("camera: jpeg encode: %w", err)
	}
	defer buf.Close()
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// Close releases the capture device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.mat.Close()
	return w.capture.Close()
}
