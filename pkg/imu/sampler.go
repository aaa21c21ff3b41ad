package imu

import (
	"context"
	"sync"
	"time"

	"github.com/aldercare/go-vigil/internal/log"
)

// Sampler reads the device on a fixed interval and hands each reading to a
// consumer. It retains the most recent reading for the diagnostics endpoint.
type Sampler struct {
	device   Device
	interval time.Duration

	mu     sync.Mutex
	latest Reading
	ok     bool
}

// NewSampler creates a sampler. interval is the sampling period (50 ms for
// the 20 Hz fall classifier feed).
func NewSampler(device Device, interval time.Duration) *Sampler {
	return &Sampler{device: device, interval: interval}
}

// Run samples until ctx is done, calling consume for every reading.
// Read failures are logged and retried after a 1 s pause; they are never
// fatal. Reads happen outside any lock held by the consumer.
func (s *Sampler) Run(ctx context.Context, consume func(Reading)) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		reading, err := s.device.Read()
		if err != nil {
			log.Warn("imu read failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		s.mu.Lock()
		s.latest = reading
		s.ok = true
		s.mu.Unlock()

		consume(reading)
	}
}

// Latest returns the most recent reading, if any sample has succeeded.
func (s *Sampler) Latest() (Reading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.ok
}
