// Package announce serializes spoken alerts onto the shared audio device.
//
// Callers submit text without blocking; a single worker drains the queue
// and speaks one announcement at a time. The audio device is guarded by
// its own mutex, never held together with any alert-state lock.
package announce

import (
	"context"
	"sync"
	"time"

	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/alert"
)

// Speaker renders one announcement to audio. Implementations block until
// playback finishes.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	Close() error
}

// Request is one queued announcement.
type Request struct {
	Text     string
	Severity alert.Severity
	Queued   time.Time
}

// Channel is the serialized announcement queue.
type Channel struct {
	speaker Speaker
	queue   chan Request

	// audioMu serializes access to the speaker so overlapping
	// announcements cannot interleave on the device.
	audioMu sync.Mutex

	mu      sync.Mutex
	dropped int
}

// NewChannel creates a channel with a bounded queue of size. When the
// queue is full, submissions are dropped rather than blocking the
// sensing loops.
func NewChannel(speaker Speaker, size int) *Channel {
	if size <= 0 {
		size = 16
	}
	return &Channel{
		speaker: speaker,
		queue:   make(chan Request, size),
	}
}

// Submit enqueues text for speech and returns immediately. It reports
// whether the announcement was accepted; false means the queue was full
// and the announcement was dropped.
func (c *Channel) Submit(text string, severity alert.Severity) bool {
	req := Request{Text: text, Severity: severity, Queued: time.Now()}
	select {
	case c.queue <- req:
		return true
	default:
		c.mu.Lock()
		c.dropped++
		c.mu.Unlock()
		log.Warn("announcement dropped, queue full", "text", text)
		return false
	}
}

// Dropped returns how many submissions have been discarded to date.
func (c *Channel) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Run drains the queue until ctx is cancelled. Pending announcements at
// cancellation are discarded.
func (c *Channel) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-c.queue:
			c.speak(ctx, req)
		}
	}
}

func (c *Channel) speak(ctx context.Context, req Request) {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()

	start := time.Now()
	if err := c.speaker.Speak(ctx, req.Text); err != nil {
		log.Error("speech failed", "error", err, "text", req.Text)
		return
	}
	log.Debug("announcement spoken",
		"severity", req.Severity.String(),
		"wait", time.Since(req.Queued).String(),
		"playback", time.Since(start).String())
}
