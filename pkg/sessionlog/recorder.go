package sessionlog

import (
	"context"
	"time"

	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/alert"
)

// Recorder adapts a Logger to the arbitrator's recording interface.
// Write failures are logged and swallowed; losing a log row must never
// block or fail an announcement.
type Recorder struct {
	logger    *Logger
	sessionID string
	timeout   time.Duration
}

// NewRecorder binds logger to one session.
func NewRecorder(logger *Logger, sessionID string) *Recorder {
	return &Recorder{logger: logger, sessionID: sessionID, timeout: 2 * time.Second}
}

// RecordAlert persists one accepted alert.
func (r *Recorder) RecordAlert(a alert.Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.logger.LogAlert(ctx, r.sessionID, a); err != nil {
		log.Warn("alert not persisted", "error", err, "key", a.Key())
	}
}
