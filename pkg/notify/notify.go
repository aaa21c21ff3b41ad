// Package notify pushes accepted safety events to caregivers over
// out-of-band channels. Notifiers are optional; the hub runs fine with
// none configured.
package notify

import (
	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/alert"
)

// Notifier delivers one alert to an external channel.
type Notifier interface {
	Notify(a alert.Alert) error
	Close() error
}

// Multi fans an alert out to several notifiers. Delivery failures are
// logged per notifier and do not stop the others.
type Multi struct {
	notifiers []Notifier
}

// NewMulti builds a fan-out over notifiers; nil entries are skipped.
func NewMulti(notifiers ...Notifier) *Multi {
	m := &Multi{}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

// Len returns the number of configured notifiers.
func (m *Multi) Len() int { return len(m.notifiers) }

// Notify delivers a to every notifier.
func (m *Multi) Notify(a alert.Alert) error {
	for _, n := range m.notifiers {
		if err := n.Notify(a); err != nil {
			log.Warn("caregiver notification failed", "error", err, "key", a.Key())
		}
	}
	return nil
}

// Close closes every notifier.
func (m *Multi) Close() error {
	for _, n := range m.notifiers {
		n.Close()
	}
	return nil
}
