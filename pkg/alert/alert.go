// Package alert defines the unified alert model and the arbitrator that
// merges proximity and remote sensor alerts into a small number of spoken
// announcements.
package alert

import (
	"time"
)

// Source identifies where an alert came from.
type Source string

// Alert sources.
const (
	SourceProximity  Source = "proximity"
	SourceFall       Source = "fall"
	SourceEmergency  Source = "emergency"
	SourceAssistance Source = "assistance"
)

// Safety reports whether the source is safety-critical. Safety-critical
// alerts bypass the per-cycle dispatch cap.
func (s Source) Safety() bool {
	return s == SourceFall || s == SourceEmergency
}

// Severity ranks alerts for the limited announcement slots.
// Higher values are more severe.
type Severity int

// Severity tiers.
const (
	SeverityFar Severity = iota
	SeverityWarning
	SeverityCritical
)

// String returns the tier name.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	default:
		return "far"
	}
}

// Alert is one candidate announcement.
type Alert struct {
	Source    Source
	Severity  Severity
	Object    string // object class or alert category
	Direction string // left/ahead/right, empty when not positional
	Text      string // spoken announcement
	Timestamp time.Time
}

// Key is the dedup identity: two alerts with the same key are "the same"
// for cooldown purposes.
func (a Alert) Key() string {
	dir := a.Direction
	if dir == "" {
		dir = "none"
	}
	return string(a.Source) + "|" + a.Object + "|" + dir
}
