// Package alertstate owns the sensor hub's shared alert state.
//
// One Store instance holds the current fall, emergency, assistance and
// environmental state plus bounded event histories. Every field is reachable
// only through locked accessors; writers (classifier, joystick worker,
// environment sampler) and readers (status API) never touch fields directly.
// Active flags are cleared only by an explicit acknowledge, never by time.
package alertstate

import (
	"sync"
	"time"
)

// History capacities. Oldest entries are evicted first.
const (
	FallHistoryCap       = 10
	EmergencyHistoryCap  = 10
	AssistanceHistoryCap = 20
)

// FallRecord is one confirmed fall in the history.
type FallRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Acceleration float64   `json:"acceleration"`
	Rotation     float64   `json:"rotation"`
}

// EmergencyRecord is one emergency button press.
type EmergencyRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
}

// AssistanceRecord is one assistance request.
type AssistanceRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Direction string    `json:"direction"`
}

// EnvSnapshot is the current environmental reading. Single value, no history.
type EnvSnapshot struct {
	TemperatureC float64   `json:"temperature_c"`
	TemperatureF float64   `json:"temperature_f"`
	Humidity     float64   `json:"humidity"`
	Pressure     float64   `json:"pressure"`
	LastUpdate   time.Time `json:"last_update"`
}

// FallStatus is the externally exposed fall state.
type FallStatus struct {
	FallDetected      bool         `json:"fall_detected"`
	LastFallTimestamp *float64     `json:"last_fall_timestamp"` // epoch seconds
	FallHistory       []FallRecord `json:"fall_history"`
}

// EmergencyStatus is the externally exposed emergency state.
type EmergencyStatus struct {
	EmergencyActive        bool              `json:"emergency_active"`
	LastEmergencyTimestamp *float64          `json:"last_emergency_timestamp"`
	EmergencyHistory       []EmergencyRecord `json:"emergency_history"`
}

// AssistanceStatus is the externally exposed assistance state.
type AssistanceStatus struct {
	AssistanceActive        bool               `json:"assistance_active"`
	AssistanceType          *string            `json:"assistance_type"`
	LastAssistanceTimestamp *float64           `json:"last_assistance_timestamp"`
	AssistanceHistory       []AssistanceRecord `json:"assistance_history"`
}

// Store is the hub's single shared alert record. The zero value is not
// usable; call New.
type Store struct {
	mu sync.Mutex

	fallDetected bool
	lastFall     time.Time
	falls        *history[FallRecord]

	emergencyActive bool
	lastEmergency   time.Time
	emergencies     *history[EmergencyRecord]

	assistanceType string // empty when none active
	lastAssistance time.Time
	assistance     *history[AssistanceRecord]

	env EnvSnapshot
}

// New creates an empty store.
func New() *Store {
	return &Store{
		falls:       newHistory[FallRecord](FallHistoryCap),
		emergencies: newHistory[EmergencyRecord](EmergencyHistoryCap),
		assistance:  newHistory[AssistanceRecord](AssistanceHistoryCap),
	}
}

// RecordFall marks a fall active and appends it to the history.
func (s *Store) RecordFall(ts time.Time, acceleration, rotation float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallDetected = true
	s.lastFall = ts
	s.falls.add(FallRecord{Timestamp: ts, Acceleration: acceleration, Rotation: rotation})
}

// RecordEmergency marks the emergency flag active and appends the press.
func (s *Store) RecordEmergency(ts time.Time, eventType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emergencyActive = true
	s.lastEmergency = ts
	s.emergencies.add(EmergencyRecord{Timestamp: ts, Type: eventType})
}

// RecordAssistance sets the active assistance type, overwriting any prior
// request without requiring acknowledgment, and appends to the history.
func (s *Store) RecordAssistance(ts time.Time, reqType, message, direction string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assistanceType = reqType
	s.lastAssistance = ts
	s.assistance.add(AssistanceRecord{
		Timestamp: ts,
		Type:      reqType,
		Message:   message,
		Direction: direction,
	})
}

// SetEnvironment replaces the environmental snapshot.
func (s *Store) SetEnvironment(snap EnvSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.env = snap
}

// AcknowledgeFall clears the fall flag. Idempotent; history is untouched.
func (s *Store) AcknowledgeFall() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallDetected = false
}

// AcknowledgeEmergency clears the emergency flag. Idempotent.
func (s *Store) AcknowledgeEmergency() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emergencyActive = false
}

// AcknowledgeAssistance clears the active assistance request. Idempotent.
func (s *Store) AcknowledgeAssistance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assistanceType = ""
}

// Fall returns the fall status snapshot.
func (s *Store) Fall() FallStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FallStatus{
		FallDetected:      s.fallDetected,
		LastFallTimestamp: epochOrNil(s.lastFall),
		FallHistory:       s.falls.list(),
	}
}

// Emergency returns the emergency status snapshot.
func (s *Store) Emergency() EmergencyStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EmergencyStatus{
		EmergencyActive:        s.emergencyActive,
		LastEmergencyTimestamp: epochOrNil(s.lastEmergency),
		EmergencyHistory:       s.emergencies.list(),
	}
}

// Assistance returns the assistance status snapshot.
func (s *Store) Assistance() AssistanceStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := AssistanceStatus{
		AssistanceActive:        s.assistanceType != "",
		LastAssistanceTimestamp: epochOrNil(s.lastAssistance),
		AssistanceHistory:       s.assistance.list(),
	}
	if s.assistanceType != "" {
		t := s.assistanceType
		st.AssistanceType = &t
	}
	return st
}

// Environment returns the environmental snapshot.
func (s *Store) Environment() EnvSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.env
}

// AnyActive reports whether any alert flag is set. The idle LED animator
// yields while this is true.
func (s *Store) AnyActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fallDetected || s.emergencyActive || s.assistanceType != ""
}

func epochOrNil(t time.Time) *float64 {
	if t.IsZero() {
		return nil
	}
	secs := float64(t.UnixNano()) / float64(time.Second)
	return &secs
}
