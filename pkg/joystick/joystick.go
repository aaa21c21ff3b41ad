// Package joystick captures discrete button presses from the hub's
// directional input device.
//
// The center control raises an emergency; the four directional controls
// raise assistance requests. Presses are edge events delivered by the
// device, not levels, so no debouncing happens here.
package joystick

import (
	"github.com/aldercare/go-vigil/pkg/ledpanel"
)

// Direction identifies a control on the device.
type Direction string

// Device controls.
const (
	Center Direction = "middle"
	Up     Direction = "up"
	Down   Direction = "down"
	Left   Direction = "left"
	Right  Direction = "right"
)

// PressEvent is one button press drained from the device queue.
type PressEvent struct {
	Direction Direction
}

// Device is the input device interface.
type Device interface {
	// Events drains and returns the presses queued since the last call.
	Events() ([]PressEvent, error)

	// Close releases the device.
	Close() error
}

// AssistanceType is the closed set of assistance requests.
type AssistanceType int

// Assistance request types, one per directional control.
const (
	AssistGeneral AssistanceType = iota
	AssistBathroom
	AssistFood
	AssistMedication
)

// AssistanceInfo describes one assistance type: the human-readable name
// and message recorded with the event, and the feedback flash color.
type AssistanceInfo struct {
	Name    string
	Message string
	Color   ledpanel.Color
}

// assistanceTable maps each type to its presentation. Adding a request
// type is an edit here plus a new Direction mapping, nothing else.
var assistanceTable = map[AssistanceType]AssistanceInfo{
	AssistGeneral:    {Name: "General Help", Message: "Resident needs general assistance", Color: ledpanel.Color{G: 255, B: 255}},
	AssistBathroom:   {Name: "Bathroom", Message: "Resident needs bathroom assistance", Color: ledpanel.Color{R: 255, B: 255}},
	AssistFood:       {Name: "Food/Water", Message: "Resident needs food or water", Color: ledpanel.Color{R: 255, G: 165}},
	AssistMedication: {Name: "Medication", Message: "Resident needs medication", Color: ledpanel.Color{G: 255}},
}

// directionTable maps directional controls to assistance types.
var directionTable = map[Direction]AssistanceType{
	Up:    AssistGeneral,
	Down:  AssistBathroom,
	Left:  AssistFood,
	Right: AssistMedication,
}

// Info returns the presentation for an assistance type.
func (t AssistanceType) Info() AssistanceInfo {
	return assistanceTable[t]
}

// String returns the human-readable type name.
func (t AssistanceType) String() string {
	return assistanceTable[t].Name
}

// AssistanceFor maps a directional control to its assistance type.
// ok is false for the center control.
func AssistanceFor(d Direction) (AssistanceType, bool) {
	t, ok := directionTable[d]
	return t, ok
}
