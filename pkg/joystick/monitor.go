package joystick

import (
	"context"
	"time"

	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/alertstate"
	"github.com/aldercare/go-vigil/pkg/ledpanel"
)

// EmergencyType is the event type recorded for a center button press.
const EmergencyType = "manual_button_press"

// Monitor polls the device and turns presses into store records plus
// blocking LED feedback. Each feedback sequence runs to completion before
// the next capture cycle.
type Monitor struct {
	device  Device
	store   *alertstate.Store
	flasher *ledpanel.Flasher

	// Interval is the polling period. Defaults to 100 ms (10 Hz).
	Interval time.Duration

	// OnEmergency, if set, is called after an emergency press is recorded.
	OnEmergency func(ts time.Time)

	// OnAssistance, if set, is called after an assistance request is recorded.
	OnAssistance func(ts time.Time, req AssistanceType)

	// now is replaceable in tests.
	now func() time.Time
}

// NewMonitor creates a monitor writing into store with feedback on flasher.
func NewMonitor(device Device, store *alertstate.Store, flasher *ledpanel.Flasher) *Monitor {
	return &Monitor{
		device:   device,
		store:    store,
		flasher:  flasher,
		Interval: 100 * time.Millisecond,
		now:      time.Now,
	}
}

// Run polls until ctx is done. Device errors are logged and retried after
// a 1 s pause, never fatal.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		events, err := m.device.Events()
		if err != nil {
			log.Warn("joystick read failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		for _, ev := range events {
			m.handle(ev)
		}
	}
}

// handle processes one press, including its blocking feedback sequence.
func (m *Monitor) handle(ev PressEvent) {
	ts := m.now()

	if ev.Direction == Center {
		m.store.RecordEmergency(ts, EmergencyType)
		log.Info("emergency button pressed")
		m.flasher.Flash(ledpanel.EmergencyFlash)
		if m.OnEmergency != nil {
			m.OnEmergency(ts)
		}
		return
	}

	req, ok := AssistanceFor(ev.Direction)
	if !ok {
		return
	}
	info := req.Info()
	m.store.RecordAssistance(ts, info.Name, info.Message, string(ev.Direction))
	log.Info("assistance requested", "type", info.Name)
	m.flasher.Flash(ledpanel.AssistanceFlash(info.Color))
	if m.OnAssistance != nil {
		m.OnAssistance(ts, req)
	}
}
