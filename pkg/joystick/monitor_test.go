package joystick

import (
	"testing"
	"time"

	"github.com/aldercare/go-vigil/pkg/alertstate"
	"github.com/aldercare/go-vigil/pkg/ledpanel"
)

func newTestMonitor() (*Monitor, *alertstate.Store, *ledpanel.Mock) {
	store := alertstate.New()
	panel := ledpanel.NewMock()
	flasher := ledpanel.NewFlasher(panel)
	flasher.Sleep = func(time.Duration) {}
	m := NewMonitor(NewMock(), store, flasher)
	m.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }
	return m, store, panel
}

func TestMonitor_CenterPressRaisesEmergency(t *testing.T) {
	m, store, panel := newTestMonitor()

	var notified bool
	m.OnEmergency = func(time.Time) { notified = true }

	m.handle(PressEvent{Direction: Center})

	st := store.Emergency()
	if !st.EmergencyActive {
		t.Fatal("emergency flag not set")
	}
	if len(st.EmergencyHistory) != 1 || st.EmergencyHistory[0].Type != EmergencyType {
		t.Errorf("history: got %+v", st.EmergencyHistory)
	}
	if got := panel.Fills(ledpanel.White); got != 10 {
		t.Errorf("feedback flashes: got %d, want 10", got)
	}
	if !notified {
		t.Error("OnEmergency callback not invoked")
	}
}

func TestMonitor_DirectionalPressRaisesAssistance(t *testing.T) {
	cases := []struct {
		dir      Direction
		wantType string
	}{
		{Up, "General Help"},
		{Down, "Bathroom"},
		{Left, "Food/Water"},
		{Right, "Medication"},
	}

	for _, tc := range cases {
		m, store, panel := newTestMonitor()
		m.handle(PressEvent{Direction: tc.dir})

		st := store.Assistance()
		if st.AssistanceType == nil || *st.AssistanceType != tc.wantType {
			t.Errorf("%s: active type got %v, want %s", tc.dir, st.AssistanceType, tc.wantType)
		}
		if len(st.AssistanceHistory) != 1 {
			t.Fatalf("%s: history length %d", tc.dir, len(st.AssistanceHistory))
		}
		if st.AssistanceHistory[0].Direction != string(tc.dir) {
			t.Errorf("%s: recorded direction %s", tc.dir, st.AssistanceHistory[0].Direction)
		}

		req, _ := AssistanceFor(tc.dir)
		if got := panel.Fills(req.Info().Color); got != 5 {
			t.Errorf("%s: colored flashes got %d, want 5", tc.dir, got)
		}
	}
}

func TestMonitor_NewRequestOverwritesActive(t *testing.T) {
	m, store, _ := newTestMonitor()

	m.handle(PressEvent{Direction: Down})
	m.handle(PressEvent{Direction: Right})

	st := store.Assistance()
	if st.AssistanceType == nil || *st.AssistanceType != "Medication" {
		t.Errorf("active type: got %v, want Medication (overwrite without ack)", st.AssistanceType)
	}
}

func TestMock_EventsDrainQueue(t *testing.T) {
	d := NewMock()
	d.Press(Center)
	d.Press(Up)

	events, err := d.Events()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("first drain: got %d events, want 2", len(events))
	}

	events, _ = d.Events()
	if len(events) != 0 {
		t.Errorf("second drain: got %d events, want 0", len(events))
	}
}
