package alertstate

import (
	"testing"
	"time"
)

var base = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func TestStore_FallHistoryBounded(t *testing.T) {
	s := New()

	for i := 0; i < FallHistoryCap+1; i++ {
		s.RecordFall(base.Add(time.Duration(i)*time.Minute), float64(i), 100)
	}

	st := s.Fall()
	if len(st.FallHistory) != FallHistoryCap {
		t.Fatalf("history length: got %d, want %d", len(st.FallHistory), FallHistoryCap)
	}
	// Oldest (acceleration 0) evicted; entries 1..10 retained in order.
	if st.FallHistory[0].Acceleration != 1 {
		t.Errorf("oldest retained entry: got accel %v, want 1", st.FallHistory[0].Acceleration)
	}
	if st.FallHistory[FallHistoryCap-1].Acceleration != float64(FallHistoryCap) {
		t.Errorf("newest entry: got accel %v, want %d", st.FallHistory[FallHistoryCap-1].Acceleration, FallHistoryCap)
	}
}

func TestStore_AcknowledgeIsIdempotent(t *testing.T) {
	s := New()
	s.RecordFall(base, 2.5, 200)

	if !s.Fall().FallDetected {
		t.Fatal("fall flag not set after record")
	}

	s.AcknowledgeFall()
	s.AcknowledgeFall() // second ack is a no-op, not an error

	st := s.Fall()
	if st.FallDetected {
		t.Error("fall flag still set after acknowledge")
	}
	if len(st.FallHistory) != 1 {
		t.Errorf("acknowledge cleared history: got %d entries, want 1", len(st.FallHistory))
	}
	if st.LastFallTimestamp == nil {
		t.Error("acknowledge cleared last timestamp")
	}
}

func TestStore_AssistanceOverwrite(t *testing.T) {
	s := New()

	s.RecordAssistance(base, "Bathroom", "Resident needs bathroom assistance", "down")
	s.RecordAssistance(base.Add(time.Minute), "Medication", "Resident needs medication", "right")

	st := s.Assistance()
	if !st.AssistanceActive {
		t.Fatal("assistance not active")
	}
	if st.AssistanceType == nil || *st.AssistanceType != "Medication" {
		t.Errorf("active type: got %v, want Medication", st.AssistanceType)
	}
	if len(st.AssistanceHistory) != 2 {
		t.Errorf("history: got %d entries, want 2", len(st.AssistanceHistory))
	}

	s.AcknowledgeAssistance()
	st = s.Assistance()
	if st.AssistanceActive {
		t.Error("assistance still active after acknowledge")
	}
	if st.AssistanceType != nil {
		t.Errorf("assistance type after acknowledge: got %v, want nil", *st.AssistanceType)
	}
}

func TestStore_TimestampsNullUntilFirstEvent(t *testing.T) {
	s := New()
	if ts := s.Fall().LastFallTimestamp; ts != nil {
		t.Errorf("fall timestamp before any event: got %v, want nil", *ts)
	}
	if ts := s.Emergency().LastEmergencyTimestamp; ts != nil {
		t.Errorf("emergency timestamp before any event: got %v, want nil", *ts)
	}
}

func TestStore_AnyActive(t *testing.T) {
	s := New()
	if s.AnyActive() {
		t.Fatal("empty store reports active alerts")
	}

	s.RecordEmergency(base, "manual_button_press")
	if !s.AnyActive() {
		t.Fatal("emergency not reflected in AnyActive")
	}
	s.AcknowledgeEmergency()
	if s.AnyActive() {
		t.Fatal("AnyActive true after all flags cleared")
	}
}
