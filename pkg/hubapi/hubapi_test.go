package hubapi

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aldercare/go-vigil/pkg/alertstate"
	"github.com/aldercare/go-vigil/pkg/imu"
)

type fakeDiag struct {
	reading imu.Reading
	ok      bool
}

func (f fakeDiag) Latest() (imu.Reading, bool) { return f.reading, f.ok }

func get(t *testing.T, s *Server, path string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("GET %s: bad JSON %q: %v", path, body, err)
	}
	return resp.StatusCode, decoded
}

func TestServer_FallStatusAndAcknowledge(t *testing.T) {
	store := alertstate.New()
	store.RecordFall(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), 2.4, 180)
	s := NewServer(":0", store, nil)

	code, body := get(t, s, "/api/fall_status")
	if code != 200 {
		t.Fatalf("status: %d", code)
	}
	if body["fall_detected"] != true {
		t.Error("fall_detected: want true")
	}
	if body["last_fall_timestamp"] == nil {
		t.Error("last_fall_timestamp: want non-null")
	}
	if hist, ok := body["fall_history"].([]any); !ok || len(hist) != 1 {
		t.Errorf("fall_history: got %v", body["fall_history"])
	}

	code, body = get(t, s, "/api/fall_acknowledge")
	if code != 200 || body["status"] != "acknowledged" {
		t.Fatalf("acknowledge: code %d body %v", code, body)
	}

	_, body = get(t, s, "/api/fall_status")
	if body["fall_detected"] != false {
		t.Error("fall_detected after ack: want false")
	}
	if hist := body["fall_history"].([]any); len(hist) != 1 {
		t.Error("acknowledge must not clear history")
	}
}

func TestServer_AssistanceStatusShape(t *testing.T) {
	store := alertstate.New()
	s := NewServer(":0", store, nil)

	_, body := get(t, s, "/api/assistance_status")
	if body["assistance_active"] != false {
		t.Error("assistance_active: want false")
	}
	if body["assistance_type"] != nil {
		t.Errorf("assistance_type: got %v, want null", body["assistance_type"])
	}

	store.RecordAssistance(time.Now(), "Food/Water", "Resident needs food or water", "left")
	_, body = get(t, s, "/api/assistance_status")
	if body["assistance_type"] != "Food/Water" {
		t.Errorf("assistance_type: got %v", body["assistance_type"])
	}
}

func TestServer_SensorDataUnavailable(t *testing.T) {
	s := NewServer(":0", alertstate.New(), nil)
	code, _ := get(t, s, "/api/sensor_data")
	if code != 503 {
		t.Errorf("sensor_data without board: got %d, want 503", code)
	}
}

func TestServer_SensorData(t *testing.T) {
	diag := fakeDiag{
		reading: imu.Reading{
			Timestamp: time.Now(),
			Accel:     imu.Vec3{Z: 1.0},
			Gyro:      imu.Vec3{X: 2.5},
		},
		ok: true,
	}
	s := NewServer(":0", alertstate.New(), diag)

	code, body := get(t, s, "/api/sensor_data")
	if code != 200 {
		t.Fatalf("status: %d", code)
	}
	accel, ok := body["acceleration"].(map[string]any)
	if !ok || accel["z"] != 1.0 {
		t.Errorf("acceleration: got %v", body["acceleration"])
	}
}

func TestServer_EnvironmentalSnapshot(t *testing.T) {
	store := alertstate.New()
	store.SetEnvironment(alertstate.EnvSnapshot{
		TemperatureC: 21.0,
		TemperatureF: 69.8,
		Humidity:     48.0,
		Pressure:     1012.0,
		LastUpdate:   time.Now(),
	})
	s := NewServer(":0", store, nil)

	_, body := get(t, s, "/api/environmental")
	if body["temperature_c"] != 21.0 || body["humidity"] != 48.0 {
		t.Errorf("environmental: got %v", body)
	}
}
