package visionapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/aldercare/go-vigil/pkg/alert"
	"github.com/aldercare/go-vigil/pkg/sessionlog"
)

type staticScene map[string]int

func (s staticScene) Scene() map[string]int { return s }

func newTestServer(t *testing.T) (*Server, *sessionlog.Logger, string) {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "dash_test.db")
	logger, err := sessionlog.Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open logger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	id, err := logger.StartSession(context.Background())
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	srv := NewServer(":0", logger, staticScene{"person": 1, "tv": 2}, id)
	return srv, logger, id
}

func get(t *testing.T, s *Server, path string) (int, []byte) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body
}

func TestServer_Health(t *testing.T) {
	srv, _, _ := newTestServer(t)

	status, body := get(t, srv, "/api/health")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if out["status"] != "ok" {
		t.Errorf("health = %v", out)
	}
}

func TestServer_Scene(t *testing.T) {
	srv, _, _ := newTestServer(t)

	status, body := get(t, srv, "/api/scene")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var out struct {
		Objects map[string]int `json:"objects"`
		Total   int            `json:"total"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if out.Total != 3 || out.Objects["tv"] != 2 {
		t.Errorf("scene = %+v", out)
	}
}

func TestServer_RecentAlertsAndSessions(t *testing.T) {
	srv, logger, id := newTestServer(t)
	ctx := context.Background()

	if err := logger.LogAlert(ctx, id, alert.Alert{
		Source:    alert.SourceProximity,
		Severity:  alert.SeverityCritical,
		Object:    "person",
		Direction: "ahead",
		Text:      "Warning. person very close ahead.",
		Timestamp: time.Now(),
	}); err != nil {
		t.Fatalf("log alert: %v", err)
	}

	status, body := get(t, srv, "/api/alerts/recent?limit=10")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var alerts []sessionlog.AlertRow
	if err := json.Unmarshal(body, &alerts); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Object != "person" {
		t.Errorf("alerts = %+v", alerts)
	}

	status, body = get(t, srv, "/api/sessions")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var sessions []sessionlog.Session
	if err := json.Unmarshal(body, &sessions); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != id {
		t.Errorf("sessions = %+v", sessions)
	}

	status, body = get(t, srv, "/api/sessions/"+id)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var stats sessionlog.SessionStats
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(stats.AlertTimeline) != 1 {
		t.Errorf("timeline = %+v", stats.AlertTimeline)
	}
}

func TestServer_Overview(t *testing.T) {
	srv, _, _ := newTestServer(t)

	status, body := get(t, srv, "/api/stats/overview")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var o sessionlog.Overview
	if err := json.Unmarshal(body, &o); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if o.TotalSessions != 1 {
		t.Errorf("overview = %+v", o)
	}
}
