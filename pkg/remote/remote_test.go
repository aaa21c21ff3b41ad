package remote

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aldercare/go-vigil/pkg/alert"
)

type captureSink struct {
	offered []alert.Alert
}

func (c *captureSink) Offer(_ time.Time, candidates []alert.Alert) []alert.Alert {
	c.offered = append(c.offered, candidates...)
	return candidates
}

func newHub(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPoller_ActiveFallProducesCandidate(t *testing.T) {
	srv := newHub(t, map[string]string{
		"/api/fall_status": `{"fall_detected": true, "last_fall_timestamp": 1750000000.5, "fall_history": []}`,
	})
	sink := &captureSink{}
	p := NewPoller(srv.URL, time.Second, time.Second, sink)

	p.poll(CategoryFall, time.Now())

	if len(sink.offered) != 1 {
		t.Fatalf("got %d candidates, want 1", len(sink.offered))
	}
	a := sink.offered[0]
	if a.Source != alert.SourceFall || a.Severity != alert.SeverityCritical {
		t.Errorf("candidate = %+v", a)
	}
}

func TestPoller_InactiveStatusProducesNothing(t *testing.T) {
	srv := newHub(t, map[string]string{
		"/api/emergency_status": `{"emergency_active": false, "emergency_history": []}`,
	})
	sink := &captureSink{}
	p := NewPoller(srv.URL, time.Second, time.Second, sink)

	p.poll(CategoryEmergency, time.Now())

	if len(sink.offered) != 0 {
		t.Fatalf("got %d candidates, want 0", len(sink.offered))
	}
}

func TestPoller_AssistanceCarriesType(t *testing.T) {
	srv := newHub(t, map[string]string{
		"/api/assistance_status": `{"assistance_active": true, "assistance_type": "bathroom"}`,
	})
	sink := &captureSink{}
	p := NewPoller(srv.URL, time.Second, time.Second, sink)

	p.poll(CategoryAssistance, time.Now())

	if len(sink.offered) != 1 {
		t.Fatalf("got %d candidates, want 1", len(sink.offered))
	}
	a := sink.offered[0]
	if a.Object != "bathroom" || a.Severity != alert.SeverityWarning {
		t.Errorf("candidate = %+v", a)
	}
	if a.Key() != "assistance|bathroom|none" {
		t.Errorf("key = %q", a.Key())
	}
}

func TestPoller_FailuresAreSwallowed(t *testing.T) {
	srv := newHub(t, map[string]string{}) // every endpoint 404s
	sink := &captureSink{}
	p := NewPoller(srv.URL, time.Second, time.Second, sink)

	now := time.Now()
	p.poll(CategoryFall, now)

	if len(sink.offered) != 0 {
		t.Fatalf("got %d candidates after failed poll, want 0", len(sink.offered))
	}
	ts, ok := p.LastChecked(CategoryFall)
	if !ok || !ts.Equal(now) {
		t.Errorf("last checked = %v %v, want %v", ts, ok, now)
	}
}

func TestPoller_UnreachableHub(t *testing.T) {
	sink := &captureSink{}
	p := NewPoller("http://127.0.0.1:1", time.Second, 100*time.Millisecond, sink)

	p.poll(CategoryEmergency, time.Now())

	if len(sink.offered) != 0 {
		t.Fatalf("got %d candidates from unreachable hub, want 0", len(sink.offered))
	}
}
