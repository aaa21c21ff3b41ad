// Package remote polls the sensor hub's status API and converts active
// conditions into alert candidates for the arbitrator.
//
// Polling is level-triggered: an active flag on the hub re-produces a
// candidate every tick until it is acknowledged there, and the local
// cooldown windows decide how often those candidates are actually spoken.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/aldercare/go-vigil/internal/httpc"
	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/alert"
)

// Category is one remotely polled alert category. Each category keeps
// its own last-checked timestamp so a failure in one endpoint never
// delays the others.
type Category string

// Polled categories.
const (
	CategoryFall       Category = "fall"
	CategoryEmergency  Category = "emergency"
	CategoryAssistance Category = "assistance"
)

func (c Category) endpoint() string {
	switch c {
	case CategoryFall:
		return "/api/fall_status"
	case CategoryEmergency:
		return "/api/emergency_status"
	default:
		return "/api/assistance_status"
	}
}

// fallStatus mirrors the hub's fall status payload.
type fallStatus struct {
	FallDetected bool `json:"fall_detected"`
}

type emergencyStatus struct {
	EmergencyActive bool `json:"emergency_active"`
}

type assistanceStatus struct {
	AssistanceActive bool    `json:"assistance_active"`
	AssistanceType   *string `json:"assistance_type"`
}

// Sink receives candidate alerts from poll ticks.
type Sink interface {
	Offer(now time.Time, candidates []alert.Alert) []alert.Alert
}

// Poller periodically reads the hub's status surface.
type Poller struct {
	hubURL   string
	interval time.Duration
	client   *http.Client
	sink     Sink

	mu          sync.Mutex
	lastChecked map[Category]time.Time
}

// NewPoller creates a poller against hubURL. Each request uses a short
// timeout so a stalled hub cannot block a tick past its deadline.
func NewPoller(hubURL string, interval, timeout time.Duration, sink Sink) *Poller {
	return &Poller{
		hubURL:      hubURL,
		interval:    interval,
		client:      httpc.NewClient(timeout),
		sink:        sink,
		lastChecked: make(map[Category]time.Time),
	}
}

// Run drives one category's poll loop until ctx is cancelled. Start it
// once per category; loops are independent of each other.
func (p *Poller) Run(ctx context.Context, cat Category) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			p.poll(cat, now)
		}
	}
}

// LastChecked returns when cat last completed a poll attempt,
// successful or not.
func (p *Poller) LastChecked(cat Category) (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ts, ok := p.lastChecked[cat]
	return ts, ok
}

// poll fetches one category and forwards any active condition to the
// sink. Failures are logged at debug and retried next tick; the hub
// being unreachable is a normal operating condition.
func (p *Poller) poll(cat Category, now time.Time) {
	p.mu.Lock()
	p.lastChecked[cat] = now
	p.mu.Unlock()

	body, err := p.fetch(cat)
	if err != nil {
		log.Debug("hub poll failed", "category", string(cat), "error", err)
		return
	}

	if a, ok := p.candidate(cat, body, now); ok {
		p.sink.Offer(now, []alert.Alert{a})
	}
}

func (p *Poller) fetch(cat Category) ([]byte, error) {
	resp, err := p.client.Get(p.hubURL + cat.endpoint())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hub returned %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<16))
}

// candidate decodes one status payload into an alert when the category
// is active.
func (p *Poller) candidate(cat Category, body []byte, now time.Time) (alert.Alert, bool) {
	switch cat {
	case CategoryFall:
		var st fallStatus
		if err := json.Unmarshal(body, &st); err != nil || !st.FallDetected {
			return alert.Alert{}, false
		}
		return alert.Alert{
			Source:    alert.SourceFall,
			Severity:  alert.SeverityCritical,
			Object:    "fall",
			Text:      "Alert. A fall has been detected. Please check on the resident.",
			Timestamp: now,
		}, true
	case CategoryEmergency:
		var st emergencyStatus
		if err := json.Unmarshal(body, &st); err != nil || !st.EmergencyActive {
			return alert.Alert{}, false
		}
		return alert.Alert{
			Source:    alert.SourceEmergency,
			Severity:  alert.SeverityCritical,
			Object:    "emergency",
			Text:      "Alert. The emergency button has been pressed.",
			Timestamp: now,
		}, true
	default:
		var st assistanceStatus
		if err := json.Unmarshal(body, &st); err != nil || !st.AssistanceActive {
			return alert.Alert{}, false
		}
		kind := "general"
		if st.AssistanceType != nil {
			kind = *st.AssistanceType
		}
		return alert.Alert{
			Source:    alert.SourceAssistance,
			Severity:  alert.SeverityWarning,
			Object:    kind,
			Text:      fmt.Sprintf("Assistance requested: %s.", kind),
			Timestamp: now,
		}, true
	}
}
