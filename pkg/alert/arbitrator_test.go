package alert

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureAnnouncer struct {
	mu    sync.Mutex
	texts []string
}

func (c *captureAnnouncer) Submit(text string, _ Severity) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = append(c.texts, text)
	return true
}

type captureRecorder struct {
	mu     sync.Mutex
	alerts []Alert
}

func (c *captureRecorder) RecordAlert(a Alert) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append(c.alerts, a)
}

var now = time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)

func proximityAlert(object, direction string, sev Severity) Alert {
	return Alert{
		Source:    SourceProximity,
		Severity:  sev,
		Object:    object,
		Direction: direction,
		Text:      object + " " + direction,
		Timestamp: now,
	}
}

func TestArbitrator_CapPicksMostSevere(t *testing.T) {
	ann := &captureAnnouncer{}
	ar := NewArbitrator(DefaultConfig(), ann, nil)

	accepted := ar.Offer(now, []Alert{
		proximityAlert("chair", "left", SeverityWarning),
		proximityAlert("person", "ahead", SeverityCritical),
	})

	require.Len(t, accepted, 1)
	assert.Equal(t, "person", accepted[0].Object)
	assert.Equal(t, []string{"person ahead"}, ann.texts)
}

func TestArbitrator_CooldownDropsRepeatKey(t *testing.T) {
	ar := NewArbitrator(DefaultConfig(), nil, nil)
	a := proximityAlert("person", "ahead", SeverityCritical)

	require.Len(t, ar.Offer(now, []Alert{a}), 1)

	// Same key inside the 3 s critical window: dropped silently.
	assert.Empty(t, ar.Offer(now.Add(2*time.Second), []Alert{a}))

	// After the window elapses it is accepted again.
	assert.Len(t, ar.Offer(now.Add(3*time.Second), []Alert{a}), 1)
}

func TestArbitrator_SafetySourcesBypassCap(t *testing.T) {
	rec := &captureRecorder{}
	ar := NewArbitrator(DefaultConfig(), nil, rec)

	fall := Alert{Source: SourceFall, Severity: SeverityCritical, Object: "fall", Text: "Fall detected"}
	emergency := Alert{Source: SourceEmergency, Severity: SeverityCritical, Object: "emergency", Text: "Emergency button pressed"}

	accepted := ar.Offer(now, []Alert{
		proximityAlert("person", "ahead", SeverityCritical),
		fall,
		emergency,
	})

	// Cap of 1 applies to proximity only; fall and emergency ride along.
	require.Len(t, accepted, 3)
	assert.Len(t, rec.alerts, 3)
}

func TestArbitrator_CappedCandidateNotStamped(t *testing.T) {
	ar := NewArbitrator(DefaultConfig(), nil, nil)

	critical := proximityAlert("person", "ahead", SeverityCritical)
	warning := proximityAlert("chair", "left", SeverityWarning)

	accepted := ar.Offer(now, []Alert{warning, critical})
	require.Len(t, accepted, 1)
	require.Equal(t, "person", accepted[0].Object)

	// The capped-out warning was never dispatched, so its cooldown was
	// not consumed: it wins the next cycle outright.
	accepted = ar.Offer(now.Add(time.Second), []Alert{warning})
	require.Len(t, accepted, 1)
	assert.Equal(t, "chair", accepted[0].Object)
}

func TestArbitrator_LevelTriggeredRemoteRealerts(t *testing.T) {
	ar := NewArbitrator(Config{
		DispatchCap: 1,
		Windows: Windows{
			Emergency: 4 * time.Second, // 2x the poll interval below
		},
	}, nil, nil)

	// Remote emergency_active stays true across three 2 s poll ticks.
	emergency := Alert{Source: SourceEmergency, Severity: SeverityCritical, Object: "emergency", Text: "Emergency"}

	total := 0
	for tick := 0; tick < 3; tick++ {
		total += len(ar.Offer(now.Add(time.Duration(tick)*2*time.Second), []Alert{emergency}))
	}

	// Accepted at t=0 and t=4s; the t=2s tick falls inside the window.
	assert.Equal(t, 2, total)
}

func TestCooldown_ZeroWindowAlwaysAllows(t *testing.T) {
	c := NewCooldown()
	assert.True(t, c.Allow("k", now, 0))
	assert.True(t, c.Allow("k", now, 0))
}

func TestAlert_KeyComposition(t *testing.T) {
	a := proximityAlert("person", "left", SeverityWarning)
	assert.Equal(t, "proximity|person|left", a.Key())

	fall := Alert{Source: SourceFall, Object: "fall"}
	assert.Equal(t, "fall|fall|none", fall.Key())
}
