package alert

import (
	"sort"
	"time"

	"github.com/aldercare/go-vigil/internal/log"
)

// Announcer receives accepted alert text. Submissions must not block.
type Announcer interface {
	Submit(text string, severity Severity) bool
}

// Recorder receives every accepted alert for durable logging.
type Recorder interface {
	RecordAlert(a Alert)
}

// Windows holds the per-category cooldown windows.
type Windows struct {
	ProximityCritical time.Duration
	ProximityOther    time.Duration
	Fall              time.Duration
	Emergency         time.Duration
	Assistance        time.Duration
}

// Config tunes the arbitrator.
type Config struct {
	// DispatchCap limits proximity announcements per cycle. Safety
	// sources (fall, emergency) always dispatch regardless.
	DispatchCap int

	Windows Windows
}

// DefaultConfig returns the production arbitration policy: one proximity
// announcement per cycle, most severe first.
func DefaultConfig() Config {
	return Config{
		DispatchCap: 1,
		Windows: Windows{
			ProximityCritical: 3 * time.Second,
			ProximityOther:    5 * time.Second,
			Fall:              15 * time.Second,
			Emergency:         15 * time.Second,
			Assistance:        20 * time.Second,
		},
	}
}

// window returns the cooldown for one alert.
func (c Config) window(a Alert) time.Duration {
	switch a.Source {
	case SourceFall:
		return c.Windows.Fall
	case SourceEmergency:
		return c.Windows.Emergency
	case SourceAssistance:
		return c.Windows.Assistance
	default:
		if a.Severity == SeverityCritical {
			return c.Windows.ProximityCritical
		}
		return c.Windows.ProximityOther
	}
}

// Arbitrator deduplicates, prioritizes and throttles candidate alerts.
// Proximity generation and remote polling feed it on their own cadences;
// each call to Offer is one cycle.
type Arbitrator struct {
	cfg       Config
	cooldown  *Cooldown
	announcer Announcer
	recorder  Recorder
}

// NewArbitrator creates an arbitrator. announcer and recorder may be nil.
func NewArbitrator(cfg Config, announcer Announcer, recorder Recorder) *Arbitrator {
	if cfg.DispatchCap < 1 {
		cfg.DispatchCap = 1
	}
	return &Arbitrator{
		cfg:       cfg,
		cooldown:  NewCooldown(),
		announcer: announcer,
		recorder:  recorder,
	}
}

// Offer arbitrates one cycle of candidates and returns those accepted.
// Candidates inside their cooldown window are dropped silently. Survivors
// dispatch most severe first, capped per cycle; fall and emergency bypass
// the cap. The cooldown stamp is recorded only for dispatched alerts, so a
// capped-out candidate may still win a later cycle.
func (ar *Arbitrator) Offer(now time.Time, candidates []Alert) []Alert {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]Alert, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity > sorted[j].Severity
	})

	var accepted []Alert
	capped := 0
	for _, a := range sorted {
		window := ar.cfg.window(a)
		if ar.cooldown.Blocked(a.Key(), now, window) {
			continue
		}
		if !a.Source.Safety() {
			if capped >= ar.cfg.DispatchCap {
				continue
			}
			capped++
		}
		ar.cooldown.Allow(a.Key(), now, window)
		accepted = append(accepted, a)
		ar.dispatch(a)
	}
	return accepted
}

func (ar *Arbitrator) dispatch(a Alert) {
	log.Info("alert accepted", "source", a.Source, "severity", a.Severity.String(), "key", a.Key())
	if ar.announcer != nil {
		if !ar.announcer.Submit(a.Text, a.Severity) {
			log.Warn("announcement queue full, alert spoken late or dropped", "key", a.Key())
		}
	}
	if ar.recorder != nil {
		ar.recorder.RecordAlert(a)
	}
}
