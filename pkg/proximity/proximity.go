// Package proximity derives distance and direction alerts from raw object
// detections. It owns no camera and no model; it consumes detect.Result
// batches and emits alert candidates plus a per-cycle scene tally.
package proximity

import (
	"fmt"
	"sync"
	"time"

	"github.com/aldercare/go-vigil/pkg/alert"
	"github.com/aldercare/go-vigil/pkg/detect"
)

// Detection is one relevant object with its derived proximity attributes.
type Detection struct {
	Class      string         `json:"class"`
	Category   alert.Severity `json:"category"`
	Score      float64        `json:"score"` // bbox height / frame height
	Direction  string         `json:"direction"`
	Box        detect.Box     `json:"box"`
	Confidence float64        `json:"confidence"`
}

// Config tunes distance and direction classification.
type Config struct {
	// RelevantClasses is the allow-list of classes eligible for alerts.
	RelevantClasses []string

	// CriticalRatio and WarningRatio are the bbox-height/frame-height
	// thresholds for the critical and warning tiers.
	CriticalRatio float64
	WarningRatio  float64

	// CenterDeadzone is the fraction of frame width around center that
	// still counts as "ahead".
	CenterDeadzone float64
}

// DefaultConfig returns the thresholds tuned for indoor navigation.
func DefaultConfig() Config {
	return Config{
		RelevantClasses: []string{"person", "chair", "couch", "bed", "dining table", "dog", "cat"},
		CriticalRatio:   0.6,
		WarningRatio:    0.4,
		CenterDeadzone:  0.15,
	}
}

// Generator turns detection results into proximity alert candidates.
type Generator struct {
	relevant map[string]struct{}
	cfg      Config

	mu    sync.Mutex
	scene map[string]int
}

// NewGenerator builds a generator from cfg.
func NewGenerator(cfg Config) *Generator {
	relevant := make(map[string]struct{}, len(cfg.RelevantClasses))
	for _, c := range cfg.RelevantClasses {
		relevant[c] = struct{}{}
	}
	return &Generator{relevant: relevant, cfg: cfg, scene: map[string]int{}}
}

// Process classifies one inference cycle. It returns the relevant
// detections with their derived attributes and the matching alert
// candidates, and replaces the scene tally with this cycle's counts.
// Detections outside the allow-list only feed the tally.
func (g *Generator) Process(res detect.Result, now time.Time) ([]Detection, []alert.Alert) {
	scene := make(map[string]int, len(res.Detections))
	var dets []Detection
	var candidates []alert.Alert

	for _, d := range res.Detections {
		scene[d.Class]++
		if _, ok := g.relevant[d.Class]; !ok {
			continue
		}

		pd := Detection{
			Class:      d.Class,
			Category:   g.category(d.Box, res.FrameHeight),
			Score:      score(d.Box, res.FrameHeight),
			Direction:  g.direction(d.Box, res.FrameWidth),
			Box:        d.Box,
			Confidence: d.Confidence,
		}
		dets = append(dets, pd)
		candidates = append(candidates, alert.Alert{
			Source:    alert.SourceProximity,
			Severity:  pd.Category,
			Object:    pd.Class,
			Direction: pd.Direction,
			Text:      announcement(pd),
			Timestamp: now,
		})
	}

	g.mu.Lock()
	g.scene = scene
	g.mu.Unlock()

	return dets, candidates
}

// Scene returns a copy of the most recent cycle's object counts,
// including classes outside the allow-list.
func (g *Generator) Scene() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]int, len(g.scene))
	for k, v := range g.scene {
		out[k] = v
	}
	return out
}

func score(b detect.Box, frameHeight int) float64 {
	if frameHeight <= 0 {
		return 0
	}
	return float64(b.Height()) / float64(frameHeight)
}

func (g *Generator) category(b detect.Box, frameHeight int) alert.Severity {
	s := score(b, frameHeight)
	switch {
	case s > g.cfg.CriticalRatio:
		return alert.SeverityCritical
	case s > g.cfg.WarningRatio:
		return alert.SeverityWarning
	default:
		return alert.SeverityFar
	}
}

func (g *Generator) direction(b detect.Box, frameWidth int) string {
	if frameWidth <= 0 {
		return "ahead"
	}
	cx := b.CenterX() / float64(frameWidth)
	switch {
	case cx < 0.5-g.cfg.CenterDeadzone:
		return "left"
	case cx > 0.5+g.cfg.CenterDeadzone:
		return "right"
	default:
		return "ahead"
	}
}

func announcement(d Detection) string {
	dir := d.Direction
	if dir == "left" || dir == "right" {
		dir = "to your " + dir
	}
	switch d.Category {
	case alert.SeverityCritical:
		return fmt.Sprintf("Warning. %s very close %s.", d.Class, dir)
	case alert.SeverityWarning:
		return fmt.Sprintf("%s close %s.", d.Class, dir)
	default:
		return fmt.Sprintf("%s %s.", d.Class, dir)
	}
}
