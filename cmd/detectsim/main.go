// The detectsim binary drives the vision pipeline with synthetic
// detections, printing every announcement that survives arbitration.
// Useful for tuning thresholds and cooldowns without a camera or model.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/alert"
	"github.com/aldercare/go-vigil/pkg/detect"
	"github.com/aldercare/go-vigil/pkg/proximity"
)

var (
	interval  = flag.Duration("interval", 500*time.Millisecond, "inference cycle period")
	closeProb = flag.Float64("close", 0.2, "probability a detection is in the warning or critical band")
	objects   = flag.Int("objects", 2, "detections per cycle")
	dispatchCap = flag.Int("cap", 1, "dispatch cap per cycle")
	seed      = flag.Int64("seed", 0, "random seed (0 uses the current time)")
)

const (
	frameWidth  = 640
	frameHeight = 480
)

var classes = []string{"person", "chair", "couch", "dining table", "dog", "tv", "laptop"}

// printAnnouncer stands in for the speech collaborator.
type printAnnouncer struct{}

func (printAnnouncer) Submit(text string, severity alert.Severity) bool {
	fmt.Printf("[%s] %-8s %s\n", time.Now().Format("15:04:05.000"), severity.String(), text)
	return true
}

func main() {
	flag.Parse()
	log.Init("warn")

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))

	cfg := alert.DefaultConfig()
	cfg.DispatchCap = *dispatchCap
	arbitrator := alert.NewArbitrator(cfg, printAnnouncer{}, nil)
	generator := proximity.NewGenerator(proximity.DefaultConfig())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("simulating %d detections per cycle at %s (seed %d)\n", *objects, *interval, s)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	cycles, accepted := 0, 0
	for {
		select {
		case <-ctx.Done():
			fmt.Printf("\n%d cycles, %d announcements accepted\n", cycles, accepted)
			return
		case now := <-ticker.C:
			cycles++
			_, candidates := generator.Process(randomResult(rng, *objects, *closeProb), now)
			accepted += len(arbitrator.Offer(now, candidates))
		}
	}
}

// randomResult fabricates one inference cycle. Most detections sit in
// the far band; close ones land in the warning or critical band.
func randomResult(rng *rand.Rand, n int, closeProb float64) detect.Result {
	res := detect.Result{FrameWidth: frameWidth, FrameHeight: frameHeight}
	for i := 0; i < n; i++ {
		heightRatio := 0.1 + rng.Float64()*0.25
		if rng.Float64() < closeProb {
			heightRatio = 0.45 + rng.Float64()*0.4
		}
		h := int(heightRatio * frameHeight)
		cx := rng.Intn(frameWidth-40) + 20

		res.Detections = append(res.Detections, detect.Detection{
			Class: classes[rng.Intn(len(classes))],
			Box: detect.Box{
				X1: cx - 20,
				Y1: frameHeight - h,
				X2: cx + 20,
				Y2: frameHeight,
			},
			Confidence: 0.5 + rng.Float64()*0.5,
		})
	}
	return res
}
