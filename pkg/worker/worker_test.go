package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestGroup_StopCancelsAndJoins(t *testing.T) {
	g := NewGroup(context.Background())

	var stopped atomic.Int32
	for i := 0; i < 3; i++ {
		g.Go("loop", func(ctx context.Context) {
			<-ctx.Done()
			stopped.Add(1)
		})
	}

	if !g.Stop(time.Second) {
		t.Fatal("workers did not drain")
	}
	if n := stopped.Load(); n != 3 {
		t.Errorf("stopped = %d, want 3", n)
	}
}

func TestGroup_StopProceedsPastStuckWorker(t *testing.T) {
	g := NewGroup(context.Background())

	release := make(chan struct{})
	g.Go("stuck", func(ctx context.Context) {
		<-release
	})

	start := time.Now()
	if g.Stop(50 * time.Millisecond) {
		t.Error("Stop reported clean drain with a stuck worker")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Stop blocked %v past its timeout", elapsed)
	}
	close(release)
}

func TestGroup_TickRunsUntilStopped(t *testing.T) {
	g := NewGroup(context.Background())

	var ticks atomic.Int32
	g.Tick("ticker", 5*time.Millisecond, func(time.Time) {
		ticks.Add(1)
	})

	deadline := time.After(2 * time.Second)
	for ticks.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("saw %d ticks, want at least 3", ticks.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	if !g.Stop(time.Second) {
		t.Fatal("ticker did not drain")
	}
	final := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	if ticks.Load() != final {
		t.Error("ticker kept running after Stop")
	}
}
