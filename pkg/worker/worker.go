// Package worker runs the long-lived loops that make up each vigil process.
//
// Every loop is registered as a named task. Stop issues a single broadcast
// cancellation and waits a bounded time for the tasks to drain; tasks that
// do not finish in time are abandoned rather than blocking shutdown.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/aldercare/go-vigil/internal/log"
)

// Task is a long-lived loop. It must return promptly once ctx is done.
type Task func(ctx context.Context)

// Group supervises a set of named tasks sharing one cancellation signal.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewGroup creates a group rooted at parent.
func NewGroup(parent context.Context) *Group {
	ctx, cancel := context.WithCancel(parent)
	return &Group{ctx: ctx, cancel: cancel}
}

// Go starts a task.
func (g *Group) Go(name string, task Task) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		log.Debug("worker started", "name", name)
		task(g.ctx)
		log.Debug("worker stopped", "name", name)
	}()
}

// Tick runs fn on a fixed interval until the group is stopped.
// The first call happens after one interval, matching time.Ticker.
func (g *Group) Tick(name string, interval time.Duration, fn func(now time.Time)) {
	g.Go(name, func(ctx context.Context) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				fn(now)
			}
		}
	})
}

// Stop cancels all tasks and waits up to timeout for them to finish.
// Returns true if every task drained in time. Shutdown proceeds either way.
func (g *Group) Stop(timeout time.Duration) bool {
	g.cancel()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		log.Warn("workers did not drain before timeout", "timeout", timeout)
		return false
	}
}
