package announce

import (
	"context"
	"testing"
	"time"

	"github.com/aldercare/go-vigil/pkg/alert"
)

func TestChannel_SubmitNeverBlocks(t *testing.T) {
	// No worker running: the queue fills and further submissions drop.
	c := NewChannel(&MockSpeaker{}, 2)

	if !c.Submit("first", alert.SeverityCritical) {
		t.Fatal("first submission rejected")
	}
	if !c.Submit("second", alert.SeverityWarning) {
		t.Fatal("second submission rejected")
	}

	done := make(chan bool, 1)
	go func() {
		done <- c.Submit("third", alert.SeverityCritical)
	}()
	select {
	case accepted := <-done:
		if accepted {
			t.Error("submission into a full queue reported accepted")
		}
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
	if c.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", c.Dropped())
	}
}

func TestChannel_WorkerSpeaksInOrder(t *testing.T) {
	speaker := &MockSpeaker{}
	c := NewChannel(speaker, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.Submit("one", alert.SeverityWarning)
	c.Submit("two", alert.SeverityCritical)

	deadline := time.After(2 * time.Second)
	for len(speaker.Spoken()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("spoke %d announcements, want 2", len(speaker.Spoken()))
		case <-time.After(5 * time.Millisecond):
		}
	}

	spoken := speaker.Spoken()
	if spoken[0] != "one" || spoken[1] != "two" {
		t.Errorf("spoken order = %v", spoken)
	}
}

func TestChannel_SpeakerSerialized(t *testing.T) {
	var concurrent, peak int
	var mu = make(chan struct{}, 1)
	speaker := &MockSpeaker{
		SpeakFunc: func(ctx context.Context, text string) error {
			mu <- struct{}{}
			concurrent++
			if concurrent > peak {
				peak = concurrent
			}
			<-mu
			time.Sleep(10 * time.Millisecond)
			mu <- struct{}{}
			concurrent--
			<-mu
			return nil
		},
	}
	c := NewChannel(speaker, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	for i := 0; i < 4; i++ {
		c.Submit("text", alert.SeverityWarning)
	}

	deadline := time.After(2 * time.Second)
	for len(speaker.Spoken()) < 4 {
		select {
		case <-deadline:
			t.Fatalf("spoke %d announcements, want 4", len(speaker.Spoken()))
		case <-time.After(5 * time.Millisecond):
		}
	}
	if peak > 1 {
		t.Errorf("observed %d concurrent speaker calls, want at most 1", peak)
	}
}

func TestChannel_SpeechErrorDoesNotStopWorker(t *testing.T) {
	calls := 0
	speaker := &MockSpeaker{
		SpeakFunc: func(ctx context.Context, text string) error {
			calls++
			if calls == 1 {
				return context.DeadlineExceeded
			}
			return nil
		},
	}
	c := NewChannel(speaker, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.Submit("fails", alert.SeverityWarning)
	c.Submit("succeeds", alert.SeverityWarning)

	deadline := time.After(2 * time.Second)
	for len(speaker.Spoken()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("spoke %d announcements, want 2", len(speaker.Spoken()))
		case <-time.After(5 * time.Millisecond):
		}
	}
}
