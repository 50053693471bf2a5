package messaging

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPollerTicks(t *testing.T) {
	var ticks int64
	poller := NewPoller(5*time.Millisecond, func(context.Context) {
		atomic.AddInt64(&ticks, 1)
	})

	poller.Start(context.Background())
	defer poller.Stop()

	deadline := time.After(time.Second)
	for atomic.LoadInt64(&ticks) < 3 {
		select {
		case <-deadline:
			t.Fatal("poller never ticked 3 times")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestPollerStop(t *testing.T) {
	var ticks int64
	poller := NewPoller(time.Millisecond, func(context.Context) {
		atomic.AddInt64(&ticks, 1)
	})

	poller.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	poller.Stop()

	if poller.Running() {
		t.Error("poller still running after Stop")
	}

	// No further invocations after Stop returns.
	after := atomic.LoadInt64(&ticks)
	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt64(&ticks); got != after {
		t.Errorf("poller ticked after Stop: %d -> %d", after, got)
	}
}

func TestPollerStartIdempotent(t *testing.T) {
	var ticks int64
	poller := NewPoller(time.Millisecond, func(context.Context) {
		atomic.AddInt64(&ticks, 1)
	})

	poller.Start(context.Background())
	poller.Start(context.Background())
	defer poller.Stop()

	if !poller.Running() {
		t.Error("poller not running after Start")
	}

	// Double Stop must not panic or deadlock either.
	poller.Stop()
	poller.Stop()
}

func TestPollerStopsOnParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var ticks int64
	poller := NewPoller(time.Millisecond, func(context.Context) {
		atomic.AddInt64(&ticks, 1)
	})

	poller.Start(ctx)
	cancel()
	time.Sleep(5 * time.Millisecond)

	after := atomic.LoadInt64(&ticks)
	time.Sleep(10 * time.Millisecond)
	if got := atomic.LoadInt64(&ticks); got != after {
		t.Errorf("poller ticked after parent cancel: %d -> %d", after, got)
	}

	poller.Stop()
}
