package messaging

import (
	"context"
	"sync"
	"time"
)

// Poller runs fn on a fixed interval until stopped. Start and Stop are
// explicit so a view can bind the poller to its mount/unmount lifecycle and
// tests can observe cancellation. After Stop returns, fn is never invoked
// again.
type Poller struct {
	interval time.Duration
	fn       func(context.Context)

	mux    sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(interval time.Duration, fn func(context.Context)) *Poller {
	return &Poller{interval: interval, fn: fn}
}

// Start begins ticking. Calling Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mux.Lock()
	defer p.mux.Unlock()

	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.loop(ctx, p.done)
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fn(ctx)
		}
	}
}

// Stop cancels the ticking loop and waits for it to exit. Idempotent.
func (p *Poller) Stop() {
	p.mux.Lock()
	defer p.mux.Unlock()

	if p.cancel == nil {
		return
	}

	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
}

// Running reports whether the poller is currently ticking.
func (p *Poller) Running() bool {
	p.mux.Lock()
	defer p.mux.Unlock()

	return p.cancel != nil
}
