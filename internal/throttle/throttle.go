// Package throttle enforces a minimum delay between outbound generation
// calls. The gate is process-wide: every caller waits against the same
// cursor regardless of subject or content kind.
package throttle

import (
	"context"
	"sync"
	"time"
)

// DefaultMinDelay is the minimum gap between permitted calls.
const DefaultMinDelay = 1000 * time.Millisecond

// Gate serializes outbound calls by time. It does not queue callers;
// it only guarantees the recorded last-call time reflects the most
// recent permit issued.
type Gate struct {
	mu       sync.Mutex
	minDelay time.Duration
	lastCall time.Time
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// New creates a Gate with the default minimum delay.
func New() *Gate {
	return NewWithDelay(DefaultMinDelay)
}

// NewWithDelay creates a Gate with an explicit minimum delay.
func NewWithDelay(minDelay time.Duration) *Gate {
	return &Gate{
		minDelay: minDelay,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Wait blocks until at least minDelay has elapsed since the last permit,
// then records the current time as the new last-call time. It returns
// early with the context error if ctx is cancelled while waiting.
func (g *Gate) Wait(ctx context.Context) error {
	for {
		g.mu.Lock()
		now := g.now()
		elapsed := now.Sub(g.lastCall)
		if g.lastCall.IsZero() || elapsed >= g.minDelay {
			g.lastCall = now
			g.mu.Unlock()
			return nil
		}
		wait := g.minDelay - elapsed
		g.mu.Unlock()

		if err := g.sleep(ctx, wait); err != nil {
			return err
		}
		// Re-check: another caller may have taken the permit while
		// this one slept.
	}
}

// LastCall returns the time of the most recent permit.
func (g *Gate) LastCall() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastCall
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
