// Package engine wraps generation calls with caching, throttling,
// bounded retries, response repair, and fallback degradation. It is the
// single path every outbound completion call takes.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/magedabdelsalam/ustaz-sub000/internal/jsonrepair"
	"github.com/magedabdelsalam/ustaz-sub000/internal/llm"
	"github.com/magedabdelsalam/ustaz-sub000/internal/respcache"
	"github.com/magedabdelsalam/ustaz-sub000/internal/throttle"
)

// GenerateFunc performs one underlying completion call and returns the
// raw response text.
type GenerateFunc func(ctx context.Context) (string, error)

// Config holds retry policy for the orchestrator.
type Config struct {
	// MaxRetries is the number of generation attempts per call.
	MaxRetries int

	// InitialBackoff is the wait before the second attempt; subsequent
	// waits grow by Multiplier.
	InitialBackoff time.Duration

	// Multiplier scales the backoff between attempts.
	Multiplier float64
}

// DefaultConfig returns the standard retry policy: two attempts with
// 2s/4s exponential backoff.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     2,
		InitialBackoff: 2 * time.Second,
		Multiplier:     2.0,
	}
}

// Request describes one orchestrated generation call.
type Request struct {
	// Type is the call type ("lesson-plan", "lesson-content", ...).
	// It keys the cache together with Params.
	Type string

	// Params identify the call for caching.
	Params any

	// Shape is the structural expectation for the repaired result.
	Shape Shape

	// Schema, when set, is validated against the repaired result.
	// Validation runs here rather than at the provider boundary so
	// truncated output gets its repair pass first.
	Schema *llm.Schema

	// Simplified, when set, is tried once with a reduced prompt after
	// the regular attempts are exhausted by structural failures.
	Simplified GenerateFunc

	// Fallback produces a deterministic local result when every
	// generation path fails. When nil, the classified error surfaces.
	Fallback func() json.RawMessage
}

// Orchestrator coordinates cache, throttle, repair, and retry policy.
type Orchestrator struct {
	cache *respcache.Cache
	gate  *throttle.Gate
	cfg   Config
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an Orchestrator over the given cache and throttle gate.
func New(cache *respcache.Cache, gate *throttle.Gate, cfg Config) *Orchestrator {
	return &Orchestrator{
		cache: cache,
		gate:  gate,
		cfg:   cfg,
		sleep: sleepCtx,
	}
}

// Call runs one generation through the full pipeline:
// cache lookup, then throttle, then bounded attempts (repair and shape
// validation each time, backoff between), then simplified retry, then
// fallback.
// A successful result is cached before returning.
func (o *Orchestrator) Call(ctx context.Context, req Request, generate GenerateFunc) (json.RawMessage, error) {
	if data, ok := o.cache.Get(req.Type, req.Params); ok {
		return data, nil
	}

	if err := o.gate.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < o.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := o.sleep(ctx, o.backoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		data, err := o.attempt(ctx, req, generate)
		if err == nil {
			o.cache.Set(req.Type, req.Params, data)
			return data, nil
		}
		// A dead parent context ends the call; a per-attempt timeout
		// inside generate is retryable like any transport failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	// Degradation chain: a simplified lower-token prompt first, then the
	// deterministic template. Transport failures skip the simplified
	// retry; a shorter prompt does not fix an unreachable provider.
	if req.Simplified != nil && isStructural(lastErr) {
		if err := o.gate.Wait(ctx); err != nil {
			return nil, err
		}
		if data, err := o.attempt(ctx, req, req.Simplified); err == nil {
			o.cache.Set(req.Type, req.Params, data)
			return data, nil
		}
	}

	if req.Fallback != nil {
		// Fallback results are not cached: the next call should get
		// another chance at real generation.
		return req.Fallback(), nil
	}

	return nil, &ErrExhausted{Attempts: o.cfg.MaxRetries, Last: lastErr}
}

// attempt runs one generation call through cleaning, repair, shape
// validation, and schema validation. A max-token truncation still
// carries partial content, which gets the same repair pass instead of
// being discarded.
func (o *Orchestrator) attempt(ctx context.Context, req Request, generate GenerateFunc) (json.RawMessage, error) {
	raw, err := generate(ctx)
	if err != nil {
		var truncated *llm.ErrMaxTokensExceeded
		if !errors.As(err, &truncated) || len(truncated.Content) == 0 {
			return nil, err
		}
		raw = string(truncated.Content)
	}

	repaired, err := jsonrepair.Repair(raw)
	if err != nil {
		return nil, &ErrStructural{Err: err}
	}

	data := json.RawMessage(repaired)
	if err := req.Shape.Validate(data); err != nil {
		return nil, err
	}
	if err := llm.ValidateResponse(req.Schema, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (o *Orchestrator) backoff(n int) time.Duration {
	return time.Duration(float64(o.cfg.InitialBackoff) * math.Pow(o.cfg.Multiplier, float64(n)))
}

// isStructural reports whether err is a repair/validation failure rather
// than a transport one. Schema violations and max-token truncations
// count: both mean the model produced unusable structure, so a reduced
// prompt is worth one more try.
func isStructural(err error) bool {
	var structural *ErrStructural
	var invalid *llm.ErrInvalidResponse
	var truncated *llm.ErrMaxTokensExceeded
	return errors.As(err, &structural) || errors.As(err, &invalid) || errors.As(err, &truncated)
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
