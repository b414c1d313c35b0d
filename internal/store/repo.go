package store

import (
	"context"
	"encoding/json"
	"time"
)

// LLMRequestEventData captures one completion API call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMEvent is a persisted completion event.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // filter by purpose ("" = all)
}

// EventRepo provides append and query access to completion events.
type EventRepo interface {
	// AppendLLMRequest records a completion API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns recent events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
}

// SessionSnapshot is a point-in-time capture of one subject's tutoring
// state (plan, progress, content history), serialized by the tutor layer.
type SessionSnapshot struct {
	ID        int64
	Subject   string
	Timestamp time.Time
	Data      json.RawMessage
}

// SessionRepo manages per-subject session snapshots.
type SessionRepo interface {
	// Save stores a new snapshot for a subject.
	Save(ctx context.Context, subject string, data json.RawMessage) error

	// Latest returns the most recent snapshot for a subject, or nil.
	Latest(ctx context.Context, subject string) (*SessionSnapshot, error)

	// Prune deletes all but the N most recent snapshots for a subject.
	Prune(ctx context.Context, subject string, keep int) error
}

// NopEventRepo discards events. Used where no database is configured.
type NopEventRepo struct{}

func (NopEventRepo) AppendLLMRequest(context.Context, LLMRequestEventData) error {
	return nil
}

func (NopEventRepo) QueryLLMEvents(context.Context, QueryOpts) ([]LLMEvent, error) {
	return nil, nil
}
