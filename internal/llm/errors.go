package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrTimeout indicates the completion request exceeded its deadline.
// Surfaced distinctly so callers can show an actionable message instead
// of a raw transport error.
type ErrTimeout struct {
	Err error
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("completion request timed out: %v", e.Err)
}

func (e *ErrTimeout) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the model returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid completion response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion provider unavailable: %v", e.Err)
	}
	return "completion provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated at the
// MaxTokens limit. The partial content is kept so the caller can try a
// repair pass before giving up.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "completion response truncated: max tokens exceeded"
}
