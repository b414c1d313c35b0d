package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/magedabdelsalam/ustaz-sub000/internal/llm"
)

// ErrStructural indicates generated output could not be repaired into
// the expected structure. Recoverable: triggers retry, then fallback.
type ErrStructural struct {
	Err error
}

func (e *ErrStructural) Error() string {
	return fmt.Sprintf("structural error in generated content: %v", e.Err)
}

func (e *ErrStructural) Unwrap() error { return e.Err }

// ErrExhausted indicates every generation attempt failed and no fallback
// was available.
type ErrExhausted struct {
	Attempts int
	Last     error
}

func (e *ErrExhausted) Error() string {
	return fmt.Sprintf("generation failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ErrExhausted) Unwrap() error { return e.Last }

// UserMessage maps an orchestration error to an actionable message for
// the learner. Raw transport errors never reach the UI.
func UserMessage(err error) string {
	var timeout *llm.ErrTimeout
	if errors.As(err, &timeout) || errors.Is(err, context.DeadlineExceeded) {
		return "The tutor is taking too long to respond. Please try again shortly."
	}

	var rateLimit *llm.ErrRateLimit
	var unavail *llm.ErrProviderUnavailable
	if errors.As(err, &rateLimit) || errors.As(err, &unavail) {
		return "We couldn't reach the tutor service. Check your connection and try again."
	}

	return "Something went wrong while preparing your content. Please try again."
}
