package engine

import (
	"encoding/json"
	"fmt"
)

// Shape is the structural expectation for a repaired generation result:
// required top-level fields must be present, and fields named in Arrays
// must actually be arrays. Finer-grained checks run against the
// request's JSON schema after this one; Shape is the cheap first gate.
type Shape struct {
	Required []string
	Arrays   []string
}

// Validate checks raw against the shape. Returns *ErrStructural on failure.
func (s Shape) Validate(raw json.RawMessage) error {
	if len(s.Required) == 0 && len(s.Arrays) == 0 {
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return &ErrStructural{Err: fmt.Errorf("expected object: %w", err)}
	}

	for _, field := range s.Required {
		if _, ok := obj[field]; !ok {
			return &ErrStructural{Err: fmt.Errorf("missing required field %q", field)}
		}
	}

	for _, field := range s.Arrays {
		val, ok := obj[field]
		if !ok {
			continue // absence is caught by Required when it matters
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(val, &arr); err != nil {
			return &ErrStructural{Err: fmt.Errorf("field %q is not an array", field)}
		}
	}

	return nil
}
