// Package jsonrepair recovers parseable JSON from the truncated or
// malformed structured text a completion model may return. Repair is an
// ordered pipeline of small patch passes, each fixing one artifact class,
// applied only when the input does not already parse.
package jsonrepair

import (
	"encoding/json"
	"strings"
)

// shortInputLimit is the length under which an unrecoverable input is
// wrapped in a placeholder structure instead of failing outright.
const shortInputLimit = 100

// ErrUnrecoverable reports that no JSON structure could be salvaged.
type ErrUnrecoverable struct {
	Input string
}

func (e *ErrUnrecoverable) Error() string {
	return "json repair: no recoverable structure in input"
}

// Repair returns a valid JSON document recovered from raw.
// Valid input is returned unchanged. Returns *ErrUnrecoverable when
// nothing can be salvaged.
func Repair(raw string) (string, error) {
	if json.Valid([]byte(raw)) {
		return raw, nil
	}

	text := StripFences(raw)
	if json.Valid([]byte(text)) {
		return text, nil
	}

	patched := applyPatches(text)
	if json.Valid([]byte(patched)) {
		return patched, nil
	}

	// Fall back to the prefix ending at the last closing brace.
	if tail := trimToLastClose(text); tail != "" {
		patched = applyPatches(tail)
		if json.Valid([]byte(patched)) {
			return patched, nil
		}
	}

	// Last resort for short fragments: wrap the text itself so the
	// caller still receives something renderable.
	if trimmed := strings.TrimSpace(raw); len(trimmed) < shortInputLimit && trimmed != "" {
		return synthesizePlaceholder(trimmed), nil
	}

	return "", &ErrUnrecoverable{Input: raw}
}

// applyPatches runs the truncation patches and delimiter balancing in order.
func applyPatches(text string) string {
	for _, patch := range patches {
		text = patch(text)
	}
	return text
}

// patches is the ordered repair pipeline. Each pass is independent and
// idempotent on input it does not apply to.
var patches = []func(string) string{
	CloseUnterminatedString,
	DropDanglingComma,
	QuoteUnquotedKeys,
	StripTrailingCommas,
	BalanceDelimiters,
}

// trimToLastClose returns the prefix of text ending at its last closing
// brace, or "" when text contains none.
func trimToLastClose(text string) string {
	idx := strings.LastIndexByte(text, '}')
	if idx < 0 {
		return ""
	}
	return text[:idx+1]
}

// synthesizePlaceholder wraps a short unparseable fragment in a minimal
// valid object.
func synthesizePlaceholder(text string) string {
	b, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return `{"text":""}`
	}
	return string(b)
}
