// Package llm is the boundary to the external completion service.
// Everything above it treats generation as a black box that may time
// out, return malformed text, or fail with a transport error.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction over a completion service.
type Provider interface {
	// Generate sends a prompt and returns the model's output. When the
	// request carries a Schema, providers that support structured output
	// request it from the model, but Content comes back unvalidated:
	// repair and schema validation belong to the orchestration layer.
	// A response cut off at MaxTokens is returned as
	// *ErrMaxTokensExceeded carrying the partial content.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes one completion call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Content generation is single-turn
	// (one user message); tutor replies may carry short history.
	Messages []Message

	// Schema, when set, is the JSON Schema the response must conform to.
	Schema *Schema

	// MaxTokens bounds the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0. Zero means deterministic.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema (tool name for Anthropic, schema name
	// for OpenAI). Kebab-case, e.g. "lesson-plan".
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output as the model produced it. JSON is
	// expected when the request carried a Schema, but it is not checked
	// here.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to: "end", "max_tokens", "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
