// Package llm implements the LLM adapter (spec §4.6): a single narrow
// completion interface shared by the router and the expert runtime, with
// per-call timeouts and network-only retries, mirroring the teacher's
// internal/agent.LLMProvider / internal/agent/providers.BaseProvider pair.
package llm

import (
	"context"
	"encoding/json"
)

// Message is one turn of conversation sent to the model.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system", "tool"
	Content string `json:"content,omitempty"`

	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall is a model-issued tool invocation request.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolSpec describes a callable tool for the model (spec §6.2: "Each tool
// declares its parameter schema using a structured description that an LLM
// can consume").
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      json.RawMessage `json:"schema"`
}

// CompletionRequest is the uniform request shape across providers (spec
// §4.6).
type CompletionRequest struct {
	System      string
	Messages    []Message
	Tools       []ToolSpec
	Temperature float64
	MaxTokens   int
}

// CompletionResult is the uniform response shape; Provider.Complete returns
// it all at once (the Provider interface has no streaming method).
type CompletionResult struct {
	Text         string
	ToolCalls    []ToolCall
	InputTokens  int
	OutputTokens int
}

// Provider is the interface every LLM backend implements (spec §4.6).
type Provider interface {
	// Complete sends req and returns the full completion (spec §4.6:
	// "complete({...}) -> {text, tool_calls[]}").
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
	// Name identifies the backend for logging/metrics.
	Name() string
}
