package models

import "encoding/json"

// ToolCall is a model-requested invocation of a registered tool. It is
// transient: it lives only within the turn that produced it.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// SideEffectClass categorizes a tool's interaction with external state.
type SideEffectClass string

const (
	// SideEffectRead performs no mutation and is safe to retry freely.
	SideEffectRead SideEffectClass = "read"
	// SideEffectWrite mutates external state and must run sequentially
	// relative to other write-class tools within an iteration.
	SideEffectWrite SideEffectClass = "write"
	// SideEffectExternal calls an external system whose side effects the
	// core cannot observe or compensate (e.g. sends a notification).
	SideEffectExternal SideEffectClass = "external"
)

// ToolCallState is the lifecycle of a single in-flight tool call.
type ToolCallState string

const (
	ToolCallPending    ToolCallState = "pending"
	ToolCallValidating ToolCallState = "validating"
	ToolCallDispatched ToolCallState = "dispatched"
	ToolCallCompleted  ToolCallState = "completed"
	ToolCallFailed     ToolCallState = "failed"
	ToolCallTimedOut   ToolCallState = "timed_out"
)

// ToolCallRecord is emitted per tool call for observability (spec §6.1).
type ToolCallRecord struct {
	Name       string `json:"name"`
	DurationMS int64  `json:"duration_ms"`
	OK         bool   `json:"ok"`
}
