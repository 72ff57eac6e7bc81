package models

import (
	"context"
	"encoding/json"
)

// ExpertDescriptor is the static registration record for one domain expert
// (spec §3: "Expert descriptor").
type ExpertDescriptor struct {
	Name            string
	SystemPrompt    string
	AllowedTools    map[string]struct{}
	KeywordTriggers map[string]struct{}
	// HandoffTriggers maps a target expert name to the set of casefold
	// terms that, when seen in the user's message, should trigger a
	// handoff to that expert (spec §4.4).
	HandoffTriggers map[string]map[string]struct{}
}

// HasTool reports whether this expert may call the named tool.
func (e *ExpertDescriptor) HasTool(name string) bool {
	if e == nil {
		return false
	}
	_, ok := e.AllowedTools[name]
	return ok
}

// ToolHandler executes a tool's side effect. Validated arguments are
// delivered as raw JSON matching the tool's ParameterSchema.
type ToolHandler func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error)

// ToolDescriptor is the static registration record for one tool (spec §3:
// "Tool descriptor").
type ToolDescriptor struct {
	Name            string
	Description     string
	ParameterSchema json.RawMessage
	Handler         ToolHandler
	SideEffectClass SideEffectClass
	Idempotent      bool
}
