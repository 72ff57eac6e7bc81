package experts

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/llm"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// scriptedProvider replays one llm.CompletionResult per call, in order, and
// records every request it was given.
type scriptedProvider struct {
	results []llm.CompletionResult
	calls   int
	seen    []llm.CompletionRequest
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResult, error) {
	p.seen = append(p.seen, req)
	idx := p.calls
	p.calls++
	if idx >= len(p.results) {
		idx = len(p.results) - 1
	}
	return p.results[idx], nil
}

func echoTool(name string) *models.ToolDescriptor {
	return &models.ToolDescriptor{
		Name:            name,
		SideEffectClass: models.SideEffectRead,
		Handler: func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
			return json.RawMessage(`{"ok":true}`), nil
		},
	}
}

func buildTestExpert(allowedTools ...string) *models.ExpertDescriptor {
	set := make(map[string]struct{}, len(allowedTools))
	for _, name := range allowedTools {
		set[name] = struct{}{}
	}
	return &models.ExpertDescriptor{Name: "food", SystemPrompt: "you are the food expert", AllowedTools: set}
}

func TestRuntimeRunNoToolCallsReturnsReply(t *testing.T) {
	registry := NewRegistry()
	provider := &scriptedProvider{results: []llm.CompletionResult{{Text: "here's your summary"}}}
	rt := NewRuntime(registry, provider, RuntimeConfig{})

	expert := buildTestExpert()
	out, err := rt.Run(context.Background(), expert, nil, "", 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Reply != "here's your summary" {
		t.Errorf("Reply = %q, want %q", out.Reply, "here's your summary")
	}
	if out.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", out.Iterations)
	}
}

func TestRuntimeRunDispatchesToolThenReplies(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterTool(echoTool("food_entry_create"))
	expert := buildTestExpert("food_entry_create")

	provider := &scriptedProvider{results: []llm.CompletionResult{
		{ToolCalls: []llm.ToolCall{{ID: "tc-1", Name: "food_entry_create", Arguments: json.RawMessage(`{}`)}}},
		{Text: "logged it"},
	}}
	rt := NewRuntime(registry, provider, RuntimeConfig{})

	out, err := rt.Run(context.Background(), expert, nil, "", 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Reply != "logged it" {
		t.Errorf("Reply = %q, want %q", out.Reply, "logged it")
	}
	if len(out.ToolCalls) != 1 || !out.ToolCalls[0].OK {
		t.Errorf("ToolCalls = %+v, want one OK record", out.ToolCalls)
	}
	if out.Iterations != 2 {
		t.Errorf("Iterations = %d, want 2", out.Iterations)
	}
}

func TestRuntimeRunDisallowedToolReportedAsError(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterTool(echoTool("task_create"))
	expert := buildTestExpert() // food_entry_create not in allowed tools, task_create not allowed either

	provider := &scriptedProvider{results: []llm.CompletionResult{
		{ToolCalls: []llm.ToolCall{{ID: "tc-1", Name: "task_create", Arguments: json.RawMessage(`{}`)}}},
		{Text: "done"},
	}}
	rt := NewRuntime(registry, provider, RuntimeConfig{})

	out, err := rt.Run(context.Background(), expert, nil, "", 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.ToolCalls) != 1 || out.ToolCalls[0].OK {
		t.Errorf("ToolCalls = %+v, want one non-OK record for a disallowed tool", out.ToolCalls)
	}
}

func TestRuntimeRunIterationCapTruncates(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterTool(echoTool("food_entry_create"))
	expert := buildTestExpert("food_entry_create")

	// The provider always asks for another tool call, so the loop should
	// never terminate on its own and must hit the iteration cap.
	loopingResult := llm.CompletionResult{ToolCalls: []llm.ToolCall{{ID: "tc-1", Name: "food_entry_create", Arguments: json.RawMessage(`{}`)}}}
	provider := &scriptedProvider{results: []llm.CompletionResult{loopingResult}}
	rt := NewRuntime(registry, provider, RuntimeConfig{MaxIterationsPerTurn: 3})

	out, err := rt.Run(context.Background(), expert, nil, "", 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Reply == "" {
		t.Fatal("expected a synthetic truncation reply")
	}
	if out.Reply != "I've hit the step limit for this request; here's what I have so far…" {
		t.Errorf("Reply = %q, want the synthetic truncation message", out.Reply)
	}
}

func TestRuntimeRunPrependsHandoffBanner(t *testing.T) {
	registry := NewRegistry()
	provider := &scriptedProvider{results: []llm.CompletionResult{{Text: "ack"}}}
	rt := NewRuntime(registry, provider, RuntimeConfig{})
	expert := buildTestExpert()

	if _, err := rt.Run(context.Background(), expert, nil, "handed off from tasks", 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(provider.seen) != 1 {
		t.Fatalf("expected exactly one Complete call, got %d", len(provider.seen))
	}
	system := provider.seen[0].System
	if system == expert.SystemPrompt {
		t.Error("system prompt should have the handoff banner prepended")
	}
}
