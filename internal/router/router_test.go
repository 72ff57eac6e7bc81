package router

import (
	"context"
	"testing"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/llm"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

func descriptor(name string, keywords ...string) *models.ExpertDescriptor {
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		set[k] = struct{}{}
	}
	return &models.ExpertDescriptor{Name: name, SystemPrompt: name + " expert", KeywordTriggers: set}
}

func TestRouteKeywordUnambiguous(t *testing.T) {
	experts := map[string]*models.ExpertDescriptor{
		"food":  descriptor("food", "eat", "meal"),
		"tasks": descriptor("tasks", "task", "todo"),
	}
	r := New(experts, nil, "tasks", nil)

	decision, err := r.Route(context.Background(), &models.Session{}, "I want to log my lunch meal")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}
	if decision.Expert != "food" {
		t.Errorf("Expert = %q, want %q", decision.Expert, "food")
	}
	if decision.Stage != "keyword" {
		t.Errorf("Stage = %q, want %q", decision.Stage, "keyword")
	}
}

func TestRouteStickyWhenNoHandoffTrigger(t *testing.T) {
	experts := map[string]*models.ExpertDescriptor{
		"food":  descriptor("food", "eat", "meal"),
		"tasks": descriptor("tasks", "task", "todo"),
	}
	r := New(experts, nil, "tasks", nil)
	session := &models.Session{CurrentExpert: "food"}

	decision, err := r.Route(context.Background(), session, "rate it just liked")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}
	if decision.Expert != "food" {
		t.Errorf("Expert = %q, want sticky %q", decision.Expert, "food")
	}
	if decision.Stage != "sticky" {
		t.Errorf("Stage = %q, want %q", decision.Stage, "sticky")
	}
}

func TestRouteStickyBrokenByHandoffTrigger(t *testing.T) {
	food := descriptor("food", "eat", "meal")
	food.HandoffTriggers = map[string]map[string]struct{}{
		"tasks": {"task": {}},
	}
	tasks := descriptor("tasks", "task", "todo")
	experts := map[string]*models.ExpertDescriptor{"food": food, "tasks": tasks}
	r := New(experts, nil, "food", nil)
	session := &models.Session{CurrentExpert: "food"}

	decision, err := r.Route(context.Background(), session, "also add a task to buy salmon")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}
	if decision.Expert != "tasks" {
		t.Errorf("Expert = %q, want %q (sticky rule should not apply once a handoff trigger fires)", decision.Expert, "tasks")
	}
}

func TestRouteKeywordTieBreaksToCurrentExpert(t *testing.T) {
	food := descriptor("food", "remind")
	tasks := descriptor("tasks", "remind")
	// Bypass the sticky rule (which would otherwise short-circuit to
	// "tasks" regardless of the tie-break) so the keyword stage itself is
	// exercised.
	tasks.HandoffTriggers = map[string]map[string]struct{}{"food": {"also remind": {}}}
	experts := map[string]*models.ExpertDescriptor{"food": food, "tasks": tasks}
	r := New(experts, nil, "food", nil)
	session := &models.Session{CurrentExpert: "tasks"}

	decision, err := r.Route(context.Background(), session, "also remind me")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}
	if decision.Expert != "tasks" {
		t.Errorf("Expert = %q, want tied current expert %q", decision.Expert, "tasks")
	}
}

func TestRouteKeywordTieBreaksToPriorityOrder(t *testing.T) {
	experts := map[string]*models.ExpertDescriptor{
		"food":  descriptor("food", "remind"),
		"tasks": descriptor("tasks", "remind"),
	}
	r := New(experts, []string{"tasks", "food"}, "food", nil)

	decision, err := r.Route(context.Background(), &models.Session{}, "remind me")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}
	if decision.Expert != "tasks" {
		t.Errorf("Expert = %q, want priority-ordered %q", decision.Expert, "tasks")
	}
}

type stubProvider struct {
	text string
}

func (s stubProvider) Name() string { return "stub" }
func (s stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResult, error) {
	return llm.CompletionResult{Text: s.text}, nil
}

func TestRouteModelFallbackOnAmbiguity(t *testing.T) {
	experts := map[string]*models.ExpertDescriptor{
		"food":  descriptor("food"),
		"tasks": descriptor("tasks"),
	}
	r := New(experts, nil, "tasks", stubProvider{text: "food"})

	decision, err := r.Route(context.Background(), &models.Session{}, "what should I do today")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}
	if decision.Expert != "food" {
		t.Errorf("Expert = %q, want model-selected %q", decision.Expert, "food")
	}
	if decision.Stage != "model_fallback" {
		t.Errorf("Stage = %q, want %q", decision.Stage, "model_fallback")
	}
}

func TestRouteModelFallbackUnknownNameDefaults(t *testing.T) {
	experts := map[string]*models.ExpertDescriptor{
		"food":  descriptor("food"),
		"tasks": descriptor("tasks"),
	}
	r := New(experts, nil, "tasks", stubProvider{text: "nonsense"})

	decision, err := r.Route(context.Background(), &models.Session{}, "what should I do today")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}
	if decision.Expert != "tasks" {
		t.Errorf("Expert = %q, want configured default %q", decision.Expert, "tasks")
	}
	if decision.Stage != "default" {
		t.Errorf("Stage = %q, want %q", decision.Stage, "default")
	}
}
