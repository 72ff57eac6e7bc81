package experts

import (
	"testing"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

func newExpertDescriptor(name string, keywords ...string) *models.ExpertDescriptor {
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		set[k] = struct{}{}
	}
	return &models.ExpertDescriptor{Name: name, KeywordTriggers: set}
}

func TestDetectHandoffMatch(t *testing.T) {
	r := NewRegistry()
	r.RegisterExpert(newExpertDescriptor("food", "eat", "meal"))
	r.RegisterExpert(newExpertDescriptor("tasks", "task", "todo"))

	handoff, ok := DetectHandoff(r, "food", "remind me to add a task later")
	if !ok {
		t.Fatal("expected a handoff to be detected")
	}
	if handoff.Source != "food" || handoff.Target != "tasks" {
		t.Errorf("handoff = %+v, want source=food target=tasks", handoff)
	}
	if handoff.Reason != "domain shift: task" {
		t.Errorf("Reason = %q, want %q", handoff.Reason, "domain shift: task")
	}
}

func TestDetectHandoffNoMatch(t *testing.T) {
	r := NewRegistry()
	r.RegisterExpert(newExpertDescriptor("food", "eat", "meal"))
	r.RegisterExpert(newExpertDescriptor("tasks", "task", "todo"))

	_, ok := DetectHandoff(r, "food", "what did I eat for my meal")
	if ok {
		t.Error("should not detect a handoff when only the current expert's own keywords match")
	}
}

func TestDetectHandoffSkipsCurrentExpert(t *testing.T) {
	r := NewRegistry()
	r.RegisterExpert(newExpertDescriptor("food", "task"))
	r.RegisterExpert(newExpertDescriptor("tasks", "task"))

	handoff, ok := DetectHandoff(r, "tasks", "add a task")
	if !ok {
		t.Fatal("expected a handoff to food since its keyword also matches")
	}
	if handoff.Target == "tasks" {
		t.Error("DetectHandoff should never target the current expert itself")
	}
}

func TestDetectHandoffIgnoresEmptyTerm(t *testing.T) {
	r := NewRegistry()
	r.RegisterExpert(newExpertDescriptor("food"))
	r.RegisterExpert(newExpertDescriptor("tasks", ""))

	_, ok := DetectHandoff(r, "food", "anything at all")
	if ok {
		t.Error("an empty keyword term should never match")
	}
}
