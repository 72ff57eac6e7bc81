package experts

import (
	"testing"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

func TestRegistryValidateUnknownTool(t *testing.T) {
	r := NewRegistry()
	r.RegisterExpert(&models.ExpertDescriptor{
		Name:         "food",
		AllowedTools: map[string]struct{}{"food_entry_create": {}},
	})

	err := r.Validate()
	if err == nil {
		t.Fatal("expected Validate to fail for a tool that was never registered")
	}
	if coreerrors.KindOf(err) != coreerrors.KindConfiguration {
		t.Errorf("KindOf(err) = %v, want %v", coreerrors.KindOf(err), coreerrors.KindConfiguration)
	}
}

func TestRegistryValidateUnknownHandoffTarget(t *testing.T) {
	r := NewRegistry()
	r.RegisterExpert(&models.ExpertDescriptor{
		Name:            "food",
		HandoffTriggers: map[string]map[string]struct{}{"ghost": {"x": {}}},
	})

	if err := r.Validate(); err == nil {
		t.Fatal("expected Validate to fail for a handoff trigger referencing an unregistered expert")
	}
}

func TestRegistryValidateOK(t *testing.T) {
	r := NewRegistry()
	r.RegisterTool(&models.ToolDescriptor{Name: "food_entry_create"})
	r.RegisterExpert(&models.ExpertDescriptor{
		Name:            "food",
		AllowedTools:    map[string]struct{}{"food_entry_create": {}},
		HandoffTriggers: map[string]map[string]struct{}{"tasks": {"task": {}}},
	})
	r.RegisterExpert(&models.ExpertDescriptor{Name: "tasks"})

	if err := r.Validate(); err != nil {
		t.Errorf("expected Validate to pass, got %v", err)
	}
}

func TestRegistryExpertNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.RegisterExpert(&models.ExpertDescriptor{Name: "tasks"})
	r.RegisterExpert(&models.ExpertDescriptor{Name: "food"})
	r.RegisterExpert(&models.ExpertDescriptor{Name: "events"})

	names := r.ExpertNames()
	want := []string{"events", "food", "tasks"}
	if len(names) != len(want) {
		t.Fatalf("ExpertNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ExpertNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestRegistryToolsForSorted(t *testing.T) {
	r := NewRegistry()
	r.RegisterTool(&models.ToolDescriptor{Name: "food_entry_update"})
	r.RegisterTool(&models.ToolDescriptor{Name: "food_entry_create"})
	r.RegisterTool(&models.ToolDescriptor{Name: "food_entry_delete"})

	expert := &models.ExpertDescriptor{
		Name: "food",
		AllowedTools: map[string]struct{}{
			"food_entry_update": {},
			"food_entry_create": {},
			"food_entry_delete": {},
		},
	}
	tools := r.toolsFor(expert)
	if len(tools) != 3 {
		t.Fatalf("toolsFor returned %d tools, want 3", len(tools))
	}
	for i := 1; i < len(tools); i++ {
		if tools[i-1].Name > tools[i].Name {
			t.Errorf("toolsFor not sorted: %q before %q", tools[i-1].Name, tools[i].Name)
		}
	}
}

func TestRegistryMustExpertUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.mustExpert("ghost"); err == nil {
		t.Error("mustExpert should fail for an unregistered expert")
	}
}
