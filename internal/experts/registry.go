// Package experts implements the expert descriptor registry, the bounded
// tool-calling loop (spec §4.3), and the handoff controller (spec §4.4).
// Grounded on the shape of the teacher's internal/agent.AgenticLoop state
// machine (Init -> model call -> execute tools -> continue/complete) and
// internal/agent/tool_registry.go's static registration pattern, adapted
// to this core's much narrower contract: one LLM call per iteration, no
// streaming, a hard iteration cap with a synthetic termination message
// instead of the teacher's open-ended wall-time/tool-call budgets.
package experts

import (
	"sort"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// Registry is the static, write-once-at-startup, read-only-thereafter set
// of expert and tool descriptors (spec §5: "No core-level global mutable
// state except the tool and prompt registries").
type Registry struct {
	experts map[string]*models.ExpertDescriptor
	tools   map[string]*models.ToolDescriptor
}

// NewRegistry builds an empty registry; call RegisterExpert/RegisterTool
// to populate it, then Validate before serving traffic.
func NewRegistry() *Registry {
	return &Registry{
		experts: make(map[string]*models.ExpertDescriptor),
		tools:   make(map[string]*models.ToolDescriptor),
	}
}

// RegisterExpert adds (or replaces) an expert descriptor.
func (r *Registry) RegisterExpert(d *models.ExpertDescriptor) {
	r.experts[d.Name] = d
}

// RegisterTool adds (or replaces) a tool descriptor.
func (r *Registry) RegisterTool(d *models.ToolDescriptor) {
	r.tools[d.Name] = d
}

// Expert looks up an expert descriptor by name.
func (r *Registry) Expert(name string) (*models.ExpertDescriptor, bool) {
	e, ok := r.experts[name]
	return e, ok
}

// Tool looks up a tool descriptor by name.
func (r *Registry) Tool(name string) (*models.ToolDescriptor, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Experts returns the full descriptor map for the router.
func (r *Registry) Experts() map[string]*models.ExpertDescriptor { return r.experts }

// ExpertNames returns the sorted list of registered expert names.
func (r *Registry) ExpertNames() []string {
	names := make([]string, 0, len(r.experts))
	for name := range r.experts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate fails fast (spec §4.7's "unknown names fail fast at startup"
// pattern applied here to experts/tools too) if any expert's allowed_tools
// or handoff_triggers reference a tool or expert that was never
// registered.
func (r *Registry) Validate() error {
	for _, expert := range r.experts {
		for toolName := range expert.AllowedTools {
			if _, ok := r.tools[toolName]; !ok {
				return coreerrors.New(coreerrors.KindConfiguration,
					"expert %q allows unknown tool %q", expert.Name, toolName)
			}
		}
		for target := range expert.HandoffTriggers {
			if _, ok := r.experts[target]; !ok {
				return coreerrors.New(coreerrors.KindConfiguration,
					"expert %q has handoff trigger for unknown expert %q", expert.Name, target)
			}
		}
	}
	return nil
}

func (r *Registry) mustExpert(name string) (*models.ExpertDescriptor, error) {
	e, ok := r.experts[name]
	if !ok {
		return nil, coreerrors.New(coreerrors.KindConfiguration, "unknown expert %q", name)
	}
	return e, nil
}

func (r *Registry) toolsFor(expert *models.ExpertDescriptor) []*models.ToolDescriptor {
	out := make([]*models.ToolDescriptor, 0, len(expert.AllowedTools))
	for name := range expert.AllowedTools {
		if t, ok := r.tools[name]; ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
