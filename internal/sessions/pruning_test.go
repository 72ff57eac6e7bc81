package sessions

import (
	"testing"
	"time"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

func userMsg(content string) models.Message {
	return models.Message{Role: models.RoleUser, Content: content, Timestamp: time.Now()}
}

func assistantMsg(content string) models.Message {
	return models.Message{Role: models.RoleAssistant, Content: content, Timestamp: time.Now()}
}

func assistantToolCallMsg(id, name string) models.Message {
	return models.Message{
		Role:      models.RoleAssistant,
		ToolCalls: []models.ToolCall{{ID: id, Name: name}},
		Timestamp: time.Now(),
	}
}

func toolMsg(id string) models.Message {
	return models.Message{Role: models.RoleTool, ToolCallID: id, Content: "ok", Timestamp: time.Now()}
}

func TestPruneWindowRetainsSystemMessage(t *testing.T) {
	messages := []models.Message{
		{Role: models.RoleSystem, Content: "you are an assistant"},
	}
	for i := 0; i < 30; i++ {
		messages = append(messages, userMsg("hi"), assistantMsg("hello"))
	}

	pruned := PruneWindow(messages, 20, 8000)
	if pruned[0].Role != models.RoleSystem {
		t.Fatalf("system message should always be retained at index 0, got role %q", pruned[0].Role)
	}
}

func TestPruneWindowLastNBound(t *testing.T) {
	var messages []models.Message
	for i := 0; i < 50; i++ {
		messages = append(messages, userMsg("hi"), assistantMsg("hello"))
	}

	pruned := PruneWindow(messages, 20, 1_000_000)
	if len(pruned) > 20 {
		t.Errorf("len(pruned) = %d, want <= 20", len(pruned))
	}
}

func TestPruneWindowTokenBudgetBound(t *testing.T) {
	var messages []models.Message
	big := make([]byte, 2000)
	for i := range big {
		big[i] = 'x'
	}
	for i := 0; i < 20; i++ {
		messages = append(messages, userMsg(string(big)), assistantMsg(string(big)))
	}

	// Token budget (small) should win even though 20 messages would
	// otherwise fit the last-N window (spec §9: stricter bound wins).
	pruned := PruneWindow(messages, 20, 100)

	total := 0
	for _, m := range pruned {
		total += estimateTokens(m)
	}
	if total > 100 {
		t.Errorf("pruned window exceeds token budget: %d tokens", total)
	}
}

func TestPruneWindowNeverSplitsToolPair(t *testing.T) {
	messages := []models.Message{
		userMsg("log my lunch"),
		assistantToolCallMsg("tc-1", "food_entry_create"),
		toolMsg("tc-1"),
		assistantMsg("logged it"),
	}
	// Force a lastN cut that would otherwise land exactly between the
	// assistant tool-call message and its tool response.
	pruned := PruneWindow(messages, 2, 1_000_000)

	for _, m := range pruned {
		if m.Role == models.RoleTool {
			found := false
			for _, other := range pruned {
				if len(other.ToolCalls) > 0 {
					for _, tc := range other.ToolCalls {
						if tc.ID == m.ToolCallID {
							found = true
						}
					}
				}
			}
			if !found {
				t.Errorf("tool message with ToolCallID %q has no matching assistant tool_call message in the pruned window", m.ToolCallID)
			}
		}
	}
}

func TestPruneWindowEmptyInput(t *testing.T) {
	pruned := PruneWindow(nil, 20, 8000)
	if len(pruned) != 0 {
		t.Errorf("PruneWindow(nil) = %v, want empty", pruned)
	}
}
