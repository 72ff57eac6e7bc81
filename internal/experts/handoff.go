package experts

import (
	"strings"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// DetectHandoff implements spec §4.4's detection rule: scan the latest
// user message for any *other* expert's keyword_triggers. The first
// matching expert (in registry iteration order made deterministic by
// sorting expert names) wins; its matched term is recorded in the
// handoff reason.
//
// Runs after an expert iteration produced a final assistant message (the
// caller is responsible for only invoking this once per iteration, and
// for enforcing handoff_max_per_turn across repeated calls in the same
// turn).
func DetectHandoff(registry *Registry, currentExpert, userMessage string) (*models.Handoff, bool) {
	folded := strings.ToLower(userMessage)

	for _, name := range registry.ExpertNames() {
		if name == currentExpert {
			continue
		}
		candidate, ok := registry.Expert(name)
		if !ok {
			continue
		}
		for term := range candidate.KeywordTriggers {
			if term == "" {
				continue
			}
			if strings.Contains(folded, strings.ToLower(term)) {
				return &models.Handoff{
					Source: currentExpert,
					Target: name,
					Reason: "domain shift: " + term,
				}, true
			}
		}
	}
	return nil, false
}
