// Package router implements the three-stage expert router (spec §4.2):
// sticky rule, then casefolded keyword scoring, then an LLM classification
// fallback — cheapest check first, model call only when the cheap checks
// are ambiguous or empty. Grounded on the shape of the teacher's
// internal/multiagent.Router (priority-ordered trigger evaluation), but
// deliberately narrower: this router never calls tools, and has exactly
// three stages instead of the teacher's open set of trigger types.
package router

import (
	"context"
	"strings"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/llm"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// Router selects the expert that should own the next step of a turn.
type Router struct {
	experts      map[string]*models.ExpertDescriptor
	priorityOrder []string
	defaultExpert string
	provider      llm.Provider
}

// New builds a Router over the given expert descriptors. priorityOrder
// breaks keyword ties when current_expert is not among the tied experts;
// defaultExpert is used when the model fallback returns unknown or
// malformed output.
func New(experts map[string]*models.ExpertDescriptor, priorityOrder []string, defaultExpert string, provider llm.Provider) *Router {
	return &Router{
		experts:       experts,
		priorityOrder: priorityOrder,
		defaultExpert: defaultExpert,
		provider:      provider,
	}
}

// Decision records which expert was chosen and why, for logging/metrics.
type Decision struct {
	Expert string
	Stage  string // "sticky", "keyword", "model_fallback", "default"
}

// Route implements spec §4.2's three-stage decision. It never mutates the
// session; the caller is responsible for writing session.CurrentExpert.
func (r *Router) Route(ctx context.Context, session *models.Session, message string) (Decision, error) {
	// Stage 1: sticky rule.
	if session.CurrentExpert != "" {
		if current, ok := r.experts[session.CurrentExpert]; ok {
			if !handoffTriggered(message, current) {
				return Decision{Expert: session.CurrentExpert, Stage: "sticky"}, nil
			}
		}
	}

	// Stage 2: keyword scoring.
	if expert, ok := r.scoreKeywords(message, session.CurrentExpert); ok {
		return Decision{Expert: expert, Stage: "keyword"}, nil
	}

	// Stage 3: model fallback.
	expert := r.modelFallback(ctx, message)
	if _, ok := r.experts[expert]; !ok {
		return Decision{Expert: r.defaultExpert, Stage: "default"}, nil
	}
	return Decision{Expert: expert, Stage: "model_fallback"}, nil
}

// handoffTriggered reports whether message contains any handoff-trigger
// term from any *other* expert's table in current's HandoffTriggers map —
// i.e. the set of terms that, per spec §4.4, would cause current to hand
// off. The router's sticky rule only needs to know whether to stay; the
// handoff controller (internal/experts) performs the actual re-entry.
func handoffTriggered(message string, current *models.ExpertDescriptor) bool {
	folded := strings.ToLower(message)
	for _, terms := range current.HandoffTriggers {
		for term := range terms {
			if strings.Contains(folded, strings.ToLower(term)) {
				return true
			}
		}
	}
	return false
}

// scoreKeywords implements spec §4.2 step 2: casefold the message, count
// each expert's matching keyword_triggers, and route to the expert with a
// strictly maximal score >= 1. Ties prefer currentExpert if tied,
// otherwise the configured priority order; an unresolved tie or an
// all-zero score is reported as ambiguous (ok=false) so the caller falls
// through to the model.
func (r *Router) scoreKeywords(message, currentExpert string) (string, bool) {
	folded := strings.ToLower(message)

	scores := make(map[string]int, len(r.experts))
	best := 0
	for name, expert := range r.experts {
		score := 0
		for term := range expert.KeywordTriggers {
			if strings.Contains(folded, strings.ToLower(term)) {
				score++
			}
		}
		scores[name] = score
		if score > best {
			best = score
		}
	}
	if best == 0 {
		return "", false
	}

	var tied []string
	for name, score := range scores {
		if score == best {
			tied = append(tied, name)
		}
	}
	if len(tied) == 1 {
		return tied[0], true
	}

	for _, name := range tied {
		if name == currentExpert {
			return name, true
		}
	}
	for _, name := range r.priorityOrder {
		for _, candidate := range tied {
			if candidate == name {
				return name, true
			}
		}
	}
	// Priority order doesn't cover every tied expert: genuinely ambiguous.
	return "", false
}

// modelFallback asks the LLM adapter to pick one registered expert name
// from a short classification prompt (spec §4.2 step 3). Any error or
// unrecognized name is treated by the caller as "default".
func (r *Router) modelFallback(ctx context.Context, message string) string {
	if r.provider == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("Classify the following user message into exactly one of these experts. Reply with only the expert name, nothing else.\n\n")
	for name, expert := range r.experts {
		b.WriteString("- ")
		b.WriteString(name)
		if expert.SystemPrompt != "" {
			b.WriteString(": ")
			b.WriteString(firstLine(expert.SystemPrompt))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nMessage: ")
	b.WriteString(message)

	result, err := r.provider.Complete(ctx, llm.CompletionRequest{
		Messages:  []llm.Message{{Role: "user", Content: b.String()}},
		MaxTokens: 16,
	})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.ToLower(result.Text))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
