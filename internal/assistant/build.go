// Package assistant wires every constructed subsystem (sessions, router,
// experts, tool layer) into one turn.Orchestrator, following the
// teacher's cmd/nexus main.go's role of assembling internal packages
// into a runnable service. Kept separate from cmd/assistantd so the
// wiring is unit-testable without a process.
package assistant

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/config"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/experts"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/llm"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/prompts"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/router"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/sessions"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/tools/hybrid"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/tools/structured"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/tools/vector"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/turn"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// expertTools maps each domain expert to the structured-entity tool
// prefixes it may call, per SPEC_FULL.md §4.9's catalogue. note,
// document, memory, and conversation tools are cross-cutting and granted
// to every expert.
var expertTools = map[string][]string{
	"food":      {"food_entry"},
	"tasks":     {"task"},
	"events":    {"event"},
	"reminders": {"reminder"},
}

var crossCuttingEntities = []string{"note", "document", "memory"}

// crossCuttingTools are granted to every expert in addition to the generic
// per-entity CRUD tools and the hybrid and memory tools added below, which
// every expert also receives.
var crossCuttingTools = []string{"conversation_get"}

var crudOps = []string{"create", "get", "update", "delete", "list"}

// expertHandoffTerms is the keyword set each *other* expert listens for
// to pull the conversation into its domain (spec §4.4).
var expertHandoffTerms = map[string][]string{
	"food":      {"eat", "meal", "food", "hungry", "recipe", "restaurant"},
	"tasks":     {"task", "todo", "to-do", "checklist"},
	"events":    {"calendar", "meeting", "event", "schedule"},
	"reminders": {"remind", "reminder", "alarm"},
}

// Dependencies are the external capabilities Build needs but does not
// construct itself (DB handle, LLM API keys) — everything else is
// derived from cfg.
type Dependencies struct {
	DB               *sql.DB // nil selects the in-memory stores
	AnthropicAPIKey  string
	OpenAIAPIKey     string
	OpenAIEmbeddings bool // if true, wire a real embeddings provider; otherwise an in-memory stub
	PromptsDir       string
}

// Build assembles a complete turn.Orchestrator from cfg and deps.
func Build(ctx context.Context, cfg *config.Config, deps Dependencies) (*turn.Orchestrator, error) {
	provider, err := buildProvider(cfg, deps)
	if err != nil {
		return nil, err
	}
	retrying := llm.NewRetryingProvider(provider, cfg.LLM.CallTimeoutSeconds, cfg.LLM.MaxRetries)

	sessionStore, err := buildSessionStore(ctx, cfg, deps)
	if err != nil {
		return nil, err
	}
	structuredStore, vectorBackend, err := buildDataStores(ctx, cfg, deps)
	if err != nil {
		return nil, err
	}
	embeddings, err := buildEmbeddings(cfg, deps)
	if err != nil {
		return nil, err
	}

	registry := experts.NewRegistry()
	for _, td := range hybrid.IndexFoodEntryTools(structured.Tools(structuredStore), vectorBackend, embeddings) {
		registry.RegisterTool(td)
	}
	for _, td := range structured.ConversationTools(sessionStore) {
		registry.RegisterTool(td)
	}
	for _, td := range vector.Tools(vectorBackend, embeddings) {
		registry.RegisterTool(td)
	}
	recommender := hybrid.NewFoodRecommender(structuredStore.FoodEntries(), vectorBackend, embeddings)
	registry.RegisterTool(recommender.Tool())
	duplicates := hybrid.NewDuplicateDetector(structuredStore.FoodEntries())
	for _, td := range duplicates.Tools() {
		registry.RegisterTool(td)
	}
	recurring := hybrid.NewRecurringExpander(structuredStore.Tasks())
	registry.RegisterTool(recurring.Tool())

	promptsDir := deps.PromptsDir
	if promptsDir == "" {
		promptsDir = "prompts"
	}
	promptRegistry, err := prompts.NewRegistry(promptsDir)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	expertNames := make([]string, 0, len(expertTools))
	for name := range expertTools {
		expertNames = append(expertNames, name)
	}
	if err := promptRegistry.Require(expertNames...); err != nil {
		return nil, err
	}

	experts_ := make(map[string]*models.ExpertDescriptor, len(expertTools))
	for name, entityPrefixes := range expertTools {
		systemPrompt, err := promptRegistry.Render(name, nil)
		if err != nil {
			return nil, err
		}
		allowed := map[string]struct{}{
			"food_recommend":        {},
			"food_duplicate_scan":   {},
			"food_duplicate_merge":  {},
			"task_recurring_expand": {},
			"memory_embed":          {},
			"memory_upsert":         {},
			"memory_search":         {},
		}
		for _, prefix := range entityPrefixes {
			for _, op := range crudOps {
				allowed[prefix+"_"+op] = struct{}{}
			}
		}
		for _, entity := range crossCuttingEntities {
			for _, op := range crudOps {
				allowed[entity+"_"+op] = struct{}{}
			}
		}
		for _, tool := range crossCuttingTools {
			allowed[tool] = struct{}{}
		}
		handoffTriggers := make(map[string]map[string]struct{})
		for other, terms := range expertHandoffTerms {
			if other == name {
				continue
			}
			set := make(map[string]struct{}, len(terms))
			for _, t := range terms {
				set[t] = struct{}{}
			}
			handoffTriggers[other] = set
		}
		keywordTriggers := make(map[string]struct{})
		for _, t := range expertHandoffTerms[name] {
			keywordTriggers[t] = struct{}{}
		}

		descriptor := &models.ExpertDescriptor{
			Name:            name,
			SystemPrompt:    systemPrompt,
			AllowedTools:    allowed,
			KeywordTriggers: keywordTriggers,
			HandoffTriggers: handoffTriggers,
		}
		experts_[name] = descriptor
		registry.RegisterExpert(descriptor)
	}

	if err := registry.Validate(); err != nil {
		return nil, err
	}

	r := router.New(experts_, cfg.Routing.PriorityOrder, cfg.Turn.DefaultExpert, retrying)
	runtime := experts.NewRuntime(registry, retrying, experts.RuntimeConfig{
		MaxIterationsPerTurn: cfg.Turn.MaxIterationsPerTurn,
		ToolResultCapBytes:   cfg.Session.ToolResultCapBytes,
	})
	locker := sessions.NewLocalLocker(cfg.Session.BusySessionPolicy == config.BusyReject, cfg.Session.BusyWaitCap)

	return turn.New(sessionStore, locker, r, registry, runtime, turn.Config{
		TurnDeadline:      cfg.Turn.TurnDeadlineSeconds,
		HandoffMaxPerTurn: cfg.Turn.HandoffMaxPerTurn,
		PruneLastN:        cfg.Session.PruneLastNMessages,
		PruneTokenBudget:  cfg.Session.PruneTokenBudget,
	}), nil
}

func buildProvider(cfg *config.Config, deps Dependencies) (llm.Provider, error) {
	switch cfg.LLM.Provider {
	case "openai":
		return llm.NewOpenAIProvider(llm.OpenAIConfig{APIKey: deps.OpenAIAPIKey, DefaultModel: cfg.LLM.Model})
	default:
		return llm.NewAnthropicProvider(llm.AnthropicConfig{APIKey: deps.AnthropicAPIKey, DefaultModel: cfg.LLM.Model})
	}
}

func buildSessionStore(ctx context.Context, cfg *config.Config, deps Dependencies) (sessions.Store, error) {
	if cfg.Server.DatabaseDSN == "" {
		return sessions.NewMemoryStore(), nil
	}
	return sessions.NewPostgresStore(ctx, sessions.DefaultPostgresConfig(cfg.Server.DatabaseDSN))
}

func buildDataStores(ctx context.Context, cfg *config.Config, deps Dependencies) (structured.Store, vector.Backend, error) {
	if deps.DB == nil {
		return structured.NewMemoryStore(), vector.NewMemoryBackend(), nil
	}
	structuredStore, err := structured.NewPostgresStore(ctx, deps.DB)
	if err != nil {
		return nil, nil, err
	}
	vectorBackend, err := vector.NewPostgresBackend(ctx, deps.DB)
	if err != nil {
		return nil, nil, err
	}
	return structuredStore, vectorBackend, nil
}

type stubEmbeddings struct{ dimension int }

func (s stubEmbeddings) Dimension() int { return s.dimension }

// Embed produces a deterministic pseudo-embedding from the text's bytes
// so the in-memory dev stack can exercise capability-V code paths without
// a live embeddings API key.
func (s stubEmbeddings) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dimension)
	for i := 0; i < s.dimension; i++ {
		vec[i] = float32((int(text[i%len(text)])+i)%97) / 97
	}
	return vec, nil
}

func buildEmbeddings(cfg *config.Config, deps Dependencies) (vector.EmbeddingProvider, error) {
	if deps.OpenAIEmbeddings {
		dim := cfg.Tools.VectorDimensions["food"]
		return vector.NewOpenAIEmbeddings(vector.OpenAIEmbeddingsConfig{APIKey: deps.OpenAIAPIKey, Dimension: dim})
	}
	dim := cfg.Tools.VectorDimensions["food"]
	if dim == 0 {
		dim = 1536
	}
	return stubEmbeddings{dimension: dim}, nil
}
