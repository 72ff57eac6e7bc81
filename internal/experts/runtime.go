package experts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/llm"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// RuntimeConfig bounds a single expert invocation (spec §4.3, §6.4).
type RuntimeConfig struct {
	MaxIterationsPerTurn int
	ToolResultCapBytes   int
}

// Runtime drives the bounded tool-calling loop for one expert.
type Runtime struct {
	registry *Registry
	provider llm.Provider
	cfg      RuntimeConfig
}

// NewRuntime builds a Runtime over registry and provider.
func NewRuntime(registry *Registry, provider llm.Provider, cfg RuntimeConfig) *Runtime {
	if cfg.MaxIterationsPerTurn <= 0 {
		cfg.MaxIterationsPerTurn = 10
	}
	if cfg.ToolResultCapBytes <= 0 {
		cfg.ToolResultCapBytes = 8 * 1024
	}
	return &Runtime{registry: registry, provider: provider, cfg: cfg}
}

// Outcome is what one Run produces: the appended messages (to merge into
// session history), the final reply text, iterations consumed, and a
// per-call observability trail.
type Outcome struct {
	AppendedMessages []models.Message
	Reply            string
	Iterations       int
	ToolCalls        []models.ToolCallRecord
}

// Run executes the bounded tool-calling loop for expertName against the
// given conversation history, starting iteration_count at startIteration
// (the handoff controller re-enters mid-turn, so iteration counting
// continues rather than resetting — spec §4.4's re-entry shares the
// turn's overall iteration budget).
func (rt *Runtime) Run(ctx context.Context, expert *models.ExpertDescriptor, history []llm.Message, handoffBanner string, startIteration int) (Outcome, error) {
	out := Outcome{}
	tools := rt.registry.toolsFor(expert)
	toolSpecs := make([]llm.ToolSpec, 0, len(tools))
	for _, t := range tools {
		toolSpecs = append(toolSpecs, llm.ToolSpec{Name: t.Name, Description: t.Description, Schema: t.ParameterSchema})
	}

	system := expert.SystemPrompt
	if handoffBanner != "" {
		system = handoffBanner + "\n\n" + system
	}

	messages := append([]llm.Message(nil), history...)
	iteration := startIteration

	for {
		iteration++
		if iteration > rt.cfg.MaxIterationsPerTurn {
			truncation := "I've hit the step limit for this request; here's what I have so far…"
			out.AppendedMessages = append(out.AppendedMessages, models.Message{
				Role:      models.RoleAssistant,
				Content:   truncation,
				Timestamp: time.Now(),
			})
			out.Reply = truncation
			out.Iterations = iteration - startIteration - 1
			return out, nil
		}

		result, err := rt.provider.Complete(ctx, llm.CompletionRequest{
			System:   system,
			Messages: messages,
			Tools:    toolSpecs,
		})
		if err != nil {
			return out, err
		}

		if len(result.ToolCalls) == 0 {
			assistantMsg := models.Message{
				Role:      models.RoleAssistant,
				Content:   result.Text,
				Timestamp: time.Now(),
			}
			out.AppendedMessages = append(out.AppendedMessages, assistantMsg)
			out.Reply = result.Text
			out.Iterations = iteration - startIteration
			return out, nil
		}

		assistantToolCalls := make([]models.ToolCall, len(result.ToolCalls))
		llmToolCalls := make([]llm.ToolCall, len(result.ToolCalls))
		for i, tc := range result.ToolCalls {
			assistantToolCalls[i] = models.ToolCall{ID: tc.ID, Name: tc.Name, Arguments: tc.Arguments}
			llmToolCalls[i] = tc
		}
		assistantMsg := models.Message{
			Role:      models.RoleAssistant,
			Content:   result.Text,
			ToolCalls: assistantToolCalls,
			Timestamp: time.Now(),
		}
		messages = append(messages, llm.Message{Role: "assistant", Content: result.Text, ToolCalls: llmToolCalls})
		out.AppendedMessages = append(out.AppendedMessages, assistantMsg)

		// Spec §4.3 ordering guarantees: tool calls execute strictly in
		// the order the model returned them, and write-class tools never
		// run concurrently with each other within the same iteration.
		for _, tc := range result.ToolCalls {
			toolMsg, record := rt.dispatch(ctx, expert, tc)
			messages = append(messages, toolMsg)
			out.AppendedMessages = append(out.AppendedMessages, models.Message{
				Role:       models.RoleTool,
				Content:    toolMsg.Content,
				ToolCallID: tc.ID,
				Name:       tc.Name,
				Timestamp:  time.Now(),
			})
			out.ToolCalls = append(out.ToolCalls, record)
		}
	}
}

// dispatch validates arguments, runs the handler, and returns the
// tool-role message the model sees plus an observability record.
// Handler errors are captured and fed back as structured tool results
// (spec §7: "never raised out of the loop unless Configuration or
// Internal").
func (rt *Runtime) dispatch(ctx context.Context, expert *models.ExpertDescriptor, tc llm.ToolCall) (llm.Message, models.ToolCallRecord) {
	start := time.Now()
	record := models.ToolCallRecord{Name: tc.Name}

	if !expert.HasTool(tc.Name) {
		record.OK = false
		record.DurationMS = time.Since(start).Milliseconds()
		return errorToolMessage(tc, coreerrors.New(coreerrors.KindInvalidArgument, "tool %q is not allowed for expert %q", tc.Name, expert.Name)), record
	}

	descriptor, ok := rt.registry.Tool(tc.Name)
	if !ok {
		record.DurationMS = time.Since(start).Milliseconds()
		return errorToolMessage(tc, coreerrors.New(coreerrors.KindConfiguration, "unknown tool %q", tc.Name)), record
	}

	if err := validateArguments(descriptor, tc.Arguments); err != nil {
		record.DurationMS = time.Since(start).Milliseconds()
		return errorToolMessage(tc, err), record
	}

	result, err := descriptor.Handler(ctx, tc.Arguments)
	record.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		// Still reported to the model as a tool message per spec §7's
		// "never raised out of the loop" rule. Configuration/Internal
		// errors are additionally visible to the turn-level caller via
		// record.OK so it can decide whether to abandon the turn.
		record.OK = false
		return errorToolMessage(tc, err), record
	}

	record.OK = true
	return llm.Message{Role: "tool", Content: truncate(string(result), rt.cfg.ToolResultCapBytes), ToolCallID: tc.ID, Name: tc.Name}, record
}

func validateArguments(descriptor *models.ToolDescriptor, arguments json.RawMessage) error {
	if len(descriptor.ParameterSchema) == 0 {
		return nil
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(descriptor.Name+".json", strings.NewReader(string(descriptor.ParameterSchema))); err != nil {
		return coreerrors.Wrap(coreerrors.KindConfiguration, err, "tool %q has an invalid schema", descriptor.Name)
	}
	schema, err := compiler.Compile(descriptor.Name + ".json")
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindConfiguration, err, "tool %q has an invalid schema", descriptor.Name)
	}

	var value any
	if err := json.Unmarshal(arguments, &value); err != nil {
		return coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "tool %q arguments are not valid JSON", descriptor.Name)
	}
	if err := schema.Validate(value); err != nil {
		return coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "tool %q arguments failed validation", descriptor.Name)
	}
	return nil
}

func errorToolMessage(tc llm.ToolCall, err error) llm.Message {
	body, _ := json.Marshal(structuredError(err))
	return llm.Message{Role: "tool", Content: string(body), ToolCallID: tc.ID, Name: tc.Name}
}

// structuredError builds the {kind, message, retryable} payload spec §7
// mandates for user/model-visible errors.
func structuredError(err error) map[string]any {
	kind := coreerrors.KindOf(err)
	return map[string]any{
		"kind":      string(kind),
		"message":   err.Error(),
		"retryable": kind.Retryable(),
	}
}

func truncate(s string, capBytes int) string {
	if len(s) <= capBytes {
		return s
	}
	return s[:capBytes] + fmt.Sprintf("...(truncated, %d bytes total)", len(s))
}

// NewToolCallID generates a core-generated unique id for tool calls the
// model itself did not assign one to.
func NewToolCallID() string { return uuid.NewString() }
