// Package turn wires the session/state manager, router, and expert
// runtime into the single entrypoint spec §2's pipeline describes:
// Session Loader → Router → Expert → Continuation Check (handoff) →
// Session Saver, grounded on the teacher's internal/agent.Loop /
// internal/server request-handling glue that plays the same role.
package turn

import (
	"context"
	"time"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/experts"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/llm"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/router"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/sessions"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// Config bounds one turn (spec §5, §6.4).
type Config struct {
	TurnDeadline      time.Duration
	HandoffMaxPerTurn int
	PruneLastN        int
	PruneTokenBudget  int
}

// Orchestrator runs complete turns against a session.
type Orchestrator struct {
	store    sessions.Store
	locker   sessions.Locker
	router   *router.Router
	registry *experts.Registry
	runtime  *experts.Runtime
	cfg      Config
}

// New builds an Orchestrator from its constructed dependencies.
func New(store sessions.Store, locker sessions.Locker, rt *router.Router, registry *experts.Registry, runtime *experts.Runtime, cfg Config) *Orchestrator {
	if cfg.TurnDeadline <= 0 {
		cfg.TurnDeadline = 120 * time.Second
	}
	if cfg.HandoffMaxPerTurn <= 0 {
		cfg.HandoffMaxPerTurn = 1
	}
	return &Orchestrator{store: store, locker: locker, router: rt, registry: registry, runtime: runtime, cfg: cfg}
}

// Result is the external-interface output shape (spec §6.1):
// {reply, session_id, expert, handoff?, iterations, tool_calls[]}.
type Result struct {
	SessionID  string                  `json:"session_id"`
	Reply      string                  `json:"reply"`
	Expert     string                  `json:"expert"`
	Handoff    *models.Handoff         `json:"handoff,omitempty"`
	Iterations int                     `json:"iterations"`
	ToolCalls  []models.ToolCallRecord `json:"tool_calls"`
}

// Run executes one full turn: load the session, route, run the expert,
// apply at most one handoff re-entry per turn, prune, and save.
//
// Errors are returned as *coreerrors.Error (spec §7's {kind, message,
// retryable} shape); callers render that directly to API consumers.
func (o *Orchestrator) Run(ctx context.Context, sessionID, userID, workspace, userMessage string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.TurnDeadline)
	defer cancel()

	unlock, err := o.locker.Lock(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	session, err := o.store.Load(ctx, sessionID, userID, workspace)
	if err != nil {
		return Result{}, coreerrors.Wrap(coreerrors.KindInternal, err, "load session %s", sessionID)
	}

	now := time.Now()
	session.Messages = append(session.Messages, models.Message{
		Role:      models.RoleUser,
		Content:   userMessage,
		Timestamp: now,
	})

	result := Result{SessionID: sessionID}
	handoffsUsed := 0
	iteration := 0
	session.Handoff = nil

	for {
		expertName := ""
		if session.Handoff != nil {
			expertName = session.Handoff.Target
		} else {
			decision, err := o.router.Route(ctx, session, userMessage)
			if err != nil {
				return Result{}, coreerrors.Wrap(coreerrors.KindInternal, err, "route turn")
			}
			expertName = decision.Expert
		}
		expert, ok := o.registry.Expert(expertName)
		if !ok {
			return Result{}, coreerrors.New(coreerrors.KindConfiguration, "router selected unknown expert %q", expertName)
		}
		session.CurrentExpert = expert.Name

		var banner string
		if session.Handoff != nil {
			banner = "You are now handling this conversation after a handoff from " + session.Handoff.Source + ". Reason: " + session.Handoff.Reason
		}

		outcome, err := o.runtime.Run(ctx, expert, toLLMHistory(session.Messages), banner, iteration)
		if err != nil {
			return Result{}, err
		}

		session.Messages = append(session.Messages, outcome.AppendedMessages...)
		iteration += outcome.Iterations
		session.IterationCount = iteration
		result.Expert = expert.Name
		result.Reply = outcome.Reply
		result.Iterations = iteration
		result.ToolCalls = append(result.ToolCalls, outcome.ToolCalls...)

		if handoffsUsed >= o.cfg.HandoffMaxPerTurn {
			break
		}
		handoff, triggered := experts.DetectHandoff(o.registry, expert.Name, userMessage)
		if !triggered {
			break
		}
		handoffsUsed++
		session.Handoff = handoff
		result.Handoff = handoff
	}

	session.Messages = sessions.PruneWindow(session.Messages, o.cfg.PruneLastN, o.cfg.PruneTokenBudget)
	session.UpdatedAt = time.Now()

	if err := o.store.Save(ctx, session); err != nil {
		return Result{}, coreerrors.Wrap(coreerrors.KindInternal, err, "save session %s", sessionID)
	}
	return result, nil
}

func toLLMHistory(messages []models.Message) []llm.Message {
	out := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		msg := llm.Message{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
			Name:       m.Name,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, llm.ToolCall{ID: tc.ID, Name: tc.Name, Arguments: tc.Arguments})
		}
		out = append(out, msg)
	}
	return out
}
