package structured

import (
	"context"
	"encoding/json"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/sessions"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// ConversationView exposes the read-only `conversation` entity (spec
// §4.5's eighth structured entity) over the session store's existing
// Describe capability — it is never written through capability set S,
// since a conversation's state is a byproduct of turns, not a
// caller-editable record.
type ConversationView struct {
	sessions sessions.Store
}

// NewConversationView wraps a session store for read-only conversation
// lookups.
func NewConversationView(store sessions.Store) *ConversationView {
	return &ConversationView{sessions: store}
}

func (v *ConversationView) summarize(ctx context.Context, sessionID string) (*models.ConversationSummary, error) {
	desc, found, err := v.sessions.Describe(ctx, sessionID)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindInternal, err, "describe session %s", sessionID)
	}
	if !found {
		return nil, errNotFound("conversation", sessionID)
	}
	return &models.ConversationSummary{
		SessionID:     desc.SessionID,
		CurrentExpert: desc.CurrentExpert,
		MessageCount:  desc.MessageCount,
		UpdatedAt:     desc.UpdatedAt,
	}, nil
}

type conversationGetArgs struct {
	SessionID string `json:"session_id"`
}

var conversationGetSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "session_id": {"type": "string"}
  },
  "required": ["session_id"]
}`)

// ConversationTools returns the `conversation_get` read-only tool.
func ConversationTools(store sessions.Store) []*models.ToolDescriptor {
	view := NewConversationView(store)
	return []*models.ToolDescriptor{
		{
			Name:            "conversation_get",
			Description:     "Get a summary of a conversation session: current expert, message count, last activity.",
			ParameterSchema: conversationGetSchema,
			SideEffectClass: models.SideEffectRead,
			Idempotent:      true,
			Handler: func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
				var args conversationGetArgs
				if err := json.Unmarshal(arguments, &args); err != nil {
					return nil, coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "decode conversation_get arguments")
				}
				summary, err := view.summarize(ctx, args.SessionID)
				if err != nil {
					return nil, err
				}
				return json.Marshal(summary)
			},
		},
	}
}
