package structured

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// listArgs is the common shape every "{kind}_list" tool accepts.
type listArgs struct {
	UserID   string `json:"user_id"`
	Cursor   string `json:"cursor,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

type idArgs struct {
	UserID string `json:"user_id"`
	ID     string `json:"id"`
}

type updateArgs struct {
	UserID string          `json:"user_id"`
	ID     string          `json:"id"`
	Patch  json.RawMessage `json:"patch"`
}

type createArgs[T any] struct {
	UserID string `json:"user_id"`
	Entity T      `json:"entity"`
}

// buildEntityTools wraps one EntityStore[T] as the five tool descriptors
// capability set S requires (spec §4.5): create, get, update, delete,
// list. update applies Patch as a JSON merge onto the stored value —
// encoding/json.Unmarshal only overwrites fields present in the patch
// document, so omitted fields survive untouched, the same partial-update
// semantics the teacher's REST handlers give callers over HTTP PATCH.
func buildEntityTools[T any](kind string, store EntityStore[T], createSchema, patchSchema json.RawMessage) []*models.ToolDescriptor {
	getSchema := json.RawMessage(fmt.Sprintf(`{
		"type": "object",
		"required": ["user_id", "id"],
		"properties": {
			"user_id": {"type": "string"},
			"id": {"type": "string"}
		}
	}`))
	listSchema := json.RawMessage(`{
		"type": "object",
		"required": ["user_id"],
		"properties": {
			"user_id": {"type": "string"},
			"cursor": {"type": "string"},
			"page_size": {"type": "integer", "minimum": 1, "maximum": 500}
		}
	}`)

	return []*models.ToolDescriptor{
		{
			Name:            kind + "_create",
			Description:     "Create a new " + kind + " owned by user_id.",
			ParameterSchema: createSchema,
			SideEffectClass: models.SideEffectWrite,
			Idempotent:      false,
			Handler: func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
				var args createArgs[T]
				if err := json.Unmarshal(arguments, &args); err != nil {
					return nil, coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "decode %s_create arguments", kind)
				}
				if err := store.Create(ctx, args.UserID, &args.Entity); err != nil {
					return nil, err
				}
				return json.Marshal(args.Entity)
			},
		},
		{
			Name:            kind + "_get",
			Description:     "Fetch one " + kind + " by id, scoped to user_id.",
			ParameterSchema: getSchema,
			SideEffectClass: models.SideEffectRead,
			Idempotent:      true,
			Handler: func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
				var args idArgs
				if err := json.Unmarshal(arguments, &args); err != nil {
					return nil, coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "decode %s_get arguments", kind)
				}
				entity, err := store.Get(ctx, args.UserID, args.ID)
				if err != nil {
					return nil, err
				}
				return json.Marshal(entity)
			},
		},
		{
			Name:            kind + "_update",
			Description:     "Apply a partial update to one " + kind + ", scoped to user_id.",
			ParameterSchema: patchSchema,
			SideEffectClass: models.SideEffectWrite,
			Idempotent:      true,
			Handler: func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
				var args updateArgs
				if err := json.Unmarshal(arguments, &args); err != nil {
					return nil, coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "decode %s_update arguments", kind)
				}
				entity, err := store.Update(ctx, args.UserID, args.ID, func(e *T) {
					_ = json.Unmarshal(args.Patch, e)
				})
				if err != nil {
					return nil, err
				}
				return json.Marshal(entity)
			},
		},
		{
			Name:            kind + "_delete",
			Description:     "Delete one " + kind + " by id, scoped to user_id.",
			ParameterSchema: getSchema,
			SideEffectClass: models.SideEffectWrite,
			Idempotent:      true,
			Handler: func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
				var args idArgs
				if err := json.Unmarshal(arguments, &args); err != nil {
					return nil, coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "decode %s_delete arguments", kind)
				}
				if err := store.Delete(ctx, args.UserID, args.ID); err != nil {
					return nil, err
				}
				return json.Marshal(map[string]any{"deleted": true})
			},
		},
		{
			Name:            kind + "_list",
			Description:     "List " + kind + " records owned by user_id, cursor-paginated.",
			ParameterSchema: listSchema,
			SideEffectClass: models.SideEffectRead,
			Idempotent:      true,
			Handler: func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
				var args listArgs
				if err := json.Unmarshal(arguments, &args); err != nil {
					return nil, coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "decode %s_list arguments", kind)
				}
				page, err := store.List(ctx, args.UserID, nil, args.Cursor, args.PageSize)
				if err != nil {
					return nil, err
				}
				return json.Marshal(page)
			},
		},
	}
}
