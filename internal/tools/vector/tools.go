package vector

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/tools"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

type upsertArgs struct {
	Collection string            `json:"collection"`
	ID         string            `json:"id,omitempty"`
	Text       string            `json:"text"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type searchArgs struct {
	Collection string `json:"collection"`
	Query      string `json:"query"`
	TopK       int    `json:"top_k,omitempty"`
}

type embedArgs struct {
	Text string `json:"text"`
}

// Tools builds the three capability-set-V tool descriptors (spec §4.5:
// embed, upsert, search). upsert and search both embed their text
// argument through embeddings before touching backend, so the model never
// has to produce a raw vector itself.
func Tools(backend Backend, embeddings EmbeddingProvider) []*models.ToolDescriptor {
	upsertSchema := tools.SchemaFor[upsertArgs]()
	searchSchema := tools.SchemaFor[searchArgs]()
	embedSchema := tools.SchemaFor[embedArgs]()

	return []*models.ToolDescriptor{
		{
			Name:            "memory_embed",
			Description:     "Compute the embedding vector for a piece of text without storing it.",
			ParameterSchema: embedSchema,
			SideEffectClass: models.SideEffectRead,
			Idempotent:      true,
			Handler: func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
				var args embedArgs
				if err := json.Unmarshal(arguments, &args); err != nil {
					return nil, coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "decode memory_embed arguments")
				}
				vec, err := embeddings.Embed(ctx, args.Text)
				if err != nil {
					return nil, err
				}
				return json.Marshal(map[string]any{"embedding": vec, "dimension": len(vec)})
			},
		},
		{
			Name:            "memory_upsert",
			Description:     "Embed text and upsert it into a named vector collection.",
			ParameterSchema: upsertSchema,
			SideEffectClass: models.SideEffectWrite,
			Idempotent:      true,
			Handler: func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
				var args upsertArgs
				if err := json.Unmarshal(arguments, &args); err != nil {
					return nil, coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "decode memory_upsert arguments")
				}
				if args.ID == "" {
					args.ID = uuid.NewString()
				}
				vec, err := embeddings.Embed(ctx, args.Text)
				if err != nil {
					return nil, err
				}
				record := Record{ID: args.ID, Text: args.Text, Embedding: vec, Metadata: args.Metadata}
				if err := backend.Upsert(ctx, args.Collection, record); err != nil {
					return nil, err
				}
				return json.Marshal(map[string]any{"id": args.ID})
			},
		},
		{
			Name:            "memory_search",
			Description:     "Embed a query and return the closest matches in a named vector collection.",
			ParameterSchema: searchSchema,
			SideEffectClass: models.SideEffectRead,
			Idempotent:      true,
			Handler: func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
				var args searchArgs
				if err := json.Unmarshal(arguments, &args); err != nil {
					return nil, coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "decode memory_search arguments")
				}
				vec, err := embeddings.Embed(ctx, args.Query)
				if err != nil {
					return nil, err
				}
				matches, err := backend.Search(ctx, args.Collection, vec, args.TopK)
				if err != nil {
					return nil, err
				}
				return json.Marshal(map[string]any{"matches": matches})
			},
		},
	}
}
