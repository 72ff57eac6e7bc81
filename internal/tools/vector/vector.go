// Package vector implements capability set V from spec §4.5: per-collection
// fixed-dimensionality embedding storage and cosine-similarity search.
// Grounded on the teacher's internal/memory/backend.Backend interface
// (Index/Search/Delete/Count/Compact), narrowed to the three operations the
// spec names (embed, upsert, search) plus Get, Count, and the Delete a tool
// layer needs to retract a memory entry.
package vector

import (
	"context"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
)

// Record is one embedded item in a collection.
type Record struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Embedding []float32         `json:"embedding,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Match is a search hit with its cosine similarity score in [-1, 1].
type Match struct {
	Record
	Score float32 `json:"score"`
}

// Backend is the storage side of capability set V: upsert and
// cosine-similarity search over a fixed-dimension vector space, one
// collection at a time. Collections are created implicitly on first
// upsert; every subsequent upsert/search in that collection must match
// its established dimensionality or fail with coreerrors.KindSchemaMismatch.
type Backend interface {
	Upsert(ctx context.Context, collection string, record Record) error
	Get(ctx context.Context, collection, id string) (*Record, bool, error)
	Search(ctx context.Context, collection string, query []float32, topK int) ([]Match, error)
	Delete(ctx context.Context, collection, id string) error
	Count(ctx context.Context, collection string) (int, error)
}

// EmbeddingProvider turns text into a fixed-dimension vector (spec §4.5:
// "embed"). Implementations own their own dimensionality; callers learn it
// from the first successful Embed call or from Dimension.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

func errDimensionMismatch(collection string, got, want int) error {
	return coreerrors.New(coreerrors.KindSchemaMismatch,
		"collection %q expects %d-dimensional vectors, got %d", collection, want, got)
}
