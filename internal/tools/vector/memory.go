package vector

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
)

type memCollection struct {
	dimension int
	records   map[string]Record
}

// MemoryBackend is an in-memory cosine-similarity Backend, grounding the
// teacher's sqlitevec role as the dependency-free dev/test backend
// (internal/memory/backend/sqlitevec) rather than embedding an actual
// SQLite driver — the spec's vector contract (fixed per-collection
// dimension, cosine search) is identical either way, and tests need
// determinism more than they need an on-disk file.
type MemoryBackend struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

// NewMemoryBackend builds an empty in-memory Backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{collections: make(map[string]*memCollection)}
}

func (b *MemoryBackend) collectionFor(name string, dimension int) (*memCollection, error) {
	col, ok := b.collections[name]
	if !ok {
		col = &memCollection{dimension: dimension, records: make(map[string]Record)}
		b.collections[name] = col
		return col, nil
	}
	if dimension != 0 && col.dimension != dimension {
		return nil, errDimensionMismatch(name, dimension, col.dimension)
	}
	return col, nil
}

func (b *MemoryBackend) Upsert(ctx context.Context, collection string, record Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	col, err := b.collectionFor(collection, len(record.Embedding))
	if err != nil {
		return err
	}
	col.records[record.ID] = record
	return nil
}

func (b *MemoryBackend) Get(ctx context.Context, collection, id string) (*Record, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	col, ok := b.collections[collection]
	if !ok {
		return nil, false, nil
	}
	rec, ok := col.records[id]
	if !ok {
		return nil, false, nil
	}
	return &rec, true, nil
}

func (b *MemoryBackend) Search(ctx context.Context, collection string, query []float32, topK int) ([]Match, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	col, ok := b.collections[collection]
	if !ok {
		return nil, nil
	}
	if len(query) != col.dimension {
		return nil, errDimensionMismatch(collection, len(query), col.dimension)
	}
	if topK <= 0 {
		topK = 10
	}

	matches := make([]Match, 0, len(col.records))
	for _, rec := range col.records {
		matches = append(matches, Match{Record: rec, Score: cosineSimilarity(query, rec.Embedding)})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (b *MemoryBackend) Delete(ctx context.Context, collection, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	col, ok := b.collections[collection]
	if !ok {
		return coreerrors.New(coreerrors.KindNotFound, "collection %q not found", collection)
	}
	if _, ok := col.records[id]; !ok {
		return coreerrors.New(coreerrors.KindNotFound, "record %q not found in collection %q", id, collection)
	}
	delete(col.records, id)
	return nil
}

func (b *MemoryBackend) Count(ctx context.Context, collection string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	col, ok := b.collections[collection]
	if !ok {
		return 0, nil
	}
	return len(col.records), nil
}

// cosineSimilarity mirrors the pgvector backend's `<=>` operator (which
// computes cosine distance; similarity = 1 - distance) so in-memory and
// Postgres-backed search rank results identically.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
