package vector

import (
	"context"
	"testing"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
)

func TestMemoryBackendUpsertAndGet(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	err := b.Upsert(ctx, "food", Record{ID: "a", Text: "tacos", Embedding: []float32{1, 0, 0}})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	rec, ok, err := b.Get(ctx, "food", "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get should find the upserted record")
	}
	if rec.Text != "tacos" {
		t.Errorf("Text = %q, want %q", rec.Text, "tacos")
	}
}

func TestMemoryBackendGetMissingCollection(t *testing.T) {
	b := NewMemoryBackend()
	_, ok, err := b.Get(context.Background(), "ghost", "a")
	if err != nil {
		t.Fatalf("Get on a missing collection should not error: %v", err)
	}
	if ok {
		t.Error("Get should report not-found for an unknown collection")
	}
}

func TestMemoryBackendDimensionMismatch(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	if err := b.Upsert(ctx, "food", Record{ID: "a", Embedding: []float32{1, 0, 0}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	err := b.Upsert(ctx, "food", Record{ID: "b", Embedding: []float32{1, 0}})
	if err == nil {
		t.Fatal("expected a dimension mismatch error")
	}
	if coreerrors.KindOf(err) != coreerrors.KindSchemaMismatch {
		t.Errorf("KindOf(err) = %v, want %v", coreerrors.KindOf(err), coreerrors.KindSchemaMismatch)
	}
}

func TestMemoryBackendSearchRanksByCosine(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	records := []Record{
		{ID: "close", Embedding: []float32{1, 0, 0}},
		{ID: "orthogonal", Embedding: []float32{0, 1, 0}},
		{ID: "opposite", Embedding: []float32{-1, 0, 0}},
	}
	for _, r := range records {
		if err := b.Upsert(ctx, "food", r); err != nil {
			t.Fatalf("Upsert(%s): %v", r.ID, err)
		}
	}

	matches, err := b.Search(ctx, "food", []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("len(matches) = %d, want 3", len(matches))
	}
	if matches[0].ID != "close" {
		t.Errorf("top match = %q, want %q", matches[0].ID, "close")
	}
	if matches[len(matches)-1].ID != "opposite" {
		t.Errorf("bottom match = %q, want %q", matches[len(matches)-1].ID, "opposite")
	}
}

func TestMemoryBackendSearchDimensionMismatch(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()
	if err := b.Upsert(ctx, "food", Record{ID: "a", Embedding: []float32{1, 0, 0}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := b.Search(ctx, "food", []float32{1, 0}, 10); err == nil {
		t.Fatal("expected a dimension mismatch error on search")
	}
}

func TestMemoryBackendDeleteAndCount(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()
	if err := b.Upsert(ctx, "food", Record{ID: "a", Embedding: []float32{1}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	count, err := b.Count(ctx, "food")
	if err != nil || count != 1 {
		t.Fatalf("Count = %d, %v, want 1, nil", count, err)
	}

	if err := b.Delete(ctx, "food", "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	count, err = b.Count(ctx, "food")
	if err != nil || count != 0 {
		t.Fatalf("Count after delete = %d, %v, want 0, nil", count, err)
	}

	if err := b.Delete(ctx, "food", "a"); err == nil {
		t.Error("Delete of an already-deleted record should fail")
	}
}
