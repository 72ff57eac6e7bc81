package hybrid

import (
	"context"
	"testing"
	"time"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/tools/structured"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/tools/vector"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// fakeEmbeddings maps known text to a fixed vector so test expectations are
// deterministic; anything else embeds to the zero vector.
type fakeEmbeddings struct {
	vectors map[string][]float32
	dim     int
}

func (f fakeEmbeddings) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return make([]float32, f.dim), nil
}

func (f fakeEmbeddings) Dimension() int { return f.dim }

func seedFoodAt(t *testing.T, store structured.EntityStore[models.FoodEntry], userID, name string, pref models.Preference, consumedAt time.Time) models.FoodEntry {
	t.Helper()
	entry := models.FoodEntry{UserID: userID, Name: name, Preference: pref, ConsumedAt: consumedAt}
	if err := store.Create(context.Background(), userID, &entry); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return entry
}

func TestFoodRecommendNoCandidates(t *testing.T) {
	store := structured.NewMemoryStore()
	backend := vector.NewMemoryBackend()
	embeddings := fakeEmbeddings{dim: 3}
	recommender := NewFoodRecommender(store.FoodEntries(), backend, embeddings)

	result, err := recommender.Recommend(context.Background(), "u1", "spicy", 14*24*time.Hour, 20, 5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Recommendations) != 0 {
		t.Errorf("Recommendations = %v, want empty", result.Recommendations)
	}
	if result.Reason == "" {
		t.Error("expected a reason code when no candidates match the structured filter")
	}
}

func TestFoodRecommendExcludesDislikedAndRecent(t *testing.T) {
	store := structured.NewMemoryStore()
	foods := store.FoodEntries()
	backend := vector.NewMemoryBackend()
	embeddings := fakeEmbeddings{dim: 3}
	ctx := context.Background()

	old := time.Now().Add(-30 * 24 * time.Hour)
	recent := time.Now().Add(-1 * time.Hour)

	disliked := seedFoodAt(t, foods, "u1", "Liver", models.PreferenceDisliked, old)
	recentLiked := seedFoodAt(t, foods, "u1", "Fresh Tacos", models.PreferenceLiked, recent)
	eligible := seedFoodAt(t, foods, "u1", "Old Favorite Soup", models.PreferenceFavorite, old)

	for _, e := range []models.FoodEntry{disliked, recentLiked, eligible} {
		if err := backend.Upsert(ctx, FoodCollection, vector.Record{ID: e.ID, Embedding: []float32{1, 0, 0}}); err != nil {
			t.Fatalf("Upsert vector for %s: %v", e.ID, err)
		}
	}

	recommender := NewFoodRecommender(foods, backend, embeddings)
	result, err := recommender.Recommend(ctx, "u1", "soup", 14*24*time.Hour, 20, 5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Recommendations) != 1 {
		t.Fatalf("len(Recommendations) = %d, want 1", len(result.Recommendations))
	}
	if result.Recommendations[0].Entry.ID != eligible.ID {
		t.Errorf("recommended entry = %q, want %q", result.Recommendations[0].Entry.ID, eligible.ID)
	}
}

func TestFoodRecommendTruncatesToK2(t *testing.T) {
	store := structured.NewMemoryStore()
	foods := store.FoodEntries()
	backend := vector.NewMemoryBackend()
	embeddings := fakeEmbeddings{dim: 3}
	ctx := context.Background()

	old := time.Now().Add(-30 * 24 * time.Hour)
	for i := 0; i < 10; i++ {
		e := seedFoodAt(t, foods, "u1", "Meal", models.PreferenceLiked, old)
		if err := backend.Upsert(ctx, FoodCollection, vector.Record{ID: e.ID, Embedding: []float32{1, 0, 0}}); err != nil {
			t.Fatalf("Upsert vector: %v", err)
		}
	}

	recommender := NewFoodRecommender(foods, backend, embeddings)
	result, err := recommender.Recommend(ctx, "u1", "meal", 14*24*time.Hour, 20, 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Recommendations) != 3 {
		t.Errorf("len(Recommendations) = %d, want k2=3", len(result.Recommendations))
	}
}

func TestFoodRecommendSkipsMissingVectors(t *testing.T) {
	store := structured.NewMemoryStore()
	foods := store.FoodEntries()
	backend := vector.NewMemoryBackend()
	embeddings := fakeEmbeddings{dim: 3}
	old := time.Now().Add(-30 * 24 * time.Hour)

	// Seeded but never indexed into the vector backend (e.g. the embed step
	// of food_entry_create hadn't completed yet).
	seedFoodAt(t, foods, "u1", "Unindexed Soup", models.PreferenceFavorite, old)

	recommender := NewFoodRecommender(foods, backend, embeddings)
	result, err := recommender.Recommend(context.Background(), "u1", "soup", 14*24*time.Hour, 20, 5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Recommendations) != 0 {
		t.Errorf("Recommendations = %v, want empty when no candidate has a stored vector", result.Recommendations)
	}
	if result.Reason == "" {
		t.Error("expected a reason code when every structurally-eligible candidate lacks a vector")
	}
}
