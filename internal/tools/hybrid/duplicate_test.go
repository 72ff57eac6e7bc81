package hybrid

import (
	"context"
	"testing"
	"time"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/tools/structured"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

func TestDuplicateScoreSymmetric(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Chicken Salad", "chicken salad", 1.0},
		{"Salad", "Chicken Salad", 0.8},
		{"Chicken Salad", "Salad", 0.8},
		{"Pasta", "Tacos", 0.0},
	}
	for _, tt := range tests {
		if got := DuplicateScore(tt.a, tt.b); got != tt.want {
			t.Errorf("DuplicateScore(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got := DuplicateScore(tt.b, tt.a); got != tt.want {
			t.Errorf("DuplicateScore(%q, %q) = %v, want %v (not symmetric)", tt.b, tt.a, got, tt.want)
		}
	}
}

func seedFood(t *testing.T, store structured.EntityStore[models.FoodEntry], userID, name string) models.FoodEntry {
	t.Helper()
	entry := models.FoodEntry{UserID: userID, Name: name, ConsumedAt: time.Now()}
	if err := store.Create(context.Background(), userID, &entry); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return entry
}

func TestDuplicateDetectorScan(t *testing.T) {
	store := structured.NewMemoryStore()
	foods := store.FoodEntries()
	ctx := context.Background()

	a := seedFood(t, foods, "u1", "Chicken Salad")
	b := seedFood(t, foods, "u1", "chicken salad")
	_ = seedFood(t, foods, "u1", "Tacos")

	detector := NewDuplicateDetector(foods)
	candidates, err := detector.Scan(ctx, "u1")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(candidates))
	}
	pair := candidates[0]
	gotIDs := map[string]bool{pair.AID: true, pair.BID: true}
	if !gotIDs[a.ID] || !gotIDs[b.ID] {
		t.Errorf("candidate pair = %+v, want ids %q/%q", pair, a.ID, b.ID)
	}
	if pair.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", pair.Score)
	}
}

func TestDuplicateDetectorScanExcludesAlreadyMerged(t *testing.T) {
	store := structured.NewMemoryStore()
	foods := store.FoodEntries()
	ctx := context.Background()

	a := seedFood(t, foods, "u1", "Chicken Salad")
	b := seedFood(t, foods, "u1", "chicken salad")

	detector := NewDuplicateDetector(foods)
	if _, err := detector.Merge(ctx, "u1", a.ID, b.ID); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	candidates, err := detector.Scan(ctx, "u1")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("len(candidates) = %d, want 0 once the duplicate is merged", len(candidates))
	}
}

func TestDuplicateDetectorMerge(t *testing.T) {
	store := structured.NewMemoryStore()
	foods := store.FoodEntries()
	ctx := context.Background()

	canonical := seedFood(t, foods, "u1", "Chicken Salad")
	duplicate := seedFood(t, foods, "u1", "chicken salad")

	detector := NewDuplicateDetector(foods)
	merged, err := detector.Merge(ctx, "u1", canonical.ID, duplicate.ID)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(merged.MergedFrom) != 1 || merged.MergedFrom[0] != duplicate.ID {
		t.Errorf("canonical.MergedFrom = %v, want [%q]", merged.MergedFrom, duplicate.ID)
	}

	dup, err := foods.Get(ctx, "u1", duplicate.ID)
	if err != nil {
		t.Fatalf("Get duplicate: %v", err)
	}
	if !dup.IsMerged {
		t.Error("duplicate entry should have IsMerged = true after Merge")
	}
}

func TestDuplicateDetectorMergeRejectsSelf(t *testing.T) {
	store := structured.NewMemoryStore()
	foods := store.FoodEntries()
	detector := NewDuplicateDetector(foods)

	entry := seedFood(t, foods, "u1", "Chicken Salad")
	if _, err := detector.Merge(context.Background(), "u1", entry.ID, entry.ID); err == nil {
		t.Error("Merge should reject canonical == duplicate")
	}
}
