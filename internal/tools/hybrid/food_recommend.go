// Package hybrid implements capability set H from spec §4.5: tools that
// combine a structured pre-filter with a vector similarity post-rank, plus
// the two domain algorithms (food duplicate detection, recurring task
// expansion) spec.md's "Key algorithms" section calls out by name.
// Grounded on the teacher's internal/memory.Manager (which layers
// relevance scoring and decay over a raw vector search) and
// internal/rag's retrieval pipeline, narrowed to the exact pre-filter →
// embed → cosine-rank pipeline spec.md §4.5 specifies.
package hybrid

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/tools/structured"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/tools/vector"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// FoodCollection is the vector collection food entry embeddings are stored
// under (by food_entry id). IndexFoodEntryTools keeps it populated as a
// side effect of food_entry_create/food_entry_update.
const FoodCollection = "food"

// FoodRecommender implements the hybrid food recommendation algorithm.
type FoodRecommender struct {
	store      structured.EntityStore[models.FoodEntry]
	vectors    vector.Backend
	embeddings vector.EmbeddingProvider
}

// NewFoodRecommender builds a FoodRecommender over the given food entry
// store and vector backend/embedding provider.
func NewFoodRecommender(store structured.EntityStore[models.FoodEntry], vectors vector.Backend, embeddings vector.EmbeddingProvider) *FoodRecommender {
	return &FoodRecommender{store: store, vectors: vectors, embeddings: embeddings}
}

// Recommendation is one ranked result.
type Recommendation struct {
	Entry models.FoodEntry `json:"entry"`
	Score float32          `json:"score"`
}

// Result is the hybrid tool's full output, including the "no candidates"
// reason code spec.md's S6 edge-case scenario requires.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Reason          string           `json:"reason,omitempty"`
}

// Recommend runs the algorithm from spec.md §4.5: pre-filter structured
// candidates, take the top k1 by (favorite > liked) then oldest
// consumed_at, embed preferenceText, cosine-rank the k1 candidates against
// it, and return the top k2 (or all of k1 if k1 < k2).
func (r *FoodRecommender) Recommend(ctx context.Context, userID, preferenceText string, recencyThreshold time.Duration, k1, k2 int) (Result, error) {
	if k1 <= 0 {
		k1 = 20
	}
	if k2 <= 0 {
		k2 = 5
	}
	cutoff := time.Now().Add(-recencyThreshold)

	filter := func(e *models.FoodEntry) bool {
		return e.Preference.Positive() && !e.IsMerged && e.ConsumedAt.Before(cutoff)
	}

	var candidates []models.FoodEntry
	cursor := ""
	for {
		page, err := r.store.List(ctx, userID, filter, cursor, structured.MaxPageSize)
		if err != nil {
			return Result{}, err
		}
		candidates = append(candidates, page.Items...)
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	if len(candidates) == 0 {
		return Result{Reason: "no candidates matched the structured filter"}, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := rank(candidates[i].Preference), rank(candidates[j].Preference)
		if pi != pj {
			return pi > pj
		}
		return candidates[i].ConsumedAt.Before(candidates[j].ConsumedAt)
	})
	if len(candidates) > k1 {
		candidates = candidates[:k1]
	}

	queryVec, err := r.embeddings.Embed(ctx, preferenceText)
	if err != nil {
		return Result{}, err
	}

	scored := make([]Recommendation, 0, len(candidates))
	for _, entry := range candidates {
		rec, ok, err := r.vectors.Get(ctx, FoodCollection, entry.ID)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			continue
		}
		scored = append(scored, Recommendation{Entry: entry, Score: cosine(queryVec, rec.Embedding)})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k2 {
		scored = scored[:k2]
	}
	if len(scored) == 0 {
		return Result{Reason: "no candidates matched the structured filter"}, nil
	}
	return Result{Recommendations: scored}, nil
}

func rank(p models.Preference) int {
	switch p {
	case models.PreferenceFavorite:
		return 2
	case models.PreferenceLiked:
		return 1
	default:
		return 0
	}
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// Tool builds the food_recommend capability-H tool descriptor.
func (r *FoodRecommender) Tool() *models.ToolDescriptor {
	schema := []byte(`{
		"type": "object",
		"required": ["user_id", "preference_text"],
		"properties": {
			"user_id": {"type": "string"},
			"preference_text": {"type": "string"},
			"recency_days": {"type": "integer", "minimum": 0},
			"k1": {"type": "integer", "minimum": 1},
			"k2": {"type": "integer", "minimum": 1}
		}
	}`)
	return &models.ToolDescriptor{
		Name:            "food_recommend",
		Description:     "Recommend previously logged foods the user rated positively, ranked by similarity to a preference string.",
		ParameterSchema: schema,
		SideEffectClass: models.SideEffectRead,
		Idempotent:      true,
		Handler: func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
			var args struct {
				UserID         string `json:"user_id"`
				PreferenceText string `json:"preference_text"`
				RecencyDays    int    `json:"recency_days"`
				K1             int    `json:"k1"`
				K2             int    `json:"k2"`
			}
			if err := json.Unmarshal(arguments, &args); err != nil {
				return nil, err
			}
			recency := time.Duration(args.RecencyDays) * 24 * time.Hour
			if args.RecencyDays == 0 {
				recency = 14 * 24 * time.Hour
			}
			result, err := r.Recommend(ctx, args.UserID, args.PreferenceText, recency, args.K1, args.K2)
			if err != nil {
				return nil, err
			}
			return json.Marshal(result)
		},
	}
}
