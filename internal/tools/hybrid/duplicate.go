package hybrid

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/tools/structured"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// DuplicateCandidate is one unordered pair flagged as a possible duplicate
// food log entry.
type DuplicateCandidate struct {
	AID   string  `json:"a_id"`
	BID   string  `json:"b_id"`
	Score float64 `json:"score"`
}

// DuplicateScore computes spec.md §4.5's symmetric name-similarity score:
// exact casefold match → 1.0, substring containment either direction →
// 0.8, else 0.0.
func DuplicateScore(a, b string) float64 {
	fa, fb := strings.ToLower(a), strings.ToLower(b)
	if fa == fb {
		return 1.0
	}
	if strings.Contains(fa, fb) || strings.Contains(fb, fa) {
		return 0.8
	}
	return 0.0
}

// DuplicateDetector finds and merges duplicate food log entries for one
// user.
type DuplicateDetector struct {
	store structured.EntityStore[models.FoodEntry]
}

// NewDuplicateDetector builds a DuplicateDetector over store.
func NewDuplicateDetector(store structured.EntityStore[models.FoodEntry]) *DuplicateDetector {
	return &DuplicateDetector{store: store}
}

const duplicateScoreThreshold = 0.8

// Scan returns every unordered pair of userID's non-merged food entries
// whose DuplicateScore is >= 0.8.
func (d *DuplicateDetector) Scan(ctx context.Context, userID string) ([]DuplicateCandidate, error) {
	var entries []models.FoodEntry
	cursor := ""
	for {
		page, err := d.store.List(ctx, userID, func(e *models.FoodEntry) bool { return !e.IsMerged }, cursor, structured.MaxPageSize)
		if err != nil {
			return nil, err
		}
		entries = append(entries, page.Items...)
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	var candidates []DuplicateCandidate
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			score := DuplicateScore(entries[i].Name, entries[j].Name)
			if score >= duplicateScoreThreshold {
				candidates = append(candidates, DuplicateCandidate{AID: entries[i].ID, BID: entries[j].ID, Score: score})
			}
		}
	}
	return candidates, nil
}

// Merge designates canonicalID as canonical and marks duplicateID as
// merged, recording duplicateID in canonicalID's merged_from list
// (spec.md §4.5: "Merging is a write that designates one entry canonical
// and marks the other is_merged = true, recording the merged-from id.").
func (d *DuplicateDetector) Merge(ctx context.Context, userID, canonicalID, duplicateID string) (*models.FoodEntry, error) {
	if canonicalID == duplicateID {
		return nil, coreerrors.New(coreerrors.KindInvalidArgument, "canonical and duplicate ids must differ")
	}
	if _, err := d.store.Update(ctx, userID, duplicateID, func(e *models.FoodEntry) {
		e.IsMerged = true
	}); err != nil {
		return nil, err
	}
	return d.store.Update(ctx, userID, canonicalID, func(e *models.FoodEntry) {
		e.MergedFrom = append(e.MergedFrom, duplicateID)
	})
}

// Tools builds the food_duplicate_scan and food_duplicate_merge tool
// descriptors.
func (d *DuplicateDetector) Tools() []*models.ToolDescriptor {
	scanSchema := []byte(`{
		"type": "object",
		"required": ["user_id"],
		"properties": {"user_id": {"type": "string"}}
	}`)
	mergeSchema := []byte(`{
		"type": "object",
		"required": ["user_id", "canonical_id", "duplicate_id"],
		"properties": {
			"user_id": {"type": "string"},
			"canonical_id": {"type": "string"},
			"duplicate_id": {"type": "string"}
		}
	}`)
	return []*models.ToolDescriptor{
		{
			Name:            "food_duplicate_scan",
			Description:     "Find candidate duplicate food log entries for a user.",
			ParameterSchema: scanSchema,
			SideEffectClass: models.SideEffectRead,
			Idempotent:      true,
			Handler: func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
				var args struct {
					UserID string `json:"user_id"`
				}
				if err := json.Unmarshal(arguments, &args); err != nil {
					return nil, coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "decode food_duplicate_scan arguments")
				}
				candidates, err := d.Scan(ctx, args.UserID)
				if err != nil {
					return nil, err
				}
				return json.Marshal(map[string]any{"candidates": candidates})
			},
		},
		{
			Name:            "food_duplicate_merge",
			Description:     "Merge one duplicate food log entry into a canonical entry.",
			ParameterSchema: mergeSchema,
			SideEffectClass: models.SideEffectWrite,
			Idempotent:      false,
			Handler: func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
				var args struct {
					UserID      string `json:"user_id"`
					CanonicalID string `json:"canonical_id"`
					DuplicateID string `json:"duplicate_id"`
				}
				if err := json.Unmarshal(arguments, &args); err != nil {
					return nil, coreerrors.Wrap(coreerrors.KindInvalidArgument, err, "decode food_duplicate_merge arguments")
				}
				canonical, err := d.Merge(ctx, args.UserID, args.CanonicalID, args.DuplicateID)
				if err != nil {
					return nil, err
				}
				return json.Marshal(canonical)
			},
		},
	}
}
