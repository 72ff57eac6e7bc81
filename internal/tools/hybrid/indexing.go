package hybrid

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/tools/vector"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// foodEntryText builds the string embedded into FoodCollection for a food
// entry — name and location carry the signal food_recommend's cosine rank
// needs; timestamps and identifiers don't.
func foodEntryText(e *models.FoodEntry) string {
	parts := []string{e.Name}
	if e.Location != "" {
		parts = append(parts, "at "+e.Location)
	}
	parts = append(parts, "rated "+string(e.Preference))
	return strings.Join(parts, " ")
}

// IndexFoodEntryTools wraps the food_entry_create and food_entry_update
// tool handlers (built generically by structured.Tools) so that, after the
// structured write succeeds, the entry's current text is embedded and
// upserted into FoodCollection under its id — keeping the vector index the
// hybrid food_recommend tool reads from in sync with capability-S writes,
// without capability-S itself knowing about embeddings.
func IndexFoodEntryTools(tools []*models.ToolDescriptor, vectors vector.Backend, embeddings vector.EmbeddingProvider) []*models.ToolDescriptor {
	for _, td := range tools {
		switch td.Name {
		case "food_entry_create", "food_entry_update":
			td.Handler = wrapFoodEntryHandler(td.Handler, vectors, embeddings)
		}
	}
	return tools
}

func wrapFoodEntryHandler(inner models.ToolHandler, vectors vector.Backend, embeddings vector.EmbeddingProvider) models.ToolHandler {
	return func(ctx context.Context, arguments json.RawMessage) (json.RawMessage, error) {
		result, err := inner(ctx, arguments)
		if err != nil {
			return nil, err
		}
		var entry models.FoodEntry
		if err := json.Unmarshal(result, &entry); err != nil {
			return nil, coreerrors.Wrap(coreerrors.KindInternal, err, "decode food entry for indexing")
		}
		vec, err := embeddings.Embed(ctx, foodEntryText(&entry))
		if err != nil {
			return nil, err
		}
		if err := vectors.Upsert(ctx, FoodCollection, vector.Record{
			ID:        entry.ID,
			Text:      foodEntryText(&entry),
			Embedding: vec,
			Metadata:  map[string]string{"user_id": entry.UserID},
		}); err != nil {
			return nil, err
		}
		return result, nil
	}
}
