// Package structured implements capability set S from spec §4.5: typed
// create/read/update/delete/list operations over the seven writable
// structured domain entities (the read-only conversation view lives in
// conversation.go), with cursor-paginated list results bounded to a
// default/hard-max page size. Grounded on the shape of the teacher's
// internal/tasks.Store (one interface per entity family, options structs
// for filtering) and internal/sessions/cockroach.go (JSONB-backed
// Postgres persistence), generalized here with Go generics across all
// seven entity types instead of one bespoke interface per type.
package structured

import (
	"context"
	"sort"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// Entity is satisfied by every structured domain type; identity and
// ownership are the two facts the store needs without reflecting into
// arbitrary struct fields.
type Entity interface {
	models.FoodEntry | models.Task | models.Reminder | models.Event |
		models.Note | models.Document | models.MemoryEntry
}

// EntityStore is the generic CRUD + list contract capability set S
// describes, parameterized per entity type. A concrete Store (below)
// exposes one EntityStore per entity; callers of the tool layer never see
// the generic type directly.
type EntityStore[T any] interface {
	Create(ctx context.Context, userID string, entity *T) error
	Get(ctx context.Context, userID, id string) (*T, error)
	Update(ctx context.Context, userID, id string, patch func(*T)) (*T, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string, filter func(*T) bool, cursor string, pageSize int) (models.Page[T], error)
}

// Store bundles one EntityStore per structured domain entity (spec §4.5's
// enumerated list). ConversationSummary is read-only (derived from
// Session, never written through this interface) so it has its own
// narrower accessor.
type Store interface {
	FoodEntries() EntityStore[models.FoodEntry]
	Tasks() EntityStore[models.Task]
	Reminders() EntityStore[models.Reminder]
	Events() EntityStore[models.Event]
	Notes() EntityStore[models.Note]
	Documents() EntityStore[models.Document]
	Memories() EntityStore[models.MemoryEntry]
}

// DefaultPageSize and MaxPageSize mirror spec §4.5 ("pagination by cursor
// and bounded page size (default 50, hard max 500)").
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// clampPageSize applies the default/hard-max bound uniformly across every
// backend implementation.
func clampPageSize(pageSize int) int {
	if pageSize <= 0 {
		return DefaultPageSize
	}
	if pageSize > MaxPageSize {
		return MaxPageSize
	}
	return pageSize
}

// errNotFound builds the coreerrors.KindNotFound error returned when Get,
// Update, or Delete target a nonexistent or not-owned-by-userID id.
func errNotFound(kind, id string) error {
	return coreerrors.New(coreerrors.KindNotFound, "%s %q not found", kind, id)
}

// sortedKeys returns m's keys in a stable order so cursor pagination over
// an in-memory map is deterministic across calls.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
