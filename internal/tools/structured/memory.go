package structured

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// memEntityStore is a generic, mutex-protected in-memory EntityStore.
// idOf/ownerOf/touch let one implementation serve every entity type
// without reflection.
type memEntityStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T

	kind    string
	idOf    func(*T) string
	ownerOf func(*T) string
	setID   func(*T, string)
	touch   func(*T, time.Time)
}

func newMemEntityStore[T any](kind string, idOf, ownerOf func(*T) string, setID func(*T, string), touch func(*T, time.Time)) *memEntityStore[T] {
	return &memEntityStore[T]{
		items:   make(map[string]T),
		kind:    kind,
		idOf:    idOf,
		ownerOf: ownerOf,
		setID:   setID,
		touch:   touch,
	}
}

func (s *memEntityStore[T]) Create(ctx context.Context, userID string, entity *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idOf(entity) == "" {
		s.setID(entity, uuid.NewString())
	}
	now := time.Now()
	s.touch(entity, now)
	s.items[s.idOf(entity)] = *entity
	return nil
}

func (s *memEntityStore[T]) Get(ctx context.Context, userID, id string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok || s.ownerOf(&item) != userID {
		return nil, errNotFound(s.kind, id)
	}
	return &item, nil
}

func (s *memEntityStore[T]) Update(ctx context.Context, userID, id string, patch func(*T)) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || s.ownerOf(&item) != userID {
		return nil, errNotFound(s.kind, id)
	}
	patch(&item)
	s.touch(&item, time.Now())
	s.items[id] = item
	return &item, nil
}

func (s *memEntityStore[T]) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || s.ownerOf(&item) != userID {
		return errNotFound(s.kind, id)
	}
	delete(s.items, id)
	return nil
}

func (s *memEntityStore[T]) List(ctx context.Context, userID string, filter func(*T) bool, cursor string, pageSize int) (models.Page[T], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pageSize = clampPageSize(pageSize)

	keys := sortedKeys(s.items)
	start := 0
	if cursor != "" {
		for i, k := range keys {
			if k > cursor {
				start = i
				break
			}
			start = i + 1
		}
	}

	page := models.Page[T]{}
	for i := start; i < len(keys); i++ {
		item := s.items[keys[i]]
		if s.ownerOf(&item) != userID {
			continue
		}
		if filter != nil && !filter(&item) {
			continue
		}
		if len(page.Items) == pageSize {
			page.NextCursor = keys[i-1]
			return page, nil
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// MemoryStore implements Store entirely in memory, for dev/test use and
// personal deployments that don't need durability across process
// restarts.
type MemoryStore struct {
	food      *memEntityStore[models.FoodEntry]
	tasks     *memEntityStore[models.Task]
	reminders *memEntityStore[models.Reminder]
	events    *memEntityStore[models.Event]
	notes     *memEntityStore[models.Note]
	documents *memEntityStore[models.Document]
	memories  *memEntityStore[models.MemoryEntry]
}

// NewMemoryStore builds an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		food: newMemEntityStore(
			"food_entry",
			func(e *models.FoodEntry) string { return e.ID },
			func(e *models.FoodEntry) string { return e.UserID },
			func(e *models.FoodEntry, id string) { e.ID = id },
			func(e *models.FoodEntry, t time.Time) {
				if e.CreatedAt.IsZero() {
					e.CreatedAt = t
				}
				e.UpdatedAt = t
			},
		),
		tasks: newMemEntityStore(
			"task",
			func(e *models.Task) string { return e.ID },
			func(e *models.Task) string { return e.UserID },
			func(e *models.Task, id string) { e.ID = id },
			func(e *models.Task, t time.Time) {
				if e.CreatedAt.IsZero() {
					e.CreatedAt = t
				}
				e.UpdatedAt = t
			},
		),
		reminders: newMemEntityStore(
			"reminder",
			func(e *models.Reminder) string { return e.ID },
			func(e *models.Reminder) string { return e.UserID },
			func(e *models.Reminder, id string) { e.ID = id },
			func(e *models.Reminder, t time.Time) {
				if e.CreatedAt.IsZero() {
					e.CreatedAt = t
				}
				e.UpdatedAt = t
			},
		),
		events: newMemEntityStore(
			"event",
			func(e *models.Event) string { return e.ID },
			func(e *models.Event) string { return e.UserID },
			func(e *models.Event, id string) { e.ID = id },
			func(e *models.Event, t time.Time) {
				if e.CreatedAt.IsZero() {
					e.CreatedAt = t
				}
				e.UpdatedAt = t
			},
		),
		notes: newMemEntityStore(
			"note",
			func(e *models.Note) string { return e.ID },
			func(e *models.Note) string { return e.UserID },
			func(e *models.Note, id string) { e.ID = id },
			func(e *models.Note, t time.Time) {
				if e.CreatedAt.IsZero() {
					e.CreatedAt = t
				}
				e.UpdatedAt = t
			},
		),
		documents: newMemEntityStore(
			"document",
			func(e *models.Document) string { return e.ID },
			func(e *models.Document) string { return e.UserID },
			func(e *models.Document, id string) { e.ID = id },
			func(e *models.Document, t time.Time) {
				if e.CreatedAt.IsZero() {
					e.CreatedAt = t
				}
				e.UpdatedAt = t
			},
		),
		memories: newMemEntityStore(
			"memory",
			func(e *models.MemoryEntry) string { return e.ID },
			func(e *models.MemoryEntry) string { return e.UserID },
			func(e *models.MemoryEntry, id string) { e.ID = id },
			func(e *models.MemoryEntry, t time.Time) {
				if e.CreatedAt.IsZero() {
					e.CreatedAt = t
				}
				e.UpdatedAt = t
			},
		),
	}
}

func (s *MemoryStore) FoodEntries() EntityStore[models.FoodEntry]   { return s.food }
func (s *MemoryStore) Tasks() EntityStore[models.Task]              { return s.tasks }
func (s *MemoryStore) Reminders() EntityStore[models.Reminder]      { return s.reminders }
func (s *MemoryStore) Events() EntityStore[models.Event]            { return s.events }
func (s *MemoryStore) Notes() EntityStore[models.Note]              { return s.notes }
func (s *MemoryStore) Documents() EntityStore[models.Document]      { return s.documents }
func (s *MemoryStore) Memories() EntityStore[models.MemoryEntry]    { return s.memories }
