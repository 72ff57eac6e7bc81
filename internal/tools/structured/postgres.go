package structured

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// pgEntityStore persists one entity type as a JSONB blob per row,
// mirroring internal/sessions.PostgresStore's JSONB-column approach
// rather than a fully normalized table per entity — appropriate here
// since every structured entity is read/written whole, never queried by
// arbitrary sub-field from SQL (filtering happens in Go after the row is
// decoded, same as the in-memory backend).
type pgEntityStore[T any] struct {
	db    *sql.DB
	table string
	kind  string

	idOf    func(*T) string
	ownerOf func(*T) string
	setID   func(*T, string)
	touch   func(*T, time.Time)
}

func newPGEntityStore[T any](db *sql.DB, table, kind string, idOf, ownerOf func(*T) string, setID func(*T, string), touch func(*T, time.Time)) *pgEntityStore[T] {
	return &pgEntityStore[T]{db: db, table: table, kind: kind, idOf: idOf, ownerOf: ownerOf, setID: setID, touch: touch}
}

func (s *pgEntityStore[T]) migrate(ctx context.Context) error {
	stmt := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`, s.table)
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

func (s *pgEntityStore[T]) Create(ctx context.Context, userID string, entity *T) error {
	if s.idOf(entity) == "" {
		s.setID(entity, uuid.NewString())
	}
	now := time.Now()
	s.touch(entity, now)
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.kind, err)
	}
	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO %s (id, user_id, data, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)`, s.table),
		s.idOf(entity), userID, data, now)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.kind, err)
	}
	return nil
}

func (s *pgEntityStore[T]) Get(ctx context.Context, userID, id string) (*T, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT data FROM %s WHERE id = $1 AND user_id = $2`, s.table), id, userID)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNotFound(s.kind, id)
		}
		return nil, fmt.Errorf("get %s: %w", s.kind, err)
	}
	var entity T
	if err := json.Unmarshal(raw, &entity); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.kind, err)
	}
	return &entity, nil
}

func (s *pgEntityStore[T]) Update(ctx context.Context, userID, id string, patch func(*T)) (*T, error) {
	entity, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	patch(entity)
	s.touch(entity, time.Now())
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", s.kind, err)
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`UPDATE %s SET data = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`, s.table),
		data, time.Now(), id, userID)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", s.kind, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errNotFound(s.kind, id)
	}
	return entity, nil
}

func (s *pgEntityStore[T]) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE id = $1 AND user_id = $2`, s.table), id, userID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.kind, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errNotFound(s.kind, id)
	}
	return nil
}

func (s *pgEntityStore[T]) List(ctx context.Context, userID string, filter func(*T) bool, cursor string, pageSize int) (models.Page[T], error) {
	pageSize = clampPageSize(pageSize)
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, data FROM %s WHERE user_id = $1 AND id > $2 ORDER BY id ASC`, s.table), userID, cursor)
	if err != nil {
		return models.Page[T]{}, fmt.Errorf("list %s: %w", s.kind, err)
	}
	defer rows.Close()

	page := models.Page[T]{}
	var lastID string
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return models.Page[T]{}, fmt.Errorf("scan %s: %w", s.kind, err)
		}
		var entity T
		if err := json.Unmarshal(raw, &entity); err != nil {
			return models.Page[T]{}, fmt.Errorf("decode %s: %w", s.kind, err)
		}
		if filter != nil && !filter(&entity) {
			continue
		}
		if len(page.Items) == pageSize {
			page.NextCursor = lastID
			return page, nil
		}
		page.Items = append(page.Items, entity)
		lastID = id
	}
	if err := rows.Err(); err != nil {
		return models.Page[T]{}, fmt.Errorf("list %s: %w", s.kind, err)
	}
	return page, nil
}

// PostgresStore implements Store durably against PostgreSQL, reusing the
// generic JSONB-row pattern above for each of the seven writable entity
// types.
type PostgresStore struct {
	db        *sql.DB
	food      *pgEntityStore[models.FoodEntry]
	tasks     *pgEntityStore[models.Task]
	reminders *pgEntityStore[models.Reminder]
	events    *pgEntityStore[models.Event]
	notes     *pgEntityStore[models.Note]
	documents *pgEntityStore[models.Document]
	memories  *pgEntityStore[models.MemoryEntry]
}

// NewPostgresStore builds a Store against an already-open pool (typically
// shared with internal/sessions.PostgresStore.DB()) and ensures every
// entity table exists.
func NewPostgresStore(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{
		db: db,
		food: newPGEntityStore(db, "food_entries", "food_entry",
			func(e *models.FoodEntry) string { return e.ID },
			func(e *models.FoodEntry) string { return e.UserID },
			func(e *models.FoodEntry, id string) { e.ID = id },
			touchFood),
		tasks: newPGEntityStore(db, "tasks", "task",
			func(e *models.Task) string { return e.ID },
			func(e *models.Task) string { return e.UserID },
			func(e *models.Task, id string) { e.ID = id },
			touchTask),
		reminders: newPGEntityStore(db, "reminders", "reminder",
			func(e *models.Reminder) string { return e.ID },
			func(e *models.Reminder) string { return e.UserID },
			func(e *models.Reminder, id string) { e.ID = id },
			touchReminder),
		events: newPGEntityStore(db, "events", "event",
			func(e *models.Event) string { return e.ID },
			func(e *models.Event) string { return e.UserID },
			func(e *models.Event, id string) { e.ID = id },
			touchEvent),
		notes: newPGEntityStore(db, "notes", "note",
			func(e *models.Note) string { return e.ID },
			func(e *models.Note) string { return e.UserID },
			func(e *models.Note, id string) { e.ID = id },
			touchNote),
		documents: newPGEntityStore(db, "documents", "document",
			func(e *models.Document) string { return e.ID },
			func(e *models.Document) string { return e.UserID },
			func(e *models.Document, id string) { e.ID = id },
			touchDocument),
		memories: newPGEntityStore(db, "memory_entries", "memory",
			func(e *models.MemoryEntry) string { return e.ID },
			func(e *models.MemoryEntry) string { return e.UserID },
			func(e *models.MemoryEntry, id string) { e.ID = id },
			touchMemory),
	}

	migrators := []interface{ migrate(context.Context) error }{
		s.food, s.tasks, s.reminders, s.events, s.notes, s.documents, s.memories,
	}
	for _, m := range migrators {
		if err := m.migrate(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func touchFood(e *models.FoodEntry, t time.Time) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = t
	}
	e.UpdatedAt = t
}
func touchTask(e *models.Task, t time.Time) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = t
	}
	e.UpdatedAt = t
}
func touchReminder(e *models.Reminder, t time.Time) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = t
	}
	e.UpdatedAt = t
}
func touchEvent(e *models.Event, t time.Time) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = t
	}
	e.UpdatedAt = t
}
func touchNote(e *models.Note, t time.Time) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = t
	}
	e.UpdatedAt = t
}
func touchDocument(e *models.Document, t time.Time) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = t
	}
	e.UpdatedAt = t
}
func touchMemory(e *models.MemoryEntry, t time.Time) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = t
	}
	e.UpdatedAt = t
}

func (s *PostgresStore) FoodEntries() EntityStore[models.FoodEntry] { return s.food }
func (s *PostgresStore) Tasks() EntityStore[models.Task]            { return s.tasks }
func (s *PostgresStore) Reminders() EntityStore[models.Reminder]    { return s.reminders }
func (s *PostgresStore) Events() EntityStore[models.Event]          { return s.events }
func (s *PostgresStore) Notes() EntityStore[models.Note]            { return s.notes }
func (s *PostgresStore) Documents() EntityStore[models.Document]    { return s.documents }
func (s *PostgresStore) Memories() EntityStore[models.MemoryEntry]  { return s.memories }
