package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// PostgresStore implements Store durably against PostgreSQL (or any
// wire-compatible database), mirroring the teacher's
// internal/sessions/cockroach.go: a single JSONB column holds the pruned
// message window, with dedicated columns for the fields the router and
// pruner need to filter on without deserializing the blob.
type PostgresStore struct {
	db *sql.DB
}

// PostgresConfig configures the connection.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPostgresConfig returns sane pool defaults.
func DefaultPostgresConfig(dsn string) PostgresConfig {
	return PostgresConfig{
		DSN:             dsn,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// NewPostgresStore opens a pool and ensures the sessions table exists.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, errors.New("dsn is required")
	}
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS assistant_sessions (
	session_id      TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	workspace       TEXT NOT NULL,
	current_expert  TEXT,
	iteration_count INTEGER NOT NULL DEFAULT 0,
	messages        JSONB NOT NULL DEFAULT '[]',
	domain_contexts JSONB NOT NULL DEFAULT '{}',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
)`)
	return err
}

// DB exposes the underlying pool so other structured-data stores (tasks,
// reminders, food entries, ...) can share the same connection, mirroring
// cockroach.go's DB() accessor.
func (s *PostgresStore) DB() *sql.DB { return s.db }

func (s *PostgresStore) Load(ctx context.Context, sessionID, userID, workspace string) (*models.Session, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT session_id, user_id, workspace, current_expert, iteration_count,
       messages, domain_contexts, created_at, updated_at
FROM assistant_sessions WHERE session_id = $1`, sessionID)

	var (
		sess           models.Session
		currentExpert  sql.NullString
		messagesRaw    []byte
		domainCtxRaw   []byte
	)
	err := row.Scan(&sess.SessionID, &sess.UserID, &sess.Workspace, &currentExpert,
		&sess.IterationCount, &messagesRaw, &domainCtxRaw, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewSession(sessionID, userID, workspace), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	sess.CurrentExpert = currentExpert.String
	if err := json.Unmarshal(messagesRaw, &sess.Messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	if err := json.Unmarshal(domainCtxRaw, &sess.DomainContexts); err != nil {
		return nil, fmt.Errorf("decode domain contexts: %w", err)
	}
	return &sess, nil
}

func (s *PostgresStore) Save(ctx context.Context, session *models.Session) error {
	if session == nil {
		return nil
	}
	messagesRaw, err := json.Marshal(session.Messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	domainCtxRaw, err := json.Marshal(session.DomainContexts)
	if err != nil {
		return fmt.Errorf("encode domain contexts: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO assistant_sessions
	(session_id, user_id, workspace, current_expert, iteration_count, messages, domain_contexts, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (session_id) DO UPDATE SET
	current_expert = EXCLUDED.current_expert,
	iteration_count = EXCLUDED.iteration_count,
	messages = EXCLUDED.messages,
	domain_contexts = EXCLUDED.domain_contexts,
	updated_at = EXCLUDED.updated_at`,
		session.SessionID, session.UserID, session.Workspace, nullIfEmpty(session.CurrentExpert),
		session.IterationCount, messagesRaw, domainCtxRaw, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM assistant_sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Describe(ctx context.Context, sessionID string) (models.SessionDescription, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT session_id, jsonb_array_length(messages), current_expert, created_at, updated_at
FROM assistant_sessions WHERE session_id = $1`, sessionID)

	var (
		desc          models.SessionDescription
		currentExpert sql.NullString
	)
	err := row.Scan(&desc.SessionID, &desc.MessageCount, &currentExpert, &desc.CreatedAt, &desc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SessionDescription{}, false, nil
	}
	if err != nil {
		return models.SessionDescription{}, false, fmt.Errorf("describe session: %w", err)
	}
	desc.CurrentExpert = currentExpert.String
	return desc, true, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
