package vector

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
)

// PostgresBackend issues lib/pq-driven SQL against a pgvector-extended
// Postgres table, grounded on the teacher's
// internal/rag/store/pgvector.Store: the same encode/decode-as-literal-
// array approach for the vector column and the same `<=>` cosine-distance
// operator for ranking, narrowed to one flat record table instead of the
// teacher's document/chunk pair since capability set V has no chunking
// concept.
type PostgresBackend struct {
	db *sql.DB
}

// NewPostgresBackend opens (or reuses) db and ensures the vector tables and
// the pgvector extension exist.
func NewPostgresBackend(ctx context.Context, db *sql.DB) (*PostgresBackend, error) {
	b := &PostgresBackend{db: db}
	if err := b.migrate(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *PostgresBackend) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS vector_collections (
			name      TEXT PRIMARY KEY,
			dimension INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS vector_records (
			collection TEXT NOT NULL REFERENCES vector_collections(name),
			id         TEXT NOT NULL,
			text       TEXT NOT NULL,
			metadata   JSONB NOT NULL DEFAULT '{}',
			embedding  vector NOT NULL,
			PRIMARY KEY (collection, id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := b.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate vector store: %w", err)
		}
	}
	return nil
}

func (b *PostgresBackend) dimensionOf(ctx context.Context, collection string) (int, bool, error) {
	var dim int
	err := b.db.QueryRowContext(ctx, `SELECT dimension FROM vector_collections WHERE name = $1`, collection).Scan(&dim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup collection %q: %w", collection, err)
	}
	return dim, true, nil
}

func (b *PostgresBackend) Upsert(ctx context.Context, collection string, record Record) error {
	dim, exists, err := b.dimensionOf(ctx, collection)
	if err != nil {
		return err
	}
	if !exists {
		if _, err := b.db.ExecContext(ctx,
			`INSERT INTO vector_collections (name, dimension) VALUES ($1, $2)`,
			collection, len(record.Embedding)); err != nil {
			return fmt.Errorf("register collection %q: %w", collection, err)
		}
	} else if len(record.Embedding) != dim {
		return errDimensionMismatch(collection, len(record.Embedding), dim)
	}

	metadata, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	_, err = b.db.ExecContext(ctx, `
INSERT INTO vector_records (collection, id, text, metadata, embedding)
VALUES ($1, $2, $3, $4, $5::vector)
ON CONFLICT (collection, id) DO UPDATE SET
	text = EXCLUDED.text,
	metadata = EXCLUDED.metadata,
	embedding = EXCLUDED.embedding`,
		collection, record.ID, record.Text, metadata, encodeEmbedding(record.Embedding))
	if err != nil {
		return fmt.Errorf("upsert vector record: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Get(ctx context.Context, collection, id string) (*Record, bool, error) {
	row := b.db.QueryRowContext(ctx, `
SELECT id, text, metadata, embedding FROM vector_records WHERE collection = $1 AND id = $2`, collection, id)
	var (
		rec         Record
		metadataRaw []byte
		embedding   string
	)
	if err := row.Scan(&rec.ID, &rec.Text, &metadataRaw, &embedding); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get vector record: %w", err)
	}
	if err := json.Unmarshal(metadataRaw, &rec.Metadata); err != nil {
		return nil, false, fmt.Errorf("decode metadata: %w", err)
	}
	rec.Embedding = decodeEmbedding(embedding)
	return &rec, true, nil
}

func (b *PostgresBackend) Search(ctx context.Context, collection string, query []float32, topK int) ([]Match, error) {
	dim, exists, err := b.dimensionOf(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	if len(query) != dim {
		return nil, errDimensionMismatch(collection, len(query), dim)
	}
	if topK <= 0 {
		topK = 10
	}

	rows, err := b.db.QueryContext(ctx, `
SELECT id, text, metadata, embedding, 1 - (embedding <=> $1::vector) AS similarity
FROM vector_records
WHERE collection = $2
ORDER BY embedding <=> $1::vector ASC
LIMIT $3`, encodeEmbedding(query), collection, topK)
	if err != nil {
		return nil, fmt.Errorf("search vector records: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var (
			m            Match
			metadataRaw  []byte
			embeddingStr string
		)
		if err := rows.Scan(&m.ID, &m.Text, &metadataRaw, &embeddingStr, &m.Score); err != nil {
			return nil, fmt.Errorf("scan vector record: %w", err)
		}
		if err := json.Unmarshal(metadataRaw, &m.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
		m.Embedding = decodeEmbedding(embeddingStr)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (b *PostgresBackend) Delete(ctx context.Context, collection, id string) error {
	res, err := b.db.ExecContext(ctx,
		`DELETE FROM vector_records WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete vector record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return coreerrors.New(coreerrors.KindNotFound, "record %q not found in collection %q", id, collection)
	}
	return nil
}

func (b *PostgresBackend) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := b.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vector_records WHERE collection = $1`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count vector records: %w", err)
	}
	return n, nil
}

func encodeEmbedding(embedding []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range embedding {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%g", f)
	}
	sb.WriteByte(']')
	return sb.String()
}

func decodeEmbedding(s string) []float32 {
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		var f float64
		fmt.Sscanf(strings.TrimSpace(p), "%f", &f)
		out[i] = float32(f)
	}
	return out
}
