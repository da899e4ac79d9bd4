package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/garnizeh/dayhire/internal/db"
	"github.com/garnizeh/dayhire/internal/store"
)

// Store implements the document store interface on sqlite, one JSON document
// per row in the documents table.
type Store struct {
	conn   *db.DB
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

func New(conn *db.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{conn: conn, logger: logger}
}

func (s *Store) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	row := s.conn.QueryRow(ctx, `SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}

	return data, nil
}

func (s *Store) GetAll(ctx context.Context, collection string) ([]store.Document, error) {
	rows, err := s.conn.QueryRows(ctx, `SELECT id, seq, data FROM documents WHERE collection = ? ORDER BY seq ASC`, collection)
	if err != nil {
		return nil, fmt.Errorf("get all %s: %w", collection, err)
	}
	defer rows.Close()

	return scanDocuments(collection, rows)
}

func (s *Store) FindEqual(ctx context.Context, collection, field string, value any) ([]store.Document, error) {
	rows, err := s.conn.QueryRows(ctx, `SELECT id, seq, data FROM documents WHERE collection = ? AND json_extract(data, '$.' || ?) = ? ORDER BY seq ASC`, collection, field, value)
	if err != nil {
		return nil, fmt.Errorf("find %s by %s: %w", collection, field, err)
	}
	defer rows.Close()

	return scanDocuments(collection, rows)
}

func (s *Store) Create(ctx context.Context, collection, id string, data map[string]any) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}

	if _, err := s.conn.Exec(ctx, `INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`, collection, id, string(raw)); err != nil {
		return "", fmt.Errorf("create %s/%s: %w", collection, id, err)
	}

	return id, nil
}

func (s *Store) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s patch: %w", collection, err)
	}

	res, err := s.conn.Exec(ctx, `UPDATE documents SET data = json_patch(data, ?) WHERE collection = ? AND id = ?`, string(patch), collection, id)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s/%s rows: %w", collection, id, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s/%s: %w", collection, id, store.ErrNoDocument)
	}

	return nil
}

func (s *Store) UpdateFieldsChecked(ctx context.Context, collection, id string, fields map[string]any, guardField string, expected any) (bool, error) {
	patch, err := json.Marshal(fields)
	if err != nil {
		return false, fmt.Errorf("encode %s patch: %w", collection, err)
	}

	res, err := s.conn.Exec(ctx, `UPDATE documents SET data = json_patch(data, ?) WHERE collection = ? AND id = ? AND json_extract(data, '$.' || ?) = ?`, string(patch), collection, id, guardField, expected)
	if err != nil {
		return false, fmt.Errorf("checked update %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checked update %s/%s rows: %w", collection, id, err)
	}
	if n > 0 {
		return true, nil
	}

	// distinguish a guard mismatch from a missing document
	existing, err := s.Get(ctx, collection, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, fmt.Errorf("checked update %s/%s: %w", collection, id, store.ErrNoDocument)
	}

	return false, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.conn.Exec(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func scanDocuments(collection string, rows *sql.Rows) ([]store.Document, error) {
	var out []store.Document
	for rows.Next() {
		var (
			id  string
			seq int64
			raw string
		)
		if err := rows.Scan(&id, &seq, &raw); err != nil {
			return nil, fmt.Errorf("scan %s document: %w", collection, err)
		}

		var data map[string]any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}

		out = append(out, store.Document{ID: id, Seq: seq, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s documents: %w", collection, err)
	}

	return out, nil
}
