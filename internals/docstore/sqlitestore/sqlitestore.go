package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"schooladmin_backend/internals/docstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection  TEXT NOT NULL,
	document_id TEXT NOT NULL,
	data        TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL,
	PRIMARY KEY (collection, document_id)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, created_at);
`

// Store is a single-file document store for local installs.
type Store struct {
	db *sql.DB
}

// Open creates the database file (and its directory) when missing.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, pkgerrors.Wrap(err, "create sqlite directory")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open sqlite")
	}
	// one writer keeps SQLITE_BUSY out of concurrent saves
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, pkgerrors.Wrap(err, "create documents table")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func mapErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.ErrNotFound
	}
	var se *sqlite.Error
	if errors.As(err, &se) && (se.Code() == sqlite3.SQLITE_AUTH || se.Code() == sqlite3.SQLITE_PERM || se.Code() == sqlite3.SQLITE_READONLY) {
		return pkgerrors.Wrapf(docstore.ErrPermissionDenied, "%s: %s", op, se.Error())
	}
	return pkgerrors.Wrap(err, op)
}

func scanDocs(rows *sql.Rows) ([]docstore.Document, error) {
	defer rows.Close()
	var out []docstore.Document
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		data, err := docstore.Unmarshal([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, docstore.Document{ID: id, Data: data})
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document_id, data FROM documents WHERE collection = ? ORDER BY created_at, rowid`, collection)
	if err != nil {
		return nil, mapErr(err, "list "+collection)
	}
	docs, err := scanDocs(rows)
	return docs, mapErr(err, "list "+collection)
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND document_id = ?`, collection, id).Scan(&raw)
	if err != nil {
		return docstore.Document{}, mapErr(err, "get "+collection)
	}
	data, err := docstore.Unmarshal([]byte(raw))
	if err != nil {
		return docstore.Document{}, err
	}
	return docstore.Document{ID: id, Data: data}, nil
}

func (s *Store) Query(ctx context.Context, collection, field string, value any) ([]docstore.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document_id, data FROM documents
		 WHERE collection = ? AND json_extract(data, '$.' || ?) = ?
		 ORDER BY created_at, rowid`, collection, field, value)
	if err != nil {
		return nil, mapErr(err, "query "+collection)
	}
	docs, err := scanDocs(rows)
	return docs, mapErr(err, "query "+collection)
}

func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	raw, err := docstore.Marshal(data)
	if err != nil {
		return "", err
	}
	now := time.Now().UnixNano()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, document_id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		collection, id, string(raw), now, now)
	if err != nil {
		return "", mapErr(err, "add "+collection)
	}
	return id, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := docstore.Marshal(data)
	if err != nil {
		return err
	}
	now := time.Now().UnixNano()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, document_id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(collection, document_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		collection, id, string(raw), now, now)
	return mapErr(err, "set "+collection)
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err, "update "+collection)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND document_id = ?`, collection, id).Scan(&raw)
	if err != nil {
		return mapErr(err, "update "+collection)
	}
	data, err := docstore.Unmarshal([]byte(raw))
	if err != nil {
		return err
	}
	for k, v := range fields {
		data[k] = v
	}
	merged, err := docstore.Marshal(data)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE documents SET data = ?, updated_at = ? WHERE collection = ? AND document_id = ?`,
		string(merged), time.Now().UnixNano(), collection, id)
	if err != nil {
		return mapErr(err, "update "+collection)
	}
	return mapErr(tx.Commit(), "update "+collection)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND document_id = ?`, collection, id)
	return mapErr(err, "delete "+collection)
}
