package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"GroundwaterDash/internal/logger"
	"GroundwaterDash/internal/reporting"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	listDocumentsQuery = `SELECT file_no, document FROM file_entries ORDER BY file_no`
	getDocumentQuery   = `SELECT file_no, document FROM file_entries WHERE file_no = $1`
	listByFileNosQuery = `SELECT file_no, document FROM file_entries WHERE file_no = ANY($1) ORDER BY file_no`
	upsertQuery        = `INSERT INTO file_entries (file_no, document, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (file_no) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`
)

// SQLStore reads file entry documents from a Postgres JSONB table through lib/pq.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: sqlx.NewDb(db, "postgres")}
}

func OpenSQLStore(connString string) (*SQLStore, error) {
	db, err := sqlx.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) ListFileEntries(ctx context.Context) ([]reporting.FileEntry, error) {
	var docs []document
	if err := s.db.SelectContext(ctx, &docs, listDocumentsQuery); err != nil {
		return nil, fmt.Errorf("list file entries: %w", err)
	}
	entries, skipped := decodeDocuments(docs)
	if skipped > 0 {
		logger.Audit("skipped %d undecodable file entry documents", skipped)
	}
	return entries, nil
}

func (s *SQLStore) GetFileEntry(ctx context.Context, fileNo string) (reporting.FileEntry, error) {
	var d document
	err := s.db.GetContext(ctx, &d, getDocumentQuery, fileNo)
	if errors.Is(err, sql.ErrNoRows) {
		return reporting.FileEntry{}, fmt.Errorf("%s: %w", fileNo, ErrNotFound)
	}
	if err != nil {
		return reporting.FileEntry{}, fmt.Errorf("get file entry %s: %w", fileNo, err)
	}
	return decodeDocument(d)
}

// ListByFileNos returns the entries with the given file numbers, ordered by file number.
func (s *SQLStore) ListByFileNos(ctx context.Context, fileNos []string) ([]reporting.FileEntry, error) {
	var docs []document
	if err := s.db.SelectContext(ctx, &docs, listByFileNosQuery, pq.Array(fileNos)); err != nil {
		return nil, fmt.Errorf("list file entries by number: %w", err)
	}
	entries, _ := decodeDocuments(docs)
	return entries, nil
}

// SaveFileEntry stores the entry with its cached totals recomputed.
func (s *SQLStore) SaveFileEntry(ctx context.Context, e reporting.FileEntry) error {
	body, err := marshalEntry(e)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, upsertQuery, e.FileNo, body); err != nil {
		return fmt.Errorf("save file entry %s: %w", e.FileNo, err)
	}
	return nil
}

func (s *SQLStore) Close() error { return s.db.Close() }
