package store

import (
	"context"
	"errors"
	"fmt"

	"GroundwaterDash/internal/logger"
	"GroundwaterDash/internal/reporting"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxStore reads file entry documents over a pgx connection pool.
type PgxStore struct {
	pool *pgxpool.Pool
}

func NewPgxStore(ctx context.Context, connString string) (*PgxStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return &PgxStore{pool: pool}, nil
}

func (s *PgxStore) ListFileEntries(ctx context.Context) ([]reporting.FileEntry, error) {
	docs, err := s.queryDocuments(ctx, listDocumentsQuery)
	if err != nil {
		return nil, fmt.Errorf("list file entries: %w", err)
	}
	entries, skipped := decodeDocuments(docs)
	if skipped > 0 {
		logger.Audit("skipped %d undecodable file entry documents", skipped)
	}
	return entries, nil
}

// ListByFileNos returns the entries with the given file numbers, ordered by
// file number. pgx encodes the slice as a text array.
func (s *PgxStore) ListByFileNos(ctx context.Context, fileNos []string) ([]reporting.FileEntry, error) {
	docs, err := s.queryDocuments(ctx, listByFileNosQuery, fileNos)
	if err != nil {
		return nil, fmt.Errorf("list file entries by number: %w", err)
	}
	entries, _ := decodeDocuments(docs)
	return entries, nil
}

func (s *PgxStore) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]document, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []document
	for rows.Next() {
		var d document
		if err := rows.Scan(&d.FileNo, &d.Body); err != nil {
			return nil, fmt.Errorf("scan file entry: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *PgxStore) GetFileEntry(ctx context.Context, fileNo string) (reporting.FileEntry, error) {
	var d document
	err := s.pool.QueryRow(ctx, getDocumentQuery, fileNo).Scan(&d.FileNo, &d.Body)
	if errors.Is(err, pgx.ErrNoRows) {
		return reporting.FileEntry{}, fmt.Errorf("%s: %w", fileNo, ErrNotFound)
	}
	if err != nil {
		return reporting.FileEntry{}, fmt.Errorf("get file entry %s: %w", fileNo, err)
	}
	return decodeDocument(d)
}

func (s *PgxStore) SaveFileEntry(ctx context.Context, e reporting.FileEntry) error {
	body, err := marshalEntry(e)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, upsertQuery, e.FileNo, body); err != nil {
		return fmt.Errorf("save file entry %s: %w", e.FileNo, err)
	}
	return nil
}

func (s *PgxStore) Close() { s.pool.Close() }
