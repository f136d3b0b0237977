package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"GroundwaterDash/internal/config"
	"GroundwaterDash/internal/reporting"
)

var (
	ErrNotFound         = errors.New("file entry not found")
	ErrUnknownStoreType = errors.New("unknown store type")
)

// Source delivers file entries to the reporting layer. Implementations return
// plain data; callers treat the result as a read-only snapshot.
type Source interface {
	ListFileEntries(ctx context.Context) ([]reporting.FileEntry, error)
}

// Lookup fetches individual file entries.
type Lookup interface {
	GetFileEntry(ctx context.Context, fileNo string) (reporting.FileEntry, error)
}

// Selector loads only the entries with the given file numbers. Unknown
// numbers are skipped.
type Selector interface {
	ListByFileNos(ctx context.Context, fileNos []string) ([]reporting.FileEntry, error)
}

// Select loads the entries with the given file numbers from src, or every
// entry when fileNos is empty. Sources without a Selector are filtered after
// a full load.
func Select(ctx context.Context, src Source, fileNos []string) ([]reporting.FileEntry, error) {
	if len(fileNos) == 0 {
		return src.ListFileEntries(ctx)
	}
	if sel, ok := src.(Selector); ok {
		return sel.ListByFileNos(ctx, fileNos)
	}
	entries, err := src.ListFileEntries(ctx)
	if err != nil {
		return nil, err
	}
	return filterByFileNo(entries, fileNos), nil
}

func filterByFileNo(entries []reporting.FileEntry, fileNos []string) []reporting.FileEntry {
	want := make(map[string]bool, len(fileNos))
	for _, no := range fileNos {
		want[no] = true
	}
	var out []reporting.FileEntry
	for _, e := range entries {
		if want[e.FileNo] {
			out = append(out, e)
		}
	}
	return out
}

// document is one stored file entry row: the business key plus the JSON body.
type document struct {
	FileNo string `db:"file_no"`
	Body   []byte `db:"document"`
}

func decodeDocument(d document) (reporting.FileEntry, error) {
	var e reporting.FileEntry
	if err := json.Unmarshal(d.Body, &e); err != nil {
		return reporting.FileEntry{}, fmt.Errorf("decode file entry %s: %w", d.FileNo, err)
	}
	if e.FileNo == "" {
		e.FileNo = d.FileNo
	}
	return e, nil
}

// decodeDocuments decodes every row. Rows that fail to decode are skipped and
// reported through the returned count so one corrupt document cannot block a report.
func decodeDocuments(docs []document) ([]reporting.FileEntry, int) {
	entries := make([]reporting.FileEntry, 0, len(docs))
	skipped := 0
	for _, d := range docs {
		e, err := decodeDocument(d)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, skipped
}

// Open builds the Source selected by cfg. db is reused for the postgres store
// when non-nil.
func Open(ctx context.Context, cfg config.StoreConfig, db *sql.DB) (Source, error) {
	switch cfg.Type {
	case config.StoreFile:
		return NewFileStore(cfg.SnapshotPath), nil
	case config.StorePgx:
		return NewPgxStore(ctx, cfg.ConnectionString)
	case config.StorePostgres:
		if db != nil {
			return NewSQLStore(db), nil
		}
		return OpenSQLStore(cfg.ConnectionString)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStoreType, cfg.Type)
}
