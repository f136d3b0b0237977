package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"GroundwaterDash/internal/reporting"
)

// FileStore reads a JSON array of file entries from disk. It backs local
// development and the CLI.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) ListFileEntries(ctx context.Context) ([]reporting.FileEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}
	var entries []reporting.FileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *FileStore) GetFileEntry(ctx context.Context, fileNo string) (reporting.FileEntry, error) {
	entries, err := s.ListFileEntries(ctx)
	if err != nil {
		return reporting.FileEntry{}, err
	}
	for _, e := range entries {
		if e.FileNo == fileNo {
			return e, nil
		}
	}
	return reporting.FileEntry{}, fmt.Errorf("%s: %w", fileNo, ErrNotFound)
}

// ListByFileNos keeps the snapshot's entry order.
func (s *FileStore) ListByFileNos(ctx context.Context, fileNos []string) ([]reporting.FileEntry, error) {
	entries, err := s.ListFileEntries(ctx)
	if err != nil {
		return nil, err
	}
	return filterByFileNo(entries, fileNos), nil
}

func marshalEntry(e reporting.FileEntry) ([]byte, error) {
	body, err := json.Marshal(e.Recompute())
	if err != nil {
		return nil, fmt.Errorf("encode file entry %s: %w", e.FileNo, err)
	}
	return body, nil
}
