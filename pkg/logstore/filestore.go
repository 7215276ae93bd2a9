package logstore

import (
	"context"
	"fmt"
	"os"

	"github.com/titanous/json5"
)

// FileStore serves log entries from a JSON5 dump file: either a top-level
// array of entries or an object with a "logs" array, as produced by proxy
// debug exports. The file is re-read on every retrieval, so a file that is
// still being appended to behaves like a live store.
type FileStore struct {
	path string
}

// fileDump matches the object form of a log dump.
type fileDump struct {
	Logs []Entry `json:"logs"`
}

// NewFileStore creates a store backed by the JSON5 file at path. The file is
// not opened until the first retrieval.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// GetLogs reads and decodes the backing file. An unreadable or undecodable
// file reports ErrStoreUnavailable; callers keep their prior snapshot.
func (s *FileStore) GetLogs(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStoreUnavailable, s.path, err)
	}

	var entries []Entry
	if err := json5.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}
	var dump fileDump
	if err := json5.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrStoreUnavailable, s.path, err)
	}
	return dump.Logs, nil
}

// ClearLogs truncates the backing file. A missing file already counts as
// cleared.
func (s *FileStore) ClearLogs(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil
	}
	if err := os.WriteFile(s.path, []byte("[]\n"), 0666); err != nil {
		return fmt.Errorf("%w: truncating %s: %v", ErrStoreUnavailable, s.path, err)
	}
	return nil
}
