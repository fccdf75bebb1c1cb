// Package history persists analysis records. FileStore keeps one pretty-printed JSON
// array on disk; SQLiteStore keeps a table. Both honor the same retention and paging rules.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/pkg/filesystem"
	"github.com/doeshing/symcheck-go/internal/ports"
)

// FileStore keeps the history log as a JSON array, newest first.
type FileStore struct {
	path string
	opts options
	mu   sync.RWMutex
}

// NewFileStore creates a store backed by path. The file and its directory are created on first append.
func NewFileStore(path string, opts ...Option) *FileStore {
	return &FileStore{
		path: filesystem.ExpandPath(path),
		opts: buildOptions(opts),
	}
}

// Append implements ports.HistoryRepository. The whole load-mutate-persist cycle
// runs under the write lock.
func (f *FileStore) Append(ctx context.Context, record domain.HistoryRecord) (domain.HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.HistoryRecord{}, &domain.PersistenceError{Op: "append", Path: f.path, Err: err}
	}
	record, err := f.opts.complete(record)
	if err != nil {
		return domain.HistoryRecord{}, &domain.PersistenceError{Op: "append", Path: f.path, Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return domain.HistoryRecord{}, err
	}

	records = slices.Insert(records, 0, record)
	if len(records) > f.opts.retention {
		records = records[:f.opts.retention]
	}

	if err := f.save(records); err != nil {
		return domain.HistoryRecord{}, err
	}
	return record, nil
}

// List implements ports.HistoryRepository.
func (f *FileStore) List(ctx context.Context, limit, offset int) (domain.HistoryPage, error) {
	if err := ctx.Err(); err != nil {
		return domain.HistoryPage{}, &domain.PersistenceError{Op: "list", Path: f.path, Err: err}
	}

	f.mu.RLock()
	records, err := f.load()
	f.mu.RUnlock()
	if err != nil {
		return domain.HistoryPage{}, err
	}

	return paginate(records, limit, offset), nil
}

// Clear removes the history file.
func (f *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &domain.PersistenceError{Op: "clear", Path: f.path, Err: err}
	}
	return nil
}

// Export writes every record as one JSON object per line, newest first.
func (f *FileStore) Export(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.RLock()
	records, err := f.load()
	f.mu.RUnlock()
	if err != nil {
		return err
	}
	return writeJSONLines(w, sortNewestFirst(records))
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// load reads the log. A missing file is an empty log; so is an unreadable JSON
// document, which is logged and overwritten by the next append.
func (f *FileStore) load() ([]domain.HistoryRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &domain.PersistenceError{Op: "read", Path: f.path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []domain.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		f.opts.logger.Warn("history file is corrupt, treating as empty", map[string]interface{}{
			"path":  f.path,
			"error": err.Error(),
		})
		return nil, nil
	}
	return records, nil
}

func (f *FileStore) save(records []domain.HistoryRecord) error {
	err := filesystem.WriteFileAtomic(f.path, domain.DataFilePermissions, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	})
	if err != nil {
		return &domain.PersistenceError{Op: "write", Path: f.path, Err: err}
	}
	return nil
}

// paginate sorts by timestamp descending, clamps the window and slices it out.
func paginate(records []domain.HistoryRecord, limit, offset int) domain.HistoryPage {
	limit, offset = domain.ClampPage(limit, offset)
	sorted := sortNewestFirst(records)

	page := domain.HistoryPage{
		Records: []domain.HistoryRecord{},
		Total:   len(sorted),
		Limit:   limit,
		Offset:  offset,
	}
	if offset >= len(sorted) {
		return page
	}
	end := min(offset+limit, len(sorted))
	page.Records = append(page.Records, sorted[offset:end]...)
	return page
}

// sortNewestFirst returns a copy ordered by timestamp descending. The sort is stable,
// so records with equal timestamps keep their stored order.
func sortNewestFirst(records []domain.HistoryRecord) []domain.HistoryRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b domain.HistoryRecord) int {
		return b.Time().Compare(a.Time())
	})
	return sorted
}

func writeJSONLines(w io.Writer, records []domain.HistoryRecord) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

var _ ports.HistoryRepository = (*FileStore)(nil)
