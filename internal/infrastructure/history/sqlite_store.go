package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/pkg/filesystem"
	"github.com/doeshing/symcheck-go/internal/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS queries (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	symptoms TEXT NOT NULL,
	age TEXT NOT NULL DEFAULT 'null',
	gender TEXT NOT NULL DEFAULT 'null',
	duration TEXT NOT NULL DEFAULT 'null',
	severity TEXT NOT NULL DEFAULT 'null',
	analysis TEXT NOT NULL,
	source TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_queries_timestamp ON queries (timestamp);`

// SQLiteStore persists history in a SQLite database. Metadata fields are stored as
// their JSON encoding so numeric and string values round-trip.
type SQLiteStore struct {
	db   *sql.DB
	path string
	opts options
	mu   sync.Mutex
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	path = filesystem.ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, &domain.PersistenceError{Op: "open", Path: path, Err: err}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "open", Path: path, Err: err}
	}
	// One connection serializes writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, &domain.PersistenceError{Op: "migrate", Path: path, Err: err}
	}
	return &SQLiteStore{db: db, path: path, opts: buildOptions(opts)}, nil
}

// Append inserts a record and trims the table to the retention cap in one transaction.
func (s *SQLiteStore) Append(ctx context.Context, record domain.HistoryRecord) (domain.HistoryRecord, error) {
	record, err := s.opts.complete(record)
	if err != nil {
		return domain.HistoryRecord{}, s.fail("append", err)
	}
	if t, err := domain.ParseTimestamp(record.Timestamp); err == nil {
		record.Timestamp = domain.FormatTimestamp(t)
	}

	fields, err := encodeFields(record)
	if err != nil {
		return domain.HistoryRecord{}, s.fail("append", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.HistoryRecord{}, s.fail("append", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO queries
		(id, timestamp, symptoms, age, gender, duration, severity, analysis, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Timestamp, record.Symptoms,
		fields[0], fields[1], fields[2], fields[3],
		record.Analysis, string(record.Source),
	)
	if err != nil {
		return domain.HistoryRecord{}, s.fail("insert", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM queries WHERE seq NOT IN
		(SELECT seq FROM queries ORDER BY seq DESC LIMIT ?)`, s.opts.retention)
	if err != nil {
		return domain.HistoryRecord{}, s.fail("trim", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.HistoryRecord{}, s.fail("commit", err)
	}
	return record, nil
}

// List returns one page ordered by timestamp descending, newest insert first on ties.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) (domain.HistoryPage, error) {
	limit, offset = domain.ClampPage(limit, offset)
	page := domain.HistoryPage{Records: []domain.HistoryRecord{}, Limit: limit, Offset: offset}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM queries").Scan(&page.Total); err != nil {
		return domain.HistoryPage{}, s.fail("count", err)
	}

	records, err := s.query(ctx, "ORDER BY timestamp DESC, seq DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return domain.HistoryPage{}, err
	}
	page.Records = append(page.Records, records...)
	return page, nil
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM queries"); err != nil {
		return s.fail("clear", err)
	}
	return nil
}

// Export writes every record as one JSON object per line, newest first.
func (s *SQLiteStore) Export(ctx context.Context, w io.Writer) error {
	records, err := s.query(ctx, "ORDER BY timestamp DESC, seq DESC")
	if err != nil {
		return err
	}
	return writeJSONLines(w, records)
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(ctx context.Context, tail string, args ...interface{}) ([]domain.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, timestamp, symptoms, age, gender, duration, severity, analysis, source FROM queries "+tail,
		args...)
	if err != nil {
		return nil, s.fail("query", err)
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var age, gender, duration, severity, source string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Symptoms, &age, &gender, &duration, &severity, &rec.Analysis, &source); err != nil {
			return nil, s.fail("scan", err)
		}
		rec.Source = domain.Source(source)
		if err := decodeFields(&rec, age, gender, duration, severity); err != nil {
			return nil, s.fail("decode", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("query", err)
	}
	return records, nil
}

func (s *SQLiteStore) fail(op string, err error) error {
	return &domain.PersistenceError{Op: op, Path: s.path, Err: err}
}

func encodeFields(rec domain.HistoryRecord) ([4]string, error) {
	var out [4]string
	for i, f := range []domain.Field{rec.Age, rec.Gender, rec.Duration, rec.Severity} {
		b, err := json.Marshal(f)
		if err != nil {
			return out, fmt.Errorf("encode metadata: %w", err)
		}
		out[i] = string(b)
	}
	return out, nil
}

func decodeFields(rec *domain.HistoryRecord, raw ...string) error {
	dst := []*domain.Field{&rec.Age, &rec.Gender, &rec.Duration, &rec.Severity}
	for i, value := range raw {
		if err := json.Unmarshal([]byte(value), dst[i]); err != nil {
			return fmt.Errorf("decode metadata: %w", err)
		}
	}
	return nil
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
