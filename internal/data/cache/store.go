// Package cache persists lint results between runs so unchanged files are
// not parsed again, and records a summary of every run.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"arrowstyle/internal/engine/lint"
	"arrowstyle/internal/shared/observability"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
	// Fixed width so timestamps sort lexically.
	tsLayout = "2006-01-02T15:04:05.000000000Z"
)

// Key identifies one cached lint result. A lookup only hits when the file
// content and the effective config both match what was stored.
type Key struct {
	Path        string
	ContentHash string
	ConfigHash  string
}

// Entry is the cached outcome of linting one file.
type Entry struct {
	Diagnostics []lint.Diagnostic `msgpack:"diagnostics"`
	ParseError  string            `msgpack:"parse_error,omitempty"`
}

type Run struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Files     int
	Problems  int
	Fixed     int
	CacheHits int
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func Open(path string, busyTimeout time.Duration) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("cache path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("cache path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory %q: %w", dir, err)
		}
	}
	if busyTimeout <= 0 {
		busyTimeout = 2 * time.Second
	}

	// WAL keeps watch-mode readers from blocking on writes.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", cleanPath, busyTimeout.Milliseconds())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite cache %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize cache schema %q: %w", cleanPath, err)
	}
	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Lookup returns the cached entry for key. A row stored under a different
// content or config hash is a miss.
func (s *Store) Lookup(key Key) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payload []byte
	err := s.withRetry("lookup result", func() error {
		return s.db.QueryRow(
			`SELECT payload FROM results WHERE path = ? AND content_hash = ? AND config_hash = ?`,
			key.Path, key.ContentHash, key.ConfigHash,
		).Scan(&payload)
	})
	if errors.Is(err, sql.ErrNoRows) {
		observability.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}

	var entry Entry
	if err := msgpack.Unmarshal(payload, &entry); err != nil {
		// An undecodable row is treated as absent and overwritten on the next Put.
		observability.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return Entry{}, false, nil
	}
	observability.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return entry, true, nil
}

// Put stores entry under key, replacing whatever was cached for the path.
func (s *Store) Put(key Key, entry Entry) error {
	payload, err := msgpack.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("encode cache entry for %q: %w", key.Path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withRetry("store result", func() error {
		_, err := s.db.Exec(`
INSERT INTO results (path, content_hash, config_hash, payload, updated_at_utc)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
  content_hash=excluded.content_hash,
  config_hash=excluded.config_hash,
  payload=excluded.payload,
  updated_at_utc=excluded.updated_at_utc
`, key.Path, key.ContentHash, key.ConfigHash, payload, time.Now().UTC().Format(tsLayout))
		return err
	})
}

// Invalidate forgets the cached result for path.
func (s *Store) Invalidate(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withRetry("invalidate result", func() error {
		_, err := s.db.Exec(`DELETE FROM results WHERE path = ?`, path)
		return err
	})
}

// PruneConfig drops results stored under any config hash other than keep.
func (s *Store) PruneConfig(keep string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	err := s.withRetry("prune results", func() error {
		res, err := s.db.Exec(`DELETE FROM results WHERE config_hash <> ?`, keep)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

// RecordRun stores a run summary, assigning an id when run has none.
func (s *Store) RecordRun(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.withRetry("record run", func() error {
		_, err := s.db.Exec(`
INSERT INTO runs (id, started_at_utc, duration_ms, file_count, problem_count, fixed_count, cache_hits)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, run.ID, run.StartedAt.UTC().Format(tsLayout), run.Duration.Milliseconds(), run.Files, run.Problems, run.Fixed, run.CacheHits)
		return err
	})
	return run.ID, err
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(`
SELECT id, started_at_utc, duration_ms, file_count, problem_count, fixed_count, cache_hits
FROM runs ORDER BY started_at_utc DESC, id ASC LIMIT ?
`, limit)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			run        Run
			startedRaw string
			durationMS int64
		)
		if err := rows.Scan(&run.ID, &startedRaw, &durationMS, &run.Files, &run.Problems, &run.Fixed, &run.CacheHits); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		started, err := time.Parse(tsLayout, startedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", startedRaw, err)
		}
		run.StartedAt = started.UTC()
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

// Stats reports row counts for the health endpoint.
func (s *Store) Stats() (results, runs int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.withRetry("cache stats", func() error {
		return s.db.QueryRow(`SELECT (SELECT COUNT(*) FROM results), (SELECT COUNT(*) FROM runs)`).Scan(&results, &runs)
	})
	return results, runs, err
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
