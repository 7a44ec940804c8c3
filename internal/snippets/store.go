// Package snippets provides SQLite-backed storage and search for code snippets.
package snippets

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/telemetry"

	_ "modernc.org/sqlite"
)

const (
	// MaxLimit caps every search regardless of the requested limit.
	MaxLimit = 20
	// DefaultLimit is used when the caller asks for fewer than one result.
	DefaultLimit = 5
	// maxFilterLen truncates filter values before they reach SQL.
	maxFilterLen = 100
)

// ErrNotFound is returned when a snippet ID does not exist.
var ErrNotFound = errors.New("snippet not found")

// Store provides SQLite-backed storage for code snippets.
type Store struct {
	db     *sql.DB
	dbPath string
	tracer *telemetry.Tracer
	mu     sync.RWMutex
}

// DefaultDBPath returns $XDG_DATA_HOME/codeassist/snippets.db.
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "codeassist", "snippets.db")
}

// Open opens the snippet database at dbPath, creating parent directories.
// Call Migrate before first use.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &Store{db: conn, dbPath: dbPath}, nil
}

// SetTracer makes queries emit spans. A nil tracer disables them.
func (s *Store) SetTracer(t *telemetry.Tracer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracer = t
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// ClampLimit applies the default and the hard maximum to a requested limit.
func ClampLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime formats a time.Time for SQLite storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a time string from SQLite.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// nullString converts a string to sql.NullString, treating empty as null.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func truncate(s string) string {
	if len(s) <= maxFilterLen {
		return s
	}
	n := maxFilterLen
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
