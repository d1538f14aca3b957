// Package auditlog appends one row per inbound and outbound chat message to
// a local SQLite database. It is write-mostly; Recent exists for operator
// spot checks.
package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

type Role string

const (
	RoleUser Role = "USER"
	RoleBot  Role = "BOT"
)

type Entry struct {
	At       time.Time
	UserID   int64
	Username string
	Role     Role
	Text     string
}

type Store struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *rand.Rand
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chat_log (
		id       TEXT PRIMARY KEY,
		ts       TEXT NOT NULL,
		user_id  INTEGER NOT NULL,
		username TEXT,
		role     TEXT NOT NULL,
		text     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_log_ts ON chat_log(ts DESC);
	CREATE INDEX IF NOT EXISTS idx_chat_log_user ON chat_log(user_id, ts DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// Append writes one entry. Callers treat failures as non-fatal: the
// conversation must not depend on audit storage being healthy.
func (s *Store) Append(ctx context.Context, e Entry) error {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_log (id, ts, user_id, username, role, text) VALUES (?, ?, ?, ?, ?, ?)`,
		s.newID(), at.UTC().Format(time.RFC3339Nano), e.UserID, e.Username, string(e.Role), e.Text,
	)
	if err != nil {
		return fmt.Errorf("append chat log: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, user_id, username, role, text FROM chat_log ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query chat log: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			ts       string
			e        Entry
			username sql.NullString
			role     string
		)
		if err := rows.Scan(&ts, &e.UserID, &username, &role, &e.Text); err != nil {
			return nil, fmt.Errorf("scan chat log row: %w", err)
		}
		at, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse chat log timestamp %q: %w", ts, err)
		}
		e.At = at
		e.Username = username.String
		e.Role = Role(role)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
