// Package sqlitestore persists wizard sessions in a SQLite database so a
// questionnaire can be resumed across CLI runs.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-docforge/pkg/wizard"
)

const schema = `
CREATE TABLE IF NOT EXISTS wizard_sessions (
	id TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	expires_at INTEGER,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_wizard_sessions_expires ON wizard_sessions(expires_at);
`

// Store implements wizard.Store on SQLite.
type Store struct {
	db     *sql.DB
	now    func() time.Time
	logger *zap.SugaredLogger
}

var _ wizard.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open creates or opens the database at path.
func Open(path string, opts ...Option) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlitestore: create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", path, err)
	}
	// one connection keeps :memory: databases shared and serialises writers
	db.SetMaxOpenConns(1)
	s, err := New(db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and creates the session table.
func New(db *sql.DB, opts ...Option) (*Store, error) {
	s := &Store{db: db, now: time.Now, logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlitestore: create schema: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, id string) (*wizard.Session, error) {
	var (
		data      string
		expiresAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT data, expires_at FROM wizard_sessions WHERE id = ?`, id,
	).Scan(&data, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wizard.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: get %s: %w", id, err)
	}
	if expiresAt.Valid && s.now().UnixNano() >= expiresAt.Int64 {
		if err := s.Delete(ctx, id); err != nil {
			s.logger.Warnw("drop expired session failed", "session", id, "error", err)
		}
		return nil, wizard.ErrSessionExpired
	}

	var session wizard.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("sqlitestore: decode %s: %w", id, err)
	}
	return session.Clone(), nil
}

func (s *Store) Put(ctx context.Context, session *wizard.Session) error {
	if session == nil || session.ID == "" {
		return errors.New("sqlitestore: session without id")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("sqlitestore: encode %s: %w", session.ID, err)
	}
	var expiresAt sql.NullInt64
	if !session.ExpiresAt.IsZero() {
		expiresAt = sql.NullInt64{Int64: session.ExpiresAt.UnixNano(), Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO wizard_sessions (id, data, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		session.ID, string(data), expiresAt, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("sqlitestore: put %s: %w", session.ID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM wizard_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlitestore: delete %s: %w", id, err)
	}
	return nil
}

func (s *Store) Purge(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM wizard_sessions WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		s.now().UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlitestore: purge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlitestore: purge: %w", err)
	}
	if n > 0 {
		s.logger.Debugw("expired sessions purged", "count", n)
	}
	return int(n), nil
}
