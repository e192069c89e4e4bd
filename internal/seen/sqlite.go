package seen

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-jobwatch/internal/errors"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS seen_state (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	identities TEXT    NOT NULL,
	updated_at TEXT    NOT NULL
)`

// SQLiteStore keeps the set as a single JSON row in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", path)
	}
	db.SetMaxOpenConns(1) // sqlite typically wants 1 writer

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "ping sqlite %s", path)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create seen_state table")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (Set, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT identities FROM seen_state WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return NewSet(), nil
	}
	if err != nil {
		return Set{}, errors.Mark(errors.Wrap(err, "query seen_state"), ErrCorruptState)
	}
	return decode([]byte(raw))
}

func (s *SQLiteStore) Save(ctx context.Context, set Set) error {
	data, err := encode(set)
	if err != nil {
		return errors.Wrap(err, "encode seen set")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO seen_state (id, identities, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET identities = excluded.identities, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return errors.Wrap(err, "save seen_state")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
