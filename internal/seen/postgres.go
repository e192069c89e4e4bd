package seen

import (
	"context"
	"time"

	"go-jobwatch/internal/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS seen_state (
	id         SMALLINT PRIMARY KEY CHECK (id = 1),
	identities JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps the set as a single JSONB row.
type PostgresStore struct {
	db *pgxpool.Pool
}

func ConnectPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse database url")
	}

	// one run, one writer
	config.MaxConns = 2
	config.MaxConnLifetime = time.Hour

	// PgBouncer in transaction mode does not support prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect to database")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "database unreachable")
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "create seen_state table")
	}
	return &PostgresStore{db: pool}, nil
}

func (p *PostgresStore) Load(ctx context.Context) (Set, error) {
	var raw string
	err := p.db.QueryRow(ctx, `SELECT identities::text FROM seen_state WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return NewSet(), nil
	}
	if err != nil {
		return Set{}, errors.Mark(errors.Wrap(err, "query seen_state"), ErrCorruptState)
	}
	return decode([]byte(raw))
}

func (p *PostgresStore) Save(ctx context.Context, s Set) error {
	data, err := encode(s)
	if err != nil {
		return errors.Wrap(err, "encode seen set")
	}
	_, err = p.db.Exec(ctx, `
		INSERT INTO seen_state (id, identities, updated_at)
		VALUES (1, $1::jsonb, now())
		ON CONFLICT (id) DO UPDATE SET identities = EXCLUDED.identities, updated_at = EXCLUDED.updated_at`,
		string(data))
	if err != nil {
		return errors.Wrap(err, "save seen_state")
	}
	return nil
}

func (p *PostgresStore) Close() error {
	if p.db != nil {
		p.db.Close()
	}
	return nil
}
