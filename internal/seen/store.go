// Persist the set of job identities already notified
// One record holds the whole set; every save rewrites it

package seen

import (
	"context"

	"go-jobwatch/internal/config"
	"go-jobwatch/internal/errors"
)

// ErrCorruptState marks persisted state that exists but cannot be read back.
var ErrCorruptState = errors.New("seen state is corrupt")

// Store loads and saves the whole seen set.
type Store interface {
	// Load returns the persisted set, or an empty set when none exists yet.
	Load(ctx context.Context) (Set, error)
	// Save replaces the persisted set with s.
	Save(ctx context.Context, s Set) error
	Close() error
}

// Open returns the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StateConfig) (Store, error) {
	switch cfg.Backend {
	case "", config.BackendFile:
		return NewFileStore(cfg.Path), nil
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case config.BackendPostgres:
		return ConnectPostgres(ctx, cfg.DSN)
	default:
		return nil, errors.Newf("unknown state backend %q", cfg.Backend)
	}
}
