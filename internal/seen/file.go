package seen

import (
	"context"
	"os"
	"path/filepath"

	"go-jobwatch/internal/errors"
)

// FileStore keeps the set as a JSON array of identities in one file, the
// same layout the seen_jobs.json of earlier versions used.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the file. A missing file is an empty set. A file that cannot be
// parsed is copied to <path>.corrupt before ErrCorruptState is returned, so
// the next save cannot destroy it.
func (fs *FileStore) Load(ctx context.Context) (Set, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSet(), nil
		}
		return Set{}, errors.Mark(errors.Wrapf(err, "read %s", fs.path), ErrCorruptState)
	}

	s, err := decode(data)
	if err != nil {
		backup := fs.path + ".corrupt"
		if werr := os.WriteFile(backup, data, 0644); werr != nil {
			return Set{}, errors.CombineErrors(err, werr)
		}
		return Set{}, errors.WithHintf(err, "unreadable contents kept in %s", backup)
	}
	return s, nil
}

// Save writes to a temp file in the same directory, syncs it and renames it
// over the old file.
func (fs *FileStore) Save(ctx context.Context, s Set) error {
	data, err := encode(s)
	if err != nil {
		return errors.Wrap(err, "encode seen set")
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp state file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp state file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync temp state file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp state file")
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return errors.Wrap(err, "chmod temp state file")
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		return errors.Wrapf(err, "replace %s", fs.path)
	}
	return nil
}

func (fs *FileStore) Close() error { return nil }
