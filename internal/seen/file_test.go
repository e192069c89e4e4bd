package seen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go-jobwatch/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "seen_jobs.json"))

	s, err := fs.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.Len())
}

func TestFileStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "seen_jobs.json")
	fs := NewFileStore(path)

	require.NoError(t, fs.Save(ctx, NewSet("B|Manchester|£12/hr", "A|London|£11/hr")))

	s, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A|London|£11/hr", "B|Manchester|£12/hr"}, s.Sorted())

	// overwrite in full
	require.NoError(t, fs.Save(ctx, NewSet("C||")))
	s, err = fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C||"}, s.Sorted())

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_ReadsLegacyLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_jobs.json")
	require.NoError(t, os.WriteFile(path, []byte(`["A|London|£11/hr"]`), 0644))

	s, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Has("A|London|£11/hr"))
}

func TestFileStore_CorruptFileIsBackedUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_jobs.json")
	require.NoError(t, os.WriteFile(path, []byte(`["A|London`), 0644))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptState))

	backup, rerr := os.ReadFile(path + ".corrupt")
	require.NoError(t, rerr)
	assert.Equal(t, `["A|London`, string(backup))
}

func TestOpen_File(t *testing.T) {
	st, err := Open(context.Background(), configFor("file", filepath.Join(t.TempDir(), "s.json")))
	require.NoError(t, err)
	defer st.Close()
	assert.IsType(t, &FileStore{}, st)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), configFor("redis", ""))
	assert.Error(t, err)
}
