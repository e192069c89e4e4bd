package seen

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_SaveLoad(t *testing.T) {
	dsn := os.Getenv("JOBWATCH_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("JOBWATCH_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	st, err := ConnectPostgres(ctx, dsn)
	require.NoError(t, err)
	defer st.Close()

	_, err = st.db.Exec(ctx, `DELETE FROM seen_state`)
	require.NoError(t, err)

	s, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, s.Len())

	require.NoError(t, st.Save(ctx, NewSet("A|London|£11/hr", "B|Manchester|£12/hr")))

	s, err = st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A|London|£11/hr", "B|Manchester|£12/hr"}, s.Sorted())
}

func TestConnectPostgres_BadURL(t *testing.T) {
	_, err := ConnectPostgres(context.Background(), "postgres://%zz")
	assert.Error(t, err)
}
