package seen

import (
	"testing"

	"go-jobwatch/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_AddHas(t *testing.T) {
	var s Set
	assert.False(t, s.Has("a"))
	assert.True(t, s.Add("a"))
	assert.False(t, s.Add("a"))
	assert.True(t, s.Has("a"))
	assert.Equal(t, 1, s.Len())
}

func TestSet_Sorted(t *testing.T) {
	s := NewSet("b", "a", "c", "a")
	assert.Equal(t, []string{"a", "b", "c"}, s.Sorted())
	assert.Equal(t, 3, s.Len())
}

func TestDecode(t *testing.T) {
	s, err := decode([]byte(`["A|London|£11/hr","B|Manchester|£12/hr"]`))
	require.NoError(t, err)
	assert.True(t, s.Has("A|London|£11/hr"))
	assert.True(t, s.Has("B|Manchester|£12/hr"))

	empty, err := decode([]byte(`[]`))
	require.NoError(t, err)
	assert.Zero(t, empty.Len())

	_, err = decode([]byte(`{"not":"a list"}`))
	assert.True(t, errors.Is(err, ErrCorruptState))
}

func TestEncode_RoundTrip(t *testing.T) {
	s := NewSet("z", "y")
	data, err := encode(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["y","z"]`, string(data))

	back, err := decode(data)
	require.NoError(t, err)
	assert.Equal(t, s.Sorted(), back.Sorted())
}
