package gsd

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternNameNewAndReuse(t *testing.T) {
	path := testPath(t)
	require.NoError(t, Create(path, "app", "schema", 1))

	h, err := Open(path, ReadWrite, Options{})
	require.NoError(t, err)
	defer h.Close()

	id1, err := h.internName("position", true)
	require.NoError(t, err)
	require.NotEqual(t, notFoundID, id1)

	id2, err := h.internName("position", true)
	require.NoError(t, err)
	require.Equal(t, id1, id2)

	id3, err := h.internName("velocity", true)
	require.NoError(t, err)
	require.NotEqual(t, id1, id3)
}

func TestInternNameRejectsOutOfRangeLength(t *testing.T) {
	path := testPath(t)
	require.NoError(t, Create(path, "app", "schema", 1))

	h, err := Open(path, ReadWrite, Options{})
	require.NoError(t, err)
	defer h.Close()

	_, err = h.internName("", true)
	require.ErrorIs(t, err, ErrInvalidArgument)

	long := make([]byte, maxChunkNameBytes+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = h.internName(string(long), true)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestInternNameWithoutAppendReturnsNotFound(t *testing.T) {
	path := testPath(t)
	require.NoError(t, Create(path, "app", "schema", 1))

	h, err := Open(path, ReadWrite, Options{})
	require.NoError(t, err)
	defer h.Close()

	id, err := h.internName("nope", false)
	require.NoError(t, err)
	require.Equal(t, notFoundID, id)
}

func TestInternNameFailsWhenNamelistFull(t *testing.T) {
	path := testPath(t)
	require.NoError(t, Create(path, "app", "schema", 1))

	h, err := Open(path, ReadWrite, Options{})
	require.NoError(t, err)
	defer h.Close()

	for i := 0; i < initialNamelistEntries; i++ {
		name := fmt.Sprintf("name%03d", i)
		id, err := h.internName(name, true)
		require.NoError(t, err)
		require.NotEqualf(t, notFoundID, id, "entry %d should have interned", i)
	}

	id, err := h.internName("one-too-many", true)
	require.NoError(t, err)
	require.Equal(t, notFoundID, id)
}

func TestFindMatchingChunkName(t *testing.T) {
	path := testPath(t)
	require.NoError(t, Create(path, "app", "schema", 1))

	h, err := Open(path, ReadWrite, Options{})
	require.NoError(t, err)
	defer h.Close()

	_, err = h.internName("pos_x", true)
	require.NoError(t, err)
	_, err = h.internName("pos_y", true)
	require.NoError(t, err)
	_, err = h.internName("vel_x", true)
	require.NoError(t, err)

	cursor, name, ok := h.findMatchingChunkName("pos_", -1)
	require.True(t, ok)
	require.Equal(t, "pos_x", name)

	cursor, name, ok = h.findMatchingChunkName("pos_", cursor)
	require.True(t, ok)
	require.Equal(t, "pos_y", name)

	_, _, ok = h.findMatchingChunkName("pos_", cursor)
	require.False(t, ok)

	_, name, ok = h.findMatchingChunkName("", -1)
	require.True(t, ok)
	require.Equal(t, "pos_x", name)
}
