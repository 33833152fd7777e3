package gsd

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindUsedPrefixLenEmpty(t *testing.T) {
	entries := make([]Entry, 4)
	get := func(i uint64) (Entry, error) { return entries[i], nil }

	n, err := findUsedPrefixLen(get, 4, 0, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), n)
}

func TestFindUsedPrefixLenPartiallyUsed(t *testing.T) {
	entries := make([]Entry, 8)
	for i := range 5 {
		entries[i] = Entry{Frame: uint64(i / 2), N: 1, M: 1, Type: TypeUint8, Location: 1000 + uint64(i)}
	}
	get := func(i uint64) (Entry, error) { return entries[i], nil }

	n, err := findUsedPrefixLen(get, 8, 1, 10000)
	require.NoError(t, err)
	require.Equal(t, uint64(5), n)
}

func TestFindUsedPrefixLenFull(t *testing.T) {
	entries := make([]Entry, 4)
	for i := range entries {
		entries[i] = Entry{Frame: uint64(i), N: 1, M: 1, Type: TypeUint8, Location: 1000 + uint64(i)}
	}
	get := func(i uint64) (Entry, error) { return entries[i], nil }

	n, err := findUsedPrefixLen(get, 4, 1, 10000)
	require.NoError(t, err)
	require.Equal(t, uint64(4), n)
}

func TestFindUsedPrefixLenRejectsDecreasingFrame(t *testing.T) {
	entries := []Entry{
		{Frame: 3, N: 1, M: 1, Type: TypeUint8, Location: 1000},
		{Frame: 1, N: 1, M: 1, Type: TypeUint8, Location: 1001},
		{},
		{},
	}
	get := func(i uint64) (Entry, error) { return entries[i], nil }

	_, err := findUsedPrefixLen(get, 4, 1, 10000)
	require.ErrorIs(t, err, ErrCorruptFile)
}

func TestFindUsedPrefixLenRejectsUnknownType(t *testing.T) {
	entries := []Entry{
		{Frame: 0, N: 1, M: 1, Type: ElementType(200), Location: 1000},
		{},
	}
	get := func(i uint64) (Entry, error) { return entries[i], nil }

	_, err := findUsedPrefixLen(get, 2, 1, 10000)
	require.ErrorIs(t, err, ErrCorruptFile)
}

func TestFindByFrameAndID(t *testing.T) {
	entries := []Entry{
		{Frame: 0, ID: 0, Location: 100},
		{Frame: 0, ID: 1, Location: 101},
		{Frame: 1, ID: 0, Location: 102},
		{Frame: 1, ID: 1, Location: 103},
		{Frame: 1, ID: 0, Location: 104}, // overwrite within frame 1
		{Frame: 3, ID: 2, Location: 105},
	}
	get := func(i uint64) Entry { return entries[i] }

	e, ok := findByFrameAndID(get, uint64(len(entries)), 1, 0)
	require.True(t, ok)
	require.Equal(t, uint64(104), e.Location, "should return the last write for frame 1 id 0")

	_, ok = findByFrameAndID(get, uint64(len(entries)), 2, 0)
	require.False(t, ok, "frame 2 has no entries")

	_, ok = findByFrameAndID(get, uint64(len(entries)), 1, 9)
	require.False(t, ok, "id 9 never appears in frame 1")

	e, ok = findByFrameAndID(get, uint64(len(entries)), 3, 2)
	require.True(t, ok)
	require.Equal(t, uint64(105), e.Location)
}

func TestGrowIndexReadWriteDoublesCapacityAndPreservesEntries(t *testing.T) {
	path := testPath(t)
	require.NoError(t, Create(path, "app", "schema", 1))

	h, err := Open(path, ReadWrite, Options{})
	require.NoError(t, err)
	defer h.Close()

	require.EqualValues(t, initialIndexEntries, h.hdr.IndexAllocatedEntries)

	for i := 0; i < initialIndexEntries+1; i++ {
		name := fmt.Sprintf("chunk%03d", i%initialNamelistEntries)
		require.NoError(t, h.WriteChunk(name, TypeUint8, 1, 1, 0, []byte{byte(i)}))
		require.NoError(t, h.EndFrame())
	}

	require.EqualValues(t, initialIndexEntries*2, h.hdr.IndexAllocatedEntries)
	require.NoError(t, h.Close())

	h2, err := Open(path, ReadOnly, Options{})
	require.NoError(t, err)
	defer h2.Close()

	nframes, err := h2.NFrames()
	require.NoError(t, err)
	require.EqualValues(t, initialIndexEntries+1, nframes)

	for i := 0; i < initialIndexEntries+1; i++ {
		name := fmt.Sprintf("chunk%03d", i%initialNamelistEntries)
		e, ok, err := h2.FindChunk(uint64(i), name)
		require.NoError(t, err)
		require.Truef(t, ok, "chunk %d should be found after reopen", i)

		buf := make([]byte, 1)
		require.NoError(t, h2.ReadChunk(buf, e))
		require.Equal(t, byte(i), buf[0])
	}
}

func TestGrowIndexAppendMode(t *testing.T) {
	path := testPath(t)
	require.NoError(t, Create(path, "app", "schema", 1))

	h, err := Open(path, Append, Options{})
	require.NoError(t, err)

	for i := 0; i < initialIndexEntries+3; i++ {
		name := fmt.Sprintf("chunk%03d", i%initialNamelistEntries)
		require.NoError(t, h.WriteChunk(name, TypeUint8, 1, 1, 0, []byte{byte(i)}))
		require.NoError(t, h.EndFrame())
	}

	require.EqualValues(t, initialIndexEntries*2, h.hdr.IndexAllocatedEntries)
	require.NoError(t, h.Close())

	h2, err := Open(path, ReadOnly, Options{})
	require.NoError(t, err)
	defer h2.Close()

	nframes, err := h2.NFrames()
	require.NoError(t, err)
	require.EqualValues(t, initialIndexEntries+3, nframes)
}
