package gsd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizeofType(t *testing.T) {
	cases := []struct {
		typ  ElementType
		want uint32
	}{
		{TypeUint8, 1},
		{TypeUint16, 2},
		{TypeUint32, 4},
		{TypeUint64, 8},
		{TypeInt8, 1},
		{TypeInt16, 2},
		{TypeInt32, 4},
		{TypeInt64, 8},
		{TypeFloat32, 4},
		{TypeFloat64, 8},
		{ElementType(0), 0},
		{ElementType(11), 0},
		{ElementType(255), 0},
	}

	for _, c := range cases {
		require.Equal(t, c.want, SizeofType(c.typ), "type %d", c.typ)
	}
}

func TestMakeVersion(t *testing.T) {
	require.Equal(t, uint32(3), MakeVersion(0, 3))
	require.Equal(t, uint32(1<<16), MakeVersion(1, 0))
	require.Equal(t, uint32(2<<16), MakeVersion(2, 0))
	require.True(t, MakeVersion(1, 0) < MakeVersion(1, 1))
	require.True(t, MakeVersion(1, 9) < MakeVersion(2, 0))
}

func TestVersionSupported(t *testing.T) {
	require.True(t, versionSupported(MakeVersion(0, 3)))
	require.False(t, versionSupported(MakeVersion(0, 4)))
	require.False(t, versionSupported(MakeVersion(0, 2)))
	require.True(t, versionSupported(MakeVersion(1, 0)))
	require.True(t, versionSupported(MakeVersion(1, 9)))
	require.False(t, versionSupported(MakeVersion(2, 0)))
}

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "traj.gsd")
}
