package gsd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := newHeader("my-app", "my-schema", 7)

	buf := h.encode()
	require.Len(t, buf, headerSize)

	got, err := decodeHeader(buf)
	require.NoError(t, err)

	if diff := cmp.Diff(h, got); diff != "" {
		t.Fatalf("header round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestHeaderTruncatesLongStrings(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}

	h := newHeader(string(long), string(long), 1)
	require.Len(t, h.Application, appSchemaFieldSize-1)
	require.Len(t, h.Schema, appSchemaFieldSize-1)

	buf := h.encode()
	got, err := decodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h.Application, got.Application)
}

func TestHeaderValidateRejectsBadMagic(t *testing.T) {
	h := newHeader("a", "s", 1)
	h.Magic = 0

	err := h.validate()
	require.ErrorIs(t, err, ErrInvalidFile)
}

func TestHeaderValidateRejectsUnsupportedVersions(t *testing.T) {
	for _, v := range []uint32{
		MakeVersion(0, 2),
		MakeVersion(0, 4),
		MakeVersion(0, 9),
		MakeVersion(2, 0),
		MakeVersion(3, 0),
	} {
		h := newHeader("a", "s", 1)
		h.Version = v
		require.ErrorIsf(t, h.validate(), ErrInvalidFile, "version %#x should be rejected", v)
	}
}

func TestHeaderValidateAcceptsSupportedVersions(t *testing.T) {
	for _, v := range []uint32{
		MakeVersion(0, 3),
		MakeVersion(1, 0),
		MakeVersion(1, 5),
	} {
		h := newHeader("a", "s", 1)
		h.Version = v
		require.NoErrorf(t, h.validate(), "version %#x should be accepted", v)
	}
}
