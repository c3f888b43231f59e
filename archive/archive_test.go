package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeshard/shuttle/address"
)

// makeAddr builds a deterministic data address from a seed.
func makeAddr(t *testing.T, seed byte) address.Data {
	t.Helper()
	b := make([]byte, address.Size)
	for i := range b {
		b[i] = seed
	}
	addr, err := address.NewData(b)
	require.NoError(t, err)
	return addr
}

func TestAdd(t *testing.T) {
	a := New()
	require.NoError(t, a.Add("report.pdf", makeAddr(t, 1)))
	require.NoError(t, a.Add("docs/readme.txt", makeAddr(t, 2)))

	entries := a.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "report.pdf", entries[0].Path)
	assert.Equal(t, "docs/readme.txt", entries[1].Path)
	assert.Equal(t, makeAddr(t, 2), entries[1].Address)
}

func TestAdd_ZeroAddress(t *testing.T) {
	a := New()
	err := a.Add("file.txt", address.Data{})
	assert.ErrorIs(t, err, ErrZeroAddress)
	assert.Zero(t, a.Len())
}

func TestEntries_IsCopy(t *testing.T) {
	a := New()
	require.NoError(t, a.Add("file.txt", makeAddr(t, 1)))

	entries := a.Entries()
	entries[0].Path = "mutated"
	assert.Equal(t, "file.txt", a.Entries()[0].Path)
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want error
	}{
		{"bare filename", "file.txt", nil},
		{"nested", "a/b/c.txt", nil},
		{"default archive name", "archived_file", nil},
		{"empty", "", ErrEmptyPath},
		{"absolute", "/etc/passwd", ErrAbsolutePath},
		{"parent escape", "../file.txt", ErrPathEscapes},
		{"nested escape", "a/../../file.txt", ErrPathEscapes},
		{"dot segment", "./file.txt", ErrInvalidPath},
		{"empty segment", "a//b", ErrInvalidPath},
		{"trailing slash", "a/b/", ErrInvalidPath},
		{"backslash", `a\b.txt`, ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	a := New()
	require.NoError(t, a.Add("a.txt", makeAddr(t, 0x0a)))
	require.NoError(t, a.Add("dir/b.txt", makeAddr(t, 0x0b)))
	require.NoError(t, a.Add("dir/sub/c.bin", makeAddr(t, 0x0c)))

	data, err := a.Serialize()
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, a.Entries(), got.Entries())
}

func TestSerialize_EmptyArchiveRoundTrip(t *testing.T) {
	data, err := New().Serialize()
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)
	assert.Zero(t, got.Len())
}

func TestSerialize_Deterministic(t *testing.T) {
	build := func() *Archive {
		a := New()
		require.NoError(t, a.Add("x.txt", makeAddr(t, 0x01)))
		require.NoError(t, a.Add("y.txt", makeAddr(t, 0x02)))
		return a
	}

	d1, err := build().Serialize()
	require.NoError(t, err)
	d2, err := build().Serialize()
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestDeserialize_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte("not cbor at all")},
		{"empty", nil},
		{"truncated", []byte{0xa2, 0x61}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Deserialize(tt.data)
			assert.ErrorIs(t, err, ErrCorrupt)
			assert.Nil(t, a)
		})
	}
}

func TestDeserialize_WrongVersion(t *testing.T) {
	w := wireArchive{Version: 99}
	data, err := encMode.Marshal(w)
	require.NoError(t, err)

	_, err = Deserialize(data)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDeserialize_BadEntryAddress(t *testing.T) {
	w := wireArchive{
		Version: wireVersion,
		Entries: []wireEntry{{Path: "a.txt", Address: []byte{1, 2, 3}}},
	}
	data, err := encMode.Marshal(w)
	require.NoError(t, err)

	a, err := Deserialize(data)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Nil(t, a)
}

func TestDeserialize_EscapingPathRejected(t *testing.T) {
	addr := makeAddr(t, 1)
	w := wireArchive{
		Version: wireVersion,
		Entries: []wireEntry{{Path: "../../etc/passwd", Address: addr.Bytes()}},
	}
	data, err := encMode.Marshal(w)
	require.NoError(t, err)

	a, err := Deserialize(data)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Nil(t, a)
}
