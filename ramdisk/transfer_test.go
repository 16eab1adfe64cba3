package ramdisk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttach_CreatesWithoutCopy(t *testing.T) {
	fs := newTestFS(t)
	buf := []byte("caller-owned payload")

	require.NoError(t, fs.Attach("payload.bin", buf))

	// Capacity and logical size both equal the attached length
	st, err := fs.Stat("payload.bin")
	require.NoError(t, err)
	assert.Equal(t, int64(len(buf)), st.Size)

	fd, err := fs.Open("payload.bin", ReadOnly)
	require.NoError(t, err)
	sz, err := fs.Size(fd)
	require.NoError(t, err)
	assert.Equal(t, int64(len(buf)), sz)

	// The namespace serves the exact caller buffer, not a copy
	m, err := fs.Mmap(fd)
	require.NoError(t, err)
	require.NotEmpty(t, m)
	assert.Same(t, &buf[0], &m[0])
	require.NoError(t, fs.Close(fd))
}

func TestAttach_ReplacesExistingContents(t *testing.T) {
	fs := newTestFS(t)
	createTestFile(t, fs, "f.txt", []byte("old contents"))

	require.NoError(t, fs.Attach("f.txt", []byte("new")))

	fd, err := fs.Open("f.txt", ReadOnly)
	require.NoError(t, err)
	buf := make([]byte, 16)
	n, err := fs.Read(fd, buf)
	require.NoError(t, err)
	assert.Equal(t, "new", string(buf[:n]), "truncate semantics, old tail must be gone")
	require.NoError(t, fs.Close(fd))
}

func TestAttach_LockedFile(t *testing.T) {
	fs := newTestFS(t)
	createTestFile(t, fs, "f.txt", nil)

	fd, err := fs.Open("f.txt", ReadOnly)
	require.NoError(t, err)
	defer fs.Close(fd) // nolint:errcheck

	assert.ErrorIs(t, fs.Attach("f.txt", []byte("x")), ErrLocked)
}

func TestDetach_ReturnsBackingBuffer(t *testing.T) {
	fs := newTestFS(t)
	buf := []byte("round trip payload")
	require.NoError(t, fs.Attach("f.bin", buf))

	got, err := fs.Detach("f.bin")
	require.NoError(t, err)
	require.Len(t, got, len(buf))
	assert.Same(t, &buf[0], &got[0], "detach must surrender the original buffer, not a copy")
	assert.Equal(t, string(buf), string(got))

	// The node is gone
	_, err = fs.Stat("f.bin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetach_TruncatesToLogicalSize(t *testing.T) {
	fs := newTestFS(t)
	createTestFile(t, fs, "f.txt", []byte("abc"))

	// The file's capacity is the 1 KiB default, but detach hands back
	// only the written prefix
	got, err := fs.Detach("f.txt")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestDetach_Missing(t *testing.T) {
	fs := newTestFS(t)

	_, err := fs.Detach("ghost.bin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetach_FileHeldByReader(t *testing.T) {
	fs := newTestFS(t)
	createTestFile(t, fs, "f.txt", []byte("x"))

	fd, err := fs.Open("f.txt", ReadOnly)
	require.NoError(t, err)
	defer fs.Close(fd) // nolint:errcheck

	// Detach opens read-only, which the existing reader admits, but it
	// refuses to steal the buffer while another handle is live
	_, err = fs.Detach("f.txt")
	assert.ErrorIs(t, err, ErrInUse)

	// The failed detach left the contents untouched
	buf := make([]byte, 4)
	n, err := fs.Read(fd, buf)
	require.NoError(t, err)
	assert.Equal(t, "x", string(buf[:n]))
}

func TestDetach_Directory(t *testing.T) {
	fs := newTestFS(t)
	require.NoError(t, fs.CreateDir("d"))

	_, err := fs.Detach("d")
	assert.ErrorIs(t, err, ErrWrongKind)
}
