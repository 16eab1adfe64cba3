package vfs

import (
	"testing"

	"github.com/brettbedarf/ramfs/ramdisk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDriver declines everything; it only needs an identity.
type stubDriver struct {
	Unsupported
	label string
}

func TestRegistry_MountAndResolve(t *testing.T) {
	r := NewRegistry()
	ram := &stubDriver{label: "ram"}
	require.NoError(t, r.Mount("/ram", ram))

	t.Run("exact prefix", func(t *testing.T) {
		d, rest, ok := r.Resolve("/ram")
		require.True(t, ok)
		assert.Same(t, ram, d)
		assert.Equal(t, "", rest)
	})

	t.Run("nested path", func(t *testing.T) {
		d, rest, ok := r.Resolve("/ram/sub/file.txt")
		require.True(t, ok)
		assert.Same(t, ram, d)
		assert.Equal(t, "sub/file.txt", rest)
	})

	t.Run("component boundary", func(t *testing.T) {
		// "/ramx" shares the byte prefix but not the path prefix
		_, _, ok := r.Resolve("/ramx/file.txt")
		assert.False(t, ok)
	})

	t.Run("unmounted path", func(t *testing.T) {
		_, _, ok := r.Resolve("/cd/file.txt")
		assert.False(t, ok)
	})

	t.Run("relative path", func(t *testing.T) {
		_, _, ok := r.Resolve("ram/file.txt")
		assert.False(t, ok)
	})
}

func TestRegistry_LongestPrefixWins(t *testing.T) {
	r := NewRegistry()
	outer := &stubDriver{label: "outer"}
	inner := &stubDriver{label: "inner"}
	require.NoError(t, r.Mount("/mnt", outer))
	require.NoError(t, r.Mount("/mnt/ram", inner))

	d, rest, ok := r.Resolve("/mnt/ram/f.txt")
	require.True(t, ok)
	assert.Same(t, inner, d)
	assert.Equal(t, "f.txt", rest)

	d, rest, ok = r.Resolve("/mnt/other/f.txt")
	require.True(t, ok)
	assert.Same(t, outer, d)
	assert.Equal(t, "other/f.txt", rest)
}

func TestRegistry_MountValidation(t *testing.T) {
	r := NewRegistry()
	d := &stubDriver{}

	assert.Error(t, r.Mount("", d))
	assert.Error(t, r.Mount("relative", d))

	require.NoError(t, r.Mount("/ram/", d), "trailing slash is normalized away")
	assert.Error(t, r.Mount("/ram", d), "occupied prefix must be rejected")
}

func TestRegistry_Unmount(t *testing.T) {
	r := NewRegistry()
	d := &stubDriver{}
	require.NoError(t, r.Mount("/ram", d))

	r.Unmount("/ram")
	_, _, ok := r.Resolve("/ram/f.txt")
	assert.False(t, ok)

	// Unknown prefixes are a no-op
	r.Unmount("/ram")
	r.Unmount("not-absolute")

	// The prefix is free for a new mount
	require.NoError(t, r.Mount("/ram", d))
}

func TestUnsupported_DeclinesEverything(t *testing.T) {
	var d Driver = stubDriver{}

	_, err := d.Open("f.txt", ramdisk.ReadOnly)
	assert.ErrorIs(t, err, ramdisk.ErrNotSupported)
	assert.ErrorIs(t, d.Unlink("f.txt"), ramdisk.ErrNotSupported)
	assert.ErrorIs(t, d.Rename("a", "b"), ramdisk.ErrNotSupported)
	_, err = d.Stat("f.txt")
	assert.ErrorIs(t, err, ramdisk.ErrNotSupported)
	_, err = d.ReadDir(1)
	assert.ErrorIs(t, err, ramdisk.ErrNotSupported)
}

// End to end: a real ramdisk namespace behind the dispatch layer.
func TestRegistry_DispatchToRamdisk(t *testing.T) {
	r := NewRegistry()
	fs := ramdisk.New(nil)
	require.NoError(t, r.Mount("/ram", fs))

	d, rest, ok := r.Resolve("/ram/hello.txt")
	require.True(t, ok)

	fd, err := d.Open(rest, ramdisk.WriteOnly)
	require.NoError(t, err)
	_, err = d.Write(fd, []byte("via dispatch"))
	require.NoError(t, err)
	require.NoError(t, d.Close(fd))

	st, err := d.Stat(rest)
	require.NoError(t, err)
	assert.NotZero(t, st.Dev)
}
