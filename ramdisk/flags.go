package ramdisk

// OpenFlags mirror the conventional open(2) mode vocabulary understood by
// [Filesystem.Open]. An access mode is OR'd with zero or more modifiers.
type OpenFlags int

const (
	ReadOnly  OpenFlags = 0x0
	WriteOnly OpenFlags = 0x1
	ReadWrite OpenFlags = 0x2

	// Append positions the cursor at end of file on open.
	Append OpenFlags = 0x0008
	// Truncate discards existing contents on open, restoring the
	// default capacity.
	Truncate OpenFlags = 0x0010
	// Directory requests a directory handle for ReadDir iteration.
	// Only valid combined with ReadOnly.
	Directory OpenFlags = 0x0020

	accessMask OpenFlags = 0x3
)

// Access returns just the access-mode bits.
func (f OpenFlags) Access() OpenFlags { return f & accessMask }

// writeIntent reports whether the flags ask for write access.
func (f OpenFlags) writeIntent() bool { return f.Access() != ReadOnly }
