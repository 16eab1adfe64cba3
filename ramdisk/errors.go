package ramdisk

import "errors"

// Error kinds returned by namespace operations. Callers should match with
// [errors.Is]; frontends (FUSE, dispatch registries) translate these to
// protocol-specific codes.
var (
	// ErrNotFound means a path segment did not resolve.
	ErrNotFound = errors.New("ramdisk: not found")

	// ErrWrongKind means resolution found a node of the other kind
	// (file expected, directory found, or vice versa).
	ErrWrongKind = errors.New("ramdisk: wrong node kind")

	// ErrLocked means a conflicting open already holds the node: any
	// open conflicts with a writer, and a write-intent open conflicts
	// with readers.
	ErrLocked = errors.New("ramdisk: node locked by conflicting open")

	// ErrHandlesExhausted means the fixed-size handle table has no free
	// slot. This is a hard failure, not a retryable condition.
	ErrHandlesExhausted = errors.New("ramdisk: handle table exhausted")

	// ErrBadHandle means the handle is invalid, stale, or of the wrong
	// kind for the operation.
	ErrBadHandle = errors.New("ramdisk: bad handle")

	// ErrInvalidArgument covers bad seek whence/magnitude, unsupported
	// fcntl commands and malformed open flag combinations.
	ErrInvalidArgument = errors.New("ramdisk: invalid argument")

	// ErrInUse means an unlink target still has open handles.
	ErrInUse = errors.New("ramdisk: node in use")

	// ErrNotSupported marks operations the driver deliberately does not
	// implement (rename, mkdir, links, ...).
	ErrNotSupported = errors.New("ramdisk: operation not supported")

	// ErrClosed is returned by every operation after Shutdown.
	ErrClosed = errors.New("ramdisk: filesystem is shut down")
)
