package ramdisk

// Operations this driver deliberately declines. Keeping explicit
// methods (rather than omitting them) lets the dispatch layer treat
// every driver uniformly.

// Rename is not supported.
func (fs *Filesystem) Rename(oldpath, newpath string) error { return ErrNotSupported }

// Mkdir is not supported at the dispatch boundary; embedders can use
// CreateDir directly.
func (fs *Filesystem) Mkdir(path string) error { return ErrNotSupported }

// Rmdir is not supported: directory removal, including of nested
// directories, is outside the contract.
func (fs *Filesystem) Rmdir(path string) error { return ErrNotSupported }

// Link is not supported.
func (fs *Filesystem) Link(oldpath, newpath string) error { return ErrNotSupported }

// Symlink is not supported.
func (fs *Filesystem) Symlink(target, path string) error { return ErrNotSupported }

// Readlink is not supported.
func (fs *Filesystem) Readlink(path string) (string, error) { return "", ErrNotSupported }
