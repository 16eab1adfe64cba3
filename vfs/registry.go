package vfs

import (
	"fmt"
	"strings"

	"github.com/brettbedarf/ramfs/internal/util"
	"github.com/puzpuzpuz/xsync/v4"
)

// Registry routes absolute paths to the driver mounted at the longest
// matching prefix. Mount and Unmount may race with Resolve; lookups are
// lock-free.
type Registry struct {
	drivers *xsync.Map[string, Driver]
}

func NewRegistry() *Registry {
	return &Registry{drivers: xsync.NewMap[string, Driver]()}
}

// Mount registers d under prefix (e.g. "/ram"). The prefix must be
// absolute; a trailing slash is stripped. Mounting over an occupied
// prefix fails.
func (r *Registry) Mount(prefix string, d Driver) error {
	prefix, err := normalizePrefix(prefix)
	if err != nil {
		return err
	}
	if _, loaded := r.drivers.LoadOrStore(prefix, d); loaded {
		return fmt.Errorf("vfs: prefix %q already mounted", prefix)
	}
	logger := util.GetLogger("vfs")
	logger.Info().Str("prefix", prefix).Msg("Driver mounted")
	return nil
}

// Unmount removes the driver at prefix. Unknown prefixes are a no-op.
func (r *Registry) Unmount(prefix string) {
	prefix, err := normalizePrefix(prefix)
	if err != nil {
		return
	}
	if _, ok := r.drivers.LoadAndDelete(prefix); ok {
		logger := util.GetLogger("vfs")
		logger.Info().Str("prefix", prefix).Msg("Driver unmounted")
	}
}

// Resolve finds the driver whose prefix is the longest match for path
// and returns it together with the path remainder relative to the
// mount ("/ram/a/b" -> driver at "/ram", "a/b").
func (r *Registry) Resolve(path string) (Driver, string, bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, "", false
	}

	var (
		best    Driver
		bestLen = -1
		rest    string
	)
	r.drivers.Range(func(prefix string, d Driver) bool {
		if !matchesPrefix(path, prefix) || len(prefix) <= bestLen {
			return true
		}
		best = d
		bestLen = len(prefix)
		rest = strings.TrimPrefix(path[len(prefix):], "/")
		return true
	})
	if best == nil {
		return nil, "", false
	}
	return best, rest, true
}

// matchesPrefix reports whether path lives under prefix at a path
// component boundary ("/ram" matches "/ram" and "/ram/x", not "/ramx").
func matchesPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

func normalizePrefix(prefix string) (string, error) {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" || !strings.HasPrefix(prefix, "/") {
		return "", fmt.Errorf("vfs: mount prefix must be absolute, got %q", prefix)
	}
	return prefix, nil
}
