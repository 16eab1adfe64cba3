// Package ramfs exposes an in-memory filesystem namespace that can be
// used as an embedded library or mounted over FUSE.
package ramfs

import (
	"github.com/brettbedarf/ramfs/config"
	"github.com/brettbedarf/ramfs/server"
)

// New creates a RamFs instance given your config.
func New(cfg *config.Config) *server.RamFs {
	return server.New(cfg)
}
