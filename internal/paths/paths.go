// Package paths resolves the per-platform directories liftplan keeps its
// files in.
//
// Defaults follow the XDG base directory layout on Linux and the native
// locations elsewhere (~/Library/Application Support on macOS):
//   - app support: $XDG_DATA_HOME/<app>
//   - cache:       $XDG_CACHE_HOME/<app>
//   - drafts:      $XDG_STATE_HOME/<app>/drafts
//
// Each directory can be overridden through config.PathsConfig. Directories
// are created when resolved.
package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"alcyxob/liftplan/internal/config"
	"github.com/adrg/xdg"
)

const defaultAppName = "liftplan"

// Resolver looks up application directories. It holds no state beyond its
// configuration.
type Resolver struct {
	cfg config.PathsConfig
}

// NewResolver creates a Resolver from the paths section of the config.
func NewResolver(cfg config.PathsConfig) *Resolver {
	if cfg.AppName == "" {
		cfg.AppName = defaultAppName
	}
	return &Resolver{cfg: cfg}
}

// AppSupportDir returns the application-support directory.
func (r *Resolver) AppSupportDir() (string, error) {
	return ensure(r.cfg.AppSupport, filepath.Join(xdg.DataHome, r.cfg.AppName))
}

// CacheDir returns the cache directory.
func (r *Resolver) CacheDir() (string, error) {
	return ensure(r.cfg.Cache, filepath.Join(xdg.CacheHome, r.cfg.AppName))
}

// DraftsDir returns the directory unsaved plan drafts are written to.
func (r *Resolver) DraftsDir() (string, error) {
	return ensure(r.cfg.Drafts, filepath.Join(xdg.StateHome, r.cfg.AppName, "drafts"))
}

func ensure(override, fallback string) (string, error) {
	dir := fallback
	if override != "" {
		dir = override
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", abs, err)
	}
	return abs, nil
}
