package paths

import (
	"os"
	"path/filepath"
	"testing"

	"alcyxob/liftplan/internal/config"
	"github.com/adrg/xdg"
)

func TestResolverDefaults(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	xdg.Reload()
	defer xdg.Reload()

	r := NewResolver(config.PathsConfig{})
	tests := []struct {
		name    string
		resolve func() (string, error)
		want    string
	}{
		{"app support", r.AppSupportDir, filepath.Join(xdg.DataHome, "liftplan")},
		{"cache", r.CacheDir, filepath.Join(xdg.CacheHome, "liftplan")},
		{"drafts", r.DraftsDir, filepath.Join(xdg.StateHome, "liftplan", "drafts")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.resolve()
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
			if info, err := os.Stat(got); err != nil || !info.IsDir() {
				t.Errorf("directory %s was not created: %v", got, err)
			}
		})
	}
}

func TestResolverOverrides(t *testing.T) {
	root := t.TempDir()
	cfg := config.PathsConfig{
		AppName:    "other",
		AppSupport: filepath.Join(root, "support"),
		Cache:      filepath.Join(root, "c"),
		Drafts:     filepath.Join(root, "d", "nested"),
	}
	r := NewResolver(cfg)

	for want, resolve := range map[string]func() (string, error){
		cfg.AppSupport: r.AppSupportDir,
		cfg.Cache:      r.CacheDir,
		cfg.Drafts:     r.DraftsDir,
	} {
		got, err := resolve()
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
		if _, err := os.Stat(got); err != nil {
			t.Errorf("directory %s was not created: %v", got, err)
		}
	}
}
