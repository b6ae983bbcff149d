package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("server.address: got %q", cfg.Server.Address)
	}
	if cfg.JWT.Expiration != time.Hour {
		t.Errorf("jwt.expiration: got %v", cfg.JWT.Expiration)
	}
	if cfg.Paths.AppName != "liftplan" {
		t.Errorf("paths.app_name: got %q", cfg.Paths.AppName)
	}
	if cfg.Database.URI != "" || cfg.S3.Enabled() || cfg.SQLite.Path != "" {
		t.Errorf("backends should be off by default: %+v", cfg)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  address: \":9090\"\nsqlite:\n  path: /tmp/plans.db\njwt:\n  expiration: 30m\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("S3_REGION", "eu-west-1")

	cfg, err := Load(viper.New(), dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Address != ":9090" {
		t.Errorf("server.address: got %q", cfg.Server.Address)
	}
	if cfg.SQLite.Path != "/tmp/plans.db" {
		t.Errorf("sqlite.path: got %q", cfg.SQLite.Path)
	}
	if cfg.JWT.Expiration != 30*time.Minute {
		t.Errorf("jwt.expiration: got %v", cfg.JWT.Expiration)
	}
	if cfg.S3.Region != "eu-west-1" || !cfg.S3.Enabled() {
		t.Errorf("s3.region from env: got %q", cfg.S3.Region)
	}
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(viper.New(), dir); err == nil {
		t.Fatal("expected an error for a broken config file")
	}
}
