package app

import (
	"alcyxob/liftplan/internal/config"
	"alcyxob/liftplan/internal/storage"
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	return config.Config{
		JWT: config.JWTConfig{Expiration: time.Hour, Issuer: "liftplan"},
		Paths: config.PathsConfig{
			AppName:    "liftplan",
			AppSupport: filepath.Join(root, "support"),
			Cache:      filepath.Join(root, "cache"),
			Drafts:     filepath.Join(root, "drafts"),
		},
	}
}

func TestBuildLocalOnly(t *testing.T) {
	a, err := Build(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer a.Close()

	if a.Tokens != nil || a.Documents != nil {
		t.Fatal("optional parts should stay nil without config")
	}
	for _, scheme := range []string{storage.SchemeS3, storage.SchemeMongo, storage.SchemeSQLite} {
		if a.Storage.Has(scheme) {
			t.Errorf("%s should not be registered", scheme)
		}
	}
	if !a.Bridge.NewPlan().Success {
		t.Fatal("bridge is not usable")
	}
}

func TestBuildWithSQLiteAndTokens(t *testing.T) {
	cfg := testConfig(t)
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "plans.db")
	cfg.JWT.Secret = "secret"

	a, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer a.Close()

	if !a.Storage.Has(storage.SchemeSQLite) {
		t.Fatal("sqlite backend not registered")
	}
	if a.Tokens == nil {
		t.Fatal("token service not built")
	}

	ctx := context.Background()
	plan := a.Bridge.NewPlan().Data
	if env := a.Bridge.SavePlan(ctx, plan, "sqlite://week-1"); !env.Success {
		t.Fatalf("save to sqlite: %+v", env.Error)
	}
	if env := a.Bridge.OpenPlan(ctx, "sqlite://week-1"); !env.Success || string(env.Data) != string(plan) {
		t.Fatalf("open from sqlite: %+v", env)
	}
}
