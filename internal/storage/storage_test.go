package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"alcyxob/liftplan/internal/config"
	"alcyxob/liftplan/internal/domain"
	"alcyxob/liftplan/internal/repository"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path, scheme, key string
	}{
		{"plans/a.json", SchemeFile, "plans/a.json"},
		{"/abs/a.json", SchemeFile, "/abs/a.json"},
		{"file:///abs/a.json", SchemeFile, "/abs/a.json"},
		{"s3://bucket/plans/a.json", SchemeS3, "bucket/plans/a.json"},
		{"MONGO://weekly", SchemeMongo, "weekly"},
		{"sqlite://a", SchemeSQLite, "a"},
	}
	for _, tc := range tests {
		scheme, key := SplitPath(tc.path)
		if scheme != tc.scheme || key != tc.key {
			t.Errorf("SplitPath(%q) = %q, %q; want %q, %q", tc.path, scheme, key, tc.scheme, tc.key)
		}
	}
}

func TestFileStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStorage()
	path := filepath.Join(t.TempDir(), "nested", "dir", "plan.json")

	if _, err := fs.Load(ctx, path); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
	for _, body := range []string{`{"name":"a"}`, `{"name":"b"}`, `{"name":"b"}`} {
		if err := fs.Save(ctx, path, []byte(body)); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := fs.Load(ctx, path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if string(got) != body {
			t.Fatalf("got %s want %s", got, body)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestSQLiteStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLiteStorage(ctx, config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "plans.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if _, err := s.Load(ctx, "weekly"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
	if err := s.Save(ctx, "weekly", []byte("v1")); err != nil {
		t.Fatalf("save v1: %v", err)
	}
	if err := s.Save(ctx, "weekly", []byte("v2")); err != nil {
		t.Fatalf("save v2: %v", err)
	}
	got, err := s.Load(ctx, "weekly")
	if err != nil || string(got) != "v2" {
		t.Fatalf("load: %q, %v", got, err)
	}
}

func TestOpenSQLiteStorageNeedsPath(t *testing.T) {
	if _, err := OpenSQLiteStorage(context.Background(), config.SQLiteConfig{}); !errors.Is(err, ErrBackendNotConfigured) {
		t.Fatalf("expected ErrBackendNotConfigured, got %v", err)
	}
}

func TestSQLiteStorageOddPath(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	path := filepath.Join(root, "week?1#draft", "plans 100%.db")
	s, err := OpenSQLiteStorage(ctx, config.SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	if err := s.Save(ctx, "weekly", []byte("v1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database not created at %s: %v", path, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "week?1#draft" {
		t.Fatalf("unexpected files next to the database directory: %v", entries)
	}
}

func TestSQLiteDSN(t *testing.T) {
	got := sqliteDSN("/tmp/a?b#c/p%.db")
	want := "file:/tmp/a%3Fb%23c/p%25.db?" + sqlitePragmas
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		cfg  config.S3Config
		want string
	}{
		{config.S3Config{}, ""},
		{config.S3Config{Endpoint: "minio:9000", UseSSL: true}, "https://minio:9000"},
		{config.S3Config{Endpoint: "minio:9000"}, "http://minio:9000"},
		{config.S3Config{Endpoint: "http://localhost:9000", UseSSL: true}, "http://localhost:9000"},
	}
	for _, tc := range tests {
		if got := endpointURL(tc.cfg); got != tc.want {
			t.Errorf("endpointURL(%+v) = %q, want %q", tc.cfg, got, tc.want)
		}
	}
}

// memoryRepo is an in-memory repository.PlanDocumentRepository.
type memoryRepo struct {
	mu   sync.Mutex
	docs map[string]domain.PlanDocument
}

func (m *memoryRepo) Upsert(ctx context.Context, doc *domain.PlanDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs == nil {
		m.docs = map[string]domain.PlanDocument{}
	}
	m.docs[doc.Key] = *doc
	return nil
}

func (m *memoryRepo) GetByKey(ctx context.Context, key string) (*domain.PlanDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (m *memoryRepo) List(ctx context.Context) ([]domain.PlanDocument, error) {
	return nil, nil
}

func (m *memoryRepo) Delete(ctx context.Context, key string) error {
	return nil
}

func TestDocumentStorage(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	s := NewDocumentStorage(repo)

	if _, err := s.Load(ctx, "weekly"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
	body := []byte(`{"name":"Strength A","days":[]}`)
	if err := s.Save(ctx, "weekly", body); err != nil {
		t.Fatalf("save: %v", err)
	}
	doc := repo.docs["weekly"]
	if doc.Name != "Strength A" || doc.Digest != domain.Digest(body) {
		t.Fatalf("unexpected stored document: %+v", doc)
	}
	got, err := s.Load(ctx, "weekly")
	if err != nil || string(got) != string(body) {
		t.Fatalf("load: %s, %v", got, err)
	}
}

func TestRouterDispatch(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	r := NewRouter(NewFileStorage())
	r.Register(SchemeMongo, NewDocumentStorage(repo))

	local := filepath.Join(t.TempDir(), "plan.json")
	if err := r.Save(ctx, local, []byte("local")); err != nil {
		t.Fatalf("save local: %v", err)
	}
	if err := r.Save(ctx, "mongo://weekly", []byte("remote")); err != nil {
		t.Fatalf("save mongo: %v", err)
	}
	if got, _ := r.Load(ctx, "file://"+local); string(got) != "local" {
		t.Fatalf("file:// load got %q", got)
	}
	if got, _ := r.Load(ctx, "mongo://weekly"); string(got) != "remote" {
		t.Fatalf("mongo:// load got %q", got)
	}
	if _, err := r.Load(ctx, "s3://bucket/key"); !errors.Is(err, ErrBackendNotConfigured) {
		t.Fatalf("expected ErrBackendNotConfigured, got %v", err)
	}
	if err := r.Save(ctx, "mongo://", []byte("x")); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
	if !r.Has(SchemeMongo) || r.Has(SchemeSQLite) {
		t.Fatalf("Has reports wrong backends")
	}
}
