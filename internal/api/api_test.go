package api

import (
	"alcyxob/liftplan/internal/bridge"
	"alcyxob/liftplan/internal/config"
	"alcyxob/liftplan/internal/paths"
	"alcyxob/liftplan/internal/service"
	"alcyxob/liftplan/internal/storage"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, tokens service.TokenService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	root := t.TempDir()
	dirs := paths.NewResolver(config.PathsConfig{
		AppName:    "liftplan",
		AppSupport: filepath.Join(root, "support"),
		Cache:      filepath.Join(root, "cache"),
		Drafts:     filepath.Join(root, "drafts"),
	})
	plans := service.NewPlanService(storage.NewRouter(storage.NewFileStorage()), dirs)
	router := gin.New()
	SetupRoutes(router, bridge.New(plans, dirs), tokens)
	return router
}

func call(t *testing.T, router *gin.Engine, method, path string, body any, header http.Header) (*httptest.ResponseRecorder, bridge.Envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env bridge.Envelope
	if path != "/ping" {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: body is not an envelope: %s", method, path, w.Body.String())
		}
	}
	return w, env
}

func TestPing(t *testing.T) {
	router := newTestRouter(t, nil)
	w, _ := call(t, router, http.MethodGet, "/ping", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get(HeaderRequestID) == "" {
		t.Fatal("missing request id header")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := newTestRouter(t, nil)
	w, _ := call(t, router, http.MethodPost, "/api/v1/plans/new", nil, http.Header{HeaderRequestID: {"abc-123"}})
	if got := w.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
}

func TestPlanEditingFlow(t *testing.T) {
	router := newTestRouter(t, nil)

	w, env := call(t, router, http.MethodPost, "/api/v1/plans/new", nil, nil)
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("new plan: %d %+v", w.Code, env.Error)
	}
	if w.Header().Get("ETag") == "" {
		t.Fatal("plan result should carry an ETag")
	}
	plan := env.Data

	_, env = call(t, router, http.MethodPost, "/api/v1/plans/days/add", gin.H{"plan": plan}, nil)
	plan = env.Data
	_, env = call(t, router, http.MethodPost, "/api/v1/plans/segments/add", gin.H{
		"plan": plan, "day": 0, "segment": gin.H{"ex": "sq1", "sets": 3, "reps": 5},
	}, nil)
	if !env.Success {
		t.Fatalf("add segment: %+v", env.Error)
	}
	plan = env.Data

	w, env = call(t, router, http.MethodPost, "/api/v1/plans/validate", gin.H{"plan": plan}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("validate: %d", w.Code)
	}
	var issues []map[string]any
	if err := env.Decode(&issues); err != nil || len(issues) != 1 {
		t.Fatalf("expected one issue, got %v (%v)", issues, err)
	}
	if w.Header().Get("ETag") != "" {
		t.Fatal("issue lists should not carry an ETag")
	}

	_, env = call(t, router, http.MethodPost, "/api/v1/plans/dictionary/set", gin.H{"plan": plan, "code": "sq1", "name": "Squat"}, nil)
	plan = env.Data
	_, env = call(t, router, http.MethodPost, "/api/v1/plans/validate", gin.H{"plan": plan}, nil)
	if err := env.Decode(&issues); err != nil || len(issues) != 0 {
		t.Fatalf("expected no issues, got %v (%v)", issues, err)
	}
}

func TestStatusCodes(t *testing.T) {
	router := newTestRouter(t, nil)
	_, env := call(t, router, http.MethodPost, "/api/v1/plans/new", nil, nil)
	plan := env.Data

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		kind   string
	}{
		{"missing body", "/api/v1/plans/validate", nil, http.StatusBadRequest, bridge.KindMalformedInput},
		{"broken plan", "/api/v1/plans/validate", gin.H{"plan": "not a plan"}, http.StatusBadRequest, bridge.KindMalformedInput},
		{"missing day", "/api/v1/plans/segments/add", gin.H{"plan": plan, "segment": gin.H{}}, http.StatusBadRequest, bridge.KindMalformedInput},
		{"missing index", "/api/v1/plans/days/remove", gin.H{"plan": plan}, http.StatusBadRequest, bridge.KindMalformedInput},
		{"day out of range", "/api/v1/plans/segments/add", gin.H{"plan": plan, "day": 0, "segment": gin.H{"ex": "a"}}, http.StatusUnprocessableEntity, bridge.KindIndexOutOfRange},
		{"empty group name", "/api/v1/plans/groups/set", gin.H{"plan": plan, "name": "", "codes": []string{"a"}}, http.StatusBadRequest, bridge.KindInvalidArgument},
		{"diff without target", "/api/v1/plans/diff", gin.H{"from": plan}, http.StatusBadRequest, bridge.KindMalformedInput},
		{"missing file", "/api/v1/plans/open", gin.H{"path": filepath.Join(t.TempDir(), "nope.json")}, http.StatusBadGateway, bridge.KindIOFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := call(t, router, http.MethodPost, tt.path, tt.body, nil)
			if w.Code != tt.status {
				t.Errorf("status: got %d, want %d", w.Code, tt.status)
			}
			if env.Success || env.Error == nil || env.Error.Kind != tt.kind {
				t.Errorf("kind: got %+v, want %s", env.Error, tt.kind)
			}
			if !env.Valid() {
				t.Errorf("envelope breaks the contract: %+v", env)
			}
		})
	}
}

func TestDiffOverHTTP(t *testing.T) {
	router := newTestRouter(t, nil)
	_, env := call(t, router, http.MethodPost, "/api/v1/plans/new", nil, nil)
	from := env.Data
	_, env = call(t, router, http.MethodPost, "/api/v1/plans/days/add", gin.H{"plan": from}, nil)
	to := env.Data

	w, env := call(t, router, http.MethodPost, "/api/v1/plans/diff", gin.H{"from": from, "to": to}, nil)
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("diff: %d %+v", w.Code, env.Error)
	}
	var diff struct {
		Changes []struct {
			Type string `json:"change_type"`
			Path string `json:"path"`
		} `json:"changes"`
		Metrics struct {
			TotalChanges int `json:"total_changes"`
		} `json:"metrics"`
	}
	if err := env.Decode(&diff); err != nil {
		t.Fatalf("decode diff: %v", err)
	}
	if len(diff.Changes) != 1 || diff.Changes[0].Type != "added" || diff.Changes[0].Path != "/days/0" {
		t.Fatalf("unexpected changes %+v", diff.Changes)
	}
	if diff.Metrics.TotalChanges != 1 {
		t.Fatalf("unexpected metrics %+v", diff.Metrics)
	}
	if w.Header().Get("ETag") != "" {
		t.Fatal("a diff is not a plan and should not carry an ETag")
	}
}

func TestSaveAndOpenOverHTTP(t *testing.T) {
	router := newTestRouter(t, nil)
	_, env := call(t, router, http.MethodPost, "/api/v1/plans/new", nil, nil)
	plan := env.Data
	path := filepath.Join(t.TempDir(), "plan.yaml")

	w, env := call(t, router, http.MethodPost, "/api/v1/plans/save", gin.H{"plan": plan, "path": path}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("save: %d %+v", w.Code, env.Error)
	}
	w, env = call(t, router, http.MethodPost, "/api/v1/plans/open", gin.H{"path": path}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("open: %d %+v", w.Code, env.Error)
	}
	if string(env.Data) != string(plan) {
		t.Fatalf("round trip mismatch:\n%s\n%s", env.Data, plan)
	}
}

func TestDirs(t *testing.T) {
	router := newTestRouter(t, nil)
	for _, name := range []string{"app-support", "cache", "drafts"} {
		w, env := call(t, router, http.MethodGet, "/api/v1/dirs/"+name, nil, nil)
		var dir string
		if w.Code != http.StatusOK || env.Decode(&dir) != nil || dir == "" {
			t.Errorf("%s: %d %+v", name, w.Code, env.Error)
		}
	}
	w, _ := call(t, router, http.MethodGet, "/api/v1/dirs/elsewhere", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown dir: got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	tokens, err := service.NewTokenService("test-secret", time.Hour, "liftplan")
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	router := newTestRouter(t, tokens)

	w, env := call(t, router, http.MethodPost, "/api/v1/plans/new", nil, nil)
	if w.Code != http.StatusUnauthorized || env.Error == nil || env.Error.Kind != bridge.KindUnauthorized {
		t.Fatalf("expected 401 envelope, got %d %+v", w.Code, env)
	}

	w, _ = call(t, router, http.MethodPost, "/api/v1/plans/new", nil, http.Header{"Authorization": {"Bearer garbage"}})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d", w.Code)
	}

	token, err := tokens.IssueToken("editor")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	w, env = call(t, router, http.MethodPost, "/api/v1/plans/new", nil, http.Header{"Authorization": {"Bearer " + token}})
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected success with a valid token, got %d %+v", w.Code, env.Error)
	}

	w, _ = call(t, router, http.MethodGet, "/ping", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ping should stay open, got %d", w.Code)
	}
}
