package service

import (
	"alcyxob/liftplan/internal/codec"
	"alcyxob/liftplan/internal/domain"
	"alcyxob/liftplan/internal/storage"
	"context"
	"errors"
	"log"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrEmptyPath = errors.New("plan path cannot be empty")
)

// DirResolver locates the platform directories.
type DirResolver interface {
	AppSupportDir() (string, error)
	CacheDir() (string, error)
	DraftsDir() (string, error)
}

// SaveResult describes a stored plan document.
type SaveResult struct {
	Path   string `json:"path"`
	Digest string `json:"digest"` // Hex BLAKE2b-256 of the stored bytes
	Bytes  int    `json:"bytes"`
}

// --- Service Interface ---

// PlanService moves plans between storage and memory. Failures are
// *domain.OpError values: io_failure for storage, malformed_input for
// documents that do not parse.
type PlanService interface {
	OpenPlan(ctx context.Context, path string) (domain.Plan, error)
	SavePlan(ctx context.Context, plan domain.Plan, path string) (*SaveResult, error)
	// SaveDraft writes the plan under a fresh name in the drafts directory.
	SaveDraft(ctx context.Context, plan domain.Plan) (*SaveResult, error)
}

// --- Service Implementation ---

// planService implements the PlanService interface.
type planService struct {
	store storage.PlanStorage
	dirs  DirResolver
}

// NewPlanService creates a new instance of planService.
func NewPlanService(store storage.PlanStorage, dirs DirResolver) PlanService {
	return &planService{
		store: store,
		dirs:  dirs,
	}
}

// OpenPlan loads and decodes the document at path. YAML is chosen by extension.
func (s *planService) OpenPlan(ctx context.Context, path string) (domain.Plan, error) {
	if strings.TrimSpace(path) == "" {
		return domain.Plan{}, domain.InvalidArgument("open_plan", ErrEmptyPath.Error())
	}
	data, err := s.store.Load(ctx, path)
	if err != nil {
		log.Printf("ERROR: Failed to load plan '%s': %v", path, err)
		return domain.Plan{}, domain.IOFailure("open_plan", err)
	}
	plan, err := codec.Decode(data, codec.FormatFor(path))
	if err != nil {
		return domain.Plan{}, domain.Malformed("open_plan", path, err)
	}
	return plan, nil
}

// SavePlan encodes plan in the format implied by path and stores it.
func (s *planService) SavePlan(ctx context.Context, plan domain.Plan, path string) (*SaveResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, domain.InvalidArgument("save_plan", ErrEmptyPath.Error())
	}
	return s.save(ctx, "save_plan", plan, path)
}

func (s *planService) SaveDraft(ctx context.Context, plan domain.Plan) (*SaveResult, error) {
	dir, err := s.dirs.DraftsDir()
	if err != nil {
		return nil, domain.IOFailure("save_draft", err)
	}
	return s.save(ctx, "save_draft", plan, filepath.Join(dir, draftName(plan.Name)))
}

func (s *planService) save(ctx context.Context, op string, plan domain.Plan, path string) (*SaveResult, error) {
	data, err := codec.Encode(plan, codec.FormatFor(path))
	if err != nil {
		return nil, &domain.OpError{Kind: domain.ErrMalformedInput, Op: op, Msg: err.Error()}
	}
	if err := s.store.Save(ctx, path, data); err != nil {
		log.Printf("ERROR: Failed to save plan '%s': %v", path, err)
		return nil, domain.IOFailure(op, err)
	}
	log.Printf("INFO: Saved plan '%s' to %s (%d bytes)", plan.Name, path, len(data))
	return &SaveResult{Path: path, Digest: domain.Digest(data), Bytes: len(data)}, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// draftName builds "<slug>-<uuid>.json" from a plan name.
func draftName(name string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = "plan"
	}
	return slug + "-" + uuid.NewString() + ".json"
}
