// Package bridge is the boundary adapter: it takes serialized plans and
// arguments, runs the engine or a collaborator, and wraps the outcome in an
// Envelope. Input that fails to parse never reaches the engine, and every
// plan result carries the complete new document.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"alcyxob/liftplan/internal/domain"
	"alcyxob/liftplan/internal/engine"
	"alcyxob/liftplan/internal/service"
)

// Bridge holds the collaborators for I/O operations. It keeps no plan state
// between calls and is safe for concurrent use.
type Bridge struct {
	plans service.PlanService
	dirs  service.DirResolver
}

// New creates a Bridge. Either collaborator may be nil; the operations that
// need it then fail with io_failure.
func New(plans service.PlanService, dirs service.DirResolver) *Bridge {
	return &Bridge{plans: plans, dirs: dirs}
}

var errNoCollaborator = fmt.Errorf("%w: collaborator not configured", domain.ErrIOFailure)

// run calls fn and converts its outcome, including a panic, into an Envelope.
func run(op string, fn func() (any, error)) (env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: panic in %s: %v", op, r)
			env = fail(fmt.Errorf("%s: unexpected failure: %v", op, r))
		}
	}()
	v, err := fn()
	if err != nil {
		return fail(err)
	}
	return ok(v)
}

func isNull(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodePlan(op string, data []byte) (domain.Plan, error) {
	if isNull(data) {
		return domain.Plan{}, domain.Malformed(op, "plan document", fmt.Errorf("empty input"))
	}
	var plan domain.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return domain.Plan{}, domain.Malformed(op, "plan document", err)
	}
	return plan, nil
}

func decodeArg(op, what string, data []byte, v any) error {
	if isNull(data) {
		return domain.Malformed(op, what, fmt.Errorf("empty input"))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return domain.Malformed(op, what, err)
	}
	return nil
}

// NewPlan returns an empty plan.
func (b *Bridge) NewPlan() Envelope {
	return run("new_plan", func() (any, error) {
		return domain.NewPlan(), nil
	})
}

// OpenPlan loads the plan stored at path.
func (b *Bridge) OpenPlan(ctx context.Context, path string) Envelope {
	return run("open_plan", func() (any, error) {
		if b.plans == nil {
			return nil, errNoCollaborator
		}
		return b.plans.OpenPlan(ctx, path)
	})
}

// SavePlan stores the plan at path. Data is a service.SaveResult.
func (b *Bridge) SavePlan(ctx context.Context, plan []byte, path string) Envelope {
	return run("save_plan", func() (any, error) {
		p, err := decodePlan("save_plan", plan)
		if err != nil {
			return nil, err
		}
		if b.plans == nil {
			return nil, errNoCollaborator
		}
		return b.plans.SavePlan(ctx, p, path)
	})
}

// SaveDraft stores the plan under a new name in the drafts directory.
func (b *Bridge) SaveDraft(ctx context.Context, plan []byte) Envelope {
	return run("save_draft", func() (any, error) {
		p, err := decodePlan("save_draft", plan)
		if err != nil {
			return nil, err
		}
		if b.plans == nil {
			return nil, errNoCollaborator
		}
		return b.plans.SaveDraft(ctx, p)
	})
}

// ValidatePlan returns the list of validation issues, possibly empty.
func (b *Bridge) ValidatePlan(plan []byte) Envelope {
	return run("validate_plan", func() (any, error) {
		p, err := decodePlan("validate_plan", plan)
		if err != nil {
			return nil, err
		}
		return engine.Validate(p), nil
	})
}

// AddSegment appends a segment to a day.
func (b *Bridge) AddSegment(plan []byte, day int, segment []byte) Envelope {
	return run("add_segment", func() (any, error) {
		p, err := decodePlan("add_segment", plan)
		if err != nil {
			return nil, err
		}
		var seg domain.Segment
		if err := decodeArg("add_segment", "segment", segment, &seg); err != nil {
			return nil, err
		}
		return engine.AddSegment(p, day, seg)
	})
}

// RemoveSegment deletes a segment from a day.
func (b *Bridge) RemoveSegment(plan []byte, day, index int) Envelope {
	return run("remove_segment", func() (any, error) {
		p, err := decodePlan("remove_segment", plan)
		if err != nil {
			return nil, err
		}
		return engine.RemoveSegment(p, day, index)
	})
}

// UpdateSegment replaces a segment within a day.
func (b *Bridge) UpdateSegment(plan []byte, day, index int, segment []byte) Envelope {
	return run("update_segment", func() (any, error) {
		p, err := decodePlan("update_segment", plan)
		if err != nil {
			return nil, err
		}
		var seg domain.Segment
		if err := decodeArg("update_segment", "segment", segment, &seg); err != nil {
			return nil, err
		}
		return engine.UpdateSegment(p, day, index, seg)
	})
}

// AddDay appends a day. An empty day argument adds a day with no segments.
func (b *Bridge) AddDay(plan []byte, day []byte) Envelope {
	return run("add_day", func() (any, error) {
		p, err := decodePlan("add_day", plan)
		if err != nil {
			return nil, err
		}
		d := domain.NewDay("")
		if !isNull(day) {
			if err := decodeArg("add_day", "day", day, &d); err != nil {
				return nil, err
			}
		}
		return engine.AddDay(p, d), nil
	})
}

// RemoveDay deletes a day.
func (b *Bridge) RemoveDay(plan []byte, index int) Envelope {
	return run("remove_day", func() (any, error) {
		p, err := decodePlan("remove_day", plan)
		if err != nil {
			return nil, err
		}
		return engine.RemoveDay(p, index)
	})
}

// MoveDay moves a day to a new position.
func (b *Bridge) MoveDay(plan []byte, from, to int) Envelope {
	return run("move_day", func() (any, error) {
		p, err := decodePlan("move_day", plan)
		if err != nil {
			return nil, err
		}
		return engine.MoveDay(p, from, to)
	})
}

// GetGroups returns the group table.
func (b *Bridge) GetGroups(plan []byte) Envelope {
	return run("get_groups", func() (any, error) {
		p, err := decodePlan("get_groups", plan)
		if err != nil {
			return nil, err
		}
		return engine.GetGroups(p), nil
	})
}

// AddGroup inserts or replaces a group. codes is a JSON array of exercise
// codes.
func (b *Bridge) AddGroup(plan []byte, name string, codes []byte) Envelope {
	return run("add_group", func() (any, error) {
		p, err := decodePlan("add_group", plan)
		if err != nil {
			return nil, err
		}
		var list []string
		if err := decodeArg("add_group", "exercise codes", codes, &list); err != nil {
			return nil, err
		}
		return engine.SetGroup(p, name, list)
	})
}

// RemoveGroup deletes a group if present.
func (b *Bridge) RemoveGroup(plan []byte, name string) Envelope {
	return run("remove_group", func() (any, error) {
		p, err := decodePlan("remove_group", plan)
		if err != nil {
			return nil, err
		}
		return engine.RemoveGroup(p, name), nil
	})
}

// AddDictionaryEntry inserts or replaces an exercise name.
func (b *Bridge) AddDictionaryEntry(plan []byte, code, name string) Envelope {
	return run("add_dictionary_entry", func() (any, error) {
		p, err := decodePlan("add_dictionary_entry", plan)
		if err != nil {
			return nil, err
		}
		return engine.AddDictionaryEntry(p, code, name)
	})
}

// RemoveDictionaryEntry deletes an exercise code if present.
func (b *Bridge) RemoveDictionaryEntry(plan []byte, code string) Envelope {
	return run("remove_dictionary_entry", func() (any, error) {
		p, err := decodePlan("remove_dictionary_entry", plan)
		if err != nil {
			return nil, err
		}
		return engine.RemoveDictionaryEntry(p, code), nil
	})
}

// SearchDictionary returns ranked dictionary matches for query.
func (b *Bridge) SearchDictionary(plan []byte, query string, limit int) Envelope {
	return run("search_dictionary", func() (any, error) {
		p, err := decodePlan("search_dictionary", plan)
		if err != nil {
			return nil, err
		}
		return engine.SearchDictionary(p, query, limit), nil
	})
}

// DiffPlans lists the changes that turn plan from into plan to.
func (b *Bridge) DiffPlans(from, to []byte) Envelope {
	return run("diff_plans", func() (any, error) {
		a, err := decodePlan("diff_plans", from)
		if err != nil {
			return nil, err
		}
		z, err := decodePlan("diff_plans", to)
		if err != nil {
			return nil, err
		}
		return engine.DiffPlans(a, z)
	})
}

// AppSupportDir resolves the application-support directory.
func (b *Bridge) AppSupportDir() Envelope {
	return b.dir("app_support_dir", func(d service.DirResolver) (string, error) { return d.AppSupportDir() })
}

// CacheDir resolves the cache directory.
func (b *Bridge) CacheDir() Envelope {
	return b.dir("cache_dir", func(d service.DirResolver) (string, error) { return d.CacheDir() })
}

// DraftsDir resolves the drafts directory.
func (b *Bridge) DraftsDir() Envelope {
	return b.dir("drafts_dir", func(d service.DirResolver) (string, error) { return d.DraftsDir() })
}

func (b *Bridge) dir(op string, resolve func(service.DirResolver) (string, error)) Envelope {
	return run(op, func() (any, error) {
		if b.dirs == nil {
			return nil, errNoCollaborator
		}
		dir, err := resolve(b.dirs)
		if err != nil {
			return nil, domain.IOFailure(op, err)
		}
		return dir, nil
	})
}
