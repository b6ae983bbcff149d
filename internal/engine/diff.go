// internal/engine/diff.go
package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"alcyxob/liftplan/internal/domain"
)

// ChangeType classifies one difference between two plans.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

// PlanChange is one difference, addressed by a JSON pointer into the plan
// document. OldValue is absent for additions and NewValue for removals.
type PlanChange struct {
	Type        ChangeType      `json:"change_type"`
	Path        string          `json:"path"`
	OldValue    json.RawMessage `json:"old_value,omitempty"`
	NewValue    json.RawMessage `json:"new_value,omitempty"`
	Description string          `json:"description"`
}

// DiffMetrics summarizes a PlanDiff.
type DiffMetrics struct {
	TotalChanges     int `json:"total_changes"`
	Additions        int `json:"additions"`
	Modifications    int `json:"modifications"`
	Deletions        int `json:"deletions"`
	SegmentsAdded    int `json:"segments_added"`
	SegmentsRemoved  int `json:"segments_removed"`
	SegmentsModified int `json:"segments_modified"`
	ExercisesAdded   int `json:"exercises_added"`
	ExercisesRemoved int `json:"exercises_removed"`
}

// PlanDiff lists the changes that turn one plan into another.
type PlanDiff struct {
	Changes []PlanChange `json:"changes"`
	Metrics DiffMetrics  `json:"metrics"`
}

// DiffPlans compares from and to. Objects are compared key by key in sorted
// order and arrays element by element, so changes come out in a stable order
// with the deepest differing path. Diffing a plan with itself gives no
// changes.
func DiffPlans(from, to domain.Plan) (PlanDiff, error) {
	a, err := documentTree(from)
	if err != nil {
		return PlanDiff{}, err
	}
	b, err := documentTree(to)
	if err != nil {
		return PlanDiff{}, err
	}
	d := differ{changes: []PlanChange{}}
	if err := d.values("", a, b); err != nil {
		return PlanDiff{}, err
	}

	m := DiffMetrics{TotalChanges: len(d.changes)}
	for _, c := range d.changes {
		switch c.Type {
		case ChangeAdded:
			m.Additions++
		case ChangeRemoved:
			m.Deletions++
		case ChangeModified:
			m.Modifications++
		}
	}
	m.SegmentsAdded, m.SegmentsRemoved, m.SegmentsModified = segmentCounts(from.Days, to.Days)
	m.ExercisesAdded = missingKeys(to.Dictionary, from.Dictionary)
	m.ExercisesRemoved = missingKeys(from.Dictionary, to.Dictionary)
	return PlanDiff{Changes: d.changes, Metrics: m}, nil
}

func documentTree(p domain.Plan) (any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("diff_plans: encode plan: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("diff_plans: decode plan: %w", err)
	}
	return tree, nil
}

type differ struct {
	changes []PlanChange
}

func (d *differ) values(path string, a, b any) error {
	switch av := a.(type) {
	case map[string]any:
		if bv, ok := b.(map[string]any); ok {
			return d.objects(path, av, bv)
		}
	case []any:
		if bv, ok := b.([]any); ok {
			return d.arrays(path, av, bv)
		}
	}
	if reflect.DeepEqual(a, b) {
		return nil
	}
	return d.record(ChangeModified, path, a, b)
}

func (d *differ) objects(path string, a, b map[string]any) error {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		child := path + "/" + pointerEscaper.Replace(k)
		av, inA := a[k]
		bv, inB := b[k]
		var err error
		switch {
		case !inB:
			err = d.record(ChangeRemoved, child, av, nil)
		case !inA:
			err = d.record(ChangeAdded, child, nil, bv)
		default:
			err = d.values(child, av, bv)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *differ) arrays(path string, a, b []any) error {
	for i := 0; i < len(a) || i < len(b); i++ {
		child := fmt.Sprintf("%s/%d", path, i)
		var err error
		switch {
		case i >= len(b):
			err = d.record(ChangeRemoved, child, a[i], nil)
		case i >= len(a):
			err = d.record(ChangeAdded, child, nil, b[i])
		default:
			err = d.values(child, a[i], b[i])
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *differ) record(t ChangeType, path string, old, updated any) error {
	c := PlanChange{Type: t, Path: path}
	if path == "" {
		c.Path = "/"
	}
	var err error
	if t != ChangeAdded {
		if c.OldValue, err = json.Marshal(old); err != nil {
			return err
		}
	}
	if t != ChangeRemoved {
		if c.NewValue, err = json.Marshal(updated); err != nil {
			return err
		}
	}
	switch t {
	case ChangeAdded:
		c.Description = "added " + c.Path
	case ChangeRemoved:
		c.Description = "removed " + c.Path
	default:
		c.Description = fmt.Sprintf("changed %s from %s to %s", c.Path, c.OldValue, c.NewValue)
	}
	d.changes = append(d.changes, c)
	return nil
}

// segmentCounts compares top-level segments position by position within
// each day index.
func segmentCounts(from, to []domain.Day) (added, removed, modified int) {
	for i := 0; i < len(from) || i < len(to); i++ {
		var a, b []domain.Segment
		if i < len(from) {
			a = from[i].Segments
		}
		if i < len(to) {
			b = to[i].Segments
		}
		for j := 0; j < len(a) || j < len(b); j++ {
			switch {
			case j >= len(b):
				removed++
			case j >= len(a):
				added++
			case !sameSegment(a[j], b[j]):
				modified++
			}
		}
	}
	return added, removed, modified
}

func sameSegment(a, b domain.Segment) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}

// missingKeys counts keys of a that b lacks.
func missingKeys(a, b map[string]string) int {
	n := 0
	for k := range a {
		if _, ok := b[k]; !ok {
			n++
		}
	}
	return n
}
