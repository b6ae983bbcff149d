// internal/engine/validate.go
package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"alcyxob/liftplan/internal/domain"
)

const (
	maxTempoPhase   = 10
	maxRPE          = 10.0
	maxPct1RM       = 1.5
	maxSegmentSec   = 86400
	maxIntervalSec  = 3600
	maxIntervalReps = 1000
)

// Validate inspects a plan and reports every issue found. It never modifies
// the plan and never fails; an empty result means the plan is well-formed.
//
// Issues are ordered: segment references (day/segment order, depth-first),
// group member references (groups by name), duplicate group members, segment
// field rules, plan fields, empty groups.
func Validate(plan domain.Plan) []domain.Issue {
	v := &validator{plan: plan, issues: []domain.Issue{}}
	groupNames := sortedGroupNames(plan.Groups)

	walkSegments(plan.Days, v.checkReferences)
	for _, name := range groupNames {
		for i, code := range plan.Groups[name] {
			if _, ok := plan.Dictionary[code]; ok {
				continue
			}
			v.add(domain.Issue{
				Kind:     domain.IssueUnknownExercise,
				Code:     "E103",
				Message:  fmt.Sprintf("group %q references unknown exercise %q", name, code),
				Location: domain.Location{Path: groupPath(name) + "/" + strconv.Itoa(i), Group: name},
				Exercise: code,
			})
		}
	}

	for _, name := range groupNames {
		seen := make(map[string]bool, len(plan.Groups[name]))
		for i, code := range plan.Groups[name] {
			if !seen[code] {
				seen[code] = true
				continue
			}
			v.add(domain.Issue{
				Kind:     domain.IssueDuplicateGroupMember,
				Code:     "E106",
				Message:  fmt.Sprintf("group %q lists %q more than once", name, code),
				Location: domain.Location{Path: groupPath(name) + "/" + strconv.Itoa(i), Group: name},
				Exercise: code,
			})
		}
	}

	walkSegments(plan.Days, v.checkFields)

	if plan.Unit != "" && !plan.Unit.Valid() {
		v.add(domain.Issue{
			Kind:     domain.IssueInvalidPlanField,
			Code:     "E100",
			Message:  fmt.Sprintf("unknown unit %q", plan.Unit),
			Location: domain.Location{Path: "/unit"},
			Field:    "unit",
			Reason:   "must be one of kg, lb, bw",
		})
	}
	for _, name := range groupNames {
		if len(plan.Groups[name]) > 0 {
			continue
		}
		v.add(domain.Issue{
			Kind:     domain.IssueEmptyGroup,
			Code:     "E120",
			Message:  fmt.Sprintf("group %q has no members", name),
			Location: domain.Location{Path: groupPath(name), Group: name},
		})
	}
	return v.issues
}

type validator struct {
	plan   domain.Plan
	issues []domain.Issue
}

func (v *validator) add(issue domain.Issue) {
	v.issues = append(v.issues, issue)
}

// segmentRef is the position of a segment, possibly nested, within a plan.
type segmentRef struct {
	day     int
	segment int // Index of the enclosing top-level segment
	path    string

	// inSequence marks items of a complex sequence; their reps are checked
	// by the enclosing complex (E175).
	inSequence bool
}

func (r segmentRef) location() domain.Location {
	day, segment := r.day, r.segment
	return domain.Location{Path: r.path, Day: &day, Segment: &segment}
}

// walkSegments visits every segment depth-first, parents before children.
func walkSegments(days []domain.Day, fn func(domain.Segment, segmentRef)) {
	for d, day := range days {
		for s, seg := range day.Segments {
			ref := segmentRef{day: d, segment: s, path: fmt.Sprintf("/days/%d/segments/%d", d, s)}
			walkSegment(seg, ref, fn)
		}
	}
}

func walkSegment(seg domain.Segment, ref segmentRef, fn func(domain.Segment, segmentRef)) {
	fn(seg, ref)
	for _, nested := range seg.Children() {
		for i, child := range nested.Segments {
			childRef := ref
			childRef.path = fmt.Sprintf("%s/%s/%d", ref.path, nested.Field, i)
			childRef.inSequence = nested.Field == "sequence"
			walkSegment(child, childRef, fn)
		}
	}
}

func (v *validator) checkReferences(seg domain.Segment, ref segmentRef) {
	v.checkExercise(seg.Ex, "ex", ref)
	if seg.AnchorLoad != nil {
		v.checkExercise(seg.AnchorLoad.Ex, "anchor_load.ex", ref)
	}
	if seg.AltGroup != "" {
		if _, ok := v.plan.Groups[seg.AltGroup]; !ok {
			v.add(domain.Issue{
				Kind:     domain.IssueUnknownAltGroup,
				Code:     "E104",
				Message:  fmt.Sprintf("alt_group %q names no group", seg.AltGroup),
				Location: ref.location(),
				Field:    "alt_group",
			})
		}
	}
}

func (v *validator) checkExercise(code, field string, ref segmentRef) {
	if code == "" {
		return
	}
	if _, ok := v.plan.Dictionary[code]; ok {
		return
	}
	v.add(domain.Issue{
		Kind:     domain.IssueUnknownExercise,
		Code:     "E102",
		Message:  fmt.Sprintf("unknown exercise %q", code),
		Location: ref.location(),
		Exercise: code,
		Field:    field,
	})
}

func (v *validator) invalid(ref segmentRef, code, field, reason string) {
	v.add(domain.Issue{
		Kind:     domain.IssueInvalidSegmentField,
		Code:     code,
		Message:  fmt.Sprintf("invalid %s: %s", field, reason),
		Location: ref.location(),
		Field:    field,
		Reason:   reason,
	})
}

func (v *validator) checkFields(seg domain.Segment, ref segmentRef) {
	kind := seg.Kind()
	if !knownSegmentType(kind) {
		v.invalid(ref, "E100", "type", fmt.Sprintf("unknown segment type %q", kind))
		return
	}
	if seg.NeedsExercise() && seg.Ex == "" {
		v.invalid(ref, "E101", "ex", "exercise code is required")
	}

	if seg.Sets != nil && *seg.Sets <= 0 {
		code := "E150"
		if kind == domain.SegmentComplex {
			code = "E176"
		}
		v.invalid(ref, code, "sets", fmt.Sprintf("must be positive, got %d", *seg.Sets))
	}
	if seg.Reps != nil && !(ref.inSequence && nonPositive(*seg.Reps)) {
		if reason := rangeProblem(*seg.Reps, 1, 0); reason != "" {
			v.invalid(ref, "E111", "reps", reason)
		}
		if seg.TimeSec != nil {
			v.invalid(ref, "E110", "time_sec", "reps and time_sec are mutually exclusive")
		}
	}
	if seg.TimeSec != nil {
		if reason := rangeProblem(*seg.TimeSec, 1, maxSegmentSec); reason != "" {
			v.invalid(ref, "E130", "time_sec", reason)
		}
	}
	if seg.RestSec != nil {
		if reason := rangeProblem(*seg.RestSec, 0, maxSegmentSec); reason != "" {
			v.invalid(ref, "E130", "rest_sec", reason)
		}
	}
	if seg.RPE != nil && (*seg.RPE <= 0 || *seg.RPE > maxRPE) {
		v.invalid(ref, "E122", "rpe", fmt.Sprintf("must be in (0, 10], got %g", *seg.RPE))
	}
	if seg.RIR != nil && *seg.RIR < 0 {
		v.invalid(ref, "E124", "rir", fmt.Sprintf("must not be negative, got %g", *seg.RIR))
	}
	if t := seg.Tempo; t != nil {
		for _, phase := range []int{t.Ecc, t.Bottom, t.Con, t.Top} {
			if phase < 0 || phase > maxTempoPhase {
				v.invalid(ref, "E140", "tempo", fmt.Sprintf("phases must be 0-%d seconds, got %d-%d-%d-%d", maxTempoPhase, t.Ecc, t.Bottom, t.Con, t.Top))
				break
			}
		}
	}
	if seg.Interval != nil {
		v.checkInterval(*seg.Interval, ref)
	}
	if seg.Rounds != nil && *seg.Rounds <= 0 {
		v.invalid(ref, "E150", "rounds", fmt.Sprintf("must be positive, got %d", *seg.Rounds))
	}

	switch kind {
	case domain.SegmentPercentage:
		v.checkPrescriptions(seg.Prescriptions, ref)
	case domain.SegmentAmrap:
		if seg.BaseReps != nil && seg.CapReps != nil && *seg.CapReps < *seg.BaseReps {
			v.invalid(ref, "E112", "cap_reps", fmt.Sprintf("cap_reps %d is below base_reps %d", *seg.CapReps, *seg.BaseReps))
		}
	case domain.SegmentComplex:
		v.checkComplex(seg, ref)
	case domain.SegmentSuperset, domain.SegmentCircuit, domain.SegmentGroupRotate,
		domain.SegmentGroupOptional, domain.SegmentGroupSuperset:
		if len(seg.Items) == 0 {
			v.invalid(ref, "E120", "items", "group segment has no items")
		}
	case domain.SegmentChoose:
		if len(seg.From) == 0 {
			v.invalid(ref, "E120", "from", "choose segment has no options")
		} else if seg.Pick != nil && (*seg.Pick <= 0 || *seg.Pick > len(seg.From)) {
			v.invalid(ref, "E125", "pick", fmt.Sprintf("must be between 1 and %d, got %d", len(seg.From), *seg.Pick))
		}
	}
}

func (v *validator) checkInterval(iv domain.Interval, ref segmentRef) {
	if iv.WorkSec <= 0 {
		v.invalid(ref, "E150", "interval.work_sec", "work interval must be positive")
	}
	if iv.Repeats <= 0 {
		v.invalid(ref, "E151", "interval.repeats", "repeats must be positive")
	}
	if iv.WorkSec > maxIntervalSec {
		v.invalid(ref, "E130", "interval.work_sec", fmt.Sprintf("exceeds %d seconds", maxIntervalSec))
	}
	if iv.RestSec < 0 || iv.RestSec > maxIntervalSec {
		v.invalid(ref, "E130", "interval.rest_sec", fmt.Sprintf("must be 0-%d seconds", maxIntervalSec))
	}
	if iv.Repeats > maxIntervalReps {
		v.invalid(ref, "E151", "interval.repeats", fmt.Sprintf("exceeds %d repeats", maxIntervalReps))
	}
}

func (v *validator) checkPrescriptions(rx []domain.Prescription, ref segmentRef) {
	if len(rx) == 0 {
		v.invalid(ref, "E123", "prescriptions", "percentage segment needs at least one prescription")
		return
	}
	for i, p := range rx {
		field := fmt.Sprintf("prescriptions.%d", i)
		if p.Sets <= 0 {
			v.invalid(ref, "E150", field+".sets", fmt.Sprintf("must be positive, got %d", p.Sets))
		}
		if p.Reps <= 0 {
			v.invalid(ref, "E111", field+".reps", fmt.Sprintf("must be positive, got %d", p.Reps))
		}
		if p.Pct1RM <= 0 || p.Pct1RM > maxPct1RM {
			v.invalid(ref, "E123", field+".pct_1rm", fmt.Sprintf("must be in (0, %g], got %g", maxPct1RM, p.Pct1RM))
		}
	}
}

func (v *validator) checkComplex(seg domain.Segment, ref segmentRef) {
	a := seg.AnchorLoad
	switch {
	case a == nil:
		v.invalid(ref, "E173", "anchor_load", "complex needs an anchor_load")
	case a.Mode == domain.AnchorPct1RM:
		if a.Ex == "" {
			v.invalid(ref, "E170", "anchor_load.ex", "pct_1rm mode requires an exercise reference")
		}
		if a.Pct == nil {
			v.invalid(ref, "E171", "anchor_load.pct", "pct_1rm mode requires a percentage value")
		}
	case a.Mode == domain.AnchorFixedKg:
		if a.Kg == nil {
			v.invalid(ref, "E172", "anchor_load.kg", "fixed_kg mode requires a load value")
		}
	default:
		v.invalid(ref, "E173", "anchor_load.mode", fmt.Sprintf("mode must be pct_1rm or fixed_kg, got %q", a.Mode))
	}
	if len(seg.Sequence) == 0 {
		v.invalid(ref, "E174", "sequence", "complex must contain at least one sequence item")
	}
	for i, item := range seg.Sequence {
		if item.Reps == nil || nonPositive(*item.Reps) {
			v.invalid(ref, "E175", fmt.Sprintf("sequence.%d.reps", i), "reps must be greater than 0")
		}
	}
	if seg.Sets == nil {
		v.invalid(ref, "E176", "sets", "complex needs a set count")
	}
}

func nonPositive(r domain.Range) bool {
	return r.Min <= 0 || r.Max <= 0
}

// rangeProblem describes what is wrong with r, or returns "". hi <= 0 means
// unbounded.
func rangeProblem(r domain.Range, lo, hi int) string {
	switch {
	case r.Min < lo:
		return fmt.Sprintf("minimum %d is below %d", r.Min, lo)
	case r.Min > r.Max:
		return fmt.Sprintf("minimum %d exceeds maximum %d", r.Min, r.Max)
	case hi > 0 && r.Max > hi:
		return fmt.Sprintf("maximum %d exceeds %d", r.Max, hi)
	case r.Target != nil && (*r.Target < r.Min || *r.Target > r.Max):
		return fmt.Sprintf("target %d is outside %d-%d", *r.Target, r.Min, r.Max)
	}
	return ""
}

func knownSegmentType(t domain.SegmentType) bool {
	switch t {
	case domain.SegmentStraight, domain.SegmentRPE, domain.SegmentPercentage, domain.SegmentAmrap,
		domain.SegmentSuperset, domain.SegmentCircuit, domain.SegmentScheme, domain.SegmentComplex,
		domain.SegmentComment, domain.SegmentChoose, domain.SegmentGroupRotate,
		domain.SegmentGroupOptional, domain.SegmentGroupSuperset, domain.SegmentTime:
		return true
	}
	return false
}

func sortedGroupNames(groups map[string][]string) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func groupPath(name string) string {
	return "/groups/" + pointerEscaper.Replace(name)
}
