// internal/domain/segment.go
package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// SegmentType tags the prescription style of a segment.
type SegmentType string

const (
	SegmentStraight      SegmentType = "straight"
	SegmentRPE           SegmentType = "rpe"
	SegmentPercentage    SegmentType = "percentage"
	SegmentAmrap         SegmentType = "amrap"
	SegmentSuperset      SegmentType = "superset"
	SegmentCircuit       SegmentType = "circuit"
	SegmentScheme        SegmentType = "scheme"
	SegmentComplex       SegmentType = "complex"
	SegmentComment       SegmentType = "comment"
	SegmentChoose        SegmentType = "choose"
	SegmentGroupRotate   SegmentType = "group.rotate"
	SegmentGroupOptional SegmentType = "group.optional"
	SegmentGroupSuperset SegmentType = "group.superset"
	SegmentTime          SegmentType = "time"
)

// Segment is one unit of prescribed work within a Day. A single struct covers
// every segment type; fields a type does not use stay empty and are omitted
// on the wire.
type Segment struct {
	Type     SegmentType `json:"type,omitempty"` // Empty means straight
	Ex       string      `json:"ex,omitempty"`   // Exercise code, key into Plan.Dictionary
	AltGroup string      `json:"alt_group,omitempty"`
	Label    string      `json:"label,omitempty"`
	Optional *bool       `json:"optional,omitempty"`

	// --- Prescription ---
	Sets     *int      `json:"sets,omitempty"`
	Reps     *Range    `json:"reps,omitempty"`
	TimeSec  *Range    `json:"time_sec,omitempty"`
	RestSec  *Range    `json:"rest_sec,omitempty"`
	RPE      *float64  `json:"rpe,omitempty"`
	RIR      *float64  `json:"rir,omitempty"`
	Tempo    *Tempo    `json:"tempo,omitempty"`
	Interval *Interval `json:"interval,omitempty"`

	Rounds        *int           `json:"rounds,omitempty"`    // superset, circuit
	Pick          *int           `json:"pick,omitempty"`      // choose
	BaseReps      *int           `json:"base_reps,omitempty"` // amrap
	CapReps       *int           `json:"cap_reps,omitempty"`  // amrap
	Prescriptions []Prescription `json:"prescriptions,omitempty"`
	AnchorLoad    *AnchorLoad    `json:"anchor_load,omitempty"` // complex

	// --- Comment ---
	Text string `json:"text,omitempty"`
	Icon string `json:"icon,omitempty"`

	// --- Nested segments ---
	Items    []Segment `json:"items,omitempty"`    // superset, circuit, group.*
	From     []Segment `json:"from,omitempty"`     // choose
	Sequence []Segment `json:"sequence,omitempty"` // complex

	Extra map[string]json.RawMessage `json:"-"`
}

// Range is a count or duration given either as a fixed number or as a
// {min,max,target} span.
type Range struct {
	Min    int  `json:"min"`
	Max    int  `json:"max"`
	Target *int `json:"target,omitempty"`
}

// Fixed returns a single-value range.
func Fixed(n int) *Range {
	return &Range{Min: n, Max: n}
}

// IsFixed reports whether the range collapses to one number.
func (r Range) IsFixed() bool {
	return r.Min == r.Max && r.Target == nil
}

func (r Range) MarshalJSON() ([]byte, error) {
	if r.IsFixed() {
		return []byte(strconv.Itoa(r.Min)), nil
	}
	type span Range
	return json.Marshal(span(r))
}

func (r *Range) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var n int
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		*r = Range{Min: n, Max: n}
		return nil
	}
	type span Range
	var out span
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return err
	}
	*r = Range(out)
	return nil
}

// Tempo is a four-phase lifting tempo in seconds.
type Tempo struct {
	Ecc    int    `json:"ecc"`
	Bottom int    `json:"bottom"`
	Con    int    `json:"con"`
	Top    int    `json:"top"`
	Units  string `json:"units,omitempty"`
}

// Interval describes work/rest cycles for time segments.
type Interval struct {
	WorkSec     int  `json:"work_sec"`
	RestSec     int  `json:"rest_sec"`
	Repeats     int  `json:"repeats"`
	WarmupSec   *int `json:"warmup_sec,omitempty"`
	CooldownSec *int `json:"cooldown_sec,omitempty"`
}

// Prescription is one line of a percentage segment.
type Prescription struct {
	Sets   int     `json:"sets"`
	Reps   int     `json:"reps"`
	Pct1RM float64 `json:"pct_1rm"` // Fraction of one-rep max, 0.75 = 75%
}

// AnchorLoad sets the load of a complex, either from a percentage of an
// exercise's 1RM or as a fixed load.
type AnchorLoad struct {
	Mode string   `json:"mode"` // "pct_1rm" | "fixed_kg"
	Ex   string   `json:"ex,omitempty"`
	Pct  *float64 `json:"pct,omitempty"`
	Kg   *float64 `json:"kg,omitempty"`
}

const (
	AnchorPct1RM  = "pct_1rm"
	AnchorFixedKg = "fixed_kg"
)

// Kind returns the segment type, defaulting to straight.
func (s Segment) Kind() SegmentType {
	if s.Type == "" {
		return SegmentStraight
	}
	return s.Type
}

// NeedsExercise reports whether the segment type must name an exercise.
func (s Segment) NeedsExercise() bool {
	switch s.Kind() {
	case SegmentStraight, SegmentRPE, SegmentPercentage, SegmentAmrap, SegmentScheme, SegmentTime:
		return true
	}
	return false
}

// Children returns the nested segment lists keyed by their JSON field name,
// in a fixed order.
func (s Segment) Children() []NestedSegments {
	var out []NestedSegments
	if len(s.Items) > 0 {
		out = append(out, NestedSegments{Field: "items", Segments: s.Items})
	}
	if len(s.From) > 0 {
		out = append(out, NestedSegments{Field: "from", Segments: s.From})
	}
	if len(s.Sequence) > 0 {
		out = append(out, NestedSegments{Field: "sequence", Segments: s.Sequence})
	}
	return out
}

// NestedSegments is one named child list of a segment.
type NestedSegments struct {
	Field    string
	Segments []Segment
}

var segmentKeys = jsonFieldNames[Segment]()

func (s Segment) MarshalJSON() ([]byte, error) {
	type segment Segment
	known, err := json.Marshal(segment(s))
	if err != nil {
		return nil, err
	}
	return mergeExtra(known, s.Extra)
}

// UnmarshalJSON keeps unmodelled keys in Extra. An array-valued "sets" (the
// scheme layout) is kept there too.
func (s *Segment) UnmarshalJSON(data []byte) error {
	raw, err := rawObject(data)
	if err != nil {
		return err
	}
	known, extra, err := splitKnown(raw, segmentKeys, func(key string, value json.RawMessage) bool {
		if key != "sets" {
			return false
		}
		v := bytes.TrimSpace(value)
		return len(v) > 0 && (v[0] == '[' || v[0] == '{')
	})
	if err != nil {
		return err
	}
	type segment Segment
	var out segment
	if err := json.Unmarshal(known, &out); err != nil {
		return err
	}
	out.Extra = extra
	*s = Segment(out)
	return nil
}

// Clone returns a deep copy of the segment.
func (s Segment) Clone() Segment {
	out := s
	out.Optional = cloneBool(s.Optional)
	out.Sets = cloneInt(s.Sets)
	out.Reps = cloneRange(s.Reps)
	out.TimeSec = cloneRange(s.TimeSec)
	out.RestSec = cloneRange(s.RestSec)
	out.RPE = cloneFloat(s.RPE)
	out.RIR = cloneFloat(s.RIR)
	if s.Tempo != nil {
		t := *s.Tempo
		out.Tempo = &t
	}
	if s.Interval != nil {
		iv := *s.Interval
		iv.WarmupSec = cloneInt(s.Interval.WarmupSec)
		iv.CooldownSec = cloneInt(s.Interval.CooldownSec)
		out.Interval = &iv
	}
	out.Rounds = cloneInt(s.Rounds)
	out.Pick = cloneInt(s.Pick)
	out.BaseReps = cloneInt(s.BaseReps)
	out.CapReps = cloneInt(s.CapReps)
	if s.Prescriptions != nil {
		out.Prescriptions = append([]Prescription{}, s.Prescriptions...)
	}
	if s.AnchorLoad != nil {
		a := *s.AnchorLoad
		a.Pct = cloneFloat(s.AnchorLoad.Pct)
		a.Kg = cloneFloat(s.AnchorLoad.Kg)
		out.AnchorLoad = &a
	}
	out.Items = cloneSegments(s.Items)
	out.From = cloneSegments(s.From)
	out.Sequence = cloneSegments(s.Sequence)
	out.Extra = cloneRaw(s.Extra)
	return out
}

func cloneSegments(in []Segment) []Segment {
	if in == nil {
		return nil
	}
	out := make([]Segment, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

func cloneRange(r *Range) *Range {
	if r == nil {
		return nil
	}
	out := *r
	out.Target = cloneInt(r.Target)
	return &out
}
