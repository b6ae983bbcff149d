// internal/domain/plan.go
package domain

import (
	"encoding/json"
)

// Unit is the load unit a plan is written in.
type Unit string

const (
	UnitKg Unit = "kg"
	UnitLb Unit = "lb"
	UnitBw Unit = "bw" // Bodyweight-only programs
)

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	switch u {
	case UnitKg, UnitLb, UnitBw:
		return true
	}
	return false
}

// Plan is the root workout document: ordered training days plus the group
// and dictionary lookup tables they refer to.
type Plan struct {
	Name        string              `json:"name"`
	Author      string              `json:"author,omitempty"`
	SourceURL   string              `json:"source_url,omitempty"`
	LicenseNote string              `json:"license_note,omitempty"`
	Unit        Unit                `json:"unit,omitempty"`
	Dictionary  map[string]string   `json:"dictionary"` // exercise code -> display name
	Groups      map[string][]string `json:"groups"`     // group name -> ordered exercise codes
	Days        []Day               `json:"days"`       // Order is the weekly/cyclical sequence

	// Extra holds top-level keys this version does not model. They are written
	// back unchanged so newer documents survive a round trip.
	Extra map[string]json.RawMessage `json:"-"`
}

// Day is one training day. It has no identity beyond its position in Plan.Days.
type Day struct {
	Day        int       `json:"day,omitempty"` // Optional 1-based ordinal shown to users
	Label      string    `json:"label,omitempty"`
	Goal       string    `json:"goal,omitempty"`
	TimeCapMin *int      `json:"time_cap_min,omitempty"`
	Segments   []Segment `json:"segments"` // Execution order within the day

	Extra map[string]json.RawMessage `json:"-"`
}

// NewPlan returns an empty plan. Zero days is valid: a plan under construction.
func NewPlan() Plan {
	return Plan{
		Name:       "New Plan",
		Unit:       UnitKg,
		Dictionary: map[string]string{},
		Groups:     map[string][]string{},
		Days:       []Day{},
	}
}

// NewDay returns a day with an empty segment list.
func NewDay(label string) Day {
	return Day{Label: label, Segments: []Segment{}}
}

// Clone returns a deep copy of the plan.
func (p Plan) Clone() Plan {
	out := p
	out.Dictionary = make(map[string]string, len(p.Dictionary))
	for code, name := range p.Dictionary {
		out.Dictionary[code] = name
	}
	out.Groups = CloneGroups(p.Groups)
	out.Days = make([]Day, len(p.Days))
	for i, d := range p.Days {
		out.Days[i] = d.Clone()
	}
	out.Extra = cloneRaw(p.Extra)
	return out
}

// Clone returns a deep copy of the day.
func (d Day) Clone() Day {
	out := d
	out.TimeCapMin = cloneInt(d.TimeCapMin)
	out.Segments = cloneSegments(d.Segments)
	if out.Segments == nil {
		out.Segments = []Segment{}
	}
	out.Extra = cloneRaw(d.Extra)
	return out
}

// CloneGroups copies the group table, including each member list.
func CloneGroups(groups map[string][]string) map[string][]string {
	out := make(map[string][]string, len(groups))
	for name, members := range groups {
		out[name] = append([]string{}, members...)
	}
	return out
}

var (
	planKeys = jsonFieldNames[Plan]()
	dayKeys  = jsonFieldNames[Day]()
)

// MarshalJSON writes nil collections as [] and {} and merges preserved keys.
func (p Plan) MarshalJSON() ([]byte, error) {
	type plan Plan
	out := plan(p)
	if out.Dictionary == nil {
		out.Dictionary = map[string]string{}
	}
	if out.Groups == nil {
		out.Groups = map[string][]string{}
	}
	for name, members := range out.Groups {
		if members == nil {
			out.Groups = CloneGroups(out.Groups)
			out.Groups[name] = []string{}
		}
	}
	if out.Days == nil {
		out.Days = []Day{}
	}
	known, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return mergeExtra(known, p.Extra)
}

// UnmarshalJSON accepts the legacy "schedule" key in place of "days" and keeps
// unknown keys in Extra.
func (p *Plan) UnmarshalJSON(data []byte) error {
	raw, err := rawObject(data)
	if err != nil {
		return err
	}
	if _, ok := raw["days"]; !ok {
		if schedule, ok := raw["schedule"]; ok {
			raw["days"] = schedule
			delete(raw, "schedule")
		}
	}
	known, extra, err := splitKnown(raw, planKeys, nil)
	if err != nil {
		return err
	}
	type plan Plan
	var out plan
	if err := json.Unmarshal(known, &out); err != nil {
		return err
	}
	if out.Dictionary == nil {
		out.Dictionary = map[string]string{}
	}
	if out.Groups == nil {
		out.Groups = map[string][]string{}
	}
	if out.Days == nil {
		out.Days = []Day{}
	}
	out.Extra = extra
	*p = Plan(out)
	return nil
}

// MarshalJSON always writes a segments array.
func (d Day) MarshalJSON() ([]byte, error) {
	type day Day
	out := day(d)
	if out.Segments == nil {
		out.Segments = []Segment{}
	}
	known, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return mergeExtra(known, d.Extra)
}

func (d *Day) UnmarshalJSON(data []byte) error {
	raw, err := rawObject(data)
	if err != nil {
		return err
	}
	known, extra, err := splitKnown(raw, dayKeys, nil)
	if err != nil {
		return err
	}
	type day Day
	var out day
	if err := json.Unmarshal(known, &out); err != nil {
		return err
	}
	if out.Segments == nil {
		out.Segments = []Segment{}
	}
	out.Extra = extra
	*d = Day(out)
	return nil
}

// Equal reports structural equality: both plans encode to the same canonical
// JSON document.
func Equal(a, b Plan) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ab) == string(bb)
}
