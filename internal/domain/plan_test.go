package domain_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"alcyxob/liftplan/internal/domain"
)

func roundTrip(t *testing.T, p domain.Plan) domain.Plan {
	t.Helper()
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out domain.Plan
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	return out
}

func TestEmptyPlanRoundTrip(t *testing.T) {
	p := domain.NewPlan()
	if got := roundTrip(t, p); !domain.Equal(got, p) {
		t.Fatalf("empty plan did not survive a round trip")
	}
	data, _ := json.Marshal(domain.Plan{})
	for _, want := range []string{`"days":[]`, `"groups":{}`, `"dictionary":{}`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("zero plan %s missing %s", data, want)
		}
	}
}

const fullDoc = `{
  "name": "Strength A",
  "unit": "lb",
  "phase": {"index": 2, "weeks": [1, 2]},
  "dictionary": {"sq1": "Squat", "bp": "Bench Press"},
  "groups": {"push": ["bp"]},
  "schedule": [
    {
      "day": 1,
      "label": "Heavy",
      "equipment_policy": {"allow": ["barbell"]},
      "segments": [
        {"type": "straight", "ex": "sq1", "sets": 5, "reps": {"min": 3, "max": 5}, "rest_sec": 180, "notes": "belt"},
        {"type": "scheme", "ex": "bp", "sets": [{"reps": 5}, {"reps": 3}]},
        {"type": "superset", "rounds": 3, "items": [{"ex": "bp", "reps": 8}]}
      ]
    }
  ]
}`

func TestLegacyDocumentRoundTrip(t *testing.T) {
	var p domain.Plan
	if err := json.Unmarshal([]byte(fullDoc), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.Days) != 1 || len(p.Days[0].Segments) != 3 {
		t.Fatalf("schedule not read as days: %+v", p.Days)
	}
	if _, ok := p.Extra["phase"]; !ok {
		t.Fatalf("unknown plan key dropped: %v", p.Extra)
	}
	if _, ok := p.Days[0].Extra["equipment_policy"]; !ok {
		t.Fatalf("unknown day key dropped: %v", p.Days[0].Extra)
	}
	straight := p.Days[0].Segments[0]
	if straight.Reps == nil || straight.Reps.Min != 3 || straight.Reps.Max != 5 {
		t.Fatalf("reps range not decoded: %+v", straight.Reps)
	}
	if straight.RestSec == nil || !straight.RestSec.IsFixed() || straight.RestSec.Min != 180 {
		t.Fatalf("rest_sec not decoded: %+v", straight.RestSec)
	}
	if string(straight.Extra["notes"]) != `"belt"` {
		t.Fatalf("segment extra not kept: %v", straight.Extra)
	}
	scheme := p.Days[0].Segments[1]
	if scheme.Sets != nil {
		t.Fatalf("array sets should not decode into Sets")
	}
	if string(scheme.Extra["sets"]) != `[{"reps":5},{"reps":3}]` {
		t.Fatalf("scheme sets not preserved: %s", scheme.Extra["sets"])
	}

	again := roundTrip(t, p)
	if !domain.Equal(again, p) {
		t.Fatalf("document changed across a round trip")
	}
	data, _ := json.Marshal(again)
	if strings.Contains(string(data), `"schedule"`) || !strings.Contains(string(data), `"days"`) {
		t.Fatalf("expected days key on write: %s", data)
	}
	if !strings.Contains(string(data), `"rest_sec":180`) {
		t.Fatalf("fixed range should encode as a number: %s", data)
	}
}

func TestCloneIsDeep(t *testing.T) {
	var p domain.Plan
	if err := json.Unmarshal([]byte(fullDoc), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	c := p.Clone()
	c.Dictionary["sq1"] = "changed"
	c.Groups["push"][0] = "changed"
	c.Days[0].Segments[2].Items[0].Ex = "changed"
	c.Days[0].Segments[0].Reps.Min = 1
	c.Extra["phase"][0] = 'x'
	if p.Dictionary["sq1"] != "Squat" || p.Groups["push"][0] != "bp" {
		t.Fatalf("clone shares tables")
	}
	if p.Days[0].Segments[2].Items[0].Ex != "bp" || p.Days[0].Segments[0].Reps.Min != 3 {
		t.Fatalf("clone shares segments")
	}
	if p.Extra["phase"][0] != '{' {
		t.Fatalf("clone shares extra")
	}
}

func TestRangeDecoding(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Range
		wantErr bool
	}{
		{`5`, domain.Range{Min: 5, Max: 5}, false},
		{`{"min":6,"max":8}`, domain.Range{Min: 6, Max: 8}, false},
		{`"five"`, domain.Range{}, true},
		{`5.5`, domain.Range{}, true},
	}
	for _, tc := range tests {
		var r domain.Range
		err := json.Unmarshal([]byte(tc.in), &r)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: err = %v", tc.in, err)
		}
		if err == nil && (r.Min != tc.want.Min || r.Max != tc.want.Max) {
			t.Fatalf("%s: got %+v", tc.in, r)
		}
	}
}

func TestOpErrorKinds(t *testing.T) {
	err := domain.DayIndexError("remove_day", 3, 2)
	if !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Fatalf("expected index out of range")
	}
	if got := domain.KindName(err); got != "index_out_of_range" {
		t.Fatalf("kind name %q", got)
	}
	if got := domain.KindName(errors.New("boom")); got != "internal" {
		t.Fatalf("kind name %q", got)
	}
	if !strings.Contains(err.Error(), "remove_day") {
		t.Fatalf("op missing from %q", err.Error())
	}
}
