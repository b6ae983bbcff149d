package codec_test

import (
	"strings"
	"testing"

	"alcyxob/liftplan/internal/codec"
	"alcyxob/liftplan/internal/domain"
)

func samplePlan() domain.Plan {
	sets := 3
	p := domain.NewPlan()
	p.Dictionary["sq1"] = "Squat"
	p.Groups["legs"] = []string{"sq1"}
	p.Days = []domain.Day{{Label: "A", Segments: []domain.Segment{{Ex: "sq1", Sets: &sets, Reps: &domain.Range{Min: 3, Max: 5}}}}}
	return p
}

func TestFormatFor(t *testing.T) {
	tests := map[string]codec.Format{
		"plan.json":               codec.FormatJSON,
		"plan":                    codec.FormatJSON,
		"plan.YAML":               codec.FormatYAML,
		"s3://bucket/plans/a.yml": codec.FormatYAML,
	}
	for path, want := range tests {
		if got := codec.FormatFor(path); got != want {
			t.Fatalf("FormatFor(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestRoundTripBothFormats(t *testing.T) {
	p := samplePlan()
	for _, f := range []codec.Format{codec.FormatJSON, codec.FormatYAML} {
		data, err := codec.Encode(p, f)
		if err != nil {
			t.Fatalf("%v encode: %v", f, err)
		}
		got, err := codec.Decode(data, f)
		if err != nil {
			t.Fatalf("%v decode: %v\n%s", f, err, data)
		}
		if !domain.Equal(got, p) {
			t.Fatalf("%v round trip changed the plan:\n%s", f, data)
		}
	}
}

func TestYAMLIsBlockStyle(t *testing.T) {
	data, err := codec.Encode(samplePlan(), codec.FormatYAML)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "name: New Plan") || !strings.Contains(text, "sq1: Squat") {
		t.Fatalf("unexpected yaml:\n%s", text)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := codec.Decode([]byte("{not json"), codec.FormatJSON); err == nil {
		t.Fatalf("expected error for malformed json")
	}
	if _, err := codec.Decode([]byte(""), codec.FormatYAML); err == nil {
		t.Fatalf("expected error for empty yaml")
	}
}
