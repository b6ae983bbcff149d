package engine_test

import (
	"testing"

	"alcyxob/liftplan/internal/domain"
	"alcyxob/liftplan/internal/engine"
)

func TestDiffPlansIdentical(t *testing.T) {
	p := planWith(squat())
	diff, err := engine.DiffPlans(p, p.Clone())
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if diff.Changes == nil || len(diff.Changes) != 0 {
		t.Fatalf("expected an empty change list, got %+v", diff.Changes)
	}
	if diff.Metrics != (engine.DiffMetrics{}) {
		t.Fatalf("expected zero metrics, got %+v", diff.Metrics)
	}
}

func TestDiffPlans(t *testing.T) {
	from := planWith(squat())

	heavier := squat()
	heavier.Sets = intp(5)
	to, err := engine.UpdateSegment(from, 0, 0, heavier)
	if err != nil {
		t.Fatal(err)
	}
	if to, err = engine.AddSegment(to, 0, domain.Segment{Ex: "dl", Sets: intp(1), Reps: domain.Fixed(5)}); err != nil {
		t.Fatal(err)
	}
	if to, err = engine.AddDictionaryEntry(to, "dl", "Deadlift"); err != nil {
		t.Fatal(err)
	}
	to = engine.RemoveDictionaryEntry(to, "bp")
	to.Name = "Week 2"

	diff, err := engine.DiffPlans(from, to)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}

	want := []struct {
		typ  engine.ChangeType
		path string
	}{
		{engine.ChangeModified, "/days/0/segments/0/sets"},
		{engine.ChangeAdded, "/days/0/segments/1"},
		{engine.ChangeRemoved, "/dictionary/bp"},
		{engine.ChangeAdded, "/dictionary/dl"},
		{engine.ChangeModified, "/name"},
	}
	if len(diff.Changes) != len(want) {
		t.Fatalf("got %d changes, want %d: %+v", len(diff.Changes), len(want), diff.Changes)
	}
	for i, w := range want {
		c := diff.Changes[i]
		if c.Type != w.typ || c.Path != w.path {
			t.Errorf("change %d: got %s %s, want %s %s", i, c.Type, c.Path, w.typ, w.path)
		}
	}

	sets := diff.Changes[0]
	if string(sets.OldValue) != "3" || string(sets.NewValue) != "5" {
		t.Errorf("sets values: %s -> %s", sets.OldValue, sets.NewValue)
	}
	if removed := diff.Changes[2]; string(removed.OldValue) != `"Bench Press"` || removed.NewValue != nil {
		t.Errorf("removed entry values: %s -> %s", removed.OldValue, removed.NewValue)
	}
	if added := diff.Changes[3]; added.OldValue != nil || string(added.NewValue) != `"Deadlift"` {
		t.Errorf("added entry values: %s -> %s", added.OldValue, added.NewValue)
	}

	wantMetrics := engine.DiffMetrics{
		TotalChanges:     5,
		Additions:        2,
		Modifications:    2,
		Deletions:        1,
		SegmentsAdded:    1,
		SegmentsModified: 1,
		ExercisesAdded:   1,
		ExercisesRemoved: 1,
	}
	if diff.Metrics != wantMetrics {
		t.Fatalf("metrics: got %+v want %+v", diff.Metrics, wantMetrics)
	}
}

func TestDiffPlansDayRemovedAndEscapedKeys(t *testing.T) {
	from := planWith(squat(), squat())
	from.Groups["a/b"] = []string{"sq1"}
	to, err := engine.RemoveDay(from, 0)
	if err != nil {
		t.Fatal(err)
	}
	to = engine.RemoveGroup(to, "a/b")

	diff, err := engine.DiffPlans(from, to)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	got := make([]string, len(diff.Changes))
	for i, c := range diff.Changes {
		got[i] = string(c.Type) + " " + c.Path
	}
	want := []string{"removed /days/0", "removed /groups/a~1b"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if diff.Metrics.SegmentsRemoved != 2 {
		t.Fatalf("segments removed: %d", diff.Metrics.SegmentsRemoved)
	}
}
