// internal/engine/segments.go
package engine

import (
	"alcyxob/liftplan/internal/domain"
)

// AddSegment appends seg to the segment list of the given day.
func AddSegment(plan domain.Plan, day int, seg domain.Segment) (domain.Plan, error) {
	if err := checkDay("add_segment", plan, day); err != nil {
		return domain.Plan{}, err
	}
	out := plan.Clone()
	out.Days[day].Segments = append(out.Days[day].Segments, seg.Clone())
	return out, nil
}

// RemoveSegment deletes the segment at index within the given day.
func RemoveSegment(plan domain.Plan, day, index int) (domain.Plan, error) {
	if err := checkSegment("remove_segment", plan, day, index); err != nil {
		return domain.Plan{}, err
	}
	out := plan.Clone()
	segs := out.Days[day].Segments
	out.Days[day].Segments = append(segs[:index:index], segs[index+1:]...)
	return out, nil
}

// UpdateSegment replaces the segment at index within the given day.
func UpdateSegment(plan domain.Plan, day, index int, seg domain.Segment) (domain.Plan, error) {
	if err := checkSegment("update_segment", plan, day, index); err != nil {
		return domain.Plan{}, err
	}
	out := plan.Clone()
	out.Days[day].Segments[index] = seg.Clone()
	return out, nil
}

func checkDay(op string, plan domain.Plan, day int) error {
	if day < 0 || day >= len(plan.Days) {
		return domain.DayIndexError(op, day, len(plan.Days))
	}
	return nil
}

func checkSegment(op string, plan domain.Plan, day, index int) error {
	if err := checkDay(op, plan, day); err != nil {
		return err
	}
	if n := len(plan.Days[day].Segments); index < 0 || index >= n {
		return domain.SegmentIndexError(op, day, index, n)
	}
	return nil
}
