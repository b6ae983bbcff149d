// internal/engine/days.go
package engine

import (
	"alcyxob/liftplan/internal/domain"
)

// AddDay appends a day to the end of the plan.
func AddDay(plan domain.Plan, day domain.Day) domain.Plan {
	out := plan.Clone()
	out.Days = append(out.Days, day.Clone())
	return out
}

// RemoveDay deletes the day at index. Later days shift down by one.
func RemoveDay(plan domain.Plan, index int) (domain.Plan, error) {
	if err := checkDay("remove_day", plan, index); err != nil {
		return domain.Plan{}, err
	}
	out := plan.Clone()
	out.Days = append(out.Days[:index:index], out.Days[index+1:]...)
	return out, nil
}

// MoveDay moves the day at from so that it ends up at index to. The relative
// order of the other days is kept.
func MoveDay(plan domain.Plan, from, to int) (domain.Plan, error) {
	if err := checkDay("move_day", plan, from); err != nil {
		return domain.Plan{}, err
	}
	if err := checkDay("move_day", plan, to); err != nil {
		return domain.Plan{}, err
	}
	out := plan.Clone()
	if from == to {
		return out, nil
	}
	moved := out.Days[from]
	rest := append(out.Days[:from:from], out.Days[from+1:]...)
	days := make([]domain.Day, 0, len(out.Days))
	days = append(days, rest[:to]...)
	days = append(days, moved)
	days = append(days, rest[to:]...)
	out.Days = days
	return out, nil
}
