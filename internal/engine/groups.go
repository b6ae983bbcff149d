// internal/engine/groups.go
package engine

import (
	"alcyxob/liftplan/internal/domain"
)

// GetGroups returns a copy of the group table. Changing it does not affect
// the plan.
func GetGroups(plan domain.Plan) map[string][]string {
	return domain.CloneGroups(plan.Groups)
}

// SetGroup inserts or replaces the named group. Calling it twice with the same
// arguments gives the same plan.
func SetGroup(plan domain.Plan, name string, codes []string) (domain.Plan, error) {
	if name == "" {
		return domain.Plan{}, domain.InvalidArgument("set_group", "group name must not be empty")
	}
	out := plan.Clone()
	out.Groups[name] = append([]string{}, codes...)
	return out, nil
}

// RemoveGroup deletes the named group. A missing group is not an error.
func RemoveGroup(plan domain.Plan, name string) domain.Plan {
	out := plan.Clone()
	delete(out.Groups, name)
	return out
}
