// internal/domain/issue.go
package domain

// IssueKind classifies a validation issue.
type IssueKind string

const (
	IssueUnknownExercise      IssueKind = "unknown_exercise"
	IssueUnknownAltGroup      IssueKind = "unknown_alt_group"
	IssueDuplicateGroupMember IssueKind = "duplicate_group_member"
	IssueInvalidSegmentField  IssueKind = "invalid_segment_field"
	IssueInvalidPlanField     IssueKind = "invalid_plan_field"
	IssueEmptyGroup           IssueKind = "empty_group"
)

// Location pinpoints an issue inside a plan. Path is a JSON pointer into the
// serialized document; Day/Segment are set for segment issues, Group for
// group issues.
type Location struct {
	Path    string `json:"path"`
	Day     *int   `json:"day,omitempty"`
	Segment *int   `json:"segment,omitempty"`
	Group   string `json:"group,omitempty"`
}

// Issue is an advisory validation finding. It is data, not an error.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Code     string    `json:"code"` // Stable E1xx code
	Message  string    `json:"message"`
	Location Location  `json:"location"`
	Exercise string    `json:"exercise,omitempty"` // Offending exercise code, if any
	Field    string    `json:"field,omitempty"`
	Reason   string    `json:"reason,omitempty"`
}
