// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Failure kinds. Match with errors.Is.
var (
	ErrMalformedInput  = errors.New("malformed input")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrIOFailure       = errors.New("io failure")
)

// OpError is a failed plan operation. Day and Segment are set when the
// failure is tied to a position.
type OpError struct {
	Kind    error
	Op      string
	Msg     string
	Day     *int
	Segment *int
}

func (e *OpError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e *OpError) Unwrap() error { return e.Kind }

// KindName returns the wire name of a failure kind, "internal" for anything
// outside the taxonomy.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, ErrIndexOutOfRange):
		return "index_out_of_range"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrIOFailure):
		return "io_failure"
	default:
		return "internal"
	}
}

// DayIndexError reports a day index outside [0, days).
func DayIndexError(op string, day, days int) *OpError {
	return &OpError{
		Kind: ErrIndexOutOfRange,
		Op:   op,
		Msg:  fmt.Sprintf("day index %d out of range (plan has %d days)", day, days),
		Day:  &day,
	}
}

// SegmentIndexError reports a segment index outside [0, segments) of a day.
func SegmentIndexError(op string, day, segment, segments int) *OpError {
	return &OpError{
		Kind:    ErrIndexOutOfRange,
		Op:      op,
		Msg:     fmt.Sprintf("segment index %d out of range (day %d has %d segments)", segment, day, segments),
		Day:     &day,
		Segment: &segment,
	}
}

// Malformed wraps a decode error as a malformed-input failure.
func Malformed(op, what string, err error) *OpError {
	return &OpError{Kind: ErrMalformedInput, Op: op, Msg: fmt.Sprintf("%s: %v", what, err)}
}

// InvalidArgument builds an invalid-argument failure.
func InvalidArgument(op, msg string) *OpError {
	return &OpError{Kind: ErrInvalidArgument, Op: op, Msg: msg}
}

// IOFailure wraps a storage error.
func IOFailure(op string, err error) *OpError {
	return &OpError{Kind: ErrIOFailure, Op: op, Msg: err.Error()}
}
