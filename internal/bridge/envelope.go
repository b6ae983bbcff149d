package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"alcyxob/liftplan/internal/domain"
)

// Envelope is the uniform result of every boundary call. Exactly one of Data
// and Error is set, matching Success. Build envelopes with ok and fail only.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *Failure        `json:"error"`
}

// Failure describes a failed call. Kind is one of malformed_input,
// index_out_of_range, invalid_argument, io_failure or internal.
type Failure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Day     *int   `json:"day,omitempty"`
	Segment *int   `json:"segment,omitempty"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Kind wire names.
const (
	KindMalformedInput  = "malformed_input"
	KindIndexOutOfRange = "index_out_of_range"
	KindInvalidArgument = "invalid_argument"
	KindIOFailure       = "io_failure"
	KindInternal        = "internal"
)

func ok(v any) Envelope {
	data, err := json.Marshal(v)
	if err != nil {
		return fail(fmt.Errorf("encode result: %w", err))
	}
	return Envelope{Success: true, Data: data}
}

func fail(err error) Envelope {
	f := &Failure{Kind: domain.KindName(err), Message: err.Error()}
	var opErr *domain.OpError
	if errors.As(err, &opErr) {
		f.Day = opErr.Day
		f.Segment = opErr.Segment
	}
	return Envelope{Success: false, Error: f}
}

// Valid reports whether the envelope keeps the success/data/error contract.
func (e Envelope) Valid() bool {
	hasData := len(e.Data) > 0 && string(e.Data) != "null"
	if e.Success {
		return e.Error == nil && len(e.Data) > 0
	}
	return e.Error != nil && !hasData
}

// Err returns the failure as an error, or nil on success.
func (e Envelope) Err() error {
	if e.Success || e.Error == nil {
		return nil
	}
	return e.Error
}

// Decode unmarshals Data into v. It returns the failure for unsuccessful
// envelopes.
func (e Envelope) Decode(v any) error {
	if err := e.Err(); err != nil {
		return err
	}
	return json.Unmarshal(e.Data, v)
}

// KindUnauthorized is used by transports that reject a call before it reaches
// the bridge.
const KindUnauthorized = "unauthorized"

// Reject reports a transport request that could not be decoded. The bridge
// operation is not called.
func Reject(op string, err error) Envelope {
	return fail(domain.Malformed(op, "request", err))
}

// Failed builds a failure envelope for transport-level errors such as
// rejected credentials.
func Failed(kind, message string) Envelope {
	return Envelope{Success: false, Error: &Failure{Kind: kind, Message: message}}
}

// Result builds the envelope for a (value, error) pair.
func Result(v any, err error) Envelope {
	if err != nil {
		return fail(err)
	}
	return ok(v)
}
