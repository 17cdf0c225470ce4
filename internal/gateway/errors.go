package gateway

import (
	"fmt"
	"strings"

	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

// Error reports a failed gateway call. The application never retries
// automatically; a failed call surfaces as a single terminal error and retry
// is a manual user re-trigger.
type Error struct {
	Op         string
	Collection Collection
	Status     int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("gateway: %s %s: status %d: %s", e.Op, e.Collection, e.Status, msg)
	}
	return fmt.Sprintf("gateway: %s %s: %s", e.Op, e.Collection, msg)
}

func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return httpx.ErrGateway
}

// Is lets callers classify any gateway failure via httpx.ErrGateway.
func (e *Error) Is(target error) bool { return target == httpx.ErrGateway }

// FieldError is a field-level message attached to one failed record.
type FieldError struct {
	FieldLabel string `json:"fieldLabel"`
	Message    string `json:"message"`
}

func (e FieldError) String() string {
	if e.FieldLabel == "" {
		return e.Message
	}
	return e.FieldLabel + ": " + e.Message
}

// RecordFailure describes one record that the API rejected within a batch.
type RecordFailure struct {
	Index   int
	Message string
	Errors  []FieldError
}

// Messages renders every field-level message of the failure distinctly.
func (f RecordFailure) Messages() []string {
	var out []string
	for _, fe := range f.Errors {
		out = append(out, fe.String())
	}
	if f.Message != "" {
		out = append(out, f.Message)
	}
	return out
}

// BatchResult is the outcome of a create, update or delete batch. Successes
// and failures are reported side by side; a partial failure never hides the
// records that went through.
type BatchResult struct {
	Succeeded []Record
	Failed    []RecordFailure
}

// First returns the first succeeded record, nil when none did.
func (b BatchResult) First() Record {
	if len(b.Succeeded) == 0 {
		return nil
	}
	return b.Succeeded[0]
}

// Err returns a BatchError when any record failed, nil otherwise.
func (b BatchResult) Err() error {
	if len(b.Failed) == 0 {
		return nil
	}
	return &BatchError{Failures: b.Failed, SucceededCount: len(b.Succeeded)}
}

// BatchError enumerates each failed record of a partially failed batch.
type BatchError struct {
	Failures       []RecordFailure
	SucceededCount int
}

func (e *BatchError) Error() string {
	msgs := e.AllMessages()
	return fmt.Sprintf("gateway: %d record(s) failed (%d succeeded): %s",
		len(e.Failures), e.SucceededCount, strings.Join(msgs, "; "))
}

// AllMessages flattens every failure's messages, one entry per message.
func (e *BatchError) AllMessages() []string {
	var out []string
	for _, f := range e.Failures {
		out = append(out, f.Messages()...)
	}
	return out
}

func (e *BatchError) Is(target error) bool { return target == httpx.ErrGateway }
