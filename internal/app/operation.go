package app

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Operation tracks one CLI invocation. Its ID tags every log line the
// invocation writes, so a single run can be grepped out of the shared log.
type Operation struct {
	ID         string
	Name       string
	Parameters string
	Status     string // "success" or "error"
	Started    time.Time
	Finished   time.Time
}

// NewOperation creates a running operation with a fresh ID.
func NewOperation(name string) *Operation {
	return &Operation{
		ID:      strings.SplitN(uuid.NewString(), "-", 2)[0],
		Name:    name,
		Status:  "success",
		Started: time.Now(),
	}
}

// SetParameters records the arguments the operation was started with.
func (op *Operation) SetParameters(args ...string) {
	op.Parameters = strings.Join(args, " ")
}

// Fail marks the operation as failed. A nil error is ignored.
func (op *Operation) Fail(err error) {
	if err != nil {
		op.Status = "error"
	}
}

// Finish stamps the end time once.
func (op *Operation) Finish() {
	if op.Finished.IsZero() {
		op.Finished = time.Now()
	}
}

// Done reports whether Finish has been called.
func (op *Operation) Done() bool {
	return !op.Finished.IsZero()
}

// Duration is the elapsed time, up to now while the operation runs.
func (op *Operation) Duration() time.Duration {
	if op.Finished.IsZero() {
		return time.Since(op.Started)
	}
	return op.Finished.Sub(op.Started)
}
