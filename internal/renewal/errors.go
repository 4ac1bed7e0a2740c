package renewal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotRenewable rejects opening a workflow for an expired, superseded,
	// or revoked certificate
	ErrNotRenewable = errors.New("certificate is not renewable")
	// ErrNoFeeEntry rejects a certificate type missing from every fee
	// schedule tier, defaults included
	ErrNoFeeEntry = errors.New("no fee schedule entry for certificate type")
)

// StepError reports an operation attempted in a step that does not allow it
type StepError struct {
	Op      string
	Current Step
}

func (e *StepError) Error() string {
	return fmt.Sprintf("cannot %s in step %s", e.Op, e.Current)
}

// ValidationError carries field-level validation failures. The workflow
// step does not advance while one is returned; the user fixes the fields
// and retries within the current step.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}
