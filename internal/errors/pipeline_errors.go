package errors

import (
	"errors"
	"fmt"
)

// PipelineError is a structured error carrying a stable error code, the
// pipeline stage that raised it, and optional details for diagnostics.
type PipelineError struct {
	ErrorCode string      `json:"error_code"`
	Stage     string      `json:"stage"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Err       error       `json:"-"`
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Error codes for the pipeline failure taxonomy.
const (
	// CodeStructural covers unusable source shapes: a sheet with no
	// year-like columns, zero data rows after classification, a range
	// string with an unparseable or inverted bound. Always fatal.
	CodeStructural = "STRUCTURAL_FAILURE"

	// CodeJoinIntegrity covers duplicate keys in a table that must be
	// uniquely keyed before merging. Always fatal.
	CodeJoinIntegrity = "JOIN_INTEGRITY_FAILURE"

	// CodeConfig covers invalid or missing configuration.
	CodeConfig = "CONFIG_INVALID"

	// CodeStorage covers artifact read/write failures.
	CodeStorage = "STORAGE_FAILURE"
)

// New creates a new PipelineError with the given code, stage and message.
func New(code, stage, message string) *PipelineError {
	return &PipelineError{
		ErrorCode: code,
		Stage:     stage,
		Message:   message,
	}
}

// Wrap creates a PipelineError around an underlying cause.
func Wrap(err error, code, stage, message string) *PipelineError {
	return &PipelineError{
		ErrorCode: code,
		Stage:     stage,
		Message:   message,
		Err:       err,
	}
}

// Structural creates a structural failure for the named sheet or table.
func Structural(stage, source, message string) *PipelineError {
	return &PipelineError{
		ErrorCode: CodeStructural,
		Stage:     stage,
		Message:   fmt.Sprintf("%s: %s", source, message),
		Details:   source,
	}
}

// JoinIntegrity creates a duplicate-key failure for the named table.
func JoinIntegrity(stage, table string, duplicates []string) *PipelineError {
	return &PipelineError{
		ErrorCode: CodeJoinIntegrity,
		Stage:     stage,
		Message:   fmt.Sprintf("%s: duplicate keys detected", table),
		Details:   duplicates,
	}
}

// IsStructural reports whether err is (or wraps) a structural failure.
func IsStructural(err error) bool {
	return hasCode(err, CodeStructural)
}

// IsJoinIntegrity reports whether err is (or wraps) a join-integrity failure.
func IsJoinIntegrity(err error) bool {
	return hasCode(err, CodeJoinIntegrity)
}

func hasCode(err error, code string) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.ErrorCode == code
	}
	return false
}
