package core

import (
	"fmt"
	"strings"
)

// Error codes used across the engine. Registry and request codes surface
// before any invocation; execution codes appear inside per-agent results and
// never escape a pattern's Execute.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUnknownPattern   = "UNKNOWN_PATTERN"
	CodeAgentNotFound    = "AGENT_NOT_FOUND"
	CodeAgentUnavailable = "AGENT_UNAVAILABLE"
	CodeToolNotFound     = "TOOL_NOT_FOUND"
	CodeExecutionError   = "EXECUTION_ERROR"
	CodeTimeoutError     = "TIMEOUT_ERROR"
)

// ValidationError rejects a request before execution. It aggregates every
// problem found so the caller can fix the request in one pass.
type ValidationError struct {
	Code   string   `json:"code"`
	Errors []string `json:"errors"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request [%s]: %s", e.Code, strings.Join(e.Errors, "; "))
}

// NewValidationError builds a ValidationError from collected messages.
func NewValidationError(code string, errs ...string) *ValidationError {
	return &ValidationError{Code: code, Errors: errs}
}

// Validation is the outcome of the non-executing workflow check. Errors make
// the request unrunnable; warnings flag configurations that run but may not
// behave the way the author expects.
type Validation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Merge folds another validation outcome into v.
func (v *Validation) Merge(other Validation) {
	v.Errors = append(v.Errors, other.Errors...)
	v.Warnings = append(v.Warnings, other.Warnings...)
	v.Valid = len(v.Errors) == 0
}

// AddError records a formatted error and marks the outcome invalid.
func (v *Validation) AddError(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
	v.Valid = false
}

// AddWarning records a formatted warning without affecting validity.
func (v *Validation) AddWarning(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

// OK returns a valid outcome with empty (non-nil) error and warning lists.
func OK() Validation {
	return Validation{Valid: true, Errors: []string{}, Warnings: []string{}}
}
