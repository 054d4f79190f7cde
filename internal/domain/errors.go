package domain

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// Error is the base error type for infrastructure phases.
type Error struct {
	Phase      string // "config", "scan", "parse", "bind", "run", "report", "scaffold"
	File       string
	LineNumber int
	Message    string
	Suggestion string
	Cause      error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.LineNumber > 0 {
		s += fmt.Sprintf(":%d", e.LineNumber)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new phase Error.
func NewError(phase, file string, line int, message string, cause error) *Error {
	return &Error{
		Phase:      phase,
		File:       file,
		LineNumber: line,
		Message:    message,
		Cause:      cause,
	}
}

// NewErrorWithSuggestion creates a phase Error carrying a remediation hint.
func NewErrorWithSuggestion(phase, file string, line int, message, suggestion string, cause error) *Error {
	e := NewError(phase, file, line, message, cause)
	e.Suggestion = suggestion
	return e
}

// FixtureNotFoundError is returned when no fixture backs a logical page.
type FixtureNotFoundError struct {
	Page  string
	Path  string
	Cause error
}

func (e *FixtureNotFoundError) Error() string {
	s := fmt.Sprintf("fixture for page %q not found", e.Page)
	if e.Path != "" {
		s += fmt.Sprintf(" at %s", e.Path)
	}
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	return s
}

func (e *FixtureNotFoundError) Unwrap() error {
	return e.Cause
}

// DataPathNotFoundError is returned when a dotted path does not resolve
// inside a page fixture.
type DataPathNotFoundError struct {
	Page    string
	Path    string
	Segment string
}

func (e *DataPathNotFoundError) Error() string {
	return fmt.Sprintf("data path %q not found in page %q (missing segment %q)", e.Path, e.Page, e.Segment)
}

// DataTypeError is returned when a resolved node has an unexpected shape.
type DataTypeError struct {
	Page     string
	Path     string
	Expected string
	Got      any
}

func (e *DataTypeError) Error() string {
	return fmt.Sprintf("data path %q in page %q: expected %s, got %T", e.Path, e.Page, e.Expected, e.Got)
}

// SelectorNotFoundError is returned for an unknown logical selector name.
type SelectorNotFoundError struct {
	Page string
	Name string
}

func (e *SelectorNotFoundError) Error() string {
	return fmt.Sprintf("selector %q not found in page object %q", e.Name, e.Page)
}

// ContextKeyMissingError is returned when reading a key that was never set.
type ContextKeyMissingError struct {
	Key string
}

func (e *ContextKeyMissingError) Error() string {
	return fmt.Sprintf("key %q not found in test context", e.Key)
}

// AssertionMismatchError carries both sides of a failed comparison.
type AssertionMismatchError struct {
	Key      string
	Expected any
	Actual   any
}

func (e *AssertionMismatchError) Error() string {
	s := fmt.Sprintf("assertion failed for %q: expected %v (%T), but got %v (%T)",
		e.Key, e.Expected, e.Expected, e.Actual, e.Actual)
	if diff := safeDiff(e.Expected, e.Actual); diff != "" {
		s += "\n" + diff
	}
	return s
}

// safeDiff renders a -expected +actual diff for composite values. cmp panics
// on unexported fields, which only matters for the message, so it is skipped.
func safeDiff(expected, actual any) (diff string) {
	defer func() {
		if recover() != nil {
			diff = ""
		}
	}()
	switch expected.(type) {
	case string, bool, int, int64, float64, nil:
		return ""
	}
	return cmp.Diff(expected, actual)
}

// RecordNotFoundError is returned by id lookups over fixture record lists.
type RecordNotFoundError struct {
	Kind string // "user", "product", "order type", "shipping address"
	ID   string
	Page string
}

func (e *RecordNotFoundError) Error() string {
	if e.Page != "" {
		return fmt.Sprintf("%s with ID %q not found in page %q test data", e.Kind, e.ID, e.Page)
	}
	return fmt.Sprintf("%s with ID %q not found in test data", e.Kind, e.ID)
}
