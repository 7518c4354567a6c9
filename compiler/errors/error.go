// Package errors provides structured diagnostics for the ring buffer generator.
// Every generation failure is a CompilerError carrying a code, a phase and the
// most specific source location available, and can be rendered for a terminal
// or as JSON for tooling.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Severity represents the severity level of an error
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for Severity
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Severity
func (s *Severity) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	switch str {
	case "info":
		*s = Info
	case "warning":
		*s = Warning
	case "error":
		*s = Error
	case "fatal":
		*s = Fatal
	default:
		*s = Error
	}
	return nil
}

// SourceLocation represents a location in source code
type SourceLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Length int    `json:"length"`
}

// ErrorContext contains surrounding code for an error
type ErrorContext struct {
	SourceLines []string  `json:"source_lines"`
	Highlight   Highlight `json:"highlight"`
}

// Highlight specifies which part of the context to highlight
type Highlight struct {
	Line  int `json:"line"`  // index into SourceLines
	Start int `json:"start"` // 0-based column start
	End   int `json:"end"`
}

// FixSuggestion represents an auto-fix suggestion
type FixSuggestion struct {
	Description string  `json:"description"`
	OldCode     string  `json:"old_code"`
	NewCode     string  `json:"new_code"`
	Confidence  float64 `json:"confidence"`
}

// CompilerError represents a generation diagnostic
type CompilerError struct {
	Phase      string         // "capacity", "shape", "element", "parser", "manifest", "codegen"
	Code       string         // "E001", "E100", etc.
	Message    string         // Human-readable message
	Location   SourceLocation // File, line, column
	Severity   Severity
	Context    ErrorContext
	Suggestion *FixSuggestion
}

// Error implements the error interface
func (e CompilerError) Error() string {
	if e.Location.File == "" {
		return fmt.Sprintf("%d:%d: %s: %s",
			e.Location.Line,
			e.Location.Column,
			e.Code,
			e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s",
		e.Location.File,
		e.Location.Line,
		e.Location.Column,
		e.Code,
		e.Message)
}

// NewCompilerError creates a new CompilerError
func NewCompilerError(phase, code, message string, location SourceLocation, severity Severity) CompilerError {
	return CompilerError{
		Phase:    phase,
		Code:     code,
		Message:  message,
		Location: location,
		Severity: severity,
	}
}

// WithContext adds context to the error
func (e CompilerError) WithContext(ctx ErrorContext) CompilerError {
	e.Context = ctx
	return e
}

// WithSuggestion adds a fix suggestion to the error
func (e CompilerError) WithSuggestion(suggestion FixSuggestion) CompilerError {
	e.Suggestion = &suggestion
	return e
}

// Category returns the diagnostic category of the error's code
func (e CompilerError) Category() string {
	return Category(e.Code)
}

// MarshalJSON implements json.Marshaler
func (e CompilerError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Phase      string         `json:"phase"`
		Code       string         `json:"code"`
		Category   string         `json:"category"`
		Message    string         `json:"message"`
		Severity   Severity       `json:"severity"`
		Location   SourceLocation `json:"location"`
		Context    ErrorContext   `json:"context"`
		Suggestion *FixSuggestion `json:"suggestion"`
	}{
		Phase:      e.Phase,
		Code:       e.Code,
		Category:   e.Category(),
		Message:    e.Message,
		Severity:   e.Severity,
		Location:   e.Location,
		Context:    e.Context,
		Suggestion: e.Suggestion,
	})
}

// IsError returns true if the error is at Error or Fatal severity
func (e CompilerError) IsError() bool {
	return e.Severity == Error || e.Severity == Fatal
}

// IsWarning returns true if the error is at Warning severity
func (e CompilerError) IsWarning() bool {
	return e.Severity == Warning
}

// IsInfo returns true if the error is at Info severity
func (e CompilerError) IsInfo() bool {
	return e.Severity == Info
}

// IsFatal returns true if the error is at Fatal severity
func (e CompilerError) IsFatal() bool {
	return e.Severity == Fatal
}

// HasCode reports whether err is, or wraps, a CompilerError with the given code.
func HasCode(err error, code string) bool {
	var ce CompilerError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// AsCompilerError unwraps err into a CompilerError.
func AsCompilerError(err error) (CompilerError, bool) {
	var ce CompilerError
	ok := errors.As(err, &ce)
	return ce, ok
}
