package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// MaxErrors is the maximum number of errors to collect before stopping
const MaxErrors = 100

// ErrorRecovery collects diagnostics across the declarations of one input
type ErrorRecovery struct {
	errors   []CompilerError
	warnings []CompilerError
	maxCount int
	source   string
}

// NewErrorRecovery creates a new ErrorRecovery instance
func NewErrorRecovery() *ErrorRecovery {
	return &ErrorRecovery{
		errors:   make([]CompilerError, 0),
		warnings: make([]CompilerError, 0),
		maxCount: MaxErrors,
	}
}

// WithSource sets the source text used to enrich recovered errors with context
func (r *ErrorRecovery) WithSource(source string) *ErrorRecovery {
	r.source = source
	return r
}

// Recover adds an error to the collection
func (r *ErrorRecovery) Recover(err CompilerError) {
	if len(r.errors) >= r.maxCount && err.IsError() {
		return
	}

	if len(err.Context.SourceLines) == 0 {
		if r.source != "" {
			err = EnrichError(err, r.source)
		} else if err.Location.File != "" {
			err = EnrichErrorFromFile(err)
		}
	}

	if err.IsWarning() || err.IsInfo() {
		r.warnings = append(r.warnings, err)
	} else {
		r.errors = append(r.errors, err)
	}
}

// RecoverMultiple adds multiple errors to the collection
func (r *ErrorRecovery) RecoverMultiple(errs []CompilerError) {
	for _, err := range errs {
		r.Recover(err)
	}
}

// HasErrors returns true if there are any errors (not just warnings)
func (r *ErrorRecovery) HasErrors() bool {
	return len(r.errors) > 0
}

// ErrorCount returns the number of errors
func (r *ErrorRecovery) ErrorCount() int {
	return len(r.errors)
}

// WarningCount returns the number of warnings
func (r *ErrorRecovery) WarningCount() int {
	return len(r.warnings)
}

// GetAll returns all errors followed by all warnings
func (r *ErrorRecovery) GetAll() []CompilerError {
	all := make([]CompilerError, 0, len(r.errors)+len(r.warnings))
	all = append(all, r.errors...)
	all = append(all, r.warnings...)
	return all
}

// FormatForTerminal formats all diagnostics followed by a summary
func (r *ErrorRecovery) FormatForTerminal() string {
	var sb strings.Builder

	for i, d := range r.GetAll() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.FormatForTerminal())
	}

	if len(r.errors)+len(r.warnings) > 0 {
		sb.WriteString(FormatSummary(len(r.errors), len(r.warnings)))
	}

	if len(r.errors) >= r.maxCount {
		sb.WriteString(color.YellowString("\nNote: Error limit reached (%d). Additional errors not shown.\n", r.maxCount))
	}

	return sb.String()
}

// Error implements the error interface
func (r *ErrorRecovery) Error() string {
	if len(r.errors) == 0 && len(r.warnings) == 0 {
		return "no errors"
	}
	if len(r.errors) == 1 && len(r.warnings) == 0 {
		return r.errors[0].Error()
	}
	return fmt.Sprintf("%d error(s) and %d warning(s)", len(r.errors), len(r.warnings))
}
