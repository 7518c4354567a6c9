package errors

import (
	"encoding/json"
)

// JSONOutput represents the JSON structure for error output
type JSONOutput struct {
	Status   string          `json:"status"`
	Errors   []CompilerError `json:"errors"`
	Warnings []CompilerError `json:"warnings"`
	Summary  Summary         `json:"summary"`
}

// Summary contains error and warning counts
type Summary struct {
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`
	TotalCount   int `json:"total_count"`
}

// FormatAsJSON formats a CompilerError as JSON
func (e CompilerError) FormatAsJSON() (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewJSONOutput splits diagnostics into errors and warnings and computes the status
func NewJSONOutput(diags []CompilerError) JSONOutput {
	errorList := make([]CompilerError, 0)
	warningList := make([]CompilerError, 0)

	for _, d := range diags {
		if d.IsError() {
			errorList = append(errorList, d)
		} else if d.IsWarning() {
			warningList = append(warningList, d)
		}
	}

	status := "success"
	if len(errorList) > 0 {
		status = "error"
	} else if len(warningList) > 0 {
		status = "warning"
	}

	return JSONOutput{
		Status:   status,
		Errors:   errorList,
		Warnings: warningList,
		Summary: Summary{
			ErrorCount:   len(errorList),
			WarningCount: len(warningList),
			TotalCount:   len(diags),
		},
	}
}

// FormatErrorsAsJSON formats multiple errors as indented JSON
func FormatErrorsAsJSON(diags []CompilerError) (string, error) {
	data, err := json.MarshalIndent(NewJSONOutput(diags), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
