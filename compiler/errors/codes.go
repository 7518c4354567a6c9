package errors

// Error code constants organized by phase
// E001-E099: Capacity errors
// E100-E199: Shape errors
// E200-E299: Element type errors
// E300-E399: Host input errors
// E400-E499: Codegen errors

const (
	// Capacity errors (E001-E099)
	ErrInvalidCapacity = "E001"
	ErrZeroCapacity    = "E002"

	// Shape errors (E100-E199)
	ErrNotAStruct        = "E100"
	ErrNotNamedFields    = "E101"
	ErrMissingDataField  = "E102"
	ErrReservedFieldName = "E103"
	ErrReservedTypeParam = "E104"

	// Element type errors (E200-E299)
	ErrInvalidDataFieldType = "E200"

	// Host input errors (E300-E399)
	ErrSyntax           = "E300"
	ErrOrphanDirective  = "E301"
	ErrInvalidManifest  = "E302"
	ErrUnreadableSource = "E303"

	// Codegen errors (E400-E499)
	ErrFormatFailed = "E400"
	ErrWriteFailed  = "E401"
)

// Phase names used in CompilerError.Phase
const (
	PhaseCapacity = "capacity"
	PhaseShape    = "shape"
	PhaseElement  = "element"
	PhaseParser   = "parser"
	PhaseManifest = "manifest"
	PhaseCodegen  = "codegen"
)

var categories = map[string]string{
	ErrInvalidCapacity:      "malformed-capacity-literal",
	ErrZeroCapacity:         "zero-capacity",
	ErrNotAStruct:           "not-a-record",
	ErrNotNamedFields:       "fields-not-named",
	ErrMissingDataField:     "missing-data-field",
	ErrReservedFieldName:    "reserved-field-name",
	ErrReservedTypeParam:    "reserved-type-parameter",
	ErrInvalidDataFieldType: "invalid-data-field-type",
	ErrSyntax:               "syntax-error",
	ErrOrphanDirective:      "orphan-directive",
	ErrInvalidManifest:      "invalid-manifest",
	ErrUnreadableSource:     "unreadable-source",
	ErrFormatFailed:         "format-failed",
	ErrWriteFailed:          "write-failed",
}

// Category returns the diagnostic category name for an error code,
// or "unknown" for codes outside the table.
func Category(code string) string {
	if c, ok := categories[code]; ok {
		return c
	}
	return "unknown"
}
