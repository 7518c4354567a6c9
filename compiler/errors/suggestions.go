package errors

import (
	"strings"
)

// suggestFix generates auto-fix suggestions based on error code
func suggestFix(err CompilerError) *FixSuggestion {
	switch err.Code {
	case ErrZeroCapacity:
		return suggestPositiveCapacity(err)
	case ErrInvalidCapacity:
		return suggestCapacityLiteral(err)
	case ErrInvalidDataFieldType:
		return suggestSliceType(err)
	case ErrNotAStruct:
		return &FixSuggestion{
			Description: "Declare the buffer as a struct with a data field",
			NewCode:     "struct {\n\tdata []T\n}",
			Confidence:  0.6,
		}
	default:
		return nil
	}
}

func suggestPositiveCapacity(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "A ring buffer needs room for at least one element",
		OldCode:     highlightedText(err.Context),
		NewCode:     "1",
		Confidence:  0.5,
	}
}

func suggestCapacityLiteral(err CompilerError) *FixSuggestion {
	return &FixSuggestion{
		Description: "Pass a single unsigned integer literal, e.g. //ringgen:buffer 16",
		OldCode:     highlightedText(err.Context),
		Confidence:  0.7,
	}
}

// suggestSliceType proposes []T in place of the offending container type
func suggestSliceType(err CompilerError) *FixSuggestion {
	old := strings.TrimSpace(highlightedText(err.Context))
	if old == "" {
		return &FixSuggestion{
			Description: "Declare data as a slice of the element type",
			NewCode:     "data []T",
			Confidence:  0.6,
		}
	}

	elem := guessElement(old)
	return &FixSuggestion{
		Description: "Declare data as a slice of the element type",
		OldCode:     "data " + old,
		NewCode:     "data []" + elem,
		Confidence:  0.75,
	}
}

// guessElement pulls a plausible element type out of a container expression:
// [N]T, List[T] and *[]T all yield T.
func guessElement(typ string) string {
	switch {
	case strings.HasPrefix(typ, "*[]"):
		return typ[3:]
	case strings.HasPrefix(typ, "["):
		if i := strings.Index(typ, "]"); i >= 0 && i+1 < len(typ) {
			return typ[i+1:]
		}
	case strings.HasSuffix(typ, "]"):
		if i := strings.Index(typ, "["); i > 0 {
			inner := typ[i+1 : len(typ)-1]
			if !strings.Contains(inner, ",") {
				return inner
			}
		}
	}
	return "T"
}
