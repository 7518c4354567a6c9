package errors

import (
	"os"
	"strings"
)

// EnrichError adds source context and suggestions to an error
func EnrichError(err CompilerError, sourceContent string) CompilerError {
	err = err.WithContext(extractSourceContext(err.Location, sourceContent))

	if err.Suggestion == nil {
		if suggestion := suggestFix(err); suggestion != nil {
			err = err.WithSuggestion(*suggestion)
		}
	}

	return err
}

// extractSourceContext extracts 2 lines before, the error line, and 2 lines after
func extractSourceContext(location SourceLocation, sourceContent string) ErrorContext {
	lines := strings.Split(sourceContent, "\n")

	if location.Line < 1 || location.Line > len(lines) {
		return ErrorContext{}
	}

	errorLineIndex := location.Line - 1
	startLine := max(0, errorLineIndex-2)
	endLine := min(len(lines), errorLineIndex+3)

	contextLines := make([]string, 0, endLine-startLine)
	for i := startLine; i < endLine; i++ {
		contextLines = append(contextLines, lines[i])
	}

	start := location.Column - 1
	if start < 0 {
		start = 0
	}
	end := start + location.Length
	if location.Length == 0 {
		end = start + 1
	}

	return ErrorContext{
		SourceLines: contextLines,
		Highlight: Highlight{
			Line:  errorLineIndex - startLine,
			Start: start,
			End:   end,
		},
	}
}

// EnrichErrorFromFile reads the source file and enriches the error
func EnrichErrorFromFile(err CompilerError) CompilerError {
	content, readErr := os.ReadFile(err.Location.File)
	if readErr != nil {
		return err
	}
	return EnrichError(err, string(content))
}

// highlightedText returns the highlighted span of the error line, if any
func highlightedText(ctx ErrorContext) string {
	if ctx.Highlight.Line < 0 || ctx.Highlight.Line >= len(ctx.SourceLines) {
		return ""
	}
	line := ctx.SourceLines[ctx.Highlight.Line]
	start, end := ctx.Highlight.Start, ctx.Highlight.End
	if start < 0 || start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}
