package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	locationColor = color.New(color.FgCyan)
	gutterColor   = color.New(color.FgBlue)
	contextColor  = color.New(color.FgHiBlack)
	markerColor   = color.New(color.FgRed)
	helpColor     = color.New(color.FgCyan, color.Bold)
	boldColor     = color.New(color.Bold)

	titleCaser = cases.Title(language.English)
)

// FormatForTerminal formats a CompilerError for terminal output.
// Colors follow color.NoColor, so output is plain when stdout is not a TTY.
func (e CompilerError) FormatForTerminal() string {
	var sb strings.Builder

	severityColor(e.Severity).Fprintf(&sb, "%s[%s]", titleCaser.String(e.Severity.String()), e.Code)
	fmt.Fprintf(&sb, ": %s\n", e.Message)

	fmt.Fprintf(&sb, "  %s %s:%d:%d\n",
		locationColor.Sprint("-->"),
		e.Location.File,
		e.Location.Line,
		e.Location.Column)

	if len(e.Context.SourceLines) > 0 {
		sb.WriteString(formatSourceContext(e.Context, e.Location.Line))
	}

	if e.Suggestion != nil {
		sb.WriteString(formatSuggestion(*e.Suggestion))
	}

	return sb.String()
}

// formatSourceContext formats the source code context with a caret marker
func formatSourceContext(ctx ErrorContext, errorLine int) string {
	var sb strings.Builder

	firstLine := errorLine - ctx.Highlight.Line
	bar := gutterColor.Sprint("|")

	fmt.Fprintf(&sb, "    %s\n", bar)
	for i, line := range ctx.SourceLines {
		lineNum := firstLine + i
		if i != ctx.Highlight.Line {
			fmt.Fprintf(&sb, "%s %s %s\n", contextColor.Sprintf("%3d", lineNum), bar, line)
			continue
		}

		fmt.Fprintf(&sb, "%s %s %s\n", gutterColor.Sprintf("%3d", lineNum), bar, line)

		width := ctx.Highlight.End - ctx.Highlight.Start
		if width <= 0 {
			width = 1
		}
		fmt.Fprintf(&sb, "    %s %s%s\n",
			bar,
			strings.Repeat(" ", ctx.Highlight.Start),
			markerColor.Sprint(strings.Repeat("^", width)))
	}
	fmt.Fprintf(&sb, "    %s\n", bar)

	return sb.String()
}

// formatSuggestion formats a fix suggestion
func formatSuggestion(suggestion FixSuggestion) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s %s\n", helpColor.Sprint("Help:"), suggestion.Description)

	if suggestion.NewCode != "" {
		fmt.Fprintf(&sb, "%s\n", helpColor.Sprint("Suggestion:"))
		for _, line := range strings.Split(suggestion.NewCode, "\n") {
			fmt.Fprintf(&sb, "    %s\n", line)
		}
	}

	return sb.String()
}

func severityColor(severity Severity) *color.Color {
	switch severity {
	case Info:
		return color.New(color.FgBlue, color.Bold)
	case Warning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// FormatSummary formats a summary of errors and warnings
func FormatSummary(errorCount, warningCount int) string {
	var parts []string

	if errorCount > 0 {
		parts = append(parts, color.RedString("%d error(s)", errorCount))
	}
	if warningCount > 0 {
		parts = append(parts, color.YellowString("%d warning(s)", warningCount))
	}

	if len(parts) == 0 {
		return color.BlueString("No errors or warnings") + "\n"
	}
	if errorCount == 0 {
		return boldColor.Sprintf("\nGeneration finished with %s", strings.Join(parts, " and ")) + "\n"
	}
	return boldColor.Sprintf("\nGeneration failed with %s", strings.Join(parts, " and ")) + "\n"
}
