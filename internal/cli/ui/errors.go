package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Level is the severity of a message
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

// MessageOptions configures message formatting
type MessageOptions struct {
	Level        Level
	Context      string
	Problem      string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatMessage renders a headed message with optional suggestions and help commands
//
//	✗ CONFIGURATION ERROR: output.suffix must end in .go
//
//	   Did you mean: _ring.go?
//
//	   → Get help: ringgen generate --help
func FormatMessage(opts MessageOptions) string {
	var b strings.Builder

	var header *color.Color
	var symbol string
	switch opts.Level {
	case LevelWarning:
		header = color.New(color.FgYellow, color.Bold)
		symbol = "!"
	case LevelInfo:
		header = color.New(color.FgCyan, color.Bold)
		symbol = "i"
	default:
		header = color.New(color.FgRed, color.Bold)
		symbol = "✗"
	}
	if opts.NoColor {
		header.DisableColor()
	}

	if opts.Context != "" {
		header.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if len(opts.Suggestions) > 0 {
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		b.WriteString("\n")
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		b.WriteString("\n")
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// ConfigError formats a configuration failure
func ConfigError(err error, noColor bool) string {
	return FormatMessage(MessageOptions{
		Level:   LevelError,
		Context: "configuration error",
		Problem: err.Error(),
		HelpCommands: []string{
			"View config: cat ringgen.yml",
			"Get help: ringgen --help",
		},
		NoColor: noColor,
	})
}

// NoTemplatesWarning formats the warning printed when no input declares a buffer
func NoTemplatesWarning(paths []string, noColor bool) string {
	return FormatMessage(MessageOptions{
		Level:   LevelWarning,
		Problem: fmt.Sprintf("no ringgen:buffer declarations found in %s", strings.Join(paths, ", ")),
		HelpCommands: []string{
			"Create a template: ringgen new MyBuffer --capacity 16 --elem int",
		},
		NoColor: noColor,
	})
}

// TemplateExistsError formats the refusal to overwrite a template
func TemplateExistsError(path string, noColor bool) string {
	return FormatMessage(MessageOptions{
		Level:        LevelError,
		Context:      "file exists",
		Problem:      fmt.Sprintf("%s already exists", path),
		HelpCommands: []string{"Overwrite it: ringgen new --force"},
		NoColor:      noColor,
	})
}
