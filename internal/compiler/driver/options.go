package driver

import (
	"path/filepath"
	"strings"

	"github.com/conduit-lang/ringgen/internal/compiler/parser"
)

// Options configures the pipeline and output naming
type Options struct {
	// Directive is the comment marker, without the leading //
	Directive string
	// BuildTag guards template files; generated files carry the negation
	BuildTag string
	// Suffix replaces ".go" in the template name to form the output name
	Suffix string
	// Receiver forces the receiver name of generated methods
	Receiver string
}

// DefaultOptions returns the options used when no configuration is present
func DefaultOptions() Options {
	return Options{
		Directive: parser.DefaultDirective,
		BuildTag:  "ringgen",
		Suffix:    "_ring.go",
	}
}

// OutputPath returns the generated file path for a template
func (o Options) OutputPath(source string) string {
	return strings.TrimSuffix(source, ".go") + o.Suffix
}

// IsOutput reports whether path looks like a generated file
func (o Options) IsOutput(path string) bool {
	return strings.HasSuffix(filepath.Base(path), o.Suffix)
}
