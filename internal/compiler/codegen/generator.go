// Package codegen synthesizes ring buffer implementations for validated declarations.
// It appends the bookkeeping fields to a declaration and writes the struct and its
// operations as Go source, then assembles and formats complete output files.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"

	"github.com/conduit-lang/ringgen/compiler/errors"
	"github.com/conduit-lang/ringgen/internal/compiler/ast"
)

// Options configures a Generator
type Options struct {
	// Receiver forces the receiver name of generated methods. When empty, or
	// when the name would collide with an identifier the methods use, the
	// generator chooses one.
	Receiver string
}

// Generator transforms validated declarations into Go code
type Generator struct {
	buf    *bytes.Buffer
	indent int
	opts   Options
}

// NewGenerator creates a new code generator
func NewGenerator(opts Options) *Generator {
	return &Generator{
		buf:  &bytes.Buffer{},
		opts: opts,
	}
}

// Expansion is the synthesized implementation of one declaration
type Expansion struct {
	// Decl is the augmented declaration (bookkeeping fields appended)
	Decl     *ast.Declaration
	Capacity int
	Element  *ast.TypeExpr
	Receiver string
	Locals   Locals
	Methods  MethodSet
	// Code holds the struct and its methods, unformatted
	Code string
	// Qualifiers lists the package names referenced by the declaration
	Qualifiers []string
}

// File describes one generated output file
type File struct {
	Package    string
	Source     string // template file name for the header
	BuildTag   string
	Imports    []ast.Import
	Expansions []*Expansion
}

// Expand writes the augmented struct and its operation set for decl, whose data
// field holds elements of type elem. decl must already carry the injected fields.
func (g *Generator) Expand(decl *ast.Declaration, capacity int, elem *ast.TypeExpr) *Expansion {
	g.reset()

	qualifiers := declQualifiers(decl)
	exp := &Expansion{
		Decl:       decl,
		Capacity:   capacity,
		Element:    elem,
		Methods:    MethodNames(decl.Visibility),
		Qualifiers: qualifiers,
	}
	exp.Locals = chooseLocals(decl, qualifiers)
	exp.Receiver = chooseReceiver(decl, qualifiers, exp.Locals, g.opts.Receiver)

	g.generateStruct(decl)
	g.writeLine("")
	g.generateConstructor(exp)
	g.generateMethods(exp)

	exp.Code = g.buf.String()
	return exp
}

// GenerateFile assembles the header, imports and expansions of one output file
// and formats the result.
func (g *Generator) GenerateFile(f File) ([]byte, error) {
	g.reset()

	g.writeLine("// Code generated by ringgen from %s. DO NOT EDIT.", f.Source)
	g.writeLine("")
	if f.BuildTag != "" {
		g.writeLine("//go:build !%s", f.BuildTag)
		g.writeLine("")
	}
	g.writeLine("package %s", f.Package)
	g.writeLine("")

	imports := requiredImports(f.Imports, f.Expansions)
	switch len(imports) {
	case 0:
	case 1:
		g.writeLine("import %s", importSpec(imports[0]))
		g.writeLine("")
	default:
		g.writeLine("import (")
		g.indent++
		for _, imp := range imports {
			g.writeLine("%s", importSpec(imp))
		}
		g.indent--
		g.writeLine(")")
		g.writeLine("")
	}

	for i, exp := range f.Expansions {
		if i > 0 {
			g.writeLine("")
		}
		g.buf.WriteString(exp.Code)
	}

	formatted, err := format.Source(g.buf.Bytes())
	if err != nil {
		return nil, errors.NewCompilerError(
			errors.PhaseCodegen,
			errors.ErrFormatFailed,
			fmt.Sprintf("generated source for %s failed to format: %v", f.Source, err),
			errors.SourceLocation{File: f.Source, Line: 1, Column: 1},
			errors.Error,
		)
	}
	return formatted, nil
}

func importSpec(imp ast.Import) string {
	if imp.Alias != "" {
		return fmt.Sprintf("%s %q", imp.Alias, imp.Path)
	}
	return fmt.Sprintf("%q", imp.Path)
}

// reset clears the generator state
func (g *Generator) reset() {
	g.buf.Reset()
	g.indent = 0
}

// writeLine writes a formatted line with proper indentation
func (g *Generator) writeLine(format string, args ...interface{}) {
	if format == "" {
		g.buf.WriteString("\n")
		return
	}

	g.buf.WriteString(strings.Repeat("\t", g.indent))
	if len(args) > 0 {
		g.buf.WriteString(fmt.Sprintf(format, args...))
	} else {
		g.buf.WriteString(format)
	}
	g.buf.WriteString("\n")
}
