// Package manifest reads ring buffer declarations from a YAML manifest.
//
// A manifest describes buffers without a Go template file:
//
//	package: queue
//	output: buffers_ring.go
//	buffers:
//	  - name: IntBuffer
//	    capacity: 5
//	    fields:
//	      - {name: data, type: "[]int"}
//
// Declarations are produced in the same ast model as the Go source parser, so
// they go through the same validation and code generation.
package manifest

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/ringgen/compiler/errors"
	"github.com/conduit-lang/ringgen/internal/compiler/ast"
	"github.com/conduit-lang/ringgen/internal/compiler/parser"
)

// DefaultSuffix is appended to the manifest base name when no output is set
const DefaultSuffix = "_ring.go"

// Manifest is a loaded manifest
type Manifest struct {
	Path string
	// Output is the generated file path, resolved against the manifest directory
	Output string
	File   *ast.File
}

type document struct {
	Package yaml.Node    `yaml:"package"`
	Output  string       `yaml:"output"`
	Imports []importSpec `yaml:"imports"`
	Buffers []bufferSpec `yaml:"buffers"`
}

type importSpec struct {
	Path  string `yaml:"path"`
	Alias string `yaml:"alias"`
}

type bufferSpec struct {
	Name       yaml.Node       `yaml:"name"`
	Capacity   yaml.Node       `yaml:"capacity"`
	Kind       string          `yaml:"kind"`
	Doc        string          `yaml:"doc"`
	TypeParams []typeParamSpec `yaml:"type_params"`
	Fields     []fieldSpec     `yaml:"fields"`
}

type typeParamSpec struct {
	Name       string `yaml:"name"`
	Constraint string `yaml:"constraint"`
}

type fieldSpec struct {
	Name yaml.Node `yaml:"name"`
	Type yaml.Node `yaml:"type"`
	Tag  string    `yaml:"tag"`
}

// Load reads and parses the manifest at path
func Load(path string) (*Manifest, []errors.CompilerError) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []errors.CompilerError{errors.NewCompilerError(
			errors.PhaseManifest,
			errors.ErrUnreadableSource,
			fmt.Sprintf("failed to read manifest: %v", err),
			errors.SourceLocation{File: path},
			errors.Error,
		)}
	}
	return Parse(path, data)
}

// Parse parses manifest data. Every diagnostic carries the YAML position it refers to.
func Parse(path string, data []byte) (*Manifest, []errors.CompilerError) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, decodeErrors(path, err)
	}

	r := &reader{path: path}
	m := &Manifest{
		Path:   path,
		Output: r.output(doc.Output),
		File: &ast.File{
			Path:    path,
			Package: r.packageName(&doc.Package),
		},
	}
	for _, imp := range doc.Imports {
		if imp.Path == "" {
			r.fail(ast.SourceLocation{File: path, Line: 1, Column: 1}, "import without a path")
			continue
		}
		m.File.Imports = append(m.File.Imports, ast.Import{Path: imp.Path, Alias: imp.Alias})
	}

	if len(doc.Buffers) == 0 {
		r.fail(ast.SourceLocation{File: path, Line: 1, Column: 1}, "manifest declares no buffers")
	}
	for i := range doc.Buffers {
		if decl := r.declaration(&doc.Buffers[i]); decl != nil {
			m.File.Declarations = append(m.File.Declarations, decl)
		}
	}

	if len(r.diags) > 0 {
		return nil, r.diags
	}
	return m, nil
}

type reader struct {
	path  string
	diags []errors.CompilerError
}

func (r *reader) fail(loc ast.SourceLocation, format string, args ...interface{}) {
	r.diags = append(r.diags, errors.NewCompilerError(
		errors.PhaseManifest,
		errors.ErrInvalidManifest,
		fmt.Sprintf(format, args...),
		loc.ErrorLocation(),
		errors.Error,
	))
}

func (r *reader) loc(n *yaml.Node) ast.SourceLocation {
	if n == nil || n.Line == 0 {
		return ast.SourceLocation{File: r.path, Line: 1, Column: 1}
	}
	return ast.SourceLocation{File: r.path, Line: n.Line, Column: n.Column, Length: len(n.Value)}
}

// valueLoc points at the first character of a scalar's value, skipping a quote
func (r *reader) valueLoc(n *yaml.Node) ast.SourceLocation {
	loc := r.loc(n)
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		loc.Column++
	}
	return loc
}

func (r *reader) output(out string) string {
	if out == "" {
		base := filepath.Base(r.path)
		out = strings.TrimSuffix(base, filepath.Ext(base)) + DefaultSuffix
	}
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(filepath.Dir(r.path), out)
}

func (r *reader) packageName(n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode || !token.IsIdentifier(n.Value) {
		r.fail(r.loc(n), "package must be a Go identifier")
		return ""
	}
	return n.Value
}

func (r *reader) declaration(spec *bufferSpec) *ast.Declaration {
	name := spec.Name.Value
	if spec.Name.Kind != yaml.ScalarNode || !token.IsIdentifier(name) {
		r.fail(r.loc(&spec.Name), "buffer name %q is not a Go identifier", name)
		return nil
	}

	decl := &ast.Declaration{
		Name:    name,
		NamePos: r.loc(&spec.Name),
		Kind:    ast.KindStruct,
	}
	if token.IsExported(name) {
		decl.Visibility = ast.Exported
	}
	if spec.Kind != "" && spec.Kind != "struct" {
		decl.Kind = ast.KindOther
	}
	if spec.Doc != "" {
		for _, line := range strings.Split(strings.TrimRight(spec.Doc, "\n"), "\n") {
			decl.Doc = append(decl.Doc, strings.TrimRight("// "+line, " "))
		}
	}

	decl.Directive = &ast.Directive{
		Loc:      decl.NamePos,
		Capacity: r.capacity(&spec.Capacity, decl.NamePos),
	}

	for _, tp := range spec.TypeParams {
		if !token.IsIdentifier(tp.Name) {
			r.fail(decl.NamePos, "type parameter %q of %s is not a Go identifier", tp.Name, name)
			continue
		}
		constraint := tp.Constraint
		if constraint == "" {
			constraint = "any"
		}
		decl.TypeParams = append(decl.TypeParams, ast.TypeParam{Name: tp.Name, Constraint: constraint})
	}

	named := 0
	for i := range spec.Fields {
		f := r.field(&spec.Fields[i])
		if f == nil {
			continue
		}
		if !f.Embedded {
			named++
		}
		decl.Fields = append(decl.Fields, f)
	}

	switch {
	case len(spec.Fields) == 0:
		decl.FieldStyle = ast.FieldsUnit
	case named == 0:
		decl.FieldStyle = ast.FieldsPositional
	default:
		decl.FieldStyle = ast.FieldsNamed
	}

	return decl
}

// capacity keeps the raw text so CapacityParser reports malformed values
func (r *reader) capacity(n *yaml.Node, fallback ast.SourceLocation) ast.CapacityArgument {
	if n.Kind != yaml.ScalarNode {
		return ast.CapacityArgument{Loc: fallback}
	}
	return ast.CapacityArgument{Text: n.Value, Loc: r.valueLoc(n)}
}

func (r *reader) field(spec *fieldSpec) *ast.Field {
	if spec.Type.Kind != yaml.ScalarNode || spec.Type.Value == "" {
		r.fail(r.loc(&spec.Name), "field %q has no type", spec.Name.Value)
		return nil
	}

	typ, err := parser.ParseTypeExpr(spec.Type.Value, r.valueLoc(&spec.Type))
	if err != nil {
		r.fail(r.loc(&spec.Type), "invalid type for field %q: %v", spec.Name.Value, err)
		return nil
	}

	f := &ast.Field{
		Name: spec.Name.Value,
		Type: typ,
		Tag:  quoteTag(spec.Tag),
		Loc:  r.loc(&spec.Name),
	}
	if f.Name == "" {
		f.Embedded = true
		f.Loc = typ.Pos
	} else if !token.IsIdentifier(f.Name) {
		r.fail(f.Loc, "field name %q is not a Go identifier", f.Name)
		return nil
	}
	return f
}

func quoteTag(tag string) string {
	if tag == "" {
		return ""
	}
	if strings.Contains(tag, "`") {
		return strconv.Quote(tag)
	}
	return "`" + tag + "`"
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// decodeErrors converts yaml decoder errors, which carry "line N" in their text
func decodeErrors(path string, err error) []errors.CompilerError {
	var messages []string
	var typeErr *yaml.TypeError
	if stderrors.As(err, &typeErr) {
		messages = typeErr.Errors
	} else {
		messages = []string{err.Error()}
	}

	out := make([]errors.CompilerError, 0, len(messages))
	for _, msg := range messages {
		line := 1
		if m := yamlLine.FindStringSubmatch(msg); m != nil {
			line, _ = strconv.Atoi(m[1])
		}
		out = append(out, errors.NewCompilerError(
			errors.PhaseManifest,
			errors.ErrInvalidManifest,
			strings.TrimPrefix(msg, "yaml: "),
			errors.SourceLocation{File: path, Line: line, Column: 1},
			errors.Error,
		))
	}
	return out
}
