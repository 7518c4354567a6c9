// Package ast defines the declaration model consumed by the ring buffer generator.
// It is independent of the host syntax: the Go source parser and the YAML manifest
// reader both produce these nodes.
package ast

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/ringgen/compiler/errors"
)

// SourceLocation tracks the position of a node in its host source
type SourceLocation struct {
	File   string
	Line   int // 1-indexed
	Column int // 1-indexed
	Length int // span length in bytes, 0 when unknown
}

// IsValid reports whether the location points at a line
func (l SourceLocation) IsValid() bool {
	return l.Line > 0
}

func (l SourceLocation) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// ErrorLocation converts the location for use in a diagnostic
func (l SourceLocation) ErrorLocation() errors.SourceLocation {
	return errors.SourceLocation{
		File:   l.File,
		Line:   l.Line,
		Column: l.Column,
		Length: l.Length,
	}
}

// Node is the base interface for all declaration nodes
type Node interface {
	Location() SourceLocation
	node()
}

// File is the root node produced from one host source
type File struct {
	Path         string
	Package      string
	Imports      []Import
	Declarations []*Declaration
	// Orphans are directives that are not attached to a type declaration.
	Orphans []*Directive
}

func (f *File) node() {}

// Location returns the location of the first declaration, or line 1.
func (f *File) Location() SourceLocation {
	if len(f.Declarations) > 0 {
		return f.Declarations[0].NamePos
	}
	return SourceLocation{File: f.Path, Line: 1, Column: 1}
}

// Import is one import of the host file
type Import struct {
	Path  string
	Alias string // "" when the import is not renamed
}

// Visibility is the declaration's visibility marker
type Visibility int

const (
	// Unexported declarations are package-private
	Unexported Visibility = iota
	// Exported declarations are visible outside the package
	Exported
)

func (v Visibility) String() string {
	if v == Exported {
		return "exported"
	}
	return "unexported"
}

// DeclKind is the shape of the declared type
type DeclKind int

const (
	// KindStruct is a record (product) type
	KindStruct DeclKind = iota
	// KindOther covers aliases, named non-struct types and interfaces
	KindOther
)

// FieldStyle describes how a struct's fields are named
type FieldStyle int

const (
	// FieldsNamed has at least one named field
	FieldsNamed FieldStyle = iota
	// FieldsPositional has only embedded (unnamed) fields
	FieldsPositional
	// FieldsUnit has no fields at all
	FieldsUnit
)

// Declaration is an annotated type declaration (InputDeclaration)
type Declaration struct {
	Name       string
	NamePos    SourceLocation
	Visibility Visibility
	TypeParams []TypeParam
	Kind       DeclKind
	FieldStyle FieldStyle
	Fields     []*Field
	Doc        []string
	Directive  *Directive
}

func (d *Declaration) node() {}

// Location returns the span of the declared name
func (d *Declaration) Location() SourceLocation {
	return d.NamePos
}

// FieldByName returns the first field with exactly the given name
func (d *Declaration) FieldByName(name string) *Field {
	for _, f := range d.Fields {
		if !f.Embedded && f.Name == name {
			return f
		}
	}
	return nil
}

// FieldNames returns the names of all named fields in order
func (d *Declaration) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		if !f.Embedded {
			names = append(names, f.Name)
		}
	}
	return names
}

// TypeParam is one generic parameter with its constraint
type TypeParam struct {
	Name       string
	Constraint string
}

// Field is a struct field. Embedded fields have no name.
type Field struct {
	Name     string
	Type     *TypeExpr
	Tag      string // raw tag literal including backquotes
	Comment  string // trailing line comment without the leading //
	Embedded bool
	Loc      SourceLocation
}

func (f *Field) node() {}

// Location returns the location of the field
func (f *Field) Location() SourceLocation {
	return f.Loc
}

// DeclaredName returns the name the field is selected by. An embedded field
// takes the base name of its type: *pkg.List[T] is selected as List.
func (f *Field) DeclaredName() string {
	if !f.Embedded {
		return f.Name
	}
	t := f.Type
	for t != nil && t.Kind == TypePointer && len(t.Args) == 1 {
		t = t.Args[0]
	}
	if t == nil || t.Kind != TypeNamed {
		return ""
	}
	name := t.Name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Directive is a ringgen:buffer annotation
type Directive struct {
	Loc      SourceLocation
	Capacity CapacityArgument
}

func (d *Directive) node() {}

// Location returns the location of the directive comment
func (d *Directive) Location() SourceLocation {
	return d.Loc
}

// CapacityArgument is the raw capacity token of a directive
type CapacityArgument struct {
	Text string
	Loc  SourceLocation
}
