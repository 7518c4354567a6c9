// Package parser reads ring buffer declarations out of Go source files.
// It is the host front-end: go/parser does the syntax work and this package
// converts annotated type declarations into the generator's ast model.
package parser

import (
	"fmt"
	goast "go/ast"
	goparser "go/parser"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"github.com/conduit-lang/ringgen/compiler/errors"
	"github.com/conduit-lang/ringgen/internal/compiler/ast"
)

// DefaultDirective is the comment marker that requests a ring buffer
const DefaultDirective = "ringgen:buffer"

// Parser converts one Go source file into an ast.File
type Parser struct {
	directive string
	fset      *token.FileSet
	src       []byte
	filename  string
	consumed  map[*goast.Comment]bool
}

// New creates a parser recognizing the given directive ("" selects DefaultDirective)
func New(directive string) *Parser {
	if directive == "" {
		directive = DefaultDirective
	}
	return &Parser{directive: directive}
}

// ParseFile parses src as a Go file and returns every annotated declaration.
// Syntax errors are reported as E300 diagnostics and yield a nil file.
func (p *Parser) ParseFile(filename string, src []byte) (*ast.File, []errors.CompilerError) {
	p.fset = token.NewFileSet()
	p.src = src
	p.filename = filename
	p.consumed = make(map[*goast.Comment]bool)

	f, err := goparser.ParseFile(p.fset, filename, src, goparser.ParseComments|goparser.SkipObjectResolution)
	if err != nil {
		return nil, syntaxErrors(filename, err)
	}

	file := &ast.File{
		Path:    filename,
		Package: f.Name.Name,
		Imports: convertImports(f.Imports),
	}

	for _, decl := range f.Decls {
		gen, ok := decl.(*goast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*goast.TypeSpec)
			doc := ts.Doc
			if doc == nil && !gen.Lparen.IsValid() {
				doc = gen.Doc
			}
			directive := p.findDirective(doc)
			if directive == nil {
				continue
			}
			file.Declarations = append(file.Declarations, p.convertTypeSpec(ts, doc, directive))
		}
	}

	for _, group := range f.Comments {
		for _, c := range group.List {
			if p.consumed[c] {
				continue
			}
			if d := p.parseDirective(c); d != nil {
				file.Orphans = append(file.Orphans, d)
			}
		}
	}

	return file, nil
}

// findDirective returns the first directive in a doc comment group
func (p *Parser) findDirective(doc *goast.CommentGroup) *ast.Directive {
	if doc == nil {
		return nil
	}
	for _, c := range doc.List {
		if d := p.parseDirective(c); d != nil {
			p.consumed[c] = true
			return d
		}
	}
	return nil
}

// parseDirective recognizes "//ringgen:buffer <capacity>" and locates the capacity token
func (p *Parser) parseDirective(c *goast.Comment) *ast.Directive {
	marker := "//" + p.directive
	if !strings.HasPrefix(c.Text, marker) {
		return nil
	}

	rest := c.Text[len(marker):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil
	}

	start := p.location(c.Pos(), len(c.Text))
	trimmed := strings.TrimLeft(rest, " \t")
	arg := strings.TrimRight(trimmed, " \t")

	argLoc := start
	if arg != "" {
		offset := len(marker) + len(rest) - len(trimmed)
		argLoc = p.location(c.Pos()+token.Pos(offset), len(arg))
	}

	return &ast.Directive{
		Loc: start,
		Capacity: ast.CapacityArgument{
			Text: arg,
			Loc:  argLoc,
		},
	}
}

func (p *Parser) convertTypeSpec(ts *goast.TypeSpec, doc *goast.CommentGroup, directive *ast.Directive) *ast.Declaration {
	decl := &ast.Declaration{
		Name:      ts.Name.Name,
		NamePos:   p.location(ts.Name.Pos(), len(ts.Name.Name)),
		Directive: directive,
		Kind:      ast.KindOther,
	}
	if goast.IsExported(ts.Name.Name) {
		decl.Visibility = ast.Exported
	}

	if doc != nil {
		for _, c := range doc.List {
			if !p.consumed[c] {
				decl.Doc = append(decl.Doc, c.Text)
			}
		}
	}

	if ts.TypeParams != nil {
		for _, field := range ts.TypeParams.List {
			constraint := p.text(field.Type)
			for _, name := range field.Names {
				decl.TypeParams = append(decl.TypeParams, ast.TypeParam{
					Name:       name.Name,
					Constraint: constraint,
				})
			}
		}
	}

	st, ok := ts.Type.(*goast.StructType)
	if !ok || ts.Assign.IsValid() {
		return decl
	}
	decl.Kind = ast.KindStruct

	named := 0
	for _, field := range st.Fields.List {
		typ := p.convertType(field.Type)
		tag := ""
		if field.Tag != nil {
			tag = field.Tag.Value
		}
		comment := ""
		if field.Comment != nil {
			comment = strings.TrimSpace(field.Comment.Text())
		}

		if len(field.Names) == 0 {
			decl.Fields = append(decl.Fields, &ast.Field{
				Type:     typ,
				Tag:      tag,
				Comment:  comment,
				Embedded: true,
				Loc:      typ.Pos,
			})
			continue
		}
		for _, name := range field.Names {
			named++
			decl.Fields = append(decl.Fields, &ast.Field{
				Name:    name.Name,
				Type:    typ,
				Tag:     tag,
				Comment: comment,
				Loc:     p.location(name.Pos(), len(name.Name)),
			})
		}
	}

	switch {
	case len(decl.Fields) == 0:
		decl.FieldStyle = ast.FieldsUnit
	case named == 0:
		decl.FieldStyle = ast.FieldsPositional
	default:
		decl.FieldStyle = ast.FieldsNamed
	}

	return decl
}

// convertType builds the structural TypeExpr for a Go type expression
func (p *Parser) convertType(expr goast.Expr) *ast.TypeExpr {
	src := p.text(expr)
	t := &ast.TypeExpr{
		Kind: ast.TypeOther,
		Src:  src,
		Pos:  p.location(expr.Pos(), len(src)),
	}

	switch e := expr.(type) {
	case *goast.Ident:
		t.Kind = ast.TypeNamed
		t.Name = e.Name
	case *goast.SelectorExpr:
		t.Kind = ast.TypeNamed
		t.Name = p.text(e)
	case *goast.IndexExpr:
		t.Kind = ast.TypeNamed
		t.Name = p.text(e.X)
		t.Args = []*ast.TypeExpr{p.convertType(e.Index)}
	case *goast.IndexListExpr:
		t.Kind = ast.TypeNamed
		t.Name = p.text(e.X)
		for _, idx := range e.Indices {
			t.Args = append(t.Args, p.convertType(idx))
		}
	case *goast.ArrayType:
		t.Kind = ast.TypeSlice
		if e.Len != nil {
			t.Kind = ast.TypeArray
		}
		t.Args = []*ast.TypeExpr{p.convertType(e.Elt)}
	case *goast.MapType:
		t.Kind = ast.TypeMap
		t.Args = []*ast.TypeExpr{p.convertType(e.Key), p.convertType(e.Value)}
	case *goast.StarExpr:
		t.Kind = ast.TypePointer
		t.Args = []*ast.TypeExpr{p.convertType(e.X)}
	case *goast.ChanType:
		t.Kind = ast.TypeChan
		t.Args = []*ast.TypeExpr{p.convertType(e.Value)}
	case *goast.FuncType:
		t.Kind = ast.TypeFunc
	case *goast.InterfaceType:
		t.Kind = ast.TypeInterface
	case *goast.StructType:
		t.Kind = ast.TypeStruct
	case *goast.ParenExpr:
		inner := p.convertType(e.X)
		inner.Src = src
		inner.Pos = t.Pos
		return inner
	}

	return t
}

// text returns the exact source text of a node
func (p *Parser) text(n goast.Node) string {
	start := p.fset.Position(n.Pos()).Offset
	end := p.fset.Position(n.End()).Offset
	if start < 0 || end > len(p.src) || start > end {
		return ""
	}
	return string(p.src[start:end])
}

func (p *Parser) location(pos token.Pos, length int) ast.SourceLocation {
	position := p.fset.Position(pos)
	return ast.SourceLocation{
		File:   p.filename,
		Line:   position.Line,
		Column: position.Column,
		Length: length,
	}
}

func convertImports(specs []*goast.ImportSpec) []ast.Import {
	imports := make([]ast.Import, 0, len(specs))
	for _, spec := range specs {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := ast.Import{Path: path}
		if spec.Name != nil {
			imp.Alias = spec.Name.Name
		}
		imports = append(imports, imp)
	}
	return imports
}

// syntaxErrors converts go/parser failures into E300 diagnostics
func syntaxErrors(filename string, err error) []errors.CompilerError {
	list, ok := err.(scanner.ErrorList)
	if !ok {
		return []errors.CompilerError{errors.NewCompilerError(
			errors.PhaseParser, errors.ErrSyntax, err.Error(),
			errors.SourceLocation{File: filename, Line: 1, Column: 1}, errors.Error)}
	}

	out := make([]errors.CompilerError, 0, len(list))
	for _, e := range list {
		out = append(out, errors.NewCompilerError(
			errors.PhaseParser,
			errors.ErrSyntax,
			e.Msg,
			errors.SourceLocation{
				File:   filename,
				Line:   e.Pos.Line,
				Column: e.Pos.Column,
			},
			errors.Error,
		))
	}
	return out
}

// ParseTypeExpr parses a standalone Go type expression. Positions in the
// result are offsets from loc, which should point at the start of src.
func ParseTypeExpr(src string, loc ast.SourceLocation) (*ast.TypeExpr, error) {
	p := &Parser{
		fset:     token.NewFileSet(),
		src:      []byte(src),
		filename: loc.File,
	}
	expr, err := goparser.ParseExprFrom(p.fset, loc.File, p.src, 0)
	if err != nil {
		return nil, err
	}

	switch expr.(type) {
	case *goast.Ident, *goast.SelectorExpr, *goast.IndexExpr, *goast.IndexListExpr,
		*goast.ArrayType, *goast.MapType, *goast.StarExpr, *goast.ChanType,
		*goast.FuncType, *goast.InterfaceType, *goast.StructType, *goast.ParenExpr:
	default:
		return nil, fmt.Errorf("%q is not a type expression", src)
	}

	t := p.convertType(expr)
	relocate(t, func(pos ast.SourceLocation) ast.SourceLocation {
		// expressions are single-line, so only the column moves
		return ast.SourceLocation{
			File:   loc.File,
			Line:   loc.Line,
			Column: loc.Column + pos.Column - 1,
			Length: pos.Length,
		}
	})
	return t, nil
}

func relocate(t *ast.TypeExpr, fn func(ast.SourceLocation) ast.SourceLocation) {
	t.Pos = fn(t.Pos)
	for _, arg := range t.Args {
		relocate(arg, fn)
	}
}
