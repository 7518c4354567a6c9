package codegen

import (
	"strings"

	"github.com/conduit-lang/ringgen/internal/compiler/ast"
)

// generateStruct writes the augmented struct declaration
func (g *Generator) generateStruct(decl *ast.Declaration) {
	for _, line := range docLines(decl.Doc) {
		g.writeLine("%s", line)
	}

	g.writeLine("type %s%s struct {", decl.Name, typeParamList(decl.TypeParams))
	g.indent++
	for _, f := range decl.Fields {
		g.writeLine("%s", fieldLine(f))
	}
	g.indent--
	g.writeLine("}")
}

func fieldLine(f *ast.Field) string {
	parts := make([]string, 0, 4)
	if !f.Embedded {
		parts = append(parts, f.Name)
	}
	parts = append(parts, f.Type.Src)
	if f.Tag != "" {
		parts = append(parts, f.Tag)
	}
	if f.Comment != "" {
		parts = append(parts, "// "+strings.ReplaceAll(f.Comment, "\n", " "))
	}
	return strings.Join(parts, " ")
}

// docLines drops go:generate lines, which would rerun the generator on its own
// output, and trailing empty comment lines left behind by the removed directive.
func docLines(doc []string) []string {
	out := make([]string, 0, len(doc))
	for _, line := range doc {
		if strings.HasPrefix(line, "//go:generate") {
			continue
		}
		out = append(out, line)
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "//" {
		out = out[:len(out)-1]
	}
	return out
}

// typeParamList renders "[K comparable, V any]", or "" without type parameters
func typeParamList(params []ast.TypeParam) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + p.Constraint
	}
	list := strings.Join(parts, ", ")
	// [P *C] would read as an array length expression
	if len(params) == 1 && strings.HasPrefix(params[0].Constraint, "*") {
		list += ","
	}
	return "[" + list + "]"
}

// typeArgList renders "[K, V]", or "" without type parameters
func typeArgList(params []ast.TypeParam) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}
