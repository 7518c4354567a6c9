package codegen

import (
	"github.com/conduit-lang/ringgen/internal/compiler/ast"
)

// BookkeepingFields are appended to every ring buffer struct, in this order
var BookkeepingFields = []string{"capacity", "head", "tail", "size"}

// InjectFields returns a copy of decl with the capacity, head, tail and size
// fields appended after the declared fields. decl itself is not modified.
func InjectFields(decl *ast.Declaration) *ast.Declaration {
	out := *decl
	out.Fields = make([]*ast.Field, 0, len(decl.Fields)+len(BookkeepingFields))
	out.Fields = append(out.Fields, decl.Fields...)

	for _, name := range BookkeepingFields {
		out.Fields = append(out.Fields, &ast.Field{
			Name: name,
			Type: &ast.TypeExpr{Kind: ast.TypeNamed, Name: "int", Src: "int"},
			Loc:  decl.NamePos,
		})
	}
	return &out
}
