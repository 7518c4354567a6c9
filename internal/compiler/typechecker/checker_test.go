package typechecker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/ringgen/compiler/errors"
	"github.com/conduit-lang/ringgen/internal/compiler/ast"
)

func sliceOf(elem string) *ast.TypeExpr {
	return &ast.TypeExpr{
		Kind: ast.TypeSlice,
		Src:  "[]" + elem,
		Args: []*ast.TypeExpr{{Kind: ast.TypeNamed, Name: elem, Src: elem}},
		Pos:  ast.SourceLocation{File: "b.go", Line: 5, Column: 7, Length: 2 + len(elem)},
	}
}

func named(name string) *ast.TypeExpr {
	return &ast.TypeExpr{Kind: ast.TypeNamed, Name: name, Src: name,
		Pos: ast.SourceLocation{File: "b.go", Line: 5, Column: 7, Length: len(name)}}
}

func declWith(fields ...*ast.Field) *ast.Declaration {
	return &ast.Declaration{
		Name:       "Buf",
		NamePos:    ast.SourceLocation{File: "b.go", Line: 4, Column: 6, Length: 3},
		Kind:       ast.KindStruct,
		FieldStyle: ast.FieldsNamed,
		Fields:     fields,
	}
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	ce, ok := errors.AsCompilerError(err)
	require.True(t, ok, "expected CompilerError, got %T", err)
	return ce.Code
}

func TestCheckShape_Accepts(t *testing.T) {
	data := &ast.Field{Name: "data", Type: sliceOf("int")}
	decl := declWith(&ast.Field{Name: "label", Type: named("string")}, data)

	got, err := CheckShape(decl)
	require.NoError(t, err)
	assert.Same(t, data, got)
}

func TestCheckShape_Failures(t *testing.T) {
	tests := []struct {
		name string
		decl *ast.Declaration
		code string
	}{
		{
			name: "not a struct",
			decl: &ast.Declaration{Name: "Buf", Kind: ast.KindOther},
			code: errors.ErrNotAStruct,
		},
		{
			name: "not a struct wins over field style",
			decl: &ast.Declaration{Name: "Buf", Kind: ast.KindOther, FieldStyle: ast.FieldsUnit},
			code: errors.ErrNotAStruct,
		},
		{
			name: "unit struct",
			decl: &ast.Declaration{Name: "Buf", Kind: ast.KindStruct, FieldStyle: ast.FieldsUnit},
			code: errors.ErrNotNamedFields,
		},
		{
			name: "positional struct",
			decl: &ast.Declaration{Name: "Buf", Kind: ast.KindStruct, FieldStyle: ast.FieldsPositional,
				Fields: []*ast.Field{{Embedded: true, Type: sliceOf("int")}}},
			code: errors.ErrNotNamedFields,
		},
		{
			name: "no data field",
			decl: declWith(&ast.Field{Name: "items", Type: sliceOf("int")}),
			code: errors.ErrMissingDataField,
		},
		{
			name: "case sensitive",
			decl: declWith(&ast.Field{Name: "Data", Type: sliceOf("int")}),
			code: errors.ErrMissingDataField,
		},
		{
			name: "missing data wins over reserved",
			decl: declWith(&ast.Field{Name: "head", Type: named("int")}),
			code: errors.ErrMissingDataField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, err := CheckShape(tt.decl)
			assert.Nil(t, field)
			require.Error(t, err)
			assert.Equal(t, tt.code, codeOf(t, err))
		})
	}
}

func TestCheckShape_IgnoresReservedNames(t *testing.T) {
	data := &ast.Field{Name: "data", Type: sliceOf("int")}
	got, err := CheckShape(declWith(data, &ast.Field{Name: "size", Type: named("int")}))
	require.NoError(t, err)
	assert.Same(t, data, got)
}

func TestCheckShape_Messages(t *testing.T) {
	_, err := CheckShape(&ast.Declaration{Name: "Buf", Kind: ast.KindOther})
	assert.Contains(t, err.Error(), "ringgen:buffer can only be applied to struct types")

	_, err = CheckShape(&ast.Declaration{Kind: ast.KindStruct, FieldStyle: ast.FieldsUnit})
	assert.Contains(t, err.Error(), "ringgen:buffer only works with structs with named fields")

	_, err = CheckShape(declWith(&ast.Field{Name: "items", Type: sliceOf("int")}))
	assert.Contains(t, err.Error(), "ringgen:buffer requires a field named 'data' of type []T")

	ce, _ := errors.AsCompilerError(err)
	assert.Equal(t, 4, ce.Location.Line)
	assert.Equal(t, 6, ce.Location.Column)
	assert.Nil(t, ce.Suggestion)
}

func TestCheckShape_MissingDataSuggestion(t *testing.T) {
	_, err := CheckShape(declWith(&ast.Field{Name: "dta", Type: sliceOf("int")}))
	ce, ok := errors.AsCompilerError(err)
	require.True(t, ok)
	require.NotNil(t, ce.Suggestion)
	assert.Equal(t, "dta", ce.Suggestion.OldCode)
	assert.Equal(t, "data", ce.Suggestion.NewCode)
}

func TestExtractElementType(t *testing.T) {
	elem, err := ExtractElementType(&ast.Field{Name: "data", Type: sliceOf("int")})
	require.NoError(t, err)
	assert.Equal(t, "int", elem.Src)

	nested := &ast.TypeExpr{Kind: ast.TypeSlice, Src: "[][]byte", Args: []*ast.TypeExpr{sliceOf("byte")}}
	elem, err = ExtractElementType(&ast.Field{Name: "data", Type: nested})
	require.NoError(t, err)
	assert.Equal(t, "[]byte", elem.Src)
}

func TestExtractElementType_Rejects(t *testing.T) {
	tests := []struct {
		name string
		typ  *ast.TypeExpr
	}{
		{"array", &ast.TypeExpr{Kind: ast.TypeArray, Src: "[4]int", Args: []*ast.TypeExpr{named("int")}}},
		{"named", named("Items")},
		{"generic named", &ast.TypeExpr{Kind: ast.TypeNamed, Name: "List", Src: "List[int]", Args: []*ast.TypeExpr{named("int")}}},
		{"map", &ast.TypeExpr{Kind: ast.TypeMap, Src: "map[int]int", Args: []*ast.TypeExpr{named("int"), named("int")}}},
		{"pointer to slice", &ast.TypeExpr{Kind: ast.TypePointer, Src: "*[]int", Args: []*ast.TypeExpr{sliceOf("int")}}},
		{"chan", &ast.TypeExpr{Kind: ast.TypeChan, Src: "chan int", Args: []*ast.TypeExpr{named("int")}}},
		{"func", &ast.TypeExpr{Kind: ast.TypeFunc, Src: "func() []int"}},
		{"slice without element", &ast.TypeExpr{Kind: ast.TypeSlice, Src: "[]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elem, err := ExtractElementType(&ast.Field{Name: "data", Type: tt.typ})
			assert.Nil(t, elem)
			require.Error(t, err)
			assert.Equal(t, errors.ErrInvalidDataFieldType, codeOf(t, err))
			assert.Contains(t, err.Error(), "data field must be of type []T")
		})
	}
}

func TestExtractElementType_LocatesFieldType(t *testing.T) {
	_, err := ExtractElementType(&ast.Field{Name: "data", Type: named("Items")})
	ce, _ := errors.AsCompilerError(err)
	assert.Equal(t, 5, ce.Location.Line)
	assert.Equal(t, 7, ce.Location.Column)
	assert.Equal(t, 5, ce.Location.Length)
}

func TestCheckReservedFields(t *testing.T) {
	data := &ast.Field{Name: "data", Type: sliceOf("int")}
	pointer := &ast.TypeExpr{Kind: ast.TypePointer, Src: "*sync.Mutex", Args: []*ast.TypeExpr{named("sync.Mutex")}}
	generic := &ast.TypeExpr{Kind: ast.TypeNamed, Name: "pkg.tail", Src: "pkg.tail[int]", Args: []*ast.TypeExpr{named("int")}}

	tests := []struct {
		name  string
		field *ast.Field
		want  string
	}{
		{"named", &ast.Field{Name: "size", Type: named("int")}, "size"},
		{"embedded", &ast.Field{Embedded: true, Type: named("head")}, "head"},
		{"embedded pointer", &ast.Field{Embedded: true, Type: &ast.TypeExpr{Kind: ast.TypePointer, Src: "*capacity", Args: []*ast.TypeExpr{named("capacity")}}}, "capacity"},
		{"embedded qualified generic", &ast.Field{Embedded: true, Type: generic}, "tail"},
		{"allowed embedded", &ast.Field{Embedded: true, Type: pointer}, ""},
		{"allowed named", &ast.Field{Name: "label", Type: named("string")}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckReservedFields(declWith(data, tt.field))
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, errors.ErrReservedFieldName, codeOf(t, err))
			assert.Contains(t, err.Error(), "field '"+tt.want+"' is reserved")
		})
	}
}

func TestCheckTypeParams(t *testing.T) {
	decl := declWith(&ast.Field{Name: "data", Type: sliceOf("T")})
	decl.TypeParams = []ast.TypeParam{{Name: "T", Constraint: "any"}, {Name: "item", Constraint: "any"}}
	assert.NoError(t, CheckTypeParams(decl))

	for _, name := range []string{"int", "bool", "len"} {
		decl.TypeParams = []ast.TypeParam{{Name: name, Constraint: "any"}}
		err := CheckTypeParams(decl)
		require.Error(t, err, name)
		assert.Equal(t, errors.ErrReservedTypeParam, codeOf(t, err))
		assert.Contains(t, err.Error(), "type parameter '"+name+"'")
	}
}
