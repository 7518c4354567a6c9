// Package typechecker validates annotated declarations before code generation.
//
// The checks are structural only: the generator never resolves types, so a
// declaration passes when its shape is right even if its element type would
// not compile.
package typechecker

import (
	"fmt"
	"slices"
	"strings"

	"github.com/conduit-lang/ringgen/compiler/errors"
	"github.com/conduit-lang/ringgen/internal/compiler/ast"
	ustrings "github.com/conduit-lang/ringgen/internal/util/strings"
)

// DataField is the name of the container field
const DataField = "data"

// ReservedFields are injected by the generator and may not be declared
var ReservedFields = []string{"capacity", "head", "tail", "size"}

// PredeclaredIdents are the predeclared identifiers the generated code refers
// to. A type parameter with one of these names would shadow it.
var PredeclaredIdents = []string{"append", "bool", "false", "int", "len", "make", "true"}

// CheckShape validates that decl is a struct with named fields, one of which
// is called "data", and returns that field. The first failing check wins.
func CheckShape(decl *ast.Declaration) (*ast.Field, error) {
	loc := decl.NamePos.ErrorLocation()

	if decl.Kind != ast.KindStruct {
		return nil, errors.NewCompilerError(
			errors.PhaseShape,
			errors.ErrNotAStruct,
			"ringgen:buffer can only be applied to struct types",
			loc,
			errors.Error,
		)
	}

	if decl.FieldStyle != ast.FieldsNamed {
		return nil, errors.NewCompilerError(
			errors.PhaseShape,
			errors.ErrNotNamedFields,
			"ringgen:buffer only works with structs with named fields",
			loc,
			errors.Error,
		)
	}

	data := decl.FieldByName(DataField)
	if data == nil {
		err := errors.NewCompilerError(
			errors.PhaseShape,
			errors.ErrMissingDataField,
			"ringgen:buffer requires a field named 'data' of type []T",
			loc,
			errors.Error,
		)
		if similar := ustrings.FindSimilar(DataField, decl.FieldNames(), 2); len(similar) > 0 {
			err = err.WithSuggestion(errors.FixSuggestion{
				Description: fmt.Sprintf("Did you mean to name field '%s' 'data'?", similar[0]),
				OldCode:     similar[0],
				NewCode:     DataField,
				Confidence:  0.8,
			})
		}
		return nil, err
	}

	return data, nil
}

// ExtractElementType returns E for a data field declared as []E
func ExtractElementType(field *ast.Field) (*ast.TypeExpr, error) {
	typ := field.Type
	if typ != nil && typ.Kind == ast.TypeSlice && len(typ.Args) == 1 {
		return typ.Args[0], nil
	}

	loc := field.Loc
	if typ != nil {
		loc = typ.Pos
	}
	return nil, errors.NewCompilerError(
		errors.PhaseElement,
		errors.ErrInvalidDataFieldType,
		"data field must be of type []T",
		loc.ErrorLocation(),
		errors.Error,
	)
}

// CheckReservedFields reports a declared field, embedded ones included, whose
// name collides with a field the generator injects.
func CheckReservedFields(decl *ast.Declaration) error {
	for _, f := range decl.Fields {
		name := f.DeclaredName()
		if !slices.Contains(ReservedFields, name) {
			continue
		}
		return errors.NewCompilerError(
			errors.PhaseShape,
			errors.ErrReservedFieldName,
			fmt.Sprintf("field '%s' is reserved by ringgen:buffer (reserved: %s)", name, strings.Join(ReservedFields, ", ")),
			f.Loc.ErrorLocation(),
			errors.Error,
		)
	}
	return nil
}

// CheckTypeParams reports a type parameter that shadows an identifier used by
// the generated methods.
func CheckTypeParams(decl *ast.Declaration) error {
	for _, tp := range decl.TypeParams {
		if !slices.Contains(PredeclaredIdents, tp.Name) {
			continue
		}
		return errors.NewCompilerError(
			errors.PhaseShape,
			errors.ErrReservedTypeParam,
			fmt.Sprintf("type parameter '%s' shadows the predeclared identifier used by generated code", tp.Name),
			decl.NamePos.ErrorLocation(),
			errors.Error,
		)
	}
	return nil
}
