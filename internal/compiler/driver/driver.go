// Package driver runs the ring buffer pipeline.
//
// For each annotated declaration the stages run in a fixed order and the first
// failure stops that declaration:
//
//	capacity -> shape -> element type -> reserved names -> field injection -> synthesis
//
// Compiler applies the pipeline to whole inputs, collects every diagnostic and
// produces an output file only when no declaration failed.
package driver

import (
	"fmt"

	"github.com/conduit-lang/ringgen/compiler/errors"
	"github.com/conduit-lang/ringgen/internal/compiler/ast"
	"github.com/conduit-lang/ringgen/internal/compiler/codegen"
	"github.com/conduit-lang/ringgen/internal/compiler/parser"
	"github.com/conduit-lang/ringgen/internal/compiler/typechecker"
)

// Expand runs the full pipeline for one declaration
func Expand(decl *ast.Declaration, opts Options) (*codegen.Expansion, error) {
	return expand(codegen.NewGenerator(codegen.Options{Receiver: opts.Receiver}), decl)
}

func expand(gen *codegen.Generator, decl *ast.Declaration) (*codegen.Expansion, error) {
	if decl.Directive == nil {
		return nil, errors.NewCompilerError(
			errors.PhaseCapacity,
			errors.ErrInvalidCapacity,
			"capacity must be a valid unsigned integer (missing capacity argument)",
			decl.NamePos.ErrorLocation(),
			errors.Error,
		)
	}

	capacity, err := parser.ParseCapacity(decl.Directive.Capacity)
	if err != nil {
		return nil, err
	}

	data, err := typechecker.CheckShape(decl)
	if err != nil {
		return nil, err
	}

	elem, err := typechecker.ExtractElementType(data)
	if err != nil {
		return nil, err
	}

	if err := typechecker.CheckReservedFields(decl); err != nil {
		return nil, err
	}

	if f := codegen.ConflictingField(decl); f != nil {
		return nil, errors.NewCompilerError(
			errors.PhaseShape,
			errors.ErrReservedFieldName,
			fmt.Sprintf("field '%s' conflicts with the generated method of the same name", f.DeclaredName()),
			f.Loc.ErrorLocation(),
			errors.Error,
		)
	}

	if err := typechecker.CheckTypeParams(decl); err != nil {
		return nil, err
	}

	return gen.Expand(codegen.InjectFields(decl), capacity, elem), nil
}
