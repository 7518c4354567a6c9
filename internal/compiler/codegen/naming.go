package codegen

import (
	"fmt"
	"go/token"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/conduit-lang/ringgen/internal/compiler/ast"
	ustrings "github.com/conduit-lang/ringgen/internal/util/strings"
)

// MethodSet holds the names of the synthesized operations
type MethodSet struct {
	Enqueue string
	Dequeue string
	IsFull  string
	IsEmpty string
	Len     string
	Cap     string
	Clear   string
}

// All returns the method names in emission order
func (m MethodSet) All() []string {
	return []string{m.Enqueue, m.Dequeue, m.IsFull, m.IsEmpty, m.Len, m.Cap, m.Clear}
}

// MethodNames returns the operation names for a declaration of the given visibility
func MethodNames(v ast.Visibility) MethodSet {
	if v == ast.Exported {
		return MethodSet{
			Enqueue: "Enqueue",
			Dequeue: "Dequeue",
			IsFull:  "IsFull",
			IsEmpty: "IsEmpty",
			Len:     "Len",
			Cap:     "Cap",
			Clear:   "Clear",
		}
	}
	return MethodSet{
		Enqueue: "enqueue",
		Dequeue: "dequeue",
		IsFull:  "isFull",
		IsEmpty: "isEmpty",
		Len:     "len",
		Cap:     "cap",
		Clear:   "clear",
	}
}

// ConstructorName returns NewX for exported declarations and newX otherwise
func ConstructorName(decl *ast.Declaration) string {
	if decl.Visibility == ast.Exported {
		return "New" + decl.Name
	}
	return "new" + ustrings.UpperFirst(decl.Name)
}

// ConflictingField returns the first declared field, embedded ones included,
// whose name equals one of the generated method names, or nil.
func ConflictingField(decl *ast.Declaration) *ast.Field {
	methods := MethodNames(decl.Visibility).All()
	for _, f := range decl.Fields {
		if slices.Contains(methods, f.DeclaredName()) {
			return f
		}
	}
	return nil
}

// Locals names the parameters and results declared by the generated methods
type Locals struct {
	Item     string
	Rejected string
	OK       string
}

// chooseLocals picks the parameter and result names. Receiver type parameters
// share the method scope, so a name taken by a type parameter or a package
// qualifier gets a numeric suffix.
func chooseLocals(decl *ast.Declaration, qualifiers []string) Locals {
	taken := declNames(decl, qualifiers)
	pick := func(base string) string {
		name := base
		for i := 0; taken[name]; i++ {
			name = fmt.Sprintf("%s%d", base, i)
		}
		taken[name] = true
		return name
	}
	return Locals{
		Item:     pick("item"),
		Rejected: pick("rejected"),
		OK:       pick("ok"),
	}
}

// chooseReceiver picks the receiver name: the requested one, else the lower-cased
// first letter of the type name, else rb, rb0, rb1, ... whichever is free first.
func chooseReceiver(decl *ast.Declaration, qualifiers []string, locals Locals, requested string) string {
	taken := declNames(decl, qualifiers)
	taken[locals.Item] = true
	taken[locals.Rejected] = true
	taken[locals.OK] = true

	free := func(name string) bool {
		return name != "" && name != "_" && token.IsIdentifier(name) && !taken[name]
	}

	if free(requested) {
		return requested
	}

	r, _ := utf8.DecodeRuneInString(decl.Name)
	if first := string(unicode.ToLower(r)); free(first) {
		return first
	}
	if free("rb") {
		return "rb"
	}
	for i := 0; ; i++ {
		if name := fmt.Sprintf("rb%d", i); free(name) {
			return name
		}
	}
}

func declNames(decl *ast.Declaration, qualifiers []string) map[string]bool {
	taken := make(map[string]bool)
	for _, tp := range decl.TypeParams {
		taken[tp.Name] = true
	}
	for _, q := range qualifiers {
		taken[q] = true
	}
	return taken
}
