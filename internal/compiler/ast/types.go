package ast

// TypeKind discriminates TypeExpr shapes
type TypeKind int

const (
	// TypeNamed is an identifier or qualified identifier, optionally instantiated
	TypeNamed TypeKind = iota
	// TypeSlice is []E
	TypeSlice
	// TypeArray is [N]E
	TypeArray
	// TypeMap is map[K]V
	TypeMap
	// TypePointer is *E
	TypePointer
	// TypeFunc is a function type
	TypeFunc
	// TypeChan is a channel type
	TypeChan
	// TypeInterface is an interface literal
	TypeInterface
	// TypeStruct is a struct literal
	TypeStruct
	// TypeOther is anything the model does not distinguish
	TypeOther
)

var typeKindNames = map[TypeKind]string{
	TypeNamed:     "named",
	TypeSlice:     "slice",
	TypeArray:     "array",
	TypeMap:       "map",
	TypePointer:   "pointer",
	TypeFunc:      "func",
	TypeChan:      "chan",
	TypeInterface: "interface",
	TypeStruct:    "struct",
	TypeOther:     "other",
}

func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// TypeExpr is a structural description of a declared type.
//
// Args holds the generic arguments of a named type, the element of a slice,
// array, pointer or chan, and the key and value of a map.
type TypeExpr struct {
	Kind TypeKind
	Name string
	Args []*TypeExpr
	Src  string
	Pos  SourceLocation
}

func (t *TypeExpr) node() {}

// Location returns the span of the type expression
func (t *TypeExpr) Location() SourceLocation {
	return t.Pos
}

func (t *TypeExpr) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Src
}
