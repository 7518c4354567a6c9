package codegen

import (
	"github.com/conduit-lang/ringgen/internal/compiler/typechecker"
)

// generateConstructor writes NewX, which returns an empty buffer with the
// declared capacity and storage reserved up front.
func (g *Generator) generateConstructor(exp *Expansion) {
	decl := exp.Decl
	name := ConstructorName(decl)
	typ := decl.Name + typeArgList(decl.TypeParams)
	data := decl.FieldByName(typechecker.DataField)

	g.writeLine("// %s returns an empty %s with capacity %d.", name, decl.Name, exp.Capacity)
	g.writeLine("func %s%s() *%s {", name, typeParamList(decl.TypeParams), typ)
	g.indent++
	g.writeLine("return &%s{", typ)
	g.indent++
	g.writeLine("data: make(%s, 0, %d),", data.Type.Src, exp.Capacity)
	g.writeLine("capacity: %d,", exp.Capacity)
	g.writeLine("head: 0,")
	g.writeLine("tail: 0,")
	g.writeLine("size: 0,")
	g.indent--
	g.writeLine("}")
	g.indent--
	g.writeLine("}")
}

// generateMethods writes the operation set. Storage grows by append until it
// reaches capacity and is overwritten in place afterwards; head and tail wrap
// modulo capacity.
func (g *Generator) generateMethods(exp *Expansion) {
	r := exp.Receiver
	l := exp.Locals
	m := exp.Methods
	recv := "(" + r + " *" + exp.Decl.Name + typeArgList(exp.Decl.TypeParams) + ")"
	elem := exp.Element.Src

	g.writeLine("")
	g.writeLine("// %s adds %s at the tail. When the buffer is full %s is returned", m.Enqueue, l.Item, l.Item)
	g.writeLine("// unchanged with %s set to false.", l.OK)
	g.writeLine("func %s %s(%s %s) (%s %s, %s bool) {", recv, m.Enqueue, l.Item, elem, l.Rejected, elem, l.OK)
	g.indent++
	g.writeLine("if %s.%s() {", r, m.IsFull)
	g.writeLine("\treturn %s, false", l.Item)
	g.writeLine("}")
	g.writeLine("if len(%s.data) <= %s.tail {", r, r)
	g.writeLine("\t%s.data = append(%s.data, %s)", r, r, l.Item)
	g.writeLine("} else {")
	g.writeLine("\t%s.data[%s.tail] = %s", r, r, l.Item)
	g.writeLine("}")
	g.writeLine("%s.tail = (%s.tail + 1) %% %s.capacity", r, r, r)
	g.writeLine("%s.size++", r)
	g.writeLine("return %s, true", l.Rejected)
	g.indent--
	g.writeLine("}")

	g.writeLine("")
	g.writeLine("// %s removes and returns the item at the head. %s is false when the", m.Dequeue, l.OK)
	g.writeLine("// buffer is empty.")
	g.writeLine("func %s %s() (%s %s, %s bool) {", recv, m.Dequeue, l.Item, elem, l.OK)
	g.indent++
	g.writeLine("if %s.%s() {", r, m.IsEmpty)
	g.writeLine("\treturn %s, false", l.Item)
	g.writeLine("}")
	g.writeLine("%s = %s.data[%s.head]", l.Item, r, r)
	g.writeLine("%s.head = (%s.head + 1) %% %s.capacity", r, r, r)
	g.writeLine("%s.size--", r)
	g.writeLine("return %s, true", l.Item)
	g.indent--
	g.writeLine("}")

	g.writeLine("")
	g.writeLine("// %s reports whether the buffer holds capacity items.", m.IsFull)
	g.writeLine("func %s %s() bool {", recv, m.IsFull)
	g.writeLine("\treturn %s.size == %s.capacity", r, r)
	g.writeLine("}")

	g.writeLine("")
	g.writeLine("// %s reports whether the buffer holds no items.", m.IsEmpty)
	g.writeLine("func %s %s() bool {", recv, m.IsEmpty)
	g.writeLine("\treturn %s.size == 0", r)
	g.writeLine("}")

	g.writeLine("")
	g.writeLine("// %s returns the number of items in the buffer.", m.Len)
	g.writeLine("func %s %s() int {", recv, m.Len)
	g.writeLine("\treturn %s.size", r)
	g.writeLine("}")

	g.writeLine("")
	g.writeLine("// %s returns the fixed capacity of the buffer.", m.Cap)
	g.writeLine("func %s %s() int {", recv, m.Cap)
	g.writeLine("\treturn %s.capacity", r)
	g.writeLine("}")

	g.writeLine("")
	g.writeLine("// %s empties the buffer. Stored items are not released.", m.Clear)
	g.writeLine("func %s %s() {", recv, m.Clear)
	g.indent++
	g.writeLine("%s.head = 0", r)
	g.writeLine("%s.tail = 0", r)
	g.writeLine("%s.size = 0", r)
	g.indent--
	g.writeLine("}")
}
