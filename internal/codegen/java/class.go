package java

import (
	"fmt"
	"strings"

	"github.com/okra-platform/contractgen/internal/codegen/writer"
	"github.com/okra-platform/contractgen/internal/model"
	"github.com/okra-platform/contractgen/internal/naming"
)

// field is a property with its Java spelling resolved
type field struct {
	model.Property
	typ string
}

func (g *Generator) writeClass(w *writer.Writer, c *model.Class, im *imports) {
	fields := make([]field, len(c.Properties))
	for i, p := range c.Properties {
		fields[i] = field{Property: p, typ: typeName(p.Type, im)}
	}

	g.writeDoc(w, docText(c.Javadoc))
	w.WriteBlock(fmt.Sprintf("public class %s {", c.Name), "}", func() {
		members := newMembers(w)

		for _, f := range fields {
			members.add(func() { g.writeField(w, f, im) })
		}
		for _, f := range fields {
			members.add(func() { writeFluentSetter(w, c.Name, f) })
			members.add(func() { writeGetter(w, f) })
			members.add(func() { writeSetter(w, f) })
		}
		members.add(func() { writeEquals(w, c.Name, fields, im) })
		members.add(func() { writeHashCode(w, fields, im) })
		members.add(func() { writeToString(w, c.Name, fields, im) })
	})
}

// members separates class members with one blank line.
type members struct {
	w     *writer.Writer
	first bool
}

func newMembers(w *writer.Writer) *members {
	return &members{w: w, first: true}
}

func (m *members) add(write func()) {
	if !m.first {
		m.w.BlankLine()
	}
	m.first = false
	write()
}

func (g *Generator) writeField(w *writer.Writer, f field, im *imports) {
	g.writeDoc(w, docText(f.Javadoc))
	if f.Required {
		w.WriteLinef("@%s", im.use(notNullType))
	}
	if f.Renamed() {
		w.WriteLinef("@%s(%s)", im.use(serializedNameType), quote(f.OriginalName))
	}
	for _, a := range annotations(f.Type.Constraints, im) {
		w.WriteLine(a)
	}
	w.WriteLinef("private %s %s;", f.typ, f.Identifier)
}

func writeFluentSetter(w *writer.Writer, className string, f field) {
	w.WriteBlock(fmt.Sprintf("public %s %s(%s %s) {", className, f.Identifier, f.typ, f.Identifier), "}", func() {
		w.WriteLinef("this.%s = %s;", f.Identifier, f.Identifier)
		w.WriteLine("return this;")
	})
}

func writeGetter(w *writer.Writer, f field) {
	w.WriteBlock(fmt.Sprintf("public %s get%s() {", f.typ, naming.Capitalize(f.Identifier)), "}", func() {
		w.WriteLinef("return %s;", f.Identifier)
	})
}

func writeSetter(w *writer.Writer, f field) {
	w.WriteBlock(fmt.Sprintf("public void set%s(%s %s) {", naming.Capitalize(f.Identifier), f.typ, f.Identifier), "}", func() {
		w.WriteLinef("this.%s = %s;", f.Identifier, f.Identifier)
	})
}

func writeEquals(w *writer.Writer, className string, fields []field, im *imports) {
	object := im.use("Object")
	w.WriteLinef("@%s", im.use("Override"))
	w.WriteBlock(fmt.Sprintf("public boolean equals(%s other) {", object), "}", func() {
		w.WriteLine("if (other == this) return true;")
		w.WriteLine("if (other == null || getClass() != other.getClass()) return false;")
		if len(fields) == 0 {
			w.WriteLine("return true;")
			return
		}

		objects := im.use(objectsType)
		w.WriteLinef("%s o = (%s) other;", className, className)
		for i, f := range fields {
			cmp := fmt.Sprintf("%s.equals(this.%s, o.%s)", objects, f.Identifier, f.Identifier)
			end := ""
			if i == len(fields)-1 {
				end = ";"
			}
			if i == 0 {
				w.WriteLinef("return %s%s", cmp, end)
				w.Indent()
				w.Indent()
				continue
			}
			w.WriteLinef("&& %s%s", cmp, end)
		}
		w.Dedent()
		w.Dedent()
	})
}

func writeHashCode(w *writer.Writer, fields []field, im *imports) {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Identifier
	}

	w.WriteLinef("@%s", im.use("Override"))
	w.WriteBlock("public int hashCode() {", "}", func() {
		w.WriteLinef("return %s.hash(%s);", im.use(objectsType), strings.Join(names, ", "))
	})
}

func writeToString(w *writer.Writer, className string, fields []field, im *imports) {
	str := im.use("String")
	w.WriteLinef("@%s", im.use("Override"))
	w.WriteBlock(fmt.Sprintf("public %s toString() {", str), "}", func() {
		if len(fields) == 0 {
			w.WriteLinef("return %s;", quote(className+"{}"))
			return
		}

		sb := im.use("StringBuilder")
		w.WriteLinef("%s builder = new %s();", sb, sb)
		for _, f := range fields {
			w.WriteLinef("builder.append(%s).append(this.%s);", quote(", "+f.Identifier+"="), f.Identifier)
		}
		w.WriteLinef("return builder.replace(0, 2, %s).append('}').toString();", quote(className+"{"))
	})
}
