// Package model holds the lowered, language level descriptors of declared
// types: classes with properties and enums with constants.
package model

import (
	"strings"

	json "github.com/goccy/go-json"
)

// DeclKind tells classes and enums apart
type DeclKind string

const (
	DeclClass DeclKind = "class"
	DeclEnum  DeclKind = "enum"
)

// Declaration is one declared output type
type Declaration interface {
	DeclName() string
	DeclKind() DeclKind
}

// Class is a data class with one field per schema property
type Class struct {
	Name       string     `json:"name"`
	Source     string     `json:"source"`
	Javadoc    string     `json:"javadoc,omitempty"`
	Properties []Property `json:"properties"`
}

func (c *Class) DeclName() string   { return c.Name }
func (c *Class) DeclKind() DeclKind { return DeclClass }

// Property is one field of a class
type Property struct {
	Identifier   string  `json:"identifier"`
	OriginalName string  `json:"originalName"`
	Required     bool    `json:"required"`
	Javadoc      string  `json:"javadoc,omitempty"`
	Type         TypeRef `json:"type"`
}

// Renamed reports whether the identifier differs from the serialized name.
func (p Property) Renamed() bool {
	return p.Identifier != p.OriginalName
}

// Enum is a string enumeration
type Enum struct {
	Name      string     `json:"name"`
	Source    string     `json:"source"`
	Javadoc   string     `json:"javadoc,omitempty"`
	Constants []Constant `json:"constants"`
}

func (e *Enum) DeclName() string   { return e.Name }
func (e *Enum) DeclKind() DeclKind { return DeclEnum }

// Constant is one enum constant and the literal it serializes to
type Constant struct {
	Identifier string `json:"identifier"`
	Value      string `json:"value"`
}

// Renamed reports whether the identifier differs from the literal.
func (c Constant) Renamed() bool {
	return c.Identifier != c.Value
}

// TypeSet is the ordered result of lowering one schema graph
type TypeSet struct {
	Declarations []Declaration
	byName       map[string]Declaration
}

// NewTypeSet creates an empty type set
func NewTypeSet() *TypeSet {
	return &TypeSet{byName: make(map[string]Declaration)}
}

// Add appends a declaration. Names are unique by construction, a duplicate
// replaces nothing and is reported as false.
func (ts *TypeSet) Add(d Declaration) bool {
	if _, exists := ts.byName[d.DeclName()]; exists {
		return false
	}
	ts.byName[d.DeclName()] = d
	ts.Declarations = append(ts.Declarations, d)
	return true
}

// Lookup returns the declaration with the given name.
func (ts *TypeSet) Lookup(name string) (Declaration, bool) {
	d, ok := ts.byName[name]
	return d, ok
}

// Names returns the declared type names in order.
func (ts *TypeSet) Names() []string {
	out := make([]string, len(ts.Declarations))
	for i, d := range ts.Declarations {
		out[i] = d.DeclName()
	}
	return out
}

type classJSON struct {
	Kind DeclKind `json:"kind"`
	*Class
}

type enumJSON struct {
	Kind DeclKind `json:"kind"`
	*Enum
}

// MarshalJSON renders the declarations as a list tagged with their kind.
func (ts *TypeSet) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, len(ts.Declarations))
	for _, d := range ts.Declarations {
		switch v := d.(type) {
		case *Class:
			out = append(out, classJSON{Kind: DeclClass, Class: v})
		case *Enum:
			out = append(out, enumJSON{Kind: DeclEnum, Enum: v})
		}
	}
	return json.Marshal(out)
}

// RefKind is the shape of a type reference
type RefKind string

const (
	RefBuiltin RefKind = "builtin"
	RefNamed   RefKind = "named"
	RefList    RefKind = "list"
	RefSet     RefKind = "set"
	RefMap     RefKind = "map"
)

// TypeRef is the type of a property or of a container element
type TypeRef struct {
	Kind RefKind `json:"kind"`

	// Name is the qualified built-in name (java.util.UUID, String) or the
	// name of a declared type.
	Name string `json:"name,omitempty"`

	// Elem is the element type of lists and sets, the value type of maps.
	Elem *TypeRef `json:"elem,omitempty"`

	// Constraints apply to values of this type.
	Constraints []Constraint `json:"constraints,omitempty"`
}

// IsContainer reports list, set and map references
func (t TypeRef) IsContainer() bool {
	return t.Kind == RefList || t.Kind == RefSet || t.Kind == RefMap
}

// String renders the reference with simple names, e.g. List<Map<String, Order>>.
func (t TypeRef) String() string {
	switch t.Kind {
	case RefList:
		return "List<" + t.Elem.String() + ">"
	case RefSet:
		return "Set<" + t.Elem.String() + ">"
	case RefMap:
		return "Map<String, " + t.Elem.String() + ">"
	default:
		return SimpleName(t.Name)
	}
}

// SimpleName strips the package from a qualified name.
func SimpleName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// PackageOf returns the package of a qualified name, "" for simple names.
func PackageOf(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[:i]
	}
	return ""
}

// SourceFile is one rendered declaration
type SourceFile struct {
	// Path is slash separated and relative to the output root,
	// e.g. com/example/Order.java
	Path     string
	Package  string
	TypeName string
	Content  []byte
}
