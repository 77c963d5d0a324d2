// Package schema builds the schema graph: typed nodes for references,
// objects, arrays, maps, enums and primitives resolved from a raw document.
package schema

// NodeID is a handle into a Graph's node arena
type NodeID int

// NoNode is the zero handle for unset back references
const NoNode NodeID = -1

// Kind tags the variant of a Node
type Kind int

const (
	KindReference Kind = iota
	KindObject
	KindArray
	KindMap
	KindEnum
	KindPrimitive
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindReference:
		return "reference"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindEnum:
		return "enum"
	case KindPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// PrimitiveKind is the scalar type of a primitive schema
type PrimitiveKind string

const (
	Boolean PrimitiveKind = "BOOLEAN"
	Integer PrimitiveKind = "INTEGER"
	Number  PrimitiveKind = "NUMBER"
	String  PrimitiveKind = "STRING"
)

// Node is one schema in the graph. Kind selects which of the variant fields
// are meaningful; the shape fields never change after construction.
type Node struct {
	ID       NodeID
	Kind     Kind
	Location Location
	Line     int
	Column   int

	Title       string
	Description string

	// Reference
	Target string

	// Object
	Properties []Property

	// Array
	Items       NodeID
	UniqueItems bool

	// Array and Map (Map reads minProperties/maxProperties)
	MinItems *int
	MaxItems *int

	// Map
	Values NodeID

	// Enum
	EnumValues []string

	// Primitive
	Primitive        PrimitiveKind
	Format           string
	Minimum          string
	Maximum          string
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MinLength        *int
	MaxLength        *int
	Pattern          string

	// Numeric exclusive bounds, independent of Minimum and Maximum
	ExclusiveMinimumValue string
	ExclusiveMaximumValue string

	// EmbeddedIn is the container this node is written inline in, or NoNode
	EmbeddedIn NodeID

	// ReferencedBy lists the Reference nodes pointing at this top-level node
	ReferencedBy []NodeID
}

// Property is one declared property of an object schema
type Property struct {
	Name     string
	Required bool
	Schema   NodeID
}

// TopLevel is a named schema registered under a canonical reference path
type TopLevel struct {
	Name string
	Path string
	Node NodeID
}

// Graph is the arena of resolved schema nodes for one generation run
type Graph struct {
	nodes    []Node
	topLevel []TopLevel
	byPath   map[string]int // index into topLevel
	byNode   map[NodeID]int // index into topLevel
}

func newGraph() *Graph {
	return &Graph{
		byPath: make(map[string]int),
		byNode: make(map[NodeID]int),
	}
}

// add appends a node and returns its handle.
func (g *Graph) add(n Node) NodeID {
	n.ID = NodeID(len(g.nodes))
	n.EmbeddedIn = NoNode
	if n.Kind != KindArray {
		n.Items = NoNode
	}
	if n.Kind != KindMap {
		n.Values = NoNode
	}
	g.nodes = append(g.nodes, n)
	return n.ID
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node for id. The returned value shares its slices with the
// graph and must be treated as read-only.
func (g *Graph) Node(id NodeID) Node {
	return g.nodes[id]
}

// TopLevel returns the named top-level schemas in document order.
func (g *Graph) TopLevel() []TopLevel {
	return g.topLevel
}

// Lookup returns the top-level node registered under a reference path.
func (g *Graph) Lookup(path string) (NodeID, bool) {
	i, ok := g.byPath[path]
	if !ok {
		return NoNode, false
	}
	return g.topLevel[i].Node, true
}

// TopLevelName returns the top-level name of id, if it was registered as one.
func (g *Graph) TopLevelName(id NodeID) (string, bool) {
	i, ok := g.byNode[id]
	if !ok {
		return "", false
	}
	return g.topLevel[i].Name, true
}

// Deref follows a Reference node to its target. Other nodes are returned as is.
func (g *Graph) Deref(id NodeID) NodeID {
	n := g.nodes[id]
	if n.Kind != KindReference {
		return id
	}
	target, _ := g.Lookup(n.Target)
	return target
}

// Children returns the direct child schemas of a node in declaration order,
// references included.
func (g *Graph) Children(id NodeID) []NodeID {
	n := g.nodes[id]
	switch n.Kind {
	case KindObject:
		out := make([]NodeID, 0, len(n.Properties))
		for _, p := range n.Properties {
			out = append(out, p.Schema)
		}
		return out
	case KindArray:
		return []NodeID{n.Items}
	case KindMap:
		return []NodeID{n.Values}
	default:
		return nil
	}
}

// Walk visits every node reachable by embedding, pre-order, starting with the
// top-level entries in document order. References are visited but never
// followed. Returning false from fn skips the node's children.
func (g *Graph) Walk(fn func(id NodeID) bool) {
	var visit func(id NodeID)
	visit = func(id NodeID) {
		if !fn(id) {
			return
		}
		for _, child := range g.Children(id) {
			if g.nodes[child].Kind == KindReference {
				fn(child)
				continue
			}
			visit(child)
		}
	}
	for _, tl := range g.topLevel {
		visit(tl.Node)
	}
}
