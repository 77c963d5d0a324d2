// Package naming assigns unique type identifiers to the object and enum
// nodes of a schema graph.
package naming

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okra-platform/contractgen/internal/schema"
)

// Names maps declared-type nodes to their identifiers
type Names struct {
	byNode map[schema.NodeID]string
	order  []schema.NodeID
}

// Of returns the identifier assigned to id.
func (n *Names) Of(id schema.NodeID) (string, bool) {
	name, ok := n.byNode[id]
	return name, ok
}

// Order returns the named nodes in assignment order: top-level entries in
// document order first, then embedded types in pre-order.
func (n *Names) Order() []schema.NodeID {
	return n.order
}

// Len returns the number of named nodes
func (n *Names) Len() int {
	return len(n.order)
}

// Declares reports whether a node kind becomes its own declared type.
func Declares(k schema.Kind) bool {
	return k == schema.KindObject || k == schema.KindEnum
}

// Resolve names every object and enum node of g. Top-level entries keep their
// own name; embedded ones concatenate the nearest top-level ancestor's name
// with the location segments below it. Taken names get the smallest free
// numeric suffix, in first-seen order.
func Resolve(g *schema.Graph) (*Names, error) {
	r := &resolver{
		graph: g,
		names: &Names{byNode: make(map[schema.NodeID]string)},
		taken: make(map[string]schema.NodeID),
	}

	for _, tl := range g.TopLevel() {
		if Declares(g.Node(tl.Node).Kind) {
			r.assign(tl.Node, ClassName(tl.Name))
		}
	}

	g.Walk(func(id schema.NodeID) bool {
		n := g.Node(id)
		if n.Kind == schema.KindReference || n.EmbeddedIn == schema.NoNode {
			return true
		}
		if Declares(n.Kind) {
			r.assign(id, r.candidate(n))
		}
		return true
	})

	if err := r.verify(); err != nil {
		return nil, err
	}
	return r.names, nil
}

type resolver struct {
	graph *schema.Graph
	names *Names
	taken map[string]schema.NodeID
}

// candidate builds the unsuffixed name of an embedded node.
func (r *resolver) candidate(n schema.Node) string {
	root := n.ID
	for r.graph.Node(root).EmbeddedIn != schema.NoNode {
		root = r.graph.Node(root).EmbeddedIn
	}
	rootNode := r.graph.Node(root)

	prefix, ok := r.names.Of(root)
	if !ok {
		tlName, _ := r.graph.TopLevelName(root)
		prefix = ClassName(tlName)
	}

	var b strings.Builder
	b.WriteString(prefix)
	for _, seg := range n.Location[len(rootNode.Location):] {
		for _, part := range Segments(seg) {
			b.WriteString(Capitalize(part))
		}
	}
	return b.String()
}

func (r *resolver) assign(id schema.NodeID, candidate string) {
	name := candidate
	for i := 2; ; i++ {
		if _, used := r.taken[name]; !used {
			break
		}
		name = candidate + strconv.Itoa(i)
	}
	r.taken[name] = id
	r.names.byNode[id] = name
	r.names.order = append(r.names.order, id)
}

// verify re-checks distinctness over the final table.
func (r *resolver) verify() error {
	seen := make(map[string]schema.NodeID, len(r.names.order))
	for _, id := range r.names.order {
		name := r.names.byNode[id]
		if other, dup := seen[name]; dup {
			n := r.graph.Node(id)
			return schema.Errorf(schema.ErrNamingCollision, n.Location,
				"%q is assigned to both %s and %s",
				name, r.graph.Node(other).Location, n.Location)
		}
		seen[name] = id
	}
	if len(seen) != len(r.names.byNode) {
		return schema.Errorf(schema.ErrNamingCollision, nil,
			"%d names recorded for %d nodes", len(seen), len(r.names.byNode))
	}
	return nil
}

// String renders the table for debug logging.
func (n *Names) String() string {
	parts := make([]string, 0, len(n.order))
	for _, id := range n.order {
		parts = append(parts, fmt.Sprintf("%d=%s", id, n.byNode[id]))
	}
	return strings.Join(parts, " ")
}
