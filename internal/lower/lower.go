// Package lower maps named schema graph nodes to class and enum descriptors.
package lower

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okra-platform/contractgen/internal/model"
	"github.com/okra-platform/contractgen/internal/naming"
	"github.com/okra-platform/contractgen/internal/schema"
)

// Lower produces one declaration per named node of g, in naming order.
func Lower(g *schema.Graph, names *naming.Names) (*model.TypeSet, error) {
	l := &lowerer{
		graph:    g,
		names:    names,
		visiting: make(map[schema.NodeID]bool),
	}

	ts := model.NewTypeSet()
	for _, id := range names.Order() {
		decl, err := l.declaration(id)
		if err != nil {
			return nil, err
		}
		if !ts.Add(decl) {
			return nil, schema.Errorf(schema.ErrNamingCollision, g.Node(id).Location,
				"type %q is declared twice", decl.DeclName())
		}
	}
	return ts, nil
}

type lowerer struct {
	graph *schema.Graph
	names *naming.Names

	// visiting guards alias chains through unnamed top-level schemas
	visiting map[schema.NodeID]bool
}

func (l *lowerer) declaration(id schema.NodeID) (model.Declaration, error) {
	n := l.graph.Node(id)
	name, _ := l.names.Of(id)

	switch n.Kind {
	case schema.KindObject:
		return l.class(n, name)
	case schema.KindEnum:
		return l.enum(n, name), nil
	default:
		return nil, fmt.Errorf("node %d at %s is a %s and cannot be declared", id, n.Location, n.Kind)
	}
}

func (l *lowerer) class(n schema.Node, name string) (*model.Class, error) {
	c := &model.Class{
		Name:       name,
		Source:     n.Location.String(),
		Javadoc:    Javadoc(n.Title, n.Description),
		Properties: make([]model.Property, 0, len(n.Properties)),
	}

	used := make(map[string]bool, len(n.Properties))
	for _, p := range n.Properties {
		typ, err := l.typeRef(p.Schema)
		if err != nil {
			return nil, err
		}

		child := l.graph.Node(p.Schema)
		var doc string
		if child.Kind != schema.KindReference {
			doc = Javadoc(child.Title, child.Description)
		}

		c.Properties = append(c.Properties, model.Property{
			Identifier:   unique(naming.PropertyName(p.Name), "", used),
			OriginalName: p.Name,
			Required:     p.Required,
			Javadoc:      doc,
			Type:         typ,
		})
	}
	return c, nil
}

func (l *lowerer) enum(n schema.Node, name string) *model.Enum {
	e := &model.Enum{
		Name:      name,
		Source:    n.Location.String(),
		Javadoc:   Javadoc(n.Title, n.Description),
		Constants: make([]model.Constant, 0, len(n.EnumValues)),
	}

	used := make(map[string]bool, len(n.EnumValues))
	for _, v := range n.EnumValues {
		e.Constants = append(e.Constants, model.Constant{
			Identifier: unique(naming.ConstantName(v), "_", used),
			Value:      v,
		})
	}
	return e
}

// typeRef lowers the schema at id to the type of a property or element.
func (l *lowerer) typeRef(id schema.NodeID) (model.TypeRef, error) {
	n := l.graph.Node(id)

	switch n.Kind {
	case schema.KindReference:
		target := l.graph.Deref(id)
		if _, named := l.names.Of(target); named {
			return l.named(target), nil
		}
		// Unnamed top-level shapes (arrays, maps, primitives) are aliases
		// and are written inline at every use.
		if l.visiting[target] {
			return model.TypeRef{}, schema.Errorf(schema.ErrUnsupportedSchemaShape, n.Location,
				"reference %s forms a cycle that never passes an object or enum", n.Target)
		}
		l.visiting[target] = true
		defer delete(l.visiting, target)
		return l.typeRef(target)

	case schema.KindObject, schema.KindEnum:
		return l.named(id), nil

	case schema.KindArray:
		elem, err := l.typeRef(n.Items)
		if err != nil {
			return model.TypeRef{}, err
		}
		ref := model.TypeRef{Kind: model.RefList, Elem: &elem}
		if n.UniqueItems {
			ref.Kind = model.RefSet
			ref.Constraints = append(ref.Constraints, model.Constraint{Kind: model.UniqueItems})
		}
		ref.Constraints = appendSize(ref.Constraints, n.MinItems, n.MaxItems)
		return ref, nil

	case schema.KindMap:
		elem, err := l.typeRef(n.Values)
		if err != nil {
			return model.TypeRef{}, err
		}
		ref := model.TypeRef{Kind: model.RefMap, Elem: &elem}
		ref.Constraints = appendSize(ref.Constraints, n.MinItems, n.MaxItems)
		return ref, nil

	case schema.KindPrimitive:
		return primitive(n), nil
	}

	return model.TypeRef{}, fmt.Errorf("unexpected %s node at %s", n.Kind, n.Location)
}

func (l *lowerer) named(id schema.NodeID) model.TypeRef {
	name, _ := l.names.Of(id)
	ref := model.TypeRef{Kind: model.RefNamed, Name: name}
	if l.graph.Node(id).Kind == schema.KindObject {
		ref.Constraints = []model.Constraint{{Kind: model.Valid}}
	}
	return ref
}

func primitive(n schema.Node) model.TypeRef {
	ref := model.TypeRef{Kind: model.RefBuiltin, Name: Builtin(n.Primitive, n.Format)}

	switch n.Primitive {
	case schema.String:
		ref.Constraints = appendSize(ref.Constraints, n.MinLength, n.MaxLength)
		if n.Pattern != "" {
			ref.Constraints = append(ref.Constraints, model.Constraint{Kind: model.Pattern, Regexp: n.Pattern})
		}
	case schema.Integer, schema.Number:
		integral := n.Primitive == schema.Integer
		ref.Constraints = appendBound(ref.Constraints, model.Minimum, n.Minimum, n.ExclusiveMinimum, integral)
		ref.Constraints = appendBound(ref.Constraints, model.Minimum, n.ExclusiveMinimumValue, true, integral)
		ref.Constraints = appendBound(ref.Constraints, model.Maximum, n.Maximum, n.ExclusiveMaximum, integral)
		ref.Constraints = appendBound(ref.Constraints, model.Maximum, n.ExclusiveMaximumValue, true, integral)
	}
	return ref
}

func appendBound(cs []model.Constraint, kind model.ConstraintKind, value string, exclusive, integral bool) []model.Constraint {
	if value == "" {
		return cs
	}
	return append(cs, model.Constraint{
		Kind:      kind,
		Value:     value,
		Exclusive: exclusive,
		Integral:  integral && isInteger(value),
	})
}

func appendSize(cs []model.Constraint, min, max *int) []model.Constraint {
	if min == nil && max == nil {
		return cs
	}
	return append(cs, model.Constraint{Kind: model.Size, Min: min, Max: max})
}

func isInteger(literal string) bool {
	_, err := strconv.ParseInt(literal, 10, 64)
	return err == nil
}

// unique returns candidate, or candidate plus the smallest free numeric
// suffix, and marks the result used.
func unique(candidate, sep string, used map[string]bool) string {
	name := candidate
	for i := 2; used[name]; i++ {
		name = candidate + sep + strconv.Itoa(i)
	}
	used[name] = true
	return name
}

// Javadoc joins a title and a description into one comment body.
func Javadoc(title, description string) string {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	switch {
	case title == "":
		return description
	case description == "":
		return title
	default:
		return title + "\n\n" + description
	}
}
