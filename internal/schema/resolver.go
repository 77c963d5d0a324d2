package schema

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/okra-platform/contractgen/internal/document"
)

// MaxDepth bounds inline schema nesting
const MaxDepth = 256

// Resolver builds a Graph from the raw schemas of a document
type Resolver struct {
	logger zerolog.Logger

	graph  *Graph
	known  map[string]bool
	active map[*document.Schema]bool
	depth  int
}

// NewResolver creates a resolver that traces its descent on logger
func NewResolver(logger zerolog.Logger) *Resolver {
	return &Resolver{
		logger: logger.With().Str("component", "schema-resolver").Logger(),
	}
}

// Resolve is a shorthand for NewResolver(logger).Resolve(doc).
func Resolve(doc *document.Document, logger zerolog.Logger) (*Graph, error) {
	return NewResolver(logger).Resolve(doc)
}

// Resolve turns every top-level schema of doc, and everything nested in it,
// into graph nodes. References are kept as indirections by path and are
// checked against the table of top-level paths as soon as they are seen.
func (r *Resolver) Resolve(doc *document.Document) (*Graph, error) {
	r.graph = newGraph()
	r.known = make(map[string]bool, len(doc.Schemas))
	r.active = make(map[*document.Schema]bool)
	r.depth = 0

	for _, entry := range doc.Schemas {
		r.known[doc.RefPath(entry.Name)] = true
	}

	for _, entry := range doc.Schemas {
		loc := Location{entry.Name}
		id, err := r.resolve(entry.Schema, loc)
		if err != nil {
			return nil, err
		}
		if r.graph.nodes[id].Kind == KindReference {
			return nil, r.errorf(ErrUnsupportedSchemaShape, entry.Schema, loc,
				"top-level schema %q is a plain reference to %s", entry.Name, entry.Schema.Ref)
		}

		path := doc.RefPath(entry.Name)
		r.graph.byPath[path] = len(r.graph.topLevel)
		r.graph.byNode[id] = len(r.graph.topLevel)
		r.graph.topLevel = append(r.graph.topLevel, TopLevel{Name: entry.Name, Path: path, Node: id})
	}

	r.link()

	r.logger.Debug().
		Int("nodes", r.graph.Len()).
		Int("top_level", len(r.graph.topLevel)).
		Msg("schema graph resolved")

	return r.graph, nil
}

// link fills ReferencedBy once every top-level node exists.
func (r *Resolver) link() {
	for i := range r.graph.nodes {
		n := r.graph.nodes[i]
		if n.Kind != KindReference {
			continue
		}
		if target, ok := r.graph.Lookup(n.Target); ok {
			r.graph.nodes[target].ReferencedBy = append(r.graph.nodes[target].ReferencedBy, n.ID)
		}
	}
}

func (r *Resolver) errorf(kind error, raw *document.Schema, loc Location, format string, args ...any) *Error {
	err := Errorf(kind, loc, format, args...)
	if raw != nil {
		err.Line = raw.Line
		err.Column = raw.Column
	}
	return err
}

func (r *Resolver) resolve(raw *document.Schema, loc Location) (NodeID, error) {
	if r.active[raw] {
		return NoNode, r.errorf(ErrRecursiveEmbedding, raw, loc,
			"schema embeds itself inline, recursive structures need a $ref")
	}
	if r.depth >= MaxDepth {
		return NoNode, r.errorf(ErrRecursiveEmbedding, raw, loc, "schema nesting exceeds %d levels", MaxDepth)
	}
	r.active[raw] = true
	r.depth++
	defer func() {
		delete(r.active, raw)
		r.depth--
	}()

	r.logger.Debug().Str("location", loc.String()).Msg("parsing schema")

	if raw.Ref != "" {
		if !r.known[raw.Ref] {
			return NoNode, r.errorf(ErrUnresolvedReference, raw, loc,
				"reference %q does not match any top-level schema", raw.Ref)
		}
		return r.graph.add(Node{
			Kind:     KindReference,
			Target:   raw.Ref,
			Location: loc,
			Line:     raw.Line,
			Column:   raw.Column,
		}), nil
	}

	if len(raw.Compositions) > 0 {
		return NoNode, r.errorf(ErrUnsupportedSchemaShape, raw, loc,
			"composition keywords are not supported: %s", strings.Join(raw.Compositions, ", "))
	}

	if len(raw.Enum) > 0 {
		return r.enum(raw, loc)
	}

	switch raw.Type {
	case "array":
		return r.array(raw, loc)
	case "boolean", "integer", "number", "string":
		return r.primitive(raw, loc)
	case "object", "":
		return r.objectOrMap(raw, loc)
	default:
		return NoNode, r.errorf(ErrUnsupportedSchemaShape, raw, loc, "schema type %q is not supported", raw.Type)
	}
}

func (r *Resolver) enum(raw *document.Schema, loc Location) (NodeID, error) {
	if raw.Type != "string" && raw.Type != "" {
		return NoNode, r.errorf(ErrUnsupportedSchemaShape, raw, loc,
			"only enums of type string are supported, type is %q", raw.Type)
	}

	values := make([]string, len(raw.Enum))
	copy(values, raw.Enum)

	return r.graph.add(Node{
		Kind:        KindEnum,
		Location:    loc,
		Line:        raw.Line,
		Column:      raw.Column,
		Title:       raw.Title,
		Description: raw.Description,
		EnumValues:  values,
	}), nil
}

func (r *Resolver) primitive(raw *document.Schema, loc Location) (NodeID, error) {
	return r.graph.add(Node{
		Kind:             KindPrimitive,
		Location:         loc,
		Line:             raw.Line,
		Column:           raw.Column,
		Title:            raw.Title,
		Description:      raw.Description,
		Primitive:        PrimitiveKind(strings.ToUpper(raw.Type)),
		Format:           raw.Format,
		Minimum:          raw.Minimum,
		Maximum:          raw.Maximum,
		ExclusiveMinimum: raw.ExclusiveMinimum,
		ExclusiveMaximum: raw.ExclusiveMaximum,
		MinLength:        raw.MinLength,
		MaxLength:        raw.MaxLength,
		Pattern:          raw.Pattern,

		ExclusiveMinimumValue: raw.ExclusiveMinimumValue,
		ExclusiveMaximumValue: raw.ExclusiveMaximumValue,
	}), nil
}

func (r *Resolver) array(raw *document.Schema, loc Location) (NodeID, error) {
	if raw.Items == nil {
		return NoNode, r.errorf(ErrUnsupportedSchemaShape, raw, loc, "array schema without items")
	}

	id := r.graph.add(Node{
		Kind:        KindArray,
		Location:    loc,
		Line:        raw.Line,
		Column:      raw.Column,
		Title:       raw.Title,
		Description: raw.Description,
		UniqueItems: raw.UniqueItems,
		MinItems:    raw.MinItems,
		MaxItems:    raw.MaxItems,
	})

	items, err := r.resolve(raw.Items, loc.Child(ItemsSegment))
	if err != nil {
		return NoNode, err
	}
	r.graph.nodes[id].Items = items
	r.embed(items, id)

	return id, nil
}

func (r *Resolver) objectOrMap(raw *document.Schema, loc Location) (NodeID, error) {
	if raw.AdditionalPropertiesFlag != nil {
		return NoNode, r.errorf(ErrUnsupportedSchemaShape, raw, loc,
			"boolean additionalProperties (%t) is not supported, use a schema", *raw.AdditionalPropertiesFlag)
	}

	switch {
	case len(raw.Properties) > 0 && raw.AdditionalProperties != nil:
		return NoNode, r.errorf(ErrConflictingSchemaShape, raw, loc,
			"object schemas with both properties and additionalProperties are not supported, just either or")
	case raw.AdditionalProperties != nil:
		return r.mapSchema(raw, loc)
	default:
		return r.object(raw, loc)
	}
}

func (r *Resolver) mapSchema(raw *document.Schema, loc Location) (NodeID, error) {
	id := r.graph.add(Node{
		Kind:        KindMap,
		Location:    loc,
		Line:        raw.Line,
		Column:      raw.Column,
		Title:       raw.Title,
		Description: raw.Description,
		MinItems:    firstSet(raw.MinProperties, raw.MinItems),
		MaxItems:    firstSet(raw.MaxProperties, raw.MaxItems),
	})

	values, err := r.resolve(raw.AdditionalProperties, loc.Child(ValuesSegment))
	if err != nil {
		return NoNode, err
	}
	r.graph.nodes[id].Values = values
	r.embed(values, id)

	return id, nil
}

func (r *Resolver) object(raw *document.Schema, loc Location) (NodeID, error) {
	id := r.graph.add(Node{
		Kind:        KindObject,
		Location:    loc,
		Line:        raw.Line,
		Column:      raw.Column,
		Title:       raw.Title,
		Description: raw.Description,
	})

	props := make([]Property, 0, len(raw.Properties))
	for _, p := range raw.Properties {
		child, err := r.resolve(p.Schema, loc.Child(p.Name))
		if err != nil {
			return NoNode, err
		}
		props = append(props, Property{
			Name:     p.Name,
			Required: raw.IsRequired(p.Name),
			Schema:   child,
		})
	}
	r.graph.nodes[id].Properties = props

	for _, p := range props {
		r.embed(p.Schema, id)
	}

	return id, nil
}

// embed records parent as the container of an inline child. References are
// never embedded, their target lives on its own.
func (r *Resolver) embed(child, parent NodeID) {
	n := &r.graph.nodes[child]
	if n.Kind == KindReference || n.EmbeddedIn != NoNode {
		return
	}
	n.EmbeddedIn = parent
}

// firstSet returns the first non-nil bound. Map sizes come from
// minProperties/maxProperties, falling back to minItems/maxItems.
func firstSet(bounds ...*int) *int {
	for _, b := range bounds {
		if b != nil {
			return b
		}
	}
	return nil
}
