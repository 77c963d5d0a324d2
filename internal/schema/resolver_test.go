package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/contractgen/internal/testutil"
)

const orderDoc = `
components:
  schemas:
    Order:
      type: object
      required: [id]
      properties:
        id:
          type: string
        item_count:
          type: integer
        status:
          type: string
          enum: [OPEN, CLOSED]
        lines:
          type: array
          minItems: 1
          items:
            type: object
            properties:
              sku:
                type: string
        attributes:
          additionalProperties:
            type: string
          minProperties: 1
          maxProperties: 9
        customer:
          $ref: "#/components/schemas/Customer"
    Customer:
      type: object
      properties:
        name:
          type: string
        referrer:
          $ref: "#/components/schemas/Customer"
`

func resolveDoc(t *testing.T, src string) (*Graph, error) {
	t.Helper()
	return Resolve(testutil.ParseDocument(t, src), testutil.Logger(t))
}

func mustResolve(t *testing.T, src string) *Graph {
	t.Helper()
	g, err := resolveDoc(t, src)
	require.NoError(t, err)
	return g
}

func TestResolve_OrderDocument(t *testing.T) {
	// Test: every schema occurrence becomes exactly one node
	g := mustResolve(t, orderDoc)

	// Order + 6 properties + lines item + sku + attributes value
	// + Customer + name + referrer
	assert.Equal(t, 13, g.Len())

	top := g.TopLevel()
	require.Len(t, top, 2)
	assert.Equal(t, "Order", top[0].Name)
	assert.Equal(t, "#/components/schemas/Order", top[0].Path)
	assert.Equal(t, "Customer", top[1].Name)

	order := g.Node(top[0].Node)
	assert.Equal(t, KindObject, order.Kind)
	assert.Equal(t, NoNode, order.EmbeddedIn)
	require.Len(t, order.Properties, 6)

	id := order.Properties[0]
	assert.Equal(t, "id", id.Name)
	assert.True(t, id.Required)
	assert.Equal(t, KindPrimitive, g.Node(id.Schema).Kind)
	assert.Equal(t, String, g.Node(id.Schema).Primitive)

	count := order.Properties[1]
	assert.False(t, count.Required)
	assert.Equal(t, Integer, g.Node(count.Schema).Primitive)

	status := g.Node(order.Properties[2].Schema)
	assert.Equal(t, KindEnum, status.Kind)
	assert.Equal(t, []string{"OPEN", "CLOSED"}, status.EnumValues)
	assert.Equal(t, "Order/status", status.Location.String())
	assert.Equal(t, order.ID, status.EmbeddedIn)

	lines := g.Node(order.Properties[3].Schema)
	assert.Equal(t, KindArray, lines.Kind)
	require.NotNil(t, lines.MinItems)
	assert.Equal(t, 1, *lines.MinItems)
	item := g.Node(lines.Items)
	assert.Equal(t, KindObject, item.Kind)
	assert.Equal(t, lines.ID, item.EmbeddedIn)
	assert.Equal(t, "Order/lines/items", item.Location.String())
	assert.Equal(t, "Order/lines/items/sku", g.Node(item.Properties[0].Schema).Location.String())

	attrs := g.Node(order.Properties[4].Schema)
	assert.Equal(t, KindMap, attrs.Kind)
	require.NotNil(t, attrs.MinItems)
	require.NotNil(t, attrs.MaxItems)
	assert.Equal(t, 1, *attrs.MinItems)
	assert.Equal(t, 9, *attrs.MaxItems)
	values := g.Node(attrs.Values)
	assert.Equal(t, "Order/attributes/additionalProperties", values.Location.String())
	assert.Equal(t, attrs.ID, values.EmbeddedIn)

	customerRef := g.Node(order.Properties[5].Schema)
	assert.Equal(t, KindReference, customerRef.Kind)
	assert.Equal(t, "#/components/schemas/Customer", customerRef.Target)
}

func TestResolve_MapSizeBounds(t *testing.T) {
	ptr := func(v int) *int { return &v }

	tests := []struct {
		name   string
		bounds string
		min    *int
		max    *int
	}{
		{name: "properties keywords", bounds: "minProperties: 1\n    maxProperties: 4", min: ptr(1), max: ptr(4)},
		{name: "items keywords", bounds: "minItems: 2\n    maxItems: 5", min: ptr(2), max: ptr(5)},
		{name: "properties keywords win", bounds: "minItems: 2\n    minProperties: 3", min: ptr(3)},
		{name: "none", bounds: "description: no bounds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustResolve(t, "$defs:\n  Labels:\n    additionalProperties: {type: string}\n    "+tt.bounds+"\n")

			labels := g.Node(g.TopLevel()[0].Node)
			require.Equal(t, KindMap, labels.Kind)
			assert.Equal(t, tt.min, labels.MinItems)
			assert.Equal(t, tt.max, labels.MaxItems)
		})
	}
}

func TestResolve_ReferencesShareTarget(t *testing.T) {
	// Test: references resolve by path, never embed their target
	g := mustResolve(t, orderDoc)

	order := g.Node(g.TopLevel()[0].Node)
	customerID := g.TopLevel()[1].Node
	customer := g.Node(customerID)

	fromOrder := order.Properties[5].Schema
	selfRef := customer.Properties[1].Schema

	assert.Equal(t, customerID, g.Deref(fromOrder))
	assert.Equal(t, customerID, g.Deref(selfRef))
	assert.Equal(t, NoNode, customer.EmbeddedIn, "a reference must not mark its target as embedded")
	assert.ElementsMatch(t, []NodeID{fromOrder, selfRef}, customer.ReferencedBy)

	looked, ok := g.Lookup("#/components/schemas/Customer")
	assert.True(t, ok)
	assert.Equal(t, customerID, looked)

	name, ok := g.TopLevelName(customerID)
	assert.True(t, ok)
	assert.Equal(t, "Customer", name)

	_, ok = g.TopLevelName(fromOrder)
	assert.False(t, ok)
}

func TestResolve_EveryReferenceReachable(t *testing.T) {
	// Test: each reference node dereferences to a registered top-level node
	g := mustResolve(t, orderDoc)

	topLevel := make(map[NodeID]bool)
	for _, tl := range g.TopLevel() {
		topLevel[tl.Node] = true
	}
	for i := 0; i < g.Len(); i++ {
		n := g.Node(NodeID(i))
		if n.Kind != KindReference {
			continue
		}
		assert.True(t, topLevel[g.Deref(n.ID)], "reference at %s", n.Location)
	}
}

func TestResolve_EmbeddedInSetOnlyForInlineChildren(t *testing.T) {
	// Test: embedding follows inline nesting only
	g := mustResolve(t, orderDoc)

	for i := 0; i < g.Len(); i++ {
		n := g.Node(NodeID(i))
		if n.Kind == KindReference {
			continue
		}
		if _, isTop := g.TopLevelName(n.ID); isTop {
			assert.Equal(t, NoNode, n.EmbeddedIn, "top-level %s", n.Location)
			continue
		}
		require.NotEqual(t, NoNode, n.EmbeddedIn, "inline %s", n.Location)
		assert.Contains(t, g.Children(n.EmbeddedIn), n.ID)
	}
}

func TestGraph_WalkPreOrder(t *testing.T) {
	// Test: Walk visits containers before their children, in document order
	g := mustResolve(t, orderDoc)

	var visited []string
	g.Walk(func(id NodeID) bool {
		visited = append(visited, g.Node(id).Location.String())
		return true
	})

	assert.Equal(t, []string{
		"Order",
		"Order/id",
		"Order/item_count",
		"Order/status",
		"Order/lines",
		"Order/lines/items",
		"Order/lines/items/sku",
		"Order/attributes",
		"Order/attributes/additionalProperties",
		"Order/customer",
		"Customer",
		"Customer/name",
		"Customer/referrer",
	}, visited)
}

func TestGraph_WalkSkipsChildren(t *testing.T) {
	g := mustResolve(t, orderDoc)

	count := 0
	g.Walk(func(id NodeID) bool {
		count++
		return false
	})
	assert.Equal(t, 2, count)
}

func TestResolve_EnumTypedByOmission(t *testing.T) {
	// Test: enums without a declared type default to string
	g := mustResolve(t, `
$defs:
  Color:
    enum: [red, green]
`)
	n := g.Node(g.TopLevel()[0].Node)
	assert.Equal(t, KindEnum, n.Kind)
	assert.Equal(t, []string{"red", "green"}, n.EnumValues)
}

func TestResolve_UntypedObject(t *testing.T) {
	// Test: a schema with properties but no type is an object
	g := mustResolve(t, `
$defs:
  Point:
    properties:
      x:
        type: number
        minimum: 0
        exclusiveMaximum: 10
`)
	n := g.Node(g.TopLevel()[0].Node)
	assert.Equal(t, KindObject, n.Kind)

	x := g.Node(n.Properties[0].Schema)
	assert.Equal(t, Number, x.Primitive)
	assert.Equal(t, "0", x.Minimum)
	assert.Equal(t, "10", x.Maximum)
	assert.True(t, x.ExclusiveMaximum)
	assert.False(t, x.ExclusiveMinimum)
}

func TestResolve_RecursionThroughReference(t *testing.T) {
	// Test: recursive structures are fine when the cycle passes a $ref
	g := mustResolve(t, `
components:
  schemas:
    TreeNode:
      type: object
      properties:
        children:
          type: array
          items:
            $ref: "#/components/schemas/TreeNode"
`)
	assert.Equal(t, 3, g.Len())
	tree := g.Node(g.TopLevel()[0].Node)
	children := g.Node(tree.Properties[0].Schema)
	assert.Equal(t, tree.ID, g.Deref(children.Items))
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		kind        error
		errContains string
	}{
		{
			name: "conflicting properties and additionalProperties",
			doc: `
components:
  schemas:
    Bag:
      type: object
      properties:
        a: {type: string}
      additionalProperties:
        type: string
`,
			kind:        ErrConflictingSchemaShape,
			errContains: "at Bag",
		},
		{
			name: "unresolved reference",
			doc: `
components:
  schemas:
    Order:
      properties:
        customer:
          $ref: "#/components/schemas/Missing"
`,
			kind:        ErrUnresolvedReference,
			errContains: "Order/customer",
		},
		{
			name: "reference with wrong prefix",
			doc: `
components:
  schemas:
    A:
      properties:
        b:
          $ref: "#/definitions/B"
    B:
      type: object
`,
			kind:        ErrUnresolvedReference,
			errContains: "#/definitions/B",
		},
		{
			name: "integer enum",
			doc: `
$defs:
  Level:
    type: integer
    enum: [1, 2, 3]
`,
			kind:        ErrUnsupportedSchemaShape,
			errContains: "only enums of type string",
		},
		{
			name: "unknown type",
			doc: `
$defs:
  Thing:
    type: file
`,
			kind:        ErrUnsupportedSchemaShape,
			errContains: `"file"`,
		},
		{
			name: "multiple non-null types",
			doc: `
$defs:
  Thing:
    type: [string, integer]
`,
			kind:        ErrUnsupportedSchemaShape,
			errContains: `"string,integer"`,
		},
		{
			name: "null type",
			doc: `
$defs:
  Nothing:
    type: "null"
`,
			kind: ErrUnsupportedSchemaShape,
		},
		{
			name: "boolean additionalProperties",
			doc: `
$defs:
  Strict:
    type: object
    properties:
      a: {type: string}
    additionalProperties: false
`,
			kind:        ErrUnsupportedSchemaShape,
			errContains: "boolean additionalProperties",
		},
		{
			name: "composition",
			doc: `
$defs:
  Pet:
    oneOf:
      - $ref: "#/$defs/Cat"
  Cat:
    type: object
`,
			kind:        ErrUnsupportedSchemaShape,
			errContains: "oneOf",
		},
		{
			name: "array without items",
			doc: `
$defs:
  List:
    type: array
`,
			kind:        ErrUnsupportedSchemaShape,
			errContains: "without items",
		},
		{
			name: "top-level plain reference",
			doc: `
$defs:
  Alias:
    $ref: "#/$defs/Target"
  Target:
    type: string
`,
			kind:        ErrUnsupportedSchemaShape,
			errContains: "plain reference",
		},
		{
			name: "inline self embedding through an alias",
			doc: `
$defs:
  Node: &node
    type: object
    properties:
      next: *node
`,
			kind:        ErrRecursiveEmbedding,
			errContains: "Node/next",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := resolveDoc(t, tt.doc)
			require.Error(t, err)
			assert.Nil(t, g)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)

			var schemaErr *Error
			require.True(t, errors.As(err, &schemaErr))
			assert.Greater(t, schemaErr.Line, 0)
			if tt.errContains != "" {
				assert.Contains(t, err.Error(), tt.errContains)
			}
		})
	}
}

func TestResolve_NoSharedStateBetweenRuns(t *testing.T) {
	// Test: a resolver can be reused, each run owns its graph
	r := NewResolver(testutil.Logger(t))
	doc := testutil.ParseDocument(t, orderDoc)

	first, err := r.Resolve(doc)
	require.NoError(t, err)
	second, err := r.Resolve(doc)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Len(), second.Len())
	assert.Equal(t, first.TopLevel(), second.TopLevel())
}

func TestError_Format(t *testing.T) {
	err := Errorf(ErrUnresolvedReference, Location{"Order", "customer"}, "reference %q is unknown", "#/x")
	assert.Equal(t, `unresolved reference at Order/customer: reference "#/x" is unknown`, err.Error())

	err.Line, err.Column = 4, 7
	assert.Equal(t, `unresolved reference at Order/customer (line 4, column 7): reference "#/x" is unknown`, err.Error())

	assert.Equal(t, "naming collision unresolvable: boom", Errorf(ErrNamingCollision, nil, "boom").Error())
}

func TestLocation_ChildDoesNotAlias(t *testing.T) {
	base := make(Location, 1, 4)
	base[0] = "Order"

	a := base.Child("a")
	b := base.Child("b")

	assert.Equal(t, "Order/a", a.String())
	assert.Equal(t, "Order/b", b.String())
	assert.Equal(t, "Order", base.String())
}
