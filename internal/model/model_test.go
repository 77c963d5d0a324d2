package model

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeRef_String(t *testing.T) {
	tests := []struct {
		name     string
		ref      TypeRef
		expected string
	}{
		{"builtin", TypeRef{Kind: RefBuiltin, Name: "java.util.UUID"}, "UUID"},
		{"named", TypeRef{Kind: RefNamed, Name: "Order"}, "Order"},
		{"list", TypeRef{Kind: RefList, Elem: &TypeRef{Kind: RefBuiltin, Name: "String"}}, "List<String>"},
		{"set", TypeRef{Kind: RefSet, Elem: &TypeRef{Kind: RefNamed, Name: "Tag"}}, "Set<Tag>"},
		{
			"nested map",
			TypeRef{Kind: RefMap, Elem: &TypeRef{Kind: RefList, Elem: &TypeRef{Kind: RefBuiltin, Name: "java.math.BigDecimal"}}},
			"Map<String, List<BigDecimal>>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ref.String())
		})
	}
}

func TestQualifiedNames(t *testing.T) {
	assert.Equal(t, "LocalDate", SimpleName("java.time.LocalDate"))
	assert.Equal(t, "java.time", PackageOf("java.time.LocalDate"))
	assert.Equal(t, "String", SimpleName("String"))
	assert.Equal(t, "", PackageOf("String"))
}

func TestTypeSet_AddAndLookup(t *testing.T) {
	ts := NewTypeSet()
	assert.True(t, ts.Add(&Class{Name: "Order"}))
	assert.True(t, ts.Add(&Enum{Name: "OrderStatus"}))
	assert.False(t, ts.Add(&Class{Name: "Order"}), "duplicate names are refused")

	assert.Equal(t, []string{"Order", "OrderStatus"}, ts.Names())

	d, ok := ts.Lookup("OrderStatus")
	require.True(t, ok)
	assert.Equal(t, DeclEnum, d.DeclKind())

	_, ok = ts.Lookup("Missing")
	assert.False(t, ok)
}

func TestTypeSet_MarshalJSON(t *testing.T) {
	ts := NewTypeSet()
	ts.Add(&Class{
		Name:   "Order",
		Source: "Order",
		Properties: []Property{{
			Identifier:   "itemCount",
			OriginalName: "item_count",
			Type:         TypeRef{Kind: RefBuiltin, Name: "Integer"},
		}},
	})
	ts.Add(&Enum{
		Name:      "OrderStatus",
		Source:    "Order/status",
		Constants: []Constant{{Identifier: "OPEN", Value: "OPEN"}},
	})

	data, err := json.Marshal(ts)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "class", decoded[0]["kind"])
	assert.Equal(t, "Order", decoded[0]["name"])
	props := decoded[0]["properties"].([]any)
	assert.Equal(t, "item_count", props[0].(map[string]any)["originalName"])

	assert.Equal(t, "enum", decoded[1]["kind"])
	assert.Equal(t, "Order/status", decoded[1]["source"])
}

func TestRenamed(t *testing.T) {
	assert.True(t, Property{Identifier: "itemCount", OriginalName: "item_count"}.Renamed())
	assert.False(t, Property{Identifier: "id", OriginalName: "id"}.Renamed())
	assert.True(t, Constant{Identifier: "IN_PROGRESS", Value: "in-progress"}.Renamed())
	assert.False(t, Constant{Identifier: "OPEN", Value: "OPEN"}.Renamed())
}
