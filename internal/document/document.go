// Package document loads contract documents (OpenAPI 3 or JSON Schema) and
// exposes their named schema definitions as an ordered raw schema tree.
package document

// Prefixes of the reference paths under which named schemas are registered.
const (
	ComponentsPrefix  = "#/components/schemas/"
	DefsPrefix        = "#/$defs/"
	DefinitionsPrefix = "#/definitions/"
)

// Document is a loaded contract document
type Document struct {
	// Path is the file the document was read from
	Path string

	// RefPrefix is prepended to a schema name to form its canonical reference path
	RefPrefix string

	// Schemas holds the named top-level schemas in declaration order
	Schemas []Entry

	// Checksum is the hex encoded SHA-256 of the raw document bytes
	Checksum string
}

// Entry is one named top-level schema
type Entry struct {
	Name   string
	Schema *Schema
}

// RefPath returns the canonical reference path of a top-level schema name.
func (d *Document) RefPath(name string) string {
	return d.RefPrefix + name
}

// Schema is one raw schema definition as written in the document. Only the
// keywords the generator understands are kept; everything else is dropped by
// the loader.
type Schema struct {
	Ref         string
	Type        string
	Nullable    bool
	Format      string
	Title       string
	Description string

	Enum     []string
	Required []string

	Properties               []Property
	Items                    *Schema
	AdditionalProperties     *Schema
	AdditionalPropertiesFlag *bool

	UniqueItems   bool
	MinItems      *int
	MaxItems      *int
	MinProperties *int
	MaxProperties *int
	MinLength     *int
	MaxLength     *int

	// Minimum and Maximum keep the numeric literal as written. The boolean
	// ExclusiveMinimum/ExclusiveMaximum qualify them (OpenAPI 3.0).
	Minimum          string
	Maximum          string
	ExclusiveMinimum bool
	ExclusiveMaximum bool

	// ExclusiveMinimumValue and ExclusiveMaximumValue hold the numeric
	// exclusiveMinimum/exclusiveMaximum (OpenAPI 3.1)
	ExclusiveMinimumValue string
	ExclusiveMaximumValue string
	Pattern               string

	// Compositions lists the composition keywords (oneOf, anyOf, allOf, not) present
	Compositions []string

	Line   int
	Column int
}

// Property is a named entry of an object schema's properties
type Property struct {
	Name   string
	Schema *Schema
}

// IsRequired reports whether name is listed in the schema's required set.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}
