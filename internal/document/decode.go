package document

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError reports a structural problem in the document source
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// decoder turns yaml nodes into raw schemas. Aliased nodes decode to the same
// *Schema, so an alias that points back into its own anchor yields a cyclic
// tree which the resolver reports instead of looping forever.
type decoder struct {
	path string
	memo map[*yaml.Node]*Schema
}

func newDecoder(path string) *decoder {
	return &decoder{
		path: path,
		memo: make(map[*yaml.Node]*Schema),
	}
}

func (d *decoder) errorf(node *yaml.Node, format string, args ...any) error {
	return &ParseError{
		Path:    d.path,
		Line:    node.Line,
		Column:  node.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

func (d *decoder) schema(node *yaml.Node) (*Schema, error) {
	node = resolveAlias(node)
	if s, ok := d.memo[node]; ok {
		return s, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, d.errorf(node, "schema must be a mapping, got %s", kindName(node.Kind))
	}

	s := &Schema{Line: node.Line, Column: node.Column}
	d.memo[node] = s

	if err := d.fields(s, node); err != nil {
		return nil, err
	}
	return s, nil
}

// fields applies the keywords of a mapping node to s. Merge keys ("<<") are
// applied first so that explicit keys win.
func (d *decoder) fields(s *Schema, node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "<<" {
			continue
		}
		merged := resolveAlias(node.Content[i+1])
		sources := []*yaml.Node{merged}
		if merged.Kind == yaml.SequenceNode {
			sources = merged.Content
		}
		for _, src := range sources {
			src = resolveAlias(src)
			if src.Kind != yaml.MappingNode {
				return d.errorf(src, "merge key expects a mapping, got %s", kindName(src.Kind))
			}
			if err := d.fields(s, src); err != nil {
				return err
			}
		}
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := resolveAlias(node.Content[i+1])
		if key == "<<" {
			continue
		}
		if err := d.keyword(s, key, value); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) keyword(s *Schema, key string, value *yaml.Node) error {
	var err error
	switch key {
	case "$ref":
		s.Ref, err = d.str(value)
	case "type":
		err = d.typ(s, value)
	case "nullable":
		s.Nullable, err = d.boolean(value)
	case "format":
		s.Format, err = d.str(value)
	case "title":
		s.Title, err = d.str(value)
	case "description":
		s.Description, err = d.str(value)
	case "pattern":
		s.Pattern, err = d.str(value)
	case "enum":
		s.Enum, err = d.enum(value)
	case "required":
		s.Required, err = d.strings(value)
	case "properties":
		s.Properties, err = d.properties(value)
	case "items":
		if value.Kind == yaml.SequenceNode {
			return d.errorf(value, "tuple-style items are not supported")
		}
		s.Items, err = d.schema(value)
	case "additionalProperties":
		if value.Kind == yaml.ScalarNode {
			var flag bool
			flag, err = d.boolean(value)
			s.AdditionalPropertiesFlag = &flag
		} else {
			s.AdditionalProperties, err = d.schema(value)
		}
	case "uniqueItems":
		s.UniqueItems, err = d.boolean(value)
	case "minItems":
		s.MinItems, err = d.integer(value)
	case "maxItems":
		s.MaxItems, err = d.integer(value)
	case "minProperties":
		s.MinProperties, err = d.integer(value)
	case "maxProperties":
		s.MaxProperties, err = d.integer(value)
	case "minLength":
		s.MinLength, err = d.integer(value)
	case "maxLength":
		s.MaxLength, err = d.integer(value)
	case "minimum":
		s.Minimum, err = d.number(value)
	case "maximum":
		s.Maximum, err = d.number(value)
	case "exclusiveMinimum":
		err = d.exclusive(value, &s.ExclusiveMinimumValue, &s.ExclusiveMinimum)
	case "exclusiveMaximum":
		err = d.exclusive(value, &s.ExclusiveMaximumValue, &s.ExclusiveMaximum)
	case "oneOf", "anyOf", "allOf", "not":
		s.Compositions = append(s.Compositions, key)
	}
	return err
}

func (d *decoder) str(node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", d.errorf(node, "expected a string, got %s", kindName(node.Kind))
	}
	return node.Value, nil
}

func (d *decoder) boolean(node *yaml.Node) (bool, error) {
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!bool" {
		return false, d.errorf(node, "expected a boolean, got %q", node.Value)
	}
	v, err := strconv.ParseBool(node.Value)
	if err != nil {
		return false, d.errorf(node, "expected a boolean, got %q", node.Value)
	}
	return v, nil
}

func (d *decoder) integer(node *yaml.Node) (*int, error) {
	if node.Kind != yaml.ScalarNode {
		return nil, d.errorf(node, "expected an integer, got %s", kindName(node.Kind))
	}
	v, err := strconv.Atoi(node.Value)
	if err != nil || v < 0 {
		return nil, d.errorf(node, "expected a non-negative integer, got %q", node.Value)
	}
	return &v, nil
}

func (d *decoder) number(node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", d.errorf(node, "expected a number, got %s", kindName(node.Kind))
	}
	if _, err := strconv.ParseFloat(node.Value, 64); err != nil {
		return "", d.errorf(node, "expected a number, got %q", node.Value)
	}
	return node.Value, nil
}

// exclusive handles both the OpenAPI 3.0 boolean form, which qualifies
// minimum/maximum, and the 3.1 numeric form, which is a bound of its own.
func (d *decoder) exclusive(node *yaml.Node, bound *string, flag *bool) error {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!bool" {
		v, err := d.boolean(node)
		if err != nil {
			return err
		}
		*flag = v
		return nil
	}
	v, err := d.number(node)
	if err != nil {
		return err
	}
	*bound = v
	return nil
}

func (d *decoder) typ(s *Schema, node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Type = node.Value
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		return d.errorf(node, "type must be a string or a list, got %s", kindName(node.Kind))
	}

	var types []string
	for _, item := range node.Content {
		t, err := d.str(resolveAlias(item))
		if err != nil {
			return err
		}
		if t == "null" {
			s.Nullable = true
			continue
		}
		types = append(types, t)
	}
	// More than one non-null type is kept joined so the resolver reports it.
	s.Type = strings.Join(types, ",")
	return nil
}

func (d *decoder) strings(node *yaml.Node) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, d.errorf(node, "expected a list, got %s", kindName(node.Kind))
	}
	out := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		v, err := d.str(resolveAlias(item))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *decoder) enum(node *yaml.Node) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, d.errorf(node, "enum must be a list, got %s", kindName(node.Kind))
	}
	out := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		item = resolveAlias(item)
		if isNull(item) {
			continue
		}
		if item.Kind != yaml.ScalarNode {
			return nil, d.errorf(item, "enum values must be scalars, got %s", kindName(item.Kind))
		}
		out = append(out, item.Value)
	}
	return out, nil
}

func (d *decoder) properties(node *yaml.Node) ([]Property, error) {
	if node.Kind != yaml.MappingNode {
		return nil, d.errorf(node, "properties must be a mapping, got %s", kindName(node.Kind))
	}

	seen := make(map[string]bool, len(node.Content)/2)
	props := make([]Property, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		name := keyNode.Value
		if seen[name] {
			return nil, d.errorf(keyNode, "duplicate property %q", name)
		}
		seen[name] = true

		schema, err := d.schema(node.Content[i+1])
		if err != nil {
			return nil, err
		}
		props = append(props, Property{Name: name, Schema: schema})
	}
	return props, nil
}

// namedSchemas decodes a mapping of schema name to schema, keeping the order.
func (d *decoder) namedSchemas(node *yaml.Node) ([]Entry, error) {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return nil, d.errorf(node, "schema definitions must be a mapping, got %s", kindName(node.Kind))
	}

	seen := make(map[string]bool, len(node.Content)/2)
	entries := make([]Entry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		if seen[keyNode.Value] {
			return nil, d.errorf(keyNode, "duplicate schema name %q", keyNode.Value)
		}
		seen[keyNode.Value] = true

		schema, err := d.schema(node.Content[i+1])
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: keyNode.Value, Schema: schema})
	}
	return entries, nil
}

// lookup returns the value stored under key in a mapping node.
func lookup(node *yaml.Node, key string) *yaml.Node {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return resolveAlias(node.Content[i+1])
		}
	}
	return nil
}
