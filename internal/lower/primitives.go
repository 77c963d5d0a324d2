package lower

import "github.com/okra-platform/contractgen/internal/schema"

// builtins maps a primitive kind and format to a Java type. The "" format is
// the fallback for formats not listed.
var builtins = map[schema.PrimitiveKind]map[string]string{
	schema.Boolean: {
		"": "Boolean",
	},
	schema.Integer: {
		"":      "Integer",
		"int32": "Integer",
		"int64": "Long",
	},
	schema.Number: {
		"":       "java.math.BigDecimal",
		"float":  "Float",
		"double": "Double",
	},
	schema.String: {
		"":          "String",
		"date":      "java.time.LocalDate",
		"date-time": "java.time.OffsetDateTime",
		"uuid":      "java.util.UUID",
		"uri":       "java.net.URI",
	},
}

// Builtin returns the Java type of a primitive.
func Builtin(kind schema.PrimitiveKind, format string) string {
	formats, ok := builtins[kind]
	if !ok {
		return "Object"
	}
	if name, ok := formats[format]; ok {
		return name
	}
	return formats[""]
}
