package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// javaKeywords are reserved words and literals that cannot be identifiers.
var javaKeywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true, "var": true, "record": true,
	"yield": true, "sealed": true, "permits": true, "_": true,
}

// IsKeyword reports whether s is reserved in Java source.
func IsKeyword(s string) bool {
	return javaKeywords[s]
}

// Segments splits s on every run of characters that are neither letters nor
// digits. Empty pieces are dropped.
func Segments(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Capitalize upper-cases the first letter of s and leaves the rest alone.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// ClassName turns a schema name or location segment into a type identifier:
// "order_item" -> "OrderItem", "orderItem" -> "OrderItem".
func ClassName(name string) string {
	var b strings.Builder
	for _, seg := range Segments(name) {
		b.WriteString(Capitalize(seg))
	}
	out := b.String()
	switch {
	case out == "":
		return "Model"
	case startsWithDigit(out):
		return "_" + out
	}
	return out
}

// PropertyName turns an original property name into a field identifier:
// "item_count" -> "itemCount", "ID" -> "id", "class" -> "class_".
func PropertyName(name string) string {
	segs := Segments(name)
	if len(segs) == 0 {
		return "value"
	}

	var b strings.Builder
	b.WriteString(decapitalize(segs[0]))
	for _, seg := range segs[1:] {
		b.WriteString(Capitalize(seg))
	}
	out := b.String()

	if startsWithDigit(out) {
		out = "_" + out
	}
	if IsKeyword(out) {
		out += "_"
	}
	return out
}

// ConstantName turns an enum literal into a constant identifier:
// "in-progress" -> "IN_PROGRESS", "inProgress" -> "IN_PROGRESS".
func ConstantName(value string) string {
	if value == "" {
		return "EMPTY"
	}

	upper := cases.Upper(language.Und)
	var parts []string
	for _, seg := range Segments(value) {
		for _, w := range words(seg) {
			parts = append(parts, upper.String(w))
		}
	}
	if len(parts) == 0 {
		return "VALUE"
	}

	out := strings.Join(parts, "_")
	if startsWithDigit(out) {
		out = "_" + out
	}
	return out
}

// startsWithDigit reports whether the first rune of s is a digit in any script.
func startsWithDigit(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsDigit(r)
}

// decapitalize lower-cases a leading upper-case run. A segment that is upper
// case throughout is lowered entirely.
func decapitalize(seg string) string {
	runes := []rune(seg)
	if isUpperRun(runes) {
		return strings.ToLower(seg)
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func isUpperRun(runes []rune) bool {
	for _, r := range runes {
		if unicode.IsLower(r) {
			return false
		}
	}
	return true
}

// words splits a letter/digit segment at camel-case boundaries, keeping
// acronyms together: "HTTPServer" -> ["HTTP", "Server"].
func words(seg string) []string {
	runes := []rune(seg)
	var out []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		lowerToUpper := unicode.IsLower(prev) && unicode.IsUpper(cur)
		acronymEnd := unicode.IsUpper(prev) && unicode.IsUpper(cur) &&
			i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if lowerToUpper || acronymEnd {
			out = append(out, string(runes[start:i]))
			start = i
		}
	}
	return append(out, string(runes[start:]))
}
