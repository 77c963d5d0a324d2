package java

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okra-platform/contractgen/internal/model"
)

// Qualified names of the annotation and runtime types the emitter refers to.
const (
	notNullType        = "javax.validation.constraints.NotNull"
	sizeType           = "javax.validation.constraints.Size"
	minType            = "javax.validation.constraints.Min"
	maxType            = "javax.validation.constraints.Max"
	decimalMinType     = "javax.validation.constraints.DecimalMin"
	decimalMaxType     = "javax.validation.constraints.DecimalMax"
	patternType        = "javax.validation.constraints.Pattern"
	validType          = "javax.validation.Valid"
	serializedNameType = "com.google.gson.annotations.SerializedName"

	listType    = "java.util.List"
	setType     = "java.util.Set"
	mapType     = "java.util.Map"
	objectsType = "java.util.Objects"
)

// annotations renders one annotation per constraint, dropping exact
// repeats. UniqueItems has no annotation; it is expressed by the Set type.
func annotations(cs []model.Constraint, im *imports) []string {
	out := make([]string, 0, len(cs))
	seen := make(map[string]bool, len(cs))
	for _, c := range cs {
		if a := annotation(c, im); a != "" && !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}

func annotation(c model.Constraint, im *imports) string {
	switch c.Kind {
	case model.Size:
		var args []string
		if c.Min != nil {
			args = append(args, fmt.Sprintf("min = %d", *c.Min))
		}
		if c.Max != nil {
			args = append(args, fmt.Sprintf("max = %d", *c.Max))
		}
		return fmt.Sprintf("@%s(%s)", im.use(sizeType), strings.Join(args, ", "))
	case model.Minimum:
		return bound(c, im, minType, decimalMinType, 1)
	case model.Maximum:
		return bound(c, im, maxType, decimalMaxType, -1)
	case model.Pattern:
		return fmt.Sprintf("@%s(regexp = %s)", im.use(patternType), quote(c.Regexp))
	case model.Valid:
		return "@" + im.use(validType)
	default:
		return ""
	}
}

// bound renders a numeric limit. Integral limits use @Min/@Max with the
// exclusive case moved one step inward; anything else uses the decimal
// variants with inclusive = false.
func bound(c model.Constraint, im *imports, integral, decimal string, step int64) string {
	if c.Integral {
		v, err := strconv.ParseInt(c.Value, 10, 64)
		if err == nil && !(c.Exclusive && overflows(v, step)) {
			if c.Exclusive {
				v += step
			}
			return fmt.Sprintf("@%s(%s)", im.use(integral), longLiteral(v))
		}
	}

	if c.Exclusive {
		return fmt.Sprintf("@%s(value = %s, inclusive = false)", im.use(decimal), quote(c.Value))
	}
	return fmt.Sprintf("@%s(%s)", im.use(decimal), quote(c.Value))
}

func overflows(v, step int64) bool {
	return (step > 0 && v == math.MaxInt64) || (step < 0 && v == math.MinInt64)
}

// longLiteral writes v as an int literal, or a long literal outside the int range.
func longLiteral(v int64) string {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10) + "L"
}

// typeName spells a type reference. Constraints of container elements are
// written as type-use annotations on the element.
func typeName(ref model.TypeRef, im *imports) string {
	switch ref.Kind {
	case model.RefNamed:
		return ref.Name
	case model.RefList:
		return im.use(listType) + "<" + elementName(*ref.Elem, im) + ">"
	case model.RefSet:
		return im.use(setType) + "<" + elementName(*ref.Elem, im) + ">"
	case model.RefMap:
		return im.use(mapType) + "<" + im.use("String") + ", " + elementName(*ref.Elem, im) + ">"
	default:
		return im.use(ref.Name)
	}
}

func elementName(ref model.TypeRef, im *imports) string {
	base := typeName(ref, im)
	annots := annotations(ref.Constraints, im)
	if len(annots) == 0 {
		return base
	}
	prefix := strings.Join(annots, " ") + " "

	// A qualified type takes its annotations right before the simple name.
	head := base
	if i := strings.IndexByte(head, '<'); i >= 0 {
		head = head[:i]
	}
	if i := strings.LastIndexByte(head, '.'); i >= 0 {
		return base[:i+1] + prefix + base[i+1:]
	}
	return prefix + base
}
