package model

// ConstraintKind names one checkable rule
type ConstraintKind string

const (
	// Size bounds string length, item count or entry count
	Size ConstraintKind = "size"
	// Minimum and Maximum bound numeric values
	Minimum ConstraintKind = "minimum"
	Maximum ConstraintKind = "maximum"
	// Pattern is a regular expression the string must match
	Pattern ConstraintKind = "pattern"
	// UniqueItems forbids duplicate items, rendered through the Set type
	UniqueItems ConstraintKind = "uniqueItems"
	// Valid cascades validation into a declared class
	Valid ConstraintKind = "valid"
)

// Constraint is one validation rule carried on a type reference. The
// lowerer records constraints; it never enforces them.
type Constraint struct {
	Kind ConstraintKind `json:"kind"`

	// Size
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`

	// Minimum, Maximum
	Value     string `json:"value,omitempty"`
	Exclusive bool   `json:"exclusive,omitempty"`
	Integral  bool   `json:"integral,omitempty"`

	// Pattern
	Regexp string `json:"regexp,omitempty"`
}
