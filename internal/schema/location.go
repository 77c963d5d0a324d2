package schema

import "strings"

// Fixed location segments for descents that have no property name.
const (
	ItemsSegment  = "items"
	ValuesSegment = "additionalProperties"
)

// Location is the naming hint of a schema: the path of segments traversed
// from its top-level entry. It is used for naming and error reports only,
// never for identity.
type Location []string

// Child returns a new location with segment appended. The receiver is never
// modified, so sibling descents do not share a backing array.
func (l Location) Child(segment string) Location {
	out := make(Location, len(l), len(l)+1)
	copy(out, l)
	return append(out, segment)
}

// String renders the location as slash separated segments.
func (l Location) String() string {
	return strings.Join(l, "/")
}
