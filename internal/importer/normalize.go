package importer

import (
	"strings"

	"github.com/spf13/cast"
	"github.com/talkincode/stockpile/internal/schema"
)

// Normalize converts a raw text cell into a typed value according to the
// field's declared kind. Numeric fields strip a single leading "$" and
// parse as float; anything unparsable yields 0 rather than an error,
// matching the forgiving import contract. An empty string for a numeric
// field also yields 0: absent keys, not empty strings, signal "missing"
// at the record level. Text fields keep the trimmed cell verbatim.
func Normalize(reg *schema.Registry, field, raw string) interface{} {
	raw = strings.TrimSpace(raw)
	if !reg.IsNumeric(field) {
		return raw
	}
	raw = strings.TrimPrefix(raw, "$")
	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return float64(0)
	}
	return value
}
