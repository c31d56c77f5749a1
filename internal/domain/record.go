package domain

import (
	"strings"

	"github.com/spf13/cast"
)

// Record field names assigned by the server on every write.
const (
	FieldItem      = "item"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// Record is a product record: a mapping from field name to a text or
// numeric value. The field set grows at runtime, so a fixed struct with
// optional members would not fit; values are string or float64.
type Record map[string]interface{}

// Item returns the trimmed primary key value, "" when absent.
func (r Record) Item() string {
	v, ok := r[FieldItem]
	if !ok {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge overlays the incoming fields over the record. Fields absent from
// in are preserved; incoming values win per field.
func (r Record) Merge(in Record) {
	for k, v := range in {
		r[k] = v
	}
}
