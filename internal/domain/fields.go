package domain

const (
	FieldKindText    = "text"
	FieldKindNumeric = "numeric"
)

// Field describes one schema column of the products collection.
type Field struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Core bool   `json:"core"`
}

// CoreFields is the fixed inventory attribute set, in canonical column order.
// The order doubles as the default header for pasted imports without a header row.
var CoreFields = []Field{
	{Name: "item", Kind: FieldKindText, Core: true},
	{Name: "description", Kind: FieldKindText, Core: true},
	{Name: "grp_sect", Kind: FieldKindText, Core: true},
	{Name: "onhand", Kind: FieldKindNumeric, Core: true},
	{Name: "um", Kind: FieldKindText, Core: true},
	{Name: "committed", Kind: FieldKindNumeric, Core: true},
	{Name: "onorder", Kind: FieldKindNumeric, Core: true},
	{Name: "unit_price", Kind: FieldKindNumeric, Core: true},
	{Name: "um2", Kind: FieldKindText, Core: true},
}

// DefaultHeader returns the core field names in canonical order.
func DefaultHeader() []string {
	names := make([]string, 0, len(CoreFields))
	for _, f := range CoreFields {
		names = append(names, f.Name)
	}
	return names
}

// IsCoreField reports whether name is one of the fixed core fields.
func IsCoreField(name string) bool {
	for _, f := range CoreFields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// CoreFieldKind returns the declared kind of a core field, or "" if unknown.
func CoreFieldKind(name string) string {
	for _, f := range CoreFields {
		if f.Name == name {
			return f.Kind
		}
	}
	return ""
}
