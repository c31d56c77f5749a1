package schema

import (
	"context"
	"testing"

	"github.com/talkincode/stockpile/internal/domain"
)

type memFieldStore struct {
	fields []domain.InvSchemaField
}

func (m *memFieldStore) ListFields(_ context.Context) ([]domain.InvSchemaField, error) {
	return m.fields, nil
}

func (m *memFieldStore) AddField(_ context.Context, field domain.InvSchemaField) error {
	m.fields = append(m.fields, field)
	return nil
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Vendor Code!", "vendor_code_"},
		{"item", "item"},
		{"Unit Price", "unit_price"},
		{"  Bin-Location ", "bin_location"},
		{"ALREADY_OK_123", "already_ok_123"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAddDynamic(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(&memFieldStore{})

	added, err := reg.AddDynamic(ctx, "Vendor Code!", "")
	if err != nil {
		t.Fatalf("AddDynamic failed: %v", err)
	}
	if !added {
		t.Fatal("first AddDynamic should return true")
	}
	if !reg.Has("vendor_code_") {
		t.Error("registry should know vendor_code_ after AddDynamic")
	}

	// same raw name again
	added, err = reg.AddDynamic(ctx, "Vendor Code!", "")
	if err != nil {
		t.Fatalf("AddDynamic failed: %v", err)
	}
	if added {
		t.Error("second AddDynamic with the same raw name should return false")
	}

	// core field names cannot be shadowed
	for _, name := range []string{"item", "ITEM", "description", "Unit Price"} {
		added, err = reg.AddDynamic(ctx, name, "")
		if err != nil {
			t.Fatalf("AddDynamic(%q) failed: %v", name, err)
		}
		if added {
			t.Errorf("AddDynamic(%q) should not shadow a core field", name)
		}
	}
}

func TestAddDynamicKind(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(&memFieldStore{})

	if _, err := reg.AddDynamic(ctx, "weight", domain.FieldKindNumeric); err != nil {
		t.Fatal(err)
	}
	if !reg.IsNumeric("weight") {
		t.Error("weight should be numeric")
	}
	if _, err := reg.AddDynamic(ctx, "vendor", "bogus-kind"); err != nil {
		t.Fatal(err)
	}
	if reg.Kind("vendor") != domain.FieldKindText {
		t.Error("unknown kind should coerce to text")
	}
}

func TestLoadPersistedFields(t *testing.T) {
	ctx := context.Background()
	fs := &memFieldStore{}
	reg := NewRegistry(fs)
	if _, err := reg.AddDynamic(ctx, "bin", ""); err != nil {
		t.Fatal(err)
	}

	// a fresh registry over the same store sees the persisted field
	fresh := NewRegistry(fs)
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !fresh.Has("bin") {
		t.Error("reloaded registry should contain the persisted dynamic field")
	}
}

func TestAllMergesCoreOverDynamic(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(&memFieldStore{})
	if _, err := reg.AddDynamic(ctx, "bin", ""); err != nil {
		t.Fatal(err)
	}

	all := reg.All()
	if len(all) != len(reg.Core())+1 {
		t.Errorf("All() returned %d fields, want %d", len(all), len(reg.Core())+1)
	}
	if all["onhand"] != domain.FieldKindNumeric {
		t.Errorf("core onhand kind = %q, want numeric", all["onhand"])
	}
	if all["bin"] != domain.FieldKindText {
		t.Errorf("dynamic bin kind = %q, want text", all["bin"])
	}

	core := reg.Core()
	if _, ok := core["bin"]; ok {
		t.Error("Core() must not contain dynamic fields")
	}
}
