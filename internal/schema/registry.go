// Package schema owns the products column set: the nine fixed core
// fields plus the dynamic fields discovered at import time. The registry
// is an explicitly injected instance with a load-at-startup /
// persist-on-change lifecycle; there is no ambient mutable schema state.
package schema

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/talkincode/stockpile/internal/domain"
	"go.uber.org/zap"
)

// FieldStore persists dynamic field additions across restarts.
type FieldStore interface {
	ListFields(ctx context.Context) ([]domain.InvSchemaField, error)
	AddField(ctx context.Context, field domain.InvSchemaField) error
}

// Sanitize normalizes a raw column name: lower-case, every character
// outside [a-z0-9_] replaced with an underscore. Both import paths and
// the columns API go through here so names stay case-insensitively
// unique.
func Sanitize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Registry tracks the merged core+dynamic field set.
type Registry struct {
	mu      sync.RWMutex
	store   FieldStore
	dynamic map[string]string // sanitized name -> kind
}

func NewRegistry(store FieldStore) *Registry {
	return &Registry{
		store:   store,
		dynamic: make(map[string]string),
	}
}

// Load reads the persisted dynamic fields from the store.
func (r *Registry) Load(ctx context.Context) error {
	fields, err := r.store.ListFields(ctx)
	if err != nil {
		return errors.Wrap(err, "load schema registry")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dynamic = make(map[string]string, len(fields))
	for _, f := range fields {
		kind := f.Kind
		if kind != domain.FieldKindNumeric {
			kind = domain.FieldKindText
		}
		r.dynamic[f.Name] = kind
	}
	return nil
}

// Has reports whether name (already sanitized) is a core or dynamic field.
func (r *Registry) Has(name string) bool {
	if domain.IsCoreField(name) {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.dynamic[name]
	return ok
}

// AddDynamic sanitizes name and registers it as a dynamic field. Returns
// false without effect when the sanitized name already exists (core or
// dynamic) or equals "item". The addition is persisted durably before
// success is reported.
func (r *Registry) AddDynamic(ctx context.Context, name, kind string) (bool, error) {
	sanitized := Sanitize(name)
	if sanitized == "" || sanitized == domain.FieldItem {
		return false, nil
	}
	if kind != domain.FieldKindNumeric {
		kind = domain.FieldKindText
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if domain.IsCoreField(sanitized) {
		return false, nil
	}
	if _, ok := r.dynamic[sanitized]; ok {
		return false, nil
	}

	if err := r.store.AddField(ctx, domain.InvSchemaField{Name: sanitized, Kind: kind}); err != nil {
		return false, errors.Wrapf(err, "persist dynamic field %s", sanitized)
	}
	r.dynamic[sanitized] = kind
	zap.L().Info("registered dynamic field",
		zap.String("name", sanitized),
		zap.String("kind", kind))
	return true, nil
}

// Kind returns the declared kind of a field, text when unknown.
func (r *Registry) Kind(name string) string {
	if k := domain.CoreFieldKind(name); k != "" {
		return k
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if k, ok := r.dynamic[name]; ok {
		return k
	}
	return domain.FieldKindText
}

// IsNumeric reports whether a field holds numeric values.
func (r *Registry) IsNumeric(name string) bool {
	return r.Kind(name) == domain.FieldKindNumeric
}

// Core returns the fixed field set as name -> kind.
func (r *Registry) Core() map[string]string {
	out := make(map[string]string, len(domain.CoreFields))
	for _, f := range domain.CoreFields {
		out[f.Name] = f.Kind
	}
	return out
}

// Dynamic returns the discovered field set as name -> kind.
func (r *Registry) Dynamic() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.dynamic))
	for k, v := range r.dynamic {
		out[k] = v
	}
	return out
}

// All returns the merged core+dynamic field set. Core entries take
// precedence on a name collision; AddDynamic prevents collisions, the
// merge order is still core-last to favor them.
func (r *Registry) All() map[string]string {
	out := r.Dynamic()
	for name, kind := range r.Core() {
		out[name] = kind
	}
	return out
}
