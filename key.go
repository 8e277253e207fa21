package deps

import (
	"fmt"
	"reflect"
	"sort"

	layering "github.com/goliatone/go-dependencies/layering"
)

// Key declares one dependency slot. The value type V is fixed at compile
// time, so every candidate implementation and every override share it.
//
// Keys are declared once, usually as package level variables, and are
// immutable afterwards. Identity is the *Key instance itself: two keys with
// the same name are still different slots.
type Key[V any] struct {
	id          *keyIdentity
	description string
	live        V
	preview     V
	test        V
	tiers       layering.TierSet
	variants    map[string]V
}

// keyIdentity is the erased identity used by Values to index overrides.
type keyIdentity struct {
	name      string
	valueType string
}

// KeyOption configures optional candidates and metadata for a key.
type KeyOption[V any] func(*Key[V])

// WithPreviewValue declares the implementation used in preview contexts.
func WithPreviewValue[V any](value V) KeyOption[V] {
	return func(k *Key[V]) {
		k.preview = value
		k.tiers = k.tiers.With(layering.TierPreview)
	}
}

// WithTestValue declares the implementation used in test contexts.
func WithTestValue[V any](value V) KeyOption[V] {
	return func(k *Key[V]) {
		k.test = value
		k.tiers = k.tiers.With(layering.TierTest)
	}
}

// WithVariant registers a named alternative implementation. Variants are
// never picked by the cascade; they are installed explicitly through
// Catalog.Variant or profiles.
func WithVariant[V any](name string, value V) KeyOption[V] {
	return func(k *Key[V]) {
		if name == "" {
			return
		}
		if k.variants == nil {
			k.variants = make(map[string]V)
		}
		k.variants[name] = value
	}
}

// WithDescription attaches a human readable description used by Describe.
func WithDescription[V any](description string) KeyOption[V] {
	return func(k *Key[V]) {
		k.description = description
	}
}

// NewKey declares a key with the mandatory live implementation. An empty
// name falls back to "Key[<value type>]".
func NewKey[V any](name string, live V, opts ...KeyOption[V]) *Key[V] {
	k := newKey[V](name, opts)
	k.live = live
	k.tiers = k.tiers.With(layering.TierLive)
	return k
}

// KeyFor declares a key named after the zero-data marker type K:
//
//	type MyValueKey struct{}
//	var myValue = deps.KeyFor[MyValueKey](42)
func KeyFor[K any, V any](live V, opts ...KeyOption[V]) *Key[V] {
	return NewKey(markerName(reflect.TypeFor[K]()), live, opts...)
}

// NewTestKey declares a key that only provides a test implementation. Its
// preview value cascades to the test value, and resolving it from a live
// context is reported as a missing live implementation.
func NewTestKey[V any](name string, test V, opts ...KeyOption[V]) *Key[V] {
	k := newKey[V](name, opts)
	k.test = test
	k.tiers = k.tiers.With(layering.TierTest)
	return k
}

func newKey[V any](name string, opts []KeyOption[V]) *Key[V] {
	valueType := typeName(reflect.TypeFor[V]())
	if name == "" {
		name = fmt.Sprintf("Key[%s]", valueType)
	}
	k := &Key[V]{
		id: &keyIdentity{name: name, valueType: valueType},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(k)
		}
	}
	return k
}

// Name returns the display name used in diagnostics.
func (k *Key[V]) Name() string {
	return k.id.name
}

// ValueType returns the display name of V.
func (k *Key[V]) ValueType() string {
	return k.id.valueType
}

// Description returns the optional description.
func (k *Key[V]) Description() string {
	return k.description
}

// Tiers reports which candidate implementations were declared.
func (k *Key[V]) Tiers() layering.TierSet {
	return k.tiers
}

// LiveValue returns the live implementation and whether one was declared.
func (k *Key[V]) LiveValue() (V, bool) {
	return k.live, k.tiers.Has(layering.TierLive)
}

// PreviewValue returns the preview implementation, cascading to the live
// value and then to the test value when undeclared.
func (k *Key[V]) PreviewValue() V {
	value, _, _ := k.candidate(layering.TierPreview)
	return value
}

// TestValue returns the test implementation, cascading to PreviewValue when
// undeclared. It never reports failures; resolution through Values does.
func (k *Key[V]) TestValue() V {
	value, _, _ := k.candidate(layering.TierTest)
	return value
}

// Variant returns the named alternative implementation.
func (k *Key[V]) Variant(name string) (V, bool) {
	value, ok := k.variants[name]
	return value, ok
}

// Variants returns the registered variant names sorted alphabetically.
func (k *Key[V]) Variants() []string {
	if len(k.variants) == 0 {
		return nil
	}
	names := make([]string, 0, len(k.variants))
	for name := range k.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// candidate walks the cascade starting at start and returns the first
// declared implementation along with the tier it came from. The cascade is
// recomputed on every call.
func (k *Key[V]) candidate(start layering.Tier) (V, layering.Tier, bool) {
	tier, ok := layering.NewChain(start).First(k.tiers)
	if !ok {
		var zero V
		return zero, layering.TierUnknown, false
	}
	return k.slot(tier), tier, true
}

func (k *Key[V]) slot(tier layering.Tier) V {
	switch tier {
	case layering.TierTest:
		return k.test
	case layering.TierPreview:
		return k.preview
	default:
		return k.live
	}
}

func (k *Key[V]) identity() *keyIdentity {
	if k == nil {
		return nil
	}
	return k.id
}

// markerName prefers the bare declared name of a marker type so diagnostics
// read "MyValueKey" rather than "app.MyValueKey".
func markerName(t reflect.Type) string {
	if t != nil && t.Name() != "" {
		return t.Name()
	}
	return typeName(t)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}

// AnyKey is the type-erased view of a Key used by catalogs and tooling.
type AnyKey interface {
	Name() string
	ValueType() string
	Description() string
	Tiers() layering.TierSet
	Variants() []string

	identity() *keyIdentity
	variantOverride(name string) (Override, bool)
	traceIn(v *Values) Trace
}

func (k *Key[V]) variantOverride(name string) (Override, bool) {
	value, ok := k.Variant(name)
	if !ok {
		return nil, false
	}
	return Value(k, value), true
}

func (k *Key[V]) traceIn(v *Values) Trace {
	return TraceKey(v, k)
}
