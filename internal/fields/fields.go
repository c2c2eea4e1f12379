// Package fields maps symbolic, client-supplied field names to typed accessors
// over an entity kind. A Registry is built once from an explicit list of
// descriptors; nothing is discovered at runtime, so only the fields listed
// here can ever be sorted on.
package fields

import (
	"cmp"
	"fmt"
	"sort"
	"strings"
	"time"

	"identity-console/internal/domain"
)

// Kind is the scalar type behind a field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Descriptor is a named accessor with the natural ordering of its scalar kind.
type Descriptor[T any] struct {
	name    string
	kind    Kind
	compare func(a, b T) int
}

// Name returns the field name as registered.
func (d Descriptor[T]) Name() string { return d.name }

// Kind returns the field's scalar kind.
func (d Descriptor[T]) Kind() Kind { return d.kind }

// Compare orders a and b by this field, ascending.
func (d Descriptor[T]) Compare(a, b T) int { return d.compare(a, b) }

// String describes a string field ordered by byte-wise (ordinal) comparison.
func String[T any](name string, get func(T) string) Descriptor[T] {
	return Descriptor[T]{name: name, kind: KindString, compare: func(a, b T) int {
		return strings.Compare(get(a), get(b))
	}}
}

// Int describes an integer field.
func Int[T any](name string, get func(T) int64) Descriptor[T] {
	return Descriptor[T]{name: name, kind: KindInt, compare: func(a, b T) int {
		return cmp.Compare(get(a), get(b))
	}}
}

// Bool describes a boolean field; false orders before true.
func Bool[T any](name string, get func(T) bool) Descriptor[T] {
	return Descriptor[T]{name: name, kind: KindBool, compare: func(a, b T) int {
		x, y := get(a), get(b)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	}}
}

// Time describes a timestamp field.
func Time[T any](name string, get func(T) time.Time) Descriptor[T] {
	return Descriptor[T]{name: name, kind: KindTime, compare: func(a, b T) int {
		return get(a).Compare(get(b))
	}}
}

// OptionalTime describes a nullable timestamp; nil orders before any time.
func OptionalTime[T any](name string, get func(T) *time.Time) Descriptor[T] {
	return Descriptor[T]{name: name, kind: KindTime, compare: func(a, b T) int {
		x, y := get(a), get(b)
		switch {
		case x == nil && y == nil:
			return 0
		case x == nil:
			return -1
		case y == nil:
			return 1
		default:
			return x.Compare(*y)
		}
	}}
}

// Registry resolves field names for one entity kind. It is read-only after
// construction and safe for concurrent use.
type Registry[T any] struct {
	entity string
	byName map[string]Descriptor[T]
	names  []string
}

// NewRegistry builds a registry for the named entity kind. Names must be
// non-empty and unique ignoring case.
func NewRegistry[T any](entity string, descriptors ...Descriptor[T]) (*Registry[T], error) {
	r := &Registry[T]{
		entity: entity,
		byName: make(map[string]Descriptor[T], len(descriptors)),
		names:  make([]string, 0, len(descriptors)),
	}
	for _, d := range descriptors {
		if d.name == "" || d.compare == nil {
			return nil, fmt.Errorf("%s registry: field descriptors need a name and accessor", entity)
		}
		key := strings.ToLower(d.name)
		if prev, ok := r.byName[key]; ok {
			return nil, fmt.Errorf("%s registry: field %q collides with %q", entity, d.name, prev.name)
		}
		r.byName[key] = d
		r.names = append(r.names, d.name)
	}
	sort.Strings(r.names)
	return r, nil
}

// MustRegistry is NewRegistry for package-level registries; it panics on error.
func MustRegistry[T any](entity string, descriptors ...Descriptor[T]) *Registry[T] {
	r, err := NewRegistry(entity, descriptors...)
	if err != nil {
		panic(err)
	}
	return r
}

// Entity returns the entity kind this registry describes.
func (r *Registry[T]) Entity() string { return r.entity }

// Names returns the registered field names, sorted.
func (r *Registry[T]) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Resolve finds the field whose name equals name ignoring case.
// Prefixes and partial names never match.
func (r *Registry[T]) Resolve(name string) (Descriptor[T], error) {
	d, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return Descriptor[T]{}, &domain.UnknownFieldError{Entity: r.entity, Field: name}
	}
	return d, nil
}
