package granola

import (
	"context"
	"reflect"
)

// Entity interfaces let types bypass reflection. When an entity implements
// one of them, the Serializer calls the interface method instead of
// inspecting struct fields or methods.

// Attributer bypasses reflection for attribute reads.
type Attributer interface {
	// Attribute returns the named attribute and whether it exists.
	// Missing attributes serialize as nil.
	Attribute(name string) (any, bool)
}

// Relatable bypasses reflection for relation accessor lookup.
type Relatable interface {
	// Relation returns the accessor for the named relation.
	// Returning false reports the relation as not found.
	Relation(name string) (Relation, bool)
}

// Serializable is implemented by values that produce their own plain
// representation. Related entities configured without a serializer id must
// implement it. *Serializer implements it too.
type Serializable interface {
	Serialize(ctx context.Context) (any, error)
}

// Named lets an entity report the type name used in diagnostics.
type Named interface {
	EntityName() string
}

// typeName returns the diagnostic type name of v.
func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	if n, ok := v.(Named); ok && !isNil(v) {
		return n.EntityName()
	}
	return reflect.TypeOf(v).String()
}

// isNil reports whether v is nil or a typed nil pointer, map, slice or func.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
