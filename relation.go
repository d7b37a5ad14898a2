package granola

import (
	"context"
	"reflect"
	"strings"
	"time"
	"unicode"
)

// RelationKind distinguishes singular from collection-valued relations.
type RelationKind string

const (
	// HasOne relations fetch a single entity or nil.
	HasOne RelationKind = "has_one"

	// HasMany relations fetch a collection of entities.
	HasMany RelationKind = "has_many"
)

// Relation is the handle an entity accessor returns for a named association.
// Fetch performs the I/O; its result is passed on without interpretation.
type Relation interface {
	Fetch(ctx context.Context) (any, error)
}

// RelationFunc adapts a function into a Relation.
type RelationFunc func(ctx context.Context) (any, error)

// Fetch calls f.
func (f RelationFunc) Fetch(ctx context.Context) (any, error) {
	return f(ctx)
}

// relationDef is a configured has-one or has-many relation.
type relationDef struct {
	name       string
	serializer string // empty when the related entity serializes itself
}

// relationType is the reflect type of the Relation interface.
var relationType = reflect.TypeFor[Relation]()

// lookupRelation finds the accessor for name on entity.
//
// Lookup order: Relatable, a map entry holding a Relation, then a
// zero-argument method named name or its exported form ("blog_posts"
// becomes "BlogPosts") returning a Relation.
func lookupRelation(entity any, name string) (Relation, bool) {
	if isNil(entity) {
		return nil, false
	}

	if r, ok := entity.(Relatable); ok {
		rel, found := r.Relation(name)
		if !found || rel == nil {
			return nil, false
		}
		return rel, true
	}

	if m, ok := entity.(map[string]any); ok {
		rel, found := m[name].(Relation)
		if !found || rel == nil {
			return nil, false
		}
		return rel, true
	}

	rv := reflect.ValueOf(entity)
	for _, candidate := range accessorNames(name) {
		method := rv.MethodByName(candidate)
		if !method.IsValid() {
			continue
		}
		mt := method.Type()
		if mt.NumIn() != 0 || mt.NumOut() != 1 || !mt.Out(0).Implements(relationType) {
			continue
		}
		out := method.Call(nil)[0]
		if out.Kind() == reflect.Interface && out.IsNil() {
			return nil, false
		}
		rel, ok := out.Interface().(Relation)
		if !ok || isNil(rel) {
			return nil, false
		}
		return rel, true
	}

	return nil, false
}

// accessorNames returns the method names tried for a relation name.
func accessorNames(name string) []string {
	exported := exportName(name)
	if exported == name {
		return []string{name}
	}
	return []string{name, exported}
}

// exportName converts snake_case and lowerCamel names to an exported Go identifier.
func exportName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' })
	var b strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// resolveRelation invokes the accessor for name on entity and awaits its fetch.
func (s *Serializer) resolveRelation(ctx context.Context, entity any, name string, kind RelationKind) (any, error) {
	rel, ok := lookupRelation(entity, name)
	if !ok {
		err := &RelationNotFoundError{
			Relation:   name,
			Entity:     typeName(entity),
			Serializer: s.name,
		}
		emitRelationResolved(ctx, s.name, name, kind, typeName(entity), 0, err)
		return nil, err
	}

	start := time.Now()
	value, err := rel.Fetch(ctx)
	emitRelationResolved(ctx, s.name, name, kind, typeName(entity), time.Since(start), err)
	return value, err
}
