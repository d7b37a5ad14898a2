package granola

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Schema configures a serializer: it is the Go stand-in for a serializer
// type. It runs against a fresh Serializer whose context already holds
// everything inherited from the parent.
//
//	users.Register("App/Serializers/User", func(s *granola.Serializer) {
//	    s.AddAttributes("id", "email").
//	        AddHasMany("posts", "Post")
//	})
type Schema func(s *Serializer)

// Resolver turns a serializer id into a Schema at call time, so schemas may
// reference each other in cycles.
type Resolver interface {
	Resolve(id string) (Schema, error)
}

// ResolverFunc adapts a function into a Resolver.
type ResolverFunc func(id string) (Schema, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(id string) (Schema, error) {
	return f(id)
}

// Registry is a Resolver backed by a map of fully qualified schema names.
// Ids passed to Resolve are prefixed with the registry namespace before
// lookup. Registries are safe for concurrent use.
type Registry struct {
	namespace string

	mu      sync.RWMutex
	schemas map[string]Schema
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithNamespace sets the prefix prepended to every id before lookup.
// The namespace is fixed once the registry is built.
func WithNamespace(prefix string) RegistryOption {
	return func(r *Registry) { r.namespace = prefix }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{schemas: make(map[string]Schema)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Namespace returns the prefix applied by Resolve.
func (r *Registry) Namespace() string {
	return r.namespace
}

// Register stores schema under its fully qualified name, replacing any
// previous entry. Returns the registry for chaining.
func (r *Registry) Register(name string, schema Schema) *Registry {
	r.mu.Lock()
	r.schemas[name] = schema
	r.mu.Unlock()

	emitSchemaRegistered(context.Background(), name)
	return r
}

// Resolve looks up namespace+id.
func (r *Registry) Resolve(id string) (Schema, error) {
	name := r.namespace + id

	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, name)
	}
	return schema, nil
}

// Schemas returns the registered names in sorted order.
func (r *Registry) Schemas() []string {
	r.mu.RLock()
	names := lo.Keys(r.schemas)
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// New builds a top-level serializer for resource from the schema with the
// given id. The serializer resolves nested ids through r unless opts
// override the resolver.
func (r *Registry) New(id string, resource any, opts ...Option) (*Serializer, error) {
	schema, err := r.Resolve(id)
	if err != nil {
		return nil, err
	}

	all := append([]Option{WithName(id), WithResolver(r)}, opts...)
	s := New(resource, all...)
	schema(s)
	return s, nil
}
