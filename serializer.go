package granola

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Callback computes a derived field from an entity. c is a snapshot of the
// serializer context; changes to it are not seen by the serializer.
type Callback func(ctx context.Context, entity any, c Context) (any, error)

// callbackDef is a configured derived field.
type callbackDef struct {
	property string
	fn       Callback
}

// Serializer turns an entity, or a collection of entities, into plain
// maps and slices.
//
// Configure a Serializer fully with the Add* and MergeContext methods before
// calling Serialize. Serialize only reads the configuration, so one
// Serializer may be serialized repeatedly, but configuration methods must
// not run concurrently with it.
type Serializer struct {
	resource any
	opts     *options
	name     string

	attributes []string
	hasOne     []relationDef
	hasMany    []relationDef
	callbacks  []callbackDef

	context Context
}

// New creates a Serializer for resource.
func New(resource any, opts ...Option) *Serializer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return newSerializer(resource, o)
}

func newSerializer(resource any, o *options) *Serializer {
	return &Serializer{
		resource: resource,
		opts:     o,
		name:     o.name,
		context:  make(Context),
	}
}

// Name returns the serializer name used in errors and signals.
func (s *Serializer) Name() string {
	return s.name
}

// Resource returns the value being serialized.
func (s *Serializer) Resource() any {
	return s.resource
}

// AddAttributes appends attribute names copied verbatim to the output.
// Returns the serializer for chaining.
func (s *Serializer) AddAttributes(names ...string) *Serializer {
	s.attributes = append(s.attributes, names...)
	return s
}

// AddHasOne registers a singular relation. An empty serializer id means the
// related entity serializes itself. Returns the serializer for chaining.
func (s *Serializer) AddHasOne(relation, serializer string) *Serializer {
	s.hasOne = append(s.hasOne, relationDef{name: relation, serializer: serializer})
	return s
}

// AddHasMany registers a collection-valued relation. An empty serializer id
// means each related entity serializes itself. Returns the serializer for
// chaining.
func (s *Serializer) AddHasMany(relation, serializer string) *Serializer {
	s.hasMany = append(s.hasMany, relationDef{name: relation, serializer: serializer})
	return s
}

// AddWithCallback registers a derived field computed by fn.
// Returns the serializer for chaining.
func (s *Serializer) AddWithCallback(property string, fn Callback) *Serializer {
	s.callbacks = append(s.callbacks, callbackDef{property: property, fn: fn})
	return s
}

// MergeContext adds the keys of partial that are not already set.
// Existing keys always win. Returns the serializer for chaining.
func (s *Serializer) MergeContext(partial Context) *Serializer {
	s.context.fill(partial)
	return s
}

// Context returns a copy of the serializer context.
func (s *Serializer) Context() Context {
	return s.context.snapshot()
}

// Serialize resolves the resource into a map[string]any for a single
// entity or a []any of maps for a collection. A nil single resource yields
// nil.
//
// Relations and callbacks run concurrently. The first failure is returned
// unchanged and cancels the context handed to the remaining work.
func (s *Serializer) Serialize(ctx context.Context) (result any, err error) {
	shape := s.opts.classify(s.resource)

	start := time.Now()
	emitSerializeStart(ctx, s.name, shape)

	count := 1
	defer func() {
		emitSerializeComplete(ctx, s.name, shape, count, time.Since(start), err)
	}()

	if shape == ShapeSingle {
		return s.serializeEntity(ctx, s.resource)
	}

	list, ok := members(s.resource, shape, s.opts.rows)
	if !ok {
		return nil, &ShapeError{Err: ErrNotCollection, Entity: typeName(s.resource), Serializer: s.name}
	}
	count = len(list)

	out, err := s.serializeCollection(ctx, list)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// serializeCollection serializes each entity concurrently, keeping input order.
func (s *Serializer) serializeCollection(ctx context.Context, list []any) ([]any, error) {
	out := make([]any, len(list))

	g, gctx := errgroup.WithContext(ctx)
	s.opts.limit(g)
	for i, entity := range list {
		g.Go(func() error {
			v, err := s.serializeEntity(gctx, entity)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// serializeEntity projects attributes, then resolves has-one relations,
// has-many relations and callbacks as three concurrent groups.
func (s *Serializer) serializeEntity(ctx context.Context, entity any) (any, error) {
	if isNil(entity) {
		return nil, nil
	}

	out := make(map[string]any, len(s.attributes)+len(s.hasOne)+len(s.hasMany)+len(s.callbacks))
	for _, name := range s.attributes {
		out[name] = attribute(entity, name)
	}

	one := make([]any, len(s.hasOne))
	many := make([]any, len(s.hasMany))
	derived := make([]any, len(s.callbacks))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.resolveHasOne(gctx, entity, one) })
	g.Go(func() error { return s.resolveHasMany(gctx, entity, many) })
	g.Go(func() error { return s.resolveCallbacks(gctx, entity, derived) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, rel := range s.hasOne {
		out[rel.name] = one[i]
	}
	for i, rel := range s.hasMany {
		out[rel.name] = many[i]
	}
	for i, cb := range s.callbacks {
		out[cb.property] = derived[i]
	}

	return out, nil
}

// resolveHasOne fills dst with the serialized has-one relations of entity.
// Absent related entities serialize as nil.
func (s *Serializer) resolveHasOne(ctx context.Context, entity any, dst []any) error {
	g, gctx := errgroup.WithContext(ctx)
	s.opts.limit(g)
	for i, rel := range s.hasOne {
		g.Go(func() error {
			related, err := s.resolveRelation(gctx, entity, rel.name, HasOne)
			if err != nil {
				return err
			}
			if isNil(related) {
				dst[i] = nil
				return nil
			}
			v, err := s.serializeRelated(gctx, related, rel.serializer)
			if err != nil {
				return err
			}
			dst[i] = v
			return nil
		})
	}
	return g.Wait()
}

// resolveHasMany fills dst with the serialized has-many relations of entity.
func (s *Serializer) resolveHasMany(ctx context.Context, entity any, dst []any) error {
	g, gctx := errgroup.WithContext(ctx)
	s.opts.limit(g)
	for i, rel := range s.hasMany {
		g.Go(func() error {
			related, err := s.resolveRelation(gctx, entity, rel.name, HasMany)
			if err != nil {
				return err
			}

			shape := s.opts.classify(related)
			list, ok := members(related, shape, s.opts.rows)
			if !ok {
				return &ShapeError{
					Err:        ErrNotCollection,
					Relation:   rel.name,
					Entity:     typeName(related),
					Serializer: s.name,
				}
			}

			v, err := s.serializeMembers(gctx, list, rel.serializer)
			if err != nil {
				return err
			}
			dst[i] = v
			return nil
		})
	}
	return g.Wait()
}

// serializeMembers serializes related entities concurrently, keeping order.
// A single failing member fails the whole relation.
func (s *Serializer) serializeMembers(ctx context.Context, list []any, serializer string) ([]any, error) {
	out := make([]any, len(list))

	g, gctx := errgroup.WithContext(ctx)
	s.opts.limit(g)
	for i, related := range list {
		g.Go(func() error {
			v, err := s.serializeRelated(gctx, related, serializer)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// resolveCallbacks fills dst with the results of the configured callbacks.
func (s *Serializer) resolveCallbacks(ctx context.Context, entity any, dst []any) error {
	g, gctx := errgroup.WithContext(ctx)
	s.opts.limit(g)
	for i, cb := range s.callbacks {
		g.Go(func() error {
			start := time.Now()
			v, err := cb.fn(gctx, entity, s.context.snapshot())
			emitCallbackResolved(gctx, s.name, cb.property, time.Since(start), err)
			if err != nil {
				return err
			}
			dst[i] = v
			return nil
		})
	}
	return g.Wait()
}

// serializeRelated serializes a related entity with the schema named by id,
// or lets the entity serialize itself when id is empty.
func (s *Serializer) serializeRelated(ctx context.Context, related any, id string) (any, error) {
	if id == "" {
		self, ok := related.(Serializable)
		if !ok {
			return nil, &ShapeError{Err: ErrNotSerializable, Entity: typeName(related), Serializer: s.name}
		}
		return self.Serialize(ctx)
	}

	child, err := s.nested(id, related)
	if err != nil {
		return nil, err
	}
	return child.Serialize(ctx)
}

// nested builds the serializer for id around related. The parent context is
// merged before the schema runs, so parent keys win over the schema's own
// defaults.
func (s *Serializer) nested(id string, related any) (*Serializer, error) {
	if s.opts.resolver == nil {
		return nil, fmt.Errorf("%w: %q (serializer %s has no resolver)", ErrSchemaNotFound, id, s.name)
	}

	schema, err := s.opts.resolver.Resolve(id)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, id)
	}

	child := newSerializer(related, s.opts.inherit(id))
	child.MergeContext(s.context)
	schema(child)
	return child, nil
}
