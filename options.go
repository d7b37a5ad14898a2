package granola

import "golang.org/x/sync/errgroup"

const defaultName = "Serializer"

// options holds serializer configuration shared with nested serializers.
type options struct {
	name        string
	resolver    Resolver
	classify    Classifier
	rows        RowsFunc
	concurrency int
}

// Option configures a Serializer.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		name:     defaultName,
		classify: Classify,
		rows:     RowsOf,
	}
}

// WithName sets the serializer name reported in errors and signals.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithResolver sets how nested serializer ids are resolved.
// Nested serializers inherit it.
func WithResolver(r Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithClassifier replaces the default Classify. Nested serializers inherit it.
func WithClassifier(c Classifier) Option {
	return func(o *options) {
		if c != nil {
			o.classify = c
		}
	}
}

// WithRows replaces RowsOf as the extractor for ShapeRows values. Nested
// serializers inherit it.
func WithRows(f RowsFunc) Option {
	return func(o *options) {
		if f != nil {
			o.rows = f
		}
	}
}

// WithConcurrency bounds how many members of one fan-out run at once.
// Zero or less means unbounded. Nested serializers inherit it.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}

// inherit returns a copy of o for a nested serializer named name.
func (o *options) inherit(name string) *options {
	child := *o
	child.name = name
	return &child
}

// limit applies the concurrency bound to a fan-out group.
func (o *options) limit(g *errgroup.Group) {
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
}
