// Package testing provides fixtures for exercising granola serializers:
// in-memory entities, relation builders and concurrency probes.
package testing

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/granola"
)

// TestKey returns a valid 32-byte AES key for testing.
func TestKey() []byte {
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// TestEncryptor returns an AES encryptor configured for testing.
func TestEncryptor() granola.Encryptor {
	enc, err := granola.AES(TestKey())
	if err != nil {
		panic(err)
	}
	return enc
}

// Model is an in-memory entity with attributes and relation accessors.
type Model struct {
	Name  string
	Attrs map[string]any
	Rels  map[string]granola.Relation
}

// NewModel creates a Model of the given type name.
func NewModel(name string, attrs map[string]any) *Model {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	return &Model{Name: name, Attrs: attrs, Rels: make(map[string]granola.Relation)}
}

// With sets the accessor for a relation. Returns the model for chaining.
func (m *Model) With(name string, rel granola.Relation) *Model {
	m.Rels[name] = rel
	return m
}

// Attribute implements granola.Attributer.
func (m *Model) Attribute(name string) (any, bool) {
	v, ok := m.Attrs[name]
	return v, ok
}

// Relation implements granola.Relatable.
func (m *Model) Relation(name string) (granola.Relation, bool) {
	rel, ok := m.Rels[name]
	return rel, ok
}

// EntityName implements granola.Named.
func (m *Model) EntityName() string {
	return m.Name
}

// Collection is a container of entities as returned by a data layer.
type Collection []any

// Rows implements granola.Rows.
func (c Collection) Rows() []any {
	return c
}

// One returns a relation that fetches v.
func One(v any) granola.Relation {
	return granola.RelationFunc(func(context.Context) (any, error) {
		return v, nil
	})
}

// Many returns a relation that fetches vs as a Collection.
func Many(vs ...any) granola.Relation {
	return granola.RelationFunc(func(context.Context) (any, error) {
		return Collection(vs), nil
	})
}

// Delayed returns a relation that fetches v after d, or fails when the
// context is done first.
func Delayed(d time.Duration, v any) granola.Relation {
	return granola.RelationFunc(func(ctx context.Context) (any, error) {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return v, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

// Failing returns a relation whose fetch fails with err.
func Failing(err error) granola.Relation {
	return granola.RelationFunc(func(context.Context) (any, error) {
		return nil, err
	})
}

// Barrier releases its relations only once n of them are fetching at the
// same time. A serializer that fetches sequentially blocks until its
// context is done.
type Barrier struct {
	n       int
	mu      sync.Mutex
	arrived int
	ready   chan struct{}
}

// NewBarrier creates a barrier for n concurrent fetches.
func NewBarrier(n int) *Barrier {
	return &Barrier{n: n, ready: make(chan struct{})}
}

// Relation returns a relation that waits at the barrier, then fetches v.
func (b *Barrier) Relation(v any) granola.Relation {
	return granola.RelationFunc(func(ctx context.Context) (any, error) {
		b.mu.Lock()
		b.arrived++
		if b.arrived == b.n {
			close(b.ready)
		}
		b.mu.Unlock()

		select {
		case <-b.ready:
			return v, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

// Probe records how many fetches ran and the peak number in flight.
type Probe struct {
	calls    atomic.Int64
	inFlight atomic.Int64
	peak     atomic.Int64
}

// Wrap returns rel instrumented by p. hold keeps each fetch in flight long
// enough for overlaps to be observed.
func (p *Probe) Wrap(rel granola.Relation, hold time.Duration) granola.Relation {
	return granola.RelationFunc(func(ctx context.Context) (any, error) {
		p.calls.Add(1)
		current := p.inFlight.Add(1)
		defer p.inFlight.Add(-1)

		for {
			peak := p.peak.Load()
			if current <= peak || p.peak.CompareAndSwap(peak, current) {
				break
			}
		}

		time.Sleep(hold)
		return rel.Fetch(ctx)
	})
}

// Calls returns the number of fetches started.
func (p *Probe) Calls() int64 {
	return p.calls.Load()
}

// Peak returns the highest number of fetches seen in flight at once.
func (p *Probe) Peak() int64 {
	return p.peak.Load()
}

// Literal is an entity that serializes itself to Value.
type Literal struct {
	Value any
}

// Serialize implements granola.Serializable.
func (l Literal) Serialize(context.Context) (any, error) {
	return l.Value, nil
}
