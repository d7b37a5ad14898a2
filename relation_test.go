package granola

import (
	"context"
	"errors"
	"testing"
)

func fetched(t *testing.T, rel Relation) any {
	t.Helper()
	v, err := rel.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	return v
}

func constant(v any) Relation {
	return RelationFunc(func(context.Context) (any, error) { return v, nil })
}

type relatableFixture struct {
	rels map[string]Relation
}

func (r relatableFixture) Relation(name string) (Relation, bool) {
	rel, ok := r.rels[name]
	return rel, ok
}

// relatableFixture also has a method that must not be consulted.
func (r relatableFixture) Posts() Relation { return constant("method") }

type accessorFixture struct{}

func (accessorFixture) BlogPosts() Relation  { return constant("posts") }
func (accessorFixture) Author() Relation     { return constant("author") }
func (accessorFixture) Missing() Relation    { return nil }
func (accessorFixture) Count() int           { return 1 }
func (accessorFixture) WithArg(int) Relation { return constant("arg") }
func (accessorFixture) Func() RelationFunc {
	return func(context.Context) (any, error) { return "func", nil }
}
func (accessorFixture) NilFunc() RelationFunc { return nil }

func TestLookupRelation_Relatable(t *testing.T) {
	entity := relatableFixture{rels: map[string]Relation{"posts": constant("relatable")}}

	rel, ok := lookupRelation(entity, "posts")
	if !ok {
		t.Fatal("lookupRelation() should find posts")
	}
	if got := fetched(t, rel); got != "relatable" {
		t.Errorf("Fetch() = %v, want relatable", got)
	}

	if _, ok := lookupRelation(entity, "Posts"); ok {
		t.Error("Relatable entities should not fall back to methods")
	}
}

func TestLookupRelation_Map(t *testing.T) {
	entity := map[string]any{"posts": constant("map"), "name": "alice"}

	rel, ok := lookupRelation(entity, "posts")
	if !ok || fetched(t, rel) != "map" {
		t.Error("lookupRelation() should find map entry holding a Relation")
	}

	if _, ok := lookupRelation(entity, "name"); ok {
		t.Error("non-Relation map entries are not relations")
	}
	if _, ok := lookupRelation(entity, "ghost"); ok {
		t.Error("missing map entries are not relations")
	}
}

func TestLookupRelation_Methods(t *testing.T) {
	tests := []struct {
		name  string
		found bool
		want  any
	}{
		{"blog_posts", true, "posts"},
		{"BlogPosts", true, "posts"},
		{"author", true, "author"},
		{"func", true, "func"},
		{"missing", false, nil},
		{"nil_func", false, nil},
		{"count", false, nil},
		{"with_arg", false, nil},
		{"ghost", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, ok := lookupRelation(accessorFixture{}, tt.name)
			if ok != tt.found {
				t.Fatalf("lookupRelation(%q) found = %v, want %v", tt.name, ok, tt.found)
			}
			if ok && fetched(t, rel) != tt.want {
				t.Errorf("Fetch() = %v, want %v", fetched(t, rel), tt.want)
			}
		})
	}
}

func TestLookupRelation_Nil(t *testing.T) {
	var entity *accessorFixture
	if _, ok := lookupRelation(entity, "author"); ok {
		t.Error("nil entities have no relations")
	}
	if _, ok := lookupRelation(nil, "author"); ok {
		t.Error("nil entities have no relations")
	}
}

func TestExportName(t *testing.T) {
	tests := map[string]string{
		"posts":      "Posts",
		"blog_posts": "BlogPosts",
		"blog-posts": "BlogPosts",
		"blogPosts":  "BlogPosts",
		"Posts":      "Posts",
		"_x":         "X",
	}
	for in, want := range tests {
		if got := exportName(in); got != want {
			t.Errorf("exportName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAccessorNames(t *testing.T) {
	if got := accessorNames("Posts"); len(got) != 1 {
		t.Errorf("accessorNames(Posts) = %v, want one candidate", got)
	}
	if got := accessorNames("posts"); len(got) != 2 || got[1] != "Posts" {
		t.Errorf("accessorNames(posts) = %v, want [posts Posts]", got)
	}
}

func TestResolveRelation_FetchError(t *testing.T) {
	errFetch := errors.New("fetch failed")
	entity := map[string]any{"posts": RelationFunc(func(context.Context) (any, error) { return nil, errFetch })}

	s := New(entity)
	_, err := s.resolveRelation(context.Background(), entity, "posts", HasMany)
	if err != errFetch {
		t.Errorf("resolveRelation() error = %v, want %v", err, errFetch)
	}
}

func TestResolveRelation_NotFound(t *testing.T) {
	s := New(nil, WithName("Users"))
	_, err := s.resolveRelation(context.Background(), map[string]any{}, "ghost", HasOne)

	var notFound *RelationNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("resolveRelation() error = %T, want *RelationNotFoundError", err)
	}
	if notFound.Serializer != "Users" || notFound.Entity != "map[string]interface {}" {
		t.Errorf("unexpected error fields: %+v", notFound)
	}
}
