// Package granola turns object graphs into plain maps and slices, ready for
// any encoder.
//
// A Serializer wraps a resource (one entity or a collection of them) and a
// declarative configuration: attributes copied verbatim, has-one and
// has-many relations serialized by nested serializers, and callbacks that
// compute derived fields. Relations and callbacks are resolved
// concurrently. Collections keep the order of their input.
//
// # Basic Usage
//
//	s := granola.New(user).
//	    AddAttributes("id", "email").
//	    AddWithCallback("initials", func(ctx context.Context, e any, c granola.Context) (any, error) {
//	        return strings.ToUpper(e.(*User).Name[:1]), nil
//	    })
//
//	out, err := s.Serialize(ctx) // map[string]any{"id": ..., "email": ..., "initials": ...}
//
// # Schemas and Registries
//
// Nested serializers are named by id and resolved when they are needed,
// which lets schemas reference each other in cycles:
//
//	reg := granola.NewRegistry(granola.WithNamespace("App/Serializers/"))
//	reg.Register("App/Serializers/User", func(s *granola.Serializer) {
//	    s.AddAttributes("id", "email").AddHasMany("posts", "Post")
//	})
//	reg.Register("App/Serializers/Post", func(s *granola.Serializer) {
//	    s.AddAttributes("id", "title").AddHasOne("author", "User")
//	})
//
//	s, _ := reg.New("User", user)
//	out, _ := s.Serialize(ctx)
//
// # Entities
//
// Attributes are read from Attributer implementations, map[string]any,
// struct fields (json tag name, then Go field name) or string-keyed maps.
// Relations are read from Relatable implementations, map entries holding a
// Relation, or zero-argument methods returning a Relation. A method for
// relation "blog_posts" may be named blog_posts or BlogPosts.
//
// Collections are slices, arrays and Rows containers. WithClassifier and
// WithRows teach a serializer the container types of another data layer.
//
// # Context
//
// Each serializer carries a Context of auxiliary values. MergeContext only
// fills missing keys. Nested serializers receive the parent context before
// their schema runs, so parent values take precedence over the schema's
// defaults. Callbacks see a snapshot.
//
// # Derived Fields
//
// Mask, Digest, Seal and Redact build callbacks from an attribute:
//
//	s.AddWithCallback("email", granola.Mask("email", granola.MaskEmail)).
//	    AddWithCallback("fingerprint", granola.Digest("email", granola.HashSHA256))
//
// Built-in maskers:
//
//   - ssn: 123-45-6789 → ***-**-6789
//   - email: alice@example.com → a***@example.com
//   - phone: (555) 123-4567 → (***) ***-4567
//   - card: 4111111111111111 → ************1111
//   - ip: 192.168.1.100 → 192.168.xxx.xxx
//   - uuid: 550e8400-e29b-... → 550e8400-****-****-****-************
//   - iban: GB82WEST12345698765432 → GB82**************5432
//   - name: John Smith → J*** S****
//
// Built-in hashers:
//
//   - Argon2() - Argon2id password hashing (salted)
//   - Bcrypt() - bcrypt password hashing (salted)
//   - SHA256Hasher() - SHA-256 deterministic hashing
//   - SHA512Hasher() - SHA-512 deterministic hashing
//
// # Codec Providers
//
// Render encodes serialized output with a Codec. Implementations live in
// subpackages:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//
// # Signals
//
// Serialize, relation fetches, callbacks and renders emit capitan signals
// (see signals.go) carrying the serializer name, timings and errors.
package granola
