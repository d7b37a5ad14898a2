// Package bson provides a BSON codec implementation.
//
// BSON documents must be maps, so a serialized collection is wrapped as
// {"rows": [...]} and a nil resource as {"rows": null}. Unmarshal into *any
// unwraps both.
package bson

import (
	"github.com/zoobzio/granola"
	"go.mongodb.org/mongo-driver/bson"
)

const rowsKey = "rows"

// bsonCodec implements granola.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() granola.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	switch v.(type) {
	case nil, []any:
		return bson.Marshal(bson.D{{Key: rowsKey, Value: v}})
	default:
		return bson.Marshal(v)
	}
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	target, ok := v.(*any)
	if !ok {
		return bson.Unmarshal(data, v)
	}

	var doc map[string]any
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}

	if rows, found := doc[rowsKey]; found && len(doc) == 1 {
		switch r := rows.(type) {
		case nil:
			*target = nil
			return nil
		case bson.A:
			*target = []any(r)
			return nil
		}
	}

	*target = doc
	return nil
}
