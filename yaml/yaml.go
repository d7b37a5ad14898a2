// Package yaml provides a YAML codec implementation.
package yaml

import (
	"bytes"

	"github.com/zoobzio/granola"
	"gopkg.in/yaml.v3"
)

const indent = 2

// yamlCodec implements granola.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec. Output is indented by two spaces with map keys
// in sorted order.
func New() granola.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
