package granola

import (
	"context"
	"time"
)

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// Render serializes s and encodes the result with c.
// Serialize errors are returned unchanged; encoding failures are
// *CodecError wrapping ErrMarshal.
func Render(ctx context.Context, s *Serializer, c Codec) (data []byte, err error) {
	start := time.Now()
	defer func() {
		emitRenderComplete(ctx, s.name, c.ContentType(), len(data), time.Since(start), err)
	}()

	v, err := s.Serialize(ctx)
	if err != nil {
		return nil, err
	}

	data, err = c.Marshal(v)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return data, nil
}

// Decode unmarshals rendered data back into plain values with c.
// Failures are *CodecError wrapping ErrUnmarshal.
func Decode(data []byte, c Codec) (any, error) {
	var v any
	if err := c.Unmarshal(data, &v); err != nil {
		return nil, newCodecError(ErrUnmarshal, err)
	}
	return v, nil
}
