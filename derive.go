package granola

import (
	"context"
	"encoding/base64"
	"fmt"
)

// Derived field helpers build Callbacks from an attribute of the entity.
// A nil attribute yields nil without calling the transform.
//
//	s.AddAttributes("id").
//	    AddWithCallback("email", granola.Mask("email", granola.MaskEmail)).
//	    AddWithCallback("fingerprint", granola.Digest("email", granola.HashSHA256))

// Mask masks a string attribute with the builtin masker for mt.
func Mask(attr string, mt MaskType) Callback {
	m, ok := MaskerFor(mt)
	if !ok {
		return failing(newTransformError(ErrMask, "mask", attr, fmt.Errorf("unknown mask type %q", mt)))
	}
	return MaskWith(attr, m)
}

// MaskWith masks a string attribute with m.
func MaskWith(attr string, m Masker) Callback {
	return func(_ context.Context, entity any, _ Context) (any, error) {
		v := attribute(entity, attr)
		if v == nil {
			return nil, nil
		}
		str, ok := text(v)
		if !ok {
			return nil, newTransformError(ErrMask, "mask", attr, fmt.Errorf("unsupported type %T", v))
		}
		return m.Mask(str), nil
	}
}

// Redact always yields replacement.
func Redact(replacement string) Callback {
	return func(context.Context, any, Context) (any, error) {
		return replacement, nil
	}
}

// Digest hashes a string attribute with the builtin hasher for algo.
func Digest(attr string, algo HashAlgo) Callback {
	h, ok := builtinHashers()[algo]
	if !ok {
		return failing(newTransformError(ErrHash, "hash", attr, fmt.Errorf("unknown hash algorithm %q", algo)))
	}
	return DigestWith(attr, h)
}

// DigestWith hashes a string attribute with h.
func DigestWith(attr string, h Hasher) Callback {
	return func(_ context.Context, entity any, _ Context) (any, error) {
		v := attribute(entity, attr)
		if v == nil {
			return nil, nil
		}
		str, ok := text(v)
		if !ok {
			return nil, newTransformError(ErrHash, "hash", attr, fmt.Errorf("unsupported type %T", v))
		}
		hashed, err := h.Hash([]byte(str))
		if err != nil {
			return nil, newTransformError(ErrHash, "hash", attr, err)
		}
		return hashed, nil
	}
}

// Seal encrypts a string attribute with enc and yields base64 ciphertext.
func Seal(attr string, enc Encryptor) Callback {
	return func(_ context.Context, entity any, _ Context) (any, error) {
		v := attribute(entity, attr)
		if v == nil {
			return nil, nil
		}
		str, ok := text(v)
		if !ok {
			return nil, newTransformError(ErrEncrypt, "seal", attr, fmt.Errorf("unsupported type %T", v))
		}
		ciphertext, err := enc.Encrypt([]byte(str))
		if err != nil {
			return nil, newTransformError(ErrEncrypt, "seal", attr, err)
		}
		return base64.StdEncoding.EncodeToString(ciphertext), nil
	}
}

// failing returns a Callback that always fails with err.
func failing(err error) Callback {
	return func(context.Context, any, Context) (any, error) {
		return nil, err
	}
}

// text converts strings, byte slices and Stringers to a string.
func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	case *string:
		if t == nil {
			return "", false
		}
		return *t, true
	case fmt.Stringer:
		return t.String(), true
	default:
		return "", false
	}
}
