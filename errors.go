package granola

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrRelationNotFound indicates an entity has no accessor for a configured relation.
	ErrRelationNotFound = errors.New("relation not found")

	// ErrSchemaNotFound indicates a nested serializer id could not be resolved.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrNotSerializable indicates a related entity has no serializer id and
	// does not serialize itself.
	ErrNotSerializable = errors.New("entity not serializable")

	// ErrNotCollection indicates a value expected to hold rows does not.
	ErrNotCollection = errors.New("not a collection")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMask indicates masking of a derived field failed.
	ErrMask = errors.New("mask failed")

	// ErrHash indicates hashing of a derived field failed.
	ErrHash = errors.New("hash failed")

	// ErrEncrypt indicates sealing of a derived field failed.
	ErrEncrypt = errors.New("encrypt failed")

	// ErrInvalidKey indicates an encryption key has invalid size or format.
	ErrInvalidKey = errors.New("invalid key")
)

// RelationNotFoundError reports a configured relation that the entity being
// serialized does not expose.
type RelationNotFoundError struct {
	Relation   string // Relation name as configured
	Entity     string // Type name of the entity
	Serializer string // Name of the serializer that asked for it
}

func (e *RelationNotFoundError) Error() string {
	return fmt.Sprintf("relation %q not found on %s (serializer %s)", e.Relation, e.Entity, e.Serializer)
}

func (e *RelationNotFoundError) Unwrap() error {
	return ErrRelationNotFound
}

// ShapeError reports a value whose shape does not fit how it is used:
// a has-many relation that yields no rows, or a related entity that
// cannot serialize itself.
type ShapeError struct {
	Err        error  // Underlying sentinel error (ErrNotCollection, ErrNotSerializable)
	Relation   string // Relation being resolved, empty for the root resource
	Entity     string // Type name of the offending value
	Serializer string // Name of the serializer in charge
}

func (e *ShapeError) Error() string {
	if e.Relation != "" {
		return fmt.Sprintf("%s: relation %q yielded %s (serializer %s)", e.Err.Error(), e.Relation, e.Entity, e.Serializer)
	}
	return fmt.Sprintf("%s: %s (serializer %s)", e.Err.Error(), e.Entity, e.Serializer)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// TransformError represents an error while computing a derived field.
// It wraps a sentinel error with context about which field and operation failed.
type TransformError struct {
	Err       error  // Underlying sentinel error (ErrMask, ErrHash, ErrEncrypt)
	Field     string // Attribute the derived field reads
	Operation string // Operation that failed (mask, hash, seal)
	Cause     error  // Original error from the underlying operation
}

func (e *TransformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s field %s: %v", e.Operation, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s field %s", e.Operation, e.Field)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newTransformError creates a TransformError for derived field failures.
func newTransformError(sentinel error, operation, field string, cause error) error {
	return &TransformError{
		Err:       sentinel,
		Field:     field,
		Operation: operation,
		Cause:     cause,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
