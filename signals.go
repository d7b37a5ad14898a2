package granola

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for serializer events.
var (
	SignalSchemaRegistered  = capitan.NewSignal("granola.schema.registered", "Schema added to a registry")
	SignalSerializeStart    = capitan.NewSignal("granola.serialize.start", "Serialize operation beginning")
	SignalSerializeComplete = capitan.NewSignal("granola.serialize.complete", "Serialize operation finished")
	SignalRelationResolved  = capitan.NewSignal("granola.relation.resolved", "Relation fetch finished")
	SignalCallbackResolved  = capitan.NewSignal("granola.callback.resolved", "Derived field computed")
	SignalRenderComplete    = capitan.NewSignal("granola.render.complete", "Render operation finished")
)

// Keys for typed event data.
var (
	KeySerializer   = capitan.NewStringKey("serializer")
	KeySchema       = capitan.NewStringKey("schema")
	KeyShape        = capitan.NewStringKey("shape")
	KeyRelation     = capitan.NewStringKey("relation")
	KeyRelationKind = capitan.NewStringKey("relation_kind")
	KeyEntity       = capitan.NewStringKey("entity")
	KeyProperty     = capitan.NewStringKey("property")
	KeyContentType  = capitan.NewStringKey("content_type")
	KeyCount        = capitan.NewIntKey("count")
	KeySize         = capitan.NewIntKey("size")
	KeyDuration     = capitan.NewDurationKey("duration")
	KeyError        = capitan.NewErrorKey("error")
)

// emitSchemaRegistered emits an event when a schema is registered.
func emitSchemaRegistered(ctx context.Context, schema string) {
	capitan.Emit(ctx, SignalSchemaRegistered,
		KeySchema.Field(schema),
	)
}

// emitSerializeStart emits an event when serialize begins.
func emitSerializeStart(ctx context.Context, serializer string, shape Shape) {
	capitan.Emit(ctx, SignalSerializeStart,
		KeySerializer.Field(serializer),
		KeyShape.Field(shape.String()),
	)
}

// emitSerializeComplete emits an event when serialize finishes.
func emitSerializeComplete(ctx context.Context, serializer string, shape Shape, count int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeySerializer.Field(serializer),
		KeyShape.Field(shape.String()),
		KeyCount.Field(count),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSerializeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalSerializeComplete, fields...)
	}
}

// emitRelationResolved emits an event when a relation fetch finishes or
// the relation is missing.
func emitRelationResolved(ctx context.Context, serializer, relation string, kind RelationKind, entity string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeySerializer.Field(serializer),
		KeyRelation.Field(relation),
		KeyRelationKind.Field(string(kind)),
		KeyEntity.Field(entity),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalRelationResolved, fields...)
	} else {
		capitan.Emit(ctx, SignalRelationResolved, fields...)
	}
}

// emitCallbackResolved emits an event when a derived field is computed.
func emitCallbackResolved(ctx context.Context, serializer, property string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeySerializer.Field(serializer),
		KeyProperty.Field(property),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalCallbackResolved, fields...)
	} else {
		capitan.Emit(ctx, SignalCallbackResolved, fields...)
	}
}

// emitRenderComplete emits an event when a render finishes.
func emitRenderComplete(ctx context.Context, serializer, contentType string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeySerializer.Field(serializer),
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalRenderComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRenderComplete, fields...)
	}
}
