package granola

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitSchemaRegistered(_ *testing.T) {
	// Should not panic
	emitSchemaRegistered(context.Background(), "App/Serializers/User")
}

func TestEmitSerializeStart(_ *testing.T) {
	emitSerializeStart(context.Background(), "User", ShapeSingle)
}

func TestEmitSerializeComplete_Success(_ *testing.T) {
	emitSerializeComplete(context.Background(), "User", ShapeSequence, 3, 100*time.Millisecond, nil)
}

func TestEmitSerializeComplete_Error(_ *testing.T) {
	emitSerializeComplete(context.Background(), "User", ShapeRows, 0, 100*time.Millisecond, errors.New("test error"))
}

func TestEmitRelationResolved_Success(_ *testing.T) {
	emitRelationResolved(context.Background(), "User", "posts", HasMany, "User", 5*time.Millisecond, nil)
}

func TestEmitRelationResolved_Error(_ *testing.T) {
	emitRelationResolved(context.Background(), "User", "ghost", HasOne, "User", 0, errors.New("test error"))
}

func TestEmitCallbackResolved_Success(_ *testing.T) {
	emitCallbackResolved(context.Background(), "User", "full_name", time.Millisecond, nil)
}

func TestEmitCallbackResolved_Error(_ *testing.T) {
	emitCallbackResolved(context.Background(), "User", "full_name", time.Millisecond, errors.New("test error"))
}

func TestEmitRenderComplete_Success(_ *testing.T) {
	emitRenderComplete(context.Background(), "User", "application/json", 512, 100*time.Millisecond, nil)
}

func TestEmitRenderComplete_Error(_ *testing.T) {
	emitRenderComplete(context.Background(), "User", "application/json", 0, 100*time.Millisecond, errors.New("test error"))
}

func TestSignalVariables(t *testing.T) {
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalSchemaRegistered", SignalSchemaRegistered},
		{"SignalSerializeStart", SignalSerializeStart},
		{"SignalSerializeComplete", SignalSerializeComplete},
		{"SignalRelationResolved", SignalRelationResolved},
		{"SignalCallbackResolved", SignalCallbackResolved},
		{"SignalRenderComplete", SignalRenderComplete},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeySerializer", KeySerializer},
		{"KeySchema", KeySchema},
		{"KeyShape", KeyShape},
		{"KeyRelation", KeyRelation},
		{"KeyRelationKind", KeyRelationKind},
		{"KeyEntity", KeyEntity},
		{"KeyProperty", KeyProperty},
		{"KeyContentType", KeyContentType},
		{"KeyCount", KeyCount},
		{"KeySize", KeySize},
		{"KeyDuration", KeyDuration},
		{"KeyError", KeyError},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s is nil", k.name)
		}
	}
}
