package granola

import "reflect"

// Shape classifies a resource or relation value.
type Shape int

const (
	// ShapeSingle is one entity.
	ShapeSingle Shape = iota

	// ShapeSequence is a plain slice or array of entities.
	ShapeSequence

	// ShapeRows is a container exposing its entities through Rows.
	ShapeRows
)

func (s Shape) String() string {
	switch s {
	case ShapeSequence:
		return "sequence"
	case ShapeRows:
		return "rows"
	default:
		return "single"
	}
}

// Rows is implemented by collection containers returned from the data layer.
type Rows interface {
	Rows() []any
}

// Classifier decides the shape of a value. Replace the default with
// WithClassifier, and pair it with WithRows, to recognise collection types
// from a specific data layer.
type Classifier func(v any) Shape

// Classify is the default Classifier. Rows implementations are ShapeRows,
// slices and arrays other than []byte are ShapeSequence, everything else is
// ShapeSingle.
func Classify(v any) Shape {
	if v == nil {
		return ShapeSingle
	}
	if _, ok := v.(Rows); ok {
		return ShapeRows
	}
	rt := reflect.TypeOf(v)
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		if rt.Elem().Kind() == reflect.Uint8 {
			return ShapeSingle
		}
		return ShapeSequence
	default:
		return ShapeSingle
	}
}

// RowsFunc extracts the ordered entities of a ShapeRows value. It reports
// false when v is not a container it recognises.
type RowsFunc func(v any) ([]any, bool)

// RowsOf is the default RowsFunc. It reads containers implementing Rows.
// Nil pointers are not containers; nil slices and maps are empty ones.
func RowsOf(v any) ([]any, bool) {
	r, ok := v.(Rows)
	if !ok {
		return nil, false
	}
	if rv := reflect.ValueOf(r); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, false
	}
	return r.Rows(), true
}

// members extracts the ordered entities of a collection-shaped value.
func members(v any, shape Shape, rows RowsFunc) ([]any, bool) {
	switch shape {
	case ShapeRows:
		return rows(v)
	case ShapeSequence:
		if list, ok := v.([]any); ok {
			return list, true
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, false
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}
