package granola

import (
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag("json")
}

// attributePlan maps attribute names to struct field paths for one type.
type attributePlan struct {
	fields map[string][]int
}

var (
	plans   = make(map[reflect.Type]*attributePlan)
	plansMu sync.RWMutex
)

// Prepare scans T ahead of the first serialization so attribute plans are
// built from cached sentinel metadata instead of a reflection walk.
func Prepare[T any]() {
	sentinel.Scan[T]()
}

// attribute reads the named attribute from entity. Missing attributes and
// nil entities yield nil.
func attribute(entity any, name string) any {
	switch e := entity.(type) {
	case nil:
		return nil
	case Attributer:
		v, _ := e.Attribute(name)
		return v
	case map[string]any:
		return e[name]
	}

	rv := reflect.ValueOf(entity)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		index, ok := planFor(rv.Type()).fields[name]
		if !ok {
			return nil
		}
		field, ok := fieldByIndex(rv, index)
		if !ok || !field.CanInterface() {
			return nil
		}
		return field.Interface()
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil
		}
		return v.Interface()
	default:
		return nil
	}
}

// planFor returns a cached plan or builds a new one.
func planFor(rt reflect.Type) *attributePlan {
	// Fast path: read-lock cache check
	plansMu.RLock()
	if cached, ok := plans[rt]; ok {
		plansMu.RUnlock()
		return cached
	}
	plansMu.RUnlock()

	plansMu.Lock()
	defer plansMu.Unlock()

	// Double-check pattern
	if cached, ok := plans[rt]; ok {
		return cached
	}

	plan := buildPlan(rt)
	plans[rt] = plan
	return plan
}

// buildPlan maps each exported field under its json name and its Go name.
// Fields tagged json:"-" are not readable.
// Json names take precedence when they collide with another field's Go name.
func buildPlan(rt reflect.Type) *attributePlan {
	plan := &attributePlan{fields: make(map[string][]int)}
	byGoName := make(map[string][]int)

	for _, field := range scanFields(rt) {
		tag := field.Tags["json"]
		if tag == "-" {
			continue
		}
		byGoName[field.Name] = field.Index
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			plan.fields[name] = field.Index
		}
	}

	for name, index := range byGoName {
		if _, taken := plan.fields[name]; !taken {
			plan.fields[name] = index
		}
	}

	return plan
}

// scanFields returns field metadata for rt, preferring sentinel's cache.
func scanFields(rt reflect.Type) []sentinel.FieldMetadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return spec.Fields
	}

	fields := make([]sentinel.FieldMetadata, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		tags := make(map[string]string)
		if val, ok := sf.Tag.Lookup("json"); ok {
			tags["json"] = val
		}

		fields = append(fields, sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        tags,
		})
	}
	return fields
}

// fieldByIndex navigates a field path, stopping at nil embedded pointers.
func fieldByIndex(rv reflect.Value, index []int) (reflect.Value, bool) {
	current := rv
	for i, idx := range index {
		if i > 0 && current.Kind() == reflect.Pointer {
			if current.IsNil() {
				return reflect.Value{}, false
			}
			current = current.Elem()
		}
		current = current.Field(idx)
	}
	return current, true
}
