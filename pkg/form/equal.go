package form

import (
	"reflect"

	"github.com/mohae/deepcopy"
)

// equal compares plain value trees (maps, slices and scalars). Numbers compare
// by value, not by Go type, so 1 and 1.0 are equal: values that went through
// JSON come back as float64 while definitions and code usually hold int.
func equal(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// normalize rewrites numbers as float64 and string-keyed maps and slices as
// map[string]any and []any. An empty map or slice and a nil one normalize alike.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	default:
		return v
	}
}

// snapshot detaches a value tree from caller-owned maps and slices.
func snapshot(v any) any {
	return deepcopy.Copy(v)
}
