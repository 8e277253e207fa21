package layering

import "reflect"

// Overlay composes values ordered from strongest to weakest. Structs made of
// exported fields are merged field by field so a stronger layer only replaces
// the fields it sets; every other value (pointers, funcs, interfaces, maps,
// slices, scalars and structs with unexported state) is taken whole from the
// strongest layer holding a non-zero value.
//
// Values are never copied deeply: a pointer or func kept in the result is the
// same pointer or func the caller passed in.
func Overlay[T any](layers ...T) T {
	var out T
	if len(layers) == 0 {
		return out
	}

	merged := reflect.ValueOf(&layers[len(layers)-1]).Elem()
	for i := len(layers) - 2; i >= 0; i-- {
		merged = overlayValue(reflect.ValueOf(&layers[i]).Elem(), merged)
	}

	reflect.ValueOf(&out).Elem().Set(merged)
	return out
}

func overlayValue(strong, weak reflect.Value) reflect.Value {
	if !weak.IsValid() {
		return strong
	}
	if !strong.IsValid() {
		return weak
	}

	if strong.Kind() == reflect.Struct && exportedOnly(strong.Type()) {
		result := reflect.New(strong.Type()).Elem()
		result.Set(weak)
		for i := 0; i < strong.NumField(); i++ {
			result.Field(i).Set(overlayValue(strong.Field(i), weak.Field(i)))
		}
		return result
	}

	if strong.IsZero() {
		return weak
	}
	return strong
}

func exportedOnly(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			return false
		}
	}
	return true
}
