package obj

import (
	"reflect"
)

// IsNil reports whether what is nil, including a typed nil stored in an
// interface, e.g. a nil *History passed as a model.Router.
func IsNil(what any) bool {
	if what == nil {
		return true
	}

	v := reflect.ValueOf(what)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
