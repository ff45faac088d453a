package pagetable

import "reflect"

// pointerBits extracts an address-equal identity from a pointer-typed
// key so it can be hashed. The buffer pool always passes a *File
// value in Key.File; reflect.Value.Pointer is the only portable way
// to get at its bits without a type-specific import cycle back to
// storage/pagefile.
func pointerBits(v interface{}) uintptr {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Chan, reflect.Map, reflect.Func:
		return rv.Pointer()
	default:
		return 0
	}
}
