package keymap

import "reflect"

// fieldName returns the encoded name of a struct field and whether the
// field is skipped. The `key` struct tag renames a field; `key:"-"`
// skips it.
func fieldName(f reflect.StructField) (name string, skip bool) {
	switch tag := f.Tag.Get("key"); tag {
	case "":
		return f.Name, false
	case "-":
		return "", true
	default:
		return tag, false
	}
}
