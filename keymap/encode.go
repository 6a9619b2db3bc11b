package keymap

import (
	"bytes"
	"encoding"
	"fmt"
	"reflect"
	"slices"

	"github.com/keycanon/keycanon/key"
)

// Encode converts a Go value to a canonical key. Floats are rejected
// unless WithFloatPolicy(key.OrderedFloats()) is given.
//
// The mapping: bool, string and []byte become Bool, String and Bytes;
// each integer kind becomes an Integer of its own width, with int and
// uint pinned to the 64-bit tags; floats go through the float policy;
// nil pointers, nil interfaces, nil slices and nil maps become Unit
// (the absent option), and non-nil pointers encode their element;
// slices and arrays become Seqs; structs become Maps from field name to
// field value in declaration order, with embedded structs flattened and
// the `key` struct tag honored; native Go maps become Maps with entries
// sorted by key order, since Go map iteration order is unspecified.
//
// Types implementing Marshaler produce their own shape events; types
// implementing encoding.TextMarshaler encode as the String of their
// text. rune is indistinguishable from int32 by reflection and encodes
// as a 32-bit Integer; use Builder.Rune for character semantics.
func Encode(v any, opts ...Option) (*key.Key, error) {
	cfg := newConfig(opts)
	e := &encodeState{
		cfg:     cfg,
		visited: make(map[uintptr]string),
	}
	k, err := e.encode(reflect.ValueOf(v), "")
	if err != nil {
		return nil, err
	}
	if cfg.normalize {
		k = k.Normalize()
	}
	return k, nil
}

type encodeState struct {
	cfg *config

	// visited tracks pointer addresses on the current walk path so that
	// cyclic Go values fail instead of recursing forever. Keys cannot
	// hold cycles, so there is nothing lossless to do with one.
	visited map[uintptr]string
}

func (e *encodeState) encode(val reflect.Value, path string) (*key.Key, error) {
	if !val.IsValid() {
		return key.Unit(), nil
	}
	typ := val.Type()
	kind := typ.Kind()

	if val.CanInterface() {
		if m, ok := val.Interface().(Marshaler); ok {
			// A nil pointer still reaches its pointer-receiver method;
			// treat it as absent rather than letting the method walk a
			// nil receiver.
			if kind == reflect.Ptr && val.IsNil() {
				return key.Unit(), nil
			}
			return m.MarshalKey(&Builder{cfg: e.cfg})
		}
		if kind != reflect.Ptr && val.CanAddr() {
			if m, ok := val.Addr().Interface().(Marshaler); ok {
				return m.MarshalKey(&Builder{cfg: e.cfg})
			}
		}
	}

	switch kind {
	case reflect.Ptr:
		if val.IsNil() {
			return key.Unit(), nil
		}
		if k, ok, err := e.encodeTextMarshaler(val); ok {
			return k, err
		}
		ptrAddr := val.Pointer()
		if prevPath, seen := e.visited[ptrAddr]; seen {
			return nil, &MarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("circular reference detected (previously seen at %q)", prevPath),
			}
		}
		e.visited[ptrAddr] = path
		k, err := e.encode(val.Elem(), path)
		delete(e.visited, ptrAddr)
		return k, err

	case reflect.Interface:
		if val.IsNil() {
			return key.Unit(), nil
		}
		return e.encode(val.Elem(), path)
	}

	if k, ok, err := e.encodeTextMarshaler(val); ok {
		return k, err
	}

	switch kind {
	case reflect.Bool:
		return key.FromBool(val.Bool()), nil

	case reflect.Int8:
		return key.FromInt8(int8(val.Int())), nil
	case reflect.Int16:
		return key.FromInt16(int16(val.Int())), nil
	case reflect.Int32:
		return key.FromInt32(int32(val.Int())), nil
	case reflect.Int, reflect.Int64:
		return key.FromInt64(val.Int()), nil

	case reflect.Uint8:
		return key.FromUint8(uint8(val.Uint())), nil
	case reflect.Uint16:
		return key.FromUint16(uint16(val.Uint())), nil
	case reflect.Uint32:
		return key.FromUint32(uint32(val.Uint())), nil
	case reflect.Uint, reflect.Uint64:
		return key.FromUint64(val.Uint()), nil

	case reflect.Float32:
		k, err := key.FromFloat32(float32(val.Float()), e.cfg.policy)
		if err != nil {
			return nil, &MarshalError{FieldPath: path, Message: err.Error(), Err: err}
		}
		return k, nil
	case reflect.Float64:
		k, err := key.FromFloat64(val.Float(), e.cfg.policy)
		if err != nil {
			return nil, &MarshalError{FieldPath: path, Message: err.Error(), Err: err}
		}
		return k, nil

	case reflect.String:
		return key.FromString(val.String()), nil

	case reflect.Slice:
		if typ.Elem().Kind() == reflect.Uint8 {
			if val.IsNil() {
				return key.Unit(), nil
			}
			return key.FromBytes(bytes.Clone(val.Bytes())), nil
		}
		if val.IsNil() {
			return key.Unit(), nil
		}
		return e.encodeSeq(val, path)

	case reflect.Array:
		return e.encodeSeq(val, path)

	case reflect.Map:
		if val.IsNil() {
			return key.Unit(), nil
		}
		return e.encodeMap(val, path)

	case reflect.Struct:
		pairs, err := e.encodeStructFields(val, path, nil)
		if err != nil {
			return nil, err
		}
		return key.FromPairs(pairs), nil

	default:
		err := &key.UnsupportedTypeError{Kind: typ.String()}
		return nil, &MarshalError{FieldPath: path, Message: err.Error(), Err: err}
	}
}

// encodeTextMarshaler reports whether val encodes via
// encoding.TextMarshaler, and if so the resulting String key.
func (e *encodeState) encodeTextMarshaler(val reflect.Value) (*key.Key, bool, error) {
	if !val.CanInterface() {
		return nil, false, nil
	}
	if tm, ok := val.Interface().(encoding.TextMarshaler); ok {
		text, err := tm.MarshalText()
		if err != nil {
			return nil, true, err
		}
		return key.FromString(string(text)), true, nil
	}
	if val.Kind() != reflect.Ptr && val.CanAddr() {
		if tm, ok := val.Addr().Interface().(encoding.TextMarshaler); ok {
			text, err := tm.MarshalText()
			if err != nil {
				return nil, true, err
			}
			return key.FromString(string(text)), true, nil
		}
	}
	return nil, false, nil
}

func (e *encodeState) encodeSeq(val reflect.Value, path string) (*key.Key, error) {
	if val.Kind() == reflect.Slice {
		slicePtr := val.Pointer()
		if prevPath, seen := e.visited[slicePtr]; seen {
			return nil, &MarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("circular reference detected (previously seen at %q)", prevPath),
			}
		}
		e.visited[slicePtr] = path
		defer delete(e.visited, slicePtr)
	}

	length := val.Len()
	elements := make([]*key.Key, 0, length)
	for i := 0; i < length; i++ {
		elemKey, err := e.encode(val.Index(i), indexPath(path, i))
		if err != nil {
			return nil, err
		}
		elements = append(elements, elemKey)
	}
	return key.FromSeq(elements), nil
}

// encodeMap converts a native Go map. Entries are sorted by encoded key
// order at construction: Go map iteration order is unspecified, so an
// unsorted association list would make the same map hash differently on
// every call.
func (e *encodeState) encodeMap(val reflect.Value, path string) (*key.Key, error) {
	mapPtr := val.Pointer()
	if prevPath, seen := e.visited[mapPtr]; seen {
		return nil, &MarshalError{
			FieldPath: path,
			Message:   fmt.Sprintf("circular reference detected (previously seen at %q)", prevPath),
		}
	}
	e.visited[mapPtr] = path
	defer delete(e.visited, mapPtr)

	pairs := make([]key.Pair, 0, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		entryPath := indexPath(path, len(pairs))
		k, err := e.encode(iter.Key(), entryPath)
		if err != nil {
			return nil, err
		}
		v, err := e.encode(iter.Value(), entryPath)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, key.Pair{Key: k, Value: v})
	}
	slices.SortStableFunc(pairs, func(a, b key.Pair) int {
		if c := key.Compare(a.Key, b.Key); c != 0 {
			return c
		}
		return key.Compare(a.Value, b.Value)
	})
	return key.FromPairs(pairs), nil
}

// encodeStructFields converts a struct's exported fields to map pairs in
// declaration order. Embedded structs are flattened in place; a field
// name occurring twice is an error rather than a silent shadow.
func (e *encodeState) encodeStructFields(val reflect.Value, path string, seen map[string]bool) ([]key.Pair, error) {
	typ := val.Type()
	if seen == nil {
		seen = make(map[string]bool)
	}
	var pairs []key.Pair

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		fieldVal := val.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct && field.Tag.Get("key") == "" {
			embedded, err := e.encodeStructFields(fieldVal, path, seen)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, embedded...)
			continue
		}

		name, skip := fieldName(field)
		if skip {
			continue
		}
		if seen[name] {
			return nil, &MarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("field name conflict: embedded struct field %q conflicts with existing field", name),
			}
		}
		seen[name] = true

		fieldKey, err := e.encode(fieldVal, childPath(path, name))
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, key.Pair{Key: key.FromString(name), Value: fieldKey})
	}
	return pairs, nil
}
