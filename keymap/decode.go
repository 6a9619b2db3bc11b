package keymap

import (
	"bytes"
	"encoding"
	"fmt"
	"math"
	"reflect"

	"github.com/keycanon/keycanon/key"
)

// Decode reconstructs a Go value from a canonical key. v must be a
// non-nil pointer to the target. The key must have been encoded under
// the same float policy the options carry.
//
// The mapping is the reciprocal of Encode: a Unit key satisfies any
// pointer target by setting it nil and zeroes any other target; Integer
// keys decode into any Go integer type whose range holds the value,
// whatever the stored width; fixed-size Go arrays require a Seq of
// exactly their length; slices take however many elements the Seq
// holds; structs decode from Maps by field name, skipping entries with
// no matching field. Types implementing Unmarshaler consume their own
// shape events; types implementing encoding.TextUnmarshaler decode from
// a String key.
func Decode(k *key.Key, v any, opts ...Option) error {
	return decodeInto(k, v, newConfig(opts))
}

func decodeInto(k *key.Key, v any, cfg *config) error {
	if v == nil {
		return &UnmarshalError{Message: "destination value cannot be nil"}
	}
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr {
		return &UnmarshalError{Message: "destination value must be a pointer"}
	}
	if val.IsNil() {
		return &UnmarshalError{Message: "destination pointer cannot be nil"}
	}
	if u, ok := v.(Unmarshaler); ok {
		return u.UnmarshalKey(&Decoder{k: k, cfg: cfg})
	}
	return decodeValue(k, val.Elem(), "", cfg)
}

func decodeValue(k *key.Key, val reflect.Value, path string, cfg *config) error {
	if k == nil {
		return &UnmarshalError{FieldPath: path, Message: "key is nil"}
	}

	typ := val.Type()
	kind := typ.Kind()

	if kind == reflect.Ptr {
		// A Unit key is the absent option: the pointer stays (or
		// becomes) nil.
		if k.Type == key.UnitType {
			if val.CanSet() {
				val.Set(reflect.Zero(typ))
			}
			return nil
		}
		if val.IsNil() {
			if !val.CanSet() {
				return &UnmarshalError{FieldPath: path, Message: "cannot allocate through unsettable pointer"}
			}
			val.Set(reflect.New(typ.Elem()))
		}
		if u, ok := val.Interface().(Unmarshaler); ok {
			return u.UnmarshalKey(&Decoder{k: k, cfg: cfg})
		}
		if k.Type == key.StringType {
			if tu, ok := val.Interface().(encoding.TextUnmarshaler); ok {
				return tu.UnmarshalText([]byte(k.String))
			}
		}
		return decodeValue(k, val.Elem(), path, cfg)
	}

	if val.CanAddr() {
		if u, ok := val.Addr().Interface().(Unmarshaler); ok {
			return u.UnmarshalKey(&Decoder{k: k, cfg: cfg})
		}
		if k.Type == key.StringType {
			if tu, ok := val.Addr().Interface().(encoding.TextUnmarshaler); ok {
				return tu.UnmarshalText([]byte(k.String))
			}
		}
	}

	// Unit zeroes any non-pointer target.
	if k.Type == key.UnitType {
		if val.CanSet() {
			val.Set(reflect.Zero(typ))
		}
		return nil
	}

	switch kind {
	case reflect.Bool:
		if k.Type != key.BoolType {
			return shapeError(path, "bool", k.Type)
		}
		val.SetBool(k.Bool)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decodeInt(k, val, path)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decodeUint(k, val, path)

	case reflect.Float32, reflect.Float64:
		return decodeFloat(k, val, path, cfg)

	case reflect.String:
		if k.Type != key.StringType {
			return shapeError(path, "string", k.Type)
		}
		val.SetString(k.String)
		return nil

	case reflect.Slice:
		if typ.Elem().Kind() == reflect.Uint8 {
			if k.Type != key.BytesType {
				return shapeError(path, "bytes", k.Type)
			}
			val.SetBytes(bytes.Clone(k.Bytes))
			return nil
		}
		return decodeSlice(k, val, path, cfg)

	case reflect.Array:
		return decodeArray(k, val, path, cfg)

	case reflect.Map:
		return decodeMap(k, val, path, cfg)

	case reflect.Struct:
		return decodeStruct(k, val, path, cfg)

	case reflect.Interface:
		if typ.NumMethod() == 0 {
			return decodeAny(k, val, path, cfg)
		}
		err := &key.UnsupportedTypeError{Kind: typ.String()}
		return &UnmarshalError{FieldPath: path, Message: err.Error(), Err: err}

	default:
		err := &key.UnsupportedTypeError{Kind: typ.String()}
		return &UnmarshalError{FieldPath: path, Message: err.Error(), Err: err}
	}
}

func shapeError(path, expected string, got key.Type) error {
	err := &key.UnexpectedShapeError{Expected: expected, Got: got}
	return &UnmarshalError{FieldPath: path, Message: err.Error(), Err: err}
}

func decodeInt(k *key.Key, val reflect.Value, path string) error {
	if k.Type != key.IntegerType {
		return shapeError(path, "integer", k.Type)
	}
	n := k.Integer
	var i int64
	if n.Width.Signed() {
		i = n.Int64()
	} else {
		if n.Bits > math.MaxInt64 {
			return shapeError(path, fmt.Sprintf("integer in range of %s", val.Type()), k.Type)
		}
		i = int64(n.Bits)
	}
	if val.OverflowInt(i) {
		return shapeError(path, fmt.Sprintf("integer in range of %s", val.Type()), k.Type)
	}
	val.SetInt(i)
	return nil
}

func decodeUint(k *key.Key, val reflect.Value, path string) error {
	if k.Type != key.IntegerType {
		return shapeError(path, "integer", k.Type)
	}
	n := k.Integer
	if n.Width.Signed() && n.Int64() < 0 {
		return shapeError(path, fmt.Sprintf("integer in range of %s", val.Type()), k.Type)
	}
	if val.OverflowUint(n.Bits) {
		return shapeError(path, fmt.Sprintf("integer in range of %s", val.Type()), k.Type)
	}
	val.SetUint(n.Bits)
	return nil
}

func decodeFloat(k *key.Key, val reflect.Value, path string, cfg *config) error {
	if k.Type != key.FloatType {
		return shapeError(path, "float", k.Type)
	}
	// Re-emit through the policy: the reject policy refuses stored
	// floats the same way it refuses new ones.
	var f key.Float
	var err error
	if k.Float.Width == key.F32 {
		f, err = cfg.policy.Float32(k.Float.Float32())
	} else {
		f, err = cfg.policy.Float64(k.Float.Float64())
	}
	if err != nil {
		return &UnmarshalError{FieldPath: path, Message: err.Error(), Err: err}
	}
	if f.Width == key.F32 {
		val.SetFloat(float64(f.Float32()))
	} else {
		val.SetFloat(f.Float64())
	}
	return nil
}

// decodeSlice fills a Go slice from a Seq. Slices are catch-all
// consumers: they take exactly as many elements as the Seq holds.
func decodeSlice(k *key.Key, val reflect.Value, path string, cfg *config) error {
	if k.Type != key.SeqType {
		return shapeError(path, "seq", k.Type)
	}
	length := len(k.Values)
	out := reflect.MakeSlice(val.Type(), length, length)
	for i, elem := range k.Values {
		if err := decodeValue(elem, out.Index(i), indexPath(path, i), cfg); err != nil {
			return err
		}
	}
	val.Set(out)
	return nil
}

// decodeArray fills a fixed-size Go array from a Seq. Arrays consume a
// fixed number of discrete elements, so the lengths must match exactly.
func decodeArray(k *key.Key, val reflect.Value, path string, cfg *config) error {
	if k.Type != key.SeqType {
		return shapeError(path, "seq", k.Type)
	}
	if len(k.Values) != val.Len() {
		return &UnmarshalError{
			FieldPath: path,
			Message:   fmt.Sprintf("sequence length mismatch: need %d elements, key holds %d", val.Len(), len(k.Values)),
			Err:       key.ErrInvalidLength,
		}
	}
	for i, elem := range k.Values {
		if err := decodeValue(elem, val.Index(i), indexPath(path, i), cfg); err != nil {
			return err
		}
	}
	return nil
}

func decodeMap(k *key.Key, val reflect.Value, path string, cfg *config) error {
	if k.Type != key.MapType {
		return shapeError(path, "map", k.Type)
	}
	typ := val.Type()
	out := reflect.MakeMapWithSize(typ, len(k.Pairs))
	for i := range k.Pairs {
		p := &k.Pairs[i]
		entryPath := indexPath(path, i)

		mk := reflect.New(typ.Key()).Elem()
		if err := decodeValue(p.Key, mk, entryPath, cfg); err != nil {
			return err
		}
		mv := reflect.New(typ.Elem()).Elem()
		if err := decodeValue(p.Value, mv, entryPath, cfg); err != nil {
			return err
		}
		out.SetMapIndex(mk, mv)
	}
	val.Set(out)
	return nil
}

func decodeStruct(k *key.Key, val reflect.Value, path string, cfg *config) error {
	if k.Type != key.MapType {
		return shapeError(path, "map", k.Type)
	}

	fields := make(map[string][]int)
	if err := collectFields(val.Type(), nil, fields, path); err != nil {
		return err
	}

	for i := range k.Pairs {
		p := &k.Pairs[i]
		if p.Key == nil || p.Key.Type != key.StringType {
			// Struct fields are string-named; other keys have no home
			// here, same as unknown fields.
			continue
		}
		index, ok := fields[p.Key.String]
		if !ok {
			continue
		}
		fieldVal := val.FieldByIndex(index)
		if err := decodeValue(p.Value, fieldVal, childPath(path, p.Key.String), cfg); err != nil {
			return err
		}
	}
	return nil
}

// collectFields maps encoded field names to index paths, flattening
// embedded structs the same way Encode does.
func collectFields(typ reflect.Type, prefix []int, fields map[string][]int, path string) error {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		index := append(append([]int(nil), prefix...), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct && field.Tag.Get("key") == "" {
			if err := collectFields(field.Type, index, fields, path); err != nil {
				return err
			}
			continue
		}

		name, skip := fieldName(field)
		if skip {
			continue
		}
		if _, exists := fields[name]; exists {
			return &UnmarshalError{
				FieldPath: path,
				Message:   fmt.Sprintf("field name conflict: embedded struct field %q conflicts with existing field", name),
			}
		}
		fields[name] = index
	}
	return nil
}

// decodeAny reconstructs the natural Go value of a key into an empty
// interface: bool, int64/uint64 by signedness, float32/float64 by
// width, string, []byte, []any and map[string]any.
func decodeAny(k *key.Key, val reflect.Value, path string, cfg *config) error {
	var out any
	switch k.Type {
	case key.BoolType:
		out = k.Bool
	case key.IntegerType:
		if k.Integer.Width.Signed() {
			out = k.Integer.Int64()
		} else {
			out = k.Integer.Uint64()
		}
	case key.FloatType:
		var f key.Float
		var err error
		if k.Float.Width == key.F32 {
			f, err = cfg.policy.Float32(k.Float.Float32())
		} else {
			f, err = cfg.policy.Float64(k.Float.Float64())
		}
		if err != nil {
			return &UnmarshalError{FieldPath: path, Message: err.Error(), Err: err}
		}
		if f.Width == key.F32 {
			out = f.Float32()
		} else {
			out = f.Float64()
		}
	case key.BytesType:
		out = bytes.Clone(k.Bytes)
	case key.StringType:
		out = k.String
	case key.SeqType:
		elems := make([]any, len(k.Values))
		for i, elem := range k.Values {
			var ev any
			if err := decodeValue(elem, reflect.ValueOf(&ev).Elem(), indexPath(path, i), cfg); err != nil {
				return err
			}
			elems[i] = ev
		}
		out = elems
	case key.MapType:
		m := make(map[string]any, len(k.Pairs))
		for i := range k.Pairs {
			p := &k.Pairs[i]
			if p.Key == nil || p.Key.Type != key.StringType {
				got := key.UnitType
				if p.Key != nil {
					got = p.Key.Type
				}
				return shapeError(indexPath(path, i), "string map key", got)
			}
			var ev any
			if err := decodeValue(p.Value, reflect.ValueOf(&ev).Elem(), childPath(path, p.Key.String), cfg); err != nil {
				return err
			}
			m[p.Key.String] = ev
		}
		out = m
	default:
		return shapeError(path, "decodable value", k.Type)
	}
	val.Set(reflect.ValueOf(out))
	return nil
}
