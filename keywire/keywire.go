// Package keywire is the lossless binary form of a canonical key.
//
// Unlike the JSON rendering on key.Key, the wire form preserves integer
// and float width tags and float bit patterns exactly, so
// Unmarshal(Marshal(k)) reproduces k bit for bit. Encoding is
// deterministic CBOR: the same stored key always produces the same
// bytes. Note that two keys that Equal reports equal but that store
// different NaN payload bits serialize to different bytes; use
// key.Sum256 when a representation-independent fingerprint is needed.
package keywire

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/keycanon/keycanon/key"
)

// ErrWire reports malformed wire data.
var ErrWire = errors.New("malformed key wire data")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Marshal returns the wire form of k.
func Marshal(k *key.Key) ([]byte, error) {
	v, err := toWire(k)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(v)
}

// Unmarshal parses the wire form in data.
func Unmarshal(data []byte) (*key.Key, error) {
	var v any
	if err := decMode.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWire, err)
	}
	return fromWire(v)
}

// Encode writes the wire form of k to w.
func Encode(k *key.Key, w io.Writer) error {
	v, err := toWire(k)
	if err != nil {
		return err
	}
	return encMode.NewEncoder(w).Encode(v)
}

// Decode reads one wire-form key from r. The underlying CBOR decoder
// buffers, so it may read past the end of the value; use Unmarshal when
// r carries trailing data that must stay readable.
func Decode(r io.Reader) (*key.Key, error) {
	var v any
	if err := decMode.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWire, err)
	}
	return fromWire(v)
}

// Wire layout: every key is a CBOR array whose first element is the
// variant tag (the key.Type value), followed by the variant's payload.
// Scalars carry their width tag and raw bits; Seq and Map carry their
// children as nested arrays.
func toWire(k *key.Key) (any, error) {
	if k == nil {
		return nil, fmt.Errorf("%w: nil key", ErrWire)
	}
	switch k.Type {
	case key.UnitType:
		return []any{uint64(key.UnitType)}, nil
	case key.BoolType:
		return []any{uint64(key.BoolType), k.Bool}, nil
	case key.IntegerType:
		return []any{uint64(key.IntegerType), uint64(k.Integer.Width), k.Integer.Bits}, nil
	case key.FloatType:
		return []any{uint64(key.FloatType), uint64(k.Float.Width), k.Float.Bits}, nil
	case key.BytesType:
		b := k.Bytes
		if b == nil {
			b = []byte{}
		}
		return []any{uint64(key.BytesType), b}, nil
	case key.StringType:
		return []any{uint64(key.StringType), k.String}, nil
	case key.SeqType:
		elems := make([]any, len(k.Values))
		for i, v := range k.Values {
			ev, err := toWire(v)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return []any{uint64(key.SeqType), elems}, nil
	case key.MapType:
		entries := make([]any, len(k.Pairs))
		for i := range k.Pairs {
			ek, err := toWire(k.Pairs[i].Key)
			if err != nil {
				return nil, err
			}
			ev, err := toWire(k.Pairs[i].Value)
			if err != nil {
				return nil, err
			}
			entries[i] = []any{ek, ev}
		}
		return []any{uint64(key.MapType), entries}, nil
	}
	return nil, fmt.Errorf("%w: unknown type %s", ErrWire, k.Type)
}

func fromWire(v any) (*key.Key, error) {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil, fmt.Errorf("%w: expected tagged array", ErrWire)
	}
	tag, ok := wireUint(arr[0])
	if !ok {
		return nil, fmt.Errorf("%w: non-integer variant tag", ErrWire)
	}

	switch key.Type(tag) {
	case key.UnitType:
		if err := wireArity(arr, 1); err != nil {
			return nil, err
		}
		return key.Unit(), nil

	case key.BoolType:
		if err := wireArity(arr, 2); err != nil {
			return nil, err
		}
		b, ok := arr[1].(bool)
		if !ok {
			return nil, fmt.Errorf("%w: bool payload", ErrWire)
		}
		return key.FromBool(b), nil

	case key.IntegerType:
		width, bits, err := wireScalar(arr)
		if err != nil {
			return nil, err
		}
		if width > uint64(key.U64) {
			return nil, fmt.Errorf("%w: integer width %d", ErrWire, width)
		}
		return &key.Key{
			Type:    key.IntegerType,
			Integer: key.Integer{Width: key.IntWidth(width), Bits: bits},
		}, nil

	case key.FloatType:
		width, bits, err := wireScalar(arr)
		if err != nil {
			return nil, err
		}
		if width > uint64(key.F64) {
			return nil, fmt.Errorf("%w: float width %d", ErrWire, width)
		}
		return &key.Key{
			Type:  key.FloatType,
			Float: key.Float{Width: key.FloatWidth(width), Bits: bits},
		}, nil

	case key.BytesType:
		if err := wireArity(arr, 2); err != nil {
			return nil, err
		}
		b, ok := arr[1].([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: bytes payload", ErrWire)
		}
		return key.FromBytes(b), nil

	case key.StringType:
		if err := wireArity(arr, 2); err != nil {
			return nil, err
		}
		s, ok := arr[1].(string)
		if !ok {
			return nil, fmt.Errorf("%w: string payload", ErrWire)
		}
		return key.FromString(s), nil

	case key.SeqType:
		if err := wireArity(arr, 2); err != nil {
			return nil, err
		}
		elems, ok := arr[1].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: seq payload", ErrWire)
		}
		values := make([]*key.Key, len(elems))
		for i, ev := range elems {
			k, err := fromWire(ev)
			if err != nil {
				return nil, err
			}
			values[i] = k
		}
		return key.FromSeq(values), nil

	case key.MapType:
		if err := wireArity(arr, 2); err != nil {
			return nil, err
		}
		entries, ok := arr[1].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: map payload", ErrWire)
		}
		pairs := make([]key.Pair, len(entries))
		for i, ev := range entries {
			entry, ok := ev.([]any)
			if !ok || len(entry) != 2 {
				return nil, fmt.Errorf("%w: map entry", ErrWire)
			}
			ek, err := fromWire(entry[0])
			if err != nil {
				return nil, err
			}
			evv, err := fromWire(entry[1])
			if err != nil {
				return nil, err
			}
			pairs[i] = key.Pair{Key: ek, Value: evv}
		}
		return key.FromPairs(pairs), nil
	}
	return nil, fmt.Errorf("%w: unknown variant tag %d", ErrWire, tag)
}

func wireArity(arr []any, n int) error {
	if len(arr) != n {
		return fmt.Errorf("%w: wrong arity %d", ErrWire, len(arr))
	}
	return nil
}

// wireScalar pulls the (width, bits) payload of Integer and Float.
func wireScalar(arr []any) (width, bits uint64, err error) {
	if err := wireArity(arr, 3); err != nil {
		return 0, 0, err
	}
	width, ok := wireUint(arr[1])
	if !ok {
		return 0, 0, fmt.Errorf("%w: scalar width", ErrWire)
	}
	bits, ok = wireUint(arr[2])
	if !ok {
		return 0, 0, fmt.Errorf("%w: scalar bits", ErrWire)
	}
	return width, bits, nil
}

// wireUint accepts the integer representations the CBOR decoder
// produces for non-negative numbers.
func wireUint(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	}
	return 0, false
}
