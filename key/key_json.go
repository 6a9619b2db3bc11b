package key

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON renders k as the natural JSON value it encodes: Unit as
// null, numbers as numbers, Bytes as a base64 string, Seq as an array
// and Map as an object. The rendering is for display and interop only:
// width tags are dropped, so it does not round-trip. Use keywire for a
// lossless external form.
//
// Maps with non-string keys and non-finite floats cannot be rendered and
// return an error.
func (k *Key) MarshalJSON() ([]byte, error) {
	switch k.Type {
	case UnitType:
		return []byte("null"), nil
	case BoolType:
		return json.Marshal(k.Bool)
	case IntegerType:
		if k.Integer.Width.Signed() {
			return json.Marshal(k.Integer.Int64())
		}
		return json.Marshal(k.Integer.Uint64())
	case FloatType:
		if k.Float.Width == F32 {
			return json.Marshal(k.Float.Float32())
		}
		return json.Marshal(k.Float.Float64())
	case BytesType:
		return json.Marshal(k.Bytes)
	case StringType:
		return json.Marshal(k.String)
	case SeqType:
		if k.Values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(k.Values)
	case MapType:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i := range k.Pairs {
			p := &k.Pairs[i]
			if p.Key == nil || p.Key.Type != StringType {
				got := UnitType
				if p.Key != nil {
					got = p.Key.Type
				}
				return nil, &UnexpectedShapeError{Expected: "string map key", Got: got}
			}
			if i > 0 {
				buf.WriteByte(',')
			}
			nk, err := json.Marshal(p.Key.String)
			if err != nil {
				return nil, err
			}
			buf.Write(nk)
			buf.WriteByte(':')
			nv, err := json.Marshal(p.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(nv)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	return nil, &UnsupportedTypeError{Kind: k.Type.String()}
}
