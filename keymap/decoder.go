package keymap

import (
	"math"
	"reflect"

	"github.com/keycanon/keycanon/key"
)

// Decoder is the producer side of the shape protocol: it replays a
// stored key as the events a consumer (typically an Unmarshaler
// implementation) asks for. Each getter checks that the key actually
// holds the requested shape and fails with an unexpected-shape error
// otherwise.
type Decoder struct {
	k   *key.Key
	cfg *config

	// variant is the variant name when this Decoder serves a variant
	// payload; shape mismatches then report as payload errors.
	variant string
}

// NewDecoder returns a Decoder replaying k.
func NewDecoder(k *key.Key, opts ...Option) *Decoder {
	return &Decoder{k: k, cfg: newConfig(opts)}
}

// Key returns the key being replayed.
func (d *Decoder) Key() *key.Key {
	return d.k
}

func (d *Decoder) shapeErr(expected string) error {
	if d.variant != "" {
		return &key.VariantPayloadError{Name: d.variant, Payload: d.k.Type.String()}
	}
	return &key.UnexpectedShapeError{Expected: expected, Got: d.k.Type}
}

// Unit consumes the unit key.
func (d *Decoder) Unit() error {
	if d.k.Type != key.UnitType {
		return d.shapeErr("unit")
	}
	return nil
}

func (d *Decoder) Bool() (bool, error) {
	if d.k.Type != key.BoolType {
		return false, d.shapeErr("bool")
	}
	return d.k.Bool, nil
}

// signed returns the integer value of the key as an int64, whatever its
// stored width, failing if it cannot fit.
func (d *Decoder) signed() (int64, error) {
	if d.k.Type != key.IntegerType {
		return 0, d.shapeErr("integer")
	}
	n := d.k.Integer
	if n.Width.Signed() {
		return n.Int64(), nil
	}
	if n.Bits > math.MaxInt64 {
		return 0, d.shapeErr("integer in signed range")
	}
	return int64(n.Bits), nil
}

// unsigned is the uint64 counterpart of signed.
func (d *Decoder) unsigned() (uint64, error) {
	if d.k.Type != key.IntegerType {
		return 0, d.shapeErr("integer")
	}
	n := d.k.Integer
	if !n.Width.Signed() {
		return n.Bits, nil
	}
	if n.Int64() < 0 {
		return 0, d.shapeErr("integer in unsigned range")
	}
	return n.Bits, nil
}

func (d *Decoder) Int8() (int8, error) {
	v, err := d.signed()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt8 || v > math.MaxInt8 {
		return 0, d.shapeErr("integer in range of int8")
	}
	return int8(v), nil
}

func (d *Decoder) Int16() (int16, error) {
	v, err := d.signed()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, d.shapeErr("integer in range of int16")
	}
	return int16(v), nil
}

func (d *Decoder) Int32() (int32, error) {
	v, err := d.signed()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, d.shapeErr("integer in range of int32")
	}
	return int32(v), nil
}

func (d *Decoder) Int64() (int64, error) {
	return d.signed()
}

func (d *Decoder) Uint8() (uint8, error) {
	v, err := d.unsigned()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint8 {
		return 0, d.shapeErr("integer in range of uint8")
	}
	return uint8(v), nil
}

func (d *Decoder) Uint16() (uint16, error) {
	v, err := d.unsigned()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint16 {
		return 0, d.shapeErr("integer in range of uint16")
	}
	return uint16(v), nil
}

func (d *Decoder) Uint32() (uint32, error) {
	v, err := d.unsigned()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, d.shapeErr("integer in range of uint32")
	}
	return uint32(v), nil
}

func (d *Decoder) Uint64() (uint64, error) {
	return d.unsigned()
}

// float re-emits the stored float through the active policy, so the
// reject policy refuses Float keys on the way out just as it does on
// the way in.
func (d *Decoder) float() (key.Float, error) {
	if d.k.Type != key.FloatType {
		return key.Float{}, d.shapeErr("float")
	}
	f := d.k.Float
	if f.Width == key.F32 {
		return d.cfg.policy.Float32(f.Float32())
	}
	return d.cfg.policy.Float64(f.Float64())
}

// Float32 returns the stored float narrowed to 32 bits.
func (d *Decoder) Float32() (float32, error) {
	f, err := d.float()
	if err != nil {
		return 0, err
	}
	if f.Width == key.F32 {
		return f.Float32(), nil
	}
	return float32(f.Float64()), nil
}

// Float64 returns the stored float, widened from 32 bits if necessary.
func (d *Decoder) Float64() (float64, error) {
	f, err := d.float()
	if err != nil {
		return 0, err
	}
	if f.Width == key.F32 {
		return float64(f.Float32()), nil
	}
	return f.Float64(), nil
}

func (d *Decoder) String() (string, error) {
	if d.k.Type != key.StringType {
		return "", d.shapeErr("string")
	}
	return d.k.String, nil
}

// Bytes returns the stored byte sequence. The slice is owned by the
// key; the caller must not mutate it.
func (d *Decoder) Bytes() ([]byte, error) {
	if d.k.Type != key.BytesType {
		return nil, d.shapeErr("bytes")
	}
	return d.k.Bytes, nil
}

// Option reports option presence: the unit key is absent, anything
// else is present and should be decoded from this same Decoder.
func (d *Decoder) Option() bool {
	return d.k.Type != key.UnitType
}

// Seq starts replaying a Seq key's elements in stored order.
func (d *Decoder) Seq() (*SeqDecoder, error) {
	if d.k.Type != key.SeqType {
		return nil, d.shapeErr("seq")
	}
	return &SeqDecoder{d: d}, nil
}

// Map starts replaying a Map key's entries in stored order.
func (d *Decoder) Map() (*MapDecoder, error) {
	if d.k.Type != key.MapType {
		return nil, d.shapeErr("map")
	}
	return &MapDecoder{d: d}, nil
}

// Variant dispatches a named-variant request. A String key names a
// no-payload variant and the returned payload Decoder is nil; a
// single-entry Map names a variant with a payload, replayed by the
// returned Decoder. Any other shape, including a Map with zero or more
// than one entry, is an unexpected-shape error.
func (d *Decoder) Variant() (name string, payload *Decoder, err error) {
	switch d.k.Type {
	case key.StringType:
		return d.k.String, nil, nil
	case key.MapType:
		if len(d.k.Pairs) != 1 {
			return "", nil, &key.UnexpectedShapeError{
				Expected: "string or single-entry map",
				Got:      key.MapType,
			}
		}
		p := d.k.Pairs[0]
		if p.Key == nil || p.Key.Type != key.StringType {
			got := key.UnitType
			if p.Key != nil {
				got = p.Key.Type
			}
			return "", nil, &key.UnexpectedShapeError{
				Expected: "string variant name",
				Got:      got,
			}
		}
		return p.Key.String, &Decoder{k: p.Value, cfg: d.cfg, variant: p.Key.String}, nil
	default:
		return "", nil, d.shapeErr("string or single-entry map")
	}
}

// SeqDecoder hands out a Seq key's elements one at a time. Consumers of
// a fixed number of elements must call End, which enforces strict
// exhaustion; Rest declares a catch-all consumer instead.
type SeqDecoder struct {
	d   *Decoder
	idx int
}

// Len returns the total number of elements.
func (s *SeqDecoder) Len() int {
	return len(s.d.k.Values)
}

// Next decodes the next element into dst, a non-nil pointer. It returns
// false with no error when the sequence is exhausted.
func (s *SeqDecoder) Next(dst any) (bool, error) {
	if s.idx >= len(s.d.k.Values) {
		return false, nil
	}
	elem := s.d.k.Values[s.idx]
	s.idx++
	if err := decodeInto(elem, dst, s.d.cfg); err != nil {
		return false, err
	}
	return true, nil
}

// Rest decodes all remaining elements into dst, a pointer to a slice,
// declaring this consumer a catch-all: End will not report leftovers.
func (s *SeqDecoder) Rest(dst any) error {
	val := reflect.ValueOf(dst)
	if val.Kind() != reflect.Ptr || val.IsNil() || val.Elem().Kind() != reflect.Slice {
		return &UnmarshalError{Message: "Rest destination must be a non-nil pointer to a slice"}
	}
	remaining := s.d.k.Values[s.idx:]
	s.idx = len(s.d.k.Values)

	sliceTyp := val.Elem().Type()
	out := reflect.MakeSlice(sliceTyp, len(remaining), len(remaining))
	for i, elem := range remaining {
		elemDst := out.Index(i).Addr().Interface()
		if err := decodeInto(elem, elemDst, s.d.cfg); err != nil {
			return err
		}
	}
	val.Elem().Set(out)
	return nil
}

// End enforces strict exhaustion: if elements remain unconsumed the
// sequence did not have the length the consumer required.
func (s *SeqDecoder) End() error {
	if s.idx < len(s.d.k.Values) {
		return key.ErrInvalidLength
	}
	return nil
}

// MapDecoder hands out a Map key's entries as alternating key and value
// events in stored order.
type MapDecoder struct {
	d       *Decoder
	idx     int
	pending *key.Key
}

// Len returns the total number of entries.
func (m *MapDecoder) Len() int {
	return len(m.d.k.Pairs)
}

// NextKey decodes the next entry's key into dst. It returns false with
// no error when the entries are exhausted.
func (m *MapDecoder) NextKey(dst any) (bool, error) {
	if m.idx >= len(m.d.k.Pairs) {
		return false, nil
	}
	p := m.d.k.Pairs[m.idx]
	m.idx++
	m.pending = p.Value
	if err := decodeInto(p.Key, dst, m.d.cfg); err != nil {
		return false, err
	}
	return true, nil
}

// NextValue decodes the value belonging to the last NextKey into dst.
// Requesting a value with no pending key is a missing-value error.
func (m *MapDecoder) NextValue(dst any) error {
	if m.pending == nil {
		return key.ErrMissingValue
	}
	v := m.pending
	m.pending = nil
	return decodeInto(v, dst, m.d.cfg)
}

// End finishes replaying the map.
func (m *MapDecoder) End() error {
	return nil
}
