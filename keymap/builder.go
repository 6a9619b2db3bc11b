package keymap

import (
	"bytes"
	"reflect"

	"github.com/keycanon/keycanon/key"
)

// Builder is the consumer side of the shape protocol: a producer of
// shape events (typically a Marshaler implementation) calls one method
// per event and the Builder folds the events into keys. Builders always
// operate in binary-preferring mode: numbers and bytes keep their
// canonical binary representation, never a display form.
type Builder struct {
	cfg *config
}

// NewBuilder returns a Builder for driving the shape protocol directly,
// outside an Encode call.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{cfg: newConfig(opts)}
}

func (b *Builder) Bool(v bool) (*key.Key, error) {
	return key.FromBool(v), nil
}

func (b *Builder) Int8(v int8) (*key.Key, error) {
	return key.FromInt8(v), nil
}

func (b *Builder) Int16(v int16) (*key.Key, error) {
	return key.FromInt16(v), nil
}

func (b *Builder) Int32(v int32) (*key.Key, error) {
	return key.FromInt32(v), nil
}

func (b *Builder) Int64(v int64) (*key.Key, error) {
	return key.FromInt64(v), nil
}

func (b *Builder) Uint8(v uint8) (*key.Key, error) {
	return key.FromUint8(v), nil
}

func (b *Builder) Uint16(v uint16) (*key.Key, error) {
	return key.FromUint16(v), nil
}

func (b *Builder) Uint32(v uint32) (*key.Key, error) {
	return key.FromUint32(v), nil
}

func (b *Builder) Uint64(v uint64) (*key.Key, error) {
	return key.FromUint64(v), nil
}

// Float32 captures v under the Builder's float policy.
func (b *Builder) Float32(v float32) (*key.Key, error) {
	return key.FromFloat32(v, b.cfg.policy)
}

// Float64 captures v under the Builder's float policy.
func (b *Builder) Float64(v float64) (*key.Key, error) {
	return key.FromFloat64(v, b.cfg.policy)
}

// Rune encodes a single character as a String of length 1.
func (b *Builder) Rune(r rune) (*key.Key, error) {
	return key.FromString(string(r)), nil
}

func (b *Builder) String(v string) (*key.Key, error) {
	return key.FromString(v), nil
}

// Bytes copies v into a Bytes key.
func (b *Builder) Bytes(v []byte) (*key.Key, error) {
	return key.FromBytes(bytes.Clone(v)), nil
}

// Unit encodes the absent value, the empty tuple and the unit struct.
func (b *Builder) Unit() (*key.Key, error) {
	return key.Unit(), nil
}

// None encodes an absent option, which is the unit key.
func (b *Builder) None() (*key.Key, error) {
	return key.Unit(), nil
}

// Some encodes a present option by encoding its inner value directly.
func (b *Builder) Some(v any) (*key.Key, error) {
	return b.encodeAny(v)
}

// Seq starts a sequence of n elements; pass n < 0 when the length is
// not known up front.
func (b *Builder) Seq(n int) *SeqBuilder {
	s := &SeqBuilder{b: b}
	if n > 0 {
		s.vals = make([]*key.Key, 0, n)
	}
	return s
}

// Map starts a map of n entries; pass n < 0 when the length is not
// known up front.
func (b *Builder) Map(n int) *MapBuilder {
	m := &MapBuilder{b: b}
	if n > 0 {
		m.pairs = make([]key.Pair, 0, n)
	}
	return m
}

// UnitVariant encodes a no-payload variant of an enumerated type as its
// bare name.
func (b *Builder) UnitVariant(name string) (*key.Key, error) {
	return key.FromString(name), nil
}

// NewtypeVariant encodes a single-payload variant as a one-entry Map
// from the variant name to the encoded payload.
func (b *Builder) NewtypeVariant(name string, payload any) (*key.Key, error) {
	v, err := b.encodeAny(payload)
	if err != nil {
		return nil, err
	}
	return key.FromPairs([]key.Pair{{Key: key.FromString(name), Value: v}}), nil
}

// TupleVariant starts a tuple-payload variant of n elements; End wraps
// the elements in a one-entry Map from the variant name to their Seq.
func (b *Builder) TupleVariant(name string, n int) *TupleBuilder {
	t := &TupleBuilder{name: name}
	t.SeqBuilder.b = b
	if n > 0 {
		t.vals = make([]*key.Key, 0, n)
	}
	return t
}

// StructVariant starts a record-payload variant; End wraps the fields
// in a one-entry Map from the variant name to their Map.
func (b *Builder) StructVariant(name string) *StructBuilder {
	return &StructBuilder{b: b, name: name}
}

func (b *Builder) encodeAny(v any) (*key.Key, error) {
	e := &encodeState{cfg: b.cfg, visited: make(map[uintptr]string)}
	return e.encode(reflect.ValueOf(v), "")
}

// SeqBuilder accumulates sequence elements. Errors stick: after a
// failed Element, End reports the first failure.
type SeqBuilder struct {
	b    *Builder
	vals []*key.Key
	err  error
}

// Element encodes and appends one element.
func (s *SeqBuilder) Element(v any) error {
	if s.err != nil {
		return s.err
	}
	k, err := s.b.encodeAny(v)
	if err != nil {
		s.err = err
		return err
	}
	s.vals = append(s.vals, k)
	return nil
}

// End returns the accumulated Seq key.
func (s *SeqBuilder) End() (*key.Key, error) {
	if s.err != nil {
		return nil, s.err
	}
	return key.FromSeq(s.vals), nil
}

// TupleBuilder accumulates a tuple-payload variant's elements.
type TupleBuilder struct {
	SeqBuilder
	name string
}

// End returns the one-entry Map from the variant name to the payload Seq.
func (t *TupleBuilder) End() (*key.Key, error) {
	seq, err := t.SeqBuilder.End()
	if err != nil {
		return nil, err
	}
	return key.FromPairs([]key.Pair{{Key: key.FromString(t.name), Value: seq}}), nil
}

// MapBuilder accumulates map entries as alternating key and value
// events, in arrival order.
type MapBuilder struct {
	b       *Builder
	pairs   []key.Pair
	nextKey *key.Key
	err     error
}

// Key encodes the next entry's key.
func (m *MapBuilder) Key(v any) error {
	if m.err != nil {
		return m.err
	}
	k, err := m.b.encodeAny(v)
	if err != nil {
		m.err = err
		return err
	}
	m.nextKey = k
	return nil
}

// Value encodes the next entry's value. A value with no preceding key
// is a missing-value error.
func (m *MapBuilder) Value(v any) error {
	if m.err != nil {
		return m.err
	}
	if m.nextKey == nil {
		m.err = key.ErrMissingValue
		return m.err
	}
	val, err := m.b.encodeAny(v)
	if err != nil {
		m.err = err
		return err
	}
	m.pairs = append(m.pairs, key.Pair{Key: m.nextKey, Value: val})
	m.nextKey = nil
	return nil
}

// Entry encodes one key/value entry.
func (m *MapBuilder) Entry(k, v any) error {
	if err := m.Key(k); err != nil {
		return err
	}
	return m.Value(v)
}

// End returns the accumulated Map key, entries in arrival order.
func (m *MapBuilder) End() (*key.Key, error) {
	if m.err != nil {
		return nil, m.err
	}
	return key.FromPairs(m.pairs), nil
}

// StructBuilder accumulates a record-payload variant's fields.
type StructBuilder struct {
	b     *Builder
	name  string
	pairs []key.Pair
	err   error
}

// Field encodes one named field.
func (s *StructBuilder) Field(name string, v any) error {
	if s.err != nil {
		return s.err
	}
	val, err := s.b.encodeAny(v)
	if err != nil {
		s.err = err
		return err
	}
	s.pairs = append(s.pairs, key.Pair{Key: key.FromString(name), Value: val})
	return nil
}

// End returns the one-entry Map from the variant name to the field Map.
func (s *StructBuilder) End() (*key.Key, error) {
	if s.err != nil {
		return nil, s.err
	}
	inner := key.FromPairs(s.pairs)
	return key.FromPairs([]key.Pair{{Key: key.FromString(s.name), Value: inner}}), nil
}
