package key

// Key is the canonical value. Exactly one group of fields is meaningful
// for a given Type; the rest stay zero. Keys form trees, never cycles:
// every child is owned by its parent.
type Key struct {
	Type Type

	Bool    bool
	Integer Integer
	Float   Float
	Bytes   []byte
	String  string

	// Values holds the elements of a Seq.
	Values []*Key

	// Pairs holds the entries of a Map, in arrival order. Use Normalize
	// for insertion-order independent equality.
	Pairs []Pair
}

// Pair is one Map entry.
type Pair struct {
	Key   *Key
	Value *Key
}

// Unit returns the unit key, the encoding of absent values, empty tuples
// and absent options.
func Unit() *Key {
	return &Key{Type: UnitType}
}

func FromBool(v bool) *Key {
	return &Key{Type: BoolType, Bool: v}
}

func FromInt8(v int8) *Key {
	return &Key{Type: IntegerType, Integer: Integer{Width: I8, Bits: uint64(v)}}
}

func FromInt16(v int16) *Key {
	return &Key{Type: IntegerType, Integer: Integer{Width: I16, Bits: uint64(v)}}
}

func FromInt32(v int32) *Key {
	return &Key{Type: IntegerType, Integer: Integer{Width: I32, Bits: uint64(v)}}
}

func FromInt64(v int64) *Key {
	return &Key{Type: IntegerType, Integer: Integer{Width: I64, Bits: uint64(v)}}
}

func FromUint8(v uint8) *Key {
	return &Key{Type: IntegerType, Integer: Integer{Width: U8, Bits: uint64(v)}}
}

func FromUint16(v uint16) *Key {
	return &Key{Type: IntegerType, Integer: Integer{Width: U16, Bits: uint64(v)}}
}

func FromUint32(v uint32) *Key {
	return &Key{Type: IntegerType, Integer: Integer{Width: U32, Bits: uint64(v)}}
}

func FromUint64(v uint64) *Key {
	return &Key{Type: IntegerType, Integer: Integer{Width: U64, Bits: v}}
}

// FromFloat32 captures v under the given policy.
func FromFloat32(v float32, p FloatPolicy) (*Key, error) {
	f, err := p.Float32(v)
	if err != nil {
		return nil, err
	}
	return &Key{Type: FloatType, Float: f}, nil
}

// FromFloat64 captures v under the given policy.
func FromFloat64(v float64, p FloatPolicy) (*Key, error) {
	f, err := p.Float64(v)
	if err != nil {
		return nil, err
	}
	return &Key{Type: FloatType, Float: f}, nil
}

// FromBytes wraps v without copying; the caller must not mutate it after.
func FromBytes(v []byte) *Key {
	return &Key{Type: BytesType, Bytes: v}
}

func FromString(v string) *Key {
	return &Key{Type: StringType, String: v}
}

// FromSeq wraps vs without copying; the caller must not mutate it after.
func FromSeq(vs []*Key) *Key {
	return &Key{Type: SeqType, Values: vs}
}

// FromPairs wraps ps without copying; the caller must not mutate it after.
// Entry order is kept as given.
func FromPairs(ps []Pair) *Key {
	return &Key{Type: MapType, Pairs: ps}
}

// Get returns the value of the first Map entry whose key is the string
// field, or nil if k is not a Map or has no such entry.
func Get(k *Key, field string) *Key {
	if k == nil || k.Type != MapType {
		return nil
	}
	for i := range k.Pairs {
		p := &k.Pairs[i]
		if p.Key != nil && p.Key.Type == StringType && p.Key.String == field {
			return p.Value
		}
	}
	return nil
}

// Equal reports whether k and o are the same key: same variant and,
// recursively, equal contents. Map entries compare in list order.
func (k *Key) Equal(o *Key) bool {
	return Compare(k, o) == 0
}

// Clone returns a deep copy of k.
func (k *Key) Clone() *Key {
	if k == nil {
		return nil
	}
	res := &Key{
		Type:    k.Type,
		Bool:    k.Bool,
		Integer: k.Integer,
		Float:   k.Float,
		String:  k.String,
	}
	if k.Bytes != nil {
		res.Bytes = make([]byte, len(k.Bytes))
		copy(res.Bytes, k.Bytes)
	}
	if k.Values != nil {
		res.Values = make([]*Key, len(k.Values))
		for i, v := range k.Values {
			res.Values[i] = v.Clone()
		}
	}
	if k.Pairs != nil {
		res.Pairs = make([]Pair, len(k.Pairs))
		for i := range k.Pairs {
			res.Pairs[i] = Pair{
				Key:   k.Pairs[i].Key.Clone(),
				Value: k.Pairs[i].Value.Clone(),
			}
		}
	}
	return res
}

// Visit walks k depth first, calling f before and after each node's
// children. Returning false from the pre-order call skips the children.
func (k *Key) Visit(f func(k *Key, isPost bool) (bool, error)) error {
	dive, err := f(k, false)
	if err != nil {
		return err
	}
	if dive {
		for _, v := range k.Values {
			if err := v.Visit(f); err != nil {
				return err
			}
		}
		for i := range k.Pairs {
			if err := k.Pairs[i].Key.Visit(f); err != nil {
				return err
			}
			if err := k.Pairs[i].Value.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(k, true); err != nil {
		return err
	}
	return nil
}
