package key

import (
	"bytes"
	"cmp"
	"strings"
)

// Compare returns an integer comparing two keys.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
// The order is total: type rank first (Unit < Bool < Integer < Float <
// Bytes < String < Seq < Map), then content within a type. Integers and
// floats order by width tag before value. Seq and Map compare
// element-wise, length as tie-break; Map entries compare in list order.
func Compare(a, b *Key) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	rankA := rank(a.Type)
	rankB := rank(b.Type)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}

	switch a.Type {
	case UnitType:
		return 0
	case BoolType:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case IntegerType:
		return compareIntegers(a.Integer, b.Integer)
	case FloatType:
		return compareFloats(a.Float, b.Float)
	case BytesType:
		return bytes.Compare(a.Bytes, b.Bytes)
	case StringType:
		return strings.Compare(a.String, b.String)
	case SeqType:
		return compareSeqs(a, b)
	case MapType:
		return compareMaps(a, b)
	}
	return 0
}

// rank returns the sorting rank of a type.
// Order: Unit < Bool < Integer < Float < Bytes < String < Seq < Map
func rank(t Type) int {
	switch t {
	case UnitType:
		return 0
	case BoolType:
		return 1
	case IntegerType:
		return 2
	case FloatType:
		return 3
	case BytesType:
		return 4
	case StringType:
		return 5
	case SeqType:
		return 6
	case MapType:
		return 7
	}
	return 100
}

func compareIntegers(a, b Integer) int {
	// Width tag first: I8 < I16 < I32 < I64 < U8 < U16 < U32 < U64.
	if a.Width != b.Width {
		return cmp.Compare(a.Width, b.Width)
	}
	if a.Width.Signed() {
		return cmp.Compare(a.Int64(), b.Int64())
	}
	return cmp.Compare(a.Bits, b.Bits)
}

func compareFloats(a, b Float) int {
	// Width tag first: every F32 < every F64, regardless of magnitude.
	if a.Width != b.Width {
		return cmp.Compare(a.Width, b.Width)
	}
	if a.Width == F32 {
		return totalCompare(float64(a.Float32()), float64(b.Float32()))
	}
	return totalCompare(a.Float64(), b.Float64())
}

func compareSeqs(a, b *Key) int {
	lenA := len(a.Values)
	lenB := len(b.Values)
	minLen := min(lenA, lenB)

	for i := 0; i < minLen; i++ {
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}

func compareMaps(a, b *Key) int {
	lenA := len(a.Pairs)
	lenB := len(b.Pairs)
	minLen := min(lenA, lenB)

	for i := 0; i < minLen; i++ {
		if c := Compare(a.Pairs[i].Key, b.Pairs[i].Key); c != 0 {
			return c
		}
		if c := Compare(a.Pairs[i].Value, b.Pairs[i].Value); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}
