package key

import (
	"math"
	"testing"
)

func orderedF32(v float32) *Key {
	k, err := FromFloat32(v, OrderedFloats())
	if err != nil {
		panic(err)
	}
	return k
}

func orderedF64(v float64) *Key {
	k, err := FromFloat64(v, OrderedFloats())
	if err != nil {
		panic(err)
	}
	return k
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Key
		expected int
	}{
		// Type ranking: Unit < Bool < Integer < Float < Bytes < String < Seq < Map
		{"Unit < Bool", Unit(), FromBool(false), -1},
		{"Bool < Integer", FromBool(true), FromInt8(0), -1},
		{"Integer < Float", FromUint64(math.MaxUint64), orderedF32(0), -1},
		{"Float < Bytes", orderedF64(math.Inf(1)), FromBytes(nil), -1},
		{"Bytes < String", FromBytes([]byte("zzz")), FromString(""), -1},
		{"String < Seq", FromString("zzz"), FromSeq(nil), -1},
		{"Seq < Map", FromSeq([]*Key{FromInt8(1)}), FromPairs(nil), -1},
		{"Unit == Unit", Unit(), Unit(), 0},

		// Bool
		{"false < true", FromBool(false), FromBool(true), -1},
		{"true == true", FromBool(true), FromBool(true), 0},

		// Integer: width tag first, then value
		{"i8 width order", FromInt8(100), FromInt16(-100), -1},
		{"i64 < u8", FromInt64(math.MaxInt64), FromUint8(0), -1},
		{"same width by value", FromInt32(-5), FromInt32(5), -1},
		{"signed negative < positive", FromInt64(-1), FromInt64(1), -1},
		{"unsigned by value", FromUint64(1), FromUint64(math.MaxUint64), -1},
		{"5u8 != 5u32", FromUint8(5), FromUint32(5), -1},
		{"same width same value", FromInt16(7), FromInt16(7), 0},

		// Float: width tag first, then total order
		{"f32 < f64 regardless of value", orderedF32(1e30), orderedF64(0), -1},
		{"f64 by value", orderedF64(1.0), orderedF64(2.0), -1},
		{"-inf < finite", orderedF64(math.Inf(-1)), orderedF64(0), -1},
		{"+inf < NaN", orderedF64(math.Inf(1)), orderedF64(math.NaN()), -1},
		{"NaN == NaN", orderedF64(math.NaN()), orderedF64(math.NaN()), 0},
		{"-0 == +0", orderedF64(math.Copysign(0, -1)), orderedF64(0), 0},
		{"f32 NaN == f32 NaN", orderedF32(float32(math.NaN())), orderedF32(float32(math.NaN())), 0},

		// Bytes and String: lexicographic
		{"bytes by content", FromBytes([]byte{1, 2}), FromBytes([]byte{1, 3}), -1},
		{"bytes prefix < longer", FromBytes([]byte{1}), FromBytes([]byte{1, 0}), -1},
		{"string by content", FromString("a"), FromString("b"), -1},
		{"string == string", FromString("a"), FromString("a"), 0},

		// Seq: element-wise, length as tie-break
		{"empty seq == empty seq", FromSeq(nil), FromSeq(nil), 0},
		{"short seq < long seq", FromSeq([]*Key{FromInt8(1)}), FromSeq([]*Key{FromInt8(1), FromInt8(2)}), -1},
		{"seq element order", FromSeq([]*Key{FromInt8(1)}), FromSeq([]*Key{FromInt8(2)}), -1},

		// Map: entry-wise in list order
		{"empty map == empty map", FromPairs(nil), FromPairs(nil), 0},
		{"map key order",
			FromPairs([]Pair{{Key: FromString("a"), Value: FromInt8(1)}}),
			FromPairs([]Pair{{Key: FromString("b"), Value: FromInt8(1)}}),
			-1},
		{"map value order",
			FromPairs([]Pair{{Key: FromString("a"), Value: FromInt8(1)}}),
			FromPairs([]Pair{{Key: FromString("a"), Value: FromInt8(2)}}),
			-1},
		{"short map < long map",
			FromPairs([]Pair{{Key: FromString("a"), Value: FromInt8(1)}}),
			FromPairs([]Pair{{Key: FromString("a"), Value: FromInt8(1)}, {Key: FromString("b"), Value: FromInt8(2)}}),
			-1},

		// Nil ordering
		{"nil < unit", nil, Unit(), -1},
		{"nil == nil", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.expected {
				t.Errorf("Compare() = %v, want %v", got, tt.expected)
			}
			// Test symmetry
			if got := Compare(tt.b, tt.a); got != -tt.expected {
				t.Errorf("Compare(b, a) = %v, want %v", got, -tt.expected)
			}
		})
	}
}

func TestCompareNaNPayloads(t *testing.T) {
	// Two NaNs of the same width compare equal whatever their payload
	// bits, so Equal collapses them into one value.
	a := &Key{Type: FloatType, Float: Float{Width: F64, Bits: 0x7ff8000000000001}}
	b := &Key{Type: FloatType, Float: Float{Width: F64, Bits: 0x7ff8000000000002}}
	if !a.Equal(b) {
		t.Errorf("NaN keys with distinct payloads should compare equal")
	}
}

func TestEqualIgnoresInsertionOrderOnlyAfterNormalize(t *testing.T) {
	ab := FromPairs([]Pair{
		{Key: FromString("a"), Value: FromInt8(1)},
		{Key: FromString("b"), Value: FromInt8(2)},
	})
	ba := FromPairs([]Pair{
		{Key: FromString("b"), Value: FromInt8(2)},
		{Key: FromString("a"), Value: FromInt8(1)},
	})
	if ab.Equal(ba) {
		t.Errorf("maps in different insertion orders should not be equal before Normalize")
	}
	if !ab.Normalize().Equal(ba.Normalize()) {
		t.Errorf("maps in different insertion orders should be equal after Normalize")
	}
}
