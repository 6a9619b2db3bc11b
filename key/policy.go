package key

import "math"

// FloatPolicy decides whether and how floating point values enter a Key.
// The two built-in policies are RejectFloats, under which no Float-typed
// Key can ever be constructed, and OrderedFloats, which admits floats
// bit-exactly under a total order. Encode and decode of the same data
// must use the same policy.
type FloatPolicy interface {
	Float32(v float32) (Float, error)
	Float64(v float64) (Float, error)
}

// RejectFloats returns the policy that fails any attempt to capture a
// float. Because both capture paths error, downstream code can rely on
// FloatType never occurring in keys built under this policy; the decoder
// enforces the same in the other direction.
func RejectFloats() FloatPolicy {
	return rejectFloats{}
}

// OrderedFloats returns the policy that captures floats bit-exactly and
// gives them the total order described on Float: NaNs of a width compare
// equal to each other and above all numbers, -0 equals +0. This is an
// intentional departure from IEEE comparison semantics.
func OrderedFloats() FloatPolicy {
	return orderedFloats{}
}

type rejectFloats struct{}

func (rejectFloats) Float32(float32) (Float, error) {
	return Float{}, &UnsupportedTypeError{Kind: "float32"}
}

func (rejectFloats) Float64(float64) (Float, error) {
	return Float{}, &UnsupportedTypeError{Kind: "float64"}
}

type orderedFloats struct{}

func (orderedFloats) Float32(v float32) (Float, error) {
	return Float{Width: F32, Bits: uint64(math.Float32bits(v))}, nil
}

func (orderedFloats) Float64(v float64) (Float, error) {
	return Float{Width: F64, Bits: math.Float64bits(v)}, nil
}
