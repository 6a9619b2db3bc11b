package key

import (
	"math"
	"strconv"
)

// FloatWidth tags a Float with the native width it was produced from.
// Every 32-bit Float ranks below every 64-bit Float.
type FloatWidth uint8

const (
	F32 FloatWidth = iota
	F64
)

func (w FloatWidth) String() string {
	switch w {
	case F32:
		return "float32"
	case F64:
		return "float64"
	}
	return "<unknown width>"
}

// Float is a width-tagged floating point value stored as its raw IEEE
// bits, so distinct NaN payloads survive a round trip even though the
// total order treats all NaNs of a width as a single value.
type Float struct {
	Width FloatWidth
	Bits  uint64
}

// Float32 returns the value of a 32-bit Float.
func (f Float) Float32() float32 {
	return math.Float32frombits(uint32(f.Bits))
}

// Float64 returns the value of a 64-bit Float.
func (f Float) Float64() float64 {
	return math.Float64frombits(f.Bits)
}

func (f Float) String() string {
	if f.Width == F32 {
		return strconv.FormatFloat(float64(f.Float32()), 'g', -1, 32)
	}
	return strconv.FormatFloat(f.Float64(), 'g', -1, 64)
}

// canonBits returns bits with every NaN collapsed to one pattern per width
// and -0 collapsed to +0, so hashing agrees with the total order.
func (f Float) canonBits() uint64 {
	switch f.Width {
	case F32:
		v := f.Float32()
		if v != v {
			return uint64(math.Float32bits(float32(math.NaN())))
		}
		if v == 0 {
			return 0
		}
	case F64:
		v := f.Float64()
		if v != v {
			return math.Float64bits(math.NaN())
		}
		if v == 0 {
			return 0
		}
	}
	return f.Bits
}

// totalCompare orders x and y with NaN equal to NaN and greater than every
// number, and -0 equal to +0. Exact for float32 inputs widened to float64.
func totalCompare(x, y float64) int {
	xNaN := x != x
	yNaN := y != y
	switch {
	case xNaN && yNaN:
		return 0
	case xNaN:
		return 1
	case yNaN:
		return -1
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
