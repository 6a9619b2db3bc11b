package key

import "strconv"

// IntWidth tags an Integer with the native width it was produced from.
// Signed widths rank below unsigned widths.
type IntWidth uint8

const (
	I8 IntWidth = iota
	I16
	I32
	I64
	U8
	U16
	U32
	U64
)

func (w IntWidth) String() string {
	switch w {
	case I8:
		return "int8"
	case I16:
		return "int16"
	case I32:
		return "int32"
	case I64:
		return "int64"
	case U8:
		return "uint8"
	case U16:
		return "uint16"
	case U32:
		return "uint32"
	case U64:
		return "uint64"
	}
	return "<unknown width>"
}

// Signed reports whether w is one of the signed widths.
func (w IntWidth) Signed() bool {
	return w <= I64
}

// Integer is a width-tagged integer value. The width participates in
// equality, ordering and hashing: the same numeric value at two widths is
// two distinct Integers. Signed values are stored as their two's
// complement bits.
type Integer struct {
	Width IntWidth
	Bits  uint64
}

// Int64 returns the value of a signed Integer.
func (n Integer) Int64() int64 {
	return int64(n.Bits)
}

// Uint64 returns the value of an unsigned Integer.
func (n Integer) Uint64() uint64 {
	return n.Bits
}

func (n Integer) String() string {
	if n.Width.Signed() {
		return strconv.FormatInt(n.Int64(), 10)
	}
	return strconv.FormatUint(n.Bits, 10)
}
