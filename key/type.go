package key

import "fmt"

type Type int

// Variant rank order. Compare sorts keys of different types by this order.
const (
	UnitType Type = iota
	BoolType
	IntegerType
	FloatType
	BytesType
	StringType
	SeqType
	MapType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		UnitType:    "Unit",
		BoolType:    "Bool",
		IntegerType: "Integer",
		FloatType:   "Float",
		BytesType:   "Bytes",
		StringType:  "String",
		SeqType:     "Seq",
		MapType:     "Map",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"Unit":    UnitType,
		"Bool":    BoolType,
		"Integer": IntegerType,
		"Float":   FloatType,
		"Bytes":   BytesType,
		"String":  StringType,
		"Seq":     SeqType,
		"Map":     MapType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

func Types() []Type {
	return []Type{
		UnitType,
		BoolType,
		IntegerType,
		FloatType,
		BytesType,
		StringType,
		SeqType,
		MapType,
	}
}

func (t Type) IsLeaf() bool {
	switch t {
	case SeqType, MapType:
		return false
	default:
		return true
	}
}
