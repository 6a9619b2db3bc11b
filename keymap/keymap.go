package keymap

import "github.com/keycanon/keycanon/key"

// Marshaler is implemented by types that produce their own shape events
// instead of being walked by reflection. The Builder carries the active
// float policy.
type Marshaler interface {
	MarshalKey(b *Builder) (*key.Key, error)
}

// Unmarshaler is implemented by types that consume their own shape
// events instead of being filled by reflection.
type Unmarshaler interface {
	UnmarshalKey(d *Decoder) error
}
