// Package keymap encodes arbitrary Go values into canonical keys and
// decodes keys back into Go values.
//
// # Usage
//
//	// Encode a Go value to a key
//	type User struct {
//	    Name string
//	    Age  int
//	}
//	k, err := keymap.Encode(User{Name: "Alice", Age: 30})
//
//	// Decode a key back into a Go value
//	var user User
//	err = keymap.Decode(k, &user)
//
//	// With options
//	k, err = keymap.Encode(user, keymap.WithFloatPolicy(key.OrderedFloats()))
//
// Floats are rejected by default; pass WithFloatPolicy(key.OrderedFloats())
// to both Encode and Decode to admit them.
//
// # Shape protocol
//
// The reflection walk is one producer of shape events; types can take over
// their own encoding by implementing Marshaler and Unmarshaler, which hand
// them a Builder (event consumer) and a Decoder (event producer). This is
// how enum-like sum types, which Go cannot express natively, round-trip:
// a no-payload variant encodes as its bare name (a String key) and a
// variant with a payload encodes as a single-entry Map from the variant
// name to the payload. Do not replace this convention with a tagged-object
// form; it is what makes keys comparable across producers.
//
// # Related Packages
//
//   - github.com/keycanon/keycanon/key - the canonical value
//   - github.com/keycanon/keycanon/keywire - lossless binary form
package keymap
