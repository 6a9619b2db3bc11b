package key

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingValue reports a map value event with no preceding key.
	ErrMissingValue = errors.New("missing map value")

	// ErrInvalidLength reports a sequence that did not hold exactly the
	// number of elements its consumer required.
	ErrInvalidLength = errors.New("sequence with invalid length")
)

// UnsupportedTypeError reports a type that cannot be represented as a
// Key, either inherently (func, chan) or under the active FloatPolicy.
type UnsupportedTypeError struct {
	Kind string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type: %s", e.Kind)
}

// UnexpectedShapeError reports a Key whose variant did not match what a
// decode target required.
type UnexpectedShapeError struct {
	Expected string
	Got      Type
}

func (e *UnexpectedShapeError) Error() string {
	return fmt.Sprintf("unexpected shape: expected %s, got %s", e.Expected, e.Got)
}

// VariantPayloadError reports a named variant whose stored payload shape
// did not match the target's expectation.
type VariantPayloadError struct {
	Name    string
	Payload string
}

func (e *VariantPayloadError) Error() string {
	return fmt.Sprintf("variant %q: unexpected payload: %s", e.Name, e.Payload)
}
