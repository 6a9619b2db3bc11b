package keymap

import "fmt"

// MarshalError represents an error during encoding. It wraps the
// underlying key error kind, reachable through errors.Is/As.
type MarshalError struct {
	FieldPath string // field path (e.g., "person.address.street")
	Message   string
	Err       error
}

func (e *MarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("encode error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("encode error: %s", e.Message)
}

func (e *MarshalError) Unwrap() error {
	return e.Err
}

// UnmarshalError represents an error during decoding. It wraps the
// underlying key error kind, reachable through errors.Is/As.
type UnmarshalError struct {
	FieldPath string
	Message   string
	Err       error
}

func (e *UnmarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("decode error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("decode error: %s", e.Message)
}

func (e *UnmarshalError) Unwrap() error {
	return e.Err
}

// childPath joins a field path with a field name for error reporting.
func childPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// indexPath joins a field path with an element index for error reporting.
func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
