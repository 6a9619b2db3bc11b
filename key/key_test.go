package key

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGet(t *testing.T) {
	m := FromPairs([]Pair{
		{Key: FromString("name"), Value: FromString("ada")},
		{Key: FromInt8(1), Value: FromBool(true)},
		{Key: FromString("age"), Value: FromUint8(36)},
	})
	tests := []struct {
		name  string
		k     *Key
		field string
		want  *Key
	}{
		{"present", m, "name", FromString("ada")},
		{"second string entry", m, "age", FromUint8(36)},
		{"absent", m, "missing", nil},
		{"non-map", FromString("x"), "name", nil},
		{"nil key", nil, "name", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Get(tt.k, tt.field)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Get() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := FromPairs([]Pair{
		{Key: FromString("xs"), Value: FromSeq([]*Key{FromBytes([]byte{1, 2})})},
	})
	clone := orig.Clone()
	if diff := cmp.Diff(orig, clone); diff != "" {
		t.Fatalf("Clone() mismatch (-orig +clone):\n%s", diff)
	}

	clone.Pairs[0].Value.Values[0].Bytes[0] = 99
	if orig.Pairs[0].Value.Values[0].Bytes[0] != 1 {
		t.Errorf("mutating the clone reached the original")
	}
}

func TestVisit(t *testing.T) {
	k := FromPairs([]Pair{
		{Key: FromString("a"), Value: FromSeq([]*Key{FromInt8(1), FromInt8(2)})},
	})
	var pre, post int
	err := k.Visit(func(k *Key, isPost bool) (bool, error) {
		if isPost {
			post++
		} else {
			pre++
		}
		return true, nil
	})
	if err != nil {
		t.Fatalf("Visit() error = %v", err)
	}
	// Map node, string key, seq node, two integers.
	if pre != 5 || post != 5 {
		t.Errorf("Visit() pre = %d, post = %d, want 5 and 5", pre, post)
	}

	// Returning false skips children but still gets the post call.
	pre, post = 0, 0
	err = k.Visit(func(k *Key, isPost bool) (bool, error) {
		if isPost {
			post++
		} else {
			pre++
		}
		return false, nil
	})
	if err != nil {
		t.Fatalf("Visit() error = %v", err)
	}
	if pre != 1 || post != 1 {
		t.Errorf("Visit() with skip pre = %d, post = %d, want 1 and 1", pre, post)
	}
}

func TestFromIntSignBits(t *testing.T) {
	k := FromInt8(-1)
	if k.Integer.Int64() != -1 {
		t.Errorf("Int64() = %d, want -1", k.Integer.Int64())
	}
	if k.Integer.String() != "-1" {
		t.Errorf("String() = %q, want -1", k.Integer.String())
	}
}

func TestRejectFloatsNeverProducesFloatKeys(t *testing.T) {
	if _, err := FromFloat32(1.0, RejectFloats()); err == nil {
		t.Errorf("FromFloat32 under RejectFloats should fail")
	}
	if _, err := FromFloat64(1.0, RejectFloats()); err == nil {
		t.Errorf("FromFloat64 under RejectFloats should fail")
	}
}
