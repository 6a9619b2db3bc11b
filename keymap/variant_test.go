package keymap

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/keycanon/keycanon/key"
)

// command is an enumerated type carried through the shape protocol: one
// no-payload variant, one single-payload variant, one tuple-payload
// variant and one record-payload variant.
type command struct {
	kind string

	target string // "load"
	x, y   int32  // "move"
	name   string // "rename"
	force  bool   // "rename"
}

func (c command) MarshalKey(b *Builder) (*key.Key, error) {
	switch c.kind {
	case "halt":
		return b.UnitVariant("halt")
	case "load":
		return b.NewtypeVariant("load", c.target)
	case "move":
		t := b.TupleVariant("move", 2)
		if err := t.Element(c.x); err != nil {
			return nil, err
		}
		if err := t.Element(c.y); err != nil {
			return nil, err
		}
		return t.End()
	case "rename":
		s := b.StructVariant("rename")
		if err := s.Field("name", c.name); err != nil {
			return nil, err
		}
		if err := s.Field("force", c.force); err != nil {
			return nil, err
		}
		return s.End()
	}
	return nil, fmt.Errorf("unknown command %q", c.kind)
}

func (c *command) UnmarshalKey(d *Decoder) error {
	name, payload, err := d.Variant()
	if err != nil {
		return err
	}
	c.kind = name
	switch name {
	case "halt":
		if payload != nil {
			return fmt.Errorf("halt carries no payload")
		}
		return nil
	case "load":
		c.target, err = payload.String()
		return err
	case "move":
		seq, err := payload.Seq()
		if err != nil {
			return err
		}
		if _, err := seq.Next(&c.x); err != nil {
			return err
		}
		if _, err := seq.Next(&c.y); err != nil {
			return err
		}
		return seq.End()
	case "rename":
		m, err := payload.Map()
		if err != nil {
			return err
		}
		for {
			var field string
			ok, err := m.NextKey(&field)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			switch field {
			case "name":
				err = m.NextValue(&c.name)
			case "force":
				err = m.NextValue(&c.force)
			default:
				err = fmt.Errorf("unknown field %q", field)
			}
			if err != nil {
				return err
			}
		}
		return m.End()
	}
	return fmt.Errorf("unknown command %q", name)
}

func TestVariantShapes(t *testing.T) {
	tests := []struct {
		name string
		cmd  command
		want *key.Key
	}{
		{
			name: "no payload is a bare string",
			cmd:  command{kind: "halt"},
			want: key.FromString("halt"),
		},
		{
			name: "single payload is a one-entry map",
			cmd:  command{kind: "load", target: "disk0"},
			want: key.FromPairs([]key.Pair{
				{Key: key.FromString("load"), Value: key.FromString("disk0")},
			}),
		},
		{
			name: "tuple payload wraps a seq",
			cmd:  command{kind: "move", x: 3, y: -4},
			want: key.FromPairs([]key.Pair{
				{Key: key.FromString("move"), Value: key.FromSeq([]*key.Key{
					key.FromInt32(3), key.FromInt32(-4),
				})},
			}),
		},
		{
			name: "record payload wraps a map",
			cmd:  command{kind: "rename", name: "n2", force: true},
			want: key.FromPairs([]key.Pair{
				{Key: key.FromString("rename"), Value: key.FromPairs([]key.Pair{
					{Key: key.FromString("name"), Value: key.FromString("n2")},
					{Key: key.FromString("force"), Value: key.FromBool(true)},
				})},
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.cmd)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
			}

			var back command
			if err := Decode(got, &back); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(tt.cmd, back, cmp.AllowUnexported(command{})); diff != "" {
				t.Errorf("round trip mismatch (-in +out):\n%s", diff)
			}
		})
	}
}

func TestVariantDecodeErrors(t *testing.T) {
	t.Run("two-entry map is not a variant", func(t *testing.T) {
		k := key.FromPairs([]key.Pair{
			{Key: key.FromString("a"), Value: key.Unit()},
			{Key: key.FromString("b"), Value: key.Unit()},
		})
		_, _, err := NewDecoder(k).Variant()
		var shapeErr *key.UnexpectedShapeError
		if !errors.As(err, &shapeErr) {
			t.Fatalf("error = %v, want UnexpectedShapeError", err)
		}
	})
	t.Run("non-string variant name", func(t *testing.T) {
		k := key.FromPairs([]key.Pair{
			{Key: key.FromInt8(1), Value: key.Unit()},
		})
		if _, _, err := NewDecoder(k).Variant(); err == nil {
			t.Fatalf("Variant() should fail on a non-string name")
		}
	})
	t.Run("payload shape mismatch names the variant", func(t *testing.T) {
		k := key.FromPairs([]key.Pair{
			{Key: key.FromString("load"), Value: key.FromBool(true)},
		})
		_, payload, err := NewDecoder(k).Variant()
		if err != nil {
			t.Fatalf("Variant() error = %v", err)
		}
		_, err = payload.String()
		var payloadErr *key.VariantPayloadError
		if !errors.As(err, &payloadErr) {
			t.Fatalf("error = %v, want VariantPayloadError", err)
		}
		if payloadErr.Name != "load" {
			t.Errorf("Name = %q, want load", payloadErr.Name)
		}
	})
}

func TestMapBuilderMissingValue(t *testing.T) {
	m := NewBuilder().Map(1)
	err := m.Value("orphan")
	if !errors.Is(err, key.ErrMissingValue) {
		t.Fatalf("error = %v, want ErrMissingValue", err)
	}
	// The failure sticks through End.
	if _, err := m.End(); !errors.Is(err, key.ErrMissingValue) {
		t.Errorf("End() error = %v, want ErrMissingValue", err)
	}
}

func TestSeqDecoderStrictExhaustion(t *testing.T) {
	seq := key.FromSeq([]*key.Key{key.FromInt8(1), key.FromInt8(2)})

	t.Run("leftover elements fail End", func(t *testing.T) {
		s, err := NewDecoder(seq).Seq()
		if err != nil {
			t.Fatal(err)
		}
		var n int8
		if _, err := s.Next(&n); err != nil {
			t.Fatal(err)
		}
		if err := s.End(); !errors.Is(err, key.ErrInvalidLength) {
			t.Errorf("End() error = %v, want ErrInvalidLength", err)
		}
	})
	t.Run("rest is a catch-all", func(t *testing.T) {
		s, err := NewDecoder(seq).Seq()
		if err != nil {
			t.Fatal(err)
		}
		var n int8
		if _, err := s.Next(&n); err != nil {
			t.Fatal(err)
		}
		var rest []int8
		if err := s.Rest(&rest); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]int8{2}, rest); diff != "" {
			t.Errorf("Rest() mismatch (-want +got):\n%s", diff)
		}
		if err := s.End(); err != nil {
			t.Errorf("End() after Rest error = %v", err)
		}
	})
	t.Run("next past the end", func(t *testing.T) {
		s, err := NewDecoder(seq).Seq()
		if err != nil {
			t.Fatal(err)
		}
		var rest []int8
		if err := s.Rest(&rest); err != nil {
			t.Fatal(err)
		}
		var n int8
		ok, err := s.Next(&n)
		if ok || err != nil {
			t.Errorf("Next() past the end = (%v, %v), want (false, nil)", ok, err)
		}
	})
}

func TestMapDecoderMissingValue(t *testing.T) {
	k := key.FromPairs([]key.Pair{
		{Key: key.FromString("a"), Value: key.FromInt8(1)},
	})
	m, err := NewDecoder(k).Map()
	if err != nil {
		t.Fatal(err)
	}
	var v int8
	if err := m.NextValue(&v); !errors.Is(err, key.ErrMissingValue) {
		t.Fatalf("NextValue() without a key = %v, want ErrMissingValue", err)
	}
}

func TestBuilderOptions(t *testing.T) {
	b := NewBuilder()
	t.Run("none is unit", func(t *testing.T) {
		k, err := b.None()
		if err != nil {
			t.Fatal(err)
		}
		if k.Type != key.UnitType {
			t.Errorf("None() type = %v, want Unit", k.Type)
		}
	})
	t.Run("some encodes the inner value", func(t *testing.T) {
		k, err := b.Some(int8(5))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(key.FromInt8(5), k); diff != "" {
			t.Errorf("Some() mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("rune is a one-character string", func(t *testing.T) {
		k, err := b.Rune('Ω')
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(key.FromString("Ω"), k); diff != "" {
			t.Errorf("Rune() mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("builder floats honor the policy", func(t *testing.T) {
		if _, err := NewBuilder().Float64(1.5); err == nil {
			t.Errorf("Float64 under the default policy should fail")
		}
		k, err := NewBuilder(WithFloatPolicy(key.OrderedFloats())).Float64(1.5)
		if err != nil {
			t.Fatal(err)
		}
		if k.Type != key.FloatType {
			t.Errorf("Float64() type = %v, want Float", k.Type)
		}
	})
}

func TestDecoderOptionPresence(t *testing.T) {
	if NewDecoder(key.Unit()).Option() {
		t.Errorf("unit key should read as absent")
	}
	if !NewDecoder(key.FromInt8(1)).Option() {
		t.Errorf("non-unit key should read as present")
	}
}
