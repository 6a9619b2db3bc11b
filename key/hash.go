package key

import (
	"encoding/binary"
	"hash/maphash"
	"io"
)

// hashSeed is created once per process so that independent Key hashes can
// share hash tables. Cross-process stability comes from Sum256, not Hash.
var hashSeed = maphash.MakeSeed()

// Hash returns a 64-bit per-process hash of the key, consistent with
// Equal: equal keys always hash identically, including keys holding NaN
// floats that Equal treats as the same value.
// It panics if k is nil.
func (k *Key) Hash() uint64 {
	if k == nil {
		panic("key: Hash called on nil key")
	}
	var h maphash.Hash
	h.SetSeed(hashSeed)
	k.canonInto(&h)
	return h.Sum64()
}

// canonInto streams an unambiguous canonical form of k into w: the type
// byte, then the contents with lengths prefixed wherever a variant holds
// a variable number of bytes or children. Float bits are canonicalized
// (canonBits) so hashing agrees with the NaN and signed-zero equalities
// of the total order. Write errors are ignored; both hashers used here
// never fail.
func (k *Key) canonInto(w io.Writer) {
	var b [8]byte
	b[0] = byte(k.Type)
	w.Write(b[:1])

	switch k.Type {
	case UnitType:
	case BoolType:
		if k.Bool {
			b[0] = 1
		} else {
			b[0] = 0
		}
		w.Write(b[:1])
	case IntegerType:
		b[0] = byte(k.Integer.Width)
		w.Write(b[:1])
		binary.LittleEndian.PutUint64(b[:], k.Integer.Bits)
		w.Write(b[:])
	case FloatType:
		b[0] = byte(k.Float.Width)
		w.Write(b[:1])
		binary.LittleEndian.PutUint64(b[:], k.Float.canonBits())
		w.Write(b[:])
	case BytesType:
		binary.LittleEndian.PutUint64(b[:], uint64(len(k.Bytes)))
		w.Write(b[:])
		w.Write(k.Bytes)
	case StringType:
		binary.LittleEndian.PutUint64(b[:], uint64(len(k.String)))
		w.Write(b[:])
		io.WriteString(w, k.String)
	case SeqType:
		binary.LittleEndian.PutUint64(b[:], uint64(len(k.Values)))
		w.Write(b[:])
		for _, v := range k.Values {
			v.canonInto(w)
		}
	case MapType:
		binary.LittleEndian.PutUint64(b[:], uint64(len(k.Pairs)))
		w.Write(b[:])
		for i := range k.Pairs {
			k.Pairs[i].Key.canonInto(w)
			k.Pairs[i].Value.canonInto(w)
		}
	}
}
