package key

import "github.com/zeebo/blake3"

// Sum256 returns a stable 256-bit BLAKE3 digest of the key's canonical
// form. Unlike Hash, the digest does not vary across processes or
// builds, so it can name cache entries on disk or over the wire. Equal
// keys always produce the same digest.
// It panics if k is nil.
func (k *Key) Sum256() [32]byte {
	if k == nil {
		panic("key: Sum256 called on nil key")
	}
	h := blake3.New()
	k.canonInto(h)
	var sum [32]byte
	h.Sum(sum[:0])
	return sum
}
