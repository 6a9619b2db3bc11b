package key

import "slices"

// Normalize returns k in canonical form: every Map's entries sorted by
// key order (value order breaking ties between equal keys), recursively
// through Seq elements and Map keys and values. Normalize is idempotent
// and never mutates its receiver. Two keys built from the same logical
// map contents in different insertion orders compare equal after
// normalization.
func (k *Key) Normalize() *Key {
	if k == nil {
		return nil
	}
	res := &Key{
		Type:    k.Type,
		Bool:    k.Bool,
		Integer: k.Integer,
		Float:   k.Float,
		Bytes:   k.Bytes,
		String:  k.String,
	}
	switch k.Type {
	case SeqType:
		res.Values = make([]*Key, len(k.Values))
		for i, v := range k.Values {
			res.Values[i] = v.Normalize()
		}
	case MapType:
		res.Pairs = make([]Pair, len(k.Pairs))
		for i := range k.Pairs {
			res.Pairs[i] = Pair{
				Key:   k.Pairs[i].Key.Normalize(),
				Value: k.Pairs[i].Value.Normalize(),
			}
		}
		slices.SortStableFunc(res.Pairs, func(a, b Pair) int {
			if c := Compare(a.Key, b.Key); c != 0 {
				return c
			}
			return Compare(a.Value, b.Value)
		})
	}
	return res
}
