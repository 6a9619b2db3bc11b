// Package key defines the canonical in-memory value used to represent any
// structured datum as a single comparable, hashable key.
//
// A Key is an immutable tree built from a closed set of variants: Unit,
// Bool, Integer, Float, Bytes, String, Seq and Map. Keys carry a total
// order ([Compare]) and two hashes: a fast per-process hash ([Key.Hash],
// for in-memory tables) and a stable cross-process digest ([Key.Sum256]).
// This makes a Key usable wherever a value of arbitrary shape needs to act
// as a lookup key: caches, memoized computations, registries.
//
// # Identity
//
// Integer and Float values keep their width as part of their identity: an
// 8-bit 5 and a 32-bit 5 are different keys, and every 32-bit float orders
// below every 64-bit float. No numeric coercion ever happens inside a Key;
// callers that want cross-width equality must widen before encoding.
//
// Maps are association lists, not hash tables: two Maps with the same
// entries in different order are different keys until normalized with
// [Key.Normalize].
//
// # Floats
//
// IEEE floats have neither a total order nor a stable hash, so floats only
// enter a Key through a [FloatPolicy]. [RejectFloats] refuses them with an
// error; [OrderedFloats] admits them under a total order in which all NaNs
// of a width are equal to each other and greater than every number, and
// -0 equals +0. NaN payload bits are preserved through encoding even
// though equality collapses them.
//
// Keys own their children outright, so cycles are impossible. Treat every
// Key as immutable after construction; Compare, Hash and Normalize all
// assume it.
package key
