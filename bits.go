package hamt

import "math/bits"

// bitChunkSize is the number of hash bits consumed per trie level. A 32 bit
// hash sliced into 5 bit chunks gives 32 possible children per node.
const bitChunkSize = 5

// maxSplitShift is the depth ceiling for a 32 bit hash: six
// full 5-bit slices (shifts 0, 5, 10, 15, 20, 25) are available before the
// hash is exhausted. A split requested at a shift beyond this point would
// only have 2 bits of the original 32 left to work with, which is not
// dispatched as a seventh bitmap level — it becomes a collision node instead.
const maxSplitShift = 25

// sliceIndex extracts the 5-bit index for a given depth's shift amount.
func sliceIndex(hash uint32, shift uint) int {
	return int((hash >> shift) & 0x1f)
}

// bitFor returns the bitmap mask for a given slice index.
func bitFor(index int) uint32 {
	return uint32(1) << uint(index)
}

// popcount returns the number of set bits, i.e. the number of populated
// slots a bitmap currently represents.
func popcount(bitmap uint32) int {
	return bits.OnesCount32(bitmap)
}

// positionOf converts a bit mask into its compact slot index: the count of
// populated slots below it.
func positionOf(bitmap, bit uint32) int {
	return popcount(bitmap & (bit - 1))
}

// isBitSet reports whether the slot for the given bit mask is populated in
// the bitmap.
func isBitSet(bitmap, bit uint32) bool {
	return bitmap&bit != 0
}

// extendSlots inserts a new slot at pos, growing the backing array by one.
//	The original slot array is left untouched — every write path in this
//	package copies rather than mutates, which is what makes structural
//	sharing across container versions safe.
func extendSlots[K comparable, V any](orig []slot[K, V], pos int, s slot[K, V]) []slot[K, V] {
	grown := make([]slot[K, V], len(orig)+1)
	copy(grown[:pos], orig[:pos])
	grown[pos] = s
	copy(grown[pos+1:], orig[pos:])
	return grown
}

// shrinkSlots removes the slot at pos, shrinking the backing array by one.
func shrinkSlots[K comparable, V any](orig []slot[K, V], pos int) []slot[K, V] {
	shrunk := make([]slot[K, V], len(orig)-1)
	copy(shrunk[:pos], orig[:pos])
	copy(shrunk[pos:], orig[pos+1:])
	return shrunk
}

// replaceSlotAt copies orig and overwrites the entry at pos, used whenever a
// single child changes but the slot count does not.
func replaceSlotAt[K comparable, V any](orig []slot[K, V], pos int, s slot[K, V]) []slot[K, V] {
	replaced := make([]slot[K, V], len(orig))
	copy(replaced, orig)
	replaced[pos] = s
	return replaced
}
