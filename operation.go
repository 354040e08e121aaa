package hamt

import (
	"reflect"

	"github.com/sirgallo/utils"

	"github.com/sixfold/hamt/hash"
)

// find, assoc and without below work against a single hash computed once by
// the container facade for the whole operation — only shift advances as the
// recursion descends, the hash value itself is never recomputed for the key
// being searched for. This deliberately drops the per-chunk reseed scheme a
// mutable mmap-backed root would use to dodge collisions forever: a
// persistent trie with a real depth ceiling needs genuine collision nodes
// instead of an unbounded reseed.

func (n *bitmapNode[K, V]) find(hasher hash.Hasher[K], shift uint, h uint32, key K) (V, bool, error) {
	zero := utils.GetZero[V]()

	bit := bitFor(sliceIndex(h, shift))
	if !isBitSet(n.bitmap, bit) {
		return zero, false, nil
	}

	s := n.slots[positionOf(n.bitmap, bit)]
	if s.kind == slotNode {
		return s.child.find(hasher, shift+bitChunkSize, h, key)
	}

	if s.key == key {
		return s.value, true, nil
	}
	return zero, false, nil
}

func (n *bitmapNode[K, V]) assoc(hasher hash.Hasher[K], shift uint, h uint32, key K, val V) (node[K, V], bool, error) {
	index := sliceIndex(h, shift)
	bit := bitFor(index)

	if !isBitSet(n.bitmap, bit) {
		pos := positionOf(n.bitmap, bit)
		grown := extendSlots(n.slots, pos, leafSlot[K, V](key, val))
		return &bitmapNode[K, V]{bitmap: n.bitmap | bit, slots: grown}, true, nil
	}

	pos := positionOf(n.bitmap, bit)
	s := n.slots[pos]

	if s.kind == slotNode {
		newChild, added, err := s.child.assoc(hasher, shift+bitChunkSize, h, key, val)
		if err != nil {
			return nil, false, err
		}
		if newChild == s.child {
			return n, added, nil
		}
		replaced := replaceSlotAt(n.slots, pos, childSlot[K, V](newChild))
		return &bitmapNode[K, V]{bitmap: n.bitmap, slots: replaced}, added, nil
	}

	if s.key == key {
		if valuesEqual(s.value, val) {
			return n, false, nil
		}
		replaced := replaceSlotAt(n.slots, pos, leafSlot[K, V](key, val))
		return &bitmapNode[K, V]{bitmap: n.bitmap, slots: replaced}, false, nil
	}

	// Two different keys want the same slot: either merge into a collision
	// node directly (the depth ceiling has been reached) or split one level
	// deeper.
	if shift >= maxSplitShift {
		merged := &collisionNode[K, V]{items: []collisionEntry[K, V]{
			{key: s.key, value: s.value},
			{key: key, value: val},
		}}
		replaced := replaceSlotAt(n.slots, pos, childSlot[K, V](merged))
		return &bitmapNode[K, V]{bitmap: n.bitmap, slots: replaced}, true, nil
	}

	existingHash, err := hasher(s.key)
	if err != nil {
		return nil, false, unhashableKeyError(s.key, err)
	}

	split, err := createSplitNode(hasher, shift+bitChunkSize, s.key, s.value, existingHash, key, val, h)
	if err != nil {
		return nil, false, err
	}

	replaced := replaceSlotAt(n.slots, pos, childSlot[K, V](split))
	return &bitmapNode[K, V]{bitmap: n.bitmap, slots: replaced}, true, nil
}

// createSplitNode builds the subtrie needed to keep two diverging keys apart,
// descending one level at a time until their slice indices differ (or the
// depth ceiling forces a collision node). Entries are placed in ascending
// slice-index order within the returned node's slots.
func createSplitNode[K comparable, V any](hasher hash.Hasher[K], shift uint, key1 K, val1 V, hash1 uint32, key2 K, val2 V, hash2 uint32) (node[K, V], error) {
	if shift > maxSplitShift {
		return &collisionNode[K, V]{items: []collisionEntry[K, V]{
			{key: key1, value: val1},
			{key: key2, value: val2},
		}}, nil
	}

	index1 := sliceIndex(hash1, shift)
	index2 := sliceIndex(hash2, shift)

	if index1 == index2 {
		child, err := createSplitNode[K, V](hasher, shift+bitChunkSize, key1, val1, hash1, key2, val2, hash2)
		if err != nil {
			return nil, err
		}
		return &bitmapNode[K, V]{bitmap: bitFor(index1), slots: []slot[K, V]{childSlot[K, V](child)}}, nil
	}

	bitmap := bitFor(index1) | bitFor(index2)
	if index1 < index2 {
		return &bitmapNode[K, V]{bitmap: bitmap, slots: []slot[K, V]{leafSlot[K, V](key1, val1), leafSlot[K, V](key2, val2)}}, nil
	}
	return &bitmapNode[K, V]{bitmap: bitmap, slots: []slot[K, V]{leafSlot[K, V](key2, val2), leafSlot[K, V](key1, val1)}}, nil
}

func (n *bitmapNode[K, V]) without(hasher hash.Hasher[K], shift uint, h uint32, key K) (removal[K, V], error) {
	bit := bitFor(sliceIndex(h, shift))
	if !isBitSet(n.bitmap, bit) {
		return removal[K, V]{}, keyMissingError(key)
	}

	pos := positionOf(n.bitmap, bit)
	s := n.slots[pos]

	if s.kind == slotNode {
		childRemoval, err := s.child.without(hasher, shift+bitChunkSize, h, key)
		if err != nil {
			return removal[K, V]{}, err
		}

		switch childRemoval.kind {
		case removalEmpty:
			return n.removeSlot(pos)
		case removalReplaceLeaf:
			replaced := replaceSlotAt(n.slots, pos, leafSlot[K, V](childRemoval.key, childRemoval.value))
			return removal[K, V]{kind: removalReplaceNode, node: &bitmapNode[K, V]{bitmap: n.bitmap, slots: replaced}}, nil
		default:
			replaced := replaceSlotAt(n.slots, pos, childSlot[K, V](childRemoval.node))
			return removal[K, V]{kind: removalReplaceNode, node: &bitmapNode[K, V]{bitmap: n.bitmap, slots: replaced}}, nil
		}
	}

	if s.key != key {
		return removal[K, V]{}, keyMissingError(key)
	}
	return n.removeSlot(pos)
}

// removeSlot drops the slot at pos, collapsing this node entirely if that
// was its only populated slot.
func (n *bitmapNode[K, V]) removeSlot(pos int) (removal[K, V], error) {
	if popcount(n.bitmap) == 1 {
		return removal[K, V]{kind: removalEmpty}, nil
	}

	bit := bitFor(trailingSliceIndex(n.bitmap, pos))
	shrunk := shrinkSlots(n.slots, pos)
	return removal[K, V]{kind: removalReplaceNode, node: &bitmapNode[K, V]{bitmap: n.bitmap &^ bit, slots: shrunk}}, nil
}

// trailingSliceIndex recovers the slice index whose compact position is pos,
// by walking the bitmap's set bits in ascending order.
func trailingSliceIndex(bitmap uint32, pos int) int {
	for index := 0; index < 32; index++ {
		bit := bitFor(index)
		if bitmap&bit == 0 {
			continue
		}
		if pos == 0 {
			return index
		}
		pos--
	}
	return -1
}

func (n *bitmapNode[K, V]) each(yield func(K, V) bool) bool {
	for _, s := range n.slots {
		if s.kind == slotNode {
			if !s.child.each(yield) {
				return false
			}
			continue
		}
		if !yield(s.key, s.value) {
			return false
		}
	}
	return true
}

func (c *collisionNode[K, V]) find(_ hash.Hasher[K], _ uint, _ uint32, key K) (V, bool, error) {
	zero := utils.GetZero[V]()
	for _, item := range c.items {
		if item.key == key {
			return item.value, true, nil
		}
	}
	return zero, false, nil
}

func (c *collisionNode[K, V]) assoc(_ hash.Hasher[K], _ uint, _ uint32, key K, val V) (node[K, V], bool, error) {
	for i, item := range c.items {
		if item.key != key {
			continue
		}
		if valuesEqual(item.value, val) {
			return c, false, nil
		}
		updated := make([]collisionEntry[K, V], len(c.items))
		copy(updated, c.items)
		updated[i].value = val
		return &collisionNode[K, V]{items: updated}, false, nil
	}

	grown := make([]collisionEntry[K, V], len(c.items)+1)
	copy(grown, c.items)
	grown[len(c.items)] = collisionEntry[K, V]{key: key, value: val}
	return &collisionNode[K, V]{items: grown}, true, nil
}

func (c *collisionNode[K, V]) without(_ hash.Hasher[K], _ uint, _ uint32, key K) (removal[K, V], error) {
	for i, item := range c.items {
		if item.key != key {
			continue
		}

		if len(c.items) == 2 {
			remaining := c.items[1-i]
			return removal[K, V]{kind: removalReplaceLeaf, key: remaining.key, value: remaining.value}, nil
		}

		shrunk := make([]collisionEntry[K, V], 0, len(c.items)-1)
		shrunk = append(shrunk, c.items[:i]...)
		shrunk = append(shrunk, c.items[i+1:]...)
		return removal[K, V]{kind: removalReplaceNode, node: &collisionNode[K, V]{items: shrunk}}, nil
	}
	return removal[K, V]{}, keyMissingError(key)
}

func (c *collisionNode[K, V]) each(yield func(K, V) bool) bool {
	for _, item := range c.items {
		if !yield(item.key, item.value) {
			return false
		}
	}
	return true
}

// valuesEqual backs the idempotent-overwrite structural no-op: setting a key
// to a value that is already deeply equal to its current value returns the
// same root instead of allocating a new one. Go's generic V carries no
// equality constraint, so reflect.DeepEqual is the identity check's closest
// substitute that never panics regardless of V's underlying type.
func valuesEqual[V any](a, b V) bool {
	return reflect.DeepEqual(a, b)
}
