// Package hamt implements a persistent, immutable associative container
// backed by a hash array mapped trie. Every Set and Delete returns a new
// root; prior versions remain valid and share structure with the new one.
package hamt

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/sirgallo/utils"

	"github.com/sixfold/hamt/hash"
)

// HAMT is an immutable map from keys of type K to values of type V. The zero
// value is not usable — construct one with New, Of or FromMap. Every method
// that would mutate a conventional map instead returns a new *HAMT; the
// receiver is left untouched.
type HAMT[K comparable, V any] struct {
	root   node[K, V]
	size   int
	hasher hash.Hasher[K]
}

// Pair is one key/value entry, used by Of to build a HAMT from a literal list.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// New returns an empty container. hashers is variadic so callers can either
// accept the default (hash.ForComparable, which works for any comparable K)
// or supply a faster type-specific one such as hash.ForString.
func New[K comparable, V any](hashers ...hash.Hasher[K]) *HAMT[K, V] {
	return &HAMT[K, V]{hasher: resolveHasher(hashers...)}
}

// Of builds a container from a literal slice of pairs, in order. Later
// duplicate keys win, matching Set's overwrite semantics.
func Of[K comparable, V any](pairs []Pair[K, V], hashers ...hash.Hasher[K]) (*HAMT[K, V], error) {
	h := New[K, V](hashers...)
	var err error
	for _, p := range pairs {
		if h, err = h.Set(p.Key, p.Value); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// FromMap builds a container from a Go map. Go's map iteration order is
// randomized, which is fine here since insertion order never affects the
// resulting container's contents (invariant: commutative construction).
func FromMap[K comparable, V any](m map[K]V, hashers ...hash.Hasher[K]) (*HAMT[K, V], error) {
	h := New[K, V](hashers...)
	var err error
	for k, v := range m {
		if h, err = h.Set(k, v); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func resolveHasher[K comparable](hashers ...hash.Hasher[K]) hash.Hasher[K] {
	if len(hashers) > 0 && hashers[0] != nil {
		return hashers[0]
	}
	return hash.ForComparable[K]()
}

// Len returns the number of entries.
func (h *HAMT[K, V]) Len() int {
	return h.size
}

// Lookup is the total form of retrieval: it returns ErrKeyMissing if the key
// is absent and ErrUnhashableKey if the key's hasher fails.
func (h *HAMT[K, V]) Lookup(key K) (V, error) {
	zero := utils.GetZero[V]()

	hv, err := h.hasher(key)
	if err != nil {
		return zero, unhashableKeyError(key, err)
	}

	if h.root == nil {
		return zero, keyMissingError(key)
	}

	val, ok, err := h.root.find(h.hasher, 0, hv, key)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, keyMissingError(key)
	}
	return val, nil
}

// Get is the defaulted form of retrieval: a missing key yields fallback.
// Get has no error return, so an unhashable key still propagates by
// panicking rather than being folded into fallback alongside a plain
// absence. Callers that might pass an unhashable key should call Lookup
// directly instead.
func (h *HAMT[K, V]) Get(key K, fallback V) V {
	val, err := h.Lookup(key)
	if err != nil {
		if errors.Is(err, ErrKeyMissing) {
			return fallback
		}
		panic(err)
	}
	return val
}

// MustGet panics if the key is missing or unhashable. Intended for call
// sites that have already established the key's presence.
func (h *HAMT[K, V]) MustGet(key K) V {
	val, err := h.Lookup(key)
	if err != nil {
		panic(err)
	}
	return val
}

// Contains reports whether key is present. Contains has no error return, so
// an unhashable key panics rather than being reported as a plain absence.
func (h *HAMT[K, V]) Contains(key K) bool {
	_, err := h.Lookup(key)
	if err == nil {
		return true
	}
	if errors.Is(err, ErrKeyMissing) {
		return false
	}
	panic(err)
}

// Set returns a new container with key bound to val, sharing every subtree
// of the receiver unaffected by the change. Setting a key to a value that is
// already deeply equal to its current binding returns the receiver itself.
func (h *HAMT[K, V]) Set(key K, val V) (*HAMT[K, V], error) {
	hv, err := h.hasher(key)
	if err != nil {
		return nil, unhashableKeyError(key, err)
	}

	if h.root == nil {
		root := &bitmapNode[K, V]{
			bitmap: bitFor(sliceIndex(hv, 0)),
			slots:  []slot[K, V]{leafSlot[K, V](key, val)},
		}
		return &HAMT[K, V]{root: root, size: 1, hasher: h.hasher}, nil
	}

	newRoot, added, err := h.root.assoc(h.hasher, 0, hv, key, val)
	if err != nil {
		return nil, err
	}
	if newRoot == h.root {
		return h, nil
	}

	size := h.size
	if added {
		size++
	}
	return &HAMT[K, V]{root: newRoot, size: size, hasher: h.hasher}, nil
}

// Delete returns a new container with key removed. It returns ErrKeyMissing
// without allocating a new root if the key is not present.
func (h *HAMT[K, V]) Delete(key K) (*HAMT[K, V], error) {
	hv, err := h.hasher(key)
	if err != nil {
		return nil, unhashableKeyError(key, err)
	}

	if h.root == nil {
		return nil, keyMissingError(key)
	}

	result, err := h.root.without(h.hasher, 0, hv, key)
	if err != nil {
		return nil, err
	}

	if result.kind == removalEmpty {
		return &HAMT[K, V]{hasher: h.hasher}, nil
	}
	return &HAMT[K, V]{root: result.node, size: h.size - 1, hasher: h.hasher}, nil
}

// Items returns a lazy, order-unspecified sequence of every (key, value)
// pair. The order reflects the trie's internal slot layout, not insertion
// order.
func (h *HAMT[K, V]) Items() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if h.root != nil {
			h.root.each(yield)
		}
	}
}

// Keys returns a lazy, order-unspecified sequence of every key.
func (h *HAMT[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		if h.root == nil {
			return
		}
		h.root.each(func(k K, _ V) bool { return yield(k) })
	}
}

// Values returns a lazy, order-unspecified sequence of every value.
func (h *HAMT[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		if h.root == nil {
			return
		}
		h.root.each(func(_ K, v V) bool { return yield(v) })
	}
}

// Equal reports whether two containers hold the same set of key/value
// bindings, regardless of how each trie happens to be shaped internally.
func (h *HAMT[K, V]) Equal(other *HAMT[K, V]) bool {
	if other == nil {
		return h.size == 0
	}
	if h.size != other.size {
		return false
	}

	equal := true
	if h.root != nil {
		h.root.each(func(k K, v V) bool {
			ov, err := other.Lookup(k)
			if err != nil || !valuesEqual(v, ov) {
				equal = false
				return false
			}
			return true
		})
	}
	return equal
}

// String renders the container as "HAMT({k: v, ...})".
func (h *HAMT[K, V]) String() string {
	var b strings.Builder
	b.WriteString("HAMT({")

	first := true
	if h.root != nil {
		h.root.each(func(k K, v V) bool {
			if !first {
				b.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&b, "%v: %v", k, v)
			return true
		})
	}

	b.WriteString("})")
	return b.String()
}
