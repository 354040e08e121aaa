// Package hash supplies the pluggable key-hashing concern the trie needs.
//
// Go has no built-in generic hash() function, so hashing a key is an
// explicit, swappable function rather than an implicit property of the key
// itself. Built-in hashers cover the common key kinds (strings, byte slices,
// integers) and a reflect-based fallback covers everything else that is
// `comparable`.
package hash

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
)

// Hasher produces the 32 bit hash the trie dispatches on for a key of type K.
//	The error return is how an unhashable key (for example one containing a
//	NaN float) is reported to the caller, without doing any partial trie work.
type Hasher[K comparable] func(key K) (uint32, error)

// ForString hashes string keys with the given seed.
func ForString(seed uint32) Hasher[string] {
	return func(key string) (uint32, error) {
		return Murmur32([]byte(key), seed), nil
	}
}

// ForBytes hashes []byte keys with the given seed.
//	[]byte is not itself `comparable`, so this hasher is meant for wrapper
//	key types with an underlying fixed-size array, or for callers who convert
//	to string at the call site (the idiomatic Go way to use a byte slice as a
//	map key).
func ForBytes(seed uint32) func(key []byte) (uint32, error) {
	return func(key []byte) (uint32, error) {
		return Murmur32(key, seed), nil
	}
}

// ForInt64 hashes int64 keys by encoding them to 8 bytes and folding them
// through Murmur32Fold64.
func ForInt64(seed uint32) Hasher[int64] {
	return func(key int64) (uint32, error) {
		return Murmur32Fold64(encodeUint64(uint64(key)), seed), nil
	}
}

// ForUint64 hashes uint64 keys by encoding them to 8 bytes and folding them
// through Murmur32Fold64.
func ForUint64(seed uint32) Hasher[uint64] {
	return func(key uint64) (uint32, error) {
		return Murmur32Fold64(encodeUint64(key), seed), nil
	}
}

// ForInt hashes platform int keys the same way ForInt64 does.
func ForInt(seed uint32) Hasher[int] {
	return func(key int) (uint32, error) {
		return Murmur32Fold64(encodeUint64(uint64(key)), seed), nil
	}
}

func encodeUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

// ForComparable builds a default hasher for any comparable key type.
//	The key is rendered to its canonical Go-syntax representation and the
//	resulting bytes are murmur-hashed. This is slower than a type-specific
//	hasher but requires no caller-supplied code, so any comparable key type
//	works out of the box.
func ForComparable[K comparable]() Hasher[K] {
	return func(key K) (uint32, error) {
		if err := checkHashable(reflect.ValueOf(key)); err != nil {
			return 0, err
		}

		repr := fmt.Sprintf("%#v", key)
		return Murmur32([]byte(repr), 1), nil
	}
}

// checkHashable walks a value looking for NaN floats, which compare unequal
// to themselves and would silently break the container's equality law.
func checkHashable(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		if math.IsNaN(rv.Float()) {
			return fmt.Errorf("%w: NaN float key breaks the equality relation", ErrUnhashable)
		}
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if err := checkHashable(rv.Field(i)); err != nil {
				return err
			}
		}
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := checkHashable(rv.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Interface, reflect.Pointer:
		if !rv.IsNil() {
			return checkHashable(rv.Elem())
		}
	}

	return nil
}
