package hamt

import (
	"errors"
	"fmt"
)

// ErrKeyMissing is returned by total lookup and by delete when the key is
// not present in the container. Defaulted lookup and membership checks never
// return it.
var ErrKeyMissing = errors.New("hamt: key missing")

// ErrUnhashableKey is returned by any operation that would need to hash the
// key (lookup, membership, insert, delete, construction) when the key's
// hasher fails. No partial work is performed before this propagates.
var ErrUnhashableKey = errors.New("hamt: key cannot be hashed")

// ErrStructuralInvariantViolation indicates a bug in the node algebra, such
// as a bitmapNode whose slot count doesn't match its bitmap's popcount. It
// should never be reachable on correct input; Validate exists so fuzz tests
// can assert its absence rather than letting the violation panic.
var ErrStructuralInvariantViolation = errors.New("hamt: structural invariant violation")

func keyMissingError(key any) error {
	return fmt.Errorf("%w: %v", ErrKeyMissing, key)
}

func unhashableKeyError(key any, cause error) error {
	return fmt.Errorf("%w: %v: %w", ErrUnhashableKey, key, cause)
}

func structuralInvariantError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructuralInvariantViolation, fmt.Sprintf(format, args...))
}
