package hash

import "errors"

// ErrUnhashable is wrapped by any Hasher that cannot safely produce a hash
// for the given key. The container-level ErrUnhashableKey wraps this in turn
// so callers can match on either with errors.Is.
var ErrUnhashable = errors.New("hash: key cannot be hashed")
