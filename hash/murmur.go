package hash

import "encoding/binary"

// murmur32 constants
//	A prime number that serves as a multiplier during mixing. Distributes bits and improves randomness.
const (
	c32_1 = 0x85ebca6b
	// a prime number also used for mixing. Enhances distribution of hash value
	c32_2 = 0xc2b2ae35
	// added to hash after each chunk is mixed in
	c32_3 = 0xe6546b64
	// multiplied in the finalization step. Provides additional mixing effect
	c32_4 = 0x1b873593
	// multiplier in the finalization step. Again, improves hash value distribution
	c32_5 = 0x5c4bcea9
)

// Murmur32
//	The Murmur32 non-cryptographic hash function.
//	Adapted from the mmap-backed trie's hashing routine to operate on arbitrary
//	byte slices with no other dependency on the container itself.
func Murmur32(data []byte, seed uint32) uint32 {
	hash := seed

	length := uint32(len(data))
	total4ByteChunks := len(data) / 4

	for idx := range make([]int, total4ByteChunks) {
		startIdxOfChunk := idx * 4
		endIdxOfChunk := (idx + 1) * 4
		chunk := binary.LittleEndian.Uint32(data[startIdxOfChunk:endIdxOfChunk])

		rotateRight32(&hash, chunk)
	}

	handleRemainingBytes32(&hash, data)

	hash ^= length
	hash ^= hash >> 16
	hash *= c32_4
	hash ^= hash >> 13
	hash *= c32_5
	hash ^= hash >> 16

	return hash
}

// rotateRight32
//	For each 4-byte chunk, a series of rotations, mixings, and XOR operations are applied.
func rotateRight32(hash *uint32, chunk uint32) {
	chunk *= c32_1
	chunk = (chunk << 15) | (chunk >> 17) // Rotate left by 15
	chunk *= c32_2

	*hash ^= chunk
	*hash = (*hash << 13) | (*hash >> 19) // Rotate left by 13
	*hash = *hash*5 + c32_3
}

// handleRemainingBytes32
//	If there are any remaining bytes that are not a chunk of 4, perform mixing and rotating on these chunks.
func handleRemainingBytes32(hash *uint32, dataAsBytes []byte) {
	remaining := dataAsBytes[len(dataAsBytes)-len(dataAsBytes)%4:]

	if len(remaining) > 0 {
		var chunk uint32

		switch len(remaining) {
		case 3:
			chunk |= uint32(remaining[2]) << 16
			fallthrough
		case 2:
			chunk |= uint32(remaining[1]) << 8
			fallthrough
		case 1:
			chunk |= uint32(remaining[0])
			chunk *= c32_1
			chunk = (chunk << 15) | (chunk >> 17) // Rotate left by 15
			chunk *= c32_2
			*hash ^= chunk
		}
	}
}

// Murmur32Fold64
//	Hashes data with Murmur32 twice, using two different seeds, and folds the two halves together
//	with XOR into a single 32 bit value. Wide integer keys (int64/uint64) go through this instead
//	of a native 64 bit hash so every key type funnels through the same 32-bit depth-ceiling analysis
//	the trie is built around, rather than needing a second, deeper dispatch path for wide keys.
func Murmur32Fold64(data []byte, seed uint32) uint32 {
	lo := Murmur32(data, seed)
	hi := Murmur32(data, seed^0x9e3779b9)
	return lo ^ hi
}
