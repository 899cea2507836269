package sketch

import (
	"encoding/binary"
	"math/bits"
)

// defaultSeed is used whenever a caller does not supply one, so that two
// sketches built with zero-value configuration hash identically and tests
// stay reproducible across runs and platforms.
const defaultSeed uint64 = 0x9E3779B97F4A7C15

// splitmix64 derives well-distributed, independent 64-bit values from a
// single seed by repeated application of a fixed bit-mixer. It is used here
// only to fan a single master seed out into per-row sub-seeds; it is not
// used to hash keys.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// hashFamily produces d independent, deterministic column indices in
// [0, width) for any key's byte representation. Construction derives d
// sub-seeds from a single master seed via splitmix64; hashing a key mixes
// its MurmurHash3 digest with each sub-seed in turn.
type hashFamily struct {
	width uint32
	depth uint32
	seeds []uint32
}

func newHashFamily(width, depth uint32, seed uint64) *hashFamily {
	seeds := make([]uint32, depth)
	s := seed
	for i := range seeds {
		s = splitmix64(s)
		seeds[i] = uint32(s >> 32)
	}
	return &hashFamily{width: width, depth: depth, seeds: seeds}
}

// indices computes the depth column indices for key, writing them into dst.
// dst must have length >= depth; this lets callers reuse a scratch buffer
// across Update/Estimate calls to avoid an allocation per operation.
func (h *hashFamily) indices(key []byte, dst []uint32) {
	digest := murmurHash3(key, 0)
	for i := uint32(0); i < h.depth; i++ {
		mixed := murmurHash3Mix(digest, h.seeds[i])
		dst[i] = mixed % h.width
	}
}

// murmurHash3Mix folds a second seed into an already-computed digest
// without re-scanning the key bytes, by re-running the finalizer with the
// seed mixed into the digest. This keeps a single expensive digest pass per
// key while still giving each row its own effectively-independent hash.
func murmurHash3Mix(digest, seed uint32) uint32 {
	h1 := digest ^ seed
	h1 ^= h1 >> 16
	h1 *= 0x85ebca6b
	h1 ^= h1 >> 13
	h1 *= 0xc2b2ae35
	h1 ^= h1 >> 16
	return h1
}

// murmurHash3 is 32-bit MurmurHash3 (the x86_32 variant), chosen over the
// language's built-in map hash because that one is randomized per-process
// and not independent across calls with different seeds — exactly the
// property this sketch depends on for its d rows.
func murmurHash3(data []byte, seed uint32) uint32 {
	const c1, c2 uint32 = 0xcc9e2d51, 0x1b873593
	h1 := seed
	clen := uint32(len(data))

	for len(data) >= 4 {
		k1 := binary.LittleEndian.Uint32(data)
		data = data[4:]

		k1 *= c1
		k1 = bits.RotateLeft32(k1, 15)
		k1 *= c2

		h1 ^= k1
		h1 = bits.RotateLeft32(h1, 13)
		h1 = h1*5 + 0xe6546b64
	}

	var k1 uint32
	switch len(data) {
	case 3:
		k1 ^= uint32(data[2]) << 16
		fallthrough
	case 2:
		k1 ^= uint32(data[1]) << 8
		fallthrough
	case 1:
		k1 ^= uint32(data[0])
		k1 *= c1
		k1 = bits.RotateLeft32(k1, 15)
		k1 *= c2
		h1 ^= k1
	}

	h1 ^= clen
	h1 ^= h1 >> 16
	h1 *= 0x85ebca6b
	h1 ^= h1 >> 13
	h1 *= 0xc2b2ae35
	h1 ^= h1 >> 16

	return h1
}
