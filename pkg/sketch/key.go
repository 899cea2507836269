package sketch

import "math"

// Key is the constraint satisfied by anything the sketch can track: it must
// be usable as a Go map key (comparable) and must know how to serialize
// itself to bytes for hashing. The byte encoding, not Go's built-in hash,
// is what feeds the hash family, so two equal keys always hash identically
// regardless of how the caller constructed them.
type Key interface {
	comparable
	Bytes() []byte
}

// StringKey hashes over the string's byte contents plus an explicit length
// prefix, so that the serializations of "a" then "bc" never run together
// into the same bytes as those of "ab" then "c", the way a naive
// concatenation-based scheme would.
type StringKey string

func (k StringKey) Bytes() []byte {
	s := string(k)
	buf := make([]byte, 8+len(s))
	putUint64(buf, uint64(len(s)))
	copy(buf[8:], s)
	return buf
}

// IntKey serializes a signed 64-bit integer key to its fixed-width byte
// representation.
type IntKey int64

func (k IntKey) Bytes() []byte {
	buf := make([]byte, 8)
	putUint64(buf, uint64(k))
	return buf
}

// FloatKey serializes a float64 key by its raw IEEE-754 bit pattern, so
// -0.0 and +0.0 hash differently unless the caller normalizes them first.
// NaN keys hash consistently within a process but are otherwise undefined:
// callers that care about NaN identity should filter it out upstream.
type FloatKey float64

func (k FloatKey) Bytes() []byte {
	buf := make([]byte, 8)
	putUint64(buf, math.Float64bits(float64(k)))
	return buf
}

func putUint64(buf []byte, v uint64) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
	buf[4] = byte(v >> 32)
	buf[5] = byte(v >> 40)
	buf[6] = byte(v >> 48)
	buf[7] = byte(v >> 56)
}
