package dict

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

var defaultSeed uint32 = 5381

// SetHashSeed overrides the seed used by the default MurmurHash2-based
// hash function, mirroring dictSetHashFunctionSeed from the original.
func SetHashSeed(seed uint32) {
	defaultSeed = seed
}

// murmur2 is the 32-bit MurmurHash2 variant the original dict.c uses as
// its default hash function, seeded at call time (spec.md §4.3).
func murmur2(data []byte, seed uint32) uint32 {
	const m uint32 = 0x5bd1e995
	const r = 24

	h := seed ^ uint32(len(data))
	i := 0
	n := len(data)

	for n >= 4 {
		k := binary.LittleEndian.Uint32(data[i:])
		k *= m
		k ^= k >> r
		k *= m
		h *= m
		h ^= k
		i += 4
		n -= 4
	}

	switch n {
	case 3:
		h ^= uint32(data[i+2]) << 16
		fallthrough
	case 2:
		h ^= uint32(data[i+1]) << 8
		fallthrough
	case 1:
		h ^= uint32(data[i])
		h *= m
	}

	h ^= h >> 13
	h *= m
	h ^= h >> 15
	return h
}

// MurmurHash2 exposes the default, seed-configurable hash function.
func MurmurHash2(data []byte) uint64 {
	return uint64(murmur2(data, defaultSeed))
}

// djb33 is the case-insensitive hash variant from spec.md §4.3: DJB
// times-33, folding ASCII letters to lowercase as it goes.
func djb33(data []byte) uint64 {
	var hash uint64 = 5381
	for _, c := range data {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		hash = ((hash << 5) + hash) + uint64(c)
	}
	return hash
}

// CaseInsensitiveHash exposes the DJB×33 case-insensitive variant.
func CaseInsensitiveHash(data []byte) uint64 {
	return djb33(data)
}

// XXHash exposes cespare/xxhash/v2 as a pluggable, production-grade
// alternative hash function (SPEC_FULL.md domain stack: pluggable hash
// policy, grounded on inngest-inngest's dependency on the same package).
func XXHash(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// mix64 is Thomas Wang's 64-bit integer hash, applied iteratively over
// six state integers to build the dict fingerprint, reproduced exactly
// from dictFingerprint in the original dict.c (spec.md §4.3, §9).
func mix64(hash uint64) uint64 {
	hash = ^hash + (hash << 21)
	hash ^= hash >> 24
	hash = (hash + (hash << 3)) + (hash << 8)
	hash ^= hash >> 14
	hash = (hash + (hash << 2)) + (hash << 4)
	hash ^= hash >> 28
	hash += hash << 31
	return hash
}

func combineFingerprint(integers [6]uint64) uint64 {
	var hash uint64
	for _, v := range integers {
		hash += v
		hash = mix64(hash)
	}
	return hash
}
