// Package intset implements a sorted, duplicate-free set of signed
// 64-bit integers packed into a single contiguous buffer with adaptive
// element width (16/32/64 bits), mirroring the encoding upgrade and
// binary-search behavior of the original C intset.
package intset

import (
	"math"
	"math/rand"
)

// Encoding is the byte width used for every element in the packed array.
type Encoding uint8

const (
	Enc16 Encoding = 2
	Enc32 Encoding = 4
	Enc64 Encoding = 8
)

// Set is a sorted, duplicate-free set of int64 values packed at the
// smallest encoding that fits every stored element.
type Set struct {
	encoding Encoding
	content  []byte
}

// New returns an empty set at the narrowest encoding.
func New() *Set {
	return &Set{encoding: Enc16}
}

// Len returns the number of stored elements.
func (s *Set) Len() int {
	return len(s.content) / int(s.encoding)
}

// ByteSize returns the size in bytes of the packed element buffer
// (header accounting for encoding/length is the caller's struct, not
// part of this count — see spec.md §3 for the on-wire layout this
// mirrors).
func (s *Set) ByteSize() int {
	return len(s.content)
}

// Encoding reports the current element width.
func (s *Set) Encoding() Encoding {
	return s.encoding
}

// widthFor returns the narrowest encoding that can represent v.
func widthFor(v int64) Encoding {
	switch {
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return Enc16
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return Enc32
	default:
		return Enc64
	}
}

func (s *Set) at(pos int) int64 {
	off := pos * int(s.encoding)
	switch s.encoding {
	case Enc16:
		return int64(int16(getUint16(s.content[off : off+2])))
	case Enc32:
		return int64(int32(getUint32(s.content[off : off+4])))
	default:
		return int64(getUint64(s.content[off : off+8]))
	}
}

func (s *Set) set(pos int, v int64) {
	off := pos * int(s.encoding)
	switch s.encoding {
	case Enc16:
		putUint16(s.content[off:off+2], uint16(int16(v)))
	case Enc32:
		putUint32(s.content[off:off+4], uint32(int32(v)))
	default:
		putUint64(s.content[off:off+8], uint64(v))
	}
}

// search performs closed-form binary search, returning the position of
// v if found, and the insertion position (with found=false) otherwise.
// Three fast paths are checked before the main bisection, per spec.md §4.1.
func (s *Set) search(v int64) (pos int, found bool) {
	n := s.Len()
	if n == 0 {
		return 0, false
	}
	if v > s.at(n-1) {
		return n, false
	}
	if v < s.at(0) {
		return 0, false
	}

	min, max := 0, n-1
	for min <= max {
		mid := (uint(min) + uint(max)) >> 1
		cur := s.at(int(mid))
		switch {
		case cur == v:
			return int(mid), true
		case cur < v:
			min = int(mid) + 1
		default:
			max = int(mid) - 1
		}
	}
	return min, false
}

// upgradeAndAdd grows the element width to enc and inserts v at either
// end of the existing run. v forces the upgrade, so by the invariant in
// spec.md §4.1 and §9 it lies strictly outside the current value range:
// strictly less than every existing element when negative, strictly
// greater otherwise.
func (s *Set) upgradeAndAdd(enc Encoding, v int64) {
	oldLen := s.Len()
	oldEnc := s.encoding
	old := s.content

	s.encoding = enc
	s.content = make([]byte, (oldLen+1)*int(enc))

	prepend := v < 0
	var base int
	if prepend {
		base = 1
	}

	for i := 0; i < oldLen; i++ {
		off := i * int(oldEnc)
		var val int64
		switch oldEnc {
		case Enc16:
			val = int64(int16(getUint16(old[off : off+2])))
		case Enc32:
			val = int64(int32(getUint32(old[off : off+4])))
		default:
			val = int64(getUint64(old[off : off+8]))
		}
		s.set(base+i, val)
	}

	if prepend {
		s.set(0, v)
	} else {
		s.set(oldLen, v)
	}
}

// Add inserts v if not already present. It reports whether an
// insertion actually happened.
func (s *Set) Add(v int64) (*Set, bool) {
	need := widthFor(v)
	if need > s.encoding {
		s.upgradeAndAdd(need, v)
		return s, true
	}

	pos, found := s.search(v)
	if found {
		return s, false
	}

	n := s.Len()
	width := int(s.encoding)
	grown := make([]byte, len(s.content)+width)
	copy(grown, s.content[:pos*width])
	copy(grown[(pos+1)*width:], s.content[pos*width:n*width])
	s.content = grown
	s.set(pos, v)
	return s, true
}

// Remove deletes v if present. It reports whether a removal happened.
// The element width is never downgraded on removal (spec.md §4.1).
func (s *Set) Remove(v int64) (*Set, bool) {
	if widthFor(v) > s.encoding {
		return s, false
	}
	pos, found := s.search(v)
	if !found {
		return s, false
	}
	width := int(s.encoding)
	n := s.Len()
	shrunk := make([]byte, len(s.content)-width)
	copy(shrunk, s.content[:pos*width])
	copy(shrunk[pos*width:], s.content[(pos+1)*width:n*width])
	s.content = shrunk
	return s, true
}

// Contains reports whether v is a member of the set.
func (s *Set) Contains(v int64) bool {
	if widthFor(v) > s.encoding {
		return false
	}
	_, found := s.search(v)
	return found
}

// Get returns the element at pos in ascending order, if in range.
func (s *Set) Get(pos int) (int64, bool) {
	if pos < 0 || pos >= s.Len() {
		return 0, false
	}
	return s.at(pos), true
}

// Random returns a uniformly chosen element. It panics on an empty set,
// matching the C original's precondition that callers check Len() first.
func (s *Set) Random() int64 {
	n := s.Len()
	if n == 0 {
		panic("intset: Random called on empty set")
	}
	return s.at(rand.Intn(n))
}
