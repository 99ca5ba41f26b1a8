// Package sds implements a binary-safe, length-prefixed mutable string
// with amortized growth, modeled after the original C SDS type. Every
// mutating operation returns a new String value; the old value must be
// discarded, mirroring the "handle may be reallocated" contract of the
// original (spec.md §9).
package sds

import (
	"bytes"

	"kv-engine/internal/obslog"
	"kv-engine/internal/tunables"
)

// headerSize models the {len, free} header the original type stores
// immediately before the payload. Go's slice header already carries
// length and capacity, but this constant is kept so AllocSize()
// reproduces the spec's "header + len + free + 1" accounting exactly
// (spec.md §8 property 3), rather than silently dropping the header
// term because Go doesn't need one for memory safety.
const headerSize = 16

// String is a binary-safe string: data[0:length] is content, data[length]
// is always a trailing NUL not counted in length, and len(data) is
// length+free+1.
type String struct {
	data   []byte
	length int
}

func alloc(capacity int) []byte {
	return make([]byte, capacity)
}

// New copies b into a freshly sized String with no spare capacity.
func New(b []byte) String {
	s := String{data: alloc(len(b) + 1), length: len(b)}
	copy(s.data, b)
	return s
}

// Empty returns a zero-length String.
func Empty() String {
	return New(nil)
}

// FromCStr builds a String from a Go string; embedded NULs in s are
// preserved as ordinary bytes.
func FromCStr(s string) String {
	return New([]byte(s))
}

// Dup returns an independent copy of s.
func Dup(s String) String {
	return New(s.Bytes())
}

// Free is a documentation no-op: Go's GC reclaims the backing array once
// the last String value referencing it goes out of scope. Kept as a
// method so callers migrating from the pointer-handle discipline in
// spec.md §9 have an explicit place to call.
func (s String) Free() {}

// Len returns the content length, excluding the trailing NUL.
func (s String) Len() int { return s.length }

// Avail returns the spare capacity available before the next
// reallocation would be required.
func (s String) Avail() int { return len(s.data) - s.length - 1 }

// AllocSize returns header size plus len plus free plus the trailing NUL.
func (s String) AllocSize() int { return headerSize + len(s.data) }

// Bytes returns the content, excluding the trailing NUL. The returned
// slice aliases the String's storage and must not be retained across a
// subsequent mutating call.
func (s String) Bytes() []byte { return s.data[:s.length] }

// AsCString returns the content followed by its trailing NUL byte.
func (s String) AsCString() []byte { return s.data[:s.length+1] }

func (s String) String() string { return string(s.Bytes()) }

// growthTarget implements the amortized growth policy from spec.md §4.2:
// need = len+n; below the prealloc threshold the buffer doubles, above
// it only PREALLOC_THRESHOLD extra bytes are reserved.
func growthTarget(length, n int) int {
	need := length + n
	if need < tunables.Default().SDSPreallocThreshold {
		return need * 2
	}
	return need + tunables.Default().SDSPreallocThreshold
}

// MakeRoomFor ensures at least n bytes of free space are available,
// reallocating with the amortized growth policy if not. A no-op if
// free space already suffices.
func (s String) MakeRoomFor(n int) String {
	if s.Avail() >= n {
		return s
	}
	target := growthTarget(s.length, n)
	next := alloc(target + 1)
	copy(next, s.data[:s.length])
	s.data = next
	return s
}

// ShrinkToFit reallocates so that Avail() == 0.
func (s String) ShrinkToFit() String {
	if s.Avail() == 0 {
		return s
	}
	next := alloc(s.length + 1)
	copy(next, s.data[:s.length])
	s.data = next
	return s
}

// IncrLen adjusts length by delta after the caller has written directly
// into the free space returned by MakeRoomFor (or truncated it), and
// restores the trailing NUL at the new end. It panics — after logging
// the violated invariant — if delta would run past the free budget in
// either direction, matching the fatal-assertion contract of spec.md §7.
func (s String) IncrLen(delta int) String {
	if delta >= 0 {
		if delta > s.Avail() {
			obslog.L().Errorw("sds: IncrLen past free budget",
				"delta", delta, "avail", s.Avail())
			panic("sds: IncrLen past free budget")
		}
	} else {
		if -delta > s.length {
			obslog.L().Errorw("sds: IncrLen negative past length",
				"delta", delta, "length", s.length)
			panic("sds: IncrLen negative past length")
		}
	}
	s.length += delta
	s.data[s.length] = 0
	return s
}

// GrowZero extends the content to at least totalLen bytes, zero-filling
// the newly appended region, and is a no-op if already long enough.
func (s String) GrowZero(totalLen int) String {
	if totalLen <= s.length {
		return s
	}
	s = s.MakeRoomFor(totalLen - s.length)
	for i := s.length; i < totalLen; i++ {
		s.data[i] = 0
	}
	s.length = totalLen
	s.data[s.length] = 0
	return s
}

// AppendBytes appends b to the content in place (reallocating if
// necessary).
func (s String) AppendBytes(b []byte) String {
	s = s.MakeRoomFor(len(b))
	copy(s.data[s.length:], b)
	s.length += len(b)
	s.data[s.length] = 0
	return s
}

// AppendSds appends other's content.
func (s String) AppendSds(other String) String {
	return s.AppendBytes(other.Bytes())
}

// AppendCStr appends a Go string's bytes.
func (s String) AppendCStr(str string) String {
	return s.AppendBytes([]byte(str))
}

// CopyBytes destructively replaces the content with b, growing the
// buffer if necessary.
func (s String) CopyBytes(b []byte) String {
	if s.Avail()+s.length < len(b) {
		s = s.MakeRoomFor(len(b) - s.length)
	}
	copy(s.data, b)
	s.length = len(b)
	s.data[s.length] = 0
	return s
}

// Trim removes, from both ends, any contiguous run of bytes that appear
// in cset.
func (s String) Trim(cset string) String {
	set := make(map[byte]struct{}, len(cset))
	for i := 0; i < len(cset); i++ {
		set[cset[i]] = struct{}{}
	}

	start, end := 0, s.length-1
	for start <= end {
		if _, ok := set[s.data[start]]; !ok {
			break
		}
		start++
	}
	for end >= start {
		if _, ok := set[s.data[end]]; !ok {
			break
		}
		end--
	}

	newLen := end - start + 1
	if newLen < 0 {
		newLen = 0
	}
	if start > 0 && newLen > 0 {
		copy(s.data, s.data[start:start+newLen])
	}
	s.length = newLen
	s.data[s.length] = 0
	return s
}

// Range slices the content in place to the inclusive interval
// [start,end]; negative indices count from the end (-1 = last).
// Ill-ordered or wholly out-of-range intervals yield the empty string.
func (s String) Range(start, end int) String {
	n := s.length
	if n == 0 {
		return s
	}
	if start < 0 {
		start = n + start
		if start < 0 {
			start = 0
		}
	}
	if end < 0 {
		end = n + end
		if end < 0 {
			end = 0
		}
	}
	newLen := 0
	if start <= end && start < n {
		if end >= n {
			end = n - 1
		}
		newLen = end - start + 1
	} else {
		start = 0
	}
	if newLen > 0 && start > 0 {
		copy(s.data, s.data[start:start+newLen])
	}
	s.length = newLen
	s.data[s.length] = 0
	return s
}

// ToLower/ToUpper mutate ASCII letters in place.
func (s String) ToLower() String {
	for i := 0; i < s.length; i++ {
		if c := s.data[i]; c >= 'A' && c <= 'Z' {
			s.data[i] = c + ('a' - 'A')
		}
	}
	return s
}

func (s String) ToUpper() String {
	for i := 0; i < s.length; i++ {
		if c := s.data[i]; c >= 'a' && c <= 'z' {
			s.data[i] = c - ('a' - 'A')
		}
	}
	return s
}

// Compare performs a lexicographic, binary-safe comparison; on a tied
// shared prefix, the longer string is greater.
func Compare(a, b String) int {
	return bytes.Compare(a.Bytes(), b.Bytes())
}

// MapChars replaces, at each position, the first byte in from that
// matches with the corresponding byte in to. Length-preserving,
// allocation-free.
func (s String) MapChars(from, to []byte) String {
	n := len(from)
	if len(to) < n {
		n = len(to)
	}
outer:
	for i := 0; i < s.length; i++ {
		c := s.data[i]
		for j := 0; j < n; j++ {
			if from[j] == c {
				s.data[i] = to[j]
				continue outer
			}
		}
	}
	return s
}
