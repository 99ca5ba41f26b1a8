package intset

import "github.com/RoaringBitmap/roaring/v2"

// ToRoaring converts the set into a roaring.Bitmap for callers that want
// to run set algebra (union/intersection/rank) against a library built
// for that, rather than re-deriving it over the packed array. Roaring
// bitmaps index uint32, so elements outside [0, math.MaxUint32] cannot
// be represented; skipped reports how many elements were dropped.
func (s *Set) ToRoaring() (bm *roaring.Bitmap, skipped int) {
	bm = roaring.New()
	n := s.Len()
	for i := 0; i < n; i++ {
		v := s.at(i)
		if v < 0 || v > 0xFFFFFFFF {
			skipped++
			continue
		}
		bm.Add(uint32(v))
	}
	return bm, skipped
}

// FromRoaring builds a new Set from every value in bm, re-deriving the
// narrowest encoding via ordinary Add calls.
func FromRoaring(bm *roaring.Bitmap) *Set {
	s := New()
	it := bm.Iterator()
	for it.HasNext() {
		s.Add(int64(it.Next()))
	}
	return s
}
