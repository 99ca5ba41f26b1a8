package dict

import "reflect"

// Iterator walks every entry of the dict. A safe iterator increments
// the dict's iterators counter on its first Next() call and decrements
// it on Release(), suspending incremental rehash for its lifetime while
// tolerating caller mutation (including deleting the just-yielded
// entry, since nextEntry is always precomputed before yielding). An
// unsafe iterator instead records a fingerprint at the first Next()
// call and asserts it is unchanged at Release(); it forbids any
// dict-mutating call in between (spec.md §4.3).
type Iterator struct {
	d     *Dict
	safe  bool
	table int
	index int

	ent     *entry
	nextEnt *entry

	fingerprint uint64
	releaseIncr bool
}

func (d *Dict) newIterator(safe bool) *Iterator {
	return &Iterator{d: d, table: 0, index: -1, safe: safe}
}

// NewIterator returns an unsafe iterator, fingerprint-checked at release.
func (d *Dict) NewIterator() *Iterator { return d.newIterator(false) }

// NewSafeIterator returns a safe iterator that suspends incremental
// rehash for its lifetime and tolerates caller mutation.
func (d *Dict) NewSafeIterator() *Iterator { return d.newIterator(true) }

func (d *Dict) fingerprint() uint64 {
	var t0ptr, t0size, t0used uint64
	var t1ptr, t1size, t1used uint64

	if t0 := d.tables[0]; t0 != nil {
		t0ptr = uint64(reflect.ValueOf(t0.buckets).Pointer())
		t0size = uint64(t0.size)
		t0used = uint64(t0.used)
	}
	if t1 := d.tables[1]; t1 != nil {
		t1ptr = uint64(reflect.ValueOf(t1.buckets).Pointer())
		t1size = uint64(t1.size)
		t1used = uint64(t1.used)
	}
	return combineFingerprint([6]uint64{t0ptr, t0size, t0used, t1ptr, t1size, t1used})
}

// Next advances the iterator, returning ok=false once every table has
// been exhausted.
func (it *Iterator) Next() (key, value any, ok bool) {
	for {
		if it.ent == nil {
			ht := it.d.tables[it.table]
			if it.index == -1 && it.table == 0 {
				if it.safe {
					it.d.iterators++
					it.releaseIncr = true
				} else {
					it.fingerprint = it.d.fingerprint()
				}
			}
			it.index++
			if ht == nil || it.index >= ht.size {
				if it.d.IsRehashing() && it.table == 0 {
					it.table++
					it.index = 0
					ht = it.d.tables[1]
				} else {
					return nil, nil, false
				}
			}
			if ht == nil {
				return nil, nil, false
			}
			it.ent = ht.buckets[it.index]
		} else {
			it.ent = it.nextEnt
		}

		if it.ent != nil {
			it.nextEnt = it.ent.next
			return it.ent.key, it.ent.value, true
		}
	}
}

// Release ends the iteration. For a safe iterator this re-enables
// incremental rehash once every outstanding safe iterator has released.
// For an unsafe iterator this asserts the dict was not mutated since the
// first Next() call, panicking (after logging) if it was.
func (it *Iterator) Release() {
	if it.safe {
		if it.releaseIncr {
			it.d.iterators--
		}
		return
	}
	if it.index == -1 {
		return // Next() was never called; nothing to check.
	}
	if it.fingerprint != it.d.fingerprint() {
		logFatalInvariant("dict: unsafe iterator fingerprint mismatch: dict mutated during iteration")
		panic("dict: unsafe iterator fingerprint mismatch")
	}
}
