// Package dict implements an open-hash-chaining dictionary with two
// underlying tables and incremental (amortized O(1)) rehashing between
// them, pluggable key/value disciplines, safe and unsafe iteration,
// cursor-based scan, and random sampling — a direct port of the original
// dict.c state machine (spec.md §3, §4.3).
package dict

import (
	"errors"

	"kv-engine/internal/obslog"
	"kv-engine/internal/tunables"
)

type entry struct {
	key   any
	value any
	next  *entry
}

type table struct {
	buckets []*entry
	size    int
	mask    int
	used    int
}

func newTable(size int) *table {
	return &table{buckets: make([]*entry, size), size: size, mask: size - 1}
}

// Dict is a two-table, incrementally-rehashing hash dictionary.
type Dict struct {
	tables        [2]*table
	rehashidx     int
	iterators     int
	resizeEnabled bool

	typ     *Type
	private any
	cfg     tunables.Config
}

// New creates an empty dict with the given type descriptor and opaque
// private data forwarded to every descriptor callback.
func New(typ *Type, private any) *Dict {
	return &Dict{
		typ:           typ,
		private:       private,
		rehashidx:     -1,
		resizeEnabled: true,
		cfg:           tunables.Default(),
	}
}

// NewWithConfig is New with overridden tunables (normalized before use).
func NewWithConfig(typ *Type, private any, cfg tunables.Config) *Dict {
	cfg.Normalize()
	d := New(typ, private)
	d.cfg = cfg
	return d
}

// IsRehashing reports whether an incremental rehash is in progress.
func (d *Dict) IsRehashing() bool { return d.rehashidx != -1 }

// Used returns the total live entry count across both tables.
func (d *Dict) Used() int {
	n := 0
	if d.tables[0] != nil {
		n += d.tables[0].used
	}
	if d.tables[1] != nil {
		n += d.tables[1].used
	}
	return n
}

// EnableResize/DisableResize mirror dictEnableResize/dictDisableResize:
// a global-ish escape hatch callers can use to suppress incremental
// growth (e.g. while forking for a point-in-time snapshot elsewhere in a
// real server), while FORCE_RATIO still forces growth under load.
func (d *Dict) EnableResize()  { d.resizeEnabled = true }
func (d *Dict) DisableResize() { d.resizeEnabled = false }

func (d *Dict) hashKey(key any) uint64 {
	return d.typ.HashKey(d.private, key)
}

func (d *Dict) keysEqual(a, b any) bool {
	if d.typ.KeyCompare != nil {
		return d.typ.KeyCompare(d.private, a, b)
	}
	return a == b
}

func nextPowerOfTwo(size int) int {
	if size < 1 {
		size = 1
	}
	n := 1
	for n < size {
		n <<= 1
	}
	return n
}

// Expand allocates a new table sized to the next power of two ≥ size.
// If T0 is empty this is the dict's first allocation; otherwise it
// installs T1 and starts an incremental rehash (spec.md §4.3).
func (d *Dict) Expand(size int) error {
	if d.IsRehashing() {
		return errors.New("dict: cannot expand while rehashing")
	}
	if d.tables[0] != nil && size < d.tables[0].used {
		return errors.New("dict: new size smaller than used count")
	}

	realSize := nextPowerOfTwo(size)
	if realSize < d.cfg.DictInitialSize {
		realSize = d.cfg.DictInitialSize
	}

	n := newTable(realSize)
	if d.tables[0] == nil {
		d.tables[0] = n
		return nil
	}

	d.tables[1] = n
	d.rehashidx = 0
	return nil
}

// Resize shrinks the table to the smallest power of two ≥ max(used,
// DictInitialSize), driven externally per spec.md §4.3.
func (d *Dict) Resize() error {
	if !d.resizeEnabled || d.IsRehashing() {
		return errors.New("dict: cannot resize now")
	}
	minimal := d.Used()
	if minimal < d.cfg.DictInitialSize {
		minimal = d.cfg.DictInitialSize
	}
	return d.Expand(minimal)
}

func (d *Dict) expandIfNeeded() error {
	if d.IsRehashing() {
		return nil
	}
	if d.tables[0] == nil {
		return d.Expand(d.cfg.DictInitialSize)
	}
	t0 := d.tables[0]
	if t0.used >= t0.size && (d.resizeEnabled || t0.used/t0.size > d.cfg.DictForceResizeRatio) {
		return d.Expand(t0.used * 2)
	}
	return nil
}

// RehashStep migrates up to n non-empty buckets from T0 to T1, bounding
// its probing to at most 10*n empty buckets (spec.md §4.3). It returns
// true if there is still more to rehash.
func (d *Dict) RehashStep(n int) bool {
	if !d.IsRehashing() {
		return false
	}

	emptyVisits := n * d.cfg.DictRehashEmptyVisitLimit
	t0, t1 := d.tables[0], d.tables[1]

	for n > 0 && t0.used != 0 {
		n--
		for t0.buckets[d.rehashidx] == nil {
			d.rehashidx++
			emptyVisits--
			if emptyVisits == 0 {
				return true
			}
		}

		he := t0.buckets[d.rehashidx]
		for he != nil {
			next := he.next
			h := d.hashKey(he.key) & uint64(t1.mask)
			he.next = t1.buckets[h]
			t1.buckets[h] = he
			t0.used--
			t1.used++
			he = next
		}
		t0.buckets[d.rehashidx] = nil
		d.rehashidx++
	}

	if t0.used == 0 {
		d.tables[0] = t1
		d.tables[1] = nil
		d.rehashidx = -1
		return false
	}
	return true
}

// RehashMilliseconds runs 100-bucket rehash steps until ms has elapsed
// or the rehash completes, for a periodic maintenance tick (spec.md §4.3).
func (d *Dict) RehashMilliseconds(ms int, now func() int64) int {
	start := now()
	rehashes := 0
	for d.RehashStep(d.cfg.DictRehashMsBatchBuckets) {
		rehashes += d.cfg.DictRehashMsBatchBuckets
		if now()-start > int64(ms) {
			break
		}
	}
	return rehashes
}

func (d *Dict) rehashStepIfAllowed() {
	if d.iterators == 0 {
		d.RehashStep(1)
	}
}

// keyIndex resolves the bucket for key, returning (table, index) to
// insert into, or ok=false if the key already exists.
func (d *Dict) keyIndex(key any) (tbl int, idx int, ok bool) {
	if err := d.expandIfNeeded(); err != nil {
		if d.tables[0] == nil {
			panic("dict: failed to allocate initial table: " + err.Error())
		}
	}

	h := d.hashKey(key)
	for ti := 0; ti <= 1; ti++ {
		t := d.tables[ti]
		if t == nil {
			continue
		}
		i := h & uint64(t.mask)
		for he := t.buckets[i]; he != nil; he = he.next {
			if d.keysEqual(he.key, key) {
				return 0, 0, false
			}
		}
		if ti == 0 && !d.IsRehashing() {
			break
		}
	}

	target := 0
	if d.IsRehashing() {
		target = 1
	}
	i := h & uint64(d.tables[target].mask)
	return target, int(i), true
}

func (d *Dict) dupKey(key any) any {
	if d.typ.KeyDup != nil {
		return d.typ.KeyDup(d.private, key)
	}
	return key
}

func (d *Dict) dupVal(val any) any {
	if d.typ.ValDup != nil {
		return d.typ.ValDup(d.private, val)
	}
	return val
}

// Add inserts key/value, reporting false without modifying the dict if
// key is already present.
func (d *Dict) Add(key, value any) bool {
	if d.IsRehashing() {
		d.rehashStepIfAllowed()
	}

	ti, idx, ok := d.keyIndex(key)
	if !ok {
		return false
	}

	t := d.tables[ti]
	he := &entry{key: d.dupKey(key), value: d.dupVal(value), next: t.buckets[idx]}
	t.buckets[idx] = he
	t.used++
	return true
}

// Replace sets key's value, inserting it if absent. It reports true if
// the key was newly inserted, false if an existing value was replaced.
// On replace, the new value is duplicated and set *before* the old
// value is destroyed, so reference-counted values where new == old
// survive (spec.md §4.3).
func (d *Dict) Replace(key, value any) bool {
	if d.Add(key, value) {
		return true
	}
	he := d.findEntry(key)
	old := he.value
	he.value = d.dupVal(value)
	if d.typ.ValDestructor != nil {
		d.typ.ValDestructor(d.private, old)
	}
	return false
}

func (d *Dict) findEntry(key any) *entry {
	if d.tables[0] == nil {
		return nil
	}
	if d.IsRehashing() {
		d.rehashStepIfAllowed()
	}
	h := d.hashKey(key)
	for ti := 0; ti <= 1; ti++ {
		t := d.tables[ti]
		if t == nil {
			continue
		}
		i := h & uint64(t.mask)
		for he := t.buckets[i]; he != nil; he = he.next {
			if d.keysEqual(he.key, key) {
				return he
			}
		}
		if !d.IsRehashing() {
			break
		}
	}
	return nil
}

// Find returns the entry's value for key, and whether it was present.
func (d *Dict) Find(key any) (any, bool) {
	he := d.findEntry(key)
	if he == nil {
		return nil, false
	}
	return he.value, true
}

// Delete removes key, invoking the type's destructors on its key/value.
func (d *Dict) Delete(key any) bool {
	return d.genericDelete(key, false)
}

// DeleteNoFree removes key without invoking destructors, letting the
// caller take over ownership of the removed key/value.
func (d *Dict) DeleteNoFree(key any) bool {
	return d.genericDelete(key, true)
}

func (d *Dict) genericDelete(key any, noFree bool) bool {
	if d.tables[0] == nil || d.tables[0].size == 0 {
		return false
	}
	if d.IsRehashing() {
		d.rehashStepIfAllowed()
	}

	h := d.hashKey(key)
	for ti := 0; ti <= 1; ti++ {
		t := d.tables[ti]
		if t == nil {
			continue
		}
		idx := h & uint64(t.mask)
		var prev *entry
		he := t.buckets[idx]
		for he != nil {
			if d.keysEqual(he.key, key) {
				if prev != nil {
					prev.next = he.next
				} else {
					t.buckets[idx] = he.next
				}
				if !noFree {
					if d.typ.KeyDestructor != nil {
						d.typ.KeyDestructor(d.private, he.key)
					}
					if d.typ.ValDestructor != nil {
						d.typ.ValDestructor(d.private, he.value)
					}
				}
				t.used--
				return true
			}
			prev = he
			he = he.next
		}
		if !d.IsRehashing() {
			break
		}
	}
	return false
}

// logFatalInvariant is used by callers that detect a broken invariant
// (e.g. unsafe-iterator fingerprint mismatch) before panicking.
func logFatalInvariant(msg string, kv ...any) {
	obslog.L().Errorw(msg, kv...)
}
