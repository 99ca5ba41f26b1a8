package dict

import "math/bits"

// Scan implements the stateless, mutation-tolerant reverse-bit-increment
// cursor iteration designed by Pieter Noordhuis (spec.md §4.3). Call it
// repeatedly starting from cursor 0 until the returned cursor is 0 again;
// every key present at both the start and the end of the scan is
// reported at least once, though entries may repeat across a resize in
// progress.
func (d *Dict) Scan(cursor uint64, fn func(key, value any)) uint64 {
	if d.Used() == 0 {
		return 0
	}

	emit := func(he *entry) {
		for he != nil {
			fn(he.key, he.value)
			he = he.next
		}
	}

	if !d.IsRehashing() {
		t0 := d.tables[0]
		m0 := uint64(t0.mask)

		emit(t0.buckets[cursor&m0])

		cursor |= ^m0
		cursor = bits.Reverse64(cursor)
		cursor++
		cursor = bits.Reverse64(cursor)
		return cursor
	}

	tSmall, tBig := d.tables[0], d.tables[1]
	if tSmall.size > tBig.size {
		tSmall, tBig = tBig, tSmall
	}
	m0 := uint64(tSmall.mask)
	m1 := uint64(tBig.mask)

	emit(tSmall.buckets[cursor&m0])

	for {
		emit(tBig.buckets[cursor&m1])
		cursor = ((cursor | m0) + 1) &^ m0 | (cursor & m0)
		if cursor&(m0^m1) == 0 {
			break
		}
	}

	cursor |= ^m0
	cursor = bits.Reverse64(cursor)
	cursor++
	cursor = bits.Reverse64(cursor)
	return cursor
}
