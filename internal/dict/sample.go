package dict

import "math/rand"

// Pair is a sampled key/value returned by GetSomeKeys.
type Pair struct {
	Key   any
	Value any
}

// GetRandomKey picks a uniformly random non-empty bucket — across both
// tables, weighted by the unmigrated remainder of T0, while rehashing —
// then a uniformly random node within that bucket's chain (spec.md
// §4.3).
func (d *Dict) GetRandomKey() (key, value any, ok bool) {
	if d.Used() == 0 {
		return nil, nil, false
	}
	if d.IsRehashing() {
		d.rehashStepIfAllowed()
	}

	var he *entry
	if d.IsRehashing() {
		t0, t1 := d.tables[0], d.tables[1]
		for he == nil {
			span := t0.size + t1.size - d.rehashidx
			h := d.rehashidx + rand.Intn(span)
			if h >= t0.size {
				he = t1.buckets[h-t0.size]
			} else {
				he = t0.buckets[h]
			}
		}
	} else {
		t0 := d.tables[0]
		for he == nil {
			h := rand.Intn(t0.size)
			he = t0.buckets[h]
		}
	}

	listLen := 0
	for p := he; p != nil; p = p.next {
		listLen++
	}
	pick := rand.Intn(listLen)
	for pick > 0 {
		he = he.next
		pick--
	}
	return he.key, he.value, true
}

// GetSomeKeys scatter-samples up to count entries using a random
// starting bucket and a linear walk across both tables while rehashing,
// jumping to a new random start after enough consecutive empty buckets,
// bounded by 10*count total steps (spec.md §4.3).
func (d *Dict) GetSomeKeys(count int) []Pair {
	used := d.Used()
	if count > used {
		count = used
	}
	if count == 0 {
		return nil
	}

	for j := 0; j < count && d.IsRehashing(); j++ {
		d.rehashStepIfAllowed()
	}

	tables := 1
	if d.IsRehashing() {
		tables = 2
	}

	maxSizeMask := d.tables[0].mask
	if tables > 1 && d.tables[1].mask > maxSizeMask {
		maxSizeMask = d.tables[1].mask
	}

	i := rand.Intn(maxSizeMask + 1)
	emptyLen := 0
	maxSteps := count * 10

	emptyJumpThreshold := count
	if d.cfg.DictSampleEmptyVisitLimit > emptyJumpThreshold {
		emptyJumpThreshold = d.cfg.DictSampleEmptyVisitLimit
	}

	var out []Pair
	for len(out) < count && maxSteps > 0 {
		maxSteps--
		for j := 0; j < tables; j++ {
			t := d.tables[j]
			if tables == 2 && j == 0 && i < d.rehashidx {
				if i >= d.tables[1].size {
					i = d.rehashidx
				} else {
					continue
				}
			}
			if i >= t.size {
				continue
			}
			he := t.buckets[i]
			if he == nil {
				emptyLen++
				if emptyLen > emptyJumpThreshold {
					i = rand.Intn(maxSizeMask + 1)
					emptyLen = 0
				}
				continue
			}
			emptyLen = 0
			for he != nil {
				out = append(out, Pair{Key: he.key, Value: he.value})
				he = he.next
				if len(out) == count {
					return out
				}
			}
		}
		i = (i + 1) & maxSizeMask
	}
	return out
}
