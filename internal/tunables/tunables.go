// Package tunables holds the small set of constants that govern the
// amortized-growth and incremental-rehash policies of sds and dict.
// It mirrors the teacher repo's config.Default()/Normalize() shape, but
// scoped to in-process tunables rather than a loaded file: these three
// components take no environment variables and read no config file
// (spec.md §6 Non-goal), so there is nothing here to persist or load —
// only sane defaults and a clamp for callers who construct their own.
package tunables

// Config holds tunable constants for sds and dict.
type Config struct {
	// SDSPreallocThreshold is the byte threshold below which
	// MakeRoomFor doubles the requested size, and above which it
	// only adds this many spare bytes (spec.md §4.2).
	SDSPreallocThreshold int

	// DictInitialSize is the number of buckets a freshly allocated
	// dict table starts with.
	DictInitialSize int

	// DictForceResizeRatio is the used/size ratio above which a
	// dict will expand even when incremental resizing is otherwise
	// disabled (spec.md §4.3 FORCE_RATIO).
	DictForceResizeRatio int

	// DictRehashEmptyVisitLimit bounds, as a multiple of the
	// requested bucket count, how many empty buckets RehashStep may
	// probe before giving up for this call (spec.md §4.3).
	DictRehashEmptyVisitLimit int

	// DictRehashMsBatchBuckets is the bucket-step size used by
	// RehashMilliseconds between time checks.
	DictRehashMsBatchBuckets int

	// DictSampleEmptyVisitLimit is the minimum consecutive-empty-bucket
	// count after which GetSomeKeys jumps to a new random start; the
	// threshold used is the larger of this and the requested key count.
	DictSampleEmptyVisitLimit int
}

const (
	defaultSDSPreallocThreshold     = 1024 * 1024 // 1 MiB
	defaultDictInitialSize          = 4
	defaultDictForceResizeRatio     = 5
	defaultDictRehashEmptyVisitMult = 10
	defaultDictRehashMsBatchBuckets = 100
	defaultDictSampleEmptyVisit     = 5
)

// Default returns the spec-mandated tunables.
func Default() Config {
	return Config{
		SDSPreallocThreshold:      defaultSDSPreallocThreshold,
		DictInitialSize:           defaultDictInitialSize,
		DictForceResizeRatio:      defaultDictForceResizeRatio,
		DictRehashEmptyVisitLimit: defaultDictRehashEmptyVisitMult,
		DictRehashMsBatchBuckets:  defaultDictRehashMsBatchBuckets,
		DictSampleEmptyVisitLimit: defaultDictSampleEmptyVisit,
	}
}

// Normalize clamps an overridden Config back to sane minimums, the same
// way the teacher's config.Normalize() falls back to defaults for
// out-of-range fields instead of propagating nonsense.
func (c *Config) Normalize() {
	d := Default()

	if c.SDSPreallocThreshold <= 0 {
		c.SDSPreallocThreshold = d.SDSPreallocThreshold
	}
	if c.DictInitialSize <= 0 || (c.DictInitialSize&(c.DictInitialSize-1)) != 0 {
		c.DictInitialSize = d.DictInitialSize
	}
	if c.DictForceResizeRatio <= 0 {
		c.DictForceResizeRatio = d.DictForceResizeRatio
	}
	if c.DictRehashEmptyVisitLimit <= 0 {
		c.DictRehashEmptyVisitLimit = d.DictRehashEmptyVisitLimit
	}
	if c.DictRehashMsBatchBuckets <= 0 {
		c.DictRehashMsBatchBuckets = d.DictRehashMsBatchBuckets
	}
	if c.DictSampleEmptyVisitLimit <= 0 {
		c.DictSampleEmptyVisitLimit = d.DictSampleEmptyVisitLimit
	}
}
