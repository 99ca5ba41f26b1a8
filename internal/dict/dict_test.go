package dict

import (
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFindDeleteBasics(t *testing.T) {
	d := New(DefaultType(), nil)

	assert.True(t, d.Add("a", 1))
	assert.False(t, d.Add("a", 2))

	v, ok := d.Find("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	assert.True(t, d.Delete("a"))
	assert.False(t, d.Delete("a"))
	_, ok = d.Find("a")
	assert.False(t, ok)
}

func TestReplaceInsertsOrOverwrites(t *testing.T) {
	d := New(DefaultType(), nil)

	inserted := d.Replace("k", 1)
	assert.True(t, inserted)

	inserted = d.Replace("k", 2)
	assert.False(t, inserted)

	v, ok := d.Find("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

// TestUsedMatchesDistinctKeys inserts 1024 random keys and checks that
// Used() tracks the distinct count exactly, with no key visible twice
// across the two tables (spec.md §4.3 scenario S7).
func TestUsedMatchesDistinctKeys(t *testing.T) {
	d := New(StringXXHashType(), nil)

	keys := make(map[string]bool)
	for len(keys) < 1024 {
		keys[uuid.NewString()] = true
	}

	for k := range keys {
		require.True(t, d.Add(k, nil))
	}
	assert.Equal(t, len(keys), d.Used())

	seen := make(map[string]int)
	it := d.NewSafeIterator()
	for {
		k, _, ok := it.Next()
		if !ok {
			break
		}
		seen[k.(string)]++
	}
	it.Release()

	assert.Len(t, seen, len(keys))
	for k, n := range seen {
		assert.Equalf(t, 1, n, "key %q seen %d times", k, n)
	}
}

// TestIncrementalRehashCompletes forces growth past the initial table
// size and checks that lookups keep succeeding throughout the rehash,
// which eventually completes (rehashidx returns to -1) (scenario S8).
func TestIncrementalRehashCompletes(t *testing.T) {
	d := New(DefaultType(), nil)

	const n = 200
	for i := 0; i < n; i++ {
		require.True(t, d.Add(strconv.Itoa(i), i))
	}

	for i := 0; i < n; i++ {
		v, ok := d.Find(strconv.Itoa(i))
		require.True(t, ok)
		assert.Equal(t, i, v)
	}

	for d.IsRehashing() {
		d.RehashStep(1)
	}
	assert.Equal(t, -1, d.rehashidx)
	assert.Equal(t, n, d.Used())

	for i := 0; i < n; i++ {
		v, ok := d.Find(strconv.Itoa(i))
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

// TestScanCoversAllKeys drives Scan from cursor 0 back to cursor 0 and
// checks every key present throughout is reported at least once
// (scenario S9).
func TestScanCoversAllKeys(t *testing.T) {
	d := New(DefaultType(), nil)

	const n = 300
	want := make(map[string]bool)
	for i := 0; i < n; i++ {
		k := strconv.Itoa(i)
		want[k] = true
		require.True(t, d.Add(k, i))
	}

	seen := make(map[string]bool)
	var cursor uint64
	iterations := 0
	for {
		cursor = d.Scan(cursor, func(key, value any) {
			seen[key.(string)] = true
		})
		iterations++
		if cursor == 0 {
			break
		}
		require.Less(t, iterations, 100000, "scan did not terminate")
	}

	for k := range want {
		assert.Truef(t, seen[k], "key %q missed by scan", k)
	}
}

// TestUnsafeIteratorDetectsMutation checks that releasing an unsafe
// iterator after a concurrent mutation panics (scenario S10).
func TestUnsafeIteratorDetectsMutation(t *testing.T) {
	d := New(DefaultType(), nil)
	require.True(t, d.Add("a", 1))
	require.True(t, d.Add("b", 2))

	it := d.NewIterator()
	_, _, ok := it.Next()
	require.True(t, ok)

	require.True(t, d.Add("c", 3))

	assert.Panics(t, func() {
		it.Release()
	})
}

func TestSafeIteratorToleratesMutation(t *testing.T) {
	d := New(DefaultType(), nil)
	require.True(t, d.Add("a", 1))
	require.True(t, d.Add("b", 2))

	it := d.NewSafeIterator()
	_, _, ok := it.Next()
	require.True(t, ok)

	assert.True(t, d.Add("c", 3))

	assert.NotPanics(t, func() {
		it.Release()
	})
}

func TestGetRandomKeyOnEmptyReturnsFalse(t *testing.T) {
	d := New(DefaultType(), nil)
	_, _, ok := d.GetRandomKey()
	assert.False(t, ok)
}

func TestGetRandomKeyReturnsExisting(t *testing.T) {
	d := New(DefaultType(), nil)
	want := map[string]int{"a": 1, "b": 2, "c": 3}
	for k, v := range want {
		require.True(t, d.Add(k, v))
	}

	for i := 0; i < 50; i++ {
		k, v, ok := d.GetRandomKey()
		require.True(t, ok)
		assert.Equal(t, want[k.(string)], v)
	}
}

func TestGetSomeKeysNeverExceedsRequestedOrUsed(t *testing.T) {
	d := New(DefaultType(), nil)
	for i := 0; i < 10; i++ {
		require.True(t, d.Add(strconv.Itoa(i), i))
	}

	got := d.GetSomeKeys(5)
	assert.LessOrEqual(t, len(got), 5)

	got = d.GetSomeKeys(1000)
	assert.LessOrEqual(t, len(got), 10)

	seen := make(map[string]bool)
	for _, p := range got {
		seen[p.Key.(string)] = true
	}
	assert.Len(t, seen, len(got))
}

func TestGetSomeKeysDuringRehash(t *testing.T) {
	d := New(DefaultType(), nil)
	const n = 140
	for i := 0; i < n; i++ {
		require.True(t, d.Add(strconv.Itoa(i), i))
	}

	got := d.GetSomeKeys(20)
	require.True(t, d.IsRehashing())
	assert.LessOrEqual(t, len(got), 20)
	for _, p := range got {
		v, ok := d.Find(p.Key)
		require.True(t, ok)
		assert.Equal(t, v, p.Value)
	}
}

func TestExpandRejectsShrinkBelowUsed(t *testing.T) {
	d := New(DefaultType(), nil)
	require.True(t, d.Add("a", 1))
	require.True(t, d.Add("b", 2))

	require.NoError(t, d.Expand(4))
	err := d.Expand(1)
	assert.Error(t, err)
}

func TestCaseInsensitiveType(t *testing.T) {
	d := New(CaseInsensitiveType(), nil)
	require.True(t, d.Add("Hello", 1))
	assert.False(t, d.Add("HELLO", 2))

	v, ok := d.Find("hello")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}
