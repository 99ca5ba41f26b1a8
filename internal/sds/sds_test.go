package sds

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNulTailAndAllocSize(t *testing.T) {
	s := New([]byte("foo"))
	assert.Equal(t, byte(0), s.AsCString()[s.Len()])
	assert.Equal(t, headerSize+s.Len()+s.Avail()+1, s.AllocSize())
}

func TestAppendRoundTrip(t *testing.T) {
	s := New([]byte("foo"))
	s = s.AppendCStr("bar")
	assert.Equal(t, "foobar", s.String())
	assert.Equal(t, 6, s.Len())
}

func TestAppendThenRangeSuffix(t *testing.T) {
	s := New([]byte("foo"))
	s = s.AppendCStr("bar")
	s = s.Range(-3, -1)
	assert.Equal(t, "bar", s.String())
	assert.Equal(t, 3, s.Len())
}

func TestCatFmt(t *testing.T) {
	s := Empty()
	s, err := s.CatFmt("--Hello %s World %I,%I--", "Hi!", int64(math.MinInt64), int64(math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, "--Hello Hi! World -9223372036854775808,9223372036854775807--", s.String())
}

func TestCatFmtTypeMismatch(t *testing.T) {
	s := Empty()
	_, err := s.CatFmt("%i", "not an int")
	assert.Error(t, err)
}

func TestTrim(t *testing.T) {
	s := New([]byte("xxciaoyyy"))
	s = s.Trim("xy")
	assert.Equal(t, "ciao", s.String())
}

func TestRangeOutOfBounds(t *testing.T) {
	s := New([]byte("hello"))
	s2 := s.Range(10, 20)
	assert.Equal(t, "", s2.String())

	s3 := New([]byte("hello")).Range(3, 1)
	assert.Equal(t, "", s3.String())
}

func TestToLowerToUpper(t *testing.T) {
	s := New([]byte("MiXeD"))
	assert.Equal(t, "mixed", s.ToLower().String())

	s2 := New([]byte("MiXeD"))
	assert.Equal(t, "MIXED", s2.ToUpper().String())
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 0, Compare(New([]byte("abc")), New([]byte("abc"))))
	assert.True(t, Compare(New([]byte("ab")), New([]byte("abc"))) < 0)
	assert.True(t, Compare(New([]byte("abd")), New([]byte("abc"))) > 0)
}

func TestSplit(t *testing.T) {
	toks := Split([]byte("a,b,,c"), []byte(","))
	require.Len(t, toks, 4)
	assert.Equal(t, "a", toks[0].String())
	assert.Equal(t, "b", toks[1].String())
	assert.Equal(t, "", toks[2].String())
	assert.Equal(t, "c", toks[3].String())

	assert.Nil(t, Split([]byte("a"), nil))
	assert.Len(t, Split(nil, []byte(",")), 0)
}

func TestSplitArgs(t *testing.T) {
	toks, err := SplitArgs(`key "hello world" 'with \'quote' plain\ntext`)
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, "key", toks[0].String())
	assert.Equal(t, "hello world", toks[1].String())
	assert.Equal(t, "with 'quote", toks[2].String())
	// Outside a quoted span, backslash has no special meaning: it is
	// only an escape introducer inside " " / ' ' spans.
	assert.Equal(t, `plain\ntext`, toks[3].String())
}

func TestSplitArgsQuoteMidToken(t *testing.T) {
	toks, err := SplitArgs(`foo"bar baz"`)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "foobar baz", toks[0].String())
}

func TestSplitArgsUnknownEscapePassesThrough(t *testing.T) {
	toks, err := SplitArgs(`"a\qb"`)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "aqb", toks[0].String())
}

func TestSplitArgsUnterminatedQuote(t *testing.T) {
	_, err := SplitArgs(`"unterminated`)
	assert.Error(t, err)
}

func TestSplitArgsCloseQuoteNeedsWhitespace(t *testing.T) {
	_, err := SplitArgs(`"foo"bar`)
	assert.Error(t, err)
}

func TestMapChars(t *testing.T) {
	s := New([]byte("hello"))
	s = s.MapChars([]byte("el"), []byte("ip"))
	assert.Equal(t, "hippo", s.String())
}

func TestCatRepr(t *testing.T) {
	s := Empty()
	s = s.CatRepr([]byte("a\nb\x01"))
	assert.Equal(t, `"a\nb\x01"`, s.String())
}

func TestJoin(t *testing.T) {
	s := Join([]string{"a", "b", "c"}, "-")
	assert.Equal(t, "a-b-c", s.String())
}

func TestIncrLenAssertion(t *testing.T) {
	s := New([]byte("ab"))
	s = s.MakeRoomFor(4)
	assert.Panics(t, func() { s.IncrLen(100) })
}

func TestMakeRoomForGrowthPolicy(t *testing.T) {
	s := Empty()
	s = s.MakeRoomFor(10)
	assert.GreaterOrEqual(t, s.Avail(), 10)
}
