package chunkrange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitExact(t *testing.T) {
	chunks := Split(Range{Start: 0, End: 9}, 5)
	require.Len(t, chunks, 2)
	assert.Equal(t, uint64(0), chunks[0].First())
	assert.Equal(t, uint64(4), chunks[0].Last())
	assert.Equal(t, uint64(5), chunks[1].First())
	assert.Equal(t, uint64(9), chunks[1].Last())
}

func TestSplitRemainder(t *testing.T) {
	chunks := Split(Range{Start: 100, End: 112}, 5)
	require.Len(t, chunks, 3)
	assert.Equal(t, "100_104", chunks[0].RangePath())
	assert.Equal(t, "105_109", chunks[1].RangePath())
	assert.Equal(t, "110_112", chunks[2].RangePath())
	assert.Len(t, chunks[2].Numbers, 3)
}

func TestSplitSingleBlock(t *testing.T) {
	chunks := Split(Range{Start: 7, End: 7}, 1000)
	require.Len(t, chunks, 1)
	assert.Equal(t, []uint64{7}, chunks[0].Numbers)
	assert.Equal(t, "7_7", chunks[0].RangePath())
}

func TestSplitContiguousAndComplete(t *testing.T) {
	r := Range{Start: 10, End: 55}
	chunks := Split(r, 7)

	next := r.Start
	for _, c := range chunks {
		require.NotEmpty(t, c.Numbers)
		assert.LessOrEqual(t, len(c.Numbers), 7)
		for _, n := range c.Numbers {
			require.Equal(t, next, n)
			next++
		}
	}
	assert.Equal(t, r.End+1, next)
}

func TestSplitZeroSizeDegradesToOne(t *testing.T) {
	chunks := Split(Range{Start: 0, End: 2}, 0)
	require.Len(t, chunks, 3)
}
