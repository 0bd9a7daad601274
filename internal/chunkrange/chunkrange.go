// Package chunkrange holds the Range and Chunk value types and the splitting
// rule: a contiguous block range is cut into fixed-size, non-empty, ordered
// Chunks.
package chunkrange

import "fmt"

// Range is an inclusive block range. Start must be ≤ End.
type Range struct {
	Start uint64
	End   uint64
}

// Chunk is an ordered, contiguous, non-empty list of block numbers.
type Chunk struct {
	Numbers []uint64
}

// First returns the lowest block number in the chunk.
func (c Chunk) First() uint64 { return c.Numbers[0] }

// Last returns the highest block number in the chunk.
func (c Chunk) Last() uint64 { return c.Numbers[len(c.Numbers)-1] }

// RangePath renders "{first}_{last}", used to name every dataset file for this
// chunk.
func (c Chunk) RangePath() string {
	return fmt.Sprintf("%d_%d", c.First(), c.Last())
}

// Split cuts r into ordered, contiguous Chunks of at most size blocks each.
// A size of 0 is treated as 1.
func Split(r Range, size uint64) []Chunk {
	if size == 0 {
		size = 1
	}
	var chunks []Chunk
	for start := r.Start; start <= r.End; start += size {
		end := start + size - 1
		if end > r.End {
			end = r.End
		}
		nums := make([]uint64, 0, end-start+1)
		for n := start; n <= end; n++ {
			nums = append(nums, n)
		}
		chunks = append(chunks, Chunk{Numbers: nums})
		if end == r.End {
			break
		}
	}
	return chunks
}
