package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethetl/ethetl/internal/chunkrange"
)

type recordingRunner struct {
	mu       sync.Mutex
	ran      []string
	inFlight int32
	maxSeen  int32
	fail     map[string]error
}

func (r *recordingRunner) Run(ctx context.Context, chunk chunkrange.Chunk) error {
	cur := atomic.AddInt32(&r.inFlight, 1)
	defer atomic.AddInt32(&r.inFlight, -1)
	for {
		max := atomic.LoadInt32(&r.maxSeen)
		if cur <= max || atomic.CompareAndSwapInt32(&r.maxSeen, max, cur) {
			break
		}
	}

	r.mu.Lock()
	r.ran = append(r.ran, chunk.RangePath())
	r.mu.Unlock()

	if err, ok := r.fail[chunk.RangePath()]; ok {
		return err
	}
	return nil
}

func TestRunExecutesEveryChunk(t *testing.T) {
	runner := &recordingRunner{}
	chunks := chunkrange.Split(chunkrange.Range{Start: 0, End: 99}, 10)

	err := Run(context.Background(), runner, chunks, 4)
	require.NoError(t, err)
	assert.Len(t, runner.ran, 10)
	assert.LessOrEqual(t, runner.maxSeen, int32(4))
}

func TestRunReturnsErrorButFinishesQueue(t *testing.T) {
	boom := errors.New("boom")
	runner := &recordingRunner{fail: map[string]error{"10_19": boom}}
	chunks := chunkrange.Split(chunkrange.Range{Start: 0, End: 49}, 10)

	err := Run(context.Background(), runner, chunks, 2)
	require.ErrorIs(t, err, boom)
	// the failing chunk does not stop the rest of the queue
	assert.Len(t, runner.ran, 5)
}

func TestRunEmptyChunkListIsNoop(t *testing.T) {
	runner := &recordingRunner{}
	require.NoError(t, Run(context.Background(), runner, nil, 3))
	assert.Empty(t, runner.ran)
}
