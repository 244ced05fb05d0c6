package calls

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmup(t *testing.T) {
	for _, workers := range []int{1, 4} {
		start := time.Now()
		n, err := Warmup(context.Background(), 20*time.Millisecond, workers)
		require.NoError(t, err, "workers=%d", workers)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond, "workers=%d", workers)
		assert.GreaterOrEqual(t, n, uint64(workers*spinBatch), "workers=%d", workers)
	}
}

func TestWarmupNoBudget(t *testing.T) {
	n, err := Warmup(context.Background(), 0, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWarmupBadWorkers(t *testing.T) {
	_, err := Warmup(context.Background(), time.Millisecond, 0)
	assert.Error(t, err)
}

func TestWarmupCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	start := time.Now()
	_, err := Warmup(ctx, time.Minute, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 30*time.Second)
}
