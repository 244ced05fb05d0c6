package calls

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/johnsiilver/pools/goroutines/pooled"
)

// spinBatch is how many numbers a warm-up worker generates between deadline checks.
const spinBatch = 1024

// Warmup generates pseudo-random numbers on workers goroutines until budget
// has passed or ctx is done, and returns how many were generated. The numbers
// themselves are discarded. An error is returned if ctx was cancelled before
// the budget ran out.
func Warmup(ctx context.Context, budget time.Duration, workers int) (uint64, error) {
	if workers < 1 {
		return 0, fmt.Errorf("Warmup(): workers must be >= 1, got %d", workers)
	}
	if budget <= 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	pool, err := pooled.New(workers)
	if err != nil {
		return 0, fmt.Errorf("Warmup(): could not create worker pool: %w", err)
	}
	defer pool.Close()

	spinCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	var (
		generated atomic.Uint64
		wg        sync.WaitGroup
	)
	seed := time.Now().UnixNano()
	for i := 0; i < workers; i++ {
		rng := rand.New(rand.NewSource(seed + int64(i)))

		wg.Add(1)
		err := pool.Submit(
			context.Background(),
			func(context.Context) {
				defer wg.Done()
				generated.Add(spin(spinCtx, rng))
			},
		)
		if err != nil {
			wg.Done()
			cancel()
			wg.Wait()
			return generated.Load(), fmt.Errorf("Warmup(): could not start worker %d: %w", i, err)
		}
	}
	wg.Wait()

	return generated.Load(), ctx.Err()
}

func spin(ctx context.Context, rng *rand.Rand) uint64 {
	var n uint64
	for {
		for i := 0; i < spinBatch; i++ {
			rng.Int63()
		}
		n += spinBatch

		select {
		case <-ctx.Done():
			return n
		default:
		}
	}
}
