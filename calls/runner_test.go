package calls

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnsiilver/callbench/method"
)

func newTestRunner(t *testing.T, b *Benchmark, buf *bytes.Buffer, options ...Option) *Runner {
	t.Helper()

	options = append([]Option{WithIterations(1000), WithCollectGarbage(false)}, options...)
	r, err := New(b, buf, options...)
	require.NoError(t, err)
	return r
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestRunOneRound(t *testing.T) {
	b := &Benchmark{}
	buf := &bytes.Buffer{}
	r := newTestRunner(t, b, buf, WithClock(stepClock(10*time.Millisecond)))

	total, err := r.Run(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, r.WriteResult(total))

	assert.Equal(t, 7000, b.Result)
	assert.InDelta(t, 0.07, total, 1e-9)

	var want []string
	for _, name := range ModeNames {
		want = append(want, name+" :: 0.0100s (0.10mil. calls/sec) (100.0%)")
	}
	want = append(want, "Result: 7000 => 0.0700")
	assert.Equal(t, want, lines(buf))
}

func TestRunRounds(t *testing.T) {
	for _, rounds := range []int{1, 2, 10} {
		b := &Benchmark{}
		buf := &bytes.Buffer{}
		r := newTestRunner(t, b, buf, WithResolution(0))

		_, err := r.Run(context.Background(), rounds)
		require.NoError(t, err)
		assert.Equal(t, rounds*len(ModeNames)*1000, b.Result, "rounds=%d", rounds)

		// Separators and the summary only show up for more than one round.
		want := rounds * len(ModeNames)
		if rounds > 1 {
			want += rounds + len(ModeNames)
		}
		assert.Len(t, lines(buf), want, "rounds=%d", rounds)
	}
}

func TestRunReferencePerRound(t *testing.T) {
	// Every reading of the clock advances it a little further than the last,
	// so each measurement is larger than the one before.
	step := time.Millisecond
	now := time.Unix(0, 0)
	clock := func() time.Time {
		now = now.Add(step)
		step += time.Millisecond
		return now
	}

	b := &Benchmark{}
	buf := &bytes.Buffer{}
	r := newTestRunner(t, b, buf, WithClock(clock), WithSummary(false))

	_, err := r.Run(context.Background(), 2)
	require.NoError(t, err)

	got := lines(buf)
	require.Len(t, got, 2*(len(ModeNames)+1))
	assert.Equal(t, "--- round 1/2 ---", got[0])
	assert.Equal(t, "--- round 2/2 ---", got[len(ModeNames)+1])
	// The first mode of each round is its own reference.
	assert.True(t, strings.HasSuffix(got[1], "(100.0%)"), got[1])
	assert.True(t, strings.HasSuffix(got[len(ModeNames)+2], "(100.0%)"), got[len(ModeNames)+2])
	assert.False(t, strings.HasSuffix(got[2], "(100.0%)"), got[2])
}

func TestRunSummary(t *testing.T) {
	b := &Benchmark{}
	buf := &bytes.Buffer{}
	r := newTestRunner(t, b, buf, WithClock(stepClock(10*time.Millisecond)))

	_, err := r.Run(context.Background(), 3)
	require.NoError(t, err)

	got := lines(buf)
	summary := got[len(got)-len(ModeNames):]
	for i, name := range ModeNames {
		assert.Equal(t, fmt.Sprintf("%s :: min 0.0100s median 0.0100s max 0.0100s", name), summary[i])
	}
}

func TestRunBadRounds(t *testing.T) {
	b := &Benchmark{}
	r := newTestRunner(t, b, &bytes.Buffer{})

	for _, rounds := range []int{0, -1} {
		_, err := r.Run(context.Background(), rounds)
		assert.Error(t, err, "rounds=%d", rounds)
	}
	assert.Zero(t, b.Result)
}

func TestRunWarmup(t *testing.T) {
	b := &Benchmark{}
	buf := &bytes.Buffer{}
	r := newTestRunner(t, b, buf, WithWarmup(20*time.Millisecond), WithWarmupWorkers(2))

	start := time.Now()
	_, err := r.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, 7000, b.Result)
}

func TestRunWarmupCancelled(t *testing.T) {
	b := &Benchmark{}
	r := newTestRunner(t, b, &bytes.Buffer{}, WithWarmup(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, b.Result)
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		desc    string
		b       *Benchmark
		options []Option
		lookup  method.ErrType
	}{
		{desc: "nil Benchmark", b: nil},
		{desc: "zero iterations", b: &Benchmark{}, options: []Option{WithIterations(0)}},
		{desc: "zero warm-up workers", b: &Benchmark{}, options: []Option{WithWarmupWorkers(0)}},
		{desc: "unknown method", b: &Benchmark{}, options: []Option{WithMethod("Nope")}, lookup: method.ETNotFound},
		{desc: "method with results", b: &Benchmark{}, options: []Option{WithMethod("Count")}, lookup: method.ETSignature},
	}

	for _, test := range tests {
		r, err := New(test.b, &bytes.Buffer{}, test.options...)
		require.Error(t, err, test.desc)
		assert.Nil(t, r, test.desc)

		var e method.Error
		isLookup := test.lookup != method.ETUnknown
		assert.Equal(t, isLookup, errors.As(err, &e), test.desc)
		if isLookup {
			assert.Equal(t, test.lookup, e.Type, test.desc)
		}
	}
}
