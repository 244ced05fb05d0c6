/*
Package calls measures the relative wall-clock cost of invoking a method
through different call mechanisms.

Every mechanism performs the same work, incrementing Benchmark.Result, a fixed
number of times. The time taken by the first mode in a round, a direct call,
is the reference the other modes in that round are compared against.

	b := &calls.Benchmark{}
	r, err := calls.New(b, os.Stdout, calls.WithWarmup(5*time.Second))
	if err != nil {
		// The method the reflective modes look up does not exist.
		panic(err)
	}
	total, err := r.Run(ctx, 1)
	if err != nil {
		panic(err)
	}
	r.WriteResult(total)

Output is one line per mode:

	DIRECT :: 0.0190s (526.32mil. calls/sec) (100.0%)
	INTERFACE :: 0.0210s (476.19mil. calls/sec) (110.5%)
	...

Measurement is single threaded. The only goroutines started are the warm-up
workers, and those finish before the first measurement.
*/
package calls

// DefaultIterations is the number of calls each mode makes per round.
const DefaultIterations = 10_000_000

// DefaultMethod is the method the reflective modes resolve by name.
const DefaultMethod = "MethodNormal"

// Benchmark holds the counter that every mode increments. Result is read once
// a run completes, which keeps the measured loops from being optimized away.
type Benchmark struct {
	Result int
}

// Incrementer is the interface the INTERFACE mode calls through.
type Incrementer interface {
	MethodVirtual()
}

var _ Incrementer = (*Benchmark)(nil)

// MethodNormal increments Result. It is the target of the direct, method value
// and reflective modes.
//
//go:noinline
func (b *Benchmark) MethodNormal() {
	b.Result++
}

// MethodVirtual increments Result. It is only called through Incrementer.
//
//go:noinline
func (b *Benchmark) MethodVirtual() {
	b.Result++
}

// Count returns Result.
func (b *Benchmark) Count() int {
	return b.Result
}
