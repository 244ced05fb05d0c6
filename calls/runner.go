package calls

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Runner measures every mode against a single Benchmark.
type Runner struct {
	bench  *Benchmark
	modes  []Mode
	timer  Timer
	report *Reporter
	log    zerolog.Logger

	iterations     int
	method         string
	warmup         time.Duration
	warmupWorkers  int
	collectGarbage bool
	summary        bool
}

// Option provides optional arguments to New().
type Option func(r *Runner)

// WithIterations sets how many calls each mode makes per round.
// Defaults to DefaultIterations.
func WithIterations(n int) Option {
	return func(r *Runner) {
		r.iterations = n
	}
}

// WithMethod sets the method the reflective modes look up by name.
// Defaults to DefaultMethod.
func WithMethod(name string) Option {
	return func(r *Runner) {
		r.method = name
	}
}

// WithWarmup burns d of wall-clock time before the first round. 0, the
// default, skips warm-up.
func WithWarmup(d time.Duration) Option {
	return func(r *Runner) {
		r.warmup = d
	}
}

// WithWarmupWorkers sets the number of goroutines used during warm-up.
// Defaults to 1.
func WithWarmupWorkers(n int) Option {
	return func(r *Runner) {
		r.warmupWorkers = n
	}
}

// WithCollectGarbage says whether to run a garbage collection before each
// mode is measured. Defaults to true.
func WithCollectGarbage(b bool) Option {
	return func(r *Runner) {
		r.collectGarbage = b
	}
}

// WithResolution sets the Timer's resolution. Defaults to DefaultResolution.
// 0 keeps full precision.
func WithResolution(d time.Duration) Option {
	return func(r *Runner) {
		r.timer.Resolution = d
	}
}

// WithClock replaces the Timer's clock.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.timer.Now = now
	}
}

// WithSummary says whether to write min/median/max per mode when more than
// one round is run. Defaults to true.
func WithSummary(b bool) Option {
	return func(r *Runner) {
		r.summary = b
	}
}

// WithLogger sets the logger for diagnostics. Measurements are never logged,
// they go to the writer passed to New(). Defaults to zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// New creates a Runner that measures every mode against b and writes results
// to w. Method lookups for the reflective modes happen here; if the method
// can't be resolved the returned error wraps a method.Error.
func New(b *Benchmark, w io.Writer, options ...Option) (*Runner, error) {
	if b == nil || w == nil {
		return nil, fmt.Errorf("b and w cannot be nil")
	}

	r := &Runner{
		bench:          b,
		timer:          Timer{Resolution: DefaultResolution},
		log:            zerolog.Nop(),
		iterations:     DefaultIterations,
		method:         DefaultMethod,
		warmupWorkers:  1,
		collectGarbage: true,
		summary:        true,
	}
	for _, o := range options {
		o(r)
	}

	if r.iterations < 1 {
		return nil, fmt.Errorf("iterations must be >= 1, got %d", r.iterations)
	}
	if r.warmupWorkers < 1 {
		return nil, fmt.Errorf("warmup workers must be >= 1, got %d", r.warmupWorkers)
	}

	modes, err := Modes(b, r.method)
	if err != nil {
		return nil, err
	}
	r.modes = modes
	r.report = NewReporter(w, r.iterations)

	r.log.Debug().
		Int("iterations", r.iterations).
		Str("method", r.method).
		Int("modes", len(r.modes)).
		Msg("dispatch modes built")
	return r, nil
}

// Run measures every mode, in order, rounds times and returns the sum of all
// measurements in seconds. Within a round the first mode's time is the reference
// the rest are compared against. ctx only bounds warm-up; once measuring starts
// the run completes.
func (r *Runner) Run(ctx context.Context, rounds int) (float64, error) {
	if rounds < 1 {
		return 0, fmt.Errorf("rounds must be >= 1, got %d", rounds)
	}

	if r.warmup > 0 {
		r.log.Info().Dur("budget", r.warmup).Int("workers", r.warmupWorkers).Msg("warming up")
		n, err := Warmup(ctx, r.warmup, r.warmupWorkers)
		if err != nil {
			return 0, fmt.Errorf("warm-up: %w", err)
		}
		r.log.Debug().Uint64("generated", n).Msg("warm-up done")
	}

	var sum *Summary
	if r.summary && rounds > 1 {
		sum = NewSummary(ModeNames...)
	}

	total := 0.0
	for round := 1; round <= rounds; round++ {
		if rounds > 1 {
			if err := r.report.Separator(round, rounds); err != nil {
				return total, err
			}
		}

		var reference float64
		for i, m := range r.modes {
			elapsed := r.measure(m)
			if i == 0 {
				reference = elapsed
			}
			if err := r.report.Report(m.Name, elapsed, reference); err != nil {
				return total, err
			}
			if sum != nil {
				sum.Add(m.Name, round, elapsed)
			}
			total += elapsed
		}
	}

	if sum != nil {
		if err := sum.Write(r.report); err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteResult writes the final line with the Benchmark's counter and total.
func (r *Runner) WriteResult(total float64) error {
	return r.report.Result(r.bench.Count(), total)
}

func (r *Runner) measure(m Mode) float64 {
	if r.collectGarbage {
		runtime.GC()
	}
	return r.timer.Measure(func() { m.Loop(r.iterations) })
}
