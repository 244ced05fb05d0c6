// Command callbench measures how much it costs to call a method through
// each of Go's call mechanisms: a direct call, an interface, a closure, a
// method value and three forms of reflection.
//
// Usage:
//
//	callbench [-n 10000000] [-r 1] [--warmup 5s]
//
// Each mode prints one line:
//
//	DIRECT :: 0.0190s (526.32mil. calls/sec) (100.0%)
//
// followed by the counter value and total time measured:
//
//	Result: 70000000 => 1.2340
package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/johnsiilver/callbench/calls"
)

type flags struct {
	iterations    int
	rounds        int
	warmup        time.Duration
	warmupWorkers int
	gc            bool
	resolution    time.Duration
	method        string
	summary       bool
	cpuProfile    string
	logLevel      string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:           "callbench",
		Short:         "Measure the relative cost of Go call mechanisms",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.iterations, "iterations", "n", calls.DefaultIterations, "calls made by each mode per round")
	fl.IntVarP(&f.rounds, "rounds", "r", 1, "number of times every mode is measured")
	fl.DurationVar(&f.warmup, "warmup", 0, "wall-clock time to burn before measuring, 5s is a good value (0 disables)")
	fl.IntVar(&f.warmupWorkers, "warmup-workers", 1, "goroutines used during warm-up")
	fl.BoolVar(&f.gc, "gc", true, "run a garbage collection before each mode")
	fl.DurationVar(&f.resolution, "resolution", calls.DefaultResolution, "measurements are truncated to this (0 for full precision)")
	fl.StringVar(&f.method, "method", calls.DefaultMethod, "method the reflective modes look up by name")
	fl.BoolVar(&f.summary, "summary", true, "print min/median/max per mode when rounds > 1")
	fl.StringVar(&f.cpuProfile, "cpuprofile", "", "write a CPU profile into this directory")
	fl.StringVar(&f.logLevel, "log-level", zerolog.LevelInfoValue, "log level for diagnostics written to stderr")

	return cmd
}

func run(cmd *cobra.Command, f *flags) error {
	lvl, err := zerolog.ParseLevel(f.logLevel)
	if err != nil {
		return err
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	if f.cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(f.cpuProfile), profile.Quiet).Stop()
		logger.Info().Str("dir", f.cpuProfile).Msg("cpu profiling enabled")
	}

	b := &calls.Benchmark{}
	r, err := calls.New(
		b,
		cmd.OutOrStdout(),
		calls.WithIterations(f.iterations),
		calls.WithMethod(f.method),
		calls.WithWarmup(f.warmup),
		calls.WithWarmupWorkers(f.warmupWorkers),
		calls.WithCollectGarbage(f.gc),
		calls.WithResolution(f.resolution),
		calls.WithSummary(f.summary),
		calls.WithLogger(logger),
	)
	if err != nil {
		logger.Error().Err(err).Str("method", f.method).Msg("cannot build dispatch modes")
		return err
	}

	total, err := r.Run(cmd.Context(), f.rounds)
	if err != nil {
		logger.Error().Err(err).Msg("benchmark aborted")
		return err
	}
	return r.WriteResult(total)
}
