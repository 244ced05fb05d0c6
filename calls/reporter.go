package calls

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/constraints"
)

// Epsilon is the smallest time, in seconds, the Reporter divides by.
// Fast machines can finish a mode in less than the Timer's resolution.
const Epsilon = 0.0001

// Reporter writes measurement lines. Each line is flushed as soon as it is written.
type Reporter struct {
	w          *bufio.Writer
	iterations int
}

// NewReporter creates a Reporter writing to w. iterations is the number of
// calls behind each measurement and is used to compute throughput.
func NewReporter(w io.Writer, iterations int) *Reporter {
	return &Reporter{w: bufio.NewWriter(w), iterations: iterations}
}

// Report writes one measurement line for the mode called name.
func (r *Reporter) Report(name string, elapsed, reference float64) error {
	return r.line(Format(name, elapsed, reference, r.iterations))
}

// Separator writes the header that precedes round of rounds.
func (r *Reporter) Separator(round, rounds int) error {
	return r.line(fmt.Sprintf("--- round %d/%d ---", round, rounds))
}

// Summary writes the spread of a mode's measurements across rounds. Like
// Report, values below Epsilon are written as Epsilon.
func (r *Reporter) Summary(name string, s Stats) error {
	return r.line(fmt.Sprintf(
		"%s :: min %.4fs median %.4fs max %.4fs",
		name,
		atLeast(s.Min, Epsilon),
		atLeast(s.Median, Epsilon),
		atLeast(s.Max, Epsilon),
	))
}

// Result writes the final line: the counter value and the total seconds measured.
func (r *Reporter) Result(counter int, total float64) error {
	return r.line(fmt.Sprintf("Result: %d => %.4f", counter, total))
}

func (r *Reporter) line(s string) error {
	if _, err := r.w.WriteString(s); err != nil {
		return err
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return err
	}
	return r.w.Flush()
}

// Format renders a measurement as
//
//	NAME :: 0.0000s (0.00mil. calls/sec) (0.0%)
//
// Both elapsed and reference are raised to Epsilon first, so the output is
// always finite.
func Format(name string, elapsed, reference float64, iterations int) string {
	elapsed = atLeast(elapsed, Epsilon)
	reference = atLeast(reference, Epsilon)

	parts := []string{
		name,
		"::",
		fmt.Sprintf("%.4fs", elapsed),
		fmt.Sprintf("(%.2fmil. calls/sec)", (float64(iterations)/elapsed)/1_000_000),
		fmt.Sprintf("(%.1f%%)", (elapsed/reference)*100),
	}
	return strings.Join(parts, " ")
}

// atLeast returns floor if v is below it. NaN is treated as below.
func atLeast[T constraints.Integer | constraints.Float](v, floor T) T {
	if v != v || v < floor {
		return floor
	}
	return v
}
