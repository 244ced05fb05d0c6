package calls

import "time"

// DefaultResolution is the granularity measurements are truncated to.
const DefaultResolution = time.Millisecond

// Timer measures how long a func takes to run.
type Timer struct {
	// Now returns the current time. If nil, time.Now is used, whose readings
	// carry the monotonic clock.
	Now func() time.Time
	// Resolution truncates each measurement. Zero keeps full precision.
	Resolution time.Duration
}

// Measure runs op and returns the seconds it took. The result is never negative.
// A panic inside op is not recovered.
func (t Timer) Measure(op func()) float64 {
	now := t.Now
	if now == nil {
		now = time.Now
	}

	start := now()
	op()
	d := now().Sub(start)

	if d < 0 {
		d = 0
	}
	if t.Resolution > 0 {
		d = d.Truncate(t.Resolution)
	}
	return d.Seconds()
}
