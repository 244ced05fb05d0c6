package calls

import (
	"github.com/google/btree"
	"golang.org/x/exp/constraints"
)

// Stats is the spread of one mode's measurements across rounds.
type Stats struct {
	Min, Median, Max float64
	// Rounds is the number of measurements.
	Rounds int
}

type sample struct {
	elapsed float64
	round   int
}

func lessSample(a, b sample) bool {
	if a.elapsed != b.elapsed {
		return a.elapsed < b.elapsed
	}
	return a.round < b.round
}

// Summary collects measurements per mode across rounds. Samples are kept
// sorted, so the median needs no extra pass.
type Summary struct {
	names   []string
	samples map[string]*btree.BTreeG[sample]
}

// NewSummary creates a Summary for the modes called names. Stats are written
// in the order of names.
func NewSummary(names ...string) *Summary {
	s := &Summary{
		names:   names,
		samples: make(map[string]*btree.BTreeG[sample], len(names)),
	}
	for _, n := range names {
		s.samples[n] = btree.NewG(2, lessSample)
	}
	return s
}

// Add records a measurement. Names not given to NewSummary are ignored.
func (s *Summary) Add(name string, round int, elapsed float64) {
	t, ok := s.samples[name]
	if !ok {
		return
	}
	t.ReplaceOrInsert(sample{elapsed: elapsed, round: round})
}

// Stats returns the spread for name. ok is false if nothing was recorded.
func (s *Summary) Stats(name string) (st Stats, ok bool) {
	t, found := s.samples[name]
	if !found || t.Len() == 0 {
		return Stats{}, false
	}

	first, _ := t.Min()
	last, _ := t.Max()
	st = Stats{Min: first.elapsed, Max: last.elapsed, Rounds: t.Len()}

	// For an even count the median is the mean of the two middle samples.
	lo, hi := (t.Len()-1)/2, t.Len()/2
	var loV, hiV float64
	i := 0
	t.Ascend(func(item sample) bool {
		if i == lo {
			loV = item.elapsed
		}
		if i == hi {
			hiV = item.elapsed
			return false
		}
		i++
		return true
	})
	st.Median = mean(loV, hiV)
	return st, true
}

// Write writes one summary line per mode to r.
func (s *Summary) Write(r *Reporter) error {
	for _, n := range s.names {
		st, ok := s.Stats(n)
		if !ok {
			continue
		}
		if err := r.Summary(n, st); err != nil {
			return err
		}
	}
	return nil
}

func mean[T constraints.Float](a, b T) T {
	return (a + b) / 2
}
