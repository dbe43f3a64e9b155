// Package streak finds maximal contiguous activity windows whose average
// off-time-adjusted gap stays within a desired frequency. Three variants
// share one windowed-average predicate: the longest historical streak, the
// currently active streak, and the perfect (whole-history) streak.
package streak

import (
	"github.com/cadenceapp/cadence/pkg/civil"
	"github.com/cadenceapp/cadence/pkg/interval"
	"github.com/cadenceapp/cadence/pkg/offtime"
)

// minSpanMultiple is the minimum-significance floor for current and perfect
// streaks: the window must span at least this many times the desired
// frequency, which suppresses short blips right after a user starts.
const minSpanMultiple = 3.0

// Result describes one streak window. Span is the net (off-time-adjusted)
// day difference between the first and last activity of the window;
// AverageGap is the rounded mean net gap between consecutive activities.
type Result struct {
	Span       int
	AverageGap float64
	Start      civil.Day
	End        civil.Day
}

// Sequence holds one activity type's qualifying activity days together with
// cumulative net-day and excluded-day prefix sums, so any window's span and
// average come out in O(1). The prefix-sum formulation is exact: per-period
// overlap counts are additive across adjacent ranges because qualifying days
// are never themselves covered by an applicable period.
type Sequence struct {
	days []civil.Day
	// rawPrefix[i] is the raw day difference from days[0] to days[i];
	// exclPrefix[i] is the excluded-day count of the inclusive range
	// between them.
	rawPrefix  []int
	exclPrefix []int
}

// NewSequence filters out activity days that fall inside an applicable
// off-time period and precomputes window prefix sums for the rest. The input
// must be in ascending day order.
func NewSequence(days []civil.Day, activityTypeID string, idx *offtime.Index) (*Sequence, error) {
	qualifying := make([]civil.Day, 0, len(days))
	for _, d := range days {
		if idx.Covers(activityTypeID, d) {
			continue
		}
		qualifying = append(qualifying, d)
	}

	seq := &Sequence{
		days:       qualifying,
		rawPrefix:  make([]int, len(qualifying)),
		exclPrefix: make([]int, len(qualifying)),
	}
	for i, d := range qualifying {
		if i == 0 {
			continue
		}
		seq.rawPrefix[i] = civil.DaysBetween(qualifying[0], d)
		excluded, err := idx.ExcludedDays(activityTypeID, qualifying[0], d)
		if err != nil {
			return nil, err
		}
		seq.exclPrefix[i] = excluded
	}
	return seq, nil
}

// Len returns the number of qualifying activity days.
func (q *Sequence) Len() int { return len(q.days) }

// window returns the net span and rounded average gap of the window from
// activity index s to activity index e (s < e).
func (q *Sequence) window(s, e int) (span int, averageGap float64) {
	span = (q.rawPrefix[e] - q.rawPrefix[s]) - (q.exclPrefix[e] - q.exclPrefix[s])
	averageGap = interval.Round1(float64(span) / float64(e-s))
	return span, averageGap
}

// valid applies the shared window predicate: the rounded mean net gap must
// not exceed the desired frequency.
func valid(averageGap, desiredFrequency float64) bool {
	return averageGap <= desiredFrequency
}

// Longest returns the valid window with the greatest net span over the whole
// history, or nil when no window qualifies. Ties on span keep the first
// window found, scanning start indexes ascending and end indexes ascending
// within each start.
func (q *Sequence) Longest(desiredFrequency float64) *Result {
	if len(q.days) < 2 || desiredFrequency <= 0 {
		return nil
	}
	var best *Result
	for s := 0; s < len(q.days)-1; s++ {
		for e := s + 1; e < len(q.days); e++ {
			span, averageGap := q.window(s, e)
			if !valid(averageGap, desiredFrequency) {
				continue
			}
			if best == nil || span > best.Span {
				best = &Result{Span: span, AverageGap: averageGap, Start: q.days[s], End: q.days[e]}
			}
		}
	}
	return best
}

// Current returns the streak ending at the most recent activity, or nil.
// daysSinceLast is the net day count from the last activity to "today" in
// the user's zone; the streak only stands while that count has not exceeded
// the desired frequency, and only when the winning window's span clears the
// minimum-significance floor.
func (q *Sequence) Current(desiredFrequency float64, daysSinceLast int) *Result {
	if len(q.days) < 2 || desiredFrequency <= 0 {
		return nil
	}
	if float64(daysSinceLast) > desiredFrequency {
		return nil
	}

	last := len(q.days) - 1
	var best *Result
	for s := 0; s < last; s++ {
		span, averageGap := q.window(s, last)
		if !valid(averageGap, desiredFrequency) {
			continue
		}
		if best == nil || span > best.Span {
			best = &Result{Span: span, AverageGap: averageGap, Start: q.days[s], End: q.days[last]}
		}
	}
	if best == nil || float64(best.Span) < minSpanMultiple*desiredFrequency {
		return nil
	}
	return best
}

// Perfect returns the single window spanning the entire qualifying history,
// or nil when that window misses the validity predicate, the significance
// floor, or the same recency test that gates the current streak.
func (q *Sequence) Perfect(desiredFrequency float64, daysSinceLast int) *Result {
	if len(q.days) < 2 || desiredFrequency <= 0 {
		return nil
	}
	if float64(daysSinceLast) > desiredFrequency {
		return nil
	}

	span, averageGap := q.window(0, len(q.days)-1)
	if !valid(averageGap, desiredFrequency) {
		return nil
	}
	if float64(span) < minSpanMultiple*desiredFrequency {
		return nil
	}
	return &Result{Span: span, AverageGap: averageGap, Start: q.days[0], End: q.days[len(q.days)-1]}
}
