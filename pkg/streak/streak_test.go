package streak

import (
	"testing"
	"time"

	"github.com/cadenceapp/cadence/pkg/civil"
	"github.com/cadenceapp/cadence/pkg/offtime"
)

func day(d int) civil.Day {
	return civil.Day{Year: 2025, Month: time.July, Day: d}
}

func days(ds ...int) []civil.Day {
	out := make([]civil.Day, len(ds))
	for i, d := range ds {
		out[i] = day(d)
	}
	return out
}

func emptyIndex() *offtime.Index {
	return offtime.NewIndex(nil, nil)
}

func TestEveryOtherDayHistory(t *testing.T) {
	// Activities on days 1,3,5,7,9: every gap is exactly 2. At a desired
	// frequency of 2.0 the whole history is one streak: net span 8,
	// average 2.0. With "today" equal to the last activity day it also
	// qualifies as current and perfect (span 8 >= 3*2).
	seq, err := NewSequence(days(1, 3, 5, 7, 9), "running", emptyIndex())
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}

	longest := seq.Longest(2.0)
	if longest == nil {
		t.Fatal("Longest = nil, want full-history streak")
	}
	if longest.Span != 8 || longest.AverageGap != 2.0 {
		t.Errorf("Longest = span %d avg %v, want span 8 avg 2.0", longest.Span, longest.AverageGap)
	}
	if longest.Start != day(1) || longest.End != day(9) {
		t.Errorf("Longest window = %s..%s, want %s..%s", longest.Start, longest.End, day(1), day(9))
	}

	current := seq.Current(2.0, 0)
	if current == nil || current.Span != 8 {
		t.Errorf("Current = %+v, want full-history streak of span 8", current)
	}

	perfect := seq.Perfect(2.0, 0)
	if perfect == nil || perfect.Span != 8 || perfect.AverageGap != 2.0 {
		t.Errorf("Perfect = %+v, want full-history streak of span 8 avg 2.0", perfect)
	}
}

func TestShortHistoryReturnsNone(t *testing.T) {
	for _, history := range [][]civil.Day{nil, days(5)} {
		seq, err := NewSequence(history, "running", emptyIndex())
		if err != nil {
			t.Fatalf("NewSequence returned error: %v", err)
		}
		if seq.Longest(2.0) != nil || seq.Current(2.0, 0) != nil || seq.Perfect(2.0, 0) != nil {
			t.Errorf("history of %d days produced a streak, want none", len(history))
		}
	}
}

func TestNonPositiveFrequencyReturnsNone(t *testing.T) {
	seq, err := NewSequence(days(1, 3, 5), "running", emptyIndex())
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	for _, freq := range []float64{0, -1.5} {
		if seq.Longest(freq) != nil || seq.Current(freq, 0) != nil || seq.Perfect(freq, 0) != nil {
			t.Errorf("frequency %v produced a streak, want none", freq)
		}
	}
}

func TestLongestSkipsBrokenStretch(t *testing.T) {
	// Days 1,3,5 then a 10-day break to 15, then 17. Only the leading
	// run is a valid window at frequency 2.0; any window crossing the
	// break averages above target.
	seq, err := NewSequence(days(1, 3, 5, 15, 17), "running", emptyIndex())
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	longest := seq.Longest(2.0)
	if longest == nil {
		t.Fatal("Longest = nil, want the leading run")
	}
	if longest.Start != day(1) || longest.End != day(5) || longest.Span != 4 {
		t.Errorf("Longest = %s..%s span %d, want %s..%s span 4",
			longest.Start, longest.End, longest.Span, day(1), day(5))
	}
}

func TestLongestTieKeepsFirstWindow(t *testing.T) {
	// Two equally long valid runs (span 2 each); the scan keeps the
	// earlier one.
	seq, err := NewSequence(days(1, 3, 11, 13), "running", emptyIndex())
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	longest := seq.Longest(2.0)
	if longest == nil {
		t.Fatal("Longest = nil, want a streak")
	}
	if longest.Start != day(1) || longest.End != day(3) {
		t.Errorf("tie broke to %s..%s, want first-found %s..%s", longest.Start, longest.End, day(1), day(3))
	}
}

func TestOffTimeAdjustedStreak(t *testing.T) {
	// Activities on days 1 and 10 with off-time covering 4-6: net gap 6,
	// so a frequency target of 6.0 is met even though the raw gap is 9.
	idx := offtime.NewIndex([]offtime.Period{
		{Start: day(4), End: day(6), ActivityTypeID: "running"},
	}, nil)
	seq, err := NewSequence(days(1, 10), "running", idx)
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}

	longest := seq.Longest(6.0)
	if longest == nil {
		t.Fatal("Longest = nil, want off-time-adjusted streak")
	}
	if longest.Span != 6 || longest.AverageGap != 6.0 {
		t.Errorf("Longest = span %d avg %v, want span 6 avg 6.0", longest.Span, longest.AverageGap)
	}

	// Without the adjustment the raw gap of 9 would fail the predicate.
	bare, err := NewSequence(days(1, 10), "running", emptyIndex())
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	if bare.Longest(6.0) != nil {
		t.Error("raw gap of 9 must not qualify at frequency 6.0")
	}
}

func TestActivitiesInsideOffTimeAreDropped(t *testing.T) {
	// The day-5 activity falls inside the off-time period, so only days
	// 1 and 10 qualify - and with 4-6 excluded their net gap is 6.
	idx := offtime.NewIndex([]offtime.Period{
		{Start: day(4), End: day(6), ActivityTypeID: "running"},
	}, nil)
	seq, err := NewSequence(days(1, 5, 10), "running", idx)
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	if seq.Len() != 2 {
		t.Fatalf("qualifying days = %d, want 2", seq.Len())
	}

	longest := seq.Longest(6.0)
	if longest == nil || longest.Span != 6 {
		t.Errorf("Longest = %+v, want span 6 over the two qualifying days", longest)
	}
}

func TestAllActivitiesExcludedReturnsNone(t *testing.T) {
	idx := offtime.NewIndex([]offtime.Period{
		{Start: day(1), End: day(31), ActivityTypeID: "running"},
	}, nil)
	seq, err := NewSequence(days(3, 5, 7), "running", idx)
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	if seq.Len() != 0 {
		t.Fatalf("qualifying days = %d, want 0", seq.Len())
	}
	if seq.Longest(2.0) != nil {
		t.Error("fully excluded history produced a streak")
	}
}

func TestCurrentRequiresRecency(t *testing.T) {
	seq, err := NewSequence(days(1, 3, 5, 7, 9), "running", emptyIndex())
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}

	// Exactly at the frequency the streak still stands.
	if seq.Current(2.0, 2) == nil {
		t.Error("Current = nil at daysSinceLast == frequency, want streak")
	}
	// One day over and it is gone; so is the perfect streak.
	if seq.Current(2.0, 3) != nil {
		t.Error("Current survived daysSinceLast > frequency")
	}
	if seq.Perfect(2.0, 3) != nil {
		t.Error("Perfect survived daysSinceLast > frequency")
	}
}

func TestCurrentRequiresSignificanceFloor(t *testing.T) {
	// Two activities two days apart: a valid window, but span 2 is below
	// the 3x frequency floor (6), so no current or perfect streak.
	seq, err := NewSequence(days(1, 3), "running", emptyIndex())
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	if seq.Current(2.0, 0) != nil {
		t.Error("Current ignored the minimum-significance floor")
	}
	if seq.Perfect(2.0, 0) != nil {
		t.Error("Perfect ignored the minimum-significance floor")
	}
	// The historical search has no floor: the short window still counts.
	if seq.Longest(2.0) == nil {
		t.Error("Longest = nil, want the short window")
	}
}

func TestCurrentEndsAtLastActivity(t *testing.T) {
	// An early dense run followed by a sparse tail: the longest streak
	// lives in the past, while the current streak must end at the last
	// activity and only cover the stretch that is still on target.
	seq, err := NewSequence(days(1, 3, 5, 7, 20, 22, 24, 26, 28, 30), "running", emptyIndex())
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}

	current := seq.Current(2.0, 1)
	if current == nil {
		t.Fatal("Current = nil, want trailing run")
	}
	if current.Start != day(20) || current.End != day(30) {
		t.Errorf("Current window = %s..%s, want %s..%s", current.Start, current.End, day(20), day(30))
	}
	if current.Span != 10 || current.AverageGap != 2.0 {
		t.Errorf("Current = span %d avg %v, want span 10 avg 2.0", current.Span, current.AverageGap)
	}

	// The broken whole history disqualifies the perfect streak.
	if seq.Perfect(2.0, 1) != nil {
		t.Error("Perfect = streak over a broken history, want none")
	}
}

func TestPerfectMatchesWholeHistoryOnly(t *testing.T) {
	seq, err := NewSequence(days(1, 4, 7, 10), "running", emptyIndex())
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	perfect := seq.Perfect(3.0, 2)
	if perfect == nil {
		t.Fatal("Perfect = nil, want whole-history streak")
	}
	if perfect.Span != 9 || perfect.AverageGap != 3.0 {
		t.Errorf("Perfect = span %d avg %v, want span 9 avg 3.0", perfect.Span, perfect.AverageGap)
	}
	if perfect.Start != day(1) || perfect.End != day(10) {
		t.Errorf("Perfect window = %s..%s, want %s..%s", perfect.Start, perfect.End, day(1), day(10))
	}
}

func TestWindowAverageRoundsBeforeComparison(t *testing.T) {
	// 24 two-day gaps plus one three-day gap: the whole-history mean is
	// 49/24 = 2.0417, which rounds to 2.0 and therefore passes at a
	// frequency of 2.0. Comparing the unrounded mean would reject it.
	base := civil.Day{Year: 2025, Month: time.March, Day: 1}
	history := make([]civil.Day, 0, 25)
	for offset := 0; offset <= 46; offset += 2 {
		history = append(history, base.AddDays(offset))
	}
	history = append(history, base.AddDays(49))

	seq, err := NewSequence(history, "running", emptyIndex())
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	longest := seq.Longest(2.0)
	if longest == nil {
		t.Fatal("Longest = nil, want whole history admitted after rounding")
	}
	if longest.Span != 49 || longest.AverageGap != 2.0 {
		t.Errorf("Longest = span %d avg %v, want span 49 avg 2.0", longest.Span, longest.AverageGap)
	}
}
