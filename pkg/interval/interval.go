// Package interval computes off-time-adjusted day gaps between consecutive
// activities and rolling means over the most recent gaps.
package interval

import (
	"math"

	"github.com/cadenceapp/cadence/pkg/civil"
	"github.com/cadenceapp/cadence/pkg/offtime"
)

// NetGaps returns one gap per consecutive pair of activity days: the raw day
// difference minus the days of the inclusive in-between range excluded by
// off-time. The input must be in ascending day order. Fewer than two days
// yields an empty result, not an error.
func NetGaps(days []civil.Day, activityTypeID string, idx *offtime.Index) ([]int, error) {
	if len(days) < 2 {
		return nil, nil
	}
	gaps := make([]int, 0, len(days)-1)
	for i := 1; i < len(days); i++ {
		raw := civil.DaysBetween(days[i-1], days[i])
		excluded, err := idx.ExcludedDays(activityTypeID, days[i-1], days[i])
		if err != nil {
			return nil, err
		}
		gaps = append(gaps, raw-excluded)
	}
	return gaps, nil
}

// Round1 rounds to one decimal place, halves away from zero: 2.25 -> 2.3,
// -2.25 -> -2.3. Every averaged value in the engine passes through this
// before being compared against a desired frequency, so the rule must be
// applied in exactly one place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// RollingMean returns the mean of the most recent window gaps, using at most
// window of them, rounded via Round1. The second return is false when there
// are no gaps to average (fewer than two activities) or the window is not
// positive.
func RollingMean(gaps []int, window int) (float64, bool) {
	if len(gaps) == 0 || window <= 0 {
		return 0, false
	}
	if window > len(gaps) {
		window = len(gaps)
	}
	sum := 0
	for _, gap := range gaps[len(gaps)-window:] {
		sum += gap
	}
	return Round1(float64(sum) / float64(window)), true
}
