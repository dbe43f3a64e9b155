// Package season builds per-season digests by composing the off-time,
// interval, and streak packages over one fixed calendar-quarter window.
package season

import (
	"github.com/cadenceapp/cadence/pkg/civil"
	"github.com/cadenceapp/cadence/pkg/interval"
	"github.com/cadenceapp/cadence/pkg/offtime"
	"github.com/cadenceapp/cadence/pkg/streak"
)

// rollingWindow is the gap window for the digest's rolling average, matching
// the "last 3" display average used outside season views.
const rollingWindow = 3

// Digest summarizes one activity type's record inside one season window.
// First and Last are nil when the season saw no activity; RollingAverage is
// nil below two in-season activities; BestStreak is nil when no in-season
// window meets the frequency target.
type Digest struct {
	ActivityTypeID  string
	Season          civil.Season
	StartYear       int
	WindowStart     civil.Day
	WindowEnd       civil.Day
	Count           int
	First           *civil.Day
	Last            *civil.Day
	RollingAverage  *float64
	BestStreak      *streak.Result
	CoveragePercent float64
}

// Build computes the digest for one activity type over the named season.
// Activity days are clamped to the season boundary before any delegation:
// days outside [SeasonStart, SeasonEnd] take no part in the digest's counts,
// averages, or streaks. Coverage is the net (off-time-adjusted) span between
// the first and last in-season activity divided by the season's inclusive
// length, as a percentage rounded to one decimal.
func Build(activityTypeID string, days []civil.Day, idx *offtime.Index, desiredFrequency float64, s civil.Season, startYear int) (*Digest, error) {
	windowStart := civil.SeasonStart(s, startYear)
	windowEnd := civil.SeasonEnd(s, startYear)

	within := make([]civil.Day, 0, len(days))
	for _, d := range days {
		if d.Before(windowStart) || d.After(windowEnd) {
			continue
		}
		within = append(within, d)
	}

	digest := &Digest{
		ActivityTypeID: activityTypeID,
		Season:         s,
		StartYear:      startYear,
		WindowStart:    windowStart,
		WindowEnd:      windowEnd,
		Count:          len(within),
	}
	if len(within) == 0 {
		return digest, nil
	}

	first := within[0]
	last := within[len(within)-1]
	digest.First = &first
	digest.Last = &last

	gaps, err := interval.NetGaps(within, activityTypeID, idx)
	if err != nil {
		return nil, err
	}
	if mean, ok := interval.RollingMean(gaps, rollingWindow); ok {
		digest.RollingAverage = &mean
	}

	seq, err := streak.NewSequence(within, activityTypeID, idx)
	if err != nil {
		return nil, err
	}
	digest.BestStreak = seq.Longest(desiredFrequency)

	raw := civil.DaysBetween(first, last)
	excluded, err := idx.ExcludedDays(activityTypeID, first, last)
	if err != nil {
		return nil, err
	}
	seasonLength := civil.DaysBetween(windowStart, windowEnd) + 1
	digest.CoveragePercent = interval.Round1(100 * float64(raw-excluded) / float64(seasonLength))

	return digest, nil
}
