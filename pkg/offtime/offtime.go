// Package offtime resolves declared exclusion periods for activity types and
// answers "how many days of this range are excluded" queries.
package offtime

import (
	"errors"
	"fmt"

	"github.com/cadenceapp/cadence/pkg/civil"
)

// ErrInvalidRange is returned when a range query is called with a start day
// after its end day. This is a programmer error on the caller's side, never
// a user-data condition.
var ErrInvalidRange = errors.New("invalid day range")

// Period is an inclusive calendar-day range during which an activity type is
// exempt from frequency accounting. A period applies either to the single
// named activity type, or - when Tag is set - to every activity type that
// belongs to that tag grouping.
type Period struct {
	Start          civil.Day
	End            civil.Day
	ActivityTypeID string
	Tag            string
}

// Index is a read-only snapshot of the off-time periods that apply to each
// activity type, with tag membership already resolved. Build one per query
// (or one per user request, shared across that request's per-type
// computations) and discard it; it never mutates after construction, so
// concurrent readers need no locking.
type Index struct {
	byType map[string][]Period
}

// NewIndex resolves a period snapshot plus a tag-to-member-types map into a
// per-type lookup. Periods with a Tag fan out to every member of that tag;
// periods naming neither a type nor a known tag apply to nothing.
func NewIndex(periods []Period, tagMembers map[string][]string) *Index {
	idx := &Index{byType: make(map[string][]Period)}
	for _, p := range periods {
		if p.Tag != "" {
			for _, typeID := range tagMembers[p.Tag] {
				idx.byType[typeID] = append(idx.byType[typeID], p)
			}
			continue
		}
		if p.ActivityTypeID != "" {
			idx.byType[p.ActivityTypeID] = append(idx.byType[p.ActivityTypeID], p)
		}
	}
	return idx
}

// ExcludedDays returns the number of calendar days in the inclusive range
// [start, end] that fall inside at least one period applying to the activity
// type. Overlapping periods each contribute their full overlap length, so a
// day covered by two periods counts twice. That double counting is the
// long-standing behavior users' historical streaks and averages were
// computed under; do not dedupe without product sign-off.
func (idx *Index) ExcludedDays(activityTypeID string, start, end civil.Day) (int, error) {
	if civil.DaysBetween(start, end) < 0 {
		return 0, fmt.Errorf("%w: start %s after end %s", ErrInvalidRange, start, end)
	}

	total := 0
	for _, p := range idx.byType[activityTypeID] {
		overlapStart := start
		if p.Start.After(start) {
			overlapStart = p.Start
		}
		overlapEnd := end
		if p.End.Before(end) {
			overlapEnd = p.End
		}
		if length := civil.DaysBetween(overlapStart, overlapEnd); length >= 0 {
			total += length + 1 // inclusive range
		}
	}
	return total, nil
}

// Covers reports whether the given day falls inside any period applying to
// the activity type. Activities performed on covered days are dropped from
// streak accounting.
func (idx *Index) Covers(activityTypeID string, day civil.Day) bool {
	for _, p := range idx.byType[activityTypeID] {
		if !p.Start.After(day) && !p.End.Before(day) {
			return true
		}
	}
	return false
}

// PeriodCount returns how many resolved periods apply to the activity type.
func (idx *Index) PeriodCount(activityTypeID string) int {
	return len(idx.byType[activityTypeID])
}
