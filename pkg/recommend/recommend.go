// Package recommend maps days-since-last-activity and a desired frequency to
// a discrete urgency status plus a numeric priority used for sort order.
package recommend

// Status is the closed set of urgency classifications.
type Status string

const (
	StatusAhead             Status = "ahead"
	StatusDueSoon           Status = "due_soon"
	StatusDueToday          Status = "due_today"
	StatusOverdue           Status = "overdue"
	StatusCriticallyOverdue Status = "critically_overdue"
	StatusNoData            Status = "no_data"
)

// NoDataPriority is the sort score for never-performed activity types. It
// outsorts every plausible days/frequency ratio while staying finite, so it
// survives JSON encoding in downstream collaborators (+Inf would not).
const NoDataPriority = 1e9

// Classify derives the urgency status from the day-denominated difference
// between days since the last activity and the desired frequency:
//
//	difference > 4        critically_overdue
//	2 < difference <= 4   overdue
//	1 <= difference <= 2  due_soon
//	-1 <= difference < 1  due_today
//	difference < -1       ahead
//
// A nil daysSinceLast means the activity type has never been performed and
// classifies as no_data. A non-positive desired frequency carries no usable
// target and also classifies as no_data rather than erroring. The returned
// priority is daysSinceLast divided by desiredFrequency: higher sorts more
// urgent. It is a sort key only, never displayed.
func Classify(daysSinceLast *int, desiredFrequency float64) (Status, float64) {
	if daysSinceLast == nil || desiredFrequency <= 0 {
		return StatusNoData, NoDataPriority
	}

	days := float64(*daysSinceLast)
	difference := days - desiredFrequency
	priority := days / desiredFrequency

	switch {
	case difference > 4:
		return StatusCriticallyOverdue, priority
	case difference > 2:
		return StatusOverdue, priority
	case difference >= 1:
		return StatusDueSoon, priority
	case difference >= -1:
		return StatusDueToday, priority
	default:
		return StatusAhead, priority
	}
}
