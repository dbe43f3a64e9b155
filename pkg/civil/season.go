package civil

import "time"

// Season is one of the four fixed three-month quarters used for seasonal
// frequency targets and season digests.
type Season int

const (
	Spring Season = iota // March through May
	Summer               // June through August
	Autumn               // September through November
	Winter               // December through February of the following year
)

// String returns the lowercase season name.
func (s Season) String() string {
	switch s {
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Autumn:
		return "autumn"
	case Winter:
		return "winter"
	default:
		return "unknown"
	}
}

// ParseSeason maps a lowercase season name to its Season value.
func ParseSeason(name string) (Season, bool) {
	switch name {
	case "spring":
		return Spring, true
	case "summer":
		return Summer, true
	case "autumn":
		return Autumn, true
	case "winter":
		return Winter, true
	default:
		return 0, false
	}
}

// SeasonStart returns the first calendar day of a season. For Winter, year
// is the year containing December 1.
func SeasonStart(s Season, year int) Day {
	switch s {
	case Spring:
		return Day{Year: year, Month: time.March, Day: 1}
	case Summer:
		return Day{Year: year, Month: time.June, Day: 1}
	case Autumn:
		return Day{Year: year, Month: time.September, Day: 1}
	default:
		return Day{Year: year, Month: time.December, Day: 1}
	}
}

// SeasonEnd returns the last calendar day of a season. Winter ends on the
// last day of February of the year AFTER the season's start year, so the
// leap test must use that following year: the winter starting December 2023
// ends on 2024-02-29.
func SeasonEnd(s Season, year int) Day {
	switch s {
	case Spring:
		return Day{Year: year, Month: time.May, Day: 31}
	case Summer:
		return Day{Year: year, Month: time.August, Day: 31}
	case Autumn:
		return Day{Year: year, Month: time.November, Day: 30}
	default:
		febYear := year + 1
		day := 28
		if isLeapYear(febYear) {
			day = 29
		}
		return Day{Year: febYear, Month: time.February, Day: day}
	}
}

// SeasonOf returns the season containing day and that season's start year.
// For January and February days the start year is the previous calendar
// year, since their winter began the prior December.
func SeasonOf(d Day) (Season, int) {
	switch d.Month {
	case time.March, time.April, time.May:
		return Spring, d.Year
	case time.June, time.July, time.August:
		return Summer, d.Year
	case time.September, time.October, time.November:
		return Autumn, d.Year
	case time.December:
		return Winter, d.Year
	default: // January, February
		return Winter, d.Year - 1
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
