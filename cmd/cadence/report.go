package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/cadenceapp/cadence/pkg/cadence"
	"github.com/cadenceapp/cadence/pkg/civil"
	"github.com/cadenceapp/cadence/pkg/recommend"
	"github.com/cadenceapp/cadence/pkg/season"
	"github.com/cadenceapp/cadence/pkg/streak"
)

// statusColor maps urgency to terminal color: hotter statuses get hotter
// colors, no_data stays muted.
func statusColor(status recommend.Status) *color.Color {
	switch status {
	case recommend.StatusCriticallyOverdue:
		return color.New(color.FgRed, color.Bold)
	case recommend.StatusOverdue:
		return color.New(color.FgRed)
	case recommend.StatusDueSoon:
		return color.New(color.FgYellow)
	case recommend.StatusDueToday:
		return color.New(color.FgCyan)
	case recommend.StatusAhead:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgHiBlack)
	}
}

func printReport(w io.Writer, userID, zone string, today civil.Day, assessments []*cadence.Assessment, frequencies map[string]float64, noColor bool) {
	if noColor {
		color.NoColor = true
	}

	fmt.Fprintf(w, "Activity report for %s (%s), as of %s\n\n", userID, zone, today)

	for _, a := range assessments {
		label := statusColor(a.Status).Sprintf("%-18s", a.Status)
		fmt.Fprintf(w, "  %-16s %s target every %.1fd%s\n",
			a.ActivityTypeID, label, frequencies[a.ActivityTypeID], sinceLabel(a.DaysSinceLast))

		if a.AverageLast3 != nil {
			fmt.Fprintf(w, "%saverage gap: last 3 %.1fd", indent, *a.AverageLast3)
			if a.AverageLast10 != nil {
				fmt.Fprintf(w, ", last 10 %.1fd", *a.AverageLast10)
			}
			fmt.Fprintln(w)
		}
		printStreakLine(w, "longest streak", a.LongestStreak)
		printStreakLine(w, "current streak", a.CurrentStreak)
		if a.PerfectStreak != nil {
			fmt.Fprintf(w, "%s%s\n", indent, color.GreenString("perfect streak: entire history on target"))
		}
		fmt.Fprintln(w)
	}
}

const indent = "                   "

func sinceLabel(daysSinceLast *int) string {
	if daysSinceLast == nil {
		return "   never performed"
	}
	return fmt.Sprintf("   %dd since last", *daysSinceLast)
}

func printStreakLine(w io.Writer, name string, result *streak.Result) {
	if result == nil {
		return
	}
	fmt.Fprintf(w, "%s%s: %dd (avg gap %.1fd, %s to %s)\n",
		indent, name, result.Span, result.AverageGap, result.Start, result.End)
}

func printDigest(w io.Writer, digest *season.Digest, noColor bool) {
	if noColor {
		color.NoColor = true
	}

	fmt.Fprintf(w, "%s %d: %s (%s to %s)\n",
		digest.Season, digest.StartYear, digest.ActivityTypeID, digest.WindowStart, digest.WindowEnd)

	if digest.Count == 0 {
		fmt.Fprintf(w, "    no activity this season\n\n")
		return
	}

	fmt.Fprintf(w, "    %d activities, %s to %s, coverage %.1f%%\n",
		digest.Count, *digest.First, *digest.Last, digest.CoveragePercent)
	if digest.RollingAverage != nil {
		fmt.Fprintf(w, "    rolling average %.1fd\n", *digest.RollingAverage)
	}
	if digest.BestStreak != nil {
		fmt.Fprintf(w, "    best streak %dd (avg gap %.1fd)\n", digest.BestStreak.Span, digest.BestStreak.AverageGap)
	}
	fmt.Fprintln(w)
}
