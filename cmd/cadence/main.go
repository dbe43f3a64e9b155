// Package main implements the cadence CLI: it evaluates one user's activity
// snapshot against desired frequencies and prints an urgency-sorted report.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/cadenceapp/cadence/pkg/cadence"
	"github.com/cadenceapp/cadence/pkg/civil"
	"github.com/cadenceapp/cadence/pkg/offtime"
)

var (
	asOf       = flag.String("as-of", "", "Evaluate as of this RFC3339 instant (or set CADENCE_AS_OF; default now)")
	timeZone   = flag.String("timezone", "", "Override the snapshot's IANA time zone (or set CADENCE_TIMEZONE)")
	seasonName = flag.String("season", "", "Print a season digest instead of the live report (spring/summer/autumn/winter)")
	seasonYear = flag.Int("year", 0, "Season start year for -season (default: season containing the as-of day)")
	noColor    = flag.Bool("no-color", false, "Disable colored output")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("cadence CLI v1.2.0")
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <snapshot.yaml>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *asOf == "" {
		*asOf = os.Getenv("CADENCE_AS_OF")
	}
	if *timeZone == "" {
		*timeZone = os.Getenv("CADENCE_TIMEZONE")
	}

	if err := run(logger, args[0]); err != nil {
		logger.Error("report failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, snapshotPath string) error {
	snapshot, err := loadSnapshot(snapshotPath)
	if err != nil {
		return err
	}

	zone := snapshot.TimeZone
	if *timeZone != "" {
		zone = *timeZone
	}

	now := time.Now().UTC()
	if *asOf != "" {
		parsed, err := time.Parse(time.RFC3339, *asOf)
		if err != nil {
			return fmt.Errorf("invalid -as-of instant: %w", err)
		}
		now = parsed.UTC()
	}

	today, err := civil.Date(now, zone)
	if err != nil {
		return err
	}

	periods, err := snapshot.offTimePeriods()
	if err != nil {
		return err
	}

	engine := cadence.NewWithLogger(logger)
	idx := engine.OffTimeSnapshot(snapshot.UserID, snapshot.Revision, func() *offtime.Index {
		return offtime.NewIndex(periods, snapshot.Tags)
	})

	if *seasonName != "" {
		return runSeasonDigest(engine, snapshot, idx, zone, today)
	}
	return runReport(engine, snapshot, idx, zone, now, today)
}

func runReport(engine *cadence.Engine, snapshot *snapshotFile, idx *offtime.Index, zone string, now time.Time, today civil.Day) error {
	currentSeason, _ := civil.SeasonOf(today)

	assessments := make([]*cadence.Assessment, 0, len(snapshot.ActivityTypes))
	frequencies := make(map[string]float64, len(snapshot.ActivityTypes))
	for _, spec := range snapshot.ActivityTypes {
		frequency := spec.frequencyFor(currentSeason)
		frequencies[spec.ID] = frequency

		assessment, err := engine.Evaluate(cadence.Request{
			ActivityTypeID:   spec.ID,
			Records:          toRecords(spec),
			TimeZone:         zone,
			AsOf:             now,
			DesiredFrequency: frequency,
			OffTime:          idx,
		})
		if err != nil {
			return fmt.Errorf("evaluating %s: %w", spec.ID, err)
		}
		assessments = append(assessments, assessment)
	}

	// Most urgent first; never-performed types ride on the no-data
	// constant and surface near the top.
	sort.SliceStable(assessments, func(i, j int) bool {
		return assessments[i].Priority > assessments[j].Priority
	})

	printReport(os.Stdout, snapshot.UserID, zone, today, assessments, frequencies, *noColor)
	return nil
}

func runSeasonDigest(engine *cadence.Engine, snapshot *snapshotFile, idx *offtime.Index, zone string, today civil.Day) error {
	season, ok := civil.ParseSeason(*seasonName)
	if !ok {
		return fmt.Errorf("unknown season %q", *seasonName)
	}
	startYear := *seasonYear
	if startYear == 0 {
		currentSeason, year := civil.SeasonOf(today)
		startYear = year
		if currentSeason != season {
			// Most recent completed-or-running instance of the
			// requested season on or before today.
			if civil.SeasonStart(season, year).After(today) {
				startYear = year - 1
			}
		}
	}

	for _, spec := range snapshot.ActivityTypes {
		digest, err := engine.SeasonDigest(cadence.SeasonRequest{
			ActivityTypeID:   spec.ID,
			Records:          toRecords(spec),
			TimeZone:         zone,
			Season:           season,
			StartYear:        startYear,
			DesiredFrequency: spec.frequencyFor(season),
			OffTime:          idx,
		})
		if err != nil {
			return fmt.Errorf("season digest for %s: %w", spec.ID, err)
		}
		printDigest(os.Stdout, digest, *noColor)
	}
	return nil
}

func toRecords(spec activityTypeSpec) []cadence.ActivityRecord {
	records := make([]cadence.ActivityRecord, 0, len(spec.Records))
	for _, at := range spec.Records {
		records = append(records, cadence.ActivityRecord{ActivityTypeID: spec.ID, OccurredAt: at.UTC()})
	}
	return records
}
