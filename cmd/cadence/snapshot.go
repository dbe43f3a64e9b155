package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cadenceapp/cadence/pkg/civil"
	"github.com/cadenceapp/cadence/pkg/offtime"
)

// snapshotFile is the YAML shape the CLI consumes: one user's activity
// history, desired frequencies, tag groupings, and off-time declarations.
// In the product these arrive from the backend's store; the CLI stands in
// for that collaborator.
type snapshotFile struct {
	UserID        string              `yaml:"user_id"`
	Revision      string              `yaml:"revision"`
	TimeZone      string              `yaml:"timezone"`
	Tags          map[string][]string `yaml:"tags"`
	ActivityTypes []activityTypeSpec  `yaml:"activity_types"`
	OffTime       []offTimeSpec       `yaml:"off_time"`
}

type activityTypeSpec struct {
	ID                  string             `yaml:"id"`
	DesiredFrequency    float64            `yaml:"desired_frequency"`
	SeasonalFrequencies map[string]float64 `yaml:"seasonal_frequencies"`
	Records             []time.Time        `yaml:"records"`
}

type offTimeSpec struct {
	Start        string `yaml:"start"`
	End          string `yaml:"end"`
	ActivityType string `yaml:"activity_type"`
	Tag          string `yaml:"tag"`
}

func loadSnapshot(path string) (*snapshotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snapshot snapshotFile
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.TimeZone == "" {
		snapshot.TimeZone = "UTC"
	}
	if snapshot.Revision == "" {
		snapshot.Revision = "local"
	}
	return &snapshot, nil
}

// offTimePeriods converts the declared ranges into engine periods. Dates in
// the file are calendar days already, so they parse without any zone.
func (s *snapshotFile) offTimePeriods() ([]offtime.Period, error) {
	periods := make([]offtime.Period, 0, len(s.OffTime))
	for _, spec := range s.OffTime {
		start, err := parseDay(spec.Start)
		if err != nil {
			return nil, fmt.Errorf("off-time start: %w", err)
		}
		end, err := parseDay(spec.End)
		if err != nil {
			return nil, fmt.Errorf("off-time end: %w", err)
		}
		if start.After(end) {
			return nil, fmt.Errorf("off-time period %s..%s has start after end", start, end)
		}
		periods = append(periods, offtime.Period{
			Start:          start,
			End:            end,
			ActivityTypeID: spec.ActivityType,
			Tag:            spec.Tag,
		})
	}
	return periods, nil
}

func parseDay(value string) (civil.Day, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return civil.Day{}, fmt.Errorf("invalid calendar day %q: %w", value, err)
	}
	year, month, day := t.Date()
	return civil.Day{Year: year, Month: month, Day: day}, nil
}

// frequencyFor resolves the desired frequency in force for a season,
// preferring the seasonal override when one is declared.
func (spec *activityTypeSpec) frequencyFor(season civil.Season) float64 {
	if override, ok := spec.SeasonalFrequencies[season.String()]; ok {
		return override
	}
	return spec.DesiredFrequency
}
