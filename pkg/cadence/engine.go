// Package cadence composes the calendar, off-time, interval, streak, and
// recommendation packages into per-activity-type assessments. The engine is
// stateless between calls and performs no I/O: every evaluation is a pure
// function of its request, including the explicit as-of instant, so callers
// may run evaluations concurrently for different activity types or users
// without synchronization.
package cadence

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/cadenceapp/cadence/pkg/civil"
	"github.com/cadenceapp/cadence/pkg/interval"
	"github.com/cadenceapp/cadence/pkg/offtime"
	"github.com/cadenceapp/cadence/pkg/recommend"
	"github.com/cadenceapp/cadence/pkg/season"
	"github.com/cadenceapp/cadence/pkg/streak"
)

// Rolling display windows: the product shows the mean of the last 3 and the
// last 10 net gaps alongside every assessment.
const (
	shortAverageWindow = 3
	longAverageWindow  = 10
)

// defaultSnapshotCacheSize bounds the per-user off-time snapshot cache.
const defaultSnapshotCacheSize = 1024

// ActivityRecord is one timestamped activity: an opaque activity-type
// identifier plus a UTC instant. Records are owned by the caller's store;
// the engine only reads them.
type ActivityRecord struct {
	ActivityTypeID string
	OccurredAt     time.Time
}

// Request describes one evaluation: one activity type, one user time zone,
// one explicit as-of instant. Records must all belong to the activity type;
// they may arrive in any order and are sorted by instant before use.
// OffTime may be nil when the user declared no off-time, or a shared
// snapshot obtained from OffTimeSnapshot when many types are evaluated for
// one user request.
type Request struct {
	ActivityTypeID   string
	Records          []ActivityRecord
	TimeZone         string
	AsOf             time.Time
	DesiredFrequency float64
	OffTime          *offtime.Index
}

// Assessment is the engine's plain-data answer. Pointer fields are nil when
// the underlying value does not exist (no activity yet, fewer than two
// activities, no qualifying streak window); collaborators serialize them
// into whatever wire shape their transport uses.
type Assessment struct {
	ActivityTypeID string
	DaysSinceLast  *int
	AverageLast3   *float64
	AverageLast10  *float64
	LongestStreak  *streak.Result
	CurrentStreak  *streak.Result
	PerfectStreak  *streak.Result
	Status         recommend.Status
	Priority       float64
}

// SeasonRequest describes one season-digest computation.
type SeasonRequest struct {
	ActivityTypeID   string
	Records          []ActivityRecord
	TimeZone         string
	Season           civil.Season
	StartYear        int
	DesiredFrequency float64
	OffTime          *offtime.Index
}

// Engine evaluates activity histories. The zero value is not usable; build
// one with New or NewWithLogger.
type Engine struct {
	logger    *slog.Logger
	snapshots *otter.Cache[string, *offtime.Index]
}

// OptionHolder carries construction options.
type OptionHolder struct {
	snapshotCacheSize int
	noCache           bool
}

// Option configures an Engine.
type Option func(*OptionHolder)

// WithSnapshotCache sets the capacity of the per-user off-time snapshot
// cache.
func WithSnapshotCache(capacity int) Option {
	return func(o *OptionHolder) { o.snapshotCacheSize = capacity }
}

// WithoutSnapshotCache disables off-time snapshot sharing; every
// OffTimeSnapshot call rebuilds. Slower, never wrong.
func WithoutSnapshotCache() Option {
	return func(o *OptionHolder) { o.noCache = true }
}

// New creates an Engine with the default logger.
func New(opts ...Option) *Engine {
	return NewWithLogger(slog.Default(), opts...)
}

// NewWithLogger creates an Engine with a custom logger.
func NewWithLogger(logger *slog.Logger, opts ...Option) *Engine {
	holder := &OptionHolder{snapshotCacheSize: defaultSnapshotCacheSize}
	for _, opt := range opts {
		opt(holder)
	}

	engine := &Engine{logger: logger}
	if !holder.noCache {
		engine.snapshots = otter.Must(&otter.Options[string, *offtime.Index]{
			MaximumSize: holder.snapshotCacheSize,
		})
	}
	return engine
}

// OffTimeSnapshot returns the off-time index for one (user, revision) pair,
// building it at most once per revision while cached. Sharing the snapshot
// across the per-type evaluations of one user request avoids redundant
// resolution work; a miss just rebuilds, so correctness never depends on
// the cache.
func (e *Engine) OffTimeSnapshot(userID, revision string, build func() *offtime.Index) *offtime.Index {
	if e.snapshots == nil {
		return build()
	}
	key := userID + "@" + revision
	if idx, ok := e.snapshots.GetIfPresent(key); ok {
		e.logger.Debug("off-time snapshot reused", "user", userID, "revision", revision)
		return idx
	}
	idx := build()
	e.snapshots.Set(key, idx)
	return idx
}

// Evaluate computes the full assessment for one activity type as of the
// request's explicit instant. All results are derived fresh; nothing is
// persisted. An unknown time zone fails the whole evaluation - no partial
// results.
func (e *Engine) Evaluate(req Request) (*Assessment, error) {
	idx := req.OffTime
	if idx == nil {
		idx = offtime.NewIndex(nil, nil)
	}

	days, err := activityDays(req.Records, req.TimeZone)
	if err != nil {
		return nil, err
	}
	today, err := civil.Date(req.AsOf, req.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("converting as-of instant: %w", err)
	}

	assessment := &Assessment{ActivityTypeID: req.ActivityTypeID}

	var daysSinceLast *int
	if len(days) > 0 {
		dsl, err := netDaysSince(days[len(days)-1], today, req.ActivityTypeID, idx)
		if err != nil {
			return nil, err
		}
		daysSinceLast = &dsl
	}
	assessment.DaysSinceLast = daysSinceLast

	gaps, err := interval.NetGaps(days, req.ActivityTypeID, idx)
	if err != nil {
		return nil, err
	}
	if mean, ok := interval.RollingMean(gaps, shortAverageWindow); ok {
		assessment.AverageLast3 = &mean
	}
	if mean, ok := interval.RollingMean(gaps, longAverageWindow); ok {
		assessment.AverageLast10 = &mean
	}

	seq, err := streak.NewSequence(days, req.ActivityTypeID, idx)
	if err != nil {
		return nil, err
	}
	assessment.LongestStreak = seq.Longest(req.DesiredFrequency)
	if daysSinceLast != nil {
		assessment.CurrentStreak = seq.Current(req.DesiredFrequency, *daysSinceLast)
		assessment.PerfectStreak = seq.Perfect(req.DesiredFrequency, *daysSinceLast)
	}

	assessment.Status, assessment.Priority = recommend.Classify(daysSinceLast, req.DesiredFrequency)

	e.logger.Debug("evaluated activity type",
		"activity_type", req.ActivityTypeID,
		"activities", len(days),
		"status", assessment.Status,
		"has_current_streak", assessment.CurrentStreak != nil)

	return assessment, nil
}

// SeasonDigest computes the digest for one activity type over one season
// window.
func (e *Engine) SeasonDigest(req SeasonRequest) (*season.Digest, error) {
	idx := req.OffTime
	if idx == nil {
		idx = offtime.NewIndex(nil, nil)
	}
	days, err := activityDays(req.Records, req.TimeZone)
	if err != nil {
		return nil, err
	}
	return season.Build(req.ActivityTypeID, days, idx, req.DesiredFrequency, req.Season, req.StartYear)
}

// activityDays converts record instants to calendar days in the user's
// zone, sorts them ascending, and collapses records sharing a civil date:
// two workouts on one day are one day of activity, and a zero gap between
// them would drag every rolling average toward zero.
func activityDays(records []ActivityRecord, zone string) ([]civil.Day, error) {
	if len(records) == 0 {
		return nil, nil
	}

	sorted := make([]ActivityRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
	})

	days := make([]civil.Day, 0, len(sorted))
	for _, record := range sorted {
		day, err := civil.Date(record.OccurredAt, zone)
		if err != nil {
			return nil, fmt.Errorf("converting record instant: %w", err)
		}
		if len(days) > 0 && days[len(days)-1] == day {
			continue
		}
		days = append(days, day)
	}
	return days, nil
}

// netDaysSince is the off-time-adjusted day count from the last activity to
// today. When the as-of instant falls before the last activity the raw
// (negative) difference is returned unadjusted; there is no in-between range
// to exclude.
func netDaysSince(last, today civil.Day, activityTypeID string, idx *offtime.Index) (int, error) {
	raw := civil.DaysBetween(last, today)
	if raw < 0 {
		return raw, nil
	}
	excluded, err := idx.ExcludedDays(activityTypeID, last, today)
	if err != nil {
		return 0, err
	}
	return raw - excluded, nil
}
