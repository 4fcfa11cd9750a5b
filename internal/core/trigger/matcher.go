// Package trigger decides whether a rule's condition currently holds
// for a domain entity snapshot, and at which escalation level. This is
// part of the Functional Core - no I/O, only pure functions.
package trigger

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/example/vigil/internal/core/condition"
	"github.com/example/vigil/internal/core/metric"
	"github.com/example/vigil/internal/core/rule"
)

// Milestone status values as seen by the matcher. The engine's entity
// view normalizes upstream statuses to these.
const (
	MilestoneStatusPending    = "pending"
	MilestoneStatusInProgress = "in_progress"
	MilestoneStatusCompleted  = "completed"
	MilestoneStatusCancelled  = "cancelled"
)

// MilestoneSnapshot is a read-only view of a milestone at evaluation
// time.
type MilestoneSnapshot struct {
	ID            string
	ProjectID     string
	Name          string
	DueDate       *time.Time
	Status        string
	CompletedDate *time.Time
}

// MatchResult is the outcome of matching one rule against one entity.
type MatchResult struct {
	Matched bool
	// Level is the matched ladder entry, nil for implicit single-level
	// matches (due_soon, completed, ladderless metric rules).
	Level *rule.EscalationLevel
	// LevelTag names the matched level for logging and state records.
	LevelTag string
	// LevelRank is the 1-based position of the matched level in the
	// rule's ladder; implicit matches rank 1. Zero when not matched.
	LevelRank int
	// DaysOverdue is set for milestone_overdue matches.
	DaysOverdue int
	// Value is the evaluated sample value for metric matches.
	Value  float64
	Reason string
}

// MatchMilestone evaluates a milestone-based rule against a snapshot.
// A milestone with no due date never matches overdue or due_soon.
func MatchMilestone(r *rule.Rule, ms MilestoneSnapshot, now time.Time) MatchResult {
	switch r.TriggerType {
	case rule.TriggerMilestoneOverdue:
		return matchOverdue(r, ms, now)
	case rule.TriggerMilestoneDueSoon:
		return matchDueSoon(r, ms, now)
	case rule.TriggerMilestoneCompleted:
		return matchCompleted(ms)
	default:
		return MatchResult{Reason: fmt.Sprintf("trigger %s is not milestone-based", r.TriggerType)}
	}
}

func matchOverdue(r *rule.Rule, ms MilestoneSnapshot, now time.Time) MatchResult {
	if ms.DueDate == nil {
		return MatchResult{Reason: "milestone has no due date"}
	}
	if ms.Status == MilestoneStatusCompleted {
		return MatchResult{Reason: "milestone is completed"}
	}

	days := daysOverdue(*ms.DueDate, now)
	if days <= 0 {
		return MatchResult{Reason: "milestone is not overdue"}
	}

	if len(r.Levels) == 0 {
		// Ladderless overdue rule: single implicit level.
		return MatchResult{
			Matched:     true,
			LevelTag:    implicitTag(r),
			LevelRank:   1,
			DaysOverdue: days,
			Reason:      fmt.Sprintf("%d day(s) overdue", days),
		}
	}

	idx, ok := highestLevelAtOrBelow(r.Levels, float64(days))
	if !ok {
		return MatchResult{
			DaysOverdue: days,
			Reason:      fmt.Sprintf("%d day(s) overdue, below lowest level threshold", days),
		}
	}

	lvl := &r.Levels[idx]
	return MatchResult{
		Matched:     true,
		Level:       lvl,
		LevelTag:    lvl.Level,
		LevelRank:   idx + 1,
		DaysOverdue: days,
		Reason:      fmt.Sprintf("%d day(s) overdue, level %s at threshold %v", days, lvl.Level, lvl.ThresholdValue),
	}
}

func matchDueSoon(r *rule.Rule, ms MilestoneSnapshot, now time.Time) MatchResult {
	if ms.DueDate == nil {
		return MatchResult{Reason: "milestone has no due date"}
	}
	if ms.Status == MilestoneStatusCompleted {
		return MatchResult{Reason: "milestone is completed"}
	}

	days := daysUntilDue(*ms.DueDate, now)
	window := 0
	if r.Trigger.DaysBeforeDue != nil {
		window = *r.Trigger.DaysBeforeDue
	}
	if days < 0 || days > window {
		return MatchResult{Reason: fmt.Sprintf("due in %d day(s), outside %d-day window", days, window)}
	}

	// Single notional warning level - no escalation ladder.
	return MatchResult{
		Matched:   true,
		LevelTag:  implicitTag(r),
		LevelRank: 1,
		Reason:    fmt.Sprintf("due in %d day(s)", days),
	}
}

func matchCompleted(ms MilestoneSnapshot) MatchResult {
	if ms.Status != MilestoneStatusCompleted {
		return MatchResult{Reason: "milestone is not completed"}
	}
	// First-observation dedup is the ladder's job: the completed state
	// stays matched every cycle, but only rank 1 > rank 0 acts.
	return MatchResult{
		Matched:   true,
		LevelTag:  "completed",
		LevelRank: 1,
		Reason:    "milestone completed",
	}
}

// MatchMetric evaluates a metric-based rule against a sample window.
func MatchMetric(r *rule.Rule, samples []metric.Sample) MatchResult {
	latest, ok := metric.Latest(samples)
	if !ok {
		return MatchResult{Reason: fmt.Sprintf("no samples for metric %s", r.Trigger.Metric)}
	}

	value := latest.Value
	if r.TriggerType == rule.TriggerMetricDeviation {
		baseline, ok := metric.Baseline(samples, r.Trigger.BaselineWindow)
		if !ok {
			return MatchResult{Reason: fmt.Sprintf("not enough history for metric %s baseline", r.Trigger.Metric)}
		}
		ratio, ok := metric.DeviationRatio(latest.Value, baseline)
		if !ok {
			return MatchResult{Reason: fmt.Sprintf("zero baseline for metric %s", r.Trigger.Metric)}
		}
		value = ratio
	}

	res := condition.Evaluate(r.Trigger.Operator, value, *r.Trigger.Threshold, r.Trigger.ThresholdMax)
	if !res.Triggered {
		return MatchResult{Value: value, Reason: res.Reason}
	}

	if len(r.Levels) == 0 {
		// Metric rule without a ladder matches at a single implicit
		// level carrying the rule's severity.
		return MatchResult{
			Matched:   true,
			LevelTag:  implicitTag(r),
			LevelRank: 1,
			Value:     value,
			Reason:    res.Reason,
		}
	}

	idx, rank, ok := metricLevel(r, value)
	if !ok {
		return MatchResult{Value: value, Reason: res.Reason + ", no level threshold reached"}
	}
	lvl := &r.Levels[idx]
	return MatchResult{
		Matched:   true,
		Level:     lvl,
		LevelTag:  lvl.Level,
		LevelRank: rank,
		Value:     value,
		Reason:    fmt.Sprintf("%s, level %s at threshold %v", res.Reason, lvl.Level, lvl.ThresholdValue),
	}
}

// metricLevel selects the ladder entry for a triggered metric value and
// its severity rank. Thresholds are stored ascending regardless of
// direction. For upward operators severity grows with the value, so the
// match is the highest threshold at or below it and rank counts from
// the bottom. For downward operators (lt, lte) severity grows as the
// value falls, so the match is the lowest threshold at or above it and
// rank counts from the top - the deeper the value sinks, the higher the
// rank.
func metricLevel(r *rule.Rule, value float64) (idx, rank int, ok bool) {
	n := len(r.Levels)
	if r.Trigger.Operator == rule.OpLT || r.Trigger.Operator == rule.OpLTE {
		i := sort.Search(n, func(i int) bool {
			return r.Levels[i].ThresholdValue >= value
		})
		if i == n {
			return 0, 0, false
		}
		return i, n - i, true
	}
	i, found := highestLevelAtOrBelow(r.Levels, value)
	if !found {
		return 0, 0, false
	}
	return i, i + 1, true
}

// highestLevelAtOrBelow bisects the sorted ladder for the highest level
// whose threshold is <= value.
func highestLevelAtOrBelow(levels []rule.EscalationLevel, value float64) (int, bool) {
	// First index whose threshold exceeds value; the entry before it is
	// the match.
	n := sort.Search(len(levels), func(i int) bool {
		return levels[i].ThresholdValue > value
	})
	if n == 0 {
		return 0, false
	}
	return n - 1, true
}

func implicitTag(r *rule.Rule) string {
	if r.Severity != "" {
		return r.Severity
	}
	return "warning"
}

// daysOverdue counts whole or partial days elapsed past the due date.
func daysOverdue(due, now time.Time) int {
	return int(math.Ceil(now.Sub(due).Hours() / 24))
}

// daysUntilDue counts whole days remaining before the due date;
// negative once the due date has passed.
func daysUntilDue(due, now time.Time) int {
	return int(math.Floor(due.Sub(now).Hours() / 24))
}
