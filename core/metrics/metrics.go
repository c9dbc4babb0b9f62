package metrics

import "time"

// GoalEvent records a goal submitted to the planning service.
type GoalEvent struct {
	GoalID string
	X      float64
	Y      float64
	Mode   string
	Time   time.Time
}

// ResultEvent records the terminal outcome of a goal.
type ResultEvent struct {
	GoalID    string
	Succeeded bool
	Duration  time.Duration
	Time      time.Time
}

// MetricsSink records routing events for observability purposes.
type MetricsSink interface {
	RecordGoalSent(ev GoalEvent) error
	RecordPlanTimeout(badGoals int) error
	RecordGoalResult(ev ResultEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordGoalSent(GoalEvent) error     { return nil }
func (NopSink) RecordPlanTimeout(int) error        { return nil }
func (NopSink) RecordGoalResult(ResultEvent) error { return nil }
