package metrics

import coremetrics "github.com/fieldrover/routeman/core/metrics"

// MultiSink fans routing events out to multiple sinks. The first error
// encountered is returned after all sinks have been called.
type MultiSink struct {
	sinks []coremetrics.MetricsSink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordGoalSent(ev coremetrics.GoalEvent) error {
	var first error
	for _, s := range m.sinks {
		if err := s.RecordGoalSent(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiSink) RecordPlanTimeout(badGoals int) error {
	var first error
	for _, s := range m.sinks {
		if err := s.RecordPlanTimeout(badGoals); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiSink) RecordGoalResult(ev coremetrics.ResultEvent) error {
	var first error
	for _, s := range m.sinks {
		if err := s.RecordGoalResult(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
