package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/fieldrover/routeman/core/metrics"
)

// PromSink records routing events in Prometheus metrics.
type PromSink struct {
	goals    *prometheus.CounterVec
	timeouts prometheus.Counter
	results  *prometheus.CounterVec
	badGoals prometheus.Gauge
}

// NewPromSink registers routing metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	goals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_goals_sent_total",
		Help: "Total number of goals submitted to the planner",
	}, []string{"mode"})
	timeouts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "route_plan_timeouts_total",
		Help: "Total number of goals for which no plan was found in time",
	})
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_goal_results_total",
		Help: "Total number of terminal goal results",
	}, []string{"succeeded"})
	badGoals := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "route_bad_goals",
		Help: "Running count of bad goals in the current run",
	})

	if err := reg.Register(goals); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			goals = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(timeouts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			timeouts = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(results); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			results = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(badGoals); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			badGoals = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{goals: goals, timeouts: timeouts, results: results, badGoals: badGoals}, nil
}

// RecordGoalSent increments the submission counter.
func (s *PromSink) RecordGoalSent(ev coremetrics.GoalEvent) error {
	s.goals.WithLabelValues(ev.Mode).Inc()
	return nil
}

// RecordPlanTimeout increments the timeout counter and tracks the running
// bad-goal count.
func (s *PromSink) RecordPlanTimeout(badGoals int) error {
	s.timeouts.Inc()
	s.badGoals.Set(float64(badGoals))
	return nil
}

// RecordGoalResult increments the result counter.
func (s *PromSink) RecordGoalResult(ev coremetrics.ResultEvent) error {
	s.results.WithLabelValues(strconv.FormatBool(ev.Succeeded)).Inc()
	return nil
}
