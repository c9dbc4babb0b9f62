// Package metrics defines interfaces and configuration for collecting
// routing metrics. Sinks like PromSink and InfluxSink record submitted
// goals, plan timeouts and terminal results and can be combined with
// NewMultiSink.
package metrics
