// Package events defines the routing related events emitted on the event bus.
//
// Available event types:
//   - GoalDispatched: goal submitted to the planner
//   - PlanTimeout: no plan announced within the scan timeout
//   - GoalResult: terminal outcome for a goal
//   - RouteStopped: dispatch loop terminated
package events
