package events

import "github.com/fieldrover/routeman/core/model"

// GoalDispatched is emitted when a goal has been submitted to the planner.
type GoalDispatched struct {
	Goal model.MoveGoal
}

// PlanTimeout is emitted when no global plan was announced for the current
// goal within the scan timeout. BadGoals is the running counter after the
// increment.
type PlanTimeout struct {
	GoalID   string
	BadGoals int
}

// GoalResult is emitted when the planner reports a terminal outcome.
type GoalResult struct {
	GoalID    string
	Succeeded bool
}

// RouteStopped is emitted when the dispatch loop terminates.
// Reason can be "budget_exhausted", "no_goal_found", "conversion_error",
// or "shutdown".
type RouteStopped struct {
	Reason string
	Err    error
}
