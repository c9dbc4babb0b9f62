package nav

import (
	"context"
	"time"

	"github.com/fieldrover/routeman/core/model"
)

// Result is the terminal outcome reported by the planning service for a
// submitted goal.
type Result struct {
	GoalID    string
	Succeeded bool
	Message   string
}

// Client represents the asynchronous planning/execution service. At most one
// goal is outstanding at a time; a new SendGoal supersedes the previous goal
// at the service.
type Client interface {
	// WaitForReady blocks until the planning service is reachable or the
	// context is canceled. There is no timeout; readiness is a startup
	// precondition.
	WaitForReady(ctx context.Context) error

	// SendGoal submits the goal without waiting for the service to act on it.
	SendGoal(goal model.MoveGoal) error

	// WaitForPlan reports whether the service announced a global plan for
	// the most recently submitted goal within the timeout. A false return
	// means no plan could even be started for that goal.
	WaitForPlan(timeout time.Duration) bool

	// WaitForResult blocks until a terminal result arrives for the most
	// recently submitted goal or the context is canceled.
	WaitForResult(ctx context.Context) (Result, error)
}
