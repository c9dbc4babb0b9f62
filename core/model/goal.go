package model

// GoalFrame is the fixed reference frame stamped on every submitted goal.
const GoalFrame = "map"

// MoveGoal is the goal representation submitted to the planning service.
// ID tracks the goal through plan and result notifications.
type MoveGoal struct {
	ID     string      `json:"id"`
	Target PoseStamped `json:"target_pose"`
}
