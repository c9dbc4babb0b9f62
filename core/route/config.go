package route

// Config defines dispatch loop settings.
type Config struct {
	// Mode selects the goal source: "inorder", "random" or "dynamic".
	Mode string `json:"mode"`
	// Poses lists the route for the list-backed modes. Ignored in dynamic
	// mode.
	Poses []PoseConfig `json:"poses"`
	// ScanTimeoutSeconds bounds the wait for a global plan per goal.
	ScanTimeoutSeconds int `json:"scan_timeout_seconds"`
	// BadGoalBudget is the number of plan-scan timeouts tolerated before the
	// loop stops permanently.
	BadGoalBudget int `json:"bad_goal_budget"`
	// RateSeconds paces loop iterations that complete without blocking.
	RateSeconds int `json:"rate_seconds"`
}

// PoseConfig is a recorded goal pose. Yaw is converted to a quaternion when
// the route is built.
type PoseConfig struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Z   float64 `json:"z"`
	Yaw float64 `json:"yaw"`
}

// SetDefaults applies the standard loop timings.
func (c *Config) SetDefaults() {
	if c.ScanTimeoutSeconds == 0 {
		c.ScanTimeoutSeconds = 5
	}
	if c.BadGoalBudget == 0 {
		c.BadGoalBudget = 10
	}
	if c.RateSeconds == 0 {
		c.RateSeconds = 1
	}
}
