package route

import "fmt"

// Mode selects how successive goals are chosen. It is fixed for the
// lifetime of a run.
type Mode int

const (
	// ModeInOrder cycles the configured pose list forever.
	ModeInOrder Mode = iota
	// ModeRandom draws uniformly from the configured pose list forever.
	ModeRandom
	// ModeDynamic samples valid goals from the occupancy grid on demand.
	ModeDynamic
)

// ParseMode converts the configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "inorder":
		return ModeInOrder, nil
	case "random":
		return ModeRandom, nil
	case "dynamic":
		return ModeDynamic, nil
	default:
		return 0, fmt.Errorf("unknown route mode %q", s)
	}
}

// String returns the configuration spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeInOrder:
		return "inorder"
	case ModeRandom:
		return "random"
	case ModeDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}
