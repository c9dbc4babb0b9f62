package sampler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/fieldrover/routeman/core/logger"
	"github.com/fieldrover/routeman/core/maps"
	"github.com/fieldrover/routeman/core/model"
)

// ErrNoGoal is returned when no valid goal could be found within the retry
// budget. It indicates the map is too occupied, too small or too noisy to
// sample from, not a transient condition.
var ErrNoGoal = errors.New("no valid goal found in the map")

// maxAttempts bounds the random scan performed by NextGoal.
const maxAttempts = 100

// GoalSampler draws random collision-free world poses from a static
// occupancy grid. The grid is read once at construction and never refreshed;
// the environment is assumed static while the sampler is in use.
type GoalSampler struct {
	grid *model.OccupancyGrid

	width      int
	height     int
	resolution float64
	originX    float64
	originY    float64
	yaw        float64

	rng *rand.Rand
	log logger.Logger
}

// New blocks until the map provider has published both metadata and grid
// data, then snapshots the transform parameters. The origin orientation is
// reduced to its yaw component; the grid-to-world transform is assumed to be
// a planar rotation plus translation.
func New(ctx context.Context, src maps.Source, log logger.Logger) (*GoalSampler, error) {
	meta, err := src.Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("map metadata: %w", err)
	}
	grid, err := src.Grid(ctx)
	if err != nil {
		return nil, fmt.Errorf("map grid: %w", err)
	}
	if meta.Width <= 0 || meta.Height <= 0 {
		return nil, fmt.Errorf("invalid map dimensions %dx%d", meta.Width, meta.Height)
	}
	if len(grid.Data) < meta.Width*meta.Height {
		return nil, fmt.Errorf("grid data length %d short of %dx%d", len(grid.Data), meta.Width, meta.Height)
	}
	return &GoalSampler{
		grid:       grid,
		width:      meta.Width,
		height:     meta.Height,
		resolution: meta.Resolution,
		originX:    meta.Origin.Position.X,
		originY:    meta.Origin.Position.Y,
		yaw:        meta.Origin.Orientation.Yaw(),
		log:        log,
	}, nil
}

// SetRand overrides the random source. Used by tests; the default draws from
// the unseeded global source so successive runs sample independently.
func (s *GoalSampler) SetRand(r *rand.Rand) { s.rng = r }

func (s *GoalSampler) intn(n int) int {
	if s.rng != nil {
		return s.rng.Intn(n)
	}
	return rand.Intn(n)
}

// RavelIndex linearizes grid coordinates in row-major order.
func (s *GoalSampler) RavelIndex(x, y int) int {
	return y*s.width + x
}

// GridToWorld transforms planar grid coordinates to world coordinates by
// scaling with the map resolution, rotating by the map yaw and translating
// by the map origin.
func (s *GoalSampler) GridToWorld(x, y int) (float64, float64) {
	gx := s.resolution * float64(x)
	gy := s.resolution * float64(y)
	wx := s.originX + math.Cos(s.yaw)*gx - math.Sin(s.yaw)*gy
	wy := s.originY + math.Sin(s.yaw)*gx + math.Cos(s.yaw)*gy
	return wx, wy
}

// IsRegionClean reports whether every cell in a window around (x, y) is
// free. Low resolution or noisy sensor data leaves isolated occupied blips
// on the map; a free cell next to such a blip is not a safe goal. The window
// half-extent scales with the map dimensions and the window is clamped to
// the grid bounds.
func (s *GoalSampler) IsRegionClean(x, y int) bool {
	deltaX := max(2, s.width/50)
	deltaY := max(2, s.height/50)

	left, right := max(0, x-deltaX), min(s.width-1, x+deltaX)
	top, bottom := max(0, y-deltaY), min(s.height-1, y+deltaY)

	for cx := left; cx <= right; cx++ {
		for cy := top; cy <= bottom; cy++ {
			if s.grid.Data[s.RavelIndex(cx, cy)] != 0 {
				return false
			}
		}
	}
	return true
}

// NextGoal scans the map for a valid goal: a uniformly random cell that is
// free and whose neighborhood is clean. The accepted cell is converted to a
// world pose at floor height with identity orientation. After maxAttempts
// rejected draws it returns ErrNoGoal.
func (s *GoalSampler) NextGoal() (model.Pose, error) {
	s.log.Infof("searching for a valid goal")
	for attempt := 0; attempt < maxAttempts; attempt++ {
		x := s.intn(s.width)
		y := s.intn(s.height)
		if s.grid.Data[s.RavelIndex(x, y)] != 0 || !s.IsRegionClean(x, y) {
			continue
		}
		wx, wy := s.GridToWorld(x, y)
		s.log.Debugw("valid goal found", map[string]any{"cell_x": x, "cell_y": y, "world_x": wx, "world_y": wy})
		return model.Pose{
			Position:    model.Point{X: wx, Y: wy, Z: 0},
			Orientation: model.IdentityQuaternion(),
		}, nil
	}
	s.log.Errorf("could not find a valid goal in the world; check that the occupancy map uses trinary values and is not noisy")
	return model.Pose{}, ErrNoGoal
}
