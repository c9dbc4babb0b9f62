package route

import (
	"errors"
	"math/rand"

	"github.com/fieldrover/routeman/core/model"
)

// GoalSource produces an infinite sequence of candidate goal poses.
type GoalSource interface {
	// Next returns the next candidate pose. List-backed sources never fail;
	// the sampling source returns sampler.ErrNoGoal when the map cannot be
	// sampled.
	Next() (model.Pose, error)
}

// ErrNoPoses is returned when a list-backed source is constructed without
// any poses.
var ErrNoPoses = errors.New("no poses configured")

// CyclicSource yields a fixed pose list in order, repeating forever.
type CyclicSource struct {
	poses []model.Pose
	next  int
}

// NewCyclicSource builds a CyclicSource over the given poses.
func NewCyclicSource(poses []model.Pose) (*CyclicSource, error) {
	if len(poses) == 0 {
		return nil, ErrNoPoses
	}
	return &CyclicSource{poses: poses}, nil
}

func (c *CyclicSource) Next() (model.Pose, error) {
	p := c.poses[c.next]
	c.next = (c.next + 1) % len(c.poses)
	return p, nil
}

// RandomSource yields uniform draws (with replacement) from a fixed pose
// list forever.
type RandomSource struct {
	poses []model.Pose
	rng   *rand.Rand
}

// NewRandomSource builds a RandomSource over the given poses. A nil rng
// uses the global unseeded source.
func NewRandomSource(poses []model.Pose, rng *rand.Rand) (*RandomSource, error) {
	if len(poses) == 0 {
		return nil, ErrNoPoses
	}
	return &RandomSource{poses: poses, rng: rng}, nil
}

func (r *RandomSource) Next() (model.Pose, error) {
	if r.rng != nil {
		return r.poses[r.rng.Intn(len(r.poses))], nil
	}
	return r.poses[rand.Intn(len(r.poses))], nil
}

// Sampler is the subset of the goal sampler used by the dynamic source.
type Sampler interface {
	NextGoal() (model.Pose, error)
}

// SamplerSource delegates each request to a live map sampler.
type SamplerSource struct {
	sampler Sampler
}

// NewSamplerSource wraps the sampler as a GoalSource.
func NewSamplerSource(s Sampler) *SamplerSource {
	return &SamplerSource{sampler: s}
}

func (s *SamplerSource) Next() (model.Pose, error) {
	return s.sampler.NextGoal()
}
