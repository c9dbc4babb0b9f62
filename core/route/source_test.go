package route

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/fieldrover/routeman/core/model"
)

func pose(x float64) model.Pose {
	return model.Pose{Position: model.Point{X: x}, Orientation: model.IdentityQuaternion()}
}

func TestParseMode(t *testing.T) {
	for s, want := range map[string]Mode{"inorder": ModeInOrder, "random": ModeRandom, "dynamic": ModeDynamic} {
		got, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, s, got.String())
	}
	_, err := ParseMode("spiral")
	assert.Error(t, err)
}

func TestCyclicSourceOrder(t *testing.T) {
	a, b, c := pose(1), pose(2), pose(3)
	src, err := NewCyclicSource([]model.Pose{a, b, c})
	require.NoError(t, err)

	want := []model.Pose{a, b, c, a, b, c, a}
	for i, w := range want {
		got, err := src.Next()
		require.NoError(t, err)
		assert.Equal(t, w, got, "draw %d", i)
	}
}

func TestCyclicSourceEmpty(t *testing.T) {
	_, err := NewCyclicSource(nil)
	assert.ErrorIs(t, err, ErrNoPoses)
}

func TestRandomSourceDrawsFromList(t *testing.T) {
	a, b := pose(1), pose(2)
	src, err := NewRandomSource([]model.Pose{a, b}, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	const n = 1000
	draws := make([]float64, n)
	for i := range draws {
		p, err := src.Next()
		require.NoError(t, err)
		require.Contains(t, []model.Pose{a, b}, p)
		if p == b {
			draws[i] = 1
		}
	}
	// both poses appear and the draw is roughly uniform
	frac := stat.Mean(draws, nil)
	assert.Greater(t, frac, 0.4)
	assert.Less(t, frac, 0.6)
}

func TestRandomSourceEmpty(t *testing.T) {
	_, err := NewRandomSource(nil, nil)
	assert.ErrorIs(t, err, ErrNoPoses)
}

type stubSampler struct {
	pose model.Pose
	err  error
}

func (s stubSampler) NextGoal() (model.Pose, error) { return s.pose, s.err }

func TestSamplerSourceDelegates(t *testing.T) {
	src := NewSamplerSource(stubSampler{pose: pose(4)})
	p, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, pose(4), p)
}
