package route

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldrover/routeman/core/model"
	"github.com/fieldrover/routeman/core/nav"
	"github.com/fieldrover/routeman/core/sampler"
	"github.com/fieldrover/routeman/infra/logger"
	"github.com/fieldrover/routeman/internal/eventbus"
)

// fastConfig avoids the one second pacing during tests.
func fastConfig() Config {
	return Config{ScanTimeoutSeconds: 1, BadGoalBudget: 10, RateSeconds: -1}
}

type fakeNav struct {
	sent    []model.MoveGoal
	planOK  bool
	results []nav.Result
}

func (f *fakeNav) WaitForReady(context.Context) error { return nil }

func (f *fakeNav) SendGoal(goal model.MoveGoal) error {
	f.sent = append(f.sent, goal)
	return nil
}

func (f *fakeNav) WaitForPlan(time.Duration) bool { return f.planOK }

func (f *fakeNav) WaitForResult(ctx context.Context) (nav.Result, error) {
	if len(f.results) == 0 {
		<-ctx.Done()
		return nav.Result{}, ctx.Err()
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r, nil
}

type fixedSource struct{ pose model.Pose }

func (s fixedSource) Next() (model.Pose, error) { return s.pose, nil }

type errSource struct{ err error }

func (s errSource) Next() (model.Pose, error) { return model.Pose{}, s.err }

func TestDispatcherStopsAfterBudget(t *testing.T) {
	client := &fakeNav{planOK: false}
	d, err := NewDispatcher(fixedSource{pose: pose(1)}, client, ModeInOrder, fastConfig(), logger.NopLogger{}, nil, nil)
	require.NoError(t, err)

	err = d.Run(context.Background())
	assert.ErrorIs(t, err, ErrBudgetExhausted)
	// 11 plan-scan timeouts trip the budget of 10; no further submissions
	assert.Equal(t, 11, d.BadGoals())
	assert.Len(t, client.sent, 11)
}

func TestDispatcherStopsOnNoGoal(t *testing.T) {
	client := &fakeNav{}
	d, err := NewDispatcher(errSource{err: sampler.ErrNoGoal}, client, ModeDynamic, fastConfig(), logger.NopLogger{}, nil, nil)
	require.NoError(t, err)

	err = d.Run(context.Background())
	assert.ErrorIs(t, err, sampler.ErrNoGoal)
	assert.Equal(t, 0, d.BadGoals())
	assert.Empty(t, client.sent)
}

func TestDispatcherResultDoesNotCountAgainstBudget(t *testing.T) {
	client := &fakeNav{planOK: true, results: []nav.Result{{Succeeded: true}, {Succeeded: false, Message: "aborted"}}}
	d, err := NewDispatcher(fixedSource{pose: pose(2)}, client, ModeInOrder, fastConfig(), logger.NopLogger{}, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// let two results through, then shut down during the third wait
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	err = d.Run(ctx)
	require.NoError(t, err)
	// neither success nor explicit failure increments the counter
	assert.Equal(t, 0, d.BadGoals())
	assert.GreaterOrEqual(t, len(client.sent), 2)
}

func TestDispatcherShutdownBeforeIteration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &fakeNav{}
	d, err := NewDispatcher(fixedSource{pose: pose(1)}, client, ModeInOrder, fastConfig(), logger.NopLogger{}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, d.Run(ctx))
	assert.Empty(t, client.sent)
}

func TestDispatcherPublishesEvents(t *testing.T) {
	bus := eventbus.New()
	sub := bus.Subscribe()
	client := &fakeNav{planOK: false}
	d, err := NewDispatcher(fixedSource{pose: pose(1)}, client, ModeInOrder, fastConfig(), logger.NopLogger{}, nil, bus)
	require.NoError(t, err)

	require.ErrorIs(t, d.Run(context.Background()), ErrBudgetExhausted)

	var events []eventbus.Event
	for {
		select {
		case ev := <-sub:
			events = append(events, ev)
			continue
		default:
		}
		break
	}
	assert.NotEmpty(t, events)
}

func TestToMoveGoal(t *testing.T) {
	p := pose(3)
	goal, err := ToMoveGoal(&p)
	require.NoError(t, err)
	assert.NotEmpty(t, goal.ID)
	assert.Equal(t, "map", goal.Target.Header.FrameID)
	assert.Equal(t, p, goal.Target.Pose)
	assert.NotZero(t, goal.Target.Header.Stamp.Secs)

	_, err = ToMoveGoal(nil)
	assert.ErrorIs(t, err, ErrNilPose)
}

func TestNewDispatcherValidatesParams(t *testing.T) {
	_, err := NewDispatcher(nil, &fakeNav{}, ModeInOrder, Config{}, logger.NopLogger{}, nil, nil)
	assert.Error(t, err)
}
