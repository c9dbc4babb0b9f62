package route

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fieldrover/routeman/core/events"
	"github.com/fieldrover/routeman/core/logger"
	"github.com/fieldrover/routeman/core/metrics"
	"github.com/fieldrover/routeman/core/model"
	"github.com/fieldrover/routeman/core/nav"
	"github.com/fieldrover/routeman/internal/eventbus"
)

// ErrBudgetExhausted is returned when the bad-goal budget has been spent.
var ErrBudgetExhausted = errors.New("too many bad goals")

// ErrNilPose is returned when a goal is converted from an absent pose.
var ErrNilPose = errors.New("goal pose cannot be nil")

// Dispatcher drives the goal-selection/submission/result loop. It owns all
// mutable loop state; a single goroutine runs the loop and at most one goal
// is outstanding at a time.
type Dispatcher struct {
	source      GoalSource
	client      nav.Client
	mode        Mode
	scanTimeout time.Duration
	budget      int
	rate        time.Duration

	log  logger.Logger
	sink metrics.MetricsSink
	bus  eventbus.EventBus

	badGoals int
}

// NewDispatcher creates a dispatcher. sink and bus may be nil.
// cfg timings of zero fall back to the defaults (5 s scan timeout, budget of
// 10, 1 s rate).
func NewDispatcher(source GoalSource, client nav.Client, mode Mode, cfg Config, log logger.Logger, sink metrics.MetricsSink, bus eventbus.EventBus) (*Dispatcher, error) {
	if source == nil || client == nil || log == nil {
		return nil, fmt.Errorf("route: nil parameter provided to NewDispatcher")
	}
	cfg.SetDefaults()
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Dispatcher{
		source:      source,
		client:      client,
		mode:        mode,
		scanTimeout: time.Duration(cfg.ScanTimeoutSeconds) * time.Second,
		budget:      cfg.BadGoalBudget,
		rate:        time.Duration(cfg.RateSeconds) * time.Second,
		log:         log,
		sink:        sink,
		bus:         bus,
	}, nil
}

// BadGoals returns the running count of goals for which no plan was found.
// The counter is monotonic; it is never reset within a run.
func (d *Dispatcher) BadGoals() int { return d.badGoals }

// ToMoveGoal wraps a pose as a planner goal, stamped with the current time
// and the fixed map frame. A nil pose is a conversion error.
func ToMoveGoal(pose *model.Pose) (model.MoveGoal, error) {
	if pose == nil {
		return model.MoveGoal{}, ErrNilPose
	}
	return model.MoveGoal{
		ID: uuid.NewString(),
		Target: model.PoseStamped{
			Header: model.Header{Stamp: model.StampNow(), FrameID: model.GoalFrame},
			Pose:   *pose,
		},
	}, nil
}

func (d *Dispatcher) publish(ev eventbus.Event) {
	if d.bus != nil {
		d.bus.Publish(ev)
	}
}

func (d *Dispatcher) stop(reason string, err error) error {
	d.publish(events.RouteStopped{Reason: reason, Err: err})
	return err
}

// Run blocks on service readiness, then routes forever until a terminal
// condition: the bad-goal budget is spent, dynamic sampling finds no goal,
// goal conversion fails, or the context is canceled. Cancellation returns
// nil; the other conditions return their sentinel error.
func (d *Dispatcher) Run(ctx context.Context) error {
	if err := d.client.WaitForReady(ctx); err != nil {
		return fmt.Errorf("planning service: %w", err)
	}
	d.log.Infof("route dispatcher running in %s mode", d.mode)

	for {
		if ctx.Err() != nil {
			return d.stop("shutdown", nil)
		}
		if d.badGoals > d.budget {
			d.log.Errorf("stopping route after %d bad goals; check that the occupancy map uses trinary values and is not noisy", d.badGoals)
			return d.stop("budget_exhausted", ErrBudgetExhausted)
		}

		d.log.Infof("route mode is %s, getting next goal", d.mode)
		pose, err := d.source.Next()
		if err != nil {
			d.log.Errorf("no valid goal was found in the map, stopping route: %v", err)
			return d.stop("no_goal_found", err)
		}
		goal, err := ToMoveGoal(&pose)
		if err != nil {
			d.log.Errorf("goal conversion failed, stopping route: %v", err)
			return d.stop("conversion_error", err)
		}

		sentAt := time.Now()
		if err := d.client.SendGoal(goal); err != nil {
			// submission is fire and forget; a transport error counts
			// against the budget like an unplannable goal
			d.badGoals++
			d.log.Warnf("goal submission failed: %v", err)
			continue
		}
		d.log.Infof("sent goal %s to (%.2f, %.2f)", goal.ID, pose.Position.X, pose.Position.Y)
		d.publish(events.GoalDispatched{Goal: goal})
		if err := d.sink.RecordGoalSent(metrics.GoalEvent{
			GoalID: goal.ID,
			X:      pose.Position.X,
			Y:      pose.Position.Y,
			Mode:   d.mode.String(),
			Time:   sentAt,
		}); err != nil {
			d.log.Errorf("metrics error: %v", err)
		}

		if !d.client.WaitForPlan(d.scanTimeout) {
			// the goal is abandoned without an explicit cancel; the next
			// submission supersedes it at the service
			d.badGoals++
			d.log.Warnf("no plan found for goal %s, scanning for a new goal (%d/%d bad goals)", goal.ID, d.badGoals, d.budget)
			d.publish(events.PlanTimeout{GoalID: goal.ID, BadGoals: d.badGoals})
			if err := d.sink.RecordPlanTimeout(d.badGoals); err != nil {
				d.log.Errorf("metrics error: %v", err)
			}
			continue
		}

		result, err := d.client.WaitForResult(ctx)
		if err != nil {
			// only context cancellation aborts the result wait
			return d.stop("shutdown", nil)
		}
		if result.Succeeded {
			d.log.Infof("goal %s done", goal.ID)
		} else {
			d.log.Warnf("goal %s failed: %s", goal.ID, result.Message)
		}
		d.publish(events.GoalResult{GoalID: goal.ID, Succeeded: result.Succeeded})
		if err := d.sink.RecordGoalResult(metrics.ResultEvent{
			GoalID:    goal.ID,
			Succeeded: result.Succeeded,
			Duration:  time.Since(sentAt),
			Time:      time.Now(),
		}); err != nil {
			d.log.Errorf("metrics error: %v", err)
		}

		select {
		case <-time.After(d.rate):
		case <-ctx.Done():
		}
	}
}
