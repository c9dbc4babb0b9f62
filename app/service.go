package app

import (
	"context"
	"fmt"

	"github.com/fieldrover/routeman/config"
	"github.com/fieldrover/routeman/core/maps"
	coremetrics "github.com/fieldrover/routeman/core/metrics"
	"github.com/fieldrover/routeman/core/model"
	"github.com/fieldrover/routeman/core/route"
	"github.com/fieldrover/routeman/core/sampler"
	"github.com/fieldrover/routeman/infra/logger"
	"github.com/fieldrover/routeman/infra/metrics"
	"github.com/fieldrover/routeman/infra/mqtt"
	"github.com/fieldrover/routeman/internal/eventbus"
)

// Service orchestrates the route dispatcher and its collaborators.
type Service struct {
	cfg    *config.Config
	bridge *mqtt.Bridge
	sink   coremetrics.MetricsSink
	bus    eventbus.EventBus
	log    logger.Logger
	mode   route.Mode
}

// New creates a Service from the configuration. The MQTT connection is
// established here; the map snapshot and service readiness are awaited in
// Run.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	mode, err := route.ParseMode(cfg.Route.Mode)
	if err != nil {
		return nil, err
	}
	bridge, err := mqtt.NewBridge(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("mqtt bridge: %w", err)
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	return &Service{
		cfg:    cfg,
		bridge: bridge,
		sink:   sink,
		bus:    eventbus.New(),
		log:    logg,
		mode:   mode,
	}, nil
}

// BuildGoalSource constructs the goal source for the mode. For the dynamic
// mode this blocks until the map provider has published, per the sampler's
// startup contract.
func BuildGoalSource(ctx context.Context, mode route.Mode, cfg route.Config, mapSrc maps.Source, log logger.Logger) (route.GoalSource, error) {
	switch mode {
	case route.ModeInOrder:
		return route.NewCyclicSource(posesFromConfig(cfg.Poses))
	case route.ModeRandom:
		return route.NewRandomSource(posesFromConfig(cfg.Poses), nil)
	case route.ModeDynamic:
		s, err := sampler.New(ctx, mapSrc, log)
		if err != nil {
			return nil, fmt.Errorf("goal sampler: %w", err)
		}
		return route.NewSamplerSource(s), nil
	default:
		return nil, fmt.Errorf("unknown route mode %v", mode)
	}
}

func posesFromConfig(poses []route.PoseConfig) []model.Pose {
	out := make([]model.Pose, 0, len(poses))
	for _, p := range poses {
		out = append(out, model.Pose{
			Position:    model.Point{X: p.X, Y: p.Y, Z: p.Z},
			Orientation: model.QuaternionFromYaw(p.Yaw),
		})
	}
	return out
}

// Run routes until a terminal condition or context cancellation.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	source, err := BuildGoalSource(ctx, s.mode, s.cfg.Route, s.bridge, s.log)
	if err != nil {
		return err
	}
	dispatcher, err := route.NewDispatcher(source, s.bridge, s.mode, s.cfg.Route, s.log, s.sink, s.bus)
	if err != nil {
		return err
	}
	return dispatcher.Run(ctx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bridge.Close()
	s.bus.Close()
	return nil
}
