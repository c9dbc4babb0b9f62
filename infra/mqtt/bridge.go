package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/fieldrover/routeman/core/model"
	"github.com/fieldrover/routeman/core/nav"
	"github.com/fieldrover/routeman/infra/logger"
)

// pahoClient is the subset of the Paho client used by the bridge.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Bridge connects the route manager to the navigation stack over MQTT using
// ROS-bridge conventions: message payloads are JSON encodings of the ROS
// message shapes. It implements both maps.Source (one-shot retained map
// reads) and nav.Client (goal submission, plan and result notifications).
type Bridge struct {
	cli pahoClient
	cfg Config
	log logger.Logger

	readyOnce sync.Once
	readyCh   chan struct{}

	metaCh chan model.MapMetaData
	gridCh chan *model.OccupancyGrid

	mu          sync.Mutex
	meta        *model.MapMetaData
	grid        *model.OccupancyGrid
	currentGoal string

	planCh   chan struct{}
	resultCh chan nav.Result
}

// NewBridge connects to the broker and subscribes to the navigation topics.
func NewBridge(cfg Config) (*Bridge, error) {
	cfg.SetDefaults()
	log := logger.New("mqtt_bridge")
	b := &Bridge{
		cfg:      cfg,
		log:      log,
		readyCh:  make(chan struct{}),
		metaCh:   make(chan model.MapMetaData, 1),
		gridCh:   make(chan *model.OccupancyGrid, 1),
		planCh:   make(chan struct{}, 1),
		resultCh: make(chan nav.Result, 1),
	}

	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		b.subscribeAll(c)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	b.cli = c
	return b, nil
}

func (b *Bridge) subscribeAll(c paho.Client) {
	subs := map[string]paho.MessageHandler{
		b.cfg.topic(topicMapMeta): b.onMapMeta,
		b.cfg.topic(topicMap):     b.onMap,
		b.cfg.topic(topicPlan):    b.onPlan,
		b.cfg.topic(topicResult):  b.onResult,
		b.cfg.topic(topicStatus):  b.onStatus,
	}
	for topic, handler := range subs {
		if token := c.Subscribe(topic, b.cfg.QoS, handler); token.Wait() && token.Error() != nil {
			b.log.Errorf("subscribe %s: %v", topic, token.Error())
		}
	}
}

func (b *Bridge) onMapMeta(_ paho.Client, msg paho.Message) {
	var meta model.MapMetaData
	if err := json.Unmarshal(msg.Payload(), &meta); err != nil {
		b.log.Errorf("map metadata decode: %v", err)
		return
	}
	select {
	case b.metaCh <- meta:
	default:
	}
}

func (b *Bridge) onMap(_ paho.Client, msg paho.Message) {
	var grid model.OccupancyGrid
	if err := json.Unmarshal(msg.Payload(), &grid); err != nil {
		b.log.Errorf("map decode: %v", err)
		return
	}
	select {
	case b.gridCh <- &grid:
	default:
	}
}

func (b *Bridge) onStatus(_ paho.Client, _ paho.Message) {
	b.readyOnce.Do(func() { close(b.readyCh) })
}

func (b *Bridge) onPlan(_ paho.Client, msg paho.Message) {
	var path model.Path
	if err := json.Unmarshal(msg.Payload(), &path); err != nil {
		b.log.Errorf("plan decode: %v", err)
		return
	}
	select {
	case b.planCh <- struct{}{}:
	default:
	}
}

func (b *Bridge) onResult(_ paho.Client, msg paho.Message) {
	var res nav.Result
	if err := json.Unmarshal(msg.Payload(), &res); err != nil {
		b.log.Errorf("result decode: %v", err)
		return
	}
	b.mu.Lock()
	current := b.currentGoal
	b.mu.Unlock()
	if res.GoalID != "" && res.GoalID != current {
		// result for an abandoned goal, drop it
		return
	}
	select {
	case b.resultCh <- res:
	default:
	}
}

// Metadata blocks until the provider publishes the map metadata. The value
// is cached; repeated calls return the startup snapshot.
func (b *Bridge) Metadata(ctx context.Context) (model.MapMetaData, error) {
	b.mu.Lock()
	if b.meta != nil {
		meta := *b.meta
		b.mu.Unlock()
		return meta, nil
	}
	b.mu.Unlock()
	select {
	case meta := <-b.metaCh:
		b.mu.Lock()
		b.meta = &meta
		b.mu.Unlock()
		return meta, nil
	case <-ctx.Done():
		return model.MapMetaData{}, ctx.Err()
	}
}

// Grid blocks until the provider publishes the occupancy grid. The value is
// cached; repeated calls return the startup snapshot.
func (b *Bridge) Grid(ctx context.Context) (*model.OccupancyGrid, error) {
	b.mu.Lock()
	if b.grid != nil {
		grid := b.grid
		b.mu.Unlock()
		return grid, nil
	}
	b.mu.Unlock()
	select {
	case grid := <-b.gridCh:
		b.mu.Lock()
		b.grid = grid
		b.mu.Unlock()
		return grid, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// WaitForReady blocks until the planner announces itself on the status
// topic or the context is canceled.
func (b *Bridge) WaitForReady(ctx context.Context) error {
	select {
	case <-b.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendGoal publishes the goal. Stale plan and result notifications from a
// previously abandoned goal are discarded so the next waits observe only
// this goal.
func (b *Bridge) SendGoal(goal model.MoveGoal) error {
	payload, err := json.Marshal(goal)
	if err != nil {
		return fmt.Errorf("encode goal: %w", err)
	}
	b.mu.Lock()
	b.currentGoal = goal.ID
	b.mu.Unlock()
	select {
	case <-b.planCh:
	default:
	}
	select {
	case <-b.resultCh:
	default:
	}
	token := b.cli.Publish(b.cfg.topic(topicGoal), b.cfg.QoS, false, payload)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// WaitForPlan reports whether a global plan was announced within the
// timeout.
func (b *Bridge) WaitForPlan(timeout time.Duration) bool {
	select {
	case <-b.planCh:
		return true
	case <-time.After(timeout):
		return false
	}
}

// WaitForResult blocks until a terminal result for the current goal arrives
// or the context is canceled.
func (b *Bridge) WaitForResult(ctx context.Context) (nav.Result, error) {
	select {
	case res := <-b.resultCh:
		return res, nil
	case <-ctx.Done():
		return nav.Result{}, ctx.Err()
	}
}

// Close disconnects from the broker.
func (b *Bridge) Close() {
	if b.cli != nil && b.cli.IsConnected() {
		b.cli.Disconnect(250)
	}
}
