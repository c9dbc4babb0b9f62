package mqtt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldrover/routeman/core/model"
	"github.com/fieldrover/routeman/core/nav"
	"github.com/fieldrover/routeman/infra/logger"
)

type mockClient struct {
	Disconnected bool
	Published    map[string][]byte
}

func (m *mockClient) IsConnected() bool       { return true }
func (m *mockClient) Connect() mqtt.Token     { return &mockToken{} }
func (m *mockClient) Disconnect(quiesce uint) { m.Disconnected = true }
func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	if m.Published == nil {
		m.Published = make(map[string][]byte)
	}
	m.Published[topic] = payload.([]byte)
	return &mockToken{}
}
func (m *mockClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	return &mockToken{}
}

type mockToken struct{}

func (t *mockToken) Wait() bool                       { return true }
func (t *mockToken) WaitTimeout(_ time.Duration) bool { return true }
func (t *mockToken) Error() error                     { return nil }
func (t *mockToken) Done() <-chan struct{}            { return make(chan struct{}) }

type mockMessage struct {
	topic   string
	payload []byte
}

func (m mockMessage) Duplicate() bool            { return false }
func (m mockMessage) Qos() byte                  { return 0 }
func (m mockMessage) Retained() bool             { return true }
func (m mockMessage) Topic() string              { return m.topic }
func (m mockMessage) MessageID() uint16          { return 0 }
func (m mockMessage) Payload() []byte            { return m.payload }
func (m mockMessage) Ack()                       {}
func (m mockMessage) Read(b []byte) (int, error) { copy(b, m.payload); return len(m.payload), nil }

func newTestBridge() (*Bridge, *mockClient) {
	cfg := Config{}
	cfg.SetDefaults()
	mc := &mockClient{}
	return &Bridge{
		cli:      mc,
		cfg:      cfg,
		log:      logger.NopLogger{},
		readyCh:  make(chan struct{}),
		metaCh:   make(chan model.MapMetaData, 1),
		gridCh:   make(chan *model.OccupancyGrid, 1),
		planCh:   make(chan struct{}, 1),
		resultCh: make(chan nav.Result, 1),
	}, mc
}

func TestBridgeMapSource(t *testing.T) {
	b, _ := newTestBridge()

	meta := model.MapMetaData{Resolution: 0.05, Width: 100, Height: 80}
	payload, _ := json.Marshal(meta)
	b.onMapMeta(nil, mockMessage{topic: "nav/map_metadata", payload: payload})

	grid := model.OccupancyGrid{Info: meta, Data: make([]int8, 100*80)}
	payload, _ = json.Marshal(grid)
	b.onMap(nil, mockMessage{topic: "nav/map", payload: payload})

	got, err := b.Metadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, meta, got)

	g, err := b.Grid(context.Background())
	require.NoError(t, err)
	assert.Len(t, g.Data, 8000)

	// cached after the first read
	got, err = b.Metadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, meta, got)
}

func TestBridgeMapSourceBlocksUntilCanceled(t *testing.T) {
	b, _ := newTestBridge()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := b.Metadata(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBridgeReady(t *testing.T) {
	b, _ := newTestBridge()
	b.onStatus(nil, mockMessage{topic: "nav/status"})
	// a second status message must not panic the ready latch
	b.onStatus(nil, mockMessage{topic: "nav/status"})
	require.NoError(t, b.WaitForReady(context.Background()))
}

func TestBridgeGoalRoundTrip(t *testing.T) {
	b, mc := newTestBridge()

	goal := model.MoveGoal{ID: "g1", Target: model.PoseStamped{
		Header: model.Header{FrameID: model.GoalFrame},
		Pose:   model.Pose{Position: model.Point{X: 1, Y: 2}, Orientation: model.IdentityQuaternion()},
	}}
	require.NoError(t, b.SendGoal(goal))

	raw, ok := mc.Published["nav/goal"]
	require.True(t, ok, "goal not published")
	var sent model.MoveGoal
	require.NoError(t, json.Unmarshal(raw, &sent))
	assert.Equal(t, goal, sent)

	// no plan yet
	assert.False(t, b.WaitForPlan(10*time.Millisecond))

	payload, _ := json.Marshal(model.Path{})
	b.onPlan(nil, mockMessage{topic: "nav/global_plan", payload: payload})
	assert.True(t, b.WaitForPlan(10*time.Millisecond))

	payload, _ = json.Marshal(nav.Result{GoalID: "g1", Succeeded: true})
	b.onResult(nil, mockMessage{topic: "nav/result", payload: payload})
	res, err := b.WaitForResult(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Succeeded)
}

func TestBridgeDropsStaleResult(t *testing.T) {
	b, _ := newTestBridge()
	require.NoError(t, b.SendGoal(model.MoveGoal{ID: "g2"}))

	payload, _ := json.Marshal(nav.Result{GoalID: "g1", Succeeded: true})
	b.onResult(nil, mockMessage{topic: "nav/result", payload: payload})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := b.WaitForResult(ctx)
	assert.Error(t, err, "stale result must not satisfy the wait")
}

func TestBridgeSendGoalDrainsStaleNotifications(t *testing.T) {
	b, _ := newTestBridge()
	require.NoError(t, b.SendGoal(model.MoveGoal{ID: "g1"}))
	payload, _ := json.Marshal(model.Path{})
	b.onPlan(nil, mockMessage{topic: "nav/global_plan", payload: payload})

	// abandon g1, submit g2: the stale plan signal must not count for g2
	require.NoError(t, b.SendGoal(model.MoveGoal{ID: "g2"}))
	assert.False(t, b.WaitForPlan(10*time.Millisecond))
}

func TestBridgeClose(t *testing.T) {
	b, mc := newTestBridge()
	b.Close()
	assert.True(t, mc.Disconnected)
}
