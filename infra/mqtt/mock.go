package mqtt

import (
	"context"
	"sync"
	"time"

	"github.com/fieldrover/routeman/core/model"
	"github.com/fieldrover/routeman/core/nav"
)

// MockNav is a scripted navigation client used in tests. Each submitted
// goal consumes the next plan/result script entry; missing entries default
// to an immediately planned, successful goal.
type MockNav struct {
	mu      sync.Mutex
	Sent    []model.MoveGoal
	PlanOK  []bool
	Results []nav.Result
}

// NewMockNav creates an empty MockNav.
func NewMockNav() *MockNav { return &MockNav{} }

func (m *MockNav) WaitForReady(context.Context) error { return nil }

func (m *MockNav) SendGoal(goal model.MoveGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, goal)
	return nil
}

func (m *MockNav) WaitForPlan(time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.PlanOK) == 0 {
		return true
	}
	ok := m.PlanOK[0]
	m.PlanOK = m.PlanOK[1:]
	return ok
}

func (m *MockNav) WaitForResult(ctx context.Context) (nav.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Results) == 0 {
		return nav.Result{Succeeded: true}, nil
	}
	r := m.Results[0]
	m.Results = m.Results[1:]
	return r, nil
}

// MockMapSource serves a fixed map snapshot.
type MockMapSource struct {
	Meta model.MapMetaData
	Map  *model.OccupancyGrid
}

func (m MockMapSource) Metadata(context.Context) (model.MapMetaData, error) { return m.Meta, nil }
func (m MockMapSource) Grid(context.Context) (*model.OccupancyGrid, error)  { return m.Map, nil }
