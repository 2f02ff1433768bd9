package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskqueue/internal/domain"
	"github.com/phrazzld/taskqueue/internal/service"
)

// MockWorkService implements service.WorkService for testing
type MockWorkService struct {
	// Custom behavior functions
	SubmitFn     func(ctx context.Context, targetName, payload string) (*domain.WorkItem, error)
	ListRecentFn func(ctx context.Context) ([]domain.ProcessedWorkItem, error)
	StatsFn      func(ctx context.Context) (*service.Stats, error)

	// Default response values
	Recent      []domain.ProcessedWorkItem
	StatsResult *service.Stats
	Err         error

	// Call tracking for verification
	SubmitCalls struct {
		mu          sync.Mutex
		Count       int
		TargetNames []string
		Payloads    []string
	}
}

var _ service.WorkService = (*MockWorkService)(nil)

// Submit implements the service.WorkService interface.
// Without SubmitFn it returns Err or a freshly created item.
func (m *MockWorkService) Submit(ctx context.Context, targetName, payload string) (*domain.WorkItem, error) {
	m.SubmitCalls.mu.Lock()
	m.SubmitCalls.Count++
	m.SubmitCalls.TargetNames = append(m.SubmitCalls.TargetNames, targetName)
	m.SubmitCalls.Payloads = append(m.SubmitCalls.Payloads, payload)
	m.SubmitCalls.mu.Unlock()

	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, targetName, payload)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return domain.NewWorkItem(targetName, payload)
}

// SubmitCount returns how many times Submit was called.
func (m *MockWorkService) SubmitCount() int {
	m.SubmitCalls.mu.Lock()
	defer m.SubmitCalls.mu.Unlock()
	return m.SubmitCalls.Count
}

// ListRecent implements the service.WorkService interface
func (m *MockWorkService) ListRecent(ctx context.Context) ([]domain.ProcessedWorkItem, error) {
	if m.ListRecentFn != nil {
		return m.ListRecentFn(ctx)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Recent == nil {
		return []domain.ProcessedWorkItem{}, nil
	}
	return m.Recent, nil
}

// Stats implements the service.WorkService interface
func (m *MockWorkService) Stats(ctx context.Context) (*service.Stats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.StatsResult == nil {
		return &service.Stats{}, nil
	}
	return m.StatsResult, nil
}
