package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/campaign-engine/pkg/campaign"
	"github.com/jwebster45206/campaign-engine/pkg/state"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*state.GameState
	campaigns map[string]*campaign.Graph
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		sessions:  make(map[uuid.UUID]*state.GameState),
		campaigns: make(map[string]*campaign.Graph),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// AddCampaign registers a campaign graph under a filename
func (m *MockStorage) AddCampaign(filename string, g *campaign.Graph) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.campaigns[filename] = g
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = gs
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gs, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return gs, nil
}

func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MockStorage) ListCampaigns(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.campaigns))
	for filename, g := range m.campaigns {
		out[g.Campaign.Title] = filename
	}
	return out, nil
}

func (m *MockStorage) GetCampaign(ctx context.Context, filename string) (*campaign.Graph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.campaigns[filename]
	if !ok {
		return nil, nil
	}
	return g, nil
}
