package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/campaign-engine/pkg/campaign"
	"github.com/jwebster45206/campaign-engine/pkg/state"
)

// Storage persists session state and serves static campaign data.
// Load methods return (nil, nil) when the requested id does not exist.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error
	LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error)
	DeleteGameState(ctx context.Context, id uuid.UUID) error

	ListCampaigns(ctx context.Context) (map[string]string, error)
	GetCampaign(ctx context.Context, filename string) (*campaign.Graph, error)
}
