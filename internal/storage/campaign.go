package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jwebster45206/campaign-engine/pkg/campaign"
)

// Campaign operations (filesystem-backed)

func (r *RedisStorage) ListCampaigns(ctx context.Context) (map[string]string, error) {
	campaignsDir := filepath.Join(r.dataDir, "campaigns")
	campaigns := make(map[string]string)

	err := filepath.WalkDir(campaignsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		file, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("Failed to read campaign file", "path", path, "error", err)
			return nil
		}

		var g campaign.Graph
		if err := json.Unmarshal(file, &g); err != nil {
			r.logger.Warn("Failed to unmarshal campaign file", "path", path, "error", err)
			return nil
		}

		campaigns[g.Campaign.Title] = filepath.Base(path)
		return nil
	})

	if err != nil {
		r.logger.Error("Failed to walk campaigns directory", "error", err)
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	return campaigns, nil
}

// GetCampaign reads and validates one campaign file. Validation errors
// make the campaign unusable; warnings are logged and tolerated.
func (r *RedisStorage) GetCampaign(ctx context.Context, filename string) (*campaign.Graph, error) {
	path := filepath.Join(r.dataDir, "campaigns", filename)

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read campaign file: %w", err)
	}

	g, warnings, err := LoadGraph(file)
	if err != nil {
		return nil, fmt.Errorf("campaign %s: %w", filename, err)
	}
	for _, w := range warnings {
		r.logger.Warn("Campaign validation warning", "campaign", filename, "warning", w)
	}
	return g, nil
}

// LoadGraph unmarshals and validates campaign JSON, returning the
// graph plus any non-fatal validation warnings.
func LoadGraph(data []byte) (*campaign.Graph, []string, error) {
	var g campaign.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal campaign: %w", err)
	}

	errs, warnings := g.Validate()
	if len(errs) > 0 {
		return nil, warnings, fmt.Errorf("campaign validation failed: %v", errs)
	}
	return &g, warnings, nil
}
