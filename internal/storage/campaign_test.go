package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const validCampaignJSON = `{
  "campaign": {
    "id": "sandpoint",
    "title": "Trouble in Sandpoint",
    "chapters": [
      {"id": "ch1", "title": "The Kidnapping", "starting_node": "town_square"}
    ]
  },
  "nodes": {
    "town_square": {
      "id": "town_square",
      "name": "Town Square",
      "description": {"short": "The square.", "long": "The town square at dusk."},
      "exits": [{"key": "gate", "target_node": "south_road"}]
    },
    "south_road": {
      "id": "south_road",
      "name": "South Road",
      "description": {"short": "The road.", "long": "A rutted road."},
      "exits": [{"key": "back", "target_node": "town_square"}]
    }
  }
}`

const danglingExitJSON = `{
  "campaign": {
    "id": "broken",
    "title": "Broken",
    "chapters": [{"id": "ch1", "title": "One", "starting_node": "a"}]
  },
  "nodes": {
    "a": {
      "id": "a",
      "name": "A",
      "description": {"short": "a", "long": "a"},
      "exits": [{"key": "east", "target_node": "nowhere"}]
    }
  }
}`

func writeCampaign(t *testing.T, dir, name, content string) {
	t.Helper()
	campaignsDir := filepath.Join(dir, "campaigns")
	if err := os.MkdirAll(campaignsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(campaignsDir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGetCampaign(t *testing.T) {
	dir := t.TempDir()
	writeCampaign(t, dir, "sandpoint.json", validCampaignJSON)
	s := NewRedisStorage("localhost:0", dir, testLogger())

	g, err := s.GetCampaign(context.Background(), "sandpoint.json")
	if err != nil {
		t.Fatalf("Failed to load campaign: %v", err)
	}
	if g == nil {
		t.Fatal("Expected non-nil graph")
	}
	if g.Campaign.ID != "sandpoint" {
		t.Errorf("Expected campaign id sandpoint, got %s", g.Campaign.ID)
	}
	if _, ok := g.Node("town_square"); !ok {
		t.Error("Expected town_square node in graph")
	}
}

func TestGetCampaignMissing(t *testing.T) {
	s := NewRedisStorage("localhost:0", t.TempDir(), testLogger())
	g, err := s.GetCampaign(context.Background(), "ghost.json")
	if err != nil {
		t.Fatalf("Missing campaign should not be an error: %v", err)
	}
	if g != nil {
		t.Error("Expected nil for a missing campaign")
	}
}

func TestGetCampaignValidationErrors(t *testing.T) {
	dir := t.TempDir()
	writeCampaign(t, dir, "broken.json", danglingExitJSON)
	s := NewRedisStorage("localhost:0", dir, testLogger())

	if _, err := s.GetCampaign(context.Background(), "broken.json"); err == nil {
		t.Error("Dangling exit target should fail validation")
	}
}

func TestListCampaigns(t *testing.T) {
	dir := t.TempDir()
	writeCampaign(t, dir, "sandpoint.json", validCampaignJSON)
	writeCampaign(t, dir, "notes.txt", "not json")
	s := NewRedisStorage("localhost:0", dir, testLogger())

	campaigns, err := s.ListCampaigns(context.Background())
	if err != nil {
		t.Fatalf("Failed to list campaigns: %v", err)
	}
	if len(campaigns) != 1 {
		t.Fatalf("Expected 1 campaign, got %d", len(campaigns))
	}
	if campaigns["Trouble in Sandpoint"] != "sandpoint.json" {
		t.Errorf("Unexpected listing: %v", campaigns)
	}
}
