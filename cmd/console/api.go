package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/jwebster45206/campaign-engine/pkg/actor"
	"github.com/jwebster45206/campaign-engine/pkg/resolver"
	"github.com/jwebster45206/campaign-engine/pkg/state"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func listCampaigns(client *http.Client, baseURL string) ([]string, map[string]string, error) {
	resp, err := client.Get(baseURL + "/v1/campaigns")
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	var campaignMap map[string]string
	if err := json.Unmarshal(body, &campaignMap); err != nil {
		return nil, nil, err
	}

	var titles []string
	for title := range campaignMap {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles, campaignMap, nil
}

// CreateSessionRequest matches the API request structure.
type CreateSessionRequest struct {
	Campaign  string               `json:"campaign"`
	Character *actor.CharacterSpec `json:"character"`
	Seed      int64                `json:"seed,omitempty"`
}

func createSession(client *http.Client, baseURL, campaignFile string, character *actor.CharacterSpec) (*state.GameState, error) {
	req := CreateSessionRequest{
		Campaign:  campaignFile,
		Character: character,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/sessions",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to create session: %s", errorResp.Error)
	}

	var gs state.GameState
	if err := json.Unmarshal(body, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &gs, nil
}

// ActionResponse matches the API action response structure.
type ActionResponse struct {
	Outcome  *resolver.Outcome `json:"outcome"`
	Snapshot *state.Snapshot   `json:"snapshot"`
}

func sendIntent(client *http.Client, baseURL string, sessionID uuid.UUID, intent resolver.Intent) (*ActionResponse, error) {
	jsonData, err := json.Marshal(intent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal intent: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/sessions/%s/action", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// 422 is a playable rejection: the engine refused the intent and the
	// session is unchanged. Surface the reason as prose, not a failure.
	if resp.StatusCode == http.StatusUnprocessableEntity {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return &ActionResponse{Outcome: &resolver.Outcome{Kind: "rejected", Prompt: errorResp.Error}}, nil
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("action failed: %s", errorResp.Error)
	}

	var actionResp ActionResponse
	if err := json.Unmarshal(body, &actionResp); err != nil {
		return nil, fmt.Errorf("failed to parse action response: %w", err)
	}
	return &actionResp, nil
}

// loadCharacter reads a character spec from file, falling back to the
// built-in pregen when no file is configured.
func loadCharacter(path string) (*actor.CharacterSpec, error) {
	if path == "" {
		return defaultCharacter(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read character file: %w", err)
	}
	var spec actor.CharacterSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse character file: %w", err)
	}
	return &spec, nil
}

func defaultCharacter() *actor.CharacterSpec {
	return &actor.CharacterSpec{
		ID:    "wanderer",
		Name:  "The Wanderer",
		Class: "fighter",
		Race:  "human",
		Level: 1,
		Stats: actor.AbilityScores{
			Strength:     14,
			Dexterity:    13,
			Constitution: 14,
			Intelligence: 10,
			Wisdom:       12,
			Charisma:     10,
		},
		HP:               12,
		MaxHP:            12,
		AC:               14,
		Speed:            30,
		ProficiencyBonus: 2,
		Proficiencies: actor.Proficiencies{
			Skills: []string{"athletics", "perception"},
		},
		Inventory: map[string]int{
			"torch":   2,
			"rations": 3,
		},
		CarryLimit: 12,
		Currency:   actor.Currency{Gold: 10},
	}
}
