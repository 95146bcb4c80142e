package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/campaign-engine/pkg/campaign"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <campaign.json> [more.json ...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		v := &CampaignValidator{}
		if err := v.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

type CampaignValidator struct {
	errors []string
}

func (v *CampaignValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("campaign file must have .json extension: %s", baseName)
	}
	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidID(nameWithoutExt) {
		return fmt.Errorf("campaign filename '%s' must be lowercase snake_case (e.g., my_campaign.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var g campaign.Graph
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&g); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	v.validateIDs(&g)

	errs, warnings := g.Validate()
	for _, e := range errs {
		v.addError(e)
	}
	for _, w := range warnings {
		fmt.Printf("  warning: %s\n", w)
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *CampaignValidator) validateIDs(g *campaign.Graph) {
	v.validateIDFormat("campaign ID", g.Campaign.ID)
	for _, ch := range g.Campaign.Chapters {
		v.validateIDFormat("chapter ID", ch.ID)
	}
	for questID := range g.Campaign.Quests {
		v.validateIDFormat("quest ID", questID)
	}
	for nodeID, n := range g.Nodes {
		v.validateIDFormat("node ID", nodeID)
		for _, exit := range n.Exits {
			v.validateIDFormat("exit key", exit.Key)
		}
		for actionID := range n.Actions {
			v.validateIDFormat("significant action ID", actionID)
		}
	}
	for npcID, n := range g.NPCs {
		v.validateIDFormat("NPC ID", npcID)
		for topicID := range n.Knowledge {
			v.validateIDFormat("knowledge topic ID", topicID)
		}
	}
	for encID := range g.Encounters {
		v.validateIDFormat("encounter ID", encID)
	}
	for monsterID := range g.Monsters {
		v.validateIDFormat("monster ID", monsterID)
	}
}

func (v *CampaignValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}
	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *CampaignValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}
