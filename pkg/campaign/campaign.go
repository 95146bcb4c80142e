// Package campaign defines the static campaign graph: chapters, nodes,
// exits, significant actions, NPCs and encounters. The graph is
// produced once by the loader, shared read-only across sessions, and
// all cross references are stable string ids resolved through lookup
// maps at access time.
package campaign

import (
	"fmt"

	"github.com/jwebster45206/campaign-engine/pkg/actor"
)

// Campaign is the top-level campaign definition.
type Campaign struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Chapters    []Chapter           `json:"chapters"`
	Quests      map[string]QuestDef `json:"quests,omitempty"`
}

// Chapter is a major story section containing multiple nodes.
type Chapter struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary,omitempty"`
	Nodes        []string `json:"nodes,omitempty"`
	StartingNode string   `json:"starting_node"`
}

// QuestDef is the static definition of a quest; runtime status lives in
// the session state.
type QuestDef struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Objectives  []string `json:"objectives,omitempty"`
}

// Graph is the fully-resolved campaign graph handed to the state
// manager. Immutable after load.
type Graph struct {
	Campaign   Campaign                  `json:"campaign"`
	Nodes      map[string]*Node          `json:"nodes"`
	NPCs       map[string]*NPC           `json:"npcs,omitempty"`
	Encounters map[string]*Encounter     `json:"encounters,omitempty"`
	Monsters   map[string]*actor.EnemyTemplate `json:"monsters,omitempty"`
}

// StartingChapter returns the campaign's designated starting chapter.
func (g *Graph) StartingChapter() (*Chapter, error) {
	if len(g.Campaign.Chapters) == 0 {
		return nil, fmt.Errorf("campaign %q has no chapters", g.Campaign.ID)
	}
	return &g.Campaign.Chapters[0], nil
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

// NPC looks up an NPC by id.
func (g *Graph) NPC(id string) (*NPC, bool) {
	n, ok := g.NPCs[id]
	return n, ok
}

// Encounter looks up an encounter by id.
func (g *Graph) Encounter(id string) (*Encounter, bool) {
	e, ok := g.Encounters[id]
	return e, ok
}

// Monster looks up an enemy template by id.
func (g *Graph) Monster(id string) (*actor.EnemyTemplate, bool) {
	m, ok := g.Monsters[id]
	return m, ok
}

// Quest looks up a quest definition by id.
func (g *Graph) Quest(id string) (QuestDef, bool) {
	q, ok := g.Campaign.Quests[id]
	return q, ok
}
