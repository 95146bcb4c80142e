package state

import (
	"sort"

	"github.com/jwebster45206/campaign-engine/pkg/combat"
	"github.com/jwebster45206/campaign-engine/pkg/relationship"
)

// NPCView is an NPC as seen from the current node.
type NPCView struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Role     string                `json:"role,omitempty"`
	Attitude relationship.Attitude `json:"attitude"`
	Met      bool                  `json:"met"`
}

// ExitView is an exit as presented to the player.
type ExitView struct {
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
}

// QuestView is a quest with its definition and progress combined.
type QuestView struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Status              QuestStatus `json:"status"`
	Objectives          []string    `json:"objectives,omitempty"`
	CompletedObjectives []string    `json:"completed_objectives,omitempty"`
}

// CombatView summarizes an active combat for narration.
type CombatView struct {
	EncounterID string   `json:"encounter_id"`
	Round       int      `json:"round"`
	CurrentTurn string   `json:"current_turn"`
	PlayerHP    int      `json:"player_hp"`
	PlayerMaxHP int      `json:"player_max_hp"`
	Enemies     []string `json:"enemies,omitempty"`
}

// Snapshot is the narrow view of a session handed to a narrative
// generator: where the player is, who is present, what they can do,
// and how any fight stands. It deliberately omits hidden state like
// unvisited nodes and unearned knowledge.
type Snapshot struct {
	CampaignTitle string      `json:"campaign_title"`
	NodeID        string      `json:"node_id"`
	NodeName      string      `json:"node_name"`
	Description   string      `json:"description"`
	FirstVisit    bool        `json:"first_visit"`
	Exits         []ExitView  `json:"exits,omitempty"`
	NPCs          []NPCView   `json:"npcs,omitempty"`
	ActiveQuests  []QuestView `json:"active_quests,omitempty"`
	Flags         []string    `json:"flags,omitempty"`
	Combat        *CombatView `json:"combat,omitempty"`
	PlayerHP      int         `json:"player_hp"`
	PlayerMaxHP   int         `json:"player_max_hp"`
}

// Snapshot projects the current session state for the narrator.
func (m *Manager) Snapshot() (*Snapshot, error) {
	n, err := m.CurrentNode()
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		CampaignTitle: m.Graph.Campaign.Title,
		NodeID:        n.ID,
		NodeName:      n.Name,
		FirstVisit:    m.State.NodesVisited[n.ID] <= 1,
		PlayerHP:      m.State.Character.HP,
		PlayerMaxHP:   m.State.Character.MaxHP,
	}
	if snap.FirstVisit {
		snap.Description = n.Description.Long
	} else {
		snap.Description = n.Description.Short
	}

	exits, err := m.AvailableExits()
	if err != nil {
		return nil, err
	}
	for _, e := range exits {
		snap.Exits = append(snap.Exits, ExitView{Key: e.Key, Description: e.Description})
	}

	for _, p := range n.NPCsPresent {
		npc, ok := m.Graph.NPC(p.NPCID)
		if !ok {
			continue
		}
		view := NPCView{ID: npc.ID, Name: npc.Name, Role: p.Role}
		if rel, ok := m.State.Relationships[npc.ID]; ok {
			view.Attitude = npc.Attitude(rel.Disposition)
			view.Met = rel.Met
		} else {
			view.Attitude = npc.Attitude(npc.BaseDisposition)
		}
		snap.NPCs = append(snap.NPCs, view)
	}

	for id, q := range m.State.Quests {
		if q.Status != QuestActive {
			continue
		}
		def, _ := m.Graph.Quest(id)
		snap.ActiveQuests = append(snap.ActiveQuests, QuestView{
			ID:                  id,
			Name:                def.Name,
			Status:              q.Status,
			Objectives:          def.Objectives,
			CompletedObjectives: q.CompletedObjectives,
		})
	}

	sort.Slice(snap.ActiveQuests, func(i, j int) bool {
		return snap.ActiveQuests[i].ID < snap.ActiveQuests[j].ID
	})

	for f := range m.State.Flags {
		snap.Flags = append(snap.Flags, f)
	}
	sort.Strings(snap.Flags)

	if c := m.State.Combat; c != nil && m.State.InCombat() {
		view := &CombatView{
			EncounterID: c.EncounterID,
			Round:       c.Round,
		}
		if cur := c.Current(); cur != nil {
			view.CurrentTurn = cur.ID
		}
		if p, ok := c.Combatant(combat.PlayerID); ok {
			view.PlayerHP = p.HP
			view.PlayerMaxHP = p.MaxHP
		}
		for _, e := range c.LivingEnemies() {
			view.Enemies = append(view.Enemies, e.Name)
		}
		snap.Combat = view
	}
	return snap, nil
}
