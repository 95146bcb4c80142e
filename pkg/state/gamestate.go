package state

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/campaign-engine/pkg/actor"
	"github.com/jwebster45206/campaign-engine/pkg/combat"
	"github.com/jwebster45206/campaign-engine/pkg/conditionals"
	"github.com/jwebster45206/campaign-engine/pkg/relationship"
)

// QuestStatus is the lifecycle stage of a quest within a session.
type QuestStatus string

const (
	QuestNotStarted QuestStatus = "not_started"
	QuestActive     QuestStatus = "active"
	QuestCompleted  QuestStatus = "completed"
	QuestFailed     QuestStatus = "failed"
)

// Quest tracks one quest's progress for a session. Quests absent from
// the map are not started.
type Quest struct {
	ID                  string      `json:"id"`
	Status              QuestStatus `json:"status"`
	CompletedObjectives []string    `json:"completed_objectives,omitempty"`
}

// ObjectiveDone reports whether the named objective has been completed.
func (q *Quest) ObjectiveDone(objective string) bool {
	for _, o := range q.CompletedObjectives {
		if o == objective {
			return true
		}
	}
	return false
}

// Location is the player's position in the campaign graph.
type Location struct {
	ChapterID    string `json:"chapter_id"`
	NodeID       string `json:"node_id"`
	PreviousNode string `json:"previous_node,omitempty"`
}

// ActionRecord is one entry in the session's action log.
type ActionRecord struct {
	Timestamp time.Time `json:"timestamp"`
	NodeID    string    `json:"node_id"`
	Kind      string    `json:"kind"` // "move", "action", "check", "combat", "talk"
	Detail    string    `json:"detail"`
}

// GameState is the complete persistent state of one campaign session.
// Everything here survives a JSON round trip unchanged; transient
// values (loaded campaign data, rollers) live on the Manager instead.
type GameState struct {
	ID         uuid.UUID `json:"id"`
	CampaignID string    `json:"campaign_id"`
	// CampaignFile is the storage filename the campaign was loaded
	// from, kept so the graph can be reloaded alongside the session.
	CampaignFile string `json:"campaign_file,omitempty"`
	Seed         int64  `json:"seed,omitempty"`

	Character *actor.CharacterSpec `json:"character"`
	Location  Location             `json:"location"`

	Flags         conditionals.FlagSet                  `json:"flags,omitempty"`
	Quests        map[string]*Quest                     `json:"quests,omitempty"`
	Relationships map[string]*relationship.Relationship `json:"relationships,omitempty"`
	Combat        *combat.State                         `json:"combat,omitempty"`

	// CompletedActions holds ids of non-repeatable significant actions
	// already executed.
	CompletedActions map[string]bool `json:"completed_actions,omitempty"`

	// Warned holds "node/exit" keys for soft gates that have already
	// fired, so repeat warnings can be distinguished from first ones.
	Warned map[string]bool `json:"warned,omitempty"`

	// CompletedEncounters holds ids of once-only encounters already won.
	CompletedEncounters map[string]bool `json:"completed_encounters,omitempty"`

	// NodesVisited counts visits per node; the first visit gets the
	// long description, later visits the short one.
	NodesVisited map[string]int `json:"nodes_visited,omitempty"`

	ActionHistory []ActionRecord `json:"action_history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGameState creates a fresh session for the given campaign and
// character, positioned at the campaign's starting node.
func NewGameState(campaignID string, character *actor.CharacterSpec, chapterID, nodeID string, seed int64) *GameState {
	now := time.Now().UTC()
	return &GameState{
		ID:         uuid.New(),
		CampaignID: campaignID,
		Seed:       seed,
		Character:  character,
		Location: Location{
			ChapterID: chapterID,
			NodeID:    nodeID,
		},
		Flags:               make(conditionals.FlagSet),
		Quests:              make(map[string]*Quest),
		Relationships:       make(map[string]*relationship.Relationship),
		CompletedActions:    make(map[string]bool),
		Warned:              make(map[string]bool),
		CompletedEncounters: make(map[string]bool),
		NodesVisited:        map[string]int{nodeID: 1},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// ensureMaps replaces nil collections with empty ones. The maps are
// omitted from the JSON while empty, so a reloaded session has to get
// them rebuilt before the first write.
func (gs *GameState) ensureMaps() {
	if gs.Flags == nil {
		gs.Flags = make(conditionals.FlagSet)
	}
	if gs.Quests == nil {
		gs.Quests = make(map[string]*Quest)
	}
	if gs.Relationships == nil {
		gs.Relationships = make(map[string]*relationship.Relationship)
	}
	if gs.CompletedActions == nil {
		gs.CompletedActions = make(map[string]bool)
	}
	if gs.Warned == nil {
		gs.Warned = make(map[string]bool)
	}
	if gs.CompletedEncounters == nil {
		gs.CompletedEncounters = make(map[string]bool)
	}
	if gs.NodesVisited == nil {
		gs.NodesVisited = make(map[string]int)
	}
}

// UnmarshalJSON decodes a persisted snapshot and restores the empty
// maps the encoder dropped, so a fresh save round-trips to a state
// that is safe to mutate.
func (gs *GameState) UnmarshalJSON(data []byte) error {
	type alias GameState
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*gs = GameState(a)
	gs.ensureMaps()
	return nil
}

// Quest returns the session's progress for a quest id, or a
// not-started placeholder when it has never been touched.
func (gs *GameState) Quest(id string) *Quest {
	if q, ok := gs.Quests[id]; ok {
		return q
	}
	return &Quest{ID: id, Status: QuestNotStarted}
}

// InCombat reports whether a combat encounter is currently active.
func (gs *GameState) InCombat() bool {
	return gs.Combat != nil && gs.Combat.Phase == combat.PhaseActive
}

// Record appends an entry to the action log.
func (gs *GameState) Record(kind, detail string) {
	gs.ActionHistory = append(gs.ActionHistory, ActionRecord{
		Timestamp: time.Now().UTC(),
		NodeID:    gs.Location.NodeID,
		Kind:      kind,
		Detail:    detail,
	})
	gs.UpdatedAt = time.Now().UTC()
}
