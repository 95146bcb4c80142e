package campaign

// NodeDescription holds the short and long description for a node.
// The long form is used on first visit, the short form on returns.
type NodeDescription struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

// NPCPresence records that an NPC is at a node.
type NPCPresence struct {
	NPCID    string   `json:"npc_id"`
	Role     string   `json:"role,omitempty"` // e.g. "quest_giver", "merchant", "ambient"
	Required bool     `json:"required,omitempty"`
	Topics   []string `json:"topics,omitempty"`
}

// SoftGate is advisory: when its condition evaluates true the move
// still succeeds, but the result carries the warning for the caller to
// surface. It never blocks.
type SoftGate struct {
	Condition string `json:"condition"`
	Warning   string `json:"warning"`
}

// Exit is a directed edge to another node, optionally gated. The gate
// may be a boolean flag expression or flag/item requirement lists; all
// must hold for the exit to be open.
type Exit struct {
	Key           string    `json:"key"`
	TargetNode    string    `json:"target_node"`
	Description   string    `json:"description,omitempty"`
	Condition     string    `json:"condition,omitempty"`
	RequiresFlags []string  `json:"requires_flags,omitempty"`
	RequiresItems []string  `json:"requires_items,omitempty"`
	BlockedText   string    `json:"blocked_text,omitempty"`
	SoftGate      *SoftGate `json:"soft_gate,omitempty"`
}

// RelationshipRequirement is a minimum standing with an NPC.
type RelationshipRequirement struct {
	MinDisposition int `json:"min_disposition,omitempty"`
	MinTrust       int `json:"min_trust,omitempty"`
}

// RelationshipDelta is a change to apply to a relationship.
type RelationshipDelta struct {
	Disposition int `json:"disposition,omitempty"`
	Trust       int `json:"trust,omitempty"`
}

// SignificantAction is a named, possibly one-time event at a node that
// mutates flags, quests, relationships and inventory. Effects apply
// all-or-nothing.
type SignificantAction struct {
	ID                 string                             `json:"id"`
	TriggerDescription string                             `json:"trigger_description,omitempty"`
	RequiresFlags      []string                           `json:"requires_flags,omitempty"`
	RequiresItems      map[string]int                     `json:"requires_items,omitempty"` // item id -> min quantity
	RequiresRel        map[string]RelationshipRequirement `json:"requires_relationship,omitempty"`
	SetsFlags          []string                           `json:"sets_flags,omitempty"`
	ClearsFlags        []string                           `json:"clears_flags,omitempty"`
	GrantsItems        []string                           `json:"grants_items,omitempty"`
	RemovesItems       []string                           `json:"removes_items,omitempty"`
	GrantsQuest        string                             `json:"grants_quest,omitempty"`
	CompletesObjective string                             `json:"completes_objective,omitempty"` // "quest_id.objective_id"
	UpdatesRels        map[string]RelationshipDelta       `json:"updates_relationships,omitempty"`
	GrantsXP           int                                `json:"grants_xp,omitempty"`
	Repeatable         bool                               `json:"repeatable,omitempty"`
	SuccessPrompt      string                             `json:"success_prompt,omitempty"`
	FailurePrompt      string                             `json:"failure_prompt,omitempty"`
}

// EncounterRef triggers an encounter from a node.
type EncounterRef struct {
	EncounterID   string   `json:"encounter_id"`
	Trigger       string   `json:"trigger,omitempty"` // "on_enter" or "manual"
	OnceOnly      bool     `json:"once_only,omitempty"`
	RequiresFlags []string `json:"requires_flags,omitempty"`
}

// Node is a location in the campaign graph. Exits keep their declared
// order; significant actions are keyed by id.
type Node struct {
	ID          string                        `json:"id"`
	Name        string                        `json:"name"`
	ChapterID   string                        `json:"chapter_id,omitempty"`
	Description NodeDescription               `json:"description"`
	NPCsPresent []NPCPresence                 `json:"npcs_present,omitempty"`
	Exits       []Exit                        `json:"exits,omitempty"`
	Actions     map[string]*SignificantAction `json:"significant_actions,omitempty"`
	Encounters  []EncounterRef                `json:"encounters,omitempty"`
}

// Exit returns the exit with the given key.
func (n *Node) Exit(key string) (*Exit, bool) {
	for i := range n.Exits {
		if n.Exits[i].Key == key {
			return &n.Exits[i], true
		}
	}
	return nil, false
}

// Action returns the significant action with the given id.
func (n *Node) Action(id string) (*SignificantAction, bool) {
	a, ok := n.Actions[id]
	return a, ok
}

// HasNPC reports whether the NPC is present at this node.
func (n *Node) HasNPC(npcID string) bool {
	for _, p := range n.NPCsPresent {
		if p.NPCID == npcID {
			return true
		}
	}
	return false
}
