package state

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/campaign-engine/pkg/actor"
	"github.com/jwebster45206/campaign-engine/pkg/campaign"
	"github.com/jwebster45206/campaign-engine/pkg/combat"
	"github.com/jwebster45206/campaign-engine/pkg/conditionals"
	"github.com/jwebster45206/campaign-engine/pkg/dice"
	"github.com/jwebster45206/campaign-engine/pkg/relationship"
)

// Manager applies game rules to one session's state against a loaded
// campaign graph. The graph is shared read-only; the GameState is owned
// by exactly one Manager at a time, so no internal locking is needed.
// Every mutating operation validates fully before applying, so a
// returned error means the state is unchanged.
type Manager struct {
	Graph *campaign.Graph
	State *GameState
	// Character is the runtime player built from the persisted spec.
	// HP, AC and combat modifiers are read through its d20 Actor.
	Character *actor.Character
	Roller    dice.Roller
}

// NewManager wraps an existing session. A nil roller gets a seeded
// one derived from the stored seed and the action count, so resuming
// a save does not replay the dice of its first request while the same
// action sequence still reproduces the same rolls.
func NewManager(g *campaign.Graph, gs *GameState, r dice.Roller) (*Manager, error) {
	if r == nil {
		r = dice.NewRoller(gs.Seed + int64(len(gs.ActionHistory)))
	}
	gs.ensureMaps()
	ch, err := actor.NewCharacterFromSpec(gs.Character)
	if err != nil {
		return nil, fmt.Errorf("failed to build character: %w", err)
	}
	return &Manager{Graph: g, State: gs, Character: ch, Roller: r}, nil
}

// NewSession creates a fresh session at the campaign's starting node.
func NewSession(g *campaign.Graph, character *actor.CharacterSpec, seed int64) (*Manager, error) {
	ch, err := g.StartingChapter()
	if err != nil {
		return nil, err
	}
	if _, ok := g.Node(ch.StartingNode); !ok {
		return nil, &DataIntegrityError{Kind: "node", Ref: ch.StartingNode}
	}
	gs := NewGameState(g.Campaign.ID, character, ch.ID, ch.StartingNode, seed)
	return NewManager(g, gs, nil)
}

// CurrentNode resolves the session's location in the graph. A missing
// node means a bad save or corrupted campaign data.
func (m *Manager) CurrentNode() (*campaign.Node, error) {
	n, ok := m.Graph.Node(m.State.Location.NodeID)
	if !ok {
		return nil, &DataIntegrityError{Kind: "node", Ref: m.State.Location.NodeID}
	}
	return n, nil
}

// DescribeCurrentNode returns the long description on first visit and
// the short one on returns.
func (m *Manager) DescribeCurrentNode() (string, error) {
	n, err := m.CurrentNode()
	if err != nil {
		return "", err
	}
	if m.State.NodesVisited[n.ID] <= 1 {
		return n.Description.Long, nil
	}
	return n.Description.Short, nil
}

// exitOpen checks an exit's hard gates against the current state.
func (m *Manager) exitOpen(e *campaign.Exit) bool {
	if !conditionals.Evaluate(e.Condition, m.State.Flags) {
		return false
	}
	for _, f := range e.RequiresFlags {
		if !m.State.Flags.Has(f) {
			return false
		}
	}
	for _, item := range e.RequiresItems {
		if !m.State.Character.HasItem(item, 1) {
			return false
		}
	}
	return true
}

// AvailableExits returns the open exits of the current node in their
// declared order. Ungated exits are always included.
func (m *Manager) AvailableExits() ([]campaign.Exit, error) {
	n, err := m.CurrentNode()
	if err != nil {
		return nil, err
	}
	open := make([]campaign.Exit, 0, len(n.Exits))
	for i := range n.Exits {
		if m.exitOpen(&n.Exits[i]) {
			open = append(open, n.Exits[i])
		}
	}
	return open, nil
}

// MoveResult reports a completed move. Warning is set when a soft gate
// fired; FirstWarning distinguishes the first time from repeats.
// EncounterID is set when entering the node triggers an encounter.
type MoveResult struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Description  string `json:"description"`
	Warning      string `json:"warning,omitempty"`
	FirstWarning bool   `json:"first_warning,omitempty"`
	EncounterID  string `json:"encounter_id,omitempty"`
}

// MoveToNode follows an exit of the current node. Hard gates block the
// move; soft gates attach a warning but never block.
func (m *Manager) MoveToNode(exitKey string) (*MoveResult, error) {
	n, err := m.CurrentNode()
	if err != nil {
		return nil, err
	}
	if m.State.InCombat() {
		return nil, newValidationError(CodeConditionNotMet, "cannot travel during combat")
	}

	exit, ok := n.Exit(exitKey)
	if !ok {
		return nil, newValidationError(CodeExitNotFound, "no exit %q from %s", exitKey, n.ID)
	}
	if !m.exitOpen(exit) {
		msg := exit.BlockedText
		if msg == "" {
			msg = fmt.Sprintf("the way %s is closed", exitKey)
		}
		return nil, newValidationError(CodeConditionNotMet, "%s", msg)
	}
	target, ok := m.Graph.Node(exit.TargetNode)
	if !ok {
		return nil, &DataIntegrityError{Kind: "node", Ref: exit.TargetNode}
	}

	res := &MoveResult{From: n.ID, To: target.ID}
	if sg := exit.SoftGate; sg != nil && conditionals.Evaluate(sg.Condition, m.State.Flags) {
		key := n.ID + "/" + exit.Key
		res.Warning = sg.Warning
		res.FirstWarning = !m.State.Warned[key]
		m.State.Warned[key] = true
	}

	m.State.Location.PreviousNode = n.ID
	m.State.Location.NodeID = target.ID
	if target.ChapterID != "" {
		m.State.Location.ChapterID = target.ChapterID
	}
	m.State.NodesVisited[target.ID]++
	if m.State.NodesVisited[target.ID] == 1 {
		res.Description = target.Description.Long
	} else {
		res.Description = target.Description.Short
	}
	res.EncounterID = m.pendingEncounter(target)
	m.State.Record("move", fmt.Sprintf("%s -> %s", n.ID, target.ID))
	return res, nil
}

// pendingEncounter returns the first on_enter encounter of a node whose
// requirements hold and which has not already been cleared.
func (m *Manager) pendingEncounter(n *campaign.Node) string {
	for _, ref := range n.Encounters {
		if ref.Trigger != "" && ref.Trigger != "on_enter" {
			continue
		}
		if ref.OnceOnly && m.State.CompletedEncounters[ref.EncounterID] {
			continue
		}
		ok := true
		for _, f := range ref.RequiresFlags {
			if !m.State.Flags.Has(f) {
				ok = false
				break
			}
		}
		if ok {
			return ref.EncounterID
		}
	}
	return ""
}

// Flag operations.

func (m *Manager) SetFlag(name string)   { m.State.Flags[name] = true }
func (m *Manager) UnsetFlag(name string) { delete(m.State.Flags, name) }
func (m *Manager) HasFlag(name string) bool {
	return m.State.Flags.Has(name)
}

// StartQuest moves a quest to active. Starting a quest that is already
// active or completed is a no-op; restarting a failed quest is not
// legal. Unknown quest ids point at broken campaign data.
func (m *Manager) StartQuest(id string) error {
	if _, ok := m.Graph.Quest(id); !ok {
		return &DataIntegrityError{Kind: "quest", Ref: id}
	}
	switch m.State.Quest(id).Status {
	case QuestActive, QuestCompleted:
		return nil
	case QuestFailed:
		return newValidationError(CodeInvalidQuestTransition, "quest %s has failed and cannot restart", id)
	}
	m.State.Quests[id] = &Quest{ID: id, Status: QuestActive}
	m.State.Record("quest", "started "+id)
	return nil
}

// CompleteQuest moves an active quest to completed.
func (m *Manager) CompleteQuest(id string) error {
	return m.finishQuest(id, QuestCompleted)
}

// FailQuest moves an active quest to failed.
func (m *Manager) FailQuest(id string) error {
	return m.finishQuest(id, QuestFailed)
}

func (m *Manager) finishQuest(id string, status QuestStatus) error {
	if _, ok := m.Graph.Quest(id); !ok {
		return &DataIntegrityError{Kind: "quest", Ref: id}
	}
	q, ok := m.State.Quests[id]
	if !ok || q.Status != QuestActive {
		return newValidationError(CodeInvalidQuestTransition,
			"quest %s is %s, not active", id, m.State.Quest(id).Status)
	}
	q.Status = status
	m.State.Record("quest", fmt.Sprintf("%s %s", id, status))
	return nil
}

// CompleteObjective marks one objective of an active quest as done.
// Already-done objectives are a no-op.
func (m *Manager) CompleteObjective(questID, objective string) error {
	q, ok := m.State.Quests[questID]
	if !ok || q.Status != QuestActive {
		return newValidationError(CodeInvalidQuestTransition,
			"quest %s is %s, not active", questID, m.State.Quest(questID).Status)
	}
	if q.ObjectiveDone(objective) {
		return nil
	}
	q.CompletedObjectives = append(q.CompletedObjectives, objective)
	return nil
}

// Relationship returns the session's standing with an NPC, creating it
// lazily from the NPC's base disposition on first access.
func (m *Manager) Relationship(npcID string) (*relationship.Relationship, error) {
	if rel, ok := m.State.Relationships[npcID]; ok {
		return rel, nil
	}
	npc, ok := m.Graph.NPC(npcID)
	if !ok {
		return nil, &DataIntegrityError{Kind: "npc", Ref: npcID}
	}
	rel := relationship.New(npcID, npc.BaseDisposition)
	m.State.Relationships[npcID] = rel
	return rel, nil
}

// ModifyRelationship applies disposition and trust deltas, clamping
// both, and appends the event to the relationship history.
func (m *Manager) ModifyRelationship(npcID string, dispositionDelta, trustDelta int, event string) error {
	rel, err := m.Relationship(npcID)
	if err != nil {
		return err
	}
	rel.Modify(dispositionDelta, trustDelta, event)
	m.State.Record("relationship", fmt.Sprintf("%s %+d/%+d (%s)", npcID, dispositionDelta, trustDelta, event))
	return nil
}

// NPCAttitude derives the attitude tier for an NPC from the current
// disposition, honoring the NPC's configured thresholds.
func (m *Manager) NPCAttitude(npcID string) (relationship.Attitude, error) {
	npc, ok := m.Graph.NPC(npcID)
	if !ok {
		return "", &DataIntegrityError{Kind: "npc", Ref: npcID}
	}
	rel, err := m.Relationship(npcID)
	if err != nil {
		return "", err
	}
	return npc.Attitude(rel.Disposition), nil
}

// Greet returns the NPC's greeting line. A first meeting prefers the
// dedicated first-meeting variant; afterwards the attitude tier picks
// the variant. Greeting marks the NPC as met and counts an interaction.
func (m *Manager) Greet(npcID string) (string, error) {
	npc, ok := m.Graph.NPC(npcID)
	if !ok {
		return "", &DataIntegrityError{Kind: "npc", Ref: npcID}
	}
	rel, err := m.Relationship(npcID)
	if err != nil {
		return "", err
	}

	var text string
	if !rel.Met {
		text, _ = npc.Variant(campaign.GreetingFirst)
	}
	if text == "" {
		text, _ = npc.Variant(string(npc.Attitude(rel.Disposition)))
	}
	rel.Met = true
	rel.RecordInteraction("")
	m.State.Record("talk", "greeted "+npcID)
	return text, nil
}

// AskResult is the outcome of asking an NPC about a topic.
type AskResult struct {
	NPCID       string `json:"npc_id"`
	Topic       string `json:"topic"`
	Shared      bool   `json:"shared"`
	Information string `json:"information,omitempty"`
}

// AskAbout asks an NPC about a knowledge topic. Unknown topics and
// unmet share conditions are a normal non-shared result, never an
// error; the interaction is recorded either way.
func (m *Manager) AskAbout(npcID, topic string) (*AskResult, error) {
	npc, ok := m.Graph.NPC(npcID)
	if !ok {
		return nil, &DataIntegrityError{Kind: "npc", Ref: npcID}
	}
	rel, err := m.Relationship(npcID)
	if err != nil {
		return nil, err
	}

	res := &AskResult{NPCID: npcID, Topic: topic}
	if npc.CanShare(topic, rel.Trust, m.State.Flags) {
		res.Shared = true
		res.Information = npc.Knowledge[topic].Information
	}
	rel.Met = true
	rel.RecordInteraction(topic)
	m.State.Record("talk", fmt.Sprintf("asked %s about %s", npcID, topic))
	return res, nil
}

// ActionResult reports a completed significant action.
type ActionResult struct {
	ActionID     string   `json:"action_id"`
	Prompt       string   `json:"prompt,omitempty"`
	FlagsSet     []string `json:"flags_set,omitempty"`
	FlagsCleared []string `json:"flags_cleared,omitempty"`
	ItemsGained  []string `json:"items_gained,omitempty"`
	ItemsLost    []string `json:"items_lost,omitempty"`
	QuestStarted string   `json:"quest_started,omitempty"`
	XPGained     int      `json:"xp_gained,omitempty"`
}

// ExecuteSignificantAction runs a named action at the current node.
// All requirements are validated before any effect applies, so a
// failure leaves the session untouched.
func (m *Manager) ExecuteSignificantAction(actionID string) (*ActionResult, error) {
	n, err := m.CurrentNode()
	if err != nil {
		return nil, err
	}
	a, ok := n.Action(actionID)
	if !ok {
		return nil, newValidationError(CodeActionNotFound, "no action %q at %s", actionID, n.ID)
	}
	if !a.Repeatable && m.State.CompletedActions[a.ID] {
		return nil, newValidationError(CodeAlreadyCompleted, "action %q already done", a.ID)
	}

	for _, f := range a.RequiresFlags {
		if !m.State.Flags.Has(f) {
			return nil, newValidationError(CodeRequirementNotMet, "missing flag %q", f)
		}
	}
	for item, qty := range a.RequiresItems {
		if qty <= 0 {
			qty = 1
		}
		if !m.State.Character.HasItem(item, qty) {
			return nil, newValidationError(CodeRequirementNotMet, "missing item %q x%d", item, qty)
		}
	}
	for item, qty := range itemCounts(a.RemovesItems) {
		if !m.State.Character.HasItem(item, qty) {
			return nil, newValidationError(CodeRequirementNotMet, "missing item %q to give up", item)
		}
	}
	for npcID, req := range a.RequiresRel {
		npc, ok := m.Graph.NPC(npcID)
		if !ok {
			return nil, &DataIntegrityError{Kind: "npc", Ref: npcID}
		}
		// Read-only threshold check: fall back to the NPC's defaults
		// rather than lazily creating a record for a failing action.
		disposition, trust := npc.BaseDisposition, relationship.DefaultTrust
		if rel, ok := m.State.Relationships[npcID]; ok {
			disposition, trust = rel.Disposition, rel.Trust
		}
		if disposition < req.MinDisposition || trust < req.MinTrust {
			return nil, newValidationError(CodeRequirementNotMet,
				"%s does not think well enough of you", npcID)
		}
	}
	// Cross-reference checks before any mutation.
	if a.GrantsQuest != "" {
		if _, ok := m.Graph.Quest(a.GrantsQuest); !ok {
			return nil, &DataIntegrityError{Kind: "quest", Ref: a.GrantsQuest}
		}
		if m.State.Quest(a.GrantsQuest).Status == QuestFailed {
			return nil, newValidationError(CodeInvalidQuestTransition,
				"quest %s has failed and cannot restart", a.GrantsQuest)
		}
	}
	for npcID := range a.UpdatesRels {
		if _, ok := m.Graph.NPC(npcID); !ok {
			return nil, &DataIntegrityError{Kind: "npc", Ref: npcID}
		}
	}
	net := len(a.GrantsItems) - len(a.RemovesItems)
	if net > 0 && !m.State.Character.CanCarry(net) {
		return nil, newValidationError(CodeRequirementNotMet, "cannot carry any more")
	}

	res := &ActionResult{ActionID: a.ID, Prompt: a.SuccessPrompt}
	for _, f := range a.SetsFlags {
		m.State.Flags[f] = true
		res.FlagsSet = append(res.FlagsSet, f)
	}
	for _, f := range a.ClearsFlags {
		delete(m.State.Flags, f)
		res.FlagsCleared = append(res.FlagsCleared, f)
	}
	for _, item := range a.RemovesItems {
		m.State.Character.RemoveItem(item, 1)
		res.ItemsLost = append(res.ItemsLost, item)
	}
	for _, item := range a.GrantsItems {
		m.State.Character.AddItem(item, 1)
		res.ItemsGained = append(res.ItemsGained, item)
	}
	if a.GrantsQuest != "" && m.State.Quest(a.GrantsQuest).Status == QuestNotStarted {
		m.State.Quests[a.GrantsQuest] = &Quest{ID: a.GrantsQuest, Status: QuestActive}
		res.QuestStarted = a.GrantsQuest
	}
	if a.CompletesObjective != "" {
		if questID, objective, ok := strings.Cut(a.CompletesObjective, "."); ok {
			// Best effort: the quest may not be active yet.
			_ = m.completeObjectiveIfActive(questID, objective)
		}
	}
	for npcID, delta := range a.UpdatesRels {
		rel, _ := m.Relationship(npcID)
		rel.Modify(delta.Disposition, delta.Trust, "action:"+a.ID)
	}
	if a.GrantsXP > 0 {
		m.State.Character.XP += a.GrantsXP
		res.XPGained = a.GrantsXP
	}
	if !a.Repeatable {
		m.State.CompletedActions[a.ID] = true
	}
	m.State.Record("action", a.ID)
	return res, nil
}

func (m *Manager) completeObjectiveIfActive(questID, objective string) error {
	q, ok := m.State.Quests[questID]
	if !ok || q.Status != QuestActive || q.ObjectiveDone(objective) {
		return nil
	}
	q.CompletedObjectives = append(q.CompletedObjectives, objective)
	return nil
}

func itemCounts(items []string) map[string]int {
	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[item]++
	}
	return counts
}

// StartCombat spawns an encounter's enemies and rolls initiative.
func (m *Manager) StartCombat(encounterID string) (*combat.State, error) {
	if m.State.InCombat() {
		return nil, newValidationError(CodeCombatAlreadyActive,
			"already fighting %s", m.State.Combat.EncounterID)
	}
	enc, ok := m.Graph.Encounter(encounterID)
	if !ok {
		return nil, &DataIntegrityError{Kind: "encounter", Ref: encounterID}
	}

	var enemies []*actor.Enemy
	for _, spec := range enc.Enemies {
		tpl, ok := m.Graph.Monster(spec.Type)
		if !ok {
			return nil, &DataIntegrityError{Kind: "monster", Ref: spec.Type}
		}
		count := spec.Count
		if count <= 0 {
			count = 1
		}
		for i := 1; i <= count; i++ {
			enemies = append(enemies, actor.SpawnEnemy(tpl, i, spec.HPOverride))
		}
	}

	m.State.Combat = combat.Start(m.Roller, enc, m.Character, enemies)
	m.State.Record("combat", "started "+encounterID)
	return m.State.Combat, nil
}

// CombatReward is what ending a victorious combat paid out.
type CombatReward struct {
	XP    int      `json:"xp,omitempty"`
	Gold  int      `json:"gold,omitempty"`
	Items []string `json:"items,omitempty"`
}

// EndCombat closes out a finished combat. Victory pays the encounter's
// rewards and syncs the player's HP; defeat and fleeing sync HP only.
// Ending a still-active combat is an error.
func (m *Manager) EndCombat() (*CombatReward, error) {
	c := m.State.Combat
	if c == nil {
		return nil, newValidationError(CodeNotInCombat, "no combat to end")
	}
	if c.Phase == combat.PhaseActive {
		return nil, newValidationError(CodeConditionNotMet, "combat is still active")
	}

	if p, ok := c.Combatant(combat.PlayerID); ok {
		if err := m.Character.Actor.SetHP(p.HP); err != nil {
			return nil, fmt.Errorf("failed to sync HP: %w", err)
		}
		m.State.Character.HP = m.Character.Actor.HP()
	}

	var reward *CombatReward
	if c.Phase == combat.PhaseVictory {
		enc, ok := m.Graph.Encounter(c.EncounterID)
		if ok {
			reward = &CombatReward{
				XP:    enc.Rewards.XP,
				Gold:  enc.Rewards.Gold,
				Items: enc.Rewards.Items,
			}
			m.State.Character.XP += enc.Rewards.XP
			m.State.Character.Currency.Gold += enc.Rewards.Gold
			for _, item := range enc.Rewards.Items {
				m.State.Character.AddItem(item, 1)
			}
		}
		m.State.CompletedEncounters[c.EncounterID] = true
	}

	m.State.Record("combat", fmt.Sprintf("%s ended: %s", c.EncounterID, c.Phase))
	m.State.Combat = nil
	return reward, nil
}
