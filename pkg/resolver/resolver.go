// Package resolver turns tagged player intents into decided outcomes.
// It is the only place that decides whether a rule check is required
// and runs it, so every outcome is fully committed to state before any
// narrative text exists. Narration can describe a result; it can never
// change one.
package resolver

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/campaign-engine/pkg/actor"
	"github.com/jwebster45206/campaign-engine/pkg/combat"
	"github.com/jwebster45206/campaign-engine/pkg/dice"
	"github.com/jwebster45206/campaign-engine/pkg/state"
)

// Intent kinds.
const (
	KindMove    = "move"
	KindTalkTo  = "talk_to"
	KindUseItem = "use_item"
	KindAction  = "action"
	KindExamine = "examine"
	KindAttack  = "attack"
	KindCustom  = "custom"
)

// Intent is a tagged player action. Kind selects the variant; the
// other fields carry that variant's payload.
type Intent struct {
	Kind string `json:"kind"`

	ExitKey  string `json:"exit_key,omitempty"`  // move
	NPCID    string `json:"npc_id,omitempty"`    // talk_to
	Topic    string `json:"topic,omitempty"`     // talk_to: ask about a topic
	ItemID   string `json:"item_id,omitempty"`   // use_item
	ActionID string `json:"action_id,omitempty"` // action
	Target   string `json:"target,omitempty"`    // examine
	TargetID string `json:"target_id,omitempty"` // attack
	Text     string `json:"text,omitempty"`      // custom
}

// TalkOutcome is the decided result of a conversation beat.
type TalkOutcome struct {
	NPCID    string           `json:"npc_id"`
	Name     string           `json:"name"`
	Attitude string           `json:"attitude"`
	Greeting string           `json:"greeting,omitempty"`
	Ask      *state.AskResult `json:"ask,omitempty"`
}

// ExamineOutcome describes what the player is looking at.
type ExamineOutcome struct {
	Target      string `json:"target"`
	Kind        string `json:"kind"` // "npc", "item", "node"
	Description string `json:"description,omitempty"`
}

// Outcome is a fully decided result handed to the narrative layer.
// Exactly the fields for the resolved intent kind are set; Check is
// present whenever a rule check was performed.
type Outcome struct {
	Kind string `json:"kind"`

	Move    *state.MoveResult   `json:"move,omitempty"`
	Talk    *TalkOutcome        `json:"talk,omitempty"`
	Action  *state.ActionResult `json:"action,omitempty"`
	Examine *ExamineOutcome     `json:"examine,omitempty"`
	Check   *dice.CheckResult   `json:"check,omitempty"`

	Attack       *combat.AttackOutcome  `json:"attack,omitempty"`
	EnemyAttacks []combat.AttackOutcome `json:"enemy_attacks,omitempty"`
	CombatPhase  combat.Phase           `json:"combat_phase,omitempty"`
	Reward       *state.CombatReward    `json:"reward,omitempty"`

	// Prompt is a short factual cue for the narrator, never prose.
	Prompt string `json:"prompt,omitempty"`
}

// Resolver resolves intents against one session.
type Resolver struct {
	mgr *state.Manager
}

func New(mgr *state.Manager) *Resolver {
	return &Resolver{mgr: mgr}
}

// Resolve validates and executes one intent. Errors are the Manager's
// typed validation and integrity errors; on error no state changed.
func (r *Resolver) Resolve(intent Intent) (*Outcome, error) {
	switch intent.Kind {
	case KindMove:
		return r.resolveMove(intent.ExitKey)
	case KindTalkTo:
		return r.resolveTalkTo(intent.NPCID, intent.Topic)
	case KindUseItem:
		return r.resolveUseItem(intent.ItemID)
	case KindAction:
		return r.resolveAction(intent.ActionID)
	case KindExamine:
		return r.resolveExamine(intent.Target)
	case KindAttack:
		return r.resolveAttack(intent.TargetID)
	case KindCustom:
		return r.resolveCustom(intent.Text)
	default:
		return nil, fmt.Errorf("unknown intent kind %q", intent.Kind)
	}
}

func (r *Resolver) resolveMove(exitKey string) (*Outcome, error) {
	res, err := r.mgr.MoveToNode(exitKey)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Kind: KindMove, Move: res}
	if res.EncounterID != "" {
		c, err := r.mgr.StartCombat(res.EncounterID)
		if err != nil {
			return nil, err
		}
		out.CombatPhase = c.Phase
		out.Prompt = "an encounter begins on arrival"
	}
	return out, nil
}

func (r *Resolver) resolveTalkTo(npcID, topic string) (*Outcome, error) {
	if err := r.requireNPCPresent(npcID); err != nil {
		return nil, err
	}
	npc, _ := r.mgr.Graph.NPC(npcID)

	talk := &TalkOutcome{NPCID: npcID, Name: npc.Name}
	if topic == "" {
		greeting, err := r.mgr.Greet(npcID)
		if err != nil {
			return nil, err
		}
		talk.Greeting = greeting
	} else {
		ask, err := r.mgr.AskAbout(npcID, topic)
		if err != nil {
			return nil, err
		}
		talk.Ask = ask
	}
	attitude, err := r.mgr.NPCAttitude(npcID)
	if err != nil {
		return nil, err
	}
	talk.Attitude = string(attitude)
	return &Outcome{Kind: KindTalkTo, Talk: talk}, nil
}

// resolveUseItem checks possession, then runs the node's matching
// significant action ("use_<item>") when one exists. Without one the
// use is inert: confirmed possession, nothing to trigger.
func (r *Resolver) resolveUseItem(itemID string) (*Outcome, error) {
	if !r.mgr.State.Character.HasItem(itemID, 1) {
		return nil, &state.ValidationError{
			Code:    state.CodeRequirementNotMet,
			Message: fmt.Sprintf("you do not have %q", itemID),
		}
	}
	out := &Outcome{Kind: KindUseItem}

	n, err := r.mgr.CurrentNode()
	if err != nil {
		return nil, err
	}
	if _, ok := n.Action("use_" + itemID); ok {
		res, err := r.mgr.ExecuteSignificantAction("use_" + itemID)
		if err != nil {
			return nil, err
		}
		out.Action = res
		out.Prompt = res.Prompt
		return out, nil
	}
	out.Prompt = fmt.Sprintf("the player handles the %s; nothing here reacts to it", itemID)
	return out, nil
}

// resolveAction runs a named significant action at the current node.
func (r *Resolver) resolveAction(actionID string) (*Outcome, error) {
	res, err := r.mgr.ExecuteSignificantAction(actionID)
	if err != nil {
		return nil, err
	}
	return &Outcome{Kind: KindAction, Action: res, Prompt: res.Prompt}, nil
}

// resolveExamine is a pure query: an NPC present here, an item held,
// or the node itself. Never mutates.
func (r *Resolver) resolveExamine(target string) (*Outcome, error) {
	n, err := r.mgr.CurrentNode()
	if err != nil {
		return nil, err
	}
	ex := &ExamineOutcome{Target: target}

	if npc, ok := r.mgr.Graph.NPC(target); ok && n.HasNPC(target) {
		ex.Kind = "npc"
		ex.Description = npc.Description
	} else if r.mgr.State.Character.HasItem(target, 1) {
		ex.Kind = "item"
	} else {
		ex.Kind = "node"
		desc, err := r.mgr.DescribeCurrentNode()
		if err != nil {
			return nil, err
		}
		ex.Description = desc
	}
	return &Outcome{Kind: KindExamine, Examine: ex}, nil
}

// resolveAttack runs the player's attack and then every living enemy's
// answer, stopping the moment an end condition triggers. Rewards are
// applied immediately on victory.
func (r *Resolver) resolveAttack(targetID string) (*Outcome, error) {
	if !r.mgr.State.InCombat() {
		return nil, &state.ValidationError{
			Code:    state.CodeNotInCombat,
			Message: "there is no fight to swing at",
		}
	}
	c := r.mgr.State.Combat
	out := &Outcome{Kind: KindAttack}

	atk, err := c.ResolveAttack(r.mgr.Roller, combat.PlayerID, targetID, r.playerAttack())
	if err != nil {
		return nil, err
	}
	out.Attack = &atk

	for c.Phase == combat.PhaseActive {
		cur := c.NextTurn()
		if cur == nil || cur.IsPlayer {
			break
		}
		if len(cur.Attacks) == 0 {
			continue
		}
		ea, err := c.ResolveAttack(r.mgr.Roller, cur.ID, combat.PlayerID, cur.Attacks[0])
		if err != nil {
			return nil, err
		}
		out.EnemyAttacks = append(out.EnemyAttacks, ea)
	}

	out.CombatPhase = c.Phase
	if c.Phase != combat.PhaseActive {
		reward, err := r.mgr.EndCombat()
		if err != nil {
			return nil, err
		}
		out.Reward = reward
	}
	return out, nil
}

// playerAttack derives the player's weapon swing from their better
// melee ability plus proficiency, plus any active combat modifiers
// on the underlying actor.
func (r *Resolver) playerAttack() actor.Attack {
	ch := r.mgr.Character
	mod := ch.Spec.AbilityModifier("strength")
	if m := ch.Spec.AbilityModifier("dexterity"); m > mod {
		mod = m
	}
	bonus := mod + ch.Spec.ProficiencyBonus
	for _, cm := range ch.Actor.GetCombatModifiers() {
		bonus += cm.Value
	}
	return actor.Attack{
		Name:   "strike",
		Bonus:  bonus,
		Damage: fmt.Sprintf("1d6%+d", mod),
	}
}

func (r *Resolver) requireNPCPresent(npcID string) error {
	n, err := r.mgr.CurrentNode()
	if err != nil {
		return err
	}
	if !n.HasNPC(npcID) {
		return &state.ValidationError{
			Code:    state.CodeRequirementNotMet,
			Message: fmt.Sprintf("%s is not here", npcID),
		}
	}
	return nil
}

// socialSkills need a present NPC and get their DC shifted by that
// NPC's disposition: friendly targets are easier, hostile ones harder.
var socialSkills = map[string]bool{
	"persuasion":   true,
	"deception":    true,
	"intimidation": true,
}

// checkKeywords maps free-text verbs to the skill they imply, in
// matching priority order.
var checkKeywords = []struct {
	word  string
	skill string
}{
	{"sleight of hand", "sleight-of-hand"},
	{"look for", "perception"},
	{"perception", "perception"},
	{"investigate", "investigation"},
	{"search", "perception"},
	{"stealth", "stealth"},
	{"sneak", "stealth"},
	{"hide", "stealth"},
	{"persuade", "persuasion"},
	{"convince", "persuasion"},
	{"deceive", "deception"},
	{"lie", "deception"},
	{"intimidate", "intimidation"},
	{"threaten", "intimidation"},
	{"climb", "athletics"},
	{"jump", "athletics"},
	{"athletics", "athletics"},
	{"acrobatics", "acrobatics"},
	{"insight", "insight"},
	{"pick", "sleight-of-hand"},
	{"arcana", "arcana"},
	{"nature", "nature"},
	{"track", "survival"},
	{"survival", "survival"},
}

const (
	dcEasy     = 10
	dcModerate = 12
	dcHard     = 15
	dcVeryHard = 18
	dcFloor    = 5
)

// inferDC picks a difficulty from qualifier words in the text.
func inferDC(text string) int {
	switch {
	case strings.Contains(text, "very hard") || strings.Contains(text, "nearly impossible"):
		return dcVeryHard
	case strings.Contains(text, "difficult") || strings.Contains(text, "hard"):
		return dcHard
	case strings.Contains(text, "easy") || strings.Contains(text, "simple"):
		return dcEasy
	default:
		return dcModerate
	}
}

// resolveCustom infers what a free-text action needs: a referenced
// present NPC, a referenced held item, and at most one skill check. The
// check, if warranted, is rolled here and committed before returning.
func (r *Resolver) resolveCustom(text string) (*Outcome, error) {
	n, err := r.mgr.CurrentNode()
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(text)
	out := &Outcome{Kind: KindCustom}

	// Fleeing ends an active combat without victory or rewards.
	if r.mgr.State.InCombat() &&
		(strings.Contains(lower, "flee") || strings.Contains(lower, "run away") || strings.Contains(lower, "retreat")) {
		r.mgr.State.Combat.Flee()
		if _, err := r.mgr.EndCombat(); err != nil {
			return nil, err
		}
		out.CombatPhase = combat.PhaseFled
		out.Prompt = "the player breaks off and escapes the fight"
		return out, nil
	}

	// A mentioned NPC must actually be present.
	var targetNPC string
	for _, p := range n.NPCsPresent {
		npc, ok := r.mgr.Graph.NPC(p.NPCID)
		if !ok {
			continue
		}
		if strings.Contains(lower, strings.ToLower(npc.Name)) || strings.Contains(lower, p.NPCID) {
			targetNPC = p.NPCID
			break
		}
	}

	for _, kw := range checkKeywords {
		if !strings.Contains(lower, kw.word) {
			continue
		}
		dc := inferDC(lower)
		if socialSkills[kw.skill] {
			if targetNPC == "" {
				return nil, &state.ValidationError{
					Code:    state.CodeRequirementNotMet,
					Message: "there is no one here to talk at",
				}
			}
			rel, err := r.mgr.Relationship(targetNPC)
			if err != nil {
				return nil, err
			}
			dc -= floorDiv(rel.Disposition, 20)
			if dc < dcFloor {
				dc = dcFloor
			}
		}
		check := dice.Check(r.mgr.Roller, dice.SkillCheck, kw.skill,
			r.mgr.State.Character.SkillModifier(kw.skill), dc, dice.Normal)
		out.Check = &check
		if check.Success {
			out.Prompt = fmt.Sprintf("the %s attempt succeeds", kw.skill)
		} else {
			out.Prompt = fmt.Sprintf("the %s attempt fails", kw.skill)
		}
		r.mgr.State.Record("check", fmt.Sprintf("%s DC %d: %d", kw.skill, dc, check.Total))
		break
	}

	if out.Check == nil {
		out.Prompt = "no rule check applies; narrate freely within current state"
	}
	return out, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
