package resolver

import (
	"errors"
	"testing"

	"github.com/jwebster45206/campaign-engine/pkg/actor"
	"github.com/jwebster45206/campaign-engine/pkg/campaign"
	"github.com/jwebster45206/campaign-engine/pkg/combat"
	"github.com/jwebster45206/campaign-engine/pkg/dice"
	"github.com/jwebster45206/campaign-engine/pkg/state"
)

func testCharacter() *actor.CharacterSpec {
	return &actor.CharacterSpec{
		ID: "valeria", Name: "Valeria", Class: "rogue", Level: 3,
		Stats: actor.AbilityScores{
			Strength: 12, Dexterity: 16, Constitution: 12,
			Intelligence: 10, Wisdom: 10, Charisma: 14,
		},
		HP: 20, MaxHP: 20, AC: 14,
		ProficiencyBonus: 2,
		Proficiencies:    actor.Proficiencies{Skills: []string{"stealth", "persuasion"}},
		Inventory:        map[string]int{"torch": 1, "rusty_key": 1},
	}
}

func testGraph() *campaign.Graph {
	return &campaign.Graph{
		Campaign: campaign.Campaign{
			ID: "sandpoint", Title: "Trouble in Sandpoint",
			Chapters: []campaign.Chapter{{ID: "ch1", StartingNode: "town_square"}},
		},
		Nodes: map[string]*campaign.Node{
			"town_square": {
				ID: "town_square", Name: "Town Square",
				Description: campaign.NodeDescription{Short: "The square.", Long: "The town square at dusk."},
				NPCsPresent: []campaign.NPCPresence{{NPCID: "sheriff"}},
				Exits:       []campaign.Exit{{Key: "gate", TargetNode: "road"}},
				Actions: map[string]*campaign.SignificantAction{
					"use_rusty_key": {
						ID:            "use_rusty_key",
						RequiresItems: map[string]int{"rusty_key": 1},
						RemovesItems:  []string{"rusty_key"},
						SetsFlags:     []string{"strongbox_open"},
						SuccessPrompt: "the strongbox creaks open",
					},
				},
			},
			"road": {
				ID: "road", Name: "Road",
				Description: campaign.NodeDescription{Short: "The road.", Long: "A rutted road."},
				Encounters:  []campaign.EncounterRef{{EncounterID: "ambush", Trigger: "on_enter"}},
				Exits:       []campaign.Exit{{Key: "back", TargetNode: "town_square"}},
			},
		},
		NPCs: map[string]*campaign.NPC{
			"sheriff": {
				ID: "sheriff", Name: "Sheriff Hemlock", BaseDisposition: 40,
				Description: "A tired man with a tin star.",
				Dialogue:    map[string]string{campaign.GreetingFirst: "You must be the newcomer."},
			},
		},
		Encounters: map[string]*campaign.Encounter{
			"ambush": {
				ID:      "ambush",
				Enemies: []campaign.EnemySpec{{Type: "goblin", Count: 1}},
				Rewards: campaign.Reward{XP: 50},
			},
		},
		Monsters: map[string]*actor.EnemyTemplate{
			"goblin": {
				ID: "goblin", Name: "Goblin", AC: 13, HP: 5, Dexterity: 14,
				Attacks: []actor.Attack{{Name: "scimitar", Bonus: 4, Damage: "1d6+2"}},
			},
		},
	}
}

func newTestResolver(t *testing.T, script ...int) *Resolver {
	t.Helper()
	m, err := state.NewSession(testGraph(), testCharacter(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(script) > 0 {
		m.Roller = dice.NewScriptedRoller(script...)
	}
	return New(m)
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	var ve *state.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Code != code {
		t.Fatalf("expected %s, got %s (%s)", code, ve.Code, ve.Message)
	}
}

func TestResolveMoveStartsEncounter(t *testing.T) {
	r := newTestResolver(t, 10, 12) // initiative draws
	out, err := r.Resolve(Intent{Kind: KindMove, ExitKey: "gate"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Move == nil || out.Move.To != "road" {
		t.Fatalf("expected arrival at road: %+v", out)
	}
	if out.CombatPhase != combat.PhaseActive {
		t.Errorf("on_enter encounter should start combat: %+v", out)
	}
	if !r.mgr.State.InCombat() {
		t.Error("session should be in combat")
	}
}

func TestResolveTalkToGreeting(t *testing.T) {
	r := newTestResolver(t)
	out, err := r.Resolve(Intent{Kind: KindTalkTo, NPCID: "sheriff"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Talk == nil || out.Talk.Greeting != "You must be the newcomer." {
		t.Fatalf("expected first-meeting greeting: %+v", out.Talk)
	}
	if out.Talk.Attitude != "friendly" {
		t.Errorf("disposition 40 is friendly, got %s", out.Talk.Attitude)
	}
}

func TestResolveTalkToAbsentNPC(t *testing.T) {
	r := newTestResolver(t)
	_, err := r.Resolve(Intent{Kind: KindTalkTo, NPCID: "tobias"})
	wantCode(t, err, state.CodeRequirementNotMet)
}

func TestResolveUseItemTriggersAction(t *testing.T) {
	r := newTestResolver(t)
	out, err := r.Resolve(Intent{Kind: KindUseItem, ItemID: "rusty_key"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Action == nil || out.Prompt != "the strongbox creaks open" {
		t.Fatalf("use_rusty_key action should fire: %+v", out)
	}
	if !r.mgr.HasFlag("strongbox_open") {
		t.Error("action effects should be committed")
	}
	if r.mgr.State.Character.HasItem("rusty_key", 1) {
		t.Error("the key should be consumed")
	}
}

func TestResolveUseItemNotHeld(t *testing.T) {
	r := newTestResolver(t)
	_, err := r.Resolve(Intent{Kind: KindUseItem, ItemID: "greatsword"})
	wantCode(t, err, state.CodeRequirementNotMet)
}

func TestResolveUseItemInert(t *testing.T) {
	r := newTestResolver(t)
	out, err := r.Resolve(Intent{Kind: KindUseItem, ItemID: "torch"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Action != nil {
		t.Errorf("no matching action, nothing should execute: %+v", out)
	}
}

func TestResolveExamine(t *testing.T) {
	r := newTestResolver(t)

	out, err := r.Resolve(Intent{Kind: KindExamine, Target: "sheriff"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Examine.Kind != "npc" || out.Examine.Description == "" {
		t.Errorf("examining a present NPC: %+v", out.Examine)
	}

	out, err = r.Resolve(Intent{Kind: KindExamine, Target: "torch"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Examine.Kind != "item" {
		t.Errorf("examining a held item: %+v", out.Examine)
	}

	out, err = r.Resolve(Intent{Kind: KindExamine, Target: "fountain"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Examine.Kind != "node" || out.Examine.Description == "" {
		t.Errorf("unknown targets fall back to the node: %+v", out.Examine)
	}
}

func TestResolveAttackOutsideCombat(t *testing.T) {
	r := newTestResolver(t)
	_, err := r.Resolve(Intent{Kind: KindAttack, TargetID: "goblin_1"})
	wantCode(t, err, state.CodeNotInCombat)
}

func TestResolveAttackKillingBlowEndsCombatWithReward(t *testing.T) {
	// Draws: initiative player, initiative goblin, player attack roll,
	// player damage.
	r := newTestResolver(t, 15, 3, 18, 6)
	if _, err := r.Resolve(Intent{Kind: KindMove, ExitKey: "gate"}); err != nil {
		t.Fatal(err)
	}

	out, err := r.Resolve(Intent{Kind: KindAttack, TargetID: "goblin_1"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Attack == nil || !out.Attack.Hit || !out.Attack.TargetDown {
		t.Fatalf("the blow should land and drop the goblin: %+v", out.Attack)
	}
	if out.CombatPhase != combat.PhaseVictory {
		t.Errorf("combat should end in victory: %+v", out)
	}
	if out.Reward == nil || out.Reward.XP != 50 {
		t.Errorf("victory should pay the reward: %+v", out.Reward)
	}
	if r.mgr.State.InCombat() {
		t.Error("combat should be closed out")
	}
	if len(out.EnemyAttacks) != 0 {
		t.Error("dead goblins do not swing back")
	}
}

func TestResolveAttackEnemiesAnswer(t *testing.T) {
	// Player misses (draw 2), goblin answers (18, hits, damage 4).
	r := newTestResolver(t, 15, 3, 2, 18, 4)
	if _, err := r.Resolve(Intent{Kind: KindMove, ExitKey: "gate"}); err != nil {
		t.Fatal(err)
	}

	out, err := r.Resolve(Intent{Kind: KindAttack, TargetID: "goblin_1"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Attack.Hit {
		t.Fatalf("draw 2 should miss AC 13: %+v", out.Attack)
	}
	if len(out.EnemyAttacks) != 1 || !out.EnemyAttacks[0].Hit {
		t.Fatalf("the goblin should answer and hit: %+v", out.EnemyAttacks)
	}
	if out.CombatPhase != combat.PhaseActive {
		t.Error("combat should continue")
	}
}

func TestResolveCustomInfersCheck(t *testing.T) {
	r := newTestResolver(t, 14)
	out, err := r.Resolve(Intent{Kind: KindCustom, Text: "I sneak along the stalls"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Check == nil {
		t.Fatal("sneak should infer a stealth check")
	}
	// Roll 14 + dex 3 + proficiency 2 = 19 vs DC 12.
	if out.Check.Name != "stealth" || out.Check.Total != 19 || !out.Check.Success {
		t.Errorf("unexpected check: %+v", out.Check)
	}
	if out.Check.DC != 12 {
		t.Errorf("plain attempts default to DC 12, got %d", out.Check.DC)
	}
}

func TestResolveCustomDifficultyWords(t *testing.T) {
	r := newTestResolver(t, 14)
	out, err := r.Resolve(Intent{Kind: KindCustom, Text: "I try the difficult climb up the wall"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Check == nil || out.Check.Name != "athletics" || out.Check.DC != 15 {
		t.Errorf("difficult climb should be athletics at DC 15: %+v", out.Check)
	}
}

func TestResolveCustomPersuasionShiftsDC(t *testing.T) {
	// Sheriff disposition 40: DC 15 (hard) shifted by -(40/20) = 13.
	r := newTestResolver(t, 10)
	out, err := r.Resolve(Intent{Kind: KindCustom, Text: "I try the hard sell and persuade Sheriff Hemlock"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Check == nil || out.Check.Name != "persuasion" {
		t.Fatalf("expected a persuasion check: %+v", out.Check)
	}
	if out.Check.DC != 13 {
		t.Errorf("friendly NPCs lower the DC: got %d, want 13", out.Check.DC)
	}
	// Roll 10 + cha 2 + proficiency 2 = 14 vs 13.
	if !out.Check.Success {
		t.Errorf("total 14 vs DC 13 should succeed: %+v", out.Check)
	}
}

func TestResolveCustomSocialWithoutTarget(t *testing.T) {
	r := newTestResolver(t)
	_, err := r.Resolve(Intent{Kind: KindCustom, Text: "I try to intimidate the shadows"})
	wantCode(t, err, state.CodeRequirementNotMet)
}

func TestResolveCustomNoCheck(t *testing.T) {
	r := newTestResolver(t)
	out, err := r.Resolve(Intent{Kind: KindCustom, Text: "I sit by the fountain"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Check != nil {
		t.Errorf("no keyword, no check: %+v", out.Check)
	}
	if out.Prompt == "" {
		t.Error("the narrator cue should still be present")
	}
}

func TestResolveActionDirect(t *testing.T) {
	r := newTestResolver(t)
	out, err := r.Resolve(Intent{Kind: KindAction, ActionID: "use_rusty_key"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Action == nil || out.Action.ActionID != "use_rusty_key" {
		t.Fatalf("expected the action result: %+v", out)
	}
	if out.Prompt != "the strongbox creaks open" {
		t.Errorf("prompt should carry through: %q", out.Prompt)
	}
	if !r.mgr.HasFlag("strongbox_open") {
		t.Error("action effects should apply")
	}
}

func TestResolveActionUnknown(t *testing.T) {
	r := newTestResolver(t)
	_, err := r.Resolve(Intent{Kind: KindAction, ActionID: "pull_the_lever"})
	wantCode(t, err, state.CodeActionNotFound)
}

func TestResolveCustomFleeEndsCombat(t *testing.T) {
	r := newTestResolver(t, 10, 12)
	if _, err := r.Resolve(Intent{Kind: KindMove, ExitKey: "gate"}); err != nil {
		t.Fatal(err)
	}
	if !r.mgr.State.InCombat() {
		t.Fatal("ambush should start combat")
	}

	out, err := r.Resolve(Intent{Kind: KindCustom, Text: "I flee back toward town"})
	if err != nil {
		t.Fatal(err)
	}
	if out.CombatPhase != combat.PhaseFled {
		t.Fatalf("expected fled phase: %+v", out)
	}
	if r.mgr.State.InCombat() {
		t.Error("fleeing should end the combat")
	}
	if r.mgr.State.Character.XP != 0 {
		t.Error("fleeing pays no rewards")
	}
}
