package combat

import (
	"encoding/json"
	"testing"

	"github.com/jwebster45206/campaign-engine/pkg/actor"
	"github.com/jwebster45206/campaign-engine/pkg/campaign"
	"github.com/jwebster45206/campaign-engine/pkg/dice"
)

func testPC() *actor.Character {
	ch, err := actor.NewCharacterFromSpec(&actor.CharacterSpec{
		ID: "valeria", Name: "Valeria",
		Stats: actor.AbilityScores{Strength: 12, Dexterity: 16, Constitution: 12, Intelligence: 10, Wisdom: 10, Charisma: 10},
		HP:    20, MaxHP: 20, AC: 14,
	})
	if err != nil {
		panic(err)
	}
	return ch
}

func testEncounter() *campaign.Encounter {
	return &campaign.Encounter{
		ID:      "ambush",
		Enemies: []campaign.EnemySpec{{Type: "goblin", Count: 2}},
		Rewards: campaign.Reward{XP: 100, Gold: 10},
	}
}

func spawnGoblins(hp int) []*actor.Enemy {
	tpl := &actor.EnemyTemplate{
		ID: "goblin", Name: "Goblin", AC: 13, HP: hp, Dexterity: 14, XP: 50,
		Attacks: []actor.Attack{{Name: "scimitar", Bonus: 4, Damage: "1d6+2"}},
	}
	return []*actor.Enemy{actor.SpawnEnemy(tpl, 1, 0), actor.SpawnEnemy(tpl, 2, 0)}
}

func TestStartReadsPlayerFromActor(t *testing.T) {
	ch, err := actor.NewCharacterFromSpec(&actor.CharacterSpec{
		ID: "valeria", Name: "Valeria",
		Stats: actor.AbilityScores{Strength: 12, Dexterity: 16, Constitution: 12, Intelligence: 10, Wisdom: 10, Charisma: 10},
		HP:    12, MaxHP: 20, AC: 15,
	})
	if err != nil {
		t.Fatal(err)
	}

	s := Start(dice.NewScriptedRoller(10, 18, 5), testEncounter(), ch, spawnGoblins(7))
	p, ok := s.Combatant(PlayerID)
	if !ok {
		t.Fatal("player missing from combat")
	}
	// Wounded characters enter combat at their current HP, not max.
	if p.HP != 12 || p.HP != ch.Actor.HP() {
		t.Errorf("player HP = %d, want 12 from the actor", p.HP)
	}
	if p.MaxHP != 20 || p.AC != 15 {
		t.Errorf("player MaxHP/AC = %d/%d, want 20/15", p.MaxHP, p.AC)
	}
	if p.Dexterity != 16 {
		t.Errorf("player dexterity = %d, want 16", p.Dexterity)
	}
}

func TestStartBuildsInitiativeOrder(t *testing.T) {
	// Scripted d20 draws: player 10, goblin_1 18, goblin_2 5.
	r := dice.NewScriptedRoller(10, 18, 5)
	s := Start(r, testEncounter(), testPC(), spawnGoblins(7))

	if s.Phase != PhaseActive {
		t.Fatalf("expected active phase, got %s", s.Phase)
	}
	if s.Round != 1 {
		t.Errorf("expected round 1, got %d", s.Round)
	}

	// player: 10+3=13, goblin_1: 18+2=20, goblin_2: 5+2=7.
	want := []string{"goblin_1", "player", "goblin_2"}
	for i, id := range want {
		if s.Order[i] != id {
			t.Fatalf("order[%d] = %s, want %s (full order %v)", i, s.Order[i], id, s.Order)
		}
	}
	if s.Current().ID != "goblin_1" {
		t.Errorf("goblin_1 should act first")
	}
}

func TestInitiativeTieBreaksOnRawDexterity(t *testing.T) {
	// Both goblins roll the same d20 and share a +2 modifier, but one
	// has higher raw dexterity.
	tplFast := &actor.EnemyTemplate{ID: "fast", Name: "Fast", AC: 12, HP: 5, Dexterity: 15}
	tplSlow := &actor.EnemyTemplate{ID: "slow", Name: "Slow", AC: 12, HP: 5, Dexterity: 14}
	enemies := []*actor.Enemy{actor.SpawnEnemy(tplSlow, 1, 0), actor.SpawnEnemy(tplFast, 1, 0)}

	for i := 0; i < 10; i++ {
		r := dice.NewScriptedRoller(1, 10, 10) // player low, goblins tie
		s := Start(r, testEncounter(), testPC(), enemies)

		// Same modifier (+2), same roll: fast_1 (dex 15) precedes slow_1 (dex 14).
		if s.Order[0] != "fast_1" || s.Order[1] != "slow_1" {
			t.Fatalf("run %d: tie not broken by raw dexterity: %v", i, s.Order)
		}
	}
}

func TestInitiativeTieBreaksOnDeclaredOrder(t *testing.T) {
	tpl := &actor.EnemyTemplate{ID: "twin", Name: "Twin", AC: 12, HP: 5, Dexterity: 14}
	enemies := []*actor.Enemy{actor.SpawnEnemy(tpl, 1, 0), actor.SpawnEnemy(tpl, 2, 0)}

	r := dice.NewScriptedRoller(1, 10, 10)
	s := Start(r, testEncounter(), testPC(), enemies)

	if s.Order[0] != "twin_1" || s.Order[1] != "twin_2" {
		t.Fatalf("identical stats should keep declared order: %v", s.Order)
	}
}

func TestInitiativeReproducibleWithSeed(t *testing.T) {
	run := func() []string {
		r := dice.NewRoller(314)
		s := Start(r, testEncounter(), testPC(), spawnGoblins(7))
		return append([]string(nil), s.Order...)
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different orders: %v vs %v", a, b)
		}
	}
}

func TestResolveAttackHit(t *testing.T) {
	r := dice.NewScriptedRoller(10, 18, 5) // initiative
	s := Start(r, testEncounter(), testPC(), spawnGoblins(7))

	// Attack roll 15 (+4 = 19 vs AC 13), damage 1d6+2 with a 4.
	out, err := s.ResolveAttack(dice.NewScriptedRoller(15, 4), "player", "goblin_1", actor.Attack{Name: "shortsword", Bonus: 4, Damage: "1d6+2"})
	if err != nil {
		t.Fatalf("attack failed: %v", err)
	}
	if !out.Hit || out.Total != 19 {
		t.Errorf("expected hit at 19 vs AC 13: %+v", out)
	}
	if out.Damage != 6 {
		t.Errorf("expected 6 damage, got %d", out.Damage)
	}

	g, _ := s.Combatant("goblin_1")
	if g.HP != 1 {
		t.Errorf("goblin should be at 1 HP, got %d", g.HP)
	}
}

func TestResolveAttackMissAndFumble(t *testing.T) {
	s := Start(dice.NewScriptedRoller(10, 18, 5), testEncounter(), testPC(), spawnGoblins(7))

	out, err := s.ResolveAttack(dice.NewScriptedRoller(5), "player", "goblin_1", actor.Attack{Bonus: 2, Damage: "1d6"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Hit {
		t.Error("7 vs AC 13 should miss")
	}

	// Natural 1 misses even with a huge bonus.
	out, err = s.ResolveAttack(dice.NewScriptedRoller(1), "player", "goblin_1", actor.Attack{Bonus: 50, Damage: "1d6"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Hit || !out.Fumble {
		t.Errorf("natural 1 must miss: %+v", out)
	}
}

func TestResolveAttackCriticalDoublesDice(t *testing.T) {
	s := Start(dice.NewScriptedRoller(10, 18, 5), testEncounter(), testPC(), spawnGoblins(20))

	// Natural 20, then damage draws 4 and 3: (4+2) + 3 = 9.
	out, err := s.ResolveAttack(dice.NewScriptedRoller(20, 4, 3), "player", "goblin_1", actor.Attack{Bonus: 0, Damage: "1d6+2"})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Critical || !out.Hit {
		t.Fatalf("natural 20 must crit and hit: %+v", out)
	}
	if out.Damage != 9 {
		t.Errorf("crit damage should double dice but not modifier: got %d, want 9", out.Damage)
	}
}

func TestDefeatedCombatantLeavesTurnOrder(t *testing.T) {
	s := Start(dice.NewScriptedRoller(10, 18, 5), testEncounter(), testPC(), spawnGoblins(3))

	out, err := s.ResolveAttack(dice.NewScriptedRoller(15, 6), "player", "goblin_2", actor.Attack{Bonus: 4, Damage: "1d6+2"})
	if err != nil {
		t.Fatal(err)
	}
	if !out.TargetDown {
		t.Fatalf("8 damage should drop a 3 HP goblin: %+v", out)
	}

	for _, id := range s.Order {
		if id == "goblin_2" {
			t.Error("defeated combatant should leave the turn order")
		}
	}
	// Still addressable for reporting.
	g, ok := s.Combatant("goblin_2")
	if !ok || g.HP != 0 {
		t.Error("defeated combatant should remain addressable at 0 HP")
	}
}

func TestVictoryEvaluatedImmediately(t *testing.T) {
	s := Start(dice.NewScriptedRoller(10, 18, 5), testEncounter(), testPC(), spawnGoblins(1))

	if _, err := s.ResolveAttack(dice.NewScriptedRoller(15, 6), "player", "goblin_1", actor.Attack{Bonus: 4, Damage: "1d6+2"}); err != nil {
		t.Fatal(err)
	}
	out, err := s.ResolveAttack(dice.NewScriptedRoller(15, 6), "player", "goblin_2", actor.Attack{Bonus: 4, Damage: "1d6+2"})
	if err != nil {
		t.Fatal(err)
	}

	// Victory on the killing blow, not at the end of the round.
	if out.CombatEnded != PhaseVictory {
		t.Errorf("expected victory on the triggering attack: %+v", out)
	}
	if s.Phase != PhaseVictory {
		t.Errorf("expected phase victory, got %s", s.Phase)
	}

	// No further attacks once combat has ended.
	if _, err := s.ResolveAttack(dice.NewScriptedRoller(15), "player", "goblin_1", actor.Attack{Damage: "1d6"}); err == nil {
		t.Error("attacks after combat ends must fail")
	}
}

func TestDefeatWhenPlayerDrops(t *testing.T) {
	s := Start(dice.NewScriptedRoller(10, 18, 5), testEncounter(), testPC(), spawnGoblins(7))

	// Goblin hits the player for enough to drop them.
	p, _ := s.Combatant(PlayerID)
	p.HP = 3
	out, err := s.ResolveAttack(dice.NewScriptedRoller(15, 6), "goblin_1", PlayerID, actor.Attack{Bonus: 4, Damage: "1d6+2"})
	if err != nil {
		t.Fatal(err)
	}
	if out.CombatEnded != PhaseDefeat {
		t.Errorf("expected defeat: %+v", out)
	}
}

func TestNextTurnAdvancesAndWraps(t *testing.T) {
	s := Start(dice.NewScriptedRoller(10, 18, 5), testEncounter(), testPC(), spawnGoblins(7))
	// Order: goblin_1, player, goblin_2.

	if c := s.NextTurn(); c.ID != "player" {
		t.Errorf("expected player next, got %s", c.ID)
	}
	if c := s.NextTurn(); c.ID != "goblin_2" {
		t.Errorf("expected goblin_2 next, got %s", c.ID)
	}
	if c := s.NextTurn(); c.ID != "goblin_1" {
		t.Errorf("expected wrap to goblin_1, got %s", c.ID)
	}
	if s.Round != 2 {
		t.Errorf("round should advance on wrap, got %d", s.Round)
	}
}

func TestFlee(t *testing.T) {
	s := Start(dice.NewScriptedRoller(10, 18, 5), testEncounter(), testPC(), spawnGoblins(7))
	s.Flee()
	if s.Phase != PhaseFled {
		t.Errorf("expected fled phase, got %s", s.Phase)
	}
}

func TestStateRoundTrip(t *testing.T) {
	s := Start(dice.NewScriptedRoller(10, 18, 5), testEncounter(), testPC(), spawnGoblins(7))

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var loaded State
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if loaded.Phase != s.Phase || loaded.Round != s.Round || len(loaded.Order) != len(s.Order) {
		t.Errorf("round trip lost state: %+v", loaded)
	}
	for i := range s.Order {
		if loaded.Order[i] != s.Order[i] {
			t.Errorf("order diverged after round trip")
		}
	}
}
