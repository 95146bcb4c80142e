package actor

import "testing"

func goblinTemplate() *EnemyTemplate {
	return &EnemyTemplate{
		ID: "goblin", Name: "Goblin", AC: 13, HP: 7, Dexterity: 14, XP: 50,
		Attacks: []Attack{{Name: "scimitar", Bonus: 4, Damage: "1d6+2", DamageType: "slashing"}},
	}
}

func TestSpawnEnemy(t *testing.T) {
	e := SpawnEnemy(goblinTemplate(), 1, 0)

	if e.ID != "goblin_1" {
		t.Errorf("expected id goblin_1, got %s", e.ID)
	}
	if e.HP != 7 || e.MaxHP != 7 {
		t.Errorf("expected HP 7/7, got %d/%d", e.HP, e.MaxHP)
	}
	if len(e.Attacks) != 1 || e.Attacks[0].Damage != "1d6+2" {
		t.Errorf("attacks not carried over: %+v", e.Attacks)
	}
}

func TestSpawnEnemyHPOverride(t *testing.T) {
	e := SpawnEnemy(goblinTemplate(), 2, 12)
	if e.HP != 12 || e.MaxHP != 12 {
		t.Errorf("hp override not applied: %d/%d", e.HP, e.MaxHP)
	}
}

func TestSpawnEnemyDefaults(t *testing.T) {
	e := SpawnEnemy(&EnemyTemplate{ID: "rat", Name: "Rat", AC: 10, HP: 1}, 1, 0)
	if len(e.Attacks) == 0 {
		t.Error("templates without attacks get a default strike")
	}

	if SpawnEnemy(nil, 1, 0) != nil {
		t.Error("nil template spawns nil")
	}
}

func TestEnemyTakeDamage(t *testing.T) {
	e := SpawnEnemy(goblinTemplate(), 1, 0)

	e.TakeDamage(3)
	if e.HP != 4 {
		t.Errorf("expected HP 4, got %d", e.HP)
	}
	if e.IsDefeated() {
		t.Error("enemy with HP left is not defeated")
	}

	e.TakeDamage(10)
	if e.HP != 0 {
		t.Errorf("HP should floor at 0, got %d", e.HP)
	}
	if !e.IsDefeated() {
		t.Error("enemy at 0 HP is defeated")
	}

	e.TakeDamage(-1)
	if e.HP != 0 {
		t.Error("negative damage must be ignored")
	}
}
