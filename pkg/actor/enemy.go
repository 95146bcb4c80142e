package actor

import "fmt"

// Attack is one attack option on an enemy stat block.
type Attack struct {
	Name       string `json:"name"`
	Bonus      int    `json:"bonus"`
	Damage     string `json:"damage"` // dice expression, e.g. "1d6+2"
	DamageType string `json:"damage_type,omitempty"`
}

// EnemyTemplate is a reusable stat block loaded with the campaign.
// Encounters reference templates by id and spawn instances from them.
type EnemyTemplate struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	AC          int      `json:"ac"`
	HP          int      `json:"hp"`
	Dexterity   int      `json:"dexterity,omitempty"`
	XP          int      `json:"xp,omitempty"`
	Attacks     []Attack `json:"attacks,omitempty"`
}

// Enemy is one spawned combatant instance. Multiple instances of the
// same template get distinct ids ("goblin_1", "goblin_2").
type Enemy struct {
	ID         string   `json:"id"`
	TemplateID string   `json:"template_id"`
	Name       string   `json:"name"`
	AC         int      `json:"ac"`
	HP         int      `json:"hp"`
	MaxHP      int      `json:"max_hp"`
	Dexterity  int      `json:"dexterity,omitempty"`
	XP         int      `json:"xp,omitempty"`
	Attacks    []Attack `json:"attacks,omitempty"`
}

// SpawnEnemy creates an instance from a template. index distinguishes
// duplicates within one encounter; hpOverride replaces the template HP
// when positive.
func SpawnEnemy(template *EnemyTemplate, index int, hpOverride int) *Enemy {
	if template == nil {
		return nil
	}

	hp := template.HP
	if hpOverride > 0 {
		hp = hpOverride
	}

	e := &Enemy{
		ID:         fmt.Sprintf("%s_%d", template.ID, index),
		TemplateID: template.ID,
		Name:       template.Name,
		AC:         template.AC,
		HP:         hp,
		MaxHP:      hp,
		Dexterity:  template.Dexterity,
		XP:         template.XP,
		Attacks:    template.Attacks,
	}
	if len(e.Attacks) == 0 {
		e.Attacks = []Attack{{Name: "strike", Bonus: 2, Damage: "1d4"}}
	}
	return e
}

// TakeDamage reduces the enemy's HP by the specified amount.
// HP cannot go below 0.
func (e *Enemy) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	e.HP -= n
	if e.HP < 0 {
		e.HP = 0
	}
}

// IsDefeated returns true if the enemy's HP is 0 or less.
func (e *Enemy) IsDefeated() bool {
	return e.HP <= 0
}
