// Package actor holds the runtime participants of a session: the
// player character and enemy instances spawned from encounter rosters.
package actor

import (
	"fmt"
	"maps"

	"github.com/jwebster45206/d20"

	"github.com/jwebster45206/campaign-engine/pkg/dice"
)

// AbilityScores are the six core ability scores.
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// ToAttributes converts AbilityScores to a map for d20.Actor compatibility.
func (s *AbilityScores) ToAttributes() map[string]int {
	return map[string]int{
		"strength":     s.Strength,
		"dexterity":    s.Dexterity,
		"constitution": s.Constitution,
		"intelligence": s.Intelligence,
		"wisdom":       s.Wisdom,
		"charisma":     s.Charisma,
	}
}

// Score returns the named ability score, defaulting to 10.
func (s *AbilityScores) Score(ability string) int {
	if v, ok := s.ToAttributes()[ability]; ok {
		return v
	}
	return 10
}

// Currency is coinage by denomination.
type Currency struct {
	Copper   int `json:"cp,omitempty"`
	Silver   int `json:"sp,omitempty"`
	Gold     int `json:"gp,omitempty"`
	Platinum int `json:"pp,omitempty"`
}

// Proficiencies lists what the character is trained in.
type Proficiencies struct {
	Skills       []string `json:"skills,omitempty"`
	SavingThrows []string `json:"saving_throws,omitempty"`
	Weapons      []string `json:"weapons,omitempty"`
	Armor        []string `json:"armor,omitempty"`
}

// CharacterSpec is the serializable specification for the player
// character. Produced by the character-creation collaborator and
// persisted inside the session snapshot.
type CharacterSpec struct {
	ID               string         `json:"id"`
	Name             string         `json:"name,omitempty"`
	Class            string         `json:"class,omitempty"`
	Race             string         `json:"race,omitempty"`
	Level            int            `json:"level,omitempty"`
	XP               int            `json:"xp,omitempty"`
	Stats            AbilityScores  `json:"stats,omitempty"`
	HP               int            `json:"hp,omitempty"`
	MaxHP            int            `json:"max_hp,omitempty"`
	AC               int            `json:"ac,omitempty"`
	Speed            int            `json:"speed,omitempty"`
	ProficiencyBonus int            `json:"proficiency_bonus,omitempty"`
	Proficiencies    Proficiencies  `json:"proficiencies,omitempty"`
	Inventory        map[string]int `json:"inventory,omitempty"` // item id -> quantity
	CarryLimit       int            `json:"carry_limit,omitempty"`
	Currency         Currency       `json:"currency,omitempty"`
	CombatModifiers  map[string]int `json:"combat_modifiers,omitempty"`
	Attributes       map[string]int `json:"attributes,omitempty"` // extra attributes beyond core stats
}

// Character is the runtime player character: the spec plus a d20.Actor
// built from it.
type Character struct {
	Spec  *CharacterSpec
	Actor *d20.Actor
}

// NewCharacterFromSpec builds the runtime Character from a spec.
func NewCharacterFromSpec(spec *CharacterSpec) (*Character, error) {
	if spec == nil {
		return nil, fmt.Errorf("spec cannot be nil")
	}

	allAttrs := spec.Stats.ToAttributes()
	maps.Copy(allAttrs, spec.Attributes)

	actor, err := d20.NewActor(spec.ID).
		WithHP(spec.MaxHP).
		WithAC(spec.AC).
		WithAttributes(allAttrs).
		WithCombatModifiers(spec.CombatModifiers).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}

	if spec.HP != spec.MaxHP && spec.HP > 0 {
		if err := actor.SetHP(spec.HP); err != nil {
			return nil, fmt.Errorf("failed to set HP: %w", err)
		}
	}

	return &Character{Spec: spec, Actor: actor}, nil
}

// AbilityModifier returns the modifier for the named ability.
func (s *CharacterSpec) AbilityModifier(ability string) int {
	return dice.AbilityModifier(s.Stats.Score(ability))
}

// SkillModifier returns the total modifier for a skill: the governing
// ability's modifier plus the proficiency bonus when proficient.
func (s *CharacterSpec) SkillModifier(skill string) int {
	ability, ok := dice.SkillAbility[skill]
	if !ok {
		ability = "intelligence"
	}
	mod := s.AbilityModifier(ability)
	for _, p := range s.Proficiencies.Skills {
		if p == skill {
			mod += s.ProficiencyBonus
			break
		}
	}
	return mod
}

// SaveModifier returns the saving throw modifier for an ability.
func (s *CharacterSpec) SaveModifier(ability string) int {
	mod := s.AbilityModifier(ability)
	for _, p := range s.Proficiencies.SavingThrows {
		if p == ability {
			mod += s.ProficiencyBonus
			break
		}
	}
	return mod
}

// HasItem reports whether the inventory holds at least qty of the item.
func (s *CharacterSpec) HasItem(itemID string, qty int) bool {
	if qty < 1 {
		qty = 1
	}
	return s.Inventory[itemID] >= qty
}

// ItemCount returns the total number of items carried.
func (s *CharacterSpec) ItemCount() int {
	n := 0
	for _, qty := range s.Inventory {
		n += qty
	}
	return n
}

// CanCarry reports whether n more items fit under the carry limit.
// A zero limit means unlimited.
func (s *CharacterSpec) CanCarry(n int) bool {
	return s.CarryLimit <= 0 || s.ItemCount()+n <= s.CarryLimit
}

// AddItem grants qty of an item.
func (s *CharacterSpec) AddItem(itemID string, qty int) {
	if qty < 1 {
		qty = 1
	}
	if s.Inventory == nil {
		s.Inventory = make(map[string]int)
	}
	s.Inventory[itemID] += qty
}

// RemoveItem takes qty of an item, deleting the entry at zero.
// Returns false without mutating if the quantity is insufficient.
func (s *CharacterSpec) RemoveItem(itemID string, qty int) bool {
	if qty < 1 {
		qty = 1
	}
	if s.Inventory[itemID] < qty {
		return false
	}
	s.Inventory[itemID] -= qty
	if s.Inventory[itemID] == 0 {
		delete(s.Inventory, itemID)
	}
	return true
}

// TakeDamage reduces current HP, floored at 0.
func (s *CharacterSpec) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	s.HP -= n
	if s.HP < 0 {
		s.HP = 0
	}
}

// Heal restores current HP, capped at MaxHP.
func (s *CharacterSpec) Heal(n int) {
	if n <= 0 {
		return
	}
	s.HP += n
	if s.HP > s.MaxHP {
		s.HP = s.MaxHP
	}
}

// IsDown reports whether the character has dropped to 0 HP.
func (s *CharacterSpec) IsDown() bool {
	return s.HP <= 0
}
