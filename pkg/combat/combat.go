// Package combat runs encounter combat: initiative, turn order, attack
// resolution and end-condition evaluation. State transitions follow
// INACTIVE -> ACTIVE -> VICTORY|DEFEAT|FLED -> INACTIVE; end conditions
// are evaluated after every turn so combat ends on the triggering
// event, not at the end of a round.
package combat

import (
	"fmt"
	"sort"

	"github.com/jwebster45206/campaign-engine/pkg/actor"
	"github.com/jwebster45206/campaign-engine/pkg/campaign"
	"github.com/jwebster45206/campaign-engine/pkg/dice"
)

// Phase is the combat state machine phase.
type Phase string

const (
	PhaseActive  Phase = "active"
	PhaseVictory Phase = "victory"
	PhaseDefeat  Phase = "defeat"
	PhaseFled    Phase = "fled"
)

// PlayerID is the fixed combatant id for the player character.
const PlayerID = "player"

// Combatant is one participant's combat-relevant state.
type Combatant struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	HP             int            `json:"hp"`
	MaxHP          int            `json:"max_hp"`
	AC             int            `json:"ac"`
	Dexterity      int            `json:"dexterity"`
	Initiative     int            `json:"initiative"`
	InitiativeRoll int            `json:"initiative_roll"`
	SortIndex      int            `json:"sort_index"` // declared order, final tiebreak
	IsPlayer       bool           `json:"is_player,omitempty"`
	Attacks        []actor.Attack `json:"attacks,omitempty"`
}

// Alive reports whether the combatant still has hit points.
func (c *Combatant) Alive() bool {
	return c.HP > 0
}

// State holds one active (or just-ended) combat. It exists only while
// a combat is running and is destroyed by EndCombat.
type State struct {
	EncounterID string                `json:"encounter_id"`
	Phase       Phase                 `json:"phase"`
	Round       int                   `json:"round"`
	TurnIndex   int                   `json:"turn_index"`
	Order       []string              `json:"order"`
	Combatants  map[string]*Combatant `json:"combatants"`

	VictoryConditions []string `json:"victory_conditions,omitempty"`
	DefeatConditions  []string `json:"defeat_conditions,omitempty"`
}

// Start rolls initiative and builds the turn order for the player and
// the spawned enemies. Initiative is 1d20 + dexterity modifier,
// descending; ties break on higher raw dexterity, then declared order,
// so the result is a total order with no remaining nondeterminism.
func Start(r dice.Roller, enc *campaign.Encounter, pc *actor.Character, enemies []*actor.Enemy) *State {
	s := &State{
		EncounterID:       enc.ID,
		Phase:             PhaseActive,
		Round:             1,
		Combatants:        make(map[string]*Combatant),
		VictoryConditions: enc.VictoryConditions,
		DefeatConditions:  enc.DefeatConditions,
	}
	if len(s.VictoryConditions) == 0 {
		s.VictoryConditions = []string{campaign.AllEnemiesDefeated}
	}
	if len(s.DefeatConditions) == 0 {
		s.DefeatConditions = []string{campaign.PlayerDefeated}
	}

	dex := pc.Spec.Stats.Dexterity
	if v, ok := pc.Actor.Attribute("dexterity"); ok {
		dex = v
	}
	player := &Combatant{
		ID:        PlayerID,
		Name:      pc.Spec.Name,
		HP:        pc.Actor.HP(),
		MaxHP:     pc.Actor.MaxHP(),
		AC:        pc.Actor.AC(),
		Dexterity: dex,
		IsPlayer:  true,
	}
	s.add(r, player)

	for _, e := range enemies {
		s.add(r, &Combatant{
			ID:        e.ID,
			Name:      e.Name,
			HP:        e.HP,
			MaxHP:     e.MaxHP,
			AC:        e.AC,
			Dexterity: e.Dexterity,
			Attacks:   e.Attacks,
		})
	}

	s.sortOrder()
	return s
}

func (s *State) add(r dice.Roller, c *Combatant) {
	c.SortIndex = len(s.Combatants)
	c.InitiativeRoll = r.RollDie(20)
	c.Initiative = c.InitiativeRoll + dice.AbilityModifier(c.Dexterity)
	s.Combatants[c.ID] = c
	s.Order = append(s.Order, c.ID)
}

func (s *State) sortOrder() {
	sort.SliceStable(s.Order, func(i, j int) bool {
		a, b := s.Combatants[s.Order[i]], s.Combatants[s.Order[j]]
		if a.Initiative != b.Initiative {
			return a.Initiative > b.Initiative
		}
		if a.Dexterity != b.Dexterity {
			return a.Dexterity > b.Dexterity
		}
		return a.SortIndex < b.SortIndex
	})
}

// Current returns the combatant whose turn it is.
func (s *State) Current() *Combatant {
	if len(s.Order) == 0 {
		return nil
	}
	return s.Combatants[s.Order[s.TurnIndex]]
}

// Combatant looks up a combatant by id; defeated combatants remain
// addressable even after leaving the turn order.
func (s *State) Combatant(id string) (*Combatant, bool) {
	c, ok := s.Combatants[id]
	return c, ok
}

// LivingEnemies returns the enemy combatants still standing.
func (s *State) LivingEnemies() []*Combatant {
	var out []*Combatant
	for _, id := range s.Order {
		c := s.Combatants[id]
		if !c.IsPlayer && c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// AttackOutcome reports one resolved attack.
type AttackOutcome struct {
	AttackerID  string      `json:"attacker_id"`
	TargetID    string      `json:"target_id"`
	AttackName  string      `json:"attack_name,omitempty"`
	Roll        int         `json:"roll"`
	Bonus       int         `json:"bonus"`
	Total       int         `json:"total"`
	TargetAC    int         `json:"target_ac"`
	Hit         bool        `json:"hit"`
	Critical    bool        `json:"critical,omitempty"`
	Fumble      bool        `json:"fumble,omitempty"`
	Damage      int         `json:"damage,omitempty"`
	DamageRoll  *dice.Result `json:"damage_roll,omitempty"`
	TargetDown  bool        `json:"target_down,omitempty"`
	CombatEnded Phase       `json:"combat_ended,omitempty"` // set when this attack satisfied an end condition
}

// ResolveAttack rolls an attack against a target's armor value and
// applies damage on a hit. A natural 20 always hits and doubles the
// damage dice; a natural 1 always misses. A target dropped to 0 HP is
// removed from the turn order. End conditions are evaluated before
// returning.
func (s *State) ResolveAttack(r dice.Roller, attackerID, targetID string, attack actor.Attack) (AttackOutcome, error) {
	if s.Phase != PhaseActive {
		return AttackOutcome{}, fmt.Errorf("combat is not active")
	}
	attacker, ok := s.Combatants[attackerID]
	if !ok || !attacker.Alive() {
		return AttackOutcome{}, fmt.Errorf("invalid attacker %q", attackerID)
	}
	target, ok := s.Combatants[targetID]
	if !ok || !target.Alive() {
		return AttackOutcome{}, fmt.Errorf("invalid target %q", targetID)
	}

	roll := r.RollDie(20)
	out := AttackOutcome{
		AttackerID: attackerID,
		TargetID:   targetID,
		AttackName: attack.Name,
		Roll:       roll,
		Bonus:      attack.Bonus,
		Total:      roll + attack.Bonus,
		TargetAC:   target.AC,
		Critical:   roll == 20,
		Fumble:     roll == 1,
	}
	out.Hit = out.Critical || (!out.Fumble && out.Total >= target.AC)

	if out.Hit {
		dmg, err := r.Roll(attack.Damage)
		if err != nil {
			return AttackOutcome{}, fmt.Errorf("bad damage expression %q: %w", attack.Damage, err)
		}
		out.Damage = dmg.Total
		out.DamageRoll = &dmg
		if out.Critical {
			crit, err := r.Roll(attack.Damage)
			if err == nil {
				// Doubled dice, not doubled modifier.
				out.Damage += crit.Total - crit.Modifier
			}
		}
		if out.Damage < 1 {
			out.Damage = 1
		}

		target.HP -= out.Damage
		if target.HP <= 0 {
			target.HP = 0
			out.TargetDown = true
			s.removeFromOrder(targetID)
		}
	}

	if phase := s.evaluateEnd(); phase != PhaseActive {
		out.CombatEnded = phase
	}
	return out, nil
}

func (s *State) removeFromOrder(id string) {
	for i, oid := range s.Order {
		if oid != id {
			continue
		}
		s.Order = append(s.Order[:i], s.Order[i+1:]...)
		if s.TurnIndex > i {
			s.TurnIndex--
		}
		if len(s.Order) > 0 && s.TurnIndex >= len(s.Order) {
			s.TurnIndex = 0
			s.Round++
		}
		return
	}
}

// NextTurn advances to the next living combatant, bumping the round
// counter when the order wraps. End conditions are re-evaluated so a
// combat can end on any turn boundary.
func (s *State) NextTurn() *Combatant {
	if s.Phase != PhaseActive || len(s.Order) == 0 {
		return nil
	}

	s.TurnIndex++
	if s.TurnIndex >= len(s.Order) {
		s.TurnIndex = 0
		s.Round++
	}

	if phase := s.evaluateEnd(); phase != PhaseActive {
		return nil
	}
	return s.Current()
}

// Flee marks the combat as fled by the player.
func (s *State) Flee() {
	if s.Phase == PhaseActive {
		s.Phase = PhaseFled
	}
}

// evaluateEnd checks the declarative end conditions and transitions
// the phase when one is satisfied. Defeat is checked first.
func (s *State) evaluateEnd() Phase {
	if s.Phase != PhaseActive {
		return s.Phase
	}

	for _, cond := range s.DefeatConditions {
		if s.conditionMet(cond) {
			s.Phase = PhaseDefeat
			return s.Phase
		}
	}
	for _, cond := range s.VictoryConditions {
		if s.conditionMet(cond) {
			s.Phase = PhaseVictory
			return s.Phase
		}
	}
	return s.Phase
}

func (s *State) conditionMet(cond string) bool {
	switch cond {
	case campaign.AllEnemiesDefeated:
		return len(s.LivingEnemies()) == 0
	case campaign.PlayerDefeated:
		p, ok := s.Combatants[PlayerID]
		return ok && !p.Alive()
	default:
		return false
	}
}
