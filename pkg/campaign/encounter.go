package campaign

// EnemySpec is one roster entry in an encounter: a monster template
// reference, an instance count and an optional HP override.
type EnemySpec struct {
	Type       string `json:"type"` // enemy template id
	Count      int    `json:"count,omitempty"`
	HPOverride int    `json:"hp_override,omitempty"`
}

// Combat end conditions. An encounter may list several; the first one
// satisfied ends the combat. The defaults are AllEnemiesDefeated for
// victory and PlayerDefeated for defeat.
const (
	AllEnemiesDefeated = "all_enemies_defeated"
	PlayerDefeated     = "player_defeated"
)

// Reward is granted when an encounter ends in victory.
type Reward struct {
	XP    int      `json:"xp,omitempty"`
	Gold  int      `json:"gold,omitempty"`
	Items []string `json:"items,omitempty"`
}

// Encounter is a predefined combat scenario.
type Encounter struct {
	ID                string      `json:"id"`
	Name              string      `json:"name,omitempty"`
	Description       string      `json:"description,omitempty"`
	Difficulty        string      `json:"difficulty,omitempty"` // "easy", "medium", "hard", "deadly"
	Enemies           []EnemySpec `json:"enemies"`
	VictoryConditions []string    `json:"victory_conditions,omitempty"`
	DefeatConditions  []string    `json:"defeat_conditions,omitempty"`
	Rewards           Reward      `json:"rewards,omitempty"`
}
