package dice

import "fmt"

// CheckKind distinguishes skill checks, raw ability checks and saving
// throws in reported results.
type CheckKind string

const (
	SkillCheck   CheckKind = "skill"
	AbilityCheck CheckKind = "ability"
	SavingThrow  CheckKind = "save"
)

// SkillAbility maps each skill to its governing ability.
var SkillAbility = map[string]string{
	"acrobatics":      "dexterity",
	"animal-handling": "wisdom",
	"arcana":          "intelligence",
	"athletics":       "strength",
	"deception":       "charisma",
	"history":         "intelligence",
	"insight":         "wisdom",
	"intimidation":    "charisma",
	"investigation":   "intelligence",
	"medicine":        "wisdom",
	"nature":          "intelligence",
	"perception":      "wisdom",
	"performance":     "charisma",
	"persuasion":      "charisma",
	"religion":        "intelligence",
	"sleight-of-hand": "dexterity",
	"stealth":         "dexterity",
	"survival":        "wisdom",
}

// AbilityModifier converts an ability score to its modifier, flooring
// toward negative infinity so that a score of 7 yields -2.
func AbilityModifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// CheckResult reports everything about a resolved d20 check. A natural
// 20 is a critical success and a natural 1 a critical failure,
// regardless of the total vs the DC.
type CheckResult struct {
	Kind            CheckKind `json:"kind"`
	Name            string    `json:"name"`
	Roll            int       `json:"roll"`
	Draws           []int     `json:"draws,omitempty"`
	Modifier        int       `json:"modifier"`
	Total           int       `json:"total"`
	DC              int       `json:"dc"`
	Success         bool      `json:"success"`
	CriticalSuccess bool      `json:"critical_success,omitempty"`
	CriticalFailure bool      `json:"critical_failure,omitempty"`
	Margin          int       `json:"margin"`
}

func (c CheckResult) String() string {
	outcome := "FAILURE"
	switch {
	case c.CriticalSuccess:
		outcome = "CRITICAL SUCCESS"
	case c.CriticalFailure:
		outcome = "CRITICAL FAILURE"
	case c.Success:
		outcome = "SUCCESS"
	}
	return fmt.Sprintf("%s check: %d %+d = %d vs DC %d - %s", c.Name, c.Roll, c.Modifier, c.Total, c.DC, outcome)
}

// Check resolves a d20 check: roll + modifier vs DC, with natural
// 20/1 critical semantics and the margin (total - dc) reported.
func Check(r Roller, kind CheckKind, name string, modifier, dc int, adv Advantage) CheckResult {
	roll, draws := RollD20(r, adv)
	total := roll + modifier

	return CheckResult{
		Kind:            kind,
		Name:            name,
		Roll:            roll,
		Draws:           draws,
		Modifier:        modifier,
		Total:           total,
		DC:              dc,
		Success:         roll == 20 || (roll != 1 && total >= dc),
		CriticalSuccess: roll == 20,
		CriticalFailure: roll == 1,
		Margin:          total - dc,
	}
}
