// Package dice implements the randomized rules mechanics: dice
// expression evaluation, advantage and disadvantage, and d20 checks.
// All randomness flows through the Roller interface so that a fixed
// seed reproduces identical sequences.
package dice

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"time"
)

// Roller is the source of all die rolls. Implementations must draw each
// die independently and uniformly in [1, sides].
type Roller interface {
	// Roll evaluates a dice expression like "2d6+3".
	Roll(expr string) (Result, error)
	// RollDie rolls a single die with the given number of sides.
	RollDie(sides int) int
}

// Result is the outcome of evaluating a dice expression. Individual
// draws are reported for transparency.
type Result struct {
	Expression string `json:"expression"`
	Rolls      []int  `json:"rolls"`
	Modifier   int    `json:"modifier,omitempty"`
	Total      int    `json:"total"`
	Natural20  bool   `json:"natural_20,omitempty"`
	Natural1   bool   `json:"natural_1,omitempty"`
}

func (r Result) String() string {
	if r.Modifier != 0 {
		return fmt.Sprintf("%s = %v %+d = %d", r.Expression, r.Rolls, r.Modifier, r.Total)
	}
	return fmt.Sprintf("%s = %v = %d", r.Expression, r.Rolls, r.Total)
}

// Pattern for dice expressions: 2d6+3, 1d20-1, d8, etc.
var dicePattern = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)

// seededRoller draws from a private rand.Rand so that sessions never
// share a random source.
type seededRoller struct {
	rng *rand.Rand
}

// NewRoller creates a Roller seeded for reproducible sequences.
func NewRoller(seed int64) Roller {
	return &seededRoller{rng: rand.New(rand.NewSource(seed))}
}

// NewRandomRoller creates a Roller seeded from the current time.
func NewRandomRoller() Roller {
	return NewRoller(time.Now().UnixNano())
}

func (r *seededRoller) RollDie(sides int) int {
	if sides < 1 {
		return 0
	}
	return r.rng.Intn(sides) + 1
}

func (r *seededRoller) Roll(expr string) (Result, error) {
	return RollWith(r, expr)
}

// RollWith evaluates a dice expression using the given Roller for
// each draw. Exposed so scripted rollers in tests share the parser.
func RollWith(r Roller, expr string) (Result, error) {
	m := dicePattern.FindStringSubmatch(normalize(expr))
	if m == nil {
		return Result{}, fmt.Errorf("invalid dice expression: %q", expr)
	}

	count := 1
	if m[1] != "" {
		count, _ = strconv.Atoi(m[1])
	}
	sides, _ := strconv.Atoi(m[2])
	modifier := 0
	if m[3] != "" {
		modifier, _ = strconv.Atoi(m[3])
	}

	if count < 1 || count > 100 {
		return Result{}, fmt.Errorf("dice count out of range: %q", expr)
	}
	if sides < 1 {
		return Result{}, fmt.Errorf("die size out of range: %q", expr)
	}

	rolls := make([]int, count)
	total := modifier
	for i := range rolls {
		rolls[i] = r.RollDie(sides)
		total += rolls[i]
	}

	return Result{
		Expression: normalize(expr),
		Rolls:      rolls,
		Modifier:   modifier,
		Total:      total,
		Natural20:  sides == 20 && count == 1 && rolls[0] == 20,
		Natural1:   sides == 20 && count == 1 && rolls[0] == 1,
	}, nil
}

func normalize(expr string) string {
	out := make([]byte, 0, len(expr))
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c == ' ' {
			continue
		}
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// Advantage selects how a d20 is drawn for a check.
type Advantage int

const (
	Normal Advantage = iota
	WithAdvantage
	WithDisadvantage
)

// RollD20 draws a d20 under the given advantage state. Advantage and
// disadvantage draw two independent dice and keep the higher or lower;
// both draws are returned for transparency.
func RollD20(r Roller, adv Advantage) (kept int, draws []int) {
	first := r.RollDie(20)
	if adv == Normal {
		return first, []int{first}
	}

	second := r.RollDie(20)
	kept = first
	switch adv {
	case WithAdvantage:
		if second > first {
			kept = second
		}
	case WithDisadvantage:
		if second < first {
			kept = second
		}
	}
	return kept, []int{first, second}
}
