package dice

// ScriptedRoller returns a fixed sequence of die results, for tests
// that need a known roll (e.g. a 14 on the d20). When the script is
// exhausted it keeps returning the last value.
type ScriptedRoller struct {
	Script []int
	next   int
}

// NewScriptedRoller creates a roller that replays the given draws.
func NewScriptedRoller(draws ...int) *ScriptedRoller {
	return &ScriptedRoller{Script: draws}
}

func (s *ScriptedRoller) RollDie(sides int) int {
	if len(s.Script) == 0 {
		return 1
	}
	v := s.Script[s.next]
	if s.next < len(s.Script)-1 {
		s.next++
	}
	if v > sides {
		v = sides
	}
	return v
}

func (s *ScriptedRoller) Roll(expr string) (Result, error) {
	return RollWith(s, expr)
}
