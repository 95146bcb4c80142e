// Package conditionals evaluates the boolean gate expressions used by
// campaign data to guard exits, significant actions and NPC knowledge.
//
// The grammar is small: atoms are flag names, "!" negates, "&&" is
// conjunction and "||" is disjunction. "||" binds loosest, then "&&",
// then "!". Evaluation is closed-world: a flag that is not present in
// the set is false, never an error, so gates may reference flags that a
// given playthrough never sets.
package conditionals

import "strings"

// FlagSet is the set of story flags currently true. Presence means true.
type FlagSet map[string]bool

// Has reports whether the flag is set.
func (f FlagSet) Has(flag string) bool {
	return f[flag]
}

// Evaluate evaluates a gate expression against the flag set.
// An empty expression is true (no gate). Evaluation is pure and
// deterministic, and short-circuits left to right.
func Evaluate(expr string, flags FlagSet) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return true
	}

	// Disjunction binds loosest.
	if parts := strings.Split(expr, "||"); len(parts) > 1 {
		for _, p := range parts {
			if Evaluate(p, flags) {
				return true
			}
		}
		return false
	}

	if parts := strings.Split(expr, "&&"); len(parts) > 1 {
		for _, p := range parts {
			if !Evaluate(p, flags) {
				return false
			}
		}
		return true
	}

	if rest, ok := strings.CutPrefix(expr, "!"); ok {
		return !Evaluate(rest, flags)
	}

	return flags.Has(expr)
}
