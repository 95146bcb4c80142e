package campaign

import (
	"strings"

	"github.com/jwebster45206/campaign-engine/pkg/conditionals"
	"github.com/jwebster45206/campaign-engine/pkg/relationship"
)

// KnowledgeTopic is something an NPC knows and may share. The share
// condition is one of "always", "if_asked", "requires_trust" (gated on
// TrustThreshold), "requires_flag:<name>", or a flag expression.
type KnowledgeTopic struct {
	Information    string `json:"information"`
	ShareCondition string `json:"share_condition,omitempty"`
	TrustThreshold int    `json:"trust_threshold,omitempty"`
}

// Dialogue variant keys understood by the greeting selector. Any other
// key is campaign-specific and surfaced verbatim through Variant.
const (
	GreetingFirst = "greeting_first"
)

// NPC is the static definition of a non-player character. Runtime
// standing lives in the session's relationship records.
type NPC struct {
	ID              string                    `json:"id"`
	Name            string                    `json:"name"`
	Description     string                    `json:"description,omitempty"`
	Role            string                    `json:"role,omitempty"`
	BaseDisposition int                       `json:"base_disposition,omitempty"` // -100..100
	Knowledge       map[string]KnowledgeTopic `json:"knowledge,omitempty"`
	Dialogue        map[string]string         `json:"dialogue,omitempty"` // variant key -> text
	Thresholds      map[string]int            `json:"relationship_thresholds,omitempty"`
}

// Attitude derives the tier for a disposition value, using the NPC's
// configured thresholds when present and the engine defaults otherwise.
// Configured thresholds give the minimum disposition for each tier
// above hostile.
func (n *NPC) Attitude(disposition int) relationship.Attitude {
	if len(n.Thresholds) == 0 {
		return relationship.AttitudeFor(disposition)
	}

	tier := relationship.Hostile
	for _, a := range []relationship.Attitude{
		relationship.Unfriendly, relationship.Neutral,
		relationship.Friendly, relationship.Devoted,
	} {
		min, ok := n.Thresholds[string(a)]
		if !ok {
			continue
		}
		if disposition >= min {
			tier = a
		}
	}
	return tier
}

// Variant returns the dialogue text for a variant key.
func (n *NPC) Variant(key string) (string, bool) {
	text, ok := n.Dialogue[key]
	return text, ok
}

// CanShare reports whether the NPC will share a knowledge topic given
// the player's trust and the current flags. Unknown topics are never
// shared.
func (n *NPC) CanShare(topicID string, trust int, flags conditionals.FlagSet) bool {
	topic, ok := n.Knowledge[topicID]
	if !ok {
		return false
	}

	switch cond := topic.ShareCondition; {
	case cond == "" || cond == "always" || cond == "if_asked":
		return true
	case cond == "requires_trust":
		return trust >= topic.TrustThreshold
	case strings.HasPrefix(cond, "requires_flag:"):
		return flags.Has(strings.TrimPrefix(cond, "requires_flag:"))
	default:
		// Arbitrary flag expression.
		return conditionals.Evaluate(cond, flags)
	}
}
