// Package relationship tracks how NPCs feel about the player across
// two independent axes: disposition (like/dislike) and trust. Each
// axis is clamped to a fixed bound on every mutation, and a discrete
// attitude tier is derived from disposition.
package relationship

// Axis bounds. Disposition spans -100..100; trust spans 0..100.
const (
	DispositionMin = -100
	DispositionMax = 100
	TrustMin       = 0
	TrustMax       = 100
)

// DefaultTrust is the starting trust for a freshly met NPC.
const DefaultTrust = 50

// Attitude is the discrete tier derived from disposition.
type Attitude string

const (
	Hostile    Attitude = "hostile"
	Unfriendly Attitude = "unfriendly"
	Neutral    Attitude = "neutral"
	Friendly   Attitude = "friendly"
	Devoted    Attitude = "devoted"
)

// AttitudeFor partitions the disposition axis into tiers:
// hostile < -50 <= unfriendly < -20 <= neutral < 20 <= friendly < 50 <= devoted.
func AttitudeFor(disposition int) Attitude {
	switch {
	case disposition < -50:
		return Hostile
	case disposition < -20:
		return Unfriendly
	case disposition < 20:
		return Neutral
	case disposition < 50:
		return Friendly
	default:
		return Devoted
	}
}

// Event records one change to a relationship.
type Event struct {
	Event            string `json:"event"`
	DispositionDelta int    `json:"disposition_delta,omitempty"`
	TrustDelta       int    `json:"trust_delta,omitempty"`
}

// Relationship is the per-session record of the player's standing with
// one NPC. Created lazily on first interaction.
type Relationship struct {
	NPCID        string   `json:"npc_id"`
	Disposition  int      `json:"disposition"`
	Trust        int      `json:"trust"`
	Met          bool     `json:"met,omitempty"`
	Interactions int      `json:"interactions,omitempty"`
	LastTopics   []string `json:"last_topics,omitempty"`
	History      []Event  `json:"history,omitempty"`
}

// New creates a relationship defaulted from the NPC's base disposition.
func New(npcID string, baseDisposition int) *Relationship {
	return &Relationship{
		NPCID:       npcID,
		Disposition: clamp(baseDisposition, DispositionMin, DispositionMax),
		Trust:       DefaultTrust,
	}
}

// Modify applies deltas to both axes, clamps, and appends the event to
// history.
func (r *Relationship) Modify(dispositionDelta, trustDelta int, event string) {
	r.Disposition = clamp(r.Disposition+dispositionDelta, DispositionMin, DispositionMax)
	r.Trust = clamp(r.Trust+trustDelta, TrustMin, TrustMax)
	r.History = append(r.History, Event{
		Event:            event,
		DispositionDelta: dispositionDelta,
		TrustDelta:       trustDelta,
	})
}

// Attitude derives the current tier from disposition.
func (r *Relationship) Attitude() Attitude {
	return AttitudeFor(r.Disposition)
}

// RecordInteraction marks the NPC as met and remembers the most recent
// topics (capped at five).
func (r *Relationship) RecordInteraction(topic string) {
	r.Met = true
	r.Interactions++
	if topic == "" {
		return
	}
	r.LastTopics = append(r.LastTopics, topic)
	if len(r.LastTopics) > 5 {
		r.LastTopics = r.LastTopics[len(r.LastTopics)-5:]
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
