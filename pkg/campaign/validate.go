package campaign

import "fmt"

// Validate checks graph integrity. Errors are structural problems that
// make the campaign unplayable; warnings are suspect but survivable
// (the runtime treats dangling references as data integrity failures
// only when actually followed).
func (g *Graph) Validate() (errs []string, warnings []string) {
	if g.Campaign.ID == "" {
		errs = append(errs, "campaign id is empty")
	}
	if len(g.Campaign.Chapters) == 0 {
		errs = append(errs, "campaign has no chapters")
		return errs, warnings
	}

	start := g.Campaign.Chapters[0].StartingNode
	if start == "" {
		errs = append(errs, fmt.Sprintf("chapter %q has no starting node", g.Campaign.Chapters[0].ID))
	} else if _, ok := g.Nodes[start]; !ok {
		errs = append(errs, fmt.Sprintf("starting node %q not defined", start))
	}

	for id, node := range g.Nodes {
		for _, exit := range node.Exits {
			if _, ok := g.Nodes[exit.TargetNode]; !ok {
				errs = append(errs, fmt.Sprintf("node %q exit %q targets undefined node %q", id, exit.Key, exit.TargetNode))
			}
		}
		for _, p := range node.NPCsPresent {
			if _, ok := g.NPCs[p.NPCID]; !ok {
				warnings = append(warnings, fmt.Sprintf("node %q references undefined npc %q", id, p.NPCID))
			}
		}
		for _, ref := range node.Encounters {
			if _, ok := g.Encounters[ref.EncounterID]; !ok {
				warnings = append(warnings, fmt.Sprintf("node %q references undefined encounter %q", id, ref.EncounterID))
			}
		}
		for actionID, action := range node.Actions {
			if action.GrantsQuest != "" {
				if _, ok := g.Campaign.Quests[action.GrantsQuest]; !ok {
					warnings = append(warnings, fmt.Sprintf("action %q grants undefined quest %q", actionID, action.GrantsQuest))
				}
			}
			for npcID := range action.RequiresRel {
				if _, ok := g.NPCs[npcID]; !ok {
					warnings = append(warnings, fmt.Sprintf("action %q requires relationship with undefined npc %q", actionID, npcID))
				}
			}
			for npcID := range action.UpdatesRels {
				if _, ok := g.NPCs[npcID]; !ok {
					warnings = append(warnings, fmt.Sprintf("action %q updates relationship with undefined npc %q", actionID, npcID))
				}
			}
		}
	}

	for id, enc := range g.Encounters {
		for _, spec := range enc.Enemies {
			if _, ok := g.Monsters[spec.Type]; !ok {
				errs = append(errs, fmt.Sprintf("encounter %q uses undefined monster %q", id, spec.Type))
			}
		}
	}

	// Reachability from the starting node. Unreachable nodes are
	// authoring mistakes more often than intent, but only warn.
	if start != "" {
		if _, ok := g.Nodes[start]; ok {
			reached := map[string]bool{start: true}
			frontier := []string{start}
			for len(frontier) > 0 {
				cur := frontier[len(frontier)-1]
				frontier = frontier[:len(frontier)-1]
				for _, exit := range g.Nodes[cur].Exits {
					if t, ok := g.Nodes[exit.TargetNode]; ok && !reached[t.ID] {
						reached[t.ID] = true
						frontier = append(frontier, t.ID)
					}
				}
			}
			for id := range g.Nodes {
				if !reached[id] {
					warnings = append(warnings, fmt.Sprintf("node %q is unreachable from starting node %q", id, start))
				}
			}
		}
	}

	return errs, warnings
}
