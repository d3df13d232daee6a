package schedule

import (
	"fmt"
	"strings"

	"github.com/colonyops/forage/internal/core/graph"
	"github.com/colonyops/forage/internal/core/item"
)

// Propagate computes the effective priority of every item: the maximum
// declared urgency among everything the item transitively blocks. The
// upgrade is monotone; an item is never made less urgent than it declared
// itself. Blocking flows only through blocked_by edges, never through
// related references, and inheritance is max-only with no distance decay.
//
// Returns a new slice in the input order; the input is not mutated.
func Propagate(items []item.Item, g *graph.Graph) []item.Item {
	out := make([]item.Item, len(items))

	for idx, it := range items {
		it.EffectivePriority = it.Priority
		it.PriorityReason = ""

		blocked := g.TransitivelyBlocked(it.ID)
		if len(blocked) > 0 {
			tiers := make([]item.Priority, 0, len(blocked))
			for _, id := range blocked {
				if b, ok := g.Item(id); ok {
					tiers = append(tiers, b.Priority)
				}
			}
			maxTier := item.MaxPriority(tiers...)

			if maxTier.MoreUrgent(it.Priority) {
				it.EffectivePriority = maxTier
				it.PriorityReason = inheritReason(g, blocked, maxTier)
			}
		}

		out[idx] = it
	}

	return out
}

// inheritReason names the max-tier blocked items, sorted, so the upgrade is
// auditable. The blocked slice arrives sorted from TransitivelyBlocked.
func inheritReason(g *graph.Graph, blocked []string, tier item.Priority) string {
	var sources []string
	for _, id := range blocked {
		if b, ok := g.Item(id); ok && b.Priority == tier {
			sources = append(sources, id)
		}
	}
	return fmt.Sprintf("inherited %s from blocked item(s) %s", tier, strings.Join(sources, ", "))
}
