package schedule

import (
	"fmt"
	"strings"

	"github.com/colonyops/forage/internal/core/graph"
	"github.com/colonyops/forage/internal/core/item"
)

// ErrUnknownItem is returned by Explain for an id absent from the snapshot.
var ErrUnknownItem = fmt.Errorf("unknown item")

// Explanation is the read-only introspection result for a single item:
// its dependency closure split into hard and soft sets, the chain of items
// it transitively blocks, and a readiness verdict.
type Explanation struct {
	ItemID string    `json:"item_id"`
	Item   item.Item `json:"item"`

	// HardDeps is the transitive blocked_by closure, sorted.
	HardDeps []string `json:"hard_deps,omitempty"`
	// SoftDeps are the item's direct related references. Informational
	// only; they never appear in readiness or priority computations.
	SoftDeps []string `json:"soft_deps,omitempty"`
	// Blocks is the transitive set of items waiting on this one.
	Blocks []string `json:"blocks,omitempty"`

	// Unsatisfied lists the direct hard dependencies still incomplete.
	Unsatisfied []string `json:"unsatisfied,omitempty"`
	// Ready reports whether the item would appear in the ready set.
	Ready bool `json:"ready"`
	// Verdict is the human-readable readiness summary.
	Verdict string `json:"verdict"`
}

// Explain answers why an item is or is not workable right now. The item's
// derived priority fields are populated the same way Pick would see them.
func Explain(items []item.Item, knownCompleted map[string]bool, id string) (Explanation, error) {
	g := graph.Build(items)

	it, ok := g.Item(id)
	if !ok {
		return Explanation{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}

	for _, annotated := range Propagate(items, g) {
		if annotated.ID == id {
			it = annotated
			break
		}
	}

	ex := Explanation{
		ItemID:   id,
		Item:     it,
		HardDeps: g.TransitiveDeps(id),
		SoftDeps: it.Related,
		Blocks:   g.TransitivelyBlocked(id),
	}

	for _, dep := range g.Dependencies(id) {
		if knownCompleted[dep] {
			continue
		}
		if d, ok := g.Item(dep); ok && d.Completed() {
			continue
		}
		ex.Unsatisfied = append(ex.Unsatisfied, dep)
	}

	ex.Ready = !it.Completed() && len(ex.Unsatisfied) == 0
	ex.Verdict = verdict(it, ex.Unsatisfied)

	return ex, nil
}

func verdict(it item.Item, unsatisfied []string) string {
	switch {
	case it.Completed():
		return "completed, no further work"
	case len(unsatisfied) > 0:
		return fmt.Sprintf("waiting on %s", strings.Join(unsatisfied, ", "))
	case it.Status == item.StatusBlocked:
		return "ready to resume, marked blocked by an operator"
	case it.Status == item.StatusInProgress:
		return "ready, already in progress"
	default:
		return "ready to start"
	}
}
