package schedule

import (
	"slices"

	"github.com/colonyops/forage/internal/core/graph"
	"github.com/colonyops/forage/internal/core/item"
)

// Pick runs the full scheduling pipeline over an immutable snapshot:
// validation, halt check, readiness, priority propagation, and selection.
// It is pure: no clock, no I/O, no state between calls, so independent
// callers may invoke it concurrently on the same input.
//
// Outcomes, in precedence order:
//   - KindInvalid when the graph is structurally broken (fail closed)
//   - KindHalt when any overridden item is blocked (demands escalation)
//   - KindEmpty when nothing is ready (normal, idle waiting is fine)
//   - KindSelected with exactly one item and a reason code
func Pick(items []item.Item, knownCompleted map[string]bool) Result {
	g := graph.Build(items)

	if report := Validate(items, g, knownCompleted); !report.Empty() {
		return Result{Kind: KindInvalid, Invalid: &report}
	}

	if halt := CheckHalt(items); halt != nil {
		return Result{Kind: KindHalt, Halt: halt}
	}

	annotated := Propagate(items, g)
	byID := make(map[string]item.Item, len(annotated))
	for _, it := range annotated {
		byID[it.ID] = it
	}

	ready := make([]item.Item, 0)
	for _, id := range g.ReadySet(knownCompleted) {
		ready = append(ready, byID[id])
	}
	if len(ready) == 0 {
		return Result{Kind: KindEmpty}
	}

	SortItems(ready)
	head := ready[0]

	return Result{
		Kind:     KindSelected,
		Selected: &head,
		Reason:   selectionReason(head),
	}
}

// Validate runs every structural check to completion and reports all
// violations at once: cycles (with full paths), dangling references (each
// one named with its referencing item), and out-of-enumeration field
// values. A non-empty report blocks all scheduling for the snapshot.
func Validate(items []item.Item, g *graph.Graph, knownCompleted map[string]bool) ValidationReport {
	report := ValidationReport{}

	for _, it := range items {
		if !it.Status.IsValid() {
			report.Values = append(report.Values, ValueError{ItemID: it.ID, Field: "status", Value: string(it.Status)})
		}
		if !it.Priority.IsValid() {
			report.Values = append(report.Values, ValueError{ItemID: it.ID, Field: "priority", Value: string(it.Priority)})
		}
	}

	// Self-references surface here too: a blocked_by entry naming its own
	// item is a length-two cycle path.
	report.Cycles = g.Cycles()
	report.Missing = g.MissingDeps(knownCompleted)

	return report
}

// CheckHalt returns a halt report when any manually-overridden item has
// status blocked. The operator marked the item as the most urgent thing,
// and it cannot proceed; silently skipping it would hide exactly the state
// that needs human remediation. Returns nil when no halt applies.
func CheckHalt(items []item.Item) *HaltReport {
	var ids []string
	for _, it := range items {
		if it.Override && it.Status == item.StatusBlocked {
			ids = append(ids, it.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	slices.Sort(ids)
	return &HaltReport{ItemIDs: ids}
}

// SortItems orders items by the selection key, in place. The head of a
// sorted ready set is the pick.
func SortItems(items []item.Item) {
	slices.SortFunc(items, compareItems)
}

// compareItems is the total order over ready items. It is a pure function
// of item fields, so identical snapshots sort identically:
//
//  1. override rank: pinned items outrank every computed signal
//  2. status rank: blocked < in_progress < todo
//  3. effective priority, most urgent tier first
//  4. declared priority: own urgency beats inherited urgency
//  5. ordering hint, ascending; absent hints sort last
//  6. id, lexicographic: guarantees no remaining ties
func compareItems(a, b item.Item) int {
	if ar, br := overrideRank(a), overrideRank(b); ar != br {
		return ar - br
	}
	if ar, br := a.Status.Rank(), b.Status.Rank(); ar != br {
		return ar - br
	}
	if ar, br := a.EffectivePriority.Rank(), b.EffectivePriority.Rank(); ar != br {
		return ar - br
	}
	if ar, br := a.Priority.Rank(), b.Priority.Rank(); ar != br {
		return ar - br
	}
	if a.Order != b.Order {
		if a.Order < b.Order {
			return -1
		}
		return 1
	}
	if a.ID < b.ID {
		return -1
	}
	if a.ID > b.ID {
		return 1
	}
	return 0
}

func overrideRank(it item.Item) int {
	if it.Override {
		return 0
	}
	return 1
}

// selectionReason maps the winning item to its audit code. Checks mirror
// the sort key order so the code names the field that actually decided.
func selectionReason(it item.Item) Reason {
	switch {
	case it.Override:
		return ReasonManualOverride
	case it.Status == item.StatusBlocked:
		return ReasonResumedBlocked
	case it.Status == item.StatusInProgress:
		return ReasonResumedInProgress
	case it.EffectivePriority.MoreUrgent(it.Priority):
		return ReasonPriorityInherited
	default:
		return ReasonHighestPriority
	}
}
