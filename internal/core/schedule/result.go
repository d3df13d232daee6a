// Package schedule selects the next work item from a backlog snapshot.
//
// The entry point is Pick: it validates the dependency graph, checks halt
// conditions, propagates urgency backward through blocking edges, and
// returns a single deterministic selection. Every outcome is a tagged
// Result variant so callers branch on normal empty/halt results instead of
// catching errors.
package schedule

import (
	"fmt"
	"strings"

	"github.com/colonyops/forage/internal/core/graph"
	"github.com/colonyops/forage/internal/core/item"
)

// Kind tags the scheduling outcome.
type Kind string

const (
	// KindSelected means exactly one item was chosen.
	KindSelected Kind = "selected"
	// KindEmpty means nothing is ready. A normal outcome, not an error.
	KindEmpty Kind = "empty"
	// KindHalt means a manually-overridden item is blocked and a human
	// must intervene before any selection can proceed.
	KindHalt Kind = "halt"
	// KindInvalid means the snapshot failed structural validation.
	KindInvalid Kind = "invalid"
)

// Reason is the closed set of codes explaining why an item was selected.
type Reason string

const (
	ReasonManualOverride    Reason = "manual_override"
	ReasonResumedBlocked    Reason = "resumed_blocked"
	ReasonResumedInProgress Reason = "resumed_in_progress"
	ReasonPriorityInherited Reason = "priority_inherited"
	ReasonHighestPriority   Reason = "highest_priority"
)

// ValueError reports an item field carrying an out-of-enumeration value.
type ValueError struct {
	ItemID string `json:"item_id"`
	Field  string `json:"field"`
	Value  string `json:"value"`
}

// ValidationReport collects every structural violation found in one pass,
// so a single fix-and-rerun cycle can address all of them.
type ValidationReport struct {
	Cycles  [][]string         `json:"cycles,omitempty"`
	Missing []graph.MissingDep `json:"missing,omitempty"`
	Values  []ValueError       `json:"values,omitempty"`
}

// Empty reports whether no violations were found.
func (r ValidationReport) Empty() bool {
	return len(r.Cycles) == 0 && len(r.Missing) == 0 && len(r.Values) == 0
}

// Summary renders the report with every offending id named.
func (r ValidationReport) Summary() string {
	var b strings.Builder
	for _, cycle := range r.Cycles {
		fmt.Fprintf(&b, "cycle_detected: %s\n", strings.Join(cycle, " -> "))
	}
	for _, m := range r.Missing {
		fmt.Fprintf(&b, "missing_dependency: %s references unknown item %s\n", m.ItemID, m.TargetID)
	}
	for _, v := range r.Values {
		fmt.Fprintf(&b, "invalid_value: %s has %s %q\n", v.ItemID, v.Field, v.Value)
	}
	return strings.TrimRight(b.String(), "\n")
}

// HaltReport names every manually-overridden item that is itself blocked.
type HaltReport struct {
	ItemIDs []string `json:"item_ids"`
}

// Summary renders the halt report for operators.
func (r HaltReport) Summary() string {
	return fmt.Sprintf("manually overridden item(s) blocked, human intervention required: %s",
		strings.Join(r.ItemIDs, ", "))
}

// Result is the tagged outcome of a scheduling run. Exactly one of the
// payload fields is populated, according to Kind.
type Result struct {
	Kind Kind `json:"kind"`

	// Selected and Reason are set when Kind is KindSelected.
	Selected *item.Item `json:"selected,omitempty"`
	Reason   Reason     `json:"reason,omitempty"`

	// Halt is set when Kind is KindHalt.
	Halt *HaltReport `json:"halt,omitempty"`

	// Invalid is set when Kind is KindInvalid.
	Invalid *ValidationReport `json:"invalid,omitempty"`
}
