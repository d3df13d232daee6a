// Package item defines the work item domain model for backlog scheduling.
package item

import "math"

// Status represents the lifecycle state of a work item.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusCompleted  Status = "completed"
)

// IsValid reports whether the status is one of the four known states.
// Unknown values are validation errors, never silently defaulted.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusBlocked, StatusCompleted:
		return true
	}
	return false
}

// Rank returns the scheduler sort rank for the status.
// Blocked sorts first so stalled work is surfaced ahead of fresh work.
// Completed items never reach the sort; they rank last as a safety net.
func (s Status) Rank() int {
	switch s {
	case StatusBlocked:
		return 0
	case StatusInProgress:
		return 1
	case StatusTodo:
		return 2
	default:
		return 3
	}
}

// Priority is a declared urgency tier. The three tiers form a fixed total
// order: high > medium > low.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid reports whether the priority is a known tier.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank returns the sort rank for the tier. Lower rank is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// MoreUrgent reports whether p is strictly more urgent than other.
func (p Priority) MoreUrgent(other Priority) bool {
	return p.Rank() < other.Rank()
}

// MaxPriority returns the most urgent of the given tiers.
// Returns PriorityLow when the list is empty.
func MaxPriority(tiers ...Priority) Priority {
	maxTier := PriorityLow
	for _, t := range tiers {
		if t.MoreUrgent(maxTier) {
			maxTier = t
		}
	}
	return maxTier
}

// OrderNone is the ordering hint sentinel for items that declare no hint.
// Items without a hint sort after every item that has one.
const OrderNone = math.MaxInt32

// Item represents a single schedulable unit of work.
//
// EffectivePriority and PriorityReason are derived per scheduling run and
// never authored or persisted; everything else comes from the snapshot.
type Item struct {
	ID       string   `json:"id"`
	Title    string   `json:"title,omitempty"`
	Status   Status   `json:"status"`
	Priority Priority `json:"priority"`

	// Override pins the item ahead of every non-overridden item,
	// regardless of computed priority.
	Override bool `json:"override,omitempty"`

	// Order is a final tie-break among otherwise-equal items.
	// OrderNone means no hint was declared.
	Order int `json:"order,omitempty"`

	// BlockedBy lists item ids that must all complete before this item
	// is eligible to start.
	BlockedBy []string `json:"blocked_by,omitempty"`

	// Related lists informational references. They never gate readiness
	// and never propagate priority.
	Related []string `json:"related,omitempty"`

	// Derived fields, recomputed on every scheduling run.
	EffectivePriority Priority `json:"effective_priority,omitempty"`
	PriorityReason    string   `json:"priority_reason,omitempty"`
}

// Completed reports whether the item has reached its terminal state.
func (i Item) Completed() bool {
	return i.Status == StatusCompleted
}
