package item

import "fmt"

// transitions is the allowed status transition table.
// Completed is terminal; blocked can only resume into in_progress.
var transitions = map[Status][]Status{
	StatusTodo:       {StatusInProgress},
	StatusInProgress: {StatusBlocked, StatusCompleted},
	StatusBlocked:    {StatusInProgress},
	StatusCompleted:  {},
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates and applies a status change to the item.
func (i *Item) Transition(to Status) error {
	if !to.IsValid() {
		return fmt.Errorf("unknown status %q", to)
	}
	if !CanTransition(i.Status, to) {
		return fmt.Errorf("cannot transition %s from %s to %s", i.ID, i.Status, to)
	}
	i.Status = to
	return nil
}
