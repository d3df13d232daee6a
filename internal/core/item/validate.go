package item

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/hay-kot/criterio"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidateID validates an item id is non-empty and well formed.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id is required")
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid id %q: must be lowercase alphanumeric with ._- separators", id)
	}
	return nil
}

// Validate checks the item's fields against the closed enumerations and
// structural rules. Returns criterio field errors naming every violation.
func (i Item) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if err := ValidateID(i.ID); err != nil {
		errs = errs.Append("id", err)
	}
	if !i.Status.IsValid() {
		errs = errs.Append("status", fmt.Errorf("unknown status %q: must be one of todo, in_progress, blocked, completed", i.Status))
	}
	if !i.Priority.IsValid() {
		errs = errs.Append("priority", fmt.Errorf("unknown priority %q: must be one of high, medium, low", i.Priority))
	}
	for _, dep := range i.BlockedBy {
		if dep == i.ID {
			errs = errs.Append("blocked_by", fmt.Errorf("%s cannot block itself", i.ID))
		}
	}

	return errs.ToError()
}

// Normalize collapses duplicate dependency entries and sorts them so two
// snapshots with the same logical content compare equal.
func (i *Item) Normalize() {
	i.BlockedBy = dedupeSorted(i.BlockedBy)
	i.Related = dedupeSorted(i.Related)
}

func dedupeSorted(ids []string) []string {
	if len(ids) == 0 {
		return ids
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
