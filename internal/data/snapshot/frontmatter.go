package snapshot

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/forage/internal/core/item"
)

const delimiter = "---"

// Frontmatter is the authored YAML header of an item file. It is the only
// place open strings exist; everything is checked against the closed
// enumerations before an item reaches the scheduler.
type Frontmatter struct {
	ID        string   `yaml:"id"`
	Title     string   `yaml:"title,omitempty"`
	Status    string   `yaml:"status"`
	Priority  string   `yaml:"priority"`
	Override  bool     `yaml:"override,omitempty"`
	Order     *int     `yaml:"order,omitempty"`
	BlockedBy []string `yaml:"blocked_by,omitempty"`
	Related   []string `yaml:"related,omitempty"`
}

// ParseItem extracts the frontmatter and markdown body from file content.
// Unlike best-effort frontmatter parsing, every defect here is an error:
// a malformed header or an out-of-enumeration value must fail loudly at
// this boundary instead of sorting to a default inside the scheduler.
func ParseItem(content string) (item.Item, string, error) {
	fm, body, err := split(content)
	if err != nil {
		return item.Item{}, "", err
	}

	var header Frontmatter
	if err := yaml.Unmarshal([]byte(fm), &header); err != nil {
		return item.Item{}, "", fmt.Errorf("parse frontmatter: %w", err)
	}

	it := header.toItem()
	if err := it.Validate(); err != nil {
		return item.Item{}, "", err
	}
	it.Normalize()

	return it, body, nil
}

func (f Frontmatter) toItem() item.Item {
	it := item.Item{
		ID:        f.ID,
		Title:     f.Title,
		Status:    item.Status(f.Status),
		Priority:  item.Priority(f.Priority),
		Override:  f.Override,
		Order:     item.OrderNone,
		BlockedBy: f.BlockedBy,
		Related:   f.Related,
	}
	if f.Order != nil {
		it.Order = *f.Order
	}
	return it
}

// RenderItem serializes an item and its markdown body back to file
// content, the inverse of ParseItem. Derived fields are not written.
func RenderItem(it item.Item, body string) (string, error) {
	header := Frontmatter{
		ID:        it.ID,
		Title:     it.Title,
		Status:    string(it.Status),
		Priority:  string(it.Priority),
		Override:  it.Override,
		BlockedBy: it.BlockedBy,
		Related:   it.Related,
	}
	if it.Order != item.OrderNone {
		order := it.Order
		header.Order = &order
	}

	fm, err := yaml.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString(delimiter + "\n")
	b.Write(fm)
	b.WriteString(delimiter + "\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimLeft(body, "\n"))
		if !strings.HasSuffix(body, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// split separates frontmatter from body. The first line must open the
// delimiter and a closing delimiter must exist.
func split(content string) (fm string, body string, err error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != delimiter {
		return "", "", fmt.Errorf("missing frontmatter: file must start with %q", delimiter)
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delimiter {
			fm = strings.Join(lines[1:i], "\n")
			body = strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
			return fm, body, nil
		}
	}

	return "", "", fmt.Errorf("missing frontmatter: no closing %q found", delimiter)
}
