package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/forage/internal/core/item"
)

func TestParseItem(t *testing.T) {
	t.Run("full header and body", func(t *testing.T) {
		content := `---
id: fg-auth
title: Wire up authentication
status: todo
priority: high
override: true
order: 3
blocked_by:
  - fg-db
related:
  - fg-docs
---

Some **markdown** body.
`
		it, body, err := ParseItem(content)
		require.NoError(t, err)

		assert.Equal(t, "fg-auth", it.ID)
		assert.Equal(t, "Wire up authentication", it.Title)
		assert.Equal(t, item.StatusTodo, it.Status)
		assert.Equal(t, item.PriorityHigh, it.Priority)
		assert.True(t, it.Override)
		assert.Equal(t, 3, it.Order)
		assert.Equal(t, []string{"fg-db"}, it.BlockedBy)
		assert.Equal(t, []string{"fg-docs"}, it.Related)
		assert.Equal(t, "Some **markdown** body.\n", body)
	})

	t.Run("absent order maps to sentinel", func(t *testing.T) {
		it, _, err := ParseItem("---\nid: fg-a\nstatus: todo\npriority: low\n---\n")
		require.NoError(t, err)
		assert.Equal(t, item.OrderNone, it.Order)
	})

	t.Run("missing frontmatter", func(t *testing.T) {
		_, _, err := ParseItem("just a body\n")
		assert.Error(t, err)
	})

	t.Run("unclosed frontmatter", func(t *testing.T) {
		_, _, err := ParseItem("---\nid: fg-a\n")
		assert.Error(t, err)
	})

	t.Run("unknown status fails loudly", func(t *testing.T) {
		_, _, err := ParseItem("---\nid: fg-a\nstatus: paused\npriority: low\n---\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "paused")
	})

	t.Run("unknown priority fails loudly", func(t *testing.T) {
		_, _, err := ParseItem("---\nid: fg-a\nstatus: todo\npriority: p0\n---\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "p0")
	})

	t.Run("duplicate dependencies collapse", func(t *testing.T) {
		it, _, err := ParseItem("---\nid: fg-a\nstatus: todo\npriority: low\nblocked_by: [fg-b, fg-b]\n---\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"fg-b"}, it.BlockedBy)
	})
}

func TestRenderItem(t *testing.T) {
	t.Run("round trips through ParseItem", func(t *testing.T) {
		orig := item.Item{
			ID:        "fg-a",
			Title:     "A thing",
			Status:    item.StatusInProgress,
			Priority:  item.PriorityMedium,
			Order:     7,
			BlockedBy: []string{"fg-b"},
		}

		content, err := RenderItem(orig, "Body text.\n")
		require.NoError(t, err)

		parsed, body, err := ParseItem(content)
		require.NoError(t, err)
		assert.Equal(t, orig, parsed)
		assert.Equal(t, "Body text.\n", body)
	})

	t.Run("sentinel order is omitted", func(t *testing.T) {
		it := item.Item{ID: "fg-a", Status: item.StatusTodo, Priority: item.PriorityLow, Order: item.OrderNone}

		content, err := RenderItem(it, "")
		require.NoError(t, err)
		assert.NotContains(t, content, "order:")
	})

	t.Run("derived fields are not written", func(t *testing.T) {
		it := item.Item{
			ID:                "fg-a",
			Status:            item.StatusTodo,
			Priority:          item.PriorityLow,
			Order:             item.OrderNone,
			EffectivePriority: item.PriorityHigh,
			PriorityReason:    "inherited high from blocked item(s) fg-z",
		}

		content, err := RenderItem(it, "")
		require.NoError(t, err)
		assert.NotContains(t, content, "effective")
		assert.NotContains(t, content, "inherited")
	})
}
