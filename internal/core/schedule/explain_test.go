package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/forage/internal/core/item"
)

func TestExplain(t *testing.T) {
	items := []item.Item{
		mk("cfg", item.PriorityLow),
		mk("lib", item.PriorityMedium, "cfg"),
		mk("app", item.PriorityHigh, "lib"),
		{
			ID:       "docs",
			Status:   item.StatusTodo,
			Priority: item.PriorityLow,
			Order:    item.OrderNone,
			Related:  []string{"app"},
		},
	}

	t.Run("unknown id", func(t *testing.T) {
		_, err := Explain(items, nil, "ghost")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownItem)
	})

	t.Run("full closure split into hard and soft", func(t *testing.T) {
		ex, err := Explain(items, nil, "app")
		require.NoError(t, err)

		assert.Equal(t, []string{"cfg", "lib"}, ex.HardDeps)
		assert.Empty(t, ex.SoftDeps)
		assert.Empty(t, ex.Blocks)
		assert.Equal(t, []string{"lib"}, ex.Unsatisfied)
		assert.False(t, ex.Ready)
		assert.Contains(t, ex.Verdict, "lib")
	})

	t.Run("soft refs surface without gating", func(t *testing.T) {
		ex, err := Explain(items, nil, "docs")
		require.NoError(t, err)

		assert.Empty(t, ex.HardDeps)
		assert.Equal(t, []string{"app"}, ex.SoftDeps)
		assert.True(t, ex.Ready)
		assert.Equal(t, "ready to start", ex.Verdict)
	})

	t.Run("blocking chain and inherited priority", func(t *testing.T) {
		ex, err := Explain(items, nil, "cfg")
		require.NoError(t, err)

		assert.Equal(t, []string{"app", "lib"}, ex.Blocks)
		assert.True(t, ex.Ready)
		assert.Equal(t, item.PriorityHigh, ex.Item.EffectivePriority)
		assert.Contains(t, ex.Item.PriorityReason, "app")
	})

	t.Run("externally completed deps count as satisfied", func(t *testing.T) {
		snapshot := []item.Item{mk("m", item.PriorityLow, "archived-1")}

		ex, err := Explain(snapshot, map[string]bool{"archived-1": true}, "m")
		require.NoError(t, err)

		assert.True(t, ex.Ready)
		assert.Empty(t, ex.Unsatisfied)
		assert.Equal(t, []string{"archived-1"}, ex.HardDeps)
	})

	t.Run("completed item verdict", func(t *testing.T) {
		done := mk("done", item.PriorityLow)
		done.Status = item.StatusCompleted

		ex, err := Explain([]item.Item{done}, nil, "done")
		require.NoError(t, err)

		assert.False(t, ex.Ready)
		assert.Contains(t, ex.Verdict, "completed")
	})

	t.Run("operator blocked item verdict", func(t *testing.T) {
		stalled := mk("stalled", item.PriorityLow)
		stalled.Status = item.StatusBlocked

		ex, err := Explain([]item.Item{stalled}, nil, "stalled")
		require.NoError(t, err)

		assert.True(t, ex.Ready)
		assert.Contains(t, ex.Verdict, "marked blocked")
	})
}
