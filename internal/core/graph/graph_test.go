package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/forage/internal/core/item"
)

func todo(id string, blockedBy ...string) item.Item {
	return item.Item{
		ID:        id,
		Status:    item.StatusTodo,
		Priority:  item.PriorityMedium,
		BlockedBy: blockedBy,
	}
}

func completed(id string) item.Item {
	return item.Item{ID: id, Status: item.StatusCompleted, Priority: item.PriorityMedium}
}

func TestBuild(t *testing.T) {
	g := Build([]item.Item{
		todo("a", "b", "c", "b"), // duplicate edge collapses
		todo("b", "c"),
		todo("c"),
	})

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"a", "b", "c"}, g.IDs())
	assert.Equal(t, []string{"b", "c"}, g.Dependencies("a"))
	assert.Equal(t, []string{"a", "b"}, g.Dependents("c"))
	assert.Empty(t, g.Dependents("a"))

	_, ok := g.Item("a")
	assert.True(t, ok)
	_, ok = g.Item("ghost")
	assert.False(t, ok)
}

func TestCycles(t *testing.T) {
	t.Run("acyclic graph has none", func(t *testing.T) {
		g := Build([]item.Item{todo("a", "b"), todo("b", "c"), todo("c")})
		assert.Empty(t, g.Cycles())
	})

	t.Run("mutual block reports both ids", func(t *testing.T) {
		g := Build([]item.Item{todo("a", "b"), todo("b", "a")})

		cycles := g.Cycles()
		require.Len(t, cycles, 1)
		assert.ElementsMatch(t, []string{"a", "b"}, dedupe(cycles[0]))
		// path closes back on its start
		assert.Equal(t, cycles[0][0], cycles[0][len(cycles[0])-1])
	})

	t.Run("self reference is a cycle", func(t *testing.T) {
		g := Build([]item.Item{todo("a", "a")})

		cycles := g.Cycles()
		require.Len(t, cycles, 1)
		assert.Equal(t, []string{"a", "a"}, cycles[0])
	})

	t.Run("independent cycles in disconnected components are all reported", func(t *testing.T) {
		g := Build([]item.Item{
			todo("a", "b"), todo("b", "a"),
			todo("x", "y"), todo("y", "x"),
			todo("solo"),
		})

		assert.Len(t, g.Cycles(), 2)
	})

	t.Run("longer cycle path is in traversal order", func(t *testing.T) {
		g := Build([]item.Item{todo("a", "b"), todo("b", "c"), todo("c", "a")})

		cycles := g.Cycles()
		require.Len(t, cycles, 1)
		assert.Equal(t, []string{"a", "b", "c", "a"}, cycles[0])
	})
}

func TestMissingDeps(t *testing.T) {
	t.Run("unresolved reference is reported with referencing id", func(t *testing.T) {
		g := Build([]item.Item{todo("m", "ghost")})

		missing := g.MissingDeps(nil)
		require.Len(t, missing, 1)
		assert.Equal(t, MissingDep{ItemID: "m", TargetID: "ghost"}, missing[0])
	})

	t.Run("known completed set satisfies external ids", func(t *testing.T) {
		g := Build([]item.Item{todo("m", "archived-1")})

		missing := g.MissingDeps(map[string]bool{"archived-1": true})
		assert.Empty(t, missing)
	})

	t.Run("every unresolved reference is reported individually", func(t *testing.T) {
		g := Build([]item.Item{todo("m", "g1", "g2"), todo("n", "g1")})

		missing := g.MissingDeps(nil)
		assert.Len(t, missing, 3)
	})
}

func TestReadySet(t *testing.T) {
	t.Run("no dependencies means ready", func(t *testing.T) {
		g := Build([]item.Item{todo("b"), todo("a")})
		assert.Equal(t, []string{"a", "b"}, g.ReadySet(nil))
	})

	t.Run("unsatisfied dependency gates readiness", func(t *testing.T) {
		g := Build([]item.Item{todo("a"), todo("b", "a")})
		assert.Equal(t, []string{"a"}, g.ReadySet(nil))
	})

	t.Run("completed items never appear", func(t *testing.T) {
		g := Build([]item.Item{completed("a"), todo("b", "a")})
		assert.Equal(t, []string{"b"}, g.ReadySet(nil))
	})

	t.Run("externally completed ids satisfy deps", func(t *testing.T) {
		g := Build([]item.Item{todo("b", "archived-1")})
		assert.Equal(t, []string{"b"}, g.ReadySet(map[string]bool{"archived-1": true}))
	})

	t.Run("blocked status does not gate readiness by itself", func(t *testing.T) {
		its := []item.Item{todo("a")}
		its[0].Status = item.StatusBlocked
		g := Build(its)
		assert.Equal(t, []string{"a"}, g.ReadySet(nil))
	})

	t.Run("result is lexicographically ordered regardless of input order", func(t *testing.T) {
		g := Build([]item.Item{todo("zz"), todo("mm"), todo("aa")})
		assert.Equal(t, []string{"aa", "mm", "zz"}, g.ReadySet(nil))
	})
}

func TestTopoOrder(t *testing.T) {
	g := Build([]item.Item{
		todo("app", "lib", "cfg"),
		todo("lib", "cfg"),
		todo("cfg"),
		todo("docs"),
	})

	order := g.TopoOrder(nil)
	assert.Equal(t, []string{"cfg", "docs", "lib", "app"}, order)
}

func TestTransitivelyBlocked(t *testing.T) {
	t.Run("direct and indirect dependents", func(t *testing.T) {
		g := Build([]item.Item{todo("a"), todo("b", "a"), todo("c", "b")})
		assert.Equal(t, []string{"b", "c"}, g.TransitivelyBlocked("a"))
		assert.Equal(t, []string{"c"}, g.TransitivelyBlocked("b"))
		assert.Empty(t, g.TransitivelyBlocked("c"))
	})

	t.Run("diamond counts the converging descendant once", func(t *testing.T) {
		// d -> b -> a and d -> c -> a: two paths from a up to d
		g := Build([]item.Item{
			todo("a"),
			todo("b", "a"),
			todo("c", "a"),
			todo("d", "b", "c"),
		})

		blocked := g.TransitivelyBlocked("a")
		assert.Equal(t, []string{"b", "c", "d"}, blocked)
	})
}

func TestTransitiveDeps(t *testing.T) {
	g := Build([]item.Item{
		todo("app", "lib"),
		todo("lib", "cfg", "ext-1"),
		todo("cfg"),
	})

	deps := g.TransitiveDeps("app")
	assert.Equal(t, []string{"cfg", "ext-1", "lib"}, deps)
}
