// Package graph performs structural analysis over hard dependency edges:
// adjacency construction, cycle detection, dangling reference detection,
// ready-set computation, and transitive closure queries.
//
// Only blocked_by edges participate; related references are annotation
// metadata and never reach these algorithms.
package graph

import (
	"slices"
	"sort"

	"github.com/colonyops/forage/internal/core/item"
)

// MissingDep reports a hard dependency reference that resolves to no known
// item: absent from the snapshot and not listed as externally completed.
type MissingDep struct {
	ItemID   string `json:"item_id"`
	TargetID string `json:"target_id"`
}

// Graph holds forward and reverse adjacency over a single immutable
// snapshot. Build once per scheduling invocation; never mutated after.
type Graph struct {
	items   map[string]item.Item
	ids     []string            // sorted, for deterministic iteration
	forward map[string][]string // id -> ids it is blocked by
	reverse map[string][]string // id -> ids that list it in blocked_by
}

// Build constructs forward and reverse adjacency in one pass over the
// snapshot. Edges pointing outside the snapshot are kept in the forward
// adjacency so MissingDeps can report them; they get no reverse entry.
func Build(items []item.Item) *Graph {
	g := &Graph{
		items:   make(map[string]item.Item, len(items)),
		ids:     make([]string, 0, len(items)),
		forward: make(map[string][]string, len(items)),
		reverse: make(map[string][]string, len(items)),
	}

	for _, it := range items {
		g.items[it.ID] = it
		g.ids = append(g.ids, it.ID)
	}
	slices.Sort(g.ids)

	for _, id := range g.ids {
		it := g.items[id]
		deps := dedupe(it.BlockedBy)
		g.forward[id] = deps
		for _, dep := range deps {
			if _, ok := g.items[dep]; ok {
				g.reverse[dep] = append(g.reverse[dep], id)
			}
		}
	}

	// Reverse adjacency is built in sorted-id order already, but keep the
	// guarantee explicit: traversal order must never depend on map order.
	for id := range g.reverse {
		slices.Sort(g.reverse[id])
	}

	return g
}

// Item returns the snapshot record for an id.
func (g *Graph) Item(id string) (item.Item, bool) {
	it, ok := g.items[id]
	return it, ok
}

// IDs returns every item id in the snapshot, sorted.
func (g *Graph) IDs() []string {
	return slices.Clone(g.ids)
}

// Len returns the number of items in the snapshot.
func (g *Graph) Len() int {
	return len(g.ids)
}

// Dependencies returns the deduplicated hard dependencies of an id.
func (g *Graph) Dependencies(id string) []string {
	return slices.Clone(g.forward[id])
}

// Dependents returns the ids that directly list id in blocked_by.
func (g *Graph) Dependents(id string) []string {
	return slices.Clone(g.reverse[id])
}

// Cycles finds every dependency cycle in the graph and returns each one as
// a path in traversal order, first node repeated at the end. All components
// are searched; multiple independent cycles are all reported so a single
// fix pass can address everything.
func (g *Graph) Cycles() [][]string {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)

	state := make(map[string]int, len(g.ids))
	var cycles [][]string

	// DFS with recursion-stack tracking. Roots are visited in sorted id
	// order so cycle paths come out reproducibly.
	var path []string
	var visit func(string)
	visit = func(id string) {
		state[id] = onStack
		path = append(path, id)

		for _, dep := range g.forward[id] {
			if _, ok := g.items[dep]; !ok {
				continue // dangling edge, reported by MissingDeps
			}
			switch state[dep] {
			case unvisited:
				visit(dep)
			case onStack:
				// Found a back edge; slice the current path from the
				// first occurrence of dep to get the cycle.
				start := slices.Index(path, dep)
				cycle := slices.Clone(path[start:])
				cycle = append(cycle, dep)
				cycles = append(cycles, cycle)
			}
		}

		path = path[:len(path)-1]
		state[id] = done
	}

	for _, id := range g.ids {
		if state[id] == unvisited {
			visit(id)
		}
	}

	return cycles
}

// MissingDeps reports every hard dependency reference that is neither in
// the snapshot nor in the externally-known completed set. Each unresolved
// reference is reported with the item that declared it.
func (g *Graph) MissingDeps(knownCompleted map[string]bool) []MissingDep {
	var missing []MissingDep
	for _, id := range g.ids {
		for _, dep := range g.forward[id] {
			if _, ok := g.items[dep]; ok {
				continue
			}
			if knownCompleted[dep] {
				continue
			}
			missing = append(missing, MissingDep{ItemID: id, TargetID: dep})
		}
	}
	return missing
}

// ReadySet returns the ids of items that are not completed and whose every
// hard dependency is satisfied: either completed within the snapshot or a
// member of the externally-known completed set.
//
// This is the zero-in-degree layer of Kahn's algorithm over the subgraph
// of unfinished items, collected in lexicographic id order so two runs on
// identical input produce identical output.
func (g *Graph) ReadySet(knownCompleted map[string]bool) []string {
	indegree := g.unfinishedInDegree(knownCompleted)

	var ready []string
	for _, id := range g.ids { // sorted, not map order
		if deg, ok := indegree[id]; ok && deg == 0 {
			ready = append(ready, id)
		}
	}
	return ready
}

// TopoOrder returns every unfinished item in dependency order: an item
// never appears before something it is blocked by. Within a layer ids come
// out lexicographically. Items left over after the drain sit on a cycle
// and are omitted; callers are expected to have run Cycles first.
func (g *Graph) TopoOrder(knownCompleted map[string]bool) []string {
	indegree := g.unfinishedInDegree(knownCompleted)

	var queue []string
	for _, id := range g.ids {
		if deg, ok := indegree[id]; ok && deg == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(indegree))
	for len(queue) > 0 {
		// Pop the lexicographically smallest ready id rather than FIFO,
		// keeping the full order deterministic and stable.
		sort.Strings(queue)
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, dependent := range g.reverse[id] {
			if deg, ok := indegree[dependent]; ok {
				indegree[dependent] = deg - 1
				if deg == 1 {
					queue = append(queue, dependent)
				}
			}
		}
	}

	return order
}

// unfinishedInDegree computes in-degree over the subgraph of not-yet
// completed items, counting only unsatisfied dependencies.
func (g *Graph) unfinishedInDegree(knownCompleted map[string]bool) map[string]int {
	satisfied := func(dep string) bool {
		if knownCompleted[dep] {
			return true
		}
		it, ok := g.items[dep]
		return ok && it.Completed()
	}

	indegree := make(map[string]int, len(g.ids))
	for _, id := range g.ids {
		if g.items[id].Completed() {
			continue
		}
		indegree[id] = 0
		for _, dep := range g.forward[id] {
			if !satisfied(dep) {
				indegree[id]++
			}
		}
	}
	return indegree
}

// TransitivelyBlocked returns every id that directly or indirectly lists id
// in its blocked_by set, via breadth-first traversal of the reverse
// adjacency. Diamond-shaped subgraphs are deduplicated by the visited set:
// a node is enqueued at most once no matter how many paths reach it.
func (g *Graph) TransitivelyBlocked(id string) []string {
	visited := make(map[string]bool)
	queue := slices.Clone(g.reverse[id])

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if visited[next] {
			continue
		}
		visited[next] = true
		queue = append(queue, g.reverse[next]...)
	}

	blocked := make([]string, 0, len(visited))
	for v := range visited {
		blocked = append(blocked, v)
	}
	sort.Strings(blocked)
	return blocked
}

// TransitiveDeps returns the full hard dependency closure of id, sorted.
// Edges pointing outside the snapshot are included so explanatory output
// can show externally-satisfied references.
func (g *Graph) TransitiveDeps(id string) []string {
	visited := make(map[string]bool)
	queue := slices.Clone(g.forward[id])

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if visited[next] {
			continue
		}
		visited[next] = true
		queue = append(queue, g.forward[next]...)
	}

	deps := make([]string, 0, len(visited))
	for v := range visited {
		deps = append(deps, v)
	}
	sort.Strings(deps)
	return deps
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
