package depgraph

import "strings"

// Cycle is a closed dependency walk; the first class repeats as the last element.
type Cycle []ClassName

// String joins the cycle with the given separator.
func (c Cycle) String() string {
	return c.Join(" -> ")
}

// Join renders the cycle with sep between classes.
func (c Cycle) Join(sep string) string {
	parts := make([]string, len(c))
	for i, n := range c {
		parts[i] = string(n)
	}
	return strings.Join(parts, sep)
}

// frame is one entry of the explicit DFS stack.
type frame struct {
	node ClassName
	next int // index of the next target to visit
}

// FindCycles runs a depth-first search from every unvisited class and returns
// the circular dependencies it finds. Traversal of a root stops at the first
// cycle reached from it, so the result is not exhaustive. Classes stay visited
// across roots and are never explored twice.
//
// Roots are taken in sorted order and targets in insertion order, so the result
// is deterministic for a given edge discovery order. An empty result means the
// graph is acyclic.
func (g *Graph) FindCycles() []Cycle {
	var cycles []Cycle

	visited := make(map[ClassName]bool, len(g.nodes))
	onPath := make(map[ClassName]bool)
	position := make(map[ClassName]int) // node -> index in path
	var path []ClassName
	var stack []frame

	push := func(n ClassName) {
		visited[n] = true
		onPath[n] = true
		position[n] = len(path)
		path = append(path, n)
		stack = append(stack, frame{node: n})
	}

	for _, root := range g.Nodes() {
		if visited[root] {
			continue
		}

		push(root)
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			targets := g.adjacency[top.node]

			if top.next >= len(targets) {
				// Fully explored: leave the path but stay visited.
				onPath[top.node] = false
				delete(position, top.node)
				path = path[:len(path)-1]
				stack = stack[:len(stack)-1]
				continue
			}

			target := targets[top.next]
			top.next++

			if !visited[target] {
				push(target)
				continue
			}
			if onPath[target] {
				start := position[target]
				cycle := make(Cycle, 0, len(path)-start+1)
				cycle = append(cycle, path[start:]...)
				cycle = append(cycle, target)
				cycles = append(cycles, cycle)

				// Abandon this root; nodes on the path remain visited.
				for _, n := range path {
					onPath[n] = false
					delete(position, n)
				}
				path = path[:0]
				stack = stack[:0]
			}
		}
	}

	return cycles
}

// HasCycle reports whether the graph contains at least one cycle.
func (g *Graph) HasCycle() bool {
	return len(g.FindCycles()) > 0
}
