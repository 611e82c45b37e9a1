package depgraph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCycles_NoEdges(t *testing.T) {
	g := NewGraph()
	g.AddClass("a")
	g.AddClass("b")

	assert.Empty(t, g.FindCycles())
	assert.False(t, g.HasCycle())
	assert.Equal(t, g.Nodes(), g.Unreferenced())
}

func TestFindCycles_Acyclic(t *testing.T) {
	g := NewGraph()
	g.AddDependency("a", "b", KindInclude)
	g.AddDependency("b", "c", KindRequire)
	g.AddDependency("a", "c", KindContain)

	assert.Empty(t, g.FindCycles())
}

func TestFindCycles_SelfLoop(t *testing.T) {
	g := NewGraph()
	g.AddDependency("a", "a", KindNotify)

	cycles := g.FindCycles()

	require.Len(t, cycles, 1)
	assert.Equal(t, Cycle{"a", "a"}, cycles[0])
}

func TestFindCycles_TwoNodeCycle(t *testing.T) {
	g := NewGraph()
	g.AddDependency("a", "b", KindInclude)
	g.AddDependency("b", "a", KindInclude)

	cycles := g.FindCycles()

	require.Len(t, cycles, 1)
	assert.Equal(t, Cycle{"a", "b", "a"}, cycles[0])
}

func TestFindCycles_CycleBelowRoot(t *testing.T) {
	g := NewGraph()
	g.AddDependency("app", "db", KindRequire)
	g.AddDependency("db", "storage", KindRequire)
	g.AddDependency("storage", "db", KindSubscribe)

	cycles := g.FindCycles()

	require.Len(t, cycles, 1)
	assert.Equal(t, Cycle{"db", "storage", "db"}, cycles[0], "path slice starts at the repeated class")
}

func TestFindCycles_StopsAtFirstCyclePerRoot(t *testing.T) {
	g := NewGraph()
	g.AddDependency("a", "a", KindRequire)
	g.AddDependency("a", "b", KindRequire)
	g.AddDependency("b", "b", KindRequire)

	cycles := g.FindCycles()

	// Root "a" stops at its self-loop; "b" is a fresh root afterwards.
	require.Len(t, cycles, 2)
	assert.Equal(t, Cycle{"a", "a"}, cycles[0])
	assert.Equal(t, Cycle{"b", "b"}, cycles[1])
}

func TestFindCycles_IndependentCycles(t *testing.T) {
	g := NewGraph()
	g.AddDependency("a", "b", KindInclude)
	g.AddDependency("b", "a", KindInclude)
	g.AddDependency("x", "y", KindInclude)
	g.AddDependency("y", "z", KindInclude)
	g.AddDependency("z", "x", KindInclude)

	cycles := g.FindCycles()

	require.Len(t, cycles, 2)
	assert.Equal(t, Cycle{"a", "b", "a"}, cycles[0])
	assert.Equal(t, Cycle{"x", "y", "z", "x"}, cycles[1])
}

func TestFindCycles_SharedVisitedAcrossRoots(t *testing.T) {
	g := NewGraph()
	// "b" is explored from root "a"; root "c" must not re-explore it.
	g.AddDependency("a", "b", KindInclude)
	g.AddDependency("c", "b", KindInclude)
	g.AddDependency("b", "d", KindInclude)

	assert.Empty(t, g.FindCycles())
}

func TestFindCycles_Deterministic(t *testing.T) {
	build := func() *Graph {
		g := NewGraph()
		g.AddDependency("m", "n", KindRequire)
		g.AddDependency("n", "o", KindRequire)
		g.AddDependency("o", "m", KindRequire)
		g.AddDependency("p", "p", KindRequire)
		return g
	}

	first := build().FindCycles()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, build().FindCycles())
	}
}

func TestFindCycles_DeepChainDoesNotRecurse(t *testing.T) {
	g := NewGraph()
	const depth = 100000
	for i := 0; i < depth; i++ {
		g.AddDependency(ClassName(fmt.Sprintf("c%06d", i)), ClassName(fmt.Sprintf("c%06d", i+1)), KindRequire)
	}
	g.AddDependency(ClassName(fmt.Sprintf("c%06d", depth)), "c000000", KindRequire)

	cycles := g.FindCycles()

	require.Len(t, cycles, 1)
	assert.Len(t, cycles[0], depth+2)
	assert.Equal(t, cycles[0][0], cycles[0][len(cycles[0])-1])
}

func TestCycle_Join(t *testing.T) {
	c := Cycle{"a", "b", "a"}
	assert.Equal(t, "a → b → a", c.Join(" → "))
	assert.Equal(t, "a -> b -> a", c.String())
}
