package subgraph_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntrotner/heap-causal-link/internal/domain"
	"github.com/ntrotner/heap-causal-link/internal/subgraph"
)

func chainRuntime(t *testing.T, n int) *domain.Runtime {
	t.Helper()
	nodes := make([]domain.Node, n)
	edges := make([]domain.Edge, 0, n-1)
	for i := 0; i < n; i++ {
		nodes[i] = domain.Node{ID: idOf(i), Type: "object"}
		if i > 0 {
			edges = append(edges, domain.Edge{
				ID:         "e" + idOf(i),
				FromNodeID: idOf(i - 1),
				ToNodeID:   idOf(i),
				Name:       "next",
			})
		}
	}
	rt, err := domain.NewRuntime(nodes, edges, nil)
	require.NoError(t, err)
	return rt
}

func idOf(i int) string {
	return string(rune('a' + i))
}

func allNodeIDs(subgraphs []domain.Subgraph) []string {
	var out []string
	for _, s := range subgraphs {
		out = append(out, s.NodeIDs...)
	}
	sort.Strings(out)
	return out
}

func TestPrimitive_SingletonPerNode(t *testing.T) {
	rt := chainRuntime(t, 5)
	out := subgraph.Primitive{}.Generate(rt)

	require.Len(t, out, 5)
	for _, s := range out {
		assert.Len(t, s.NodeIDs, 1)
		assert.Empty(t, s.EdgeIDs)
		assert.Equal(t, s.NodeIDs[0], s.CenterNodeID)
	}
}

func TestGreedyKHop_CoversEveryNodeExactlyOnce(t *testing.T) {
	rt := chainRuntime(t, 9)
	out := subgraph.GreedyKHop{K: 2}.Generate(rt)

	seen := make(map[string]int)
	for _, s := range out {
		for _, id := range s.NodeIDs {
			seen[id]++
		}
	}
	for _, n := range rt.Nodes() {
		assert.Equal(t, 1, seen[n.ID], "node %s should be claimed exactly once", n.ID)
	}
}

func TestGreedyKHop_DefaultsKWhenNonPositive(t *testing.T) {
	rt := chainRuntime(t, 3)
	withZero := subgraph.GreedyKHop{}.Generate(rt)
	withDefault := subgraph.GreedyKHop{K: subgraph.DefaultKHop}.Generate(rt)
	assert.Equal(t, allNodeIDs(withDefault), allNodeIDs(withZero))
}

func TestCommunity_SingleNodeYieldsOneSubgraph(t *testing.T) {
	rt, err := domain.NewRuntime([]domain.Node{{ID: "only"}}, nil, nil)
	require.NoError(t, err)
	out := subgraph.Community{}.Generate(rt)
	require.Len(t, out, 1)
	assert.Equal(t, "only", out[0].CenterNodeID)
}

func TestCommunity_CoversEveryNodeDisjointly(t *testing.T) {
	rt := chainRuntime(t, 12)
	out := subgraph.Community{Seed: 42}.Generate(rt)

	seen := make(map[string]int)
	for _, s := range out {
		for _, id := range s.NodeIDs {
			seen[id]++
		}
	}
	for _, n := range rt.Nodes() {
		assert.Equal(t, 1, seen[n.ID])
	}
}

func TestCommunity_DeterministicForFixedSeed(t *testing.T) {
	rt := chainRuntime(t, 20)
	a := subgraph.Community{Seed: 7}.Generate(rt)
	b := subgraph.Community{Seed: 7}.Generate(rt)
	assert.Equal(t, a, b)
}
