package orchestrator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntrotner/heap-causal-link/internal/differentiate"
	"github.com/ntrotner/heap-causal-link/internal/domain"
	"github.com/ntrotner/heap-causal-link/internal/orchestrator"
)

func strPtr(s string) *string { return &s }

func primitiveConfig(baseline, modified *domain.Runtime, changes []domain.CodeEvolution) orchestrator.Config {
	factory, err := orchestrator.ResolveStrategy("primitive")
	if err != nil {
		panic(err)
	}
	return orchestrator.Config{
		BaselineRuntime:     baseline,
		ModifiedRuntime:     modified,
		CodeChanges:         changes,
		Partitioner:         factory,
		DifferentiateParams: differentiate.DefaultParams(),
		MaxDistance:         10,
	}
}

// Scenario A — value change.
func TestScenarioA_ValueChange(t *testing.T) {
	s1 := domain.Stack{ID: "s1", ScriptName: "app.js", LineNumber: 10}

	oldVal := "old"
	newVal := "new"
	baseline, err := domain.NewRuntime([]domain.Node{
		{ID: "n1", Type: "root", Root: true},
		{ID: "n2", Type: "object", Value: &oldVal, TraceID: strPtr("s1")},
	}, []domain.Edge{{ID: "e1", FromNodeID: "n1", ToNodeID: "n2"}}, []domain.Stack{s1})
	require.NoError(t, err)

	modified, err := domain.NewRuntime([]domain.Node{
		{ID: "n1", Type: "root", Root: true},
		{ID: "n2", Type: "object", Value: &newVal, TraceID: strPtr("s1")},
	}, []domain.Edge{{ID: "e1", FromNodeID: "n1", ToNodeID: "n2"}}, []domain.Stack{s1})
	require.NoError(t, err)

	ceBase := domain.CodeEvolution{
		FileID:             "app.js",
		ModificationType:   domain.ModificationModify,
		ModificationSource: domain.SourceBase,
		CodeChangeSpan:     domain.CodeChangeSpan{LineStart: 5, LineEnd: 15},
	}

	cfg := primitiveConfig(baseline, modified, []domain.CodeEvolution{ceBase})
	// As singletons, n2's value change alone has distance 0.35, not below the
	// 0.3 threshold; grouping n2 with its root (K-hop) keeps the centers equal,
	// so the pair lands in Modified.
	cfg.Partitioner, err = orchestrator.ResolveStrategy("heuristic-greedy")
	require.NoError(t, err)
	matching, container, _, err := orchestrator.Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, matching.Modified, 1)
	assert.Contains(t, matching.Modified[0].ModifiedNodeIDs, "n2")

	foundInImprovements := false
	for _, p := range container.Improvements {
		if p.NodeID == "n2" {
			foundInImprovements = true
			assert.Equal(t, domain.ConfidenceDirect, p.Confidence)
		}
	}
	assert.True(t, foundInImprovements)
	for _, p := range container.Regressions {
		assert.NotEqual(t, "n2", p.NodeID)
	}
}

// Scenario B — pure addition.
func TestScenarioB_PureAddition(t *testing.T) {
	s2 := domain.Stack{ID: "s2", ScriptName: "app.js", LineNumber: 20}

	baseline, err := domain.NewRuntime([]domain.Node{
		{ID: "n1", Type: "root", Root: true},
		{ID: "n2", Type: "object"},
	}, []domain.Edge{{ID: "e1", FromNodeID: "n1", ToNodeID: "n2"}}, nil)
	require.NoError(t, err)

	modified, err := domain.NewRuntime([]domain.Node{
		{ID: "n1", Type: "root", Root: true},
		{ID: "n2", Type: "object"},
		{ID: "n3", Type: "object", TraceID: strPtr("s2")},
	}, []domain.Edge{
		{ID: "e1", FromNodeID: "n1", ToNodeID: "n2"},
		{ID: "e2", FromNodeID: "n2", ToNodeID: "n3"},
	}, []domain.Stack{s2})
	require.NoError(t, err)

	ceMod := domain.CodeEvolution{
		FileID:             "app.js",
		ModificationType:   domain.ModificationInsert,
		ModificationSource: domain.SourceModified,
		CodeChangeSpan:     domain.CodeChangeSpan{LineStart: 18, LineEnd: 25},
	}

	cfg := primitiveConfig(baseline, modified, []domain.CodeEvolution{ceMod})
	matching, container, _, err := orchestrator.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Contains(t, matching.AddedNodeIDs, []string{"n3"})

	found := false
	for _, p := range container.Regressions {
		if p.NodeID == "n3" {
			found = true
			assert.Equal(t, domain.ConfidenceDirect, p.Confidence)
		}
	}
	assert.True(t, found)
}

// Scenario E — large chain identity.
func TestScenarioE_LargeChainIdentity(t *testing.T) {
	const n = 50
	nodes := make([]domain.Node, n)
	edges := make([]domain.Edge, 0, n-1)
	for i := 0; i < n; i++ {
		nodes[i] = domain.Node{ID: idFor(i), Type: "object"}
		if i > 0 {
			edges = append(edges, domain.Edge{ID: "e" + idFor(i), FromNodeID: idFor(i - 1), ToNodeID: idFor(i)})
		}
	}
	rt, err := domain.NewRuntime(nodes, edges, nil)
	require.NoError(t, err)

	cfg := primitiveConfig(rt, rt, nil)
	matching, container, _, err := orchestrator.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Len(t, matching.Matched, n)
	assert.Empty(t, matching.Modified)
	assert.Empty(t, matching.AddedNodeIDs)
	assert.Empty(t, matching.RemovedNodeIDs)
	assert.Empty(t, container.Regressions)
	assert.Empty(t, container.Improvements)
}

func idFor(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return string(letters[i%len(letters)]) + string(rune('0'+i/len(letters)))
}
