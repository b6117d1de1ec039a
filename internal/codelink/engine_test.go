package codelink_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntrotner/heap-causal-link/internal/codelink"
	"github.com/ntrotner/heap-causal-link/internal/domain"
)

func evolution(fileID string, lineStart, lineEnd int, source domain.ModificationSource) domain.CodeEvolution {
	return domain.CodeEvolution{
		FileID:             fileID,
		ModificationType:   domain.ModificationModify,
		ModificationSource: source,
		CodeChangeSpan:     domain.CodeChangeSpan{LineStart: lineStart, LineEnd: lineEnd},
	}
}

func TestLink_DirectMatch(t *testing.T) {
	traceID := "s1"
	nodes := []domain.Node{{ID: "n2", Type: "object", TraceID: &traceID}}
	stacks := []domain.Stack{{ID: "s1", ScriptName: "app.js", LineNumber: 10}}
	rt, err := domain.NewRuntime(nodes, nil, stacks)
	require.NoError(t, err)

	ctx := []domain.CodeEvolution{evolution("app.js", 5, 15, domain.SourceBase)}
	result := codelink.NewEngine(rt, 10).Link([]string{"n2"}, ctx)

	require.Len(t, result.Pairs, 1)
	assert.Equal(t, domain.ConfidenceDirect, result.Pairs[0].Confidence)
	assert.Empty(t, result.Unmappable)
}

func TestLink_NoTraceIDIsUnmappableWithoutRetainer(t *testing.T) {
	nodes := []domain.Node{{ID: "n1", Type: "object"}}
	rt, err := domain.NewRuntime(nodes, nil, nil)
	require.NoError(t, err)

	result := codelink.NewEngine(rt, 10).Link([]string{"n1"}, nil)
	assert.Empty(t, result.Pairs)
	assert.Equal(t, []string{"n1"}, result.Unmappable)
}

func TestLink_DerivedReachThroughRetainer(t *testing.T) {
	traceID := "s1"
	nodes := []domain.Node{
		{ID: "n1", Type: "root", Root: true},
		{ID: "n2", Type: "object", TraceID: &traceID},
		{ID: "n_new", Type: "object"},
	}
	edges := []domain.Edge{
		{ID: "e1", FromNodeID: "n1", ToNodeID: "n2"},
		{ID: "e2", FromNodeID: "n2", ToNodeID: "n_new"},
	}
	stacks := []domain.Stack{{ID: "s1", ScriptName: "app.js", LineNumber: 20}}
	rt, err := domain.NewRuntime(nodes, edges, stacks)
	require.NoError(t, err)

	ctx := []domain.CodeEvolution{evolution("app.js", 18, 25, domain.SourceModified)}
	result := codelink.NewEngine(rt, 10).Link([]string{"n2", "n_new"}, ctx)

	var newPair *domain.CausalPair
	for i := range result.Pairs {
		if result.Pairs[i].NodeID == "n_new" {
			newPair = &result.Pairs[i]
		}
	}
	require.NotNil(t, newPair)
	assert.Equal(t, domain.ConfidenceDerived, newPair.Confidence)
}

func TestLink_OutOfReachIsUnmappable(t *testing.T) {
	traceID := "s1"
	nodes := []domain.Node{
		{ID: "n1", Type: "root", Root: true},
		{ID: "n2", Type: "object", TraceID: &traceID},
		{ID: "mid", Type: "object"},
		{ID: "far", Type: "object"},
	}
	edges := []domain.Edge{
		{ID: "e1", FromNodeID: "n1", ToNodeID: "n2"},
		{ID: "e2", FromNodeID: "n2", ToNodeID: "mid"},
		{ID: "e3", FromNodeID: "mid", ToNodeID: "far"},
	}
	stacks := []domain.Stack{{ID: "s1", ScriptName: "app.js", LineNumber: 20}}
	rt, err := domain.NewRuntime(nodes, edges, stacks)
	require.NoError(t, err)

	ctx := []domain.CodeEvolution{evolution("app.js", 18, 25, domain.SourceModified)}
	// n2 is two retainer hops from "far" (via "mid"); a maxDistance of 1 hop
	// only reaches "mid", which has no trace.
	result := codelink.NewEngine(rt, 1).Link([]string{"far"}, ctx)

	assert.Empty(t, result.Pairs)
	assert.Equal(t, []string{"far"}, result.Unmappable)
}

func TestLink_SubstringFileMatchIsPermissive(t *testing.T) {
	traceID := "s1"
	nodes := []domain.Node{{ID: "n1", Type: "object", TraceID: &traceID}}
	stacks := []domain.Stack{{ID: "s1", ScriptName: "vendor/app.js", LineNumber: 10}}
	rt, err := domain.NewRuntime(nodes, nil, stacks)
	require.NoError(t, err)

	// "app.js" is a substring of "vendor/app.js": matches, by design.
	ctx := []domain.CodeEvolution{evolution("app.js", 5, 15, domain.SourceBase)}
	result := codelink.NewEngine(rt, 10).Link([]string{"n1"}, ctx)
	require.Len(t, result.Pairs, 1)
}
