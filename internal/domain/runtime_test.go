package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntrotner/heap-causal-link/internal/domain"
)

func TestNewRuntime_RejectsEmptyNodes(t *testing.T) {
	_, err := domain.NewRuntime(nil, nil, nil)
	require.ErrorIs(t, err, domain.ErrInvalidRuntime)
}

func TestNewRuntime_ToleratesEmptyEdgesAndStacks(t *testing.T) {
	rt, err := domain.NewRuntime([]domain.Node{{ID: "n1", Type: "object"}}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, rt.Edges())
	assert.Empty(t, rt.Stacks())
}

func TestRuntime_GetNodeByID(t *testing.T) {
	rt, err := domain.NewRuntime([]domain.Node{
		{ID: "n1", Type: "object"},
		{ID: "n2", Type: "string"},
	}, nil, nil)
	require.NoError(t, err)

	n := rt.GetNodeByID("n2")
	require.NotNil(t, n)
	assert.Equal(t, "string", n.Type)

	assert.Nil(t, rt.GetNodeByID("missing"))
}

func TestRuntime_GetStackByID(t *testing.T) {
	rt, err := domain.NewRuntime(
		[]domain.Node{{ID: "n1", Type: "object"}},
		nil,
		[]domain.Stack{{ID: "s1", ScriptName: "app.js", LineNumber: 10}},
	)
	require.NoError(t, err)

	s := rt.GetStackByID("s1")
	require.NotNil(t, s)
	assert.Equal(t, "app.js", s.ScriptName)
}

func TestRuntime_MustGetNodeByID_PanicsOnMissing(t *testing.T) {
	rt, err := domain.NewRuntime([]domain.Node{{ID: "n1", Type: "object"}}, nil, nil)
	require.NoError(t, err)

	assert.Panics(t, func() {
		rt.MustGetNodeByID("missing")
	})
}
