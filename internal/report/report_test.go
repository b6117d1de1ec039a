package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntrotner/heap-causal-link/internal/domain"
	"github.com/ntrotner/heap-causal-link/internal/report"
)

func TestRenderMatchingHTML_IncludesCategories(t *testing.T) {
	rt, err := domain.NewRuntime([]domain.Node{{ID: "n1", Type: "object"}}, nil, nil)
	require.NoError(t, err)

	result := domain.MatchingResult{
		Matched: []domain.MatchedPair{{BaselineNodeIDs: []string{"n1"}, ModifiedNodeIDs: []string{"n1"}}},
	}

	html, err := report.RenderMatchingHTML(rt, rt, result)
	require.NoError(t, err)
	assert.Contains(t, html, "Matched")
	assert.Contains(t, html, "Added")
	assert.True(t, strings.Contains(html, "<table>"))
}

func TestRenderCodeLinkHTML_IncludesCounts(t *testing.T) {
	container := domain.CodeLinkContainer{
		Regressions: []domain.CausalPair{
			{NodeID: "n3", Change: domain.CodeEvolution{FileID: "app.js"}, Confidence: domain.ConfidenceDirect},
		},
		UnmappableImprovements: []string{"n5"},
	}

	html, err := report.RenderCodeLinkHTML(container)
	require.NoError(t, err)
	assert.Contains(t, html, "n3")
	assert.Contains(t, html, "Unmappable improvements: 1")
}
