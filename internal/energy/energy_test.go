package energy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ntrotner/heap-causal-link/internal/domain"
	"github.com/ntrotner/heap-causal-link/internal/energy"
)

func TestAggregate_SkipsNodesWithoutEnergy(t *testing.T) {
	nodes := []domain.Node{
		{ID: "n1", Energy: &domain.Energy{ReadCounter: 2, WriteCounter: 1, Size: 10}},
		{ID: "n2"},
		{ID: "n3", Energy: &domain.Energy{ReadCounter: 3, WriteCounter: 0, Size: 5}},
	}

	got := energy.Aggregate(nodes)

	assert.Equal(t, energy.Totals{
		ReadCounter:  5,
		WriteCounter: 1,
		ReadSize:     2*10 + 3*5,
		WriteSize:    1 * 10,
	}, got)
}

func TestDiff_NegativeIsImprovement(t *testing.T) {
	baseline := energy.Totals{ReadCounter: 10, WriteCounter: 10, ReadSize: 100, WriteSize: 100}
	modified := energy.Totals{ReadCounter: 4, WriteCounter: 12, ReadSize: 40, WriteSize: 130}

	got := energy.Diff(baseline, modified)

	assert.Equal(t, energy.Totals{
		ReadCounter:  -6,
		WriteCounter: 2,
		ReadSize:     -60,
		WriteSize:    30,
	}, got)
}
