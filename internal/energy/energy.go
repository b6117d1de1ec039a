// Package energy aggregates and diffs the per-node access counters carried
// on domain.Energy.
package energy

import "github.com/ntrotner/heap-causal-link/internal/domain"

// Totals is the four-tuple (Σ readCounter, Σ writeCounter, Σ read bytes,
// Σ write bytes) produced by Aggregate.
type Totals struct {
	ReadCounter  int64
	WriteCounter int64
	ReadSize     int64
	WriteSize    int64
}

// Aggregate sums the energy fields across nodes, skipping any node without
// an Energy value. ReadSize and WriteSize are each node's counter
// multiplied by its size, summed — not a sum of a separately stored field.
func Aggregate(nodes []domain.Node) Totals {
	var t Totals
	for _, n := range nodes {
		if n.Energy == nil {
			continue
		}
		t.ReadCounter += n.Energy.ReadCounter
		t.WriteCounter += n.Energy.WriteCounter
		t.ReadSize += n.Energy.ReadCounter * n.Energy.Size
		t.WriteSize += n.Energy.WriteCounter * n.Energy.Size
	}
	return t
}

// Diff returns modified minus baseline across all four dimensions.
// Negative values denote an improvement (modified consumed less than
// baseline); positive values denote a regression.
func Diff(baseline, modified Totals) Totals {
	return Totals{
		ReadCounter:  modified.ReadCounter - baseline.ReadCounter,
		WriteCounter: modified.WriteCounter - baseline.WriteCounter,
		ReadSize:     modified.ReadSize - baseline.ReadSize,
		WriteSize:    modified.WriteSize - baseline.WriteSize,
	}
}
