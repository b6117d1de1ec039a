// Package differentiate implements the three-phase heuristic matcher that
// classifies subgraph pairs across a baseline and a modified Runtime into
// matched, modified, added, and removed buckets.
package differentiate

import (
	"sort"

	"github.com/ntrotner/heap-causal-link/internal/domain"
	"github.com/ntrotner/heap-causal-link/internal/signature"
)

// Params parameterizes the three phases. Weights are exposed rather than
// hardcoded so callers can reproduce an older branch's 0.5/0.3/0.2 split
// if needed; DefaultParams applies the resolved 0.5/0.35/0.10 defaults.
type Params struct {
	SimilarityThreshold float64
	WeightType          float64
	WeightValue         float64
	WeightTopology      float64
}

// DefaultParams returns the resolved defaults: 0.3 similarity threshold,
// weights 0.5/0.35/0.10.
func DefaultParams() Params {
	return Params{
		SimilarityThreshold: 0.3,
		WeightType:          0.5,
		WeightValue:         0.35,
		WeightTopology:      0.10,
	}
}

// Engine runs the three-phase match. It holds no state across calls to
// Differentiate; every field is a per-call local.
type Engine struct {
	Params Params
}

// NewEngine constructs an Engine with the given Params. A zero Params
// (SimilarityThreshold == 0) is replaced with DefaultParams, since a
// literal zero threshold would reject every candidate pair in Phase 2.
func NewEngine(params Params) *Engine {
	if params.SimilarityThreshold == 0 {
		params = DefaultParams()
	}
	return &Engine{Params: params}
}

// candidate is one subgraph plus precomputed data used across phases.
type candidate struct {
	sub        domain.Subgraph
	centerType string
	centerVal  string
	typeSet    map[string]struct{}
	sigMultiset string
	claimed    bool
}

// Differentiate runs Phase 1 (exact), Phase 2 (inexact), and Phase 3
// (residual) over the baseline and modified subgraph lists, in list
// order, and returns the classification.
func (e *Engine) Differentiate(baselineRT, modifiedRT *domain.Runtime, baseline, modified []domain.Subgraph) domain.MatchingResult {
	baseCands := buildCandidates(baselineRT, baseline)
	modCands := buildCandidates(modifiedRT, modified)

	var result domain.MatchingResult

	// Phase 1: exact matching, hashed signature-multiset acceleration.
	baseBySig := make(map[string][]int, len(baseCands))
	for i, c := range baseCands {
		baseBySig[c.sigMultiset] = append(baseBySig[c.sigMultiset], i)
	}

	for mi := range modCands {
		mc := &modCands[mi]
		candidates := baseBySig[mc.sigMultiset]
		for _, bi := range candidates {
			bc := &baseCands[bi]
			if bc.claimed {
				continue
			}
			if !structurallyEquivalent(bc, mc) {
				continue
			}
			bc.claimed = true
			mc.claimed = true
			result.Matched = append(result.Matched, domain.MatchedPair{
				BaselineNodeIDs: bc.sub.NodeIDs,
				ModifiedNodeIDs: mc.sub.NodeIDs,
			})
			break
		}
	}

	// Phase 2: inexact matching.
	type pairDist struct {
		bi, mi int
		dist   float64
	}
	var pairs []pairDist
	for bi := range baseCands {
		if baseCands[bi].claimed {
			continue
		}
		for mi := range modCands {
			if modCands[mi].claimed {
				continue
			}
			d := e.distance(&baseCands[bi], &modCands[mi])
			if d < e.Params.SimilarityThreshold {
				pairs = append(pairs, pairDist{bi, mi, d})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].dist < pairs[j].dist })

	for _, p := range pairs {
		bc := &baseCands[p.bi]
		mc := &modCands[p.mi]
		if bc.claimed || mc.claimed {
			continue
		}
		bc.claimed = true
		mc.claimed = true
		result.Modified = append(result.Modified, domain.ModifiedPair{
			BaselineNodeIDs: bc.sub.NodeIDs,
			ModifiedNodeIDs: mc.sub.NodeIDs,
			SimilarityScore: 1 - p.dist,
		})
	}

	// Phase 3: residual classification.
	for _, mc := range modCands {
		if !mc.claimed {
			result.AddedNodeIDs = append(result.AddedNodeIDs, mc.sub.NodeIDs)
		}
	}
	for _, bc := range baseCands {
		if !bc.claimed {
			result.RemovedNodeIDs = append(result.RemovedNodeIDs, bc.sub.NodeIDs)
		}
	}

	return result
}

// buildCandidates assumes subs were partitioned from rt itself, so every
// CenterNodeID and NodeIDs entry is guaranteed present in rt's index;
// MustGetNodeByID panics rather than silently skipping a node if that
// invariant is ever violated by a future partitioner.
func buildCandidates(rt *domain.Runtime, subs []domain.Subgraph) []candidate {
	out := make([]candidate, len(subs))
	for i, s := range subs {
		center := rt.MustGetNodeByID(s.CenterNodeID)
		c := candidate{sub: s, typeSet: make(map[string]struct{}, len(s.NodeIDs))}
		c.centerType = center.Type
		if center.Value != nil {
			c.centerVal = *center.Value
		}

		sigs := make([]string, 0, len(s.NodeIDs))
		for _, nid := range s.NodeIDs {
			n := rt.MustGetNodeByID(nid)
			sigs = append(sigs, signature.OfNode(*n))
			c.typeSet[n.Type] = struct{}{}
		}
		sort.Strings(sigs)
		c.sigMultiset = joinSigs(sigs)

		out[i] = c
	}
	return out
}

func joinSigs(sigs []string) string {
	out := ""
	for _, s := range sigs {
		out += s + "\x01"
	}
	return out
}

// structurallyEquivalent implements Phase 1's equality test: equal node
// count, equal edge count, equal multiset of node signatures. Ids and edge
// attributes are ignored.
func structurallyEquivalent(a, b *candidate) bool {
	if len(a.sub.NodeIDs) != len(b.sub.NodeIDs) {
		return false
	}
	if len(a.sub.EdgeIDs) != len(b.sub.EdgeIDs) {
		return false
	}
	return a.sigMultiset == b.sigMultiset
}

// distance implements Phase 2's weighted distance formula.
func (e *Engine) distance(a, b *candidate) float64 {
	deltaType := 0.0
	if a.centerType != b.centerType {
		deltaType = 1.0
	}
	deltaValue := 0.0
	if a.centerVal != b.centerVal {
		deltaValue = 1.0
	}
	deltaTopology := jaccardDistance(a.typeSet, b.typeSet)

	return e.Params.WeightType*deltaType +
		e.Params.WeightValue*deltaValue +
		e.Params.WeightTopology*deltaTopology
}

// jaccardDistance returns 1 - |A∩B|/|A∪B| over two type sets, defined as
// 1.0 when both sets are empty (no shared vocabulary to compare).
func jaccardDistance(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return 1.0 - float64(inter)/float64(union)
}
