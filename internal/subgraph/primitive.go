package subgraph

import "github.com/ntrotner/heap-causal-link/internal/domain"

// Primitive turns every Node into a singleton Subgraph with no edges.
// Deterministic; O(N).
type Primitive struct{}

// Generate implements Partitioner.
func (Primitive) Generate(rt *domain.Runtime) []domain.Subgraph {
	nodes := rt.Nodes()
	out := make([]domain.Subgraph, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, domain.Subgraph{
			CenterNodeID: n.ID,
			NodeIDs:      []string{n.ID},
		})
	}
	return out
}
