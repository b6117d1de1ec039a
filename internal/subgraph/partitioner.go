// Package subgraph implements the three interchangeable strategies for
// decomposing a Runtime into a list of Subgraphs: primitive, greedy K-hop,
// and community detection.
package subgraph

import "github.com/ntrotner/heap-causal-link/internal/domain"

// Partitioner decomposes a Runtime into Subgraphs. All three
// implementations in this package are deterministic and pure: the same
// Runtime value yields the same output list, in the same order, every
// time.
type Partitioner interface {
	Generate(rt *domain.Runtime) []domain.Subgraph
}

// undirectedAdjacency builds node-id → set-of-neighbour-node-ids from a
// Runtime's directed edges, collapsing direction. Used by Community;
// GreedyKHop builds its own edge-aware index (buildNeighborEdgeIndex)
// because it must record which edge each hop traversed.
func undirectedAdjacency(rt *domain.Runtime) map[string]map[string]struct{} {
	adj := make(map[string]map[string]struct{}, len(rt.Nodes()))
	for _, n := range rt.Nodes() {
		adj[n.ID] = make(map[string]struct{})
	}
	for _, e := range rt.Edges() {
		if _, ok := adj[e.FromNodeID]; !ok {
			continue
		}
		if _, ok := adj[e.ToNodeID]; !ok {
			continue
		}
		adj[e.FromNodeID][e.ToNodeID] = struct{}{}
		adj[e.ToNodeID][e.FromNodeID] = struct{}{}
	}
	return adj
}
