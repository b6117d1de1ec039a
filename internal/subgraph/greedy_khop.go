package subgraph

import (
	"sort"

	"github.com/ntrotner/heap-causal-link/internal/domain"
)

// DefaultKHop is the default BFS depth for GreedyKHop.
const DefaultKHop = 2

// neighborEdge names one undirected hop: the node reached, and the id of
// the original directed Edge that connects to it.
type neighborEdge struct {
	nodeID string
	edgeID string
}

// GreedyKHop produces a disjoint cover of a Runtime's nodes by BFS from
// unclaimed nodes in ascending id order, claiming every node reached
// within K hops so it cannot start its own subgraph. K defaults to
// DefaultKHop when non-positive.
//
// The resulting partition depends on node id iteration order, not on
// graph topology — this is intentional (preserved from the source
// algorithm for reproducibility) and produces uneven cluster sizes. Two
// topologically identical runtimes with different node ids may partition
// differently.
type GreedyKHop struct {
	K int
}

// Generate implements Partitioner.
func (g GreedyKHop) Generate(rt *domain.Runtime) []domain.Subgraph {
	k := g.K
	if k <= 0 {
		k = DefaultKHop
	}

	adj := buildNeighborEdgeIndex(rt)

	ids := make([]string, 0, len(rt.Nodes()))
	for _, n := range rt.Nodes() {
		ids = append(ids, n.ID)
	}
	sort.Strings(ids)

	claimed := make(map[string]struct{}, len(ids))
	out := make([]domain.Subgraph, 0)

	for _, startID := range ids {
		if _, done := claimed[startID]; done {
			continue
		}

		nodeSet := map[string]struct{}{startID: {}}
		edgeSet := map[string]struct{}{}
		frontier := []string{startID}
		claimed[startID] = struct{}{}

		for depth := 0; depth < k && len(frontier) > 0; depth++ {
			var next []string
			for _, cur := range frontier {
				for _, ne := range adj[cur] {
					edgeSet[ne.edgeID] = struct{}{}
					if _, alreadyClaimed := claimed[ne.nodeID]; alreadyClaimed {
						continue
					}
					nodeSet[ne.nodeID] = struct{}{}
					claimed[ne.nodeID] = struct{}{}
					next = append(next, ne.nodeID)
				}
			}
			frontier = next
		}

		sub := domain.Subgraph{CenterNodeID: startID}
		for id := range nodeSet {
			sub.NodeIDs = append(sub.NodeIDs, id)
		}
		for id := range edgeSet {
			sub.EdgeIDs = append(sub.EdgeIDs, id)
		}
		sort.Strings(sub.NodeIDs)
		sort.Strings(sub.EdgeIDs)
		out = append(out, sub)
	}

	return out
}

func buildNeighborEdgeIndex(rt *domain.Runtime) map[string][]neighborEdge {
	idx := make(map[string][]neighborEdge, len(rt.Nodes()))
	for _, n := range rt.Nodes() {
		idx[n.ID] = nil
	}
	for _, e := range rt.Edges() {
		if _, ok := idx[e.FromNodeID]; !ok {
			continue
		}
		if _, ok := idx[e.ToNodeID]; !ok {
			continue
		}
		idx[e.FromNodeID] = append(idx[e.FromNodeID], neighborEdge{nodeID: e.ToNodeID, edgeID: e.ID})
		idx[e.ToNodeID] = append(idx[e.ToNodeID], neighborEdge{nodeID: e.FromNodeID, edgeID: e.ID})
	}
	return idx
}
