package subgraph

import (
	"context"
	"math/rand"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ntrotner/heap-causal-link/internal/domain"
)

var communityTracer = otel.Tracer("subgraph.community")

// Community detection constants.
const (
	// DefaultResolution is the modularity resolution parameter: higher
	// values favour smaller, more granular communities.
	DefaultResolution = 1.0

	// DefaultSeed is used when Community.Seed is zero, to keep the
	// pseudo-random node-visit order reproducible by default rather than
	// time-seeded.
	DefaultSeed = 1

	// maxLocalMovingPasses bounds the local-moving loop: each pass visits
	// every node once and tries to improve modularity by relocating it.
	maxLocalMovingPasses = 100
)

// Community partitions a Runtime with Louvain-style modularity
// optimization over an undirected collapse of the graph (direction is
// lost; multiple edges between the same pair of nodes collapse to one
// when computing degree and modularity gain). Resolution scales the
// null-model term in the modularity gain formula (higher resolution
// yields smaller communities); Seed drives the deterministic node-visit
// order used during local moving, so the same Seed always reproduces the
// same partition.
//
// This performs the local-moving phase of Louvain (repeated single-node
// relocation passes) to a fixed point; it does not additionally coarsen
// converged communities into super-nodes and recurse, since a single
// local-moving pass to convergence already yields a stable modularity
// partition for the graph sizes this module targets.
//
// Within each resulting community the center is the node of maximum
// induced-subgraph degree; ties are broken by ascending node id.
type Community struct {
	Resolution float64
	Seed       int64
}

// Generate implements Partitioner.
func (c Community) Generate(rt *domain.Runtime) []domain.Subgraph {
	_, span := communityTracer.Start(context.Background(), "community.generate")
	defer span.End()

	resolution := c.Resolution
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	seed := c.Seed
	if seed == 0 {
		seed = DefaultSeed
	}

	nodes := rt.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	span.SetAttributes(attribute.Int("node_count", len(nodes)))

	adj := undirectedAdjacency(rt)
	assignment := localMoving(adj, sortedKeys(adj), resolution, seed)

	return buildCommunitySubgraphs(rt, assignment)
}

// localMoving runs the Louvain local-moving heuristic to a fixed point:
// repeatedly visit every node (in a seeded-random but deterministic order)
// and relocate it into whichever neighbouring community maximizes
// modularity gain, stopping when a full pass makes no move or
// maxLocalMovingPasses is reached. Candidate communities are evaluated in
// ascending community-id order and a move only happens on strictly greater
// gain, so a tie between two candidates always keeps the lower-id one
// rather than depending on Go's randomized map iteration. Returns node id
// -> community id (community ids are a dense 0..k-1 range assigned in
// order of first appearance while scanning ids ascending, so results are
// reproducible for a fixed seed).
func localMoving(adj map[string]map[string]struct{}, ids []string, resolution float64, seed int64) map[string]int {
	degree := make(map[string]int, len(ids))
	totalWeight := 0
	for _, id := range ids {
		degree[id] = len(adj[id])
		totalWeight += degree[id]
	}
	m2 := float64(totalWeight) // sum of degrees == 2m for an undirected simple graph
	if m2 == 0 {
		m2 = 1
	}

	community := make(map[string]int, len(ids))
	commDegreeSum := make(map[int]int, len(ids))
	for i, id := range ids {
		community[id] = i
		commDegreeSum[i] = degree[id]
	}

	rng := rand.New(rand.NewSource(seed))
	order := append([]string(nil), ids...)

	for pass := 0; pass < maxLocalMovingPasses; pass++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		moved := false
		for _, id := range order {
			curComm := community[id]

			neighborWeight := make(map[int]int)
			for nb := range adj[id] {
				neighborWeight[community[nb]]++
			}
			neighborComms := make([]int, 0, len(neighborWeight))
			for comm := range neighborWeight {
				neighborComms = append(neighborComms, comm)
			}
			sort.Ints(neighborComms)

			commDegreeSum[curComm] -= degree[id]

			bestComm := curComm
			bestGain := 0.0
			for _, comm := range neighborComms {
				wIn := neighborWeight[comm]
				gain := float64(wIn) - resolution*float64(degree[id])*float64(commDegreeSum[comm])/m2
				if gain > bestGain {
					bestGain = gain
					bestComm = comm
				}
			}

			commDegreeSum[bestComm] += degree[id]
			if bestComm != curComm {
				community[id] = bestComm
				moved = true
			}
		}

		if !moved {
			break
		}
	}

	return densify(community, ids)
}

// densify renumbers community ids into a compact 0..k-1 range, ordered by
// each community's smallest member id, so output is independent of the
// internal bookkeeping ids assigned during optimization.
func densify(community map[string]int, ids []string) map[string]int {
	firstSeen := make(map[int]string)
	for _, id := range ids {
		c := community[id]
		if existing, ok := firstSeen[c]; !ok || id < existing {
			firstSeen[c] = id
		}
	}

	type pair struct {
		comm int
		rep  string
	}
	var pairs []pair
	for c, rep := range firstSeen {
		pairs = append(pairs, pair{c, rep})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].rep < pairs[j].rep })

	remap := make(map[int]int, len(pairs))
	for newID, p := range pairs {
		remap[p.comm] = newID
	}

	out := make(map[string]int, len(community))
	for id, c := range community {
		out[id] = remap[c]
	}
	return out
}

func sortedKeys(adj map[string]map[string]struct{}) []string {
	ids := make([]string, 0, len(adj))
	for id := range adj {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func buildCommunitySubgraphs(rt *domain.Runtime, assignment map[string]int) []domain.Subgraph {
	members := make(map[int][]string)
	for _, n := range rt.Nodes() {
		c := assignment[n.ID]
		members[c] = append(members[c], n.ID)
	}

	communityIDs := make([]int, 0, len(members))
	for c := range members {
		communityIDs = append(communityIDs, c)
	}
	sort.Ints(communityIDs)

	out := make([]domain.Subgraph, 0, len(communityIDs))
	for _, c := range communityIDs {
		nodeIDs := members[c]
		sort.Strings(nodeIDs)
		nodeSet := make(map[string]struct{}, len(nodeIDs))
		for _, id := range nodeIDs {
			nodeSet[id] = struct{}{}
		}

		var edgeIDs []string
		degree := make(map[string]int, len(nodeIDs))
		for _, e := range rt.Edges() {
			_, fromIn := nodeSet[e.FromNodeID]
			_, toIn := nodeSet[e.ToNodeID]
			if fromIn && toIn {
				edgeIDs = append(edgeIDs, e.ID)
				degree[e.FromNodeID]++
				degree[e.ToNodeID]++
			}
		}
		sort.Strings(edgeIDs)

		center := nodeIDs[0]
		bestDegree := degree[center]
		for _, id := range nodeIDs[1:] {
			if degree[id] > bestDegree {
				center = id
				bestDegree = degree[id]
			}
		}

		out = append(out, domain.Subgraph{
			CenterNodeID: center,
			NodeIDs:      nodeIDs,
			EdgeIDs:      edgeIDs,
		})
	}
	return out
}
