// Package codelink implements deterministic attribution of heap-graph
// nodes to code changes: a direct trace-intersection phase followed by a
// retainer-graph BFS for nodes the direct phase could not resolve.
package codelink

import (
	"strings"

	"github.com/ntrotner/heap-causal-link/internal/domain"
)

// DefaultMaxDistance is the retainer-BFS hop cap used when Engine is
// constructed with a non-positive maxDistance.
const DefaultMaxDistance = 10

// Engine links nodes of a single Runtime against a single code-change
// context. The reverse-edge index is built once here, at construction,
// never during a BFS.
type Engine struct {
	rt           *domain.Runtime
	reverseEdges map[string][]string
	maxDistance  int
}

// NewEngine builds the reverse-edge index for rt and returns an Engine
// ready to Link any number of target/context pairs over it.
func NewEngine(rt *domain.Runtime, maxDistance int) *Engine {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	idx := make(map[string][]string, len(rt.Edges()))
	for _, e := range rt.Edges() {
		idx[e.ToNodeID] = append(idx[e.ToNodeID], e.FromNodeID)
	}
	return &Engine{rt: rt, reverseEdges: idx, maxDistance: maxDistance}
}

// Result is the output of one Link call: resolved pairs plus the node ids
// that could not be attributed within the hop cap.
type Result struct {
	Pairs      []domain.CausalPair
	Unmappable []string
}

// linker holds the per-call memoization caches and the mutable link map
// that Phase 2 threads across successive BFS invocations. It is never
// reused across calls to Link and carries no package-level state.
type linker struct {
	engine  *Engine
	context []domain.CodeEvolution

	// frameMatchCache memoizes per-frame-id match results against this
	// call's context; nil entry means "computed, no match".
	frameMatchCache map[string]*domain.CodeEvolution
	// traceResultCache memoizes per-trace-id (== per allocation chain
	// root frame id) final results against this call's context.
	traceResultCache map[string]*domain.CodeEvolution

	// linkMap seeds Phase 2 with Phase 1's successes and accumulates
	// every retainer resolved along the way, so later BFS invocations in
	// the same call can inherit it in O(1).
	linkMap map[string]domain.CodeEvolution
}

// Link runs Phase 1 (direct) then Phase 2 (derived) over targets against
// context, in targets' list order for Phase 1 and again for Phase 2 over
// whatever Phase 1 left unresolved.
func (e *Engine) Link(targets []string, context []domain.CodeEvolution) Result {
	l := &linker{
		engine:           e,
		context:          context,
		frameMatchCache:  make(map[string]*domain.CodeEvolution),
		traceResultCache: make(map[string]*domain.CodeEvolution),
		linkMap:          make(map[string]domain.CodeEvolution),
	}

	var result Result
	var unresolved []string

	for _, nodeID := range targets {
		if change, ok := l.slVerifyNode(nodeID); ok {
			result.Pairs = append(result.Pairs, domain.CausalPair{
				NodeID:     nodeID,
				Change:     change,
				Confidence: domain.ConfidenceDirect,
			})
			l.linkMap[nodeID] = change
			continue
		}
		unresolved = append(unresolved, nodeID)
	}

	for _, nodeID := range unresolved {
		if change, ok := l.findCausalRetainer(nodeID); ok {
			result.Pairs = append(result.Pairs, domain.CausalPair{
				NodeID:     nodeID,
				Change:     change,
				Confidence: domain.ConfidenceDerived,
			})
			continue
		}
		result.Unmappable = append(result.Unmappable, nodeID)
	}

	return result
}

// slVerifyNode resolves a node's own allocation trace against l.context.
// A node with no TraceID, or whose TraceID is dangling, yields no match.
func (l *linker) slVerifyNode(nodeID string) (domain.CodeEvolution, bool) {
	node := l.engine.rt.GetNodeByID(nodeID)
	if node == nil || node.TraceID == nil {
		return domain.CodeEvolution{}, false
	}
	return l.slVerify(*node.TraceID)
}

// slVerify walks the frame chain rooted at traceID (the frame itself, then
// BFS through each frame's parent frameIds) and returns the first change
// in l.context that intersects a visited frame. Memoized per trace id.
func (l *linker) slVerify(traceID string) (domain.CodeEvolution, bool) {
	if cached, ok := l.traceResultCache[traceID]; ok {
		if cached == nil {
			return domain.CodeEvolution{}, false
		}
		return *cached, true
	}

	visited := map[string]bool{}
	queue := []string{traceID}
	for len(queue) > 0 {
		frameID := queue[0]
		queue = queue[1:]
		if visited[frameID] {
			continue
		}
		visited[frameID] = true

		frame := l.engine.rt.GetStackByID(frameID)
		if frame == nil {
			// Malformed chain: missing parent frame terminates this
			// branch without error, per the core's best-effort-skip rule.
			continue
		}
		if change, ok := l.frameMatch(frame); ok {
			l.traceResultCache[traceID] = &change
			return change, true
		}
		queue = append(queue, frame.FrameIDs...)
	}

	l.traceResultCache[traceID] = nil
	return domain.CodeEvolution{}, false
}

// frameMatch tests one frame against every change in l.context, memoized
// per frame id since the same frame is frequently revisited across many
// nodes' trace chains. The file test is substring containment of FileID in
// ScriptName, so a short FileID can also match unrelated longer paths.
func (l *linker) frameMatch(frame *domain.Stack) (domain.CodeEvolution, bool) {
	if cached, ok := l.frameMatchCache[frame.ID]; ok {
		if cached == nil {
			return domain.CodeEvolution{}, false
		}
		return *cached, true
	}

	for _, change := range l.context {
		if !strings.Contains(frame.ScriptName, change.FileID) {
			continue
		}
		if frame.LineNumber < change.CodeChangeSpan.LineStart || frame.LineNumber > change.CodeChangeSpan.LineEnd {
			continue
		}
		l.frameMatchCache[frame.ID] = &change
		return change, true
	}

	l.frameMatchCache[frame.ID] = nil
	return domain.CodeEvolution{}, false
}

// findCausalRetainer BFS-expands nodeID's retainers (incoming edges,
// walked via the reverse-edge index) up to the engine's maxDistance hops,
// inheriting from l.linkMap where possible and otherwise running
// slVerifyNode on each newly visited retainer.
func (l *linker) findCausalRetainer(nodeID string) (domain.CodeEvolution, bool) {
	visited := map[string]bool{nodeID: true}
	frontier := []string{nodeID}

	for depth := 0; depth < l.engine.maxDistance && len(frontier) > 0; depth++ {
		var next []string
		for _, cur := range frontier {
			for _, retainer := range l.engine.reverseEdges[cur] {
				if visited[retainer] {
					continue
				}
				visited[retainer] = true

				if change, ok := l.linkMap[retainer]; ok {
					l.linkMap[nodeID] = change
					return change, true
				}
				if change, ok := l.slVerifyNode(retainer); ok {
					l.linkMap[retainer] = change
					l.linkMap[nodeID] = change
					return change, true
				}
				next = append(next, retainer)
			}
		}
		frontier = next
	}

	return domain.CodeEvolution{}, false
}
