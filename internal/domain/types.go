// Package domain holds the plain record types that model a heap snapshot
// and the code-change records that a causal-link run attributes snapshot
// differences to. Every type here is built once, by a parser or a test,
// and is read-only thereafter: nothing in this package or its callers
// mutates a Runtime's slices after construction.
package domain

// Energy carries the access counters recorded against a single Node.
// ReadCounter and WriteCounter are non-negative access counts; Size is the
// object's byte size, used to turn counters into byte-weighted quantities
// downstream (see package energy). AllocationTime is optional and is
// carried through parsing; neither the core nor the reports read it.
type Energy struct {
	NodeID         string
	ReadCounter    int64
	WriteCounter   int64
	Size           int64
	AllocationTime *float64
}

// Node is a single heap object (or root, or primitive) captured in a
// snapshot.
//
// EdgeIDs is advisory: it records the outgoing edge ids observed at
// capture time but the core never consults it, since Runtime's own edge
// list and reverse-edge index are authoritative.
type Node struct {
	ID      string
	Type    string
	Value   *string
	Root    bool
	TraceID *string
	EdgeIDs []string
	Energy  *Energy
}

// Edge is a directed reference from one Node to another. Edges are
// directed but several algorithms in this module treat them as undirected
// (subgraph partitioning); retainer search in package codelink walks them
// reversed.
type Edge struct {
	ID         string
	FromNodeID string
	ToNodeID   string
	Name       string
}

// Stack is one frame of an allocation trace. FrameIDs names the frame's
// parent (caller) frames, forming a trace chain; the chain is assumed
// acyclic (a call tree), never validated.
type Stack struct {
	ID           string
	FrameIDs     []string
	FunctionName string
	ScriptName   string
	LineNumber   int
	ColumnNumber int
}

// ModificationType classifies how a CodeChangeSpan affected the file it
// names.
type ModificationType string

const (
	ModificationInsert ModificationType = "insert"
	ModificationDelete ModificationType = "delete"
	ModificationModify ModificationType = "modify"
)

// ModificationSource names which of the two captures a code change
// existed in. A change with source Base explains an *improvement*
// (something the baseline had that the modified version no longer does);
// a change with source Modified explains a *regression*.
type ModificationSource string

const (
	SourceBase     ModificationSource = "base"
	SourceModified ModificationSource = "modified"
)

// CodeChangeSpan is a line/column range within one file, inclusive on
// both ends.
type CodeChangeSpan struct {
	LineStart   int
	LineEnd     int
	ColumnStart int
	ColumnEnd   int
}

// CodeEvolution is a single recorded code change: a file, a kind of
// change, which capture it belongs to, and the span within the file.
type CodeEvolution struct {
	FileID             string
	ModificationType   ModificationType
	ModificationSource ModificationSource
	CodeChangeSpan     CodeChangeSpan
}

// Subgraph is one cluster produced by a Partitioner: a center node plus
// the nodes and edges assigned to it. CenterNodeID must appear in NodeIDs.
type Subgraph struct {
	CenterNodeID string
	NodeIDs      []string
	EdgeIDs      []string
}

// Confidence labels how a CausalPair was derived.
type Confidence string

const (
	ConfidenceDirect  Confidence = "direct"
	ConfidenceDerived Confidence = "derived"
)

// CausalPair asserts that a single node's presence or modification is
// explained by a specific code change, at the given confidence.
type CausalPair struct {
	NodeID     string
	Change     CodeEvolution
	Confidence Confidence
}

// MatchedPair is one accepted exact match between a baseline subgraph and
// a modified subgraph.
type MatchedPair struct {
	BaselineNodeIDs []string
	ModifiedNodeIDs []string
}

// ModifiedPair is one accepted inexact match, carrying the similarity
// score that drove acceptance.
type ModifiedPair struct {
	BaselineNodeIDs []string
	ModifiedNodeIDs []string
	SimilarityScore float64
}

// MatchingResult is the output of the differentiation engine: every
// subgraph center, on both sides, classified into exactly one bucket.
type MatchingResult struct {
	Matched       []MatchedPair
	Modified      []ModifiedPair
	AddedNodeIDs  [][]string
	RemovedNodeIDs [][]string
}

// CodeLinkContainer is the output of the code-link engine: every
// non-matched node, on both sides, either attributed to a code change or
// recorded as unmappable.
type CodeLinkContainer struct {
	Regressions          []CausalPair
	Improvements          []CausalPair
	UnmappableRegressions []string
	UnmappableImprovements []string
}
