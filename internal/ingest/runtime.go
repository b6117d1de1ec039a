package ingest

import "github.com/ntrotner/heap-causal-link/internal/domain"

type wireEnergy struct {
	NodeID         string   `json:"nodeId"`
	ReadCounter    int64    `json:"readCounter"`
	WriteCounter   int64    `json:"writeCounter"`
	Size           int64    `json:"size"`
	AllocationTime *float64 `json:"allocationTime"`
}

type wireNode struct {
	ID      string      `json:"id"`
	Type    string       `json:"type"`
	Value   *string      `json:"value"`
	Root    bool         `json:"root"`
	TraceID *string      `json:"traceId"`
	EdgeIDs []string     `json:"edgeIds"`
	Energy  *wireEnergy  `json:"energy"`
}

type wireEdge struct {
	ID         string `json:"id"`
	FromNodeID string `json:"fromNodeId"`
	ToNodeID   string `json:"toNodeId"`
	Name       string `json:"name"`
}

type wireStack struct {
	ID           string   `json:"id"`
	FrameIDs     []string `json:"frameIds"`
	FunctionName string   `json:"functionName"`
	ScriptName   string   `json:"scriptName"`
	LineNumber   int      `json:"lineNumber"`
	ColumnNumber int      `json:"columnNumber"`
}

type wireRuntime struct {
	Nodes  []wireNode  `json:"nodes"`
	Edges  []wireEdge  `json:"edges"`
	Stacks []wireStack `json:"stacks"`
}

// ParseRuntime validates raw against the embedded Runtime schema, decodes
// it, and builds a domain.Runtime. Returns ErrParsing on schema/JSON
// failure, ErrInvalidRuntime if the document has zero nodes.
func ParseRuntime(raw []byte) (*domain.Runtime, error) {
	if err := validate(runtimeSchema, raw); err != nil {
		return nil, err
	}

	var wire wireRuntime
	if err := unmarshalStrict(raw, &wire); err != nil {
		return nil, err
	}

	nodes := make([]domain.Node, len(wire.Nodes))
	for i, n := range wire.Nodes {
		nodes[i] = domain.Node{
			ID:      n.ID,
			Type:    n.Type,
			Value:   n.Value,
			Root:    n.Root,
			TraceID: n.TraceID,
			EdgeIDs: n.EdgeIDs,
			Energy:  convertEnergy(n.Energy),
		}
	}

	edges := make([]domain.Edge, len(wire.Edges))
	for i, e := range wire.Edges {
		edges[i] = domain.Edge{ID: e.ID, FromNodeID: e.FromNodeID, ToNodeID: e.ToNodeID, Name: e.Name}
	}

	stacks := make([]domain.Stack, len(wire.Stacks))
	for i, s := range wire.Stacks {
		stacks[i] = domain.Stack{
			ID:           s.ID,
			FrameIDs:     s.FrameIDs,
			FunctionName: s.FunctionName,
			ScriptName:   s.ScriptName,
			LineNumber:   s.LineNumber,
			ColumnNumber: s.ColumnNumber,
		}
	}

	return domain.NewRuntime(nodes, edges, stacks)
}

func convertEnergy(e *wireEnergy) *domain.Energy {
	if e == nil {
		return nil
	}
	return &domain.Energy{
		NodeID:         e.NodeID,
		ReadCounter:    e.ReadCounter,
		WriteCounter:   e.WriteCounter,
		Size:           e.Size,
		AllocationTime: e.AllocationTime,
	}
}
