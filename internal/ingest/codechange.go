package ingest

import (
	"encoding/json"

	"github.com/ntrotner/heap-causal-link/internal/domain"
)

type wireCodeChangeSpan struct {
	LineStart   int `json:"lineStart"`
	LineEnd     int `json:"lineEnd"`
	ColumnStart int `json:"columnStart"`
	ColumnEnd   int `json:"columnEnd"`
}

type wireCodeEvolution struct {
	FileID             string             `json:"fileId"`
	ModificationType   string             `json:"modificationType"`
	ModificationSource string             `json:"modificationSource"`
	CodeChangeSpan     wireCodeChangeSpan `json:"codeChangeSpan"`
}

// ParseCodeEvolution validates raw against the embedded CodeEvolution list
// schema, decodes it, and converts it into domain.CodeEvolution records.
func ParseCodeEvolution(raw []byte) ([]domain.CodeEvolution, error) {
	if err := validate(codeEvolutionSchema, raw); err != nil {
		return nil, err
	}

	var wire []wireCodeEvolution
	if err := unmarshalStrict(raw, &wire); err != nil {
		return nil, err
	}

	out := make([]domain.CodeEvolution, len(wire))
	for i, c := range wire {
		out[i] = domain.CodeEvolution{
			FileID:             c.FileID,
			ModificationType:   domain.ModificationType(c.ModificationType),
			ModificationSource: domain.ModificationSource(c.ModificationSource),
			CodeChangeSpan: domain.CodeChangeSpan{
				LineStart:   c.CodeChangeSpan.LineStart,
				LineEnd:     c.CodeChangeSpan.LineEnd,
				ColumnStart: c.CodeChangeSpan.ColumnStart,
				ColumnEnd:   c.CodeChangeSpan.ColumnEnd,
			},
		}
	}
	return out, nil
}

// EncodeCodeEvolution is ParseCodeEvolution's inverse: it renders domain
// CodeEvolution records back into the wire shape §6 of the domain JSON
// describes, for callers (such as causallink derive-evolution) that
// produce a CodeEvolution document rather than consume one.
func EncodeCodeEvolution(changes []domain.CodeEvolution) ([]byte, error) {
	wire := make([]wireCodeEvolution, len(changes))
	for i, c := range changes {
		wire[i] = wireCodeEvolution{
			FileID:             c.FileID,
			ModificationType:   string(c.ModificationType),
			ModificationSource: string(c.ModificationSource),
			CodeChangeSpan: wireCodeChangeSpan{
				LineStart:   c.CodeChangeSpan.LineStart,
				LineEnd:     c.CodeChangeSpan.LineEnd,
				ColumnStart: c.CodeChangeSpan.ColumnStart,
				ColumnEnd:   c.CodeChangeSpan.ColumnEnd,
			},
		}
	}
	return json.MarshalIndent(wire, "", "  ")
}
