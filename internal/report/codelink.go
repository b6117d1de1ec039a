package report

import (
	"bytes"
	"html/template"

	"github.com/ntrotner/heap-causal-link/internal/domain"
)

type causalRow struct {
	NodeID     string
	FileID     string
	Confidence string
}

var codeLinkTemplate = template.Must(template.New("codelink").Parse(`
<style>
  table { border-collapse: collapse; width: 100%; font-family: sans-serif; margin-bottom: 20px; }
  th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
  th { background-color: #f2f2f2; }
  .regression { color: red; }
  .improvement { color: green; }
</style>
<h1>Code Linkage</h1>
<h2 class="regression">Regressions ({{len .Regressions}})</h2>
<table>
  <thead><tr><th>Node</th><th>File</th><th>Confidence</th></tr></thead>
  <tbody>
    {{range .Regressions}}<tr><td>{{.NodeID}}</td><td>{{.FileID}}</td><td>{{.Confidence}}</td></tr>{{end}}
  </tbody>
</table>
<p>Unmappable regressions: {{len .UnmappableRegressions}}</p>

<h2 class="improvement">Improvements ({{len .Improvements}})</h2>
<table>
  <thead><tr><th>Node</th><th>File</th><th>Confidence</th></tr></thead>
  <tbody>
    {{range .Improvements}}<tr><td>{{.NodeID}}</td><td>{{.FileID}}</td><td>{{.Confidence}}</td></tr>{{end}}
  </tbody>
</table>
<p>Unmappable improvements: {{len .UnmappableImprovements}}</p>
`))

type codeLinkView struct {
	Regressions            []causalRow
	Improvements           []causalRow
	UnmappableRegressions  []string
	UnmappableImprovements []string
}

// RenderCodeLinkHTML renders the regressions/improvements tables for a
// CodeLinkContainer.
func RenderCodeLinkHTML(container domain.CodeLinkContainer) (string, error) {
	view := codeLinkView{
		Regressions:             toRows(container.Regressions),
		Improvements:            toRows(container.Improvements),
		UnmappableRegressions:   container.UnmappableRegressions,
		UnmappableImprovements:  container.UnmappableImprovements,
	}

	var buf bytes.Buffer
	if err := codeLinkTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toRows(pairs []domain.CausalPair) []causalRow {
	out := make([]causalRow, len(pairs))
	for i, p := range pairs {
		out[i] = causalRow{NodeID: p.NodeID, FileID: p.Change.FileID, Confidence: string(p.Confidence)}
	}
	return out
}
