// Package report renders pure, stateless HTML presentations of an
// orchestrator run's MatchingResult and CodeLinkContainer. Nothing here
// participates in the analytical core; these are thin views over
// already-computed results.
package report

import (
	"bytes"
	"html/template"

	"github.com/ntrotner/heap-causal-link/internal/domain"
	"github.com/ntrotner/heap-causal-link/internal/energy"
)

type categoryRow struct {
	Category          string
	NodeCountBaseline int
	NodeCountModified int
	Baseline          energy.Totals
	Modified          energy.Totals
	Diff              energy.Totals
}

var templateFuncs = template.FuncMap{
	"diffClass": func(v int64) string {
		switch {
		case v < 0:
			return "improvement"
		case v > 0:
			return "regression"
		default:
			return "neutral"
		}
	},
}

var matchingTemplate = template.Must(template.New("matching").Funcs(templateFuncs).Parse(`
<style>
  table { border-collapse: collapse; width: 100%; font-family: sans-serif; margin-bottom: 20px; }
  th, td { border: 1px solid #ddd; padding: 8px; text-align: right; }
  th { background-color: #f2f2f2; text-align: center; }
  td:first-child { text-align: left; font-weight: bold; }
  .improvement { color: green; }
  .regression { color: red; }
  .neutral { color: #666; }
</style>
<h1>Access Count Analysis Overview</h1>
<table>
  <thead>
    <tr>
      <th>Category</th><th>Nodes (Baseline)</th><th>Nodes (Modified)</th>
      <th>Read Counter Baseline</th><th>Read Counter Modified</th>
      <th>Write Counter Baseline</th><th>Write Counter Modified</th>
      <th>Read Size Baseline</th><th>Read Size Modified</th>
      <th>Write Size Baseline</th><th>Write Size Modified</th>
      <th>Δ Read Counter</th><th>Δ Write Counter</th><th>Δ Read Size</th><th>Δ Write Size</th>
    </tr>
  </thead>
  <tbody>
    {{range .}}
    <tr>
      <td>{{.Category}}</td>
      <td>{{.NodeCountBaseline}}</td><td>{{.NodeCountModified}}</td>
      <td>{{.Baseline.ReadCounter}}</td><td>{{.Modified.ReadCounter}}</td>
      <td>{{.Baseline.WriteCounter}}</td><td>{{.Modified.WriteCounter}}</td>
      <td>{{.Baseline.ReadSize}}</td><td>{{.Modified.ReadSize}}</td>
      <td>{{.Baseline.WriteSize}}</td><td>{{.Modified.WriteSize}}</td>
      <td class="{{diffClass .Diff.ReadCounter}}">{{.Diff.ReadCounter}}</td>
      <td class="{{diffClass .Diff.WriteCounter}}">{{.Diff.WriteCounter}}</td>
      <td class="{{diffClass .Diff.ReadSize}}">{{.Diff.ReadSize}}</td>
      <td class="{{diffClass .Diff.WriteSize}}">{{.Diff.WriteSize}}</td>
    </tr>
    {{end}}
  </tbody>
</table>
`))

// RenderMatchingHTML renders the access-count overview table for a
// MatchingResult, with one row per classification bucket (Matched,
// Modified, Added, Removed).
func RenderMatchingHTML(baselineRT, modifiedRT *domain.Runtime, result domain.MatchingResult) (string, error) {
	var matchedBase, matchedMod, modBase, modMod, addedMod, removedBase []string
	for _, p := range result.Matched {
		matchedBase = append(matchedBase, p.BaselineNodeIDs...)
		matchedMod = append(matchedMod, p.ModifiedNodeIDs...)
	}
	for _, p := range result.Modified {
		modBase = append(modBase, p.BaselineNodeIDs...)
		modMod = append(modMod, p.ModifiedNodeIDs...)
	}
	for _, ids := range result.AddedNodeIDs {
		addedMod = append(addedMod, ids...)
	}
	for _, ids := range result.RemovedNodeIDs {
		removedBase = append(removedBase, ids...)
	}

	matchedBaseline := energy.Aggregate(nodesByID(baselineRT, matchedBase))
	matchedModified := energy.Aggregate(nodesByID(modifiedRT, matchedMod))
	modBaseline := energy.Aggregate(nodesByID(baselineRT, modBase))
	modModified := energy.Aggregate(nodesByID(modifiedRT, modMod))
	addedModified := energy.Aggregate(nodesByID(modifiedRT, addedMod))
	removedBaseline := energy.Aggregate(nodesByID(baselineRT, removedBase))

	rows := []categoryRow{
		{
			Category:          "Matched",
			NodeCountBaseline: len(matchedBase),
			NodeCountModified: len(matchedMod),
			Baseline:          matchedBaseline,
			Modified:          matchedModified,
			Diff:              energy.Diff(matchedBaseline, matchedModified),
		},
		{
			Category:          "Modified",
			NodeCountBaseline: len(modBase),
			NodeCountModified: len(modMod),
			Baseline:          modBaseline,
			Modified:          modModified,
			Diff:              energy.Diff(modBaseline, modModified),
		},
		{
			Category:          "Added",
			NodeCountModified: len(addedMod),
			Modified:          addedModified,
			Diff:              energy.Diff(energy.Totals{}, addedModified),
		},
		{
			Category:          "Removed",
			NodeCountBaseline: len(removedBase),
			Baseline:          removedBaseline,
			Diff:              energy.Diff(removedBaseline, energy.Totals{}),
		},
	}

	var buf bytes.Buffer
	if err := matchingTemplate.Execute(&buf, rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// nodesByID assumes ids were produced by differentiate's engine from rt's
// own runtime, so every id is guaranteed present in rt's index.
func nodesByID(rt *domain.Runtime, ids []string) []domain.Node {
	out := make([]domain.Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, *rt.MustGetNodeByID(id))
	}
	return out
}
