package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ntrotner/heap-causal-link/internal/config"
	"github.com/ntrotner/heap-causal-link/internal/differentiate"
	"github.com/ntrotner/heap-causal-link/internal/domain"
	"github.com/ntrotner/heap-causal-link/internal/ingest"
	"github.com/ntrotner/heap-causal-link/internal/orchestrator"
	"github.com/ntrotner/heap-causal-link/internal/report"
)

func compareCmd() *cobra.Command {
	var baselinePath, modifiedPath, settingsPath, codeEvolutionPath, outputPath, outputReporter string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a baseline and a modified heap snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd.Context(), compareFlags{
				baselinePath:      baselinePath,
				modifiedPath:      modifiedPath,
				settingsPath:      settingsPath,
				codeEvolutionPath: codeEvolutionPath,
				outputPath:        outputPath,
				outputReporter:    outputReporter,
			})
		},
	}

	cmd.Flags().StringVar(&baselinePath, "baseline", "", "path to the baseline Runtime JSON (required)")
	cmd.Flags().StringVar(&modifiedPath, "modified", "", "path to the modified Runtime JSON (required)")
	cmd.Flags().StringVar(&settingsPath, "settings", "", "path to a Settings JSON/YAML file (defaults applied if omitted)")
	cmd.Flags().StringVar(&codeEvolutionPath, "code-evolution", "", "path to the combined CodeEvolution JSON list")
	cmd.Flags().StringVar(&outputPath, "output", "", "write the JSON result here instead of stdout")
	cmd.Flags().StringVar(&outputReporter, "output-reporter", "", "path prefix; if set, write <prefix>-matching_report.html and <prefix>-code_link_report.html")
	_ = cmd.MarkFlagRequired("baseline")
	_ = cmd.MarkFlagRequired("modified")

	return cmd
}

type compareFlags struct {
	baselinePath      string
	modifiedPath      string
	settingsPath      string
	codeEvolutionPath string
	outputPath        string
	outputReporter    string
}

func runCompare(ctx context.Context, flags compareFlags) error {
	runID := uuid.New().String()

	baselineRT, err := readRuntime(flags.baselinePath)
	if err != nil {
		return fmt.Errorf("reading baseline: %w", err)
	}
	modifiedRT, err := readRuntime(flags.modifiedPath)
	if err != nil {
		return fmt.Errorf("reading modified: %w", err)
	}

	if err := validateSettingsFile(flags.settingsPath); err != nil {
		return fmt.Errorf("validating settings: %w", err)
	}

	settings, err := config.Load(flags.settingsPath)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	var changes []domain.CodeEvolution
	if flags.codeEvolutionPath != "" {
		raw, err := os.ReadFile(flags.codeEvolutionPath)
		if err != nil {
			return fmt.Errorf("reading code evolution: %w", err)
		}
		changes, err = ingest.ParseCodeEvolution(raw)
		if err != nil {
			return fmt.Errorf("parsing code evolution: %w", err)
		}
	}

	factory, err := orchestrator.ResolveStrategy(strategyOf(settings))
	if err != nil {
		return err
	}

	cfg := orchestrator.Config{
		BaselineRuntime: baselineRT,
		ModifiedRuntime: modifiedRT,
		CodeChanges:     changes,
		Partitioner:     factory,
		SubgraphParams: orchestrator.SubgraphParams{
			K:          intOr(settings.Parameters.Subgraph.K, 2),
			Resolution: floatOr(settings.Parameters.Subgraph.Resolution, 1.0),
			Seed:       int64Or(settings.Parameters.Subgraph.Seed, 1),
		},
		DifferentiateParams: differentiate.Params{
			SimilarityThreshold: floatOr(settings.Parameters.Matching.SimilarityThreshold, 0.3),
			WeightType:          0.5,
			WeightValue:         0.35,
			WeightTopology:      0.10,
		},
		MaxDistance: intOr(settings.Parameters.CodeLink.MaxDistance, 10),
	}

	matching, linkage, timing, err := orchestrator.Run(ctx, cfg)
	if err != nil {
		return fmt.Errorf("running analysis: %w", err)
	}

	if err := writeResult(flags.outputPath, matching, linkage, timing); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	if flags.outputReporter != "" {
		if err := writeReports(flags.outputReporter, baselineRT, modifiedRT, matching, linkage); err != nil {
			return fmt.Errorf("writing reports: %w", err)
		}
	}

	printSummary(runID, matching, linkage, timing)
	return nil
}

// runResult is the combined JSON document --output writes: the matching
// result, the code linkage, and per-stage timing, mirroring the Python
// tool's {"time_tracking", "matching", "causal_links"} result shape.
type runResult struct {
	TimeTracking orchestrator.TimeTracking `json:"timeTracking"`
	Matching     domain.MatchingResult     `json:"matching"`
	CausalLinks  domain.CodeLinkContainer  `json:"causalLinks"`
}

func writeResult(outputPath string, matching domain.MatchingResult, linkage domain.CodeLinkContainer, timing orchestrator.TimeTracking) error {
	result := runResult{TimeTracking: timing, Matching: matching, CausalLinks: linkage}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if outputPath == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("Results saved to %s\n", outputPath)
	return nil
}

// validateSettingsFile schema-validates an explicitly named settings file
// before it reaches config.Load's more permissive env/defaults layering,
// so a malformed settings document fails fast with a precise error
// instead of silently falling back to defaults for the fields viper
// could not decode. A path ending in .yaml/.yml is validated as YAML;
// anything else (including no extension) is validated as JSON. An empty
// path is not validated here; config.Load supplies defaults in that case.
func validateSettingsFile(path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		_, err := ingest.ParseSettingsYAML(raw)
		return err
	}
	_, err = ingest.ParseSettings(raw)
	return err
}

func readRuntime(path string) (*domain.Runtime, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ingest.ParseRuntime(raw)
}

func strategyOf(settings ingest.Settings) string {
	if settings.Strategy == "" {
		return "heuristic-greedy"
	}
	return settings.Strategy
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func int64Or(p *int64, def int64) int64 {
	if p == nil {
		return def
	}
	return *p
}

// writeReports renders both HTML reports, named the way the Python tool
// names them: "<prefix>-matching_report.html" and
// "<prefix>-code_link_report.html".
func writeReports(prefix string, baselineRT, modifiedRT *domain.Runtime, matching domain.MatchingResult, linkage domain.CodeLinkContainer) error {
	matchingHTML, err := report.RenderMatchingHTML(baselineRT, modifiedRT, matching)
	if err != nil {
		return err
	}
	matchingPath := prefix + "-matching_report.html"
	if err := os.WriteFile(matchingPath, []byte(matchingHTML), 0o644); err != nil {
		return err
	}
	fmt.Printf("Reporter saved to %s\n", matchingPath)

	codeLinkHTML, err := report.RenderCodeLinkHTML(linkage)
	if err != nil {
		return err
	}
	codeLinkPath := prefix + "-code_link_report.html"
	if err := os.WriteFile(codeLinkPath, []byte(codeLinkHTML), 0o644); err != nil {
		return err
	}
	fmt.Printf("Reporter saved to %s\n", codeLinkPath)
	return nil
}

func printSummary(runID string, matching domain.MatchingResult, linkage domain.CodeLinkContainer, timing orchestrator.TimeTracking) {
	color.New(color.FgCyan, color.Bold).Printf("causallink run %s\n", runID)

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Category", "Count"})
	tbl.AppendRow(table.Row{"Matched", humanize.Comma(int64(len(matching.Matched)))})
	tbl.AppendRow(table.Row{"Modified", humanize.Comma(int64(len(matching.Modified)))})
	tbl.AppendRow(table.Row{"Added", humanize.Comma(int64(sumLens(matching.AddedNodeIDs)))})
	tbl.AppendRow(table.Row{"Removed", humanize.Comma(int64(sumLens(matching.RemovedNodeIDs)))})
	tbl.AppendRow(table.Row{"Regressions", humanize.Comma(int64(len(linkage.Regressions)))})
	tbl.AppendRow(table.Row{"Improvements", humanize.Comma(int64(len(linkage.Improvements)))})
	tbl.AppendRow(table.Row{"Unmappable regressions", humanize.Comma(int64(len(linkage.UnmappableRegressions)))})
	tbl.AppendRow(table.Row{"Unmappable improvements", humanize.Comma(int64(len(linkage.UnmappableImprovements)))})
	fmt.Println(tbl.Render())

	total := timing.SubgraphGenerationBaseline + timing.SubgraphGenerationModified + timing.Differentiation + timing.CodeLinkage
	color.New(color.FgYellow).Printf("stage durations: baseline=%s modified=%s diff=%s link=%s total=%s\n",
		timing.SubgraphGenerationBaseline, timing.SubgraphGenerationModified,
		timing.Differentiation, timing.CodeLinkage, total)
}

func sumLens(groups [][]string) int {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	return n
}
