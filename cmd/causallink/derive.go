package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ntrotner/heap-causal-link/internal/codeevolution"
	"github.com/ntrotner/heap-causal-link/internal/domain"
	"github.com/ntrotner/heap-causal-link/internal/ingest"
)

func deriveEvolutionCmd() *cobra.Command {
	var fromDiff, source, outputPath string

	cmd := &cobra.Command{
		Use:   "derive-evolution",
		Short: "Derive a CodeEvolution JSON document from a unified diff",
		Long: `derive-evolution parses a unified diff and emits one CodeEvolution
record per changed hunk, sparing callers from hand-authoring the
code-evolution JSON that "causallink compare" expects.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDeriveEvolution(fromDiff, source, outputPath)
		},
	}

	cmd.Flags().StringVar(&fromDiff, "from-diff", "", "path to a unified diff file (required)")
	cmd.Flags().StringVar(&source, "source", "", "which capture the diff belongs to: base or modified (required)")
	cmd.Flags().StringVar(&outputPath, "output", "", "write JSON here instead of stdout")
	_ = cmd.MarkFlagRequired("from-diff")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func runDeriveEvolution(fromDiff, source, outputPath string) error {
	var modSource domain.ModificationSource
	switch source {
	case "base":
		modSource = domain.SourceBase
	case "modified":
		modSource = domain.SourceModified
	default:
		return fmt.Errorf("--source must be %q or %q, got %q", "base", "modified", source)
	}

	raw, err := os.ReadFile(fromDiff)
	if err != nil {
		return fmt.Errorf("reading diff: %w", err)
	}

	changes, err := codeevolution.FromUnifiedDiff(raw, modSource)
	if err != nil {
		return fmt.Errorf("deriving code evolution: %w", err)
	}

	out, err := ingest.EncodeCodeEvolution(changes)
	if err != nil {
		return fmt.Errorf("encoding code evolution: %w", err)
	}

	if outputPath == "" {
		fmt.Println(string(out))
		return nil
	}
	return os.WriteFile(outputPath, out, 0o644)
}
