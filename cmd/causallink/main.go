// Command causallink is the thin CLI entry point: it parses arguments,
// loads JSON, and hands off to internal/orchestrator. No algorithmic
// logic lives here.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var traceEnabled bool

// Exit codes for the distinct failure paths a run can take. A generic,
// uncaught failure always maps to exitGeneric.
const (
	exitOK = iota
	exitFileNotFound
	exitParseFailure
	exitEmptyRuntime
	exitUnsupportedStrategy
	exitGeneric
)

var tracingShutdown func(context.Context) error = func(context.Context) error { return nil }

var rootCmd = &cobra.Command{
	Use:   "causallink",
	Short: "Causal linkage between two heap-graph snapshots",
	Long: `causallink compares a baseline and a modified heap snapshot, partitions
each into subgraphs, differentiates matched/modified/added/removed nodes,
and links unexplained differences back to code changes.`,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		shutdown, err := initTracing(traceEnabled)
		if err != nil {
			return err
		}
		tracingShutdown = shutdown
		return nil
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return tracingShutdown(context.Background())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&traceEnabled, "trace", false, "print stage spans to stdout as they run")
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(deriveEvolutionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
