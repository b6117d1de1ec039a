// Package orchestrator sequences subgraph partitioning, differentiation,
// and code linkage into a single run, recording stage timing and emitting
// tracing/metrics/progress for each stage.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/ntrotner/heap-causal-link/internal/codelink"
	"github.com/ntrotner/heap-causal-link/internal/differentiate"
	"github.com/ntrotner/heap-causal-link/internal/domain"
	"github.com/ntrotner/heap-causal-link/internal/subgraph"
)

var tracer = otel.Tracer("orchestrator")

var stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "heap_causal_link_stage_duration_seconds",
	Help:    "Wall-clock duration of each causal-link pipeline stage.",
	Buckets: prometheus.DefBuckets,
}, []string{"stage"})

// ProgressPhase names one stage of a run, for logging and metrics labels.
type ProgressPhase string

const (
	PhaseSubgraphBaseline  ProgressPhase = "subgraph_generation_baseline"
	PhaseSubgraphModified  ProgressPhase = "subgraph_generation_modified"
	PhaseDifferentiation   ProgressPhase = "differentiation"
	PhaseCodeLinkage       ProgressPhase = "code_linkage"
)

// SubgraphParams collects the parameters any of the three partitioner
// factories might need; unused fields are ignored by a given factory.
type SubgraphParams struct {
	K          int
	Resolution float64
	Seed       int64
}

// PartitionerFactory constructs a Partitioner from SubgraphParams. The
// orchestrator is handed a factory (a "type"), not a Partitioner
// instance, and constructs the partitioner itself, eagerly, once per run.
type PartitionerFactory func(SubgraphParams) subgraph.Partitioner

// StrategyCatalogue is the recognised strategy-name → factory mapping from
// the settings surface (strategy names heuristic-greedy,
// community-detection, primitive).
var StrategyCatalogue = map[string]PartitionerFactory{
	"primitive": func(SubgraphParams) subgraph.Partitioner {
		return subgraph.Primitive{}
	},
	"heuristic-greedy": func(p SubgraphParams) subgraph.Partitioner {
		return subgraph.GreedyKHop{K: p.K}
	},
	"community-detection": func(p SubgraphParams) subgraph.Partitioner {
		return subgraph.Community{Resolution: p.Resolution, Seed: p.Seed}
	},
}

// ResolveStrategy looks up a strategy name in StrategyCatalogue, returning
// ErrUnsupportedAlgorithm-wrapped error if it is not recognised.
func ResolveStrategy(name string) (PartitionerFactory, error) {
	factory, ok := StrategyCatalogue[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedAlgorithm, name)
	}
	return factory, nil
}

// Config bundles everything one Run needs: both runtimes, the combined
// code-change list (filtered internally by ModificationSource into the
// regression and improvement contexts), and the three stages' parameters.
type Config struct {
	BaselineRuntime *domain.Runtime
	ModifiedRuntime *domain.Runtime
	CodeChanges     []domain.CodeEvolution

	Partitioner         PartitionerFactory
	SubgraphParams      SubgraphParams
	DifferentiateParams differentiate.Params
	MaxDistance         int
}

// TimeTracking records wall-clock duration for each stage.
type TimeTracking struct {
	SubgraphGenerationBaseline time.Duration
	SubgraphGenerationModified time.Duration
	Differentiation            time.Duration
	CodeLinkage                time.Duration
}

// Run executes the full pipeline: subgraph partitioning (both sides, run
// concurrently since the two Partitioner.Generate calls share no engine
// state), three-phase differentiation, then deterministic code linkage.
func Run(ctx context.Context, cfg Config) (domain.MatchingResult, domain.CodeLinkContainer, TimeTracking, error) {
	var tracking TimeTracking

	if cfg.Partitioner == nil {
		return domain.MatchingResult{}, domain.CodeLinkContainer{}, tracking, fmt.Errorf("%w: nil partitioner factory", domain.ErrUnsupportedAlgorithm)
	}
	partitioner := cfg.Partitioner(cfg.SubgraphParams)

	var baselineSubs, modifiedSubs []domain.Subgraph
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		runStage(gctx, PhaseSubgraphBaseline, &tracking.SubgraphGenerationBaseline, func() {
			baselineSubs = partitioner.Generate(cfg.BaselineRuntime)
		})
		return nil
	})
	group.Go(func() error {
		runStage(gctx, PhaseSubgraphModified, &tracking.SubgraphGenerationModified, func() {
			modifiedSubs = partitioner.Generate(cfg.ModifiedRuntime)
		})
		return nil
	})
	if err := group.Wait(); err != nil {
		return domain.MatchingResult{}, domain.CodeLinkContainer{}, tracking, err
	}

	var matching domain.MatchingResult
	runStage(ctx, PhaseDifferentiation, &tracking.Differentiation, func() {
		engine := differentiate.NewEngine(cfg.DifferentiateParams)
		matching = engine.Differentiate(cfg.BaselineRuntime, cfg.ModifiedRuntime, baselineSubs, modifiedSubs)
	})

	var container domain.CodeLinkContainer
	runStage(ctx, PhaseCodeLinkage, &tracking.CodeLinkage, func() {
		container = linkCode(cfg, matching)
	})

	return matching, container, tracking, nil
}

func linkCode(cfg Config, matching domain.MatchingResult) domain.CodeLinkContainer {
	regressionContext := filterBySource(cfg.CodeChanges, domain.SourceModified)
	improvementContext := filterBySource(cfg.CodeChanges, domain.SourceBase)

	regressionTargets := dedupeAppend(flatten(matching.AddedNodeIDs), modifiedSideOf(matching.Modified))
	improvementTargets := dedupeAppend(flatten(matching.RemovedNodeIDs), baselineSideOf(matching.Modified))

	regressionResult := codelink.NewEngine(cfg.ModifiedRuntime, cfg.MaxDistance).Link(regressionTargets, regressionContext)
	improvementResult := codelink.NewEngine(cfg.BaselineRuntime, cfg.MaxDistance).Link(improvementTargets, improvementContext)

	return domain.CodeLinkContainer{
		Regressions:            regressionResult.Pairs,
		Improvements:           improvementResult.Pairs,
		UnmappableRegressions:  regressionResult.Unmappable,
		UnmappableImprovements: improvementResult.Unmappable,
	}
}

func filterBySource(changes []domain.CodeEvolution, source domain.ModificationSource) []domain.CodeEvolution {
	var out []domain.CodeEvolution
	for _, c := range changes {
		if c.ModificationSource == source {
			out = append(out, c)
		}
	}
	return out
}

func flatten(groups [][]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func modifiedSideOf(pairs []domain.ModifiedPair) []string {
	var out []string
	for _, p := range pairs {
		out = append(out, p.ModifiedNodeIDs...)
	}
	return out
}

func baselineSideOf(pairs []domain.ModifiedPair) []string {
	var out []string
	for _, p := range pairs {
		out = append(out, p.BaselineNodeIDs...)
	}
	return out
}

func dedupeAppend(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, id := range append(a, b...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// runStage runs fn inside an otel span and a prometheus timer labeled by
// phase, recording the duration into *duration and logging start/end at
// debug level. fn mutates its caller's result variable via closure.
func runStage(ctx context.Context, phase ProgressPhase, duration *time.Duration, fn func()) {
	_, span := tracer.Start(ctx, string(phase))
	defer span.End()
	span.SetAttributes(attribute.String("stage", string(phase)))

	slog.Debug("stage started", "stage", phase)
	timer := prometheus.NewTimer(stageDuration.WithLabelValues(string(phase)))

	start := time.Now()
	fn()
	*duration = time.Since(start)

	timer.ObserveDuration()
	slog.Debug("stage finished", "stage", phase, "duration", *duration)
}
