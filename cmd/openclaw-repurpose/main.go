package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-repurpose/internal/config"
	"github.com/ajitpratap0/openclaw-repurpose/internal/discovery"
	"github.com/ajitpratap0/openclaw-repurpose/internal/graph"
	"github.com/ajitpratap0/openclaw-repurpose/internal/loader"
	"github.com/ajitpratap0/openclaw-repurpose/internal/pathfinder"
)

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "openclaw-repurpose",
		Short: "OpenClaw Repurpose: drug repurposing paths over a knowledge graph",
		Long: "Repurpose finds every simple path between two entities of a typed knowledge graph, " +
			"ranks them by confidence and scores the best one as a repurposing opportunity.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		discoverCmd(),
		pathsCmd(),
		batchCmd(),
		entitiesCmd(),
		statsCmd(),
		exportCmd(),
		validateCmd(),
		watchCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// newSource builds the configured graph source. The returned cleanup closes
// any connection the source holds.
func newSource(ctx context.Context, logger *slog.Logger) (loader.Source, func(), error) {
	switch cfg.Graph.Source {
	case config.SourceNeo4j:
		src, err := loader.NewNeo4jSource(ctx, loader.Neo4jConfig{
			URI:         cfg.Neo4j.URI,
			Username:    cfg.Neo4j.Username,
			Password:    cfg.Neo4j.Password,
			Database:    cfg.Neo4j.Database,
			EntityLabel: cfg.Neo4j.EntityLabel,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { _ = src.Close(context.Background()) }, nil
	default:
		return loader.NewFileSource(cfg.Graph.Path), func() {}, nil
	}
}

// loadGraph builds the immutable snapshot every command queries.
func loadGraph(ctx context.Context, logger *slog.Logger) (*graph.Graph, *loader.LoadReport, error) {
	src, cleanup, err := newSource(ctx, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening graph source: %w", err)
	}
	defer cleanup()
	return loader.Build(ctx, src, logger)
}

func newFinder(logger *slog.Logger) (*pathfinder.Finder, error) {
	policy, err := pathfinder.ParseEdgePolicy(cfg.Graph.EdgePolicy)
	if err != nil {
		return nil, err
	}
	return pathfinder.New(logger, pathfinder.WithEdgePolicy(policy)), nil
}

func newService(logger *slog.Logger) (*discovery.Service, error) {
	finder, err := newFinder(logger)
	if err != nil {
		return nil, err
	}
	return discovery.NewService(finder, discovery.Options{
		Timeout:     cfg.Search.Timeout,
		Alternates:  cfg.Search.Alternates,
		Concurrency: cfg.Search.Concurrency,
	}, logger), nil
}

// depthOrDefault returns the flag value when set, else the configured depth.
func depthOrDefault(cmd *cobra.Command, depth int) int {
	if cmd.Flags().Changed("depth") {
		return depth
	}
	return cfg.Search.MaxDepth
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
