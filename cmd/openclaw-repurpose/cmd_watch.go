package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-repurpose/internal/config"
	"github.com/ajitpratap0/openclaw-repurpose/internal/discovery"
	"github.com/ajitpratap0/openclaw-repurpose/internal/graph"
	"github.com/ajitpratap0/openclaw-repurpose/internal/loader"
)

func watchCmd() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "watch <drug> <disease>",
		Short: "Re-run a discovery every time the graph file changes",
		Long: `Loads the graph file, runs the discovery once, then watches the file and
re-runs the discovery against each freshly built snapshot until interrupted.
Only available when graph.source is file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Graph.Source != config.SourceFile {
				return fmt.Errorf("watch: graph.source must be file, got %q", cfg.Graph.Source)
			}
			logger := newLogger()
			ctx := cmd.Context()
			maxDepth := depthOrDefault(cmd, depth)

			svc, err := newService(logger)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}

			w, err := loader.NewWatcher(ctx, loader.NewFileSource(cfg.Graph.Path), 0, logger)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			defer func() { _ = w.Close() }()

			run := func(g *graph.Graph) error {
				report, runErr := svc.Discover(ctx, g, args[0], args[1], maxDepth)
				if errors.Is(runErr, discovery.ErrNoPath) {
					fmt.Printf("No path found from %q to %q.\n", args[0], args[1])
					return nil
				}
				if runErr != nil {
					return runErr
				}
				printReport(report)
				fmt.Println()
				return nil
			}

			if err := run(w.Current().Graph); err != nil {
				return fmt.Errorf("watch: %w", err)
			}

			for snap := range w.Watch(ctx) {
				logger.Info("watch: graph changed, re-running discovery", "loaded_at", snap.LoadedAt)
				if runErr := run(snap.Graph); runErr != nil {
					logger.Error("watch: discovery failed", "error", runErr)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "maximum path length in edges (default from config)")
	return cmd
}
