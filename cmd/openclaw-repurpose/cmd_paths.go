package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-repurpose/internal/scoring"
)

func pathsCmd() *cobra.Command {
	var (
		depth      int
		limit      int
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "paths <start> <target>",
		Short: "List every ranked path between two entities",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			g, _, err := loadGraph(ctx, logger)
			if err != nil {
				return fmt.Errorf("paths: %w", err)
			}
			svc, err := newService(logger)
			if err != nil {
				return fmt.Errorf("paths: %w", err)
			}

			paths, err := svc.Paths(ctx, g, args[0], args[1], depthOrDefault(cmd, depth))
			if err != nil {
				return fmt.Errorf("paths: %w", err)
			}
			if limit > 0 && len(paths) > limit {
				paths = paths[:limit]
			}

			if outputJSON {
				return printJSON(paths)
			}
			if len(paths) == 0 {
				fmt.Printf("No paths found from %q to %q.\n", args[0], args[1])
				return nil
			}
			for i := range paths {
				p := paths[i]
				fmt.Printf("[%d] confidence=%.4f length=%d\n    %s\n", i+1, p.Confidence, p.Length, scoring.SummarizeMechanism(p))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "maximum path length in edges (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "max paths to print (0 = all)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	return cmd
}
