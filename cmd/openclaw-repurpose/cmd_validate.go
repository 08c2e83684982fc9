package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the graph and report quarantined records",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			g, report, err := loadGraph(cmd.Context(), logger)
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}

			stats := g.Stats()
			fmt.Printf("Source:        %s\n", report.Source)
			fmt.Printf("Entities:      %d loaded, %d quarantined\n", report.EntitiesLoaded, report.EntitiesQuarantined)
			fmt.Printf("Relationships: %d loaded, %d quarantined\n", report.RelationshipsLoaded, report.RelationshipsQuarantined)
			fmt.Printf("Dangling:      %d\n", stats.Dangling)
			fmt.Printf("Parallel:      %d pairs (edge policy %s)\n", stats.ParallelPairs, cfg.Graph.EdgePolicy)

			if report.Clean() && stats.Dangling == 0 {
				fmt.Println("\nGraph is clean.")
				return nil
			}
			if !report.Clean() {
				fmt.Printf("\n%v\n", report.Problems)
			}
			return fmt.Errorf("validate: graph has %d quarantined and %d dangling records",
				report.EntitiesQuarantined+report.RelationshipsQuarantined, stats.Dangling)
		},
	}
}
