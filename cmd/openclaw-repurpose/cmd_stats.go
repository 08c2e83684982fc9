package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-repurpose/internal/models"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show graph statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			g, _, err := loadGraph(cmd.Context(), logger)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}

			stats := g.Stats()
			fmt.Printf("Entities:               %d\n", stats.Entities)
			fmt.Printf("Relationships:          %d\n", stats.Relationships)
			fmt.Printf("Dangling relationships: %d\n", stats.Dangling)
			fmt.Printf("Parallel pairs:         %d\n\n", stats.ParallelPairs)

			types := make([]models.EntityType, 0, len(stats.ByType))
			for t := range stats.ByType {
				types = append(types, t)
			}
			sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

			fmt.Println("By type:")
			for _, t := range types {
				fmt.Printf("  %-12s %d\n", t, stats.ByType[t])
			}
			return nil
		},
	}
}
