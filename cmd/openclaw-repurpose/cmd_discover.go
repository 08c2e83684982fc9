package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-repurpose/internal/discovery"
	"github.com/ajitpratap0/openclaw-repurpose/internal/metrics"
	"github.com/ajitpratap0/openclaw-repurpose/internal/models"
)

func discoverCmd() *cobra.Command {
	var (
		depth       int
		outputJSON  bool
		dumpMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "discover <drug> <disease>",
		Short: "Find and score the best repurposing path between two entities",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			g, _, err := loadGraph(ctx, logger)
			if err != nil {
				return fmt.Errorf("discover: %w", err)
			}
			svc, err := newService(logger)
			if err != nil {
				return fmt.Errorf("discover: %w", err)
			}

			report, err := svc.Discover(ctx, g, args[0], args[1], depthOrDefault(cmd, depth))
			if dumpMetrics {
				defer func() { _ = metrics.WriteText(os.Stderr) }()
			}
			if errors.Is(err, discovery.ErrNoPath) {
				fmt.Printf("No path found from %q to %q.\n", args[0], args[1])
				return nil
			}
			if err != nil {
				return err
			}

			if outputJSON {
				return printJSON(report)
			}
			printReport(report)
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "maximum path length in edges (default from config)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&dumpMetrics, "metrics", false, "print Prometheus metrics to stderr after the run")
	return cmd
}

func printReport(r *models.Report) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Printf("%s %s → %s\n", bold("Discovery:"), color.BlueString(r.Drug), color.RedString(r.Disease))
	fmt.Printf("Query:       %s\n", r.QueryID)
	fmt.Printf("Paths found: %d (max depth %d)\n\n", r.PathsFound, r.MaxDepth)

	fmt.Println(bold("Mechanism:"))
	fmt.Printf("  %s\n\n", r.TopPath.Mechanism)

	fmt.Println(bold("Scores:"))
	fmt.Printf("  Overall:         %s\n", green(fmt.Sprintf("%.4f", r.Scores.OverallScore)))
	fmt.Printf("  Confidence:      %.4f\n", r.Scores.ConfidenceScore)
	fmt.Printf("  Approval bonus:  %.2f\n", r.Scores.ApprovalBonus)
	fmt.Printf("  Path efficiency: %.4f\n", r.Scores.PathEfficiency)
	fmt.Printf("  Path length:     %d\n", r.Scores.PathLength)
	fmt.Printf("  Hidden links:    %d\n", r.TopPath.HiddenConnections)

	if len(r.Alternates) > 0 {
		fmt.Printf("\n%s\n", bold("Alternates:"))
		for i := range r.Alternates {
			a := &r.Alternates[i]
			fmt.Printf("  [%d] (%.0f%%, %d hops) %s\n", i+1, a.Confidence*100, a.PathLength, a.Mechanism)
		}
	}
}
