package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-repurpose/internal/discovery"
)

func batchCmd() *cobra.Command {
	var (
		filePath string
		depth    int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run many discovery queries against one graph snapshot",
		Long: `Reads a JSON array of {"start": ..., "target": ...} objects and runs them
concurrently (search.concurrency) against the same graph snapshot.
Results are printed as a JSON array in input order.

Use - as the file path to read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			var r io.Reader
			if filePath == "" || filePath == "-" {
				r = os.Stdin
			} else {
				f, openErr := os.Open(filePath)
				if openErr != nil {
					return fmt.Errorf("batch: opening file: %w", openErr)
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			var queries []discovery.Query
			if err := json.NewDecoder(r).Decode(&queries); err != nil {
				return fmt.Errorf("batch: decoding queries: %w", err)
			}

			g, _, err := loadGraph(ctx, logger)
			if err != nil {
				return fmt.Errorf("batch: %w", err)
			}
			svc, err := newService(logger)
			if err != nil {
				return fmt.Errorf("batch: %w", err)
			}

			results, err := svc.DiscoverBatch(ctx, g, queries, depthOrDefault(cmd, depth))
			if err != nil {
				return err
			}
			return printJSON(results)
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "-", "path to queries file (- for stdin)")
	cmd.Flags().IntVar(&depth, "depth", 0, "maximum path length in edges (default from config)")
	return cmd
}
