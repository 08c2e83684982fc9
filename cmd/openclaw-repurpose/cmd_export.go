package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the graph as a nodes/links document for visualisation",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			g, _, err := loadGraph(cmd.Context(), logger)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			out, err := json.MarshalIndent(g.Visualization(), "", "  ")
			if err != nil {
				return fmt.Errorf("export: marshaling JSON: %w", err)
			}

			if output == "" || output == "-" {
				fmt.Println(string(out))
				return nil
			}
			if err := os.WriteFile(output, out, 0o600); err != nil {
				return fmt.Errorf("export: writing %s: %w", output, err)
			}
			fmt.Printf("Exported %d nodes to %s\n", len(g.Entities()), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	return cmd
}
