package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-repurpose/internal/models"
)

func entitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities",
		Short: "Inspect the entities of the loaded graph",
	}

	cmd.AddCommand(
		entitiesListCmd(),
		entitiesGetCmd(),
	)

	return cmd
}

func entitiesListCmd() *cobra.Command {
	var (
		entityType string
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities, optionally filtered by type",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			g, _, err := loadGraph(cmd.Context(), logger)
			if err != nil {
				return fmt.Errorf("entities list: %w", err)
			}

			all := g.Entities()
			entities := all[:0]
			for i := range all {
				if entityType == "" || string(all[i].Type) == entityType {
					entities = append(entities, all[i])
				}
			}

			if len(entities) == 0 {
				fmt.Println("No entities found.")
				return nil
			}

			if outputJSON {
				return printJSON(entities)
			}

			for i := range entities {
				e := &entities[i]
				fmt.Printf("%-12s  %-10s  %-30s  %s\n", e.ID, e.Type, e.Name, e.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&entityType, "type", "", "filter by entity type (e.g. Drug, Disease)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	return cmd
}

func entitiesGetCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Show one entity and its outgoing relationships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			g, _, err := loadGraph(cmd.Context(), logger)
			if err != nil {
				return fmt.Errorf("entities get: %w", err)
			}

			entity, err := g.ResolveName(args[0])
			if err != nil {
				return fmt.Errorf("entities get: %w", err)
			}

			outgoing := g.Outgoing(entity.ID)
			if outputJSON {
				rels := make([]models.Relationship, 0, len(outgoing))
				for _, r := range outgoing {
					rels = append(rels, *r)
				}
				return printJSON(map[string]any{
					"entity":   entity,
					"outgoing": rels,
				})
			}

			fmt.Printf("ID:        %s\n", entity.ID)
			fmt.Printf("Name:      %s\n", entity.Name)
			fmt.Printf("Type:      %s\n", entity.Type)
			fmt.Printf("Status:    %s\n", entity.Status)
			fmt.Printf("Source:    %s\n", entity.KnowledgeSource)
			fmt.Printf("Outgoing:  %d\n", len(outgoing))
			for _, r := range outgoing {
				target, _ := g.Entity(r.Target)
				fmt.Printf("  --%s--> %s (%.0f%%)\n", r.Relation, target.Name, r.Confidence*100)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	return cmd
}
