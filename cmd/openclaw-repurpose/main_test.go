package main

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/openclaw-repurpose/internal/config"
	"github.com/ajitpratap0/openclaw-repurpose/internal/pathfinder"
)

func useConfig(t *testing.T) {
	t.Helper()
	prev := cfg
	cfg = &config.Config{
		Graph: config.GraphConfig{
			Source:     config.SourceFile,
			Path:       "../../data/seed_graph.json",
			EdgePolicy: "distinct",
		},
		Search: config.SearchConfig{
			MaxDepth:    5,
			Timeout:     5 * time.Second,
			Alternates:  2,
			Concurrency: 2,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
	t.Cleanup(func() { cfg = prev })
}

func TestDepthOrDefault(t *testing.T) {
	useConfig(t)

	cmd := &cobra.Command{}
	var depth int
	cmd.Flags().IntVar(&depth, "depth", 0, "")
	assert.Equal(t, 5, depthOrDefault(cmd, depth))

	require.NoError(t, cmd.Flags().Set("depth", "2"))
	assert.Equal(t, 2, depthOrDefault(cmd, depth))
}

func TestNewFinderUsesConfiguredPolicy(t *testing.T) {
	useConfig(t)

	f, err := newFinder(newLogger())
	require.NoError(t, err)
	assert.Equal(t, pathfinder.EdgePolicyDistinct, f.Policy())

	cfg.Graph.EdgePolicy = "bogus"
	_, err = newFinder(newLogger())
	assert.Error(t, err)
}

func TestLoadGraphAndDiscover(t *testing.T) {
	useConfig(t)
	ctx := context.Background()
	logger := newLogger()

	g, report, err := loadGraph(ctx, logger)
	require.NoError(t, err)
	assert.True(t, report.Clean())

	svc, err := newService(logger)
	require.NoError(t, err)
	rep, err := svc.Discover(ctx, g, "Semaglutide", "Obesity", cfg.Search.MaxDepth)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.TopPath.PathLength)
}

func TestDiscoverCommandNoPathIsNotAnError(t *testing.T) {
	useConfig(t)

	cmd := discoverCmd()
	cmd.SetContext(context.Background())
	cmd.SetArgs([]string{"Metformin", "Obesity"})
	assert.NoError(t, cmd.Execute())
}

func TestValidateCommandOnCleanSeed(t *testing.T) {
	useConfig(t)

	cmd := validateCmd()
	cmd.SetContext(context.Background())
	cmd.SetArgs(nil)
	assert.NoError(t, cmd.Execute())
}
