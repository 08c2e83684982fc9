package pathfinder_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/openclaw-repurpose/internal/graph"
	"github.com/ajitpratap0/openclaw-repurpose/internal/metrics"
	"github.com/ajitpratap0/openclaw-repurpose/internal/models"
	"github.com/ajitpratap0/openclaw-repurpose/internal/pathfinder"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// ent builds an entity whose name is its ID unless a name is given.
func ent(id string, name ...string) models.Entity {
	e := models.Entity{ID: id, Name: id, Type: models.EntityTypeTarget}
	if len(name) > 0 {
		e.Name = name[0]
	}
	return e
}

func rel(src, dst string, conf float64) models.Relationship {
	return models.Relationship{Source: src, Target: dst, Relation: "relates_to", Confidence: conf}
}

func buildGraph(t *testing.T, entities []models.Entity, rels []models.Relationship) *graph.Graph {
	t.Helper()
	g, err := graph.New(entities, rels, newTestLogger())
	require.NoError(t, err)
	return g
}

func find(t *testing.T, f *pathfinder.Finder, g *graph.Graph, start, target string, depth int) []models.Path {
	t.Helper()
	paths, err := f.FindPaths(context.Background(), g, start, target, depth)
	require.NoError(t, err)
	return paths
}

func TestFindPathsDrugTargetDisease(t *testing.T) {
	g := buildGraph(t,
		[]models.Entity{
			{ID: "A", Name: "Drug", Type: models.EntityTypeDrug, Status: models.StatusApproved},
			{ID: "B", Name: "Target", Type: models.EntityTypeTarget},
			{ID: "C", Name: "Disease", Type: models.EntityTypeDisease},
		},
		[]models.Relationship{rel("A", "B", 0.9), rel("B", "C", 0.8)},
	)

	paths := find(t, pathfinder.New(newTestLogger()), g, "Drug", "Disease", 6)
	require.Len(t, paths, 1)

	p := paths[0]
	assert.Equal(t, []string{"A", "B", "C"}, p.Nodes)
	assert.Equal(t, []string{"A->B", "B->C"}, p.Edges)
	assert.Equal(t, 2, p.Length)
	assert.InDelta(t, 0.85, p.Confidence, 1e-9)
	require.Len(t, p.NodeDetails, 3)
	assert.Equal(t, "Drug", p.NodeDetails[0].Name)
	assert.Equal(t, "Disease", p.NodeDetails[2].Name)
	require.Len(t, p.EdgeDetails, 2)
	assert.Equal(t, "A", p.EdgeDetails[0].Source)
	assert.Equal(t, "C", p.EdgeDetails[1].Target)
}

func TestFindPathsEnumeratesAllSimplePaths(t *testing.T) {
	// Diamond plus a direct edge: A->D, A->B->D, A->C->D, A->B->C->D.
	g := buildGraph(t,
		[]models.Entity{ent("A"), ent("B"), ent("C"), ent("D")},
		[]models.Relationship{
			rel("A", "D", 0.5),
			rel("A", "B", 0.9), rel("B", "D", 0.9),
			rel("A", "C", 0.7), rel("C", "D", 0.7),
			rel("B", "C", 0.6),
		},
	)

	paths := find(t, pathfinder.New(newTestLogger()), g, "A", "D", 6)
	require.Len(t, paths, 4)
	assert.Equal(t, []string{"A", "B", "D"}, paths[0].Nodes)
	assert.Equal(t, []string{"A", "D"}, paths[len(paths)-1].Nodes)
}

func TestFindPathsNoSelfPaths(t *testing.T) {
	g := buildGraph(t,
		[]models.Entity{ent("A"), ent("B")},
		[]models.Relationship{rel("A", "B", 0.9), rel("B", "A", 0.9)},
	)
	f := pathfinder.New(newTestLogger())

	for depth := 1; depth <= 6; depth++ {
		assert.Empty(t, find(t, f, g, "A", "A", depth), "depth %d", depth)
	}
}

func TestFindPathsSelfLoopIsOneEdgePath(t *testing.T) {
	g := buildGraph(t,
		[]models.Entity{ent("A"), ent("B")},
		[]models.Relationship{rel("A", "A", 0.7), rel("A", "B", 0.9), rel("B", "A", 0.9)},
	)
	f := pathfinder.New(newTestLogger())

	paths := find(t, f, g, "A", "A", 6)
	require.Len(t, paths, 1)
	assert.Equal(t, []string{"A", "A"}, paths[0].Nodes)
	assert.Equal(t, 1, paths[0].Length)
	assert.InDelta(t, 0.7, paths[0].Confidence, 1e-9)

	assert.Empty(t, find(t, f, g, "A", "A", 0))

	// A self-loop on an intermediate node is never followed.
	paths = find(t, f, g, "B", "A", 6)
	require.Len(t, paths, 1)
	assert.Equal(t, []string{"B", "A"}, paths[0].Nodes)
}

func TestFindPathsDepthBound(t *testing.T) {
	g := buildGraph(t,
		[]models.Entity{ent("A"), ent("B"), ent("C"), ent("D")},
		[]models.Relationship{rel("A", "B", 0.9), rel("B", "C", 0.9), rel("C", "D", 0.9)},
	)
	f := pathfinder.New(newTestLogger())

	tests := []struct {
		name  string
		depth int
		want  int
	}{
		{name: "negative depth", depth: -1, want: 0},
		{name: "zero depth", depth: 0, want: 0},
		{name: "depth below path length", depth: 2, want: 0},
		{name: "depth equal to path length", depth: 3, want: 1},
		{name: "depth above path length", depth: 10, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := find(t, f, g, "A", "D", tt.depth)
			assert.Len(t, paths, tt.want)
			for i := range paths {
				assert.LessOrEqual(t, paths[i].Length, tt.depth)
			}
		})
	}

	// A single edge needs depth 1.
	assert.Empty(t, find(t, f, g, "A", "B", 0))
	assert.Len(t, find(t, f, g, "A", "B", 1), 1)
}

func TestFindPathsUnreachableTarget(t *testing.T) {
	g := buildGraph(t,
		[]models.Entity{ent("A"), ent("B"), ent("C")},
		[]models.Relationship{rel("A", "B", 0.9), rel("C", "A", 0.9)},
	)
	paths := find(t, pathfinder.New(newTestLogger()), g, "A", "C", 6)
	assert.Empty(t, paths)
}

func TestFindPathsUnknownEntityIsEmptyAndCounted(t *testing.T) {
	g := buildGraph(t,
		[]models.Entity{ent("A"), ent("B")},
		[]models.Relationship{rel("A", "B", 0.9)},
	)
	f := pathfinder.New(newTestLogger())

	startBefore := testutil.ToFloat64(metrics.EntityNotFoundTotal.WithLabelValues(metrics.RoleStart))
	targetBefore := testutil.ToFloat64(metrics.EntityNotFoundTotal.WithLabelValues(metrics.RoleTarget))

	assert.Empty(t, find(t, f, g, "Nope", "B", 6))
	assert.Empty(t, find(t, f, g, "A", "Nope", 6))
	// Names are matched exactly.
	assert.Empty(t, find(t, f, g, "a", "B", 6))

	assert.InDelta(t, startBefore+2, testutil.ToFloat64(metrics.EntityNotFoundTotal.WithLabelValues(metrics.RoleStart)), 1e-9)
	assert.InDelta(t, targetBefore+1, testutil.ToFloat64(metrics.EntityNotFoundTotal.WithLabelValues(metrics.RoleTarget)), 1e-9)
}

func TestFindPathsDanglingRelationshipIgnored(t *testing.T) {
	g := buildGraph(t,
		[]models.Entity{ent("A"), ent("B")},
		[]models.Relationship{rel("A", "GHOST", 0.9), rel("GHOST", "B", 0.9), rel("A", "B", 0.4)},
	)
	paths := find(t, pathfinder.New(newTestLogger()), g, "A", "B", 6)
	require.Len(t, paths, 1)
	assert.Equal(t, []string{"A", "B"}, paths[0].Nodes)
}

func TestFindPathsParallelEdgesLastWins(t *testing.T) {
	g := buildGraph(t,
		[]models.Entity{ent("A"), ent("B"), ent("C")},
		[]models.Relationship{
			{Source: "A", Target: "B", Relation: "binds", Confidence: 0.4},
			{Source: "A", Target: "B", Relation: "inhibits", Confidence: 0.9},
			rel("B", "C", 0.8),
		},
	)
	f := pathfinder.New(newTestLogger())
	assert.Equal(t, pathfinder.EdgePolicyLastWins, f.Policy())

	paths := find(t, f, g, "A", "C", 6)
	require.Len(t, paths, 2)
	for i := range paths {
		assert.Equal(t, "inhibits", paths[i].EdgeDetails[0].Relation)
		assert.InDelta(t, 0.85, paths[i].Confidence, 1e-9)
	}
}

func TestFindPathsParallelEdgesDistinct(t *testing.T) {
	g := buildGraph(t,
		[]models.Entity{ent("A"), ent("B"), ent("C")},
		[]models.Relationship{
			{Source: "A", Target: "B", Relation: "binds", Confidence: 0.4},
			{Source: "A", Target: "B", Relation: "inhibits", Confidence: 0.9},
			rel("B", "C", 0.8),
		},
	)
	f := pathfinder.New(newTestLogger(), pathfinder.WithEdgePolicy(pathfinder.EdgePolicyDistinct))

	paths := find(t, f, g, "A", "C", 6)
	require.Len(t, paths, 2)
	assert.Equal(t, "inhibits", paths[0].EdgeDetails[0].Relation)
	assert.InDelta(t, 0.85, paths[0].Confidence, 1e-9)
	assert.Equal(t, "binds", paths[1].EdgeDetails[0].Relation)
	assert.InDelta(t, 0.6, paths[1].Confidence, 1e-9)
}

func TestFindPathsTieBreakIsLexicographic(t *testing.T) {
	// C branch inserted first; equal confidence and length sort by node IDs.
	g := buildGraph(t,
		[]models.Entity{ent("A"), ent("B"), ent("C"), ent("D")},
		[]models.Relationship{
			rel("A", "C", 0.8), rel("C", "D", 0.8),
			rel("A", "B", 0.8), rel("B", "D", 0.8),
		},
	)
	paths := find(t, pathfinder.New(newTestLogger()), g, "A", "D", 6)
	require.Len(t, paths, 2)
	assert.Equal(t, []string{"A", "B", "D"}, paths[0].Nodes)
	assert.Equal(t, []string{"A", "C", "D"}, paths[1].Nodes)
}

func TestFindPathsShorterWinsOnEqualConfidence(t *testing.T) {
	g := buildGraph(t,
		[]models.Entity{ent("A"), ent("B"), ent("D")},
		[]models.Relationship{rel("A", "B", 0.8), rel("B", "D", 0.8), rel("A", "D", 0.8)},
	)
	paths := find(t, pathfinder.New(newTestLogger()), g, "A", "D", 6)
	require.Len(t, paths, 2)
	assert.Equal(t, 1, paths[0].Length)
	assert.Equal(t, 2, paths[1].Length)
}

func TestFindPathsPropertiesOnSeedGraph(t *testing.T) {
	g := seedGraph(t)
	f := pathfinder.New(newTestLogger())
	entities := g.Entities()

	for _, start := range entities {
		for _, target := range entities {
			for _, depth := range []int{1, 3, 6} {
				paths := find(t, f, g, start.Name, target.Name, depth)
				for i := range paths {
					p := paths[i]
					require.LessOrEqual(t, p.Length, depth)
					require.Equal(t, len(p.Nodes)-1, p.Length)
					require.Len(t, p.Edges, p.Length)
					require.Equal(t, start.ID, p.Nodes[0])
					require.Equal(t, target.ID, p.Nodes[len(p.Nodes)-1])

					if start.ID != target.ID {
						seen := make(map[string]bool, len(p.Nodes))
						for _, id := range p.Nodes {
							require.False(t, seen[id], "node %s repeats in %v", id, p.Nodes)
							seen[id] = true
						}
					}

					assert.InDelta(t, models.MeanConfidence(p.EdgeDetails), p.Confidence, 1e-9)
					for j := range p.EdgeDetails {
						assert.Equal(t, p.Nodes[j], p.EdgeDetails[j].Source)
						assert.Equal(t, p.Nodes[j+1], p.EdgeDetails[j].Target)
					}

					if i > 0 {
						prev := paths[i-1]
						ordered := prev.Confidence > p.Confidence ||
							(prev.Confidence == p.Confidence && prev.Length <= p.Length)
						assert.True(t, ordered, "paths %d and %d out of order", i-1, i)
					}
				}
			}
		}
	}
}

func TestFindPathsConcurrentSearchesAgree(t *testing.T) {
	g := seedGraph(t)
	f := pathfinder.New(newTestLogger())
	want := find(t, f, g, "Semaglutide", "Alzheimer's Disease", 6)
	require.Len(t, want, 2)

	var wg sync.WaitGroup
	results := make([][]models.Path, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths, err := f.FindPaths(context.Background(), g, "Semaglutide", "Alzheimer's Disease", 6)
			assert.NoError(t, err)
			results[i] = paths
		}(i)
	}
	wg.Wait()

	for i := range results {
		assert.Equal(t, want, results[i])
	}
}

func TestFindPathsCancelledContext(t *testing.T) {
	g := seedGraph(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths, err := pathfinder.New(newTestLogger()).FindPaths(ctx, g, "Semaglutide", "Obesity", 6)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, paths)
}

func TestFindPathsPackageHelper(t *testing.T) {
	g := seedGraph(t)
	paths, err := pathfinder.FindPaths(context.Background(), g, "Semaglutide", "Obesity", pathfinder.DefaultMaxDepth)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, []string{"D001", "T001", "P002", "DZ02"}, paths[0].Nodes)
	assert.InDelta(t, 0.92, paths[0].Confidence, 1e-9)
}

func TestParseEdgePolicy(t *testing.T) {
	p, err := pathfinder.ParseEdgePolicy("distinct")
	require.NoError(t, err)
	assert.Equal(t, pathfinder.EdgePolicyDistinct, p)

	_, err = pathfinder.ParseEdgePolicy("first_wins")
	assert.Error(t, err)

	// An invalid option leaves the default in place.
	f := pathfinder.New(nil, pathfinder.WithEdgePolicy("bogus"))
	assert.Equal(t, pathfinder.EdgePolicyLastWins, f.Policy())
}

// seedGraph is a hand-built copy of the shape of data/seed_graph.json.
func seedGraph(t *testing.T) *graph.Graph {
	t.Helper()
	entities := []models.Entity{
		{ID: "D001", Name: "Semaglutide", Type: models.EntityTypeDrug, Status: models.StatusApproved},
		{ID: "T001", Name: "GLP-1 Receptor", Type: models.EntityTypeTarget},
		{ID: "T004", Name: "NLRP3 Inflammasome", Type: models.EntityTypeTarget, KnowledgeSource: "publication"},
		{ID: "P001", Name: "Insulin Secretion", Type: models.EntityTypePathway},
		{ID: "P002", Name: "Appetite Regulation", Type: models.EntityTypePathway},
		{ID: "P003", Name: "Neuroinflammation", Type: models.EntityTypePathway, KnowledgeSource: "publication"},
		{ID: "DZ01", Name: "Type 2 Diabetes", Type: models.EntityTypeDisease},
		{ID: "DZ02", Name: "Obesity", Type: models.EntityTypeDisease},
		{ID: "DZ03", Name: "Alzheimer's Disease", Type: models.EntityTypeDisease},
	}
	rels := []models.Relationship{
		{Source: "D001", Target: "T001", Relation: "agonist_of", Confidence: 0.98},
		{Source: "T001", Target: "P001", Relation: "regulates", Confidence: 0.92},
		{Source: "T001", Target: "P002", Relation: "regulates", Confidence: 0.88},
		{Source: "T001", Target: "T004", Relation: "suppresses", Confidence: 0.71},
		{Source: "T004", Target: "P003", Relation: "drives", Confidence: 0.78},
		{Source: "P001", Target: "DZ01", Relation: "implicated_in", Confidence: 0.95},
		{Source: "P002", Target: "DZ02", Relation: "implicated_in", Confidence: 0.9},
		{Source: "P003", Target: "DZ03", Relation: "implicated_in", Confidence: 0.82},
		{Source: "DZ01", Target: "DZ03", Relation: "risk_factor_for", Confidence: 0.58},
	}
	return buildGraph(t, entities, rels)
}
