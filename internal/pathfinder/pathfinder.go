// Package pathfinder enumerates and ranks simple directed paths between two
// named entities of a graph snapshot.
//
// The search is a breadth-first enumeration over (node path, edge path)
// states. It does not stop at the first hit: every simple path whose edge
// count is within the depth bound is returned. The number of such paths grows
// exponentially with branching factor, so the depth bound is the only
// safeguard inside the search; callers should layer a timeout on ctx.
package pathfinder

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ajitpratap0/openclaw-repurpose/internal/graph"
	"github.com/ajitpratap0/openclaw-repurpose/internal/metrics"
	"github.com/ajitpratap0/openclaw-repurpose/internal/models"
)

const (
	// DefaultMaxDepth is the default bound on path edge count.
	DefaultMaxDepth = 6

	// contextCheckInterval is how many dequeued states pass between ctx checks.
	contextCheckInterval = 256
)

var tracer = otel.Tracer("openclaw-repurpose.pathfinder")

// Finder runs path searches. A Finder holds no per-search state and is safe
// for concurrent use.
type Finder struct {
	policy EdgePolicy
	logger *slog.Logger
}

// Option configures a Finder.
type Option func(*Finder)

// WithEdgePolicy selects how parallel relationships between the same ordered
// pair are resolved.
func WithEdgePolicy(p EdgePolicy) Option {
	return func(f *Finder) {
		if p.IsValid() {
			f.policy = p
		}
	}
}

// New creates a Finder. The default edge policy is EdgePolicyLastWins.
func New(logger *slog.Logger, opts ...Option) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Finder{
		policy: EdgePolicyLastWins,
		logger: logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Policy returns the edge policy the finder was built with.
func (f *Finder) Policy() EdgePolicy { return f.policy }

// FindPaths is a convenience wrapper around a default Finder.
func FindPaths(ctx context.Context, g *graph.Graph, startName, targetName string, maxDepth int) ([]models.Path, error) {
	return New(nil).FindPaths(ctx, g, startName, targetName, maxDepth)
}

// state is one entry of the BFS queue.
type state struct {
	nodes []string
	edges []*models.Relationship
}

// FindPaths returns every simple path from the entity named startName to the
// entity named targetName with at most maxDepth edges, best first.
//
// Names are matched exactly. An unknown name yields no paths and no error;
// the miss is logged and counted so it can be told apart from "no route".
// A path always has at least one edge, so maxDepth <= 0 or startName ==
// targetName yield nothing, except that a self-loop on the start entity is
// returned as a one-edge path when start and target are the same.
//
// The only error returned is the context error when ctx is done mid-search.
func (f *Finder) FindPaths(ctx context.Context, g *graph.Graph, startName, targetName string, maxDepth int) ([]models.Path, error) {
	ctx, span := tracer.Start(ctx, "pathfinder.FindPaths", trace.WithAttributes(
		attribute.String("start", startName),
		attribute.String("target", targetName),
		attribute.Int("max_depth", maxDepth),
	))
	defer span.End()

	began := time.Now()
	metrics.Inc(metrics.SearchTotal)
	defer func() { metrics.SearchDuration.Observe(time.Since(began).Seconds()) }()

	start, startOK := g.EntityByName(startName)
	target, targetOK := g.EntityByName(targetName)
	if !startOK || !targetOK {
		if !startOK {
			metrics.EntityNotFoundTotal.WithLabelValues(metrics.RoleStart).Inc()
		}
		if !targetOK {
			metrics.EntityNotFoundTotal.WithLabelValues(metrics.RoleTarget).Inc()
		}
		f.logger.Warn("pathfinder: entity not found",
			"start", startName, "start_found", startOK,
			"target", targetName, "target_found", targetOK)
		span.SetAttributes(attribute.Bool("entity_not_found", true))
		metrics.PathsFound.Observe(0)
		return nil, nil
	}

	f.logger.Debug("pathfinder: searching paths",
		"start", startName, "start_id", start.ID,
		"target", targetName, "target_id", target.ID,
		"max_depth", maxDepth, "edge_policy", f.policy)

	var paths []models.Path
	queue := []state{{nodes: []string{start.ID}}}
	for processed := 0; len(queue) > 0; processed++ {
		if processed%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				span.RecordError(err)
				return nil, fmt.Errorf("pathfinder: searching %s -> %s: %w", startName, targetName, err)
			}
		}

		st := queue[0]
		queue = queue[1:]
		current := st.nodes[len(st.nodes)-1]

		if current == target.ID && len(st.edges) > 0 {
			paths = append(paths, f.materialize(g, st))
			continue
		}

		// Bound is on node count: a state with more than maxDepth nodes
		// already carries maxDepth edges and is never expanded.
		if len(st.nodes) > maxDepth {
			continue
		}

		for _, rel := range g.Outgoing(current) {
			next := rel.Target
			if slices.Contains(st.nodes, next) && !isStartSelfLoop(st, next, target.ID) {
				continue
			}
			// A non-target neighbor at this length would be pruned on dequeue.
			if next != target.ID && len(st.nodes)+1 > maxDepth {
				continue
			}

			edge := rel
			if f.policy == EdgePolicyLastWins {
				if detail, ok := g.Lookup(current, next); ok {
					edge = detail
				}
			}

			queue = append(queue, state{
				nodes: append(slices.Clip(st.nodes), next),
				edges: append(slices.Clip(st.edges), edge),
			})
		}
	}

	Rank(paths)

	span.SetAttributes(attribute.Int("paths", len(paths)))
	metrics.PathsFound.Observe(float64(len(paths)))
	f.logger.Debug("pathfinder: search complete", "start", startName, "target", targetName, "paths", len(paths))
	return paths, nil
}

// isStartSelfLoop reports whether stepping to next closes a self-loop on the
// start entity when the start is also the target.
func isStartSelfLoop(st state, next, targetID string) bool {
	return len(st.nodes) == 1 && st.nodes[0] == next && next == targetID
}

// materialize turns a completed BFS state into a Path record.
func (f *Finder) materialize(g *graph.Graph, st state) models.Path {
	p := models.Path{
		Nodes:       st.nodes,
		Edges:       make([]string, len(st.edges)),
		Length:      len(st.edges),
		NodeDetails: make([]models.Entity, len(st.nodes)),
		EdgeDetails: make([]models.Relationship, len(st.edges)),
	}
	for i, id := range st.nodes {
		e, _ := g.Entity(id)
		p.NodeDetails[i] = e
	}
	for i, rel := range st.edges {
		p.Edges[i] = rel.Key()
		p.EdgeDetails[i] = *rel
	}
	p.Confidence = models.MeanConfidence(p.EdgeDetails)
	return p
}

// Rank sorts paths best first: higher mean confidence, then fewer edges, then
// the lexicographically smaller node ID sequence. Paths equal on all three
// keep their relative order.
func Rank(paths []models.Path) {
	sort.SliceStable(paths, func(i, j int) bool {
		a, b := &paths[i], &paths[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Length != b.Length {
			return a.Length < b.Length
		}
		return slices.Compare(a.Nodes, b.Nodes) < 0
	})
}
