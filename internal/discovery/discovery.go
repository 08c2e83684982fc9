// Package discovery is the caller layer around the path search: it bounds each
// search with a timeout, picks the best path, scores it and assembles a
// Report. It also fans batches of queries out over one graph snapshot.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/openclaw-repurpose/internal/graph"
	"github.com/ajitpratap0/openclaw-repurpose/internal/metrics"
	"github.com/ajitpratap0/openclaw-repurpose/internal/models"
	"github.com/ajitpratap0/openclaw-repurpose/internal/pathfinder"
	"github.com/ajitpratap0/openclaw-repurpose/internal/scoring"
)

var (
	// ErrNoPath is returned when no path connects the two entities. Unknown
	// entity names produce the same error; the difference is only visible in
	// logs and metrics.
	ErrNoPath = errors.New("no path found")

	// ErrTimeout is returned when a search exceeds the configured timeout.
	ErrTimeout = errors.New("path search timed out")
)

// Discovery outcomes used as metric labels.
const (
	outcomeFound   = "found"
	outcomeNoPath  = "no_path"
	outcomeTimeout = "timeout"
)

// Options configures a Service.
type Options struct {
	// Timeout bounds each search. Zero means only the caller's ctx applies.
	Timeout time.Duration

	// Alternates is how many runner-up paths a Report includes.
	Alternates int

	// Concurrency caps parallel searches in DiscoverBatch.
	Concurrency int
}

// DefaultOptions returns the defaults used when config leaves values unset.
func DefaultOptions() Options {
	return Options{
		Timeout:     5 * time.Second,
		Alternates:  3,
		Concurrency: 4,
	}
}

// Service runs discovery queries. It holds no graph: every call takes the
// snapshot to search, so callers can swap snapshots between calls.
type Service struct {
	finder *pathfinder.Finder
	opts   Options
	logger *slog.Logger
}

// NewService creates a Service around finder.
func NewService(finder *pathfinder.Finder, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Alternates < 0 {
		opts.Alternates = 0
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Service{finder: finder, opts: opts, logger: logger}
}

// Paths runs a bounded search and returns every ranked path.
func (s *Service) Paths(ctx context.Context, g *graph.Graph, start, target string, maxDepth int) ([]models.Path, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	paths, err := s.finder.FindPaths(ctx, g, start, target, maxDepth)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.DiscoveryTotal.WithLabelValues(outcomeTimeout).Inc()
			return nil, fmt.Errorf("%w after %s: %w", ErrTimeout, s.opts.Timeout, err)
		}
		return nil, err
	}
	return paths, nil
}

// Discover finds the best path from start to target and scores it.
func (s *Service) Discover(ctx context.Context, g *graph.Graph, start, target string, maxDepth int) (*models.Report, error) {
	queryID := uuid.NewString()
	began := time.Now()

	paths, err := s.Paths(ctx, g, start, target, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("discover %s -> %s: %w", start, target, err)
	}
	if len(paths) == 0 {
		metrics.DiscoveryTotal.WithLabelValues(outcomeNoPath).Inc()
		s.logger.Info("discovery: no path", "query_id", queryID, "start", start, "target", target, "max_depth", maxDepth)
		return nil, fmt.Errorf("discover %s -> %s: %w", start, target, ErrNoPath)
	}

	top := paths[0]
	source, _ := g.Entity(top.Nodes[0])

	report := &models.Report{
		QueryID:    queryID,
		Drug:       start,
		Disease:    target,
		MaxDepth:   maxDepth,
		PathsFound: len(paths),
		TopPath:    scoring.Summarize(top),
		Scores:     scoring.ScoreOpportunity(top, source),
	}
	for i := 1; i < len(paths) && i <= s.opts.Alternates; i++ {
		report.Alternates = append(report.Alternates, scoring.Summarize(paths[i]))
	}
	report.Duration = time.Since(began)

	metrics.DiscoveryTotal.WithLabelValues(outcomeFound).Inc()
	s.logger.Info("discovery: opportunity scored",
		"query_id", queryID,
		"start", start,
		"target", target,
		"paths", len(paths),
		"overall_score", report.Scores.OverallScore)
	return report, nil
}

// Query is one (start, target) pair of a batch.
type Query struct {
	Start  string `json:"start"`
	Target string `json:"target"`
}

// BatchResult is the outcome of one batch query. Exactly one of Report and
// Error is set.
type BatchResult struct {
	Query  Query          `json:"query"`
	Report *models.Report `json:"report,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// DiscoverBatch runs queries concurrently against the same snapshot and
// returns results in input order. Per-query failures are recorded in the
// result; the returned error is non-nil only when ctx ends the batch early.
func (s *Service) DiscoverBatch(ctx context.Context, g *graph.Graph, queries []Query, maxDepth int) ([]BatchResult, error) {
	results := make([]BatchResult, len(queries))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.opts.Concurrency)
	for i := range queries {
		i := i
		q := queries[i]
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			rep, err := s.Discover(egCtx, g, q.Start, q.Target, maxDepth)
			results[i] = BatchResult{Query: q, Report: rep}
			if err != nil {
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return results, fmt.Errorf("discover batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("discover batch: %w", err)
	}
	return results, nil
}
