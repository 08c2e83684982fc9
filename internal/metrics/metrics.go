// Package metrics provides application-level Prometheus collectors.
// Collectors live in a package registry rather than the global default so
// that the CLI can dump them on demand and tests can read them in isolation.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Registry holds every collector defined by this package.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// Path search collectors.
var (
	SearchTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "repurpose_path_search_total",
		Help: "Total number of path searches executed.",
	})

	EntityNotFoundTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "repurpose_entity_not_found_total",
		Help: "Path searches that referenced an unknown entity name, by role.",
	}, []string{"role"})

	PathsFound = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "repurpose_paths_found",
		Help:    "Number of paths returned per search.",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 500},
	})

	SearchDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "repurpose_path_search_duration_seconds",
		Help:    "Duration of path searches.",
		Buckets: prometheus.DefBuckets,
	})
)

// Discovery and loading collectors.
var (
	DiscoveryTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "repurpose_discovery_total",
		Help: "Discovery queries by outcome (found, no_path, timeout).",
	}, []string{"outcome"})

	QuarantinedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "repurpose_quarantined_records_total",
		Help: "Records rejected at load time, by kind.",
	}, []string{"kind"})

	GraphReloads = factory.NewCounter(prometheus.CounterOpts{
		Name: "repurpose_graph_reloads_total",
		Help: "Graph snapshots rebuilt by the file watcher.",
	})
)

// Entity roles used as the label of EntityNotFoundTotal.
const (
	RoleStart  = "start"
	RoleTarget = "target"
)

// Inc increments the given counter by 1.
func Inc(counter prometheus.Counter) { counter.Inc() }

// WriteText writes all collectors in the Prometheus text exposition format.
func WriteText(w io.Writer) error {
	families, err := Registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
