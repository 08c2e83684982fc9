// Package loader assembles immutable graph snapshots from external sources.
//
// Every source decodes into the same raw record shapes, which are then
// normalized (defaults applied) and validated. Records that fail validation
// are quarantined: they are left out of the snapshot and reported, rather than
// failing the whole load or surfacing as missing fields deep inside a search.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/ajitpratap0/openclaw-repurpose/internal/graph"
	"github.com/ajitpratap0/openclaw-repurpose/internal/metrics"
	"github.com/ajitpratap0/openclaw-repurpose/internal/models"
)

// ErrInvalidDocument is returned when a source cannot be decoded at all.
var ErrInvalidDocument = errors.New("invalid graph document")

// Source produces the raw contents of a graph.
type Source interface {
	// Load reads the full entity and relationship set.
	Load(ctx context.Context) (*Document, error)

	// Describe returns a human-readable location for logs.
	Describe() string
}

// Document is the raw, unvalidated content of a graph source. Its JSON form
// has top-level "entities" and "relationships" arrays.
type Document struct {
	Entities      []RawEntity       `json:"entities"`
	Relationships []RawRelationship `json:"relationships"`
}

// RawEntity is an entity as found in the source.
type RawEntity struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	Status          string `json:"status,omitempty"`
	KnowledgeSource string `json:"knowledge_source,omitempty"`
}

// RawRelationship is a relationship as found in the source. Confidence and
// evidence are optional and receive defaults during normalization.
type RawRelationship struct {
	Source     string   `json:"source"`
	Target     string   `json:"target"`
	Relation   string   `json:"relation"`
	Confidence *float64 `json:"confidence,omitempty"`
	Evidence   *string  `json:"evidence,omitempty"`
}

// LoadReport describes what happened to the records of a document.
type LoadReport struct {
	Source                   string `json:"source"`
	EntitiesLoaded           int    `json:"entities_loaded"`
	RelationshipsLoaded      int    `json:"relationships_loaded"`
	EntitiesQuarantined      int    `json:"entities_quarantined"`
	RelationshipsQuarantined int    `json:"relationships_quarantined"`

	// Problems aggregates one error per quarantined record. Nil when the
	// document was clean.
	Problems *multierror.Error `json:"-"`
}

// Clean reports whether no record was quarantined.
func (r *LoadReport) Clean() bool {
	return r.Problems.ErrorOrNil() == nil
}

// Record kinds used as metric labels.
const (
	kindEntity       = "entity"
	kindRelationship = "relationship"
)

// validate is the shared validator instance for loaded records.
var validate = validator.New()

// Normalize applies defaults to a document and validates every record.
// Entities with a duplicate ID or name are quarantined; the first occurrence
// is kept. Relationships referencing unknown entities are kept here and left
// to the graph, which makes them unreachable.
func Normalize(doc *Document) ([]models.Entity, []models.Relationship, *LoadReport) {
	report := &LoadReport{}

	entities := make([]models.Entity, 0, len(doc.Entities))
	seenID := make(map[string]bool, len(doc.Entities))
	seenName := make(map[string]bool, len(doc.Entities))
	for i := range doc.Entities {
		raw := &doc.Entities[i]
		e := models.Entity{
			ID:              raw.ID,
			Name:            raw.Name,
			Type:            models.EntityType(raw.Type),
			Status:          raw.Status,
			KnowledgeSource: raw.KnowledgeSource,
		}
		var problem error
		if err := validate.Struct(e); err != nil {
			problem = fmt.Errorf("entity %d (id=%q): %w", i, raw.ID, err)
		}
		switch {
		case problem != nil:
		case seenID[e.ID]:
			problem = fmt.Errorf("entity %d: duplicate id %q", i, e.ID)
		case seenName[e.Name]:
			problem = fmt.Errorf("entity %d: duplicate name %q", i, e.Name)
		}
		if problem != nil {
			report.Problems = multierror.Append(report.Problems, problem)
			report.EntitiesQuarantined++
			metrics.QuarantinedTotal.WithLabelValues(kindEntity).Inc()
			continue
		}
		seenID[e.ID] = true
		seenName[e.Name] = true
		entities = append(entities, e)
	}

	rels := make([]models.Relationship, 0, len(doc.Relationships))
	for i := range doc.Relationships {
		raw := &doc.Relationships[i]
		r := models.Relationship{
			Source:     raw.Source,
			Target:     raw.Target,
			Relation:   raw.Relation,
			Confidence: models.DefaultConfidence,
			Evidence:   models.DefaultEvidence,
		}
		if raw.Confidence != nil {
			r.Confidence = *raw.Confidence
		}
		if raw.Evidence != nil {
			r.Evidence = *raw.Evidence
		}
		if err := validate.Struct(r); err != nil {
			report.Problems = multierror.Append(report.Problems,
				fmt.Errorf("relationship %d (%s): %w", i, r.Key(), err))
			report.RelationshipsQuarantined++
			metrics.QuarantinedTotal.WithLabelValues(kindRelationship).Inc()
			continue
		}
		rels = append(rels, r)
	}

	report.EntitiesLoaded = len(entities)
	report.RelationshipsLoaded = len(rels)
	return entities, rels, report
}

// Build loads src and returns a graph snapshot plus the load report.
// Quarantined records are logged but do not fail the build.
func Build(ctx context.Context, src Source, logger *slog.Logger) (*graph.Graph, *LoadReport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	doc, err := src.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading graph from %s: %w", src.Describe(), err)
	}

	entities, rels, report := Normalize(doc)
	report.Source = src.Describe()
	if !report.Clean() {
		logger.Warn("loader: quarantined malformed records",
			"source", report.Source,
			"entities", report.EntitiesQuarantined,
			"relationships", report.RelationshipsQuarantined,
			"error", report.Problems.ErrorOrNil())
	}

	g, err := graph.New(entities, rels, logger)
	if err != nil {
		return nil, report, fmt.Errorf("building graph from %s: %w", src.Describe(), err)
	}

	logger.Info("loader: graph loaded",
		"source", report.Source,
		"entities", report.EntitiesLoaded,
		"relationships", report.RelationshipsLoaded)
	return g, report, nil
}
