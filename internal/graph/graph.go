// Package graph holds the immutable knowledge graph snapshot that path
// searches run against.
//
// A Graph is built once with New and never mutated afterwards, so any number
// of goroutines may query the same snapshot without locking. Reloading data
// means building a new Graph and swapping the reference.
package graph

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ajitpratap0/openclaw-repurpose/internal/models"
)

var (
	// ErrEntityNotFound is returned by lookups for an unknown name or ID.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrDuplicateEntity is returned by New when two entities share an ID or a name.
	ErrDuplicateEntity = errors.New("duplicate entity")
)

// Graph is a read-only snapshot of entities and relationships in adjacency form.
type Graph struct {
	entities      []models.Entity
	relationships []models.Relationship

	byID   map[string]int
	byName map[string]int

	// adjacency maps a source entity ID to its outgoing relationships in
	// insertion order. Parallel edges are kept as separate entries.
	adjacency map[string][]*models.Relationship

	// edgeDetail maps a composite source->target key to the most recently
	// inserted relationship for that pair.
	edgeDetail map[string]*models.Relationship

	dangling      int
	parallelPairs int
}

// New builds a Graph. Entities must have unique IDs and names. Relationships
// whose source or target is not a known entity are kept in Relationships but
// left out of the adjacency, so they can never contribute to a path.
func New(entities []models.Entity, relationships []models.Relationship, logger *slog.Logger) (*Graph, error) {
	if logger == nil {
		logger = slog.Default()
	}

	g := &Graph{
		entities:      make([]models.Entity, len(entities)),
		relationships: make([]models.Relationship, len(relationships)),
		byID:          make(map[string]int, len(entities)),
		byName:        make(map[string]int, len(entities)),
		adjacency:     make(map[string][]*models.Relationship),
		edgeDetail:    make(map[string]*models.Relationship, len(relationships)),
	}
	copy(g.entities, entities)
	copy(g.relationships, relationships)

	for i := range g.entities {
		e := &g.entities[i]
		if _, dup := g.byID[e.ID]; dup {
			return nil, fmt.Errorf("graph: entity id %q: %w", e.ID, ErrDuplicateEntity)
		}
		if _, dup := g.byName[e.Name]; dup {
			return nil, fmt.Errorf("graph: entity name %q: %w", e.Name, ErrDuplicateEntity)
		}
		g.byID[e.ID] = i
		g.byName[e.Name] = i
	}

	for i := range g.relationships {
		r := &g.relationships[i]
		_, srcOK := g.byID[r.Source]
		_, dstOK := g.byID[r.Target]
		if !srcOK || !dstOK {
			g.dangling++
			logger.Warn("graph: relationship references unknown entity, it will be unreachable",
				"source", r.Source, "target", r.Target, "relation", r.Relation)
			continue
		}

		key := r.Key()
		if prev, ok := g.edgeDetail[key]; ok {
			g.parallelPairs++
			logger.Debug("graph: parallel relationship replaces previous detail for pair",
				"key", key, "previous", prev.Relation, "current", r.Relation)
		}
		g.edgeDetail[key] = r
		g.adjacency[r.Source] = append(g.adjacency[r.Source], r)
	}

	logger.Debug("graph: snapshot built",
		"entities", len(g.entities),
		"relationships", len(g.relationships),
		"dangling", g.dangling,
	)
	return g, nil
}

// EntityByName returns the entity whose name matches exactly.
func (g *Graph) EntityByName(name string) (models.Entity, bool) {
	i, ok := g.byName[name]
	if !ok {
		return models.Entity{}, false
	}
	return g.entities[i], true
}

// Entity returns the entity with the given ID.
func (g *Graph) Entity(id string) (models.Entity, bool) {
	i, ok := g.byID[id]
	if !ok {
		return models.Entity{}, false
	}
	return g.entities[i], true
}

// ResolveName is EntityByName returning ErrEntityNotFound on a miss.
func (g *Graph) ResolveName(name string) (models.Entity, error) {
	e, ok := g.EntityByName(name)
	if !ok {
		return models.Entity{}, fmt.Errorf("%q: %w", name, ErrEntityNotFound)
	}
	return e, nil
}

// Outgoing returns the relationships leaving the entity, in insertion order.
// The returned slice and its elements belong to the graph and MUST NOT be
// modified.
func (g *Graph) Outgoing(id string) []*models.Relationship {
	return g.adjacency[id]
}

// Lookup returns the relationship detail stored for an ordered pair. When the
// source data holds several relationships for the same pair, the last one
// inserted wins.
func (g *Graph) Lookup(source, target string) (*models.Relationship, bool) {
	r, ok := g.edgeDetail[models.EdgeKey(source, target)]
	return r, ok
}

// Entities returns a copy of all entities in load order.
func (g *Graph) Entities() []models.Entity {
	out := make([]models.Entity, len(g.entities))
	copy(out, g.entities)
	return out
}

// Relationships returns a copy of all relationships in load order, dangling
// ones included.
func (g *Graph) Relationships() []models.Relationship {
	out := make([]models.Relationship, len(g.relationships))
	copy(out, g.relationships)
	return out
}

// Stats returns summary counts for the snapshot.
func (g *Graph) Stats() models.GraphStats {
	byType := make(map[models.EntityType]int)
	for i := range g.entities {
		byType[g.entities[i].Type]++
	}
	return models.GraphStats{
		Entities:      len(g.entities),
		Relationships: len(g.relationships),
		Dangling:      g.dangling,
		ParallelPairs: g.parallelPairs,
		ByType:        byType,
	}
}
