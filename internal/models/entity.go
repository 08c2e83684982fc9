package models

// EntityType is the category tag of an entity, e.g. "Drug" or "Disease".
// It is free-form: the graph treats it as an opaque label.
type EntityType string

// Common entity categories found in repurposing graphs.
const (
	EntityTypeDrug    EntityType = "Drug"
	EntityTypeTarget  EntityType = "Target"
	EntityTypePathway EntityType = "Pathway"
	EntityTypeDisease EntityType = "Disease"
)

// StatusApproved marks a drug that already has regulatory approval.
const StatusApproved = "approved"

// Entity represents a named node in the knowledge graph.
// Entities are immutable once a graph has been built from them.
type Entity struct {
	ID              string     `json:"id" validate:"required"`
	Name            string     `json:"name" validate:"required"`
	Type            EntityType `json:"type"`
	Status          string     `json:"status,omitempty"`
	KnowledgeSource string     `json:"knowledge_source,omitempty"`
}

// IsApproved reports whether the entity carries the approved status.
// A missing status is never approved.
func (e *Entity) IsApproved() bool {
	return e != nil && e.Status == StatusApproved
}
