package models

const (
	// DefaultConfidence is applied to relationships loaded without a confidence.
	DefaultConfidence = 0.5

	// DefaultEvidence is applied to relationships loaded without evidence.
	DefaultEvidence = "unknown"
)

// Relationship is a directed, labeled, confidence-weighted edge between two
// entity IDs.
type Relationship struct {
	Source     string  `json:"source" validate:"required"`
	Target     string  `json:"target" validate:"required"`
	Relation   string  `json:"relation" validate:"required"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
	Evidence   string  `json:"evidence,omitempty"`
}

// EdgeKey returns the composite lookup key for an ordered entity pair.
func EdgeKey(source, target string) string {
	return source + "->" + target
}

// Key returns the composite lookup key of the relationship.
func (r *Relationship) Key() string {
	return EdgeKey(r.Source, r.Target)
}
