package models

// Path is a ranked route from a start entity to a target entity.
//
// Nodes holds k+1 entity IDs and Edges the k composite edge keys that connect
// consecutive nodes. NodeDetails and EdgeDetails are the materialized records
// in the same order, so edge i connects NodeDetails[i] to NodeDetails[i+1].
type Path struct {
	Nodes       []string       `json:"nodes"`
	Edges       []string       `json:"edges"`
	Length      int            `json:"length"`
	Confidence  float64        `json:"confidence"`
	NodeDetails []Entity       `json:"node_details"`
	EdgeDetails []Relationship `json:"edge_details"`
}

// MeanConfidence returns the average confidence of the given edges, or 0 when
// there are none.
func MeanConfidence(edges []Relationship) float64 {
	if len(edges) == 0 {
		return 0
	}
	var sum float64
	for i := range edges {
		sum += edges[i].Confidence
	}
	return sum / float64(len(edges))
}

// ScoreResult explains the composite repurposing opportunity score of a path.
type ScoreResult struct {
	OverallScore    float64 `json:"overall_score"`
	ConfidenceScore float64 `json:"confidence_score"`
	ApprovalBonus   float64 `json:"approval_bonus"`
	PathEfficiency  float64 `json:"path_efficiency"`
	PathLength      int     `json:"path_length"`
}
