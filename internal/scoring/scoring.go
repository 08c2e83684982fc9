// Package scoring turns a ranked path into a mechanism narrative and a
// composite repurposing opportunity score.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/ajitpratap0/openclaw-repurpose/internal/models"
)

const (
	// ApprovalBonus is granted to source entities with approved status.
	ApprovalBonus = 0.2

	// lengthPenaltyRate scales how fast path efficiency decays with length.
	lengthPenaltyRate = 0.1

	// mechanismSeparator joins the per-edge steps of a mechanism summary.
	mechanismSeparator = " → "
)

// Weights controls the contribution of each factor to the overall score.
type Weights struct {
	Confidence float64 `json:"confidence"`
	Approval   float64 `json:"approval"`
	Efficiency float64 `json:"efficiency"`
}

// DefaultWeights returns the scoring weights users see rankings by.
//
// The approval term is weighted after the bonus itself is already 0.2, so it
// contributes at most 0.04 to the overall score. Rankings depend on this and
// it is kept as is.
func DefaultWeights() Weights {
	return Weights{
		Confidence: 0.6,
		Approval:   0.2,
		Efficiency: 0.2,
	}
}

// Validate checks that weights are non-negative and sum to 1.0.
func (w Weights) Validate() error {
	if w.Confidence < 0 || w.Approval < 0 || w.Efficiency < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	sum := w.Confidence + w.Approval + w.Efficiency
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

// SummarizeMechanism renders the path edge by edge, e.g.
//
//	A --inhibits--> B (91% confidence) → B --treats--> C (80% confidence)
//
// Edge i is paired with NodeDetails[i] and NodeDetails[i+1]. A path without
// edges yields "".
func SummarizeMechanism(p models.Path) string {
	steps := make([]string, 0, len(p.EdgeDetails))
	for i := range p.EdgeDetails {
		if i+1 >= len(p.NodeDetails) {
			break
		}
		edge := &p.EdgeDetails[i]
		steps = append(steps, fmt.Sprintf("%s --%s--> %s (%.0f%% confidence)",
			p.NodeDetails[i].Name,
			edge.Relation,
			p.NodeDetails[i+1].Name,
			edge.Confidence*100,
		))
	}
	return strings.Join(steps, mechanismSeparator)
}

// PathEfficiency is 1/(1+0.1*length): 1.0 for length 0, 0.5 for length 10.
func PathEfficiency(length int) float64 {
	return 1.0 / (1 + float64(length)*lengthPenaltyRate)
}

// ScoreOpportunity scores a path from source using DefaultWeights.
func ScoreOpportunity(p models.Path, source models.Entity) models.ScoreResult {
	w := DefaultWeights()

	res := models.ScoreResult{
		ConfidenceScore: p.Confidence,
		PathEfficiency:  PathEfficiency(p.Length),
		PathLength:      p.Length,
	}
	if source.IsApproved() {
		res.ApprovalBonus = ApprovalBonus
	}
	res.OverallScore = w.Confidence*res.ConfidenceScore +
		w.Approval*res.ApprovalBonus +
		w.Efficiency*res.PathEfficiency
	return res
}

// HiddenConnections counts path entities that came from an external
// knowledge source rather than the curated seed data.
func HiddenConnections(p models.Path) int {
	n := 0
	for i := range p.NodeDetails {
		if p.NodeDetails[i].KnowledgeSource != "" {
			n++
		}
	}
	return n
}

// Summarize condenses a path into the view shown alongside a score.
func Summarize(p models.Path) models.PathSummary {
	return models.PathSummary{
		Nodes:             p.Nodes,
		Confidence:        p.Confidence,
		PathLength:        p.Length,
		HiddenConnections: HiddenConnections(p),
		Mechanism:         SummarizeMechanism(p),
	}
}
