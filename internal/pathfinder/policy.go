package pathfinder

import "fmt"

// EdgePolicy decides which relationship detail a traversal step carries when
// several relationships connect the same ordered pair of entities.
type EdgePolicy string

const (
	// EdgePolicyLastWins resolves every step through the composite
	// source->target lookup, in which the last inserted relationship wins.
	// Parallel relationships still produce one traversal step each, so a
	// pair with n relationships yields n identical path records that all
	// carry the last relationship's label and confidence.
	EdgePolicyLastWins EdgePolicy = "last_wins"

	// EdgePolicyDistinct keeps each relationship on its own step, so parallel
	// relationships yield distinct path variants.
	EdgePolicyDistinct EdgePolicy = "distinct"
)

// ValidEdgePolicies is the set of supported edge policies.
var ValidEdgePolicies = []EdgePolicy{
	EdgePolicyLastWins,
	EdgePolicyDistinct,
}

// IsValid returns true if the edge policy is recognized.
func (p EdgePolicy) IsValid() bool {
	for _, v := range ValidEdgePolicies {
		if p == v {
			return true
		}
	}
	return false
}

// ParseEdgePolicy converts a config value into an EdgePolicy.
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	p := EdgePolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown edge policy %q: must be one of last_wins, distinct", s)
	}
	return p, nil
}
