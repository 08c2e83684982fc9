package models

import "time"

// PathSummary is the condensed view of a path shown to users.
type PathSummary struct {
	Nodes             []string `json:"nodes"`
	Confidence        float64  `json:"confidence"`
	PathLength        int      `json:"path_length"`
	HiddenConnections int      `json:"hidden_connections"`
	Mechanism         string   `json:"mechanism"`
}

// Report is the outcome of one discovery query: the best path from a drug to
// a disease, its score, and a few runner-up paths.
type Report struct {
	QueryID    string        `json:"query_id"`
	Drug       string        `json:"drug"`
	Disease    string        `json:"disease"`
	MaxDepth   int           `json:"max_depth"`
	PathsFound int           `json:"paths_found"`
	TopPath    PathSummary   `json:"top_path"`
	Scores     ScoreResult   `json:"scores"`
	Alternates []PathSummary `json:"alternates,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

// GraphStats summarizes a loaded graph snapshot.
type GraphStats struct {
	Entities      int                `json:"entities"`
	Relationships int                `json:"relationships"`
	Dangling      int                `json:"dangling_relationships"`
	ParallelPairs int                `json:"parallel_pairs"`
	ByType        map[EntityType]int `json:"by_type"`
}
