package graph

// VisualNode is a node in the force-graph export format.
type VisualNode struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Group string `json:"group"`
}

// VisualLink is a link in the force-graph export format.
type VisualLink struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Visualization is the nodes/links document consumed by graph renderers.
type Visualization struct {
	Nodes []VisualNode `json:"nodes"`
	Links []VisualLink `json:"links"`
}

// Visualization converts the snapshot into nodes/links form. Nodes are grouped
// by entity type so renderers can color them.
func (g *Graph) Visualization() Visualization {
	v := Visualization{
		Nodes: make([]VisualNode, 0, len(g.entities)),
		Links: make([]VisualLink, 0, len(g.relationships)),
	}
	for i := range g.entities {
		e := &g.entities[i]
		v.Nodes = append(v.Nodes, VisualNode{
			ID:    e.ID,
			Name:  e.Name,
			Type:  string(e.Type),
			Group: string(e.Type),
		})
	}
	for i := range g.relationships {
		r := &g.relationships[i]
		v.Links = append(v.Links, VisualLink{
			Source:     r.Source,
			Target:     r.Target,
			Label:      r.Relation,
			Confidence: r.Confidence,
		})
	}
	return v
}
