package projectgraph

import (
	"encoding/json"
	"sort"
)

// FormatJSON renders a project graph as deterministic, indented JSON.
// Modules keep construction order; edges are sorted so identical graphs
// always serialize identically.
func FormatJSON(g *ProjectGraph) (string, error) {
	out := struct {
		RootModuleID string           `json:"rootModuleId"`
		Modules      []ModuleNode     `json:"modules"`
		Libraries    []LibraryNode    `json:"libraries"`
		Edges        []DependencyEdge `json:"edges"`
	}{
		RootModuleID: g.RootModuleID,
		Modules:      g.Modules,
		Libraries:    g.Libraries,
		Edges:        append([]DependencyEdge(nil), g.Edges...),
	}

	sort.Slice(out.Edges, func(i, j int) bool {
		if out.Edges[i].From != out.Edges[j].From {
			return out.Edges[i].From < out.Edges[j].From
		}
		return out.Edges[i].To < out.Edges[j].To
	})

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
