package deps

import (
	"fmt"
	"sort"
)

// BuildGraph derives the declared-by graph from a dependency list.
// Node IDs are prefixed by kind so a manifest named like a package
// cannot collide. Output ordering is deterministic.
func BuildGraph(dependencies []Dependency) Graph {
	nodes := make(map[string]Node)
	edgeSet := make(map[Edge]struct{})

	for _, dep := range dependencies {
		manifestID := "manifest:" + dep.Manifest
		packageID := fmt.Sprintf("pkg:%s/%s", dep.Ecosystem, dep.Name)

		nodes[manifestID] = Node{ID: manifestID, Kind: NodeManifest, Label: dep.Manifest}
		nodes[packageID] = Node{ID: packageID, Kind: NodePackage, Label: dep.Name}
		edgeSet[Edge{From: manifestID, To: packageID}] = struct{}{}
	}

	g := Graph{
		Nodes: make([]Node, 0, len(nodes)),
		Edges: make([]Edge, 0, len(edgeSet)),
	}
	for _, n := range nodes {
		g.Nodes = append(g.Nodes, n)
	}
	for e := range edgeSet {
		g.Edges = append(g.Edges, e)
	}

	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].From != g.Edges[j].From {
			return g.Edges[i].From < g.Edges[j].From
		}
		return g.Edges[i].To < g.Edges[j].To
	})
	return g
}
