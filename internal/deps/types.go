package deps

// Ecosystem names the package registry a dependency comes from.
type Ecosystem string

const (
	EcosystemPyPI      Ecosystem = "pypi"
	EcosystemNPM       Ecosystem = "npm"
	EcosystemCrates    Ecosystem = "crates"
	EcosystemGo        Ecosystem = "go"
	EcosystemRubyGems  Ecosystem = "rubygems"
	EcosystemPackagist Ecosystem = "packagist"
	EcosystemPub       Ecosystem = "pub"
)

// Dependency is one declared dependency. Version keeps the raw
// constraint string from the manifest ("^18.2.0", ">=4.2,<5").
type Dependency struct {
	Name      string    `json:"name"`
	Version   string    `json:"version,omitempty"`
	Ecosystem Ecosystem `json:"ecosystem"`
	Manifest  string    `json:"manifest"`
	Dev       bool      `json:"dev,omitempty"`
}

// NodeKind distinguishes graph node types.
type NodeKind string

const (
	NodeManifest NodeKind = "manifest"
	NodePackage  NodeKind = "package"
)

// Node is a vertex in the declared-by graph.
type Node struct {
	ID    string   `json:"id"`
	Kind  NodeKind `json:"kind"`
	Label string   `json:"label"`
}

// Edge links a manifest to a package it declares.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the declared-by graph over manifests and packages. There is
// no transitive resolution; edges mirror manifest contents only.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
