// Package deps extracts declared dependencies from the manifests in a
// snapshot and builds a declared-by graph over them.
package deps

import (
	"log/slog"
	"sort"

	"codescope/internal/scan"
)

// Result is the dependency phase output.
type Result struct {
	Dependencies []Dependency   `json:"dependencies"`
	Graph        Graph          `json:"graph"`
	Warnings     []scan.Warning `json:"warnings,omitempty"`
}

// Analyzer runs every manifest parser over a snapshot.
type Analyzer struct {
	parsers []ManifestParser
	log     *slog.Logger
}

// NewAnalyzer creates an Analyzer with the full parser set.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{parsers: Parsers(), log: logger}
}

// Analyze parses every recognized manifest. A malformed manifest adds
// a warning and the rest of the results still come back.
func (a *Analyzer) Analyze(snap *scan.Snapshot) Result {
	var res Result

	for _, f := range snap.Files {
		for _, p := range a.parsers {
			if !p.Applies(f.Path) {
				continue
			}
			parsed, err := p.Parse(f)
			if err != nil {
				res.Warnings = append(res.Warnings, scan.Warning{
					Phase:   "deps",
					Path:    f.Path,
					Message: err.Error(),
				})
				continue
			}
			res.Dependencies = append(res.Dependencies, parsed...)
		}
	}

	sort.Slice(res.Dependencies, func(i, j int) bool {
		di, dj := res.Dependencies[i], res.Dependencies[j]
		if di.Ecosystem != dj.Ecosystem {
			return di.Ecosystem < dj.Ecosystem
		}
		if di.Name != dj.Name {
			return di.Name < dj.Name
		}
		return di.Manifest < dj.Manifest
	})

	res.Graph = BuildGraph(res.Dependencies)

	a.log.Debug("dependency analysis complete",
		"dependencies", len(res.Dependencies),
		"warnings", len(res.Warnings))
	return res
}
