// Package api statically extracts HTTP endpoints from route
// registrations and decorators, per framework.
package api

import (
	"log/slog"
	"sort"

	"codescope/internal/framework"
	"codescope/internal/scan"
)

// Analyzer runs every extractor over the files its import gate claims.
type Analyzer struct {
	extractors []Extractor
	log        *slog.Logger
}

// NewAnalyzer creates an Analyzer with the full extractor table.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{extractors: extractors(), log: logger}
}

// Analyze extracts endpoints from every file matching an extractor's
// import gate. Gating per file on import signatures rather than on
// project-level framework detection means a lone source file with
// routes and no manifest still yields its endpoints, while frameworks
// cannot claim each other's files.
func (a *Analyzer) Analyze(snap *scan.Snapshot) Result {
	res := Result{ByFramework: make(map[framework.Name]int)}
	for _, f := range snap.Files {
		for _, e := range a.extractors {
			if !e.Applies(f) {
				continue
			}
			found := e.Extract(f)
			res.Endpoints = append(res.Endpoints, found...)
			res.ByFramework[e.Framework()] += len(found)
		}
	}

	sort.Slice(res.Endpoints, func(i, j int) bool {
		ei, ej := res.Endpoints[i], res.Endpoints[j]
		if ei.SourceFile != ej.SourceFile {
			return ei.SourceFile < ej.SourceFile
		}
		if ei.Path != ej.Path {
			return ei.Path < ej.Path
		}
		if ei.Method != ej.Method {
			return ei.Method < ej.Method
		}
		return ei.Framework < ej.Framework
	})

	for name, n := range res.ByFramework {
		if n == 0 {
			delete(res.ByFramework, name)
		}
	}
	if len(res.ByFramework) == 0 {
		res.ByFramework = nil
	}

	a.log.Debug("api analysis complete", "endpoints", len(res.Endpoints))
	return res
}
