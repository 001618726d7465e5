// Package database statically extracts ORM models and migration files
// from a snapshot. It never connects to a live database.
package database

import (
	"log/slog"
	"sort"

	"codescope/internal/scan"
)

// Analyzer runs every ORM extractor and the migration scan.
type Analyzer struct {
	extractors []ormExtractor
	log        *slog.Logger
}

// NewAnalyzer creates an Analyzer with the full extractor set.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{extractors: ormExtractors(), log: logger}
}

// Analyze extracts the schema. ORMFramework is the ORM with the most
// extracted tables; ties resolve to the lexically smaller name.
func (a *Analyzer) Analyze(snap *scan.Snapshot) Schema {
	schema := Schema{Tables: []Table{}}
	counts := make(map[ORM]int)

	for _, f := range snap.Files {
		for _, e := range a.extractors {
			if !e.applies(f) {
				continue
			}
			tables := e.extract(f)
			schema.Tables = append(schema.Tables, tables...)
			counts[e.orm] += len(tables)
		}
	}

	sort.Slice(schema.Tables, func(i, j int) bool {
		ti, tj := schema.Tables[i], schema.Tables[j]
		if ti.SourceFile != tj.SourceFile {
			return ti.SourceFile < tj.SourceFile
		}
		return ti.Model < tj.Model
	})

	best := ORM("")
	bestCount := 0
	for orm, n := range counts {
		if n > bestCount || (n == bestCount && n > 0 && (best == "" || orm < best)) {
			best = orm
			bestCount = n
		}
	}
	schema.ORMFramework = best

	schema.Migrations = ExtractMigrations(snap)

	a.log.Debug("database analysis complete",
		"tables", len(schema.Tables),
		"migrations", len(schema.Migrations),
		"orm", string(schema.ORMFramework))
	return schema
}
