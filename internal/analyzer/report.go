// Package analyzer coordinates the analysis phases and assembles the
// final report.
package analyzer

import (
	"time"

	"github.com/google/uuid"

	"codescope/internal/api"
	"codescope/internal/database"
	"codescope/internal/deps"
	"codescope/internal/framework"
	"codescope/internal/lang"
	"codescope/internal/metrics"
	"codescope/internal/output"
	"codescope/internal/scan"
	"codescope/internal/security"
	"codescope/internal/version"
)

// Phase names the pipeline stage a run is in.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseScanning         Phase = "scanning"
	PhaseDetecting        Phase = "detecting"
	PhaseExtracting       Phase = "extracting"
	PhaseScanningSecurity Phase = "scanning_security"
	PhaseAggregating      Phase = "aggregating"
	PhaseDone             Phase = "done"
	PhaseFailed           Phase = "failed"
)

// Report is the complete output of one analysis run. On a failed run
// the fields populated before the failure are kept.
type Report struct {
	RunID      string    `json:"runId"`
	Version    string    `json:"version"`
	Root       string    `json:"root"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMS int64     `json:"durationMs"`
	Phase      Phase     `json:"phase"`

	TotalFiles   int      `json:"totalFiles"`
	TotalDirs    int      `json:"totalDirs"`
	SkippedFiles []string `json:"skippedFiles,omitempty"`

	Languages    lang.Result      `json:"languages"`
	Frameworks   []framework.Info `json:"frameworks,omitempty"`
	Dependencies deps.Result      `json:"dependencies"`
	API          api.Result       `json:"api"`
	Database     database.Schema  `json:"database"`
	Security     security.Result  `json:"security"`
	Metrics      metrics.Summary  `json:"metrics"`

	// Warnings aggregates non-fatal problems from every phase.
	Warnings []scan.Warning `json:"warnings,omitempty"`
}

func newReport(root string) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Version:   version.Version,
		Root:      root,
		StartedAt: time.Now().UTC().Truncate(time.Millisecond),
		Phase:     PhaseIdle,
	}
}

func (r *Report) finish(phase Phase) {
	r.Phase = phase
	r.DurationMS = time.Since(r.StartedAt).Milliseconds()
}

// ToDocument flattens the report into a map that the deterministic
// encoder serializes with stable key order.
func (r *Report) ToDocument() output.Document {
	return output.Document{
		"runId":        r.RunID,
		"version":      r.Version,
		"root":         r.Root,
		"startedAt":    r.StartedAt.Format(time.RFC3339Nano),
		"durationMs":   r.DurationMS,
		"phase":        string(r.Phase),
		"totalFiles":   r.TotalFiles,
		"totalDirs":    r.TotalDirs,
		"skippedFiles": r.SkippedFiles,
		"languages":    r.Languages,
		"frameworks":   r.Frameworks,
		"dependencies": r.Dependencies,
		"api":          r.API,
		"database":     r.Database,
		"security":     r.Security,
		"metrics":      r.Metrics,
		"warnings":     r.Warnings,
	}
}
