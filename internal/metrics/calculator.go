// Package metrics computes size, test and complexity metrics plus the
// aggregate quality score.
package metrics

import (
	"log/slog"
	"path"
	"sort"
	"strings"

	"codescope/internal/scan"
	"codescope/internal/security"
)

const largestFilesLimit = 5

// Calculator derives the metrics summary for a snapshot.
type Calculator struct {
	est     *Estimator
	weights Weights
	log     *slog.Logger
}

// NewCalculator creates a Calculator.
func NewCalculator(weights Weights, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	return &Calculator{est: NewEstimator(), weights: weights, log: logger}
}

// Calculate builds the summary. The security result feeds the quality
// score deductions.
func (c *Calculator) Calculate(snap *scan.Snapshot, sec security.Result) Summary {
	summary := Summary{
		TotalFiles:       len(snap.Files),
		FilesByExtension: make(map[string]int),
	}

	var complexityTotal, complexityFiles, longFiles int

	for _, f := range snap.Files {
		summary.TotalLines += f.Lines
		summary.CodeLines += countCodeLines(f)

		if ext := strings.ToLower(path.Ext(f.Path)); ext != "" {
			summary.FilesByExtension[ext]++
		}
		if IsTestFile(f.Path) {
			summary.TestFiles++
		}
		if f.Lines > c.weights.LongFileLineThreshold {
			longFiles++
		}
		if n, ok := c.est.FileComplexity(f); ok {
			complexityTotal += n
			complexityFiles++
		}
	}

	if complexityFiles > 0 {
		summary.ComplexityAvg = float64(complexityTotal) / float64(complexityFiles)
	}
	if len(summary.FilesByExtension) == 0 {
		summary.FilesByExtension = nil
	}

	summary.LargestFiles = largestFiles(snap)
	summary.QualityScore = c.qualityScore(summary, sec, longFiles)

	c.log.Debug("metrics complete",
		"files", summary.TotalFiles,
		"quality", summary.QualityScore,
		"complexityParsed", c.est.Available())
	return summary
}

// qualityScore starts from 100 and applies deductions for complexity,
// security findings and oversized files, clamped to [0, 100].
func (c *Calculator) qualityScore(summary Summary, sec security.Result, longFiles int) float64 {
	score := 100.0

	if summary.ComplexityAvg > 10 {
		score -= (summary.ComplexityAvg - 10) * c.weights.ComplexityPenalty
	}

	for _, issue := range sec.Issues {
		switch issue.Severity {
		case security.SeverityHigh:
			score -= c.weights.SecurityHighPenalty
		case security.SeverityMedium:
			score -= c.weights.SecurityMedPenalty
		case security.SeverityLow:
			score -= c.weights.SecurityLowPenalty
		}
	}

	score -= float64(longFiles) * c.weights.LongFilePenalty

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// IsTestFile reports whether a path looks like a test by the usual
// per-language conventions.
func IsTestFile(relPath string) bool {
	base := path.Base(relPath)
	switch {
	case strings.HasSuffix(base, "_test.go"),
		strings.HasPrefix(base, "test_") && strings.HasSuffix(base, ".py"),
		strings.HasSuffix(base, "_test.py"),
		strings.HasSuffix(base, ".test.js"), strings.HasSuffix(base, ".test.ts"),
		strings.HasSuffix(base, ".spec.js"), strings.HasSuffix(base, ".spec.ts"),
		base == "conftest.py":
		return true
	}
	for _, dir := range []string{"tests/", "test/", "__tests__/", "spec/"} {
		if strings.HasPrefix(relPath, dir) || strings.Contains(relPath, "/"+dir) {
			return true
		}
	}
	return false
}

func countCodeLines(rec scan.FileRecord) int {
	lines := strings.Split(string(rec.Content), "\n")
	count := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			continue
		}
		count++
	}
	return count
}

func largestFiles(snap *scan.Snapshot) []FileSize {
	sizes := make([]FileSize, 0, len(snap.Files))
	for _, f := range snap.Files {
		sizes = append(sizes, FileSize{Path: f.Path, Lines: f.Lines})
	}
	sort.Slice(sizes, func(i, j int) bool {
		if sizes[i].Lines != sizes[j].Lines {
			return sizes[i].Lines > sizes[j].Lines
		}
		return sizes[i].Path < sizes[j].Path
	})
	if len(sizes) > largestFilesLimit {
		sizes = sizes[:largestFilesLimit]
	}
	return sizes
}
