//go:build !cgo

package metrics

import (
	"path"
	"regexp"
	"strings"

	"codescope/internal/scan"
)

// Estimator approximates cyclomatic complexity by counting branch
// keywords. Used when tree-sitter is unavailable without CGO.
type Estimator struct{}

// NewEstimator creates a keyword-count estimator.
func NewEstimator() *Estimator { return &Estimator{} }

// Available reports whether real parsing backs the estimates.
func (e *Estimator) Available() bool { return false }

var branchKeywords = map[string]*regexp.Regexp{
	".py": regexp.MustCompile(`(?m)^\s*(?:if|elif|for|while|except)\b|\b(?:and|or)\b`),
	".js": regexp.MustCompile(`\b(?:if|for|while|case|catch)\b|\?|&&|\|\|`),
	".ts": regexp.MustCompile(`\b(?:if|for|while|case|catch)\b|\?|&&|\|\|`),
	".go": regexp.MustCompile(`\b(?:if|for|case|select)\b|&&|\|\|`),
}

// FileComplexity returns the estimated complexity of a file, or false
// when the language is unsupported.
func (e *Estimator) FileComplexity(rec scan.FileRecord) (int, bool) {
	ext := strings.ToLower(path.Ext(rec.Path))
	switch ext {
	case ".jsx", ".mjs", ".cjs":
		ext = ".js"
	}
	re, ok := branchKeywords[ext]
	if !ok {
		return 0, false
	}
	return 1 + len(re.FindAllString(string(rec.Content), -1)), true
}
