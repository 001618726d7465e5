// Package security scans snapshot files for hardcoded secrets,
// dangerous calls and weak crypto, and checks declared dependencies
// against a vulnerability catalog.
package security

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"codescope/internal/deps"
	"codescope/internal/scan"
)

// Options controls the scanner.
type Options struct {
	// MinEntropy overrides per-pattern entropy floors when higher.
	MinEntropy float64
	// CatalogPath points at a custom vulnerability catalog. Empty uses
	// the embedded default.
	CatalogPath string
	Logger      *slog.Logger
}

// Scanner finds security issues in a snapshot.
type Scanner struct {
	patterns []Pattern
	catalog  *Catalog
	opts     Options
	log      *slog.Logger
}

// NewScanner creates a Scanner. The catalog loads eagerly so a broken
// catalog surfaces before any scan runs.
func NewScanner(opts Options) (*Scanner, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	catalog, err := LoadCatalog(opts.CatalogPath)
	if err != nil {
		return nil, err
	}

	return &Scanner{
		patterns: BuiltinPatterns,
		catalog:  catalog,
		opts:     opts,
		log:      opts.Logger,
	}, nil
}

// Scan runs every sub-scan and returns findings sorted by severity
// descending, then file, line and rule.
func (s *Scanner) Scan(snap *scan.Snapshot, dependencies []deps.Dependency) Result {
	var issues []Issue

	for _, f := range snap.Files {
		issues = append(issues, s.ScanFile(f)...)
	}
	issues = append(issues, s.ScanDependencies(dependencies)...)

	return BuildResult(issues)
}

// BuildResult sorts issues into the canonical order and attaches the
// summary. Callers that fan out per file merge through this.
func BuildResult(issues []Issue) Result {
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Severity.Weight() != issues[j].Severity.Weight() {
			return issues[i].Severity.Weight() > issues[j].Severity.Weight()
		}
		if issues[i].File != issues[j].File {
			return issues[i].File < issues[j].File
		}
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Rule < issues[j].Rule
	})

	return Result{Issues: issues, Summary: buildSummary(issues)}
}

// ScanFile runs the pattern scans over a single file. Results are
// unordered until BuildResult.
func (s *Scanner) ScanFile(rec scan.FileRecord) []Issue {
	var issues []Issue

	sc := bufio.NewScanner(bytes.NewReader(rec.Content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for sc.Scan() {
		lineNum++
		line := sc.Text()

		// Minified or encoded content, not worth pattern noise.
		if len(line) > 1000 {
			continue
		}

		for i := range s.patterns {
			p := &s.patterns[i]
			if !patternApplies(p, rec.Path) {
				continue
			}

			match := p.Regex.FindStringSubmatchIndex(line)
			if match == nil {
				continue
			}

			var value string
			if len(match) >= 4 && match[2] >= 0 {
				value = line[match[2]:match[3]]
			} else {
				value = line[match[0]:match[1]]
			}

			if p.Category == CategorySecret {
				minEntropy := p.MinEntropy
				if s.opts.MinEntropy > minEntropy {
					minEntropy = s.opts.MinEntropy
				}
				if p.MinEntropy > 0 && ShannonEntropy(value) < minEntropy {
					continue
				}
				if isLikelyPlaceholder(line, value) {
					continue
				}
			}

			issues = append(issues, Issue{
				Severity:    p.Severity,
				Category:    p.Category,
				Rule:        p.Name,
				Description: p.Description,
				File:        rec.Path,
				Line:        lineNum,
				Match:       redact(value, 4),
			})
		}
	}

	return issues
}

// ScanDependencies checks declared dependencies against the catalog.
func (s *Scanner) ScanDependencies(dependencies []deps.Dependency) []Issue {
	var issues []Issue
	for _, dep := range dependencies {
		vuln, ok := s.catalog.Match(dep)
		if !ok {
			continue
		}
		issues = append(issues, Issue{
			Severity: vuln.Severity,
			Category: CategoryVulnerableDep,
			Rule:     vuln.Advisory,
			Description: fmt.Sprintf("%s %s is affected by %s: %s",
				dep.Name, dep.Version, vuln.Advisory, vuln.Description),
			File: dep.Manifest,
		})
	}
	return issues
}

func patternApplies(p *Pattern, relPath string) bool {
	if len(p.Extensions) == 0 {
		return true
	}
	base := path.Base(relPath)
	ext := strings.ToLower(path.Ext(base))
	// .env, .env.local and friends count as env files.
	if strings.HasPrefix(base, ".env") {
		ext = ".env"
	}
	for _, e := range p.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// isLikelyPlaceholder filters values that are documentation stand-ins
// rather than live credentials.
func isLikelyPlaceholder(line, value string) bool {
	lineLower := strings.ToLower(line)
	for _, indicator := range []string{
		"example", "sample", "placeholder", "dummy", "changeme",
		"your_", "<your", "xxx", "fixme", "todo", "fake", "mock",
	} {
		if strings.Contains(lineLower, indicator) {
			return true
		}
	}

	valueLower := strings.ToLower(value)
	return strings.HasPrefix(valueLower, "example") ||
		strings.HasPrefix(valueLower, "test") ||
		strings.Contains(valueLower, "xxxxxxxx") ||
		valueLower == "true" || valueLower == "false" || valueLower == "none" || valueLower == "null"
}

// redact keeps a short prefix and stars the rest.
func redact(s string, keepPrefix int) string {
	if len(s) <= keepPrefix {
		return strings.Repeat("*", len(s))
	}
	n := len(s) - keepPrefix
	if n > 20 {
		n = 20
	}
	return s[:keepPrefix] + strings.Repeat("*", n)
}

func buildSummary(issues []Issue) Summary {
	summary := Summary{Total: len(issues)}
	if len(issues) == 0 {
		return summary
	}

	summary.BySeverity = make(map[Severity]int)
	files := make(map[string]struct{})
	for _, issue := range issues {
		summary.BySeverity[issue.Severity]++
		if issue.File != "" {
			files[issue.File] = struct{}{}
		}
	}
	summary.FilesAffected = len(files)
	return summary
}
