package export

import (
	"fmt"
	"sort"
	"strings"

	"codescope/internal/analyzer"
)

// RenderMarkdown renders a human-readable report. Collections keep
// the order they carry on the report, so output is deterministic.
func RenderMarkdown(report *analyzer.Report) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Project Analysis: %s\n\n", report.Root)
	fmt.Fprintf(&b, "- Run: `%s`\n", report.RunID)
	fmt.Fprintf(&b, "- Started: %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- Files: %d (%d skipped)\n", report.TotalFiles, len(report.SkippedFiles))
	fmt.Fprintf(&b, "- Quality score: %.1f/100\n\n", report.Metrics.QualityScore)

	if len(report.Languages.Languages) > 0 {
		b.WriteString("## Languages\n\n")
		b.WriteString("| Language | Files | Lines |\n|---|---|---|\n")
		for _, l := range report.Languages.Languages {
			fmt.Fprintf(&b, "| %s | %d | %d |\n", l.Name, l.FileCount, l.LineCount)
		}
		if report.Languages.Unclassified > 0 {
			fmt.Fprintf(&b, "\n%d files unclassified.\n", report.Languages.Unclassified)
		}
		b.WriteString("\n")
	}

	if len(report.Frameworks) > 0 {
		b.WriteString("## Frameworks\n\n")
		for _, f := range report.Frameworks {
			fmt.Fprintf(&b, "- **%s** (%s, %s confidence)\n", f.Name, f.Category, f.Confidence)
		}
		b.WriteString("\n")
	}

	if n := len(report.Dependencies.Dependencies); n > 0 {
		b.WriteString("## Dependencies\n\n")
		byEcosystem := make(map[string]int)
		for _, d := range report.Dependencies.Dependencies {
			byEcosystem[string(d.Ecosystem)]++
		}
		ecosystems := make([]string, 0, len(byEcosystem))
		for eco := range byEcosystem {
			ecosystems = append(ecosystems, eco)
		}
		sort.Strings(ecosystems)
		fmt.Fprintf(&b, "%d declared dependencies", n)
		parts := make([]string, 0, len(ecosystems))
		for _, eco := range ecosystems {
			parts = append(parts, fmt.Sprintf("%s: %d", eco, byEcosystem[eco]))
		}
		fmt.Fprintf(&b, " (%s).\n\n", strings.Join(parts, ", "))
	}

	if len(report.API.Endpoints) > 0 {
		b.WriteString("## API Endpoints\n\n")
		b.WriteString("| Method | Path | Handler | Source |\n|---|---|---|---|\n")
		for _, ep := range report.API.Endpoints {
			fmt.Fprintf(&b, "| %s | `%s` | %s | %s |\n", ep.Method, ep.Path, ep.Handler, ep.SourceFile)
		}
		b.WriteString("\n")
	}

	if len(report.Database.Tables) > 0 {
		b.WriteString("## Database\n\n")
		if report.Database.ORMFramework != "" {
			fmt.Fprintf(&b, "ORM: %s\n\n", report.Database.ORMFramework)
		}
		for _, table := range report.Database.Tables {
			fmt.Fprintf(&b, "- `%s` (%s, %d columns)\n", table.Name, table.Model, len(table.Columns))
		}
		if n := len(report.Database.Migrations); n > 0 {
			fmt.Fprintf(&b, "\n%d migrations.\n", n)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Security\n\n")
	if report.Security.Summary.Total == 0 {
		b.WriteString("No issues found.\n\n")
	} else {
		fmt.Fprintf(&b, "%d issues in %d files.\n\n",
			report.Security.Summary.Total, report.Security.Summary.FilesAffected)
		b.WriteString("| Severity | Rule | Location |\n|---|---|---|\n")
		for _, issue := range report.Security.Issues {
			location := issue.File
			if issue.Line > 0 {
				location = fmt.Sprintf("%s:%d", issue.File, issue.Line)
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", issue.Severity, issue.Rule, location)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Metrics\n\n")
	fmt.Fprintf(&b, "- Total lines: %d (%d code)\n", report.Metrics.TotalLines, report.Metrics.CodeLines)
	fmt.Fprintf(&b, "- Test files: %d\n", report.Metrics.TestFiles)
	fmt.Fprintf(&b, "- Average complexity: %.2f\n", report.Metrics.ComplexityAvg)
	if len(report.Metrics.LargestFiles) > 0 {
		b.WriteString("- Largest files:\n")
		for _, f := range report.Metrics.LargestFiles {
			fmt.Fprintf(&b, "  - %s (%d lines)\n", f.Path, f.Lines)
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(&b, "\n## Warnings\n\n")
		for _, w := range report.Warnings {
			if w.Path != "" {
				fmt.Fprintf(&b, "- [%s] %s: %s\n", w.Phase, w.Path, w.Message)
			} else {
				fmt.Fprintf(&b, "- [%s] %s\n", w.Phase, w.Message)
			}
		}
	}

	return []byte(b.String())
}
